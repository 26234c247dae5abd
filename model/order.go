package model

import (
	"database/sql/driver"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPending    = "Pending"
	StatusProcessing = "Processing"
	StatusShipped    = "Shipped"
	StatusDelivered  = "Delivered"
	StatusCancelled  = "Cancelled"
	StatusRefunded   = "Refunded"
)

const (
	PaymentPayPal         = "PayPal"
	PaymentStripe         = "Stripe"
	PaymentCreditCard     = "Credit Card"
	PaymentCashOnDelivery = "Cash on Delivery"
	PaymentBankTransfer   = "Bank Transfer"
)

// PaymentMethods returns the accepted payment method names.
func PaymentMethods() []string {
	return []string{
		PaymentPayPal,
		PaymentStripe,
		PaymentCreditCard,
		PaymentCashOnDelivery,
		PaymentBankTransfer,
	}
}

func ValidPaymentMethod(m string) bool {
	for _, v := range PaymentMethods() {
		if m == v {
			return true
		}
	}
	return false
}

// OrderItem is an immutable snapshot of one product line at order time.
// Later product edits must not alter it.
type OrderItem struct {
	ProductID uint   `json:"product"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Price     int64  `json:"price"`
	Image     string `json:"image"`
	Variant   string `json:"variant,omitempty"`
}

type OrderItemList []OrderItem

func (l OrderItemList) Value() (driver.Value, error) { return jsonValue(l) }
func (l *OrderItemList) Scan(value interface{}) error { return jsonScan(l, value) }

// PaymentResult is set once when payment confirmation arrives.
type PaymentResult struct {
	PaymentID    string `json:"paymentId,omitempty"`
	Status       string `json:"status,omitempty"`
	UpdateTime   string `json:"updateTime,omitempty"`
	EmailAddress string `json:"emailAddress,omitempty"`
}

func (r PaymentResult) Value() (driver.Value, error) { return jsonValue(r) }
func (r *PaymentResult) Scan(value interface{}) error { return jsonScan(r, value) }

// Order is immutable after creation except for the explicit paid and
// delivered transitions. TotalPrice is fixed at creation and never
// recomputed.
type Order struct {
	ID              string        `gorm:"primaryKey;size:32" json:"id"`
	UserID          uint          `gorm:"index" json:"userId"`
	OrderItems      OrderItemList `gorm:"type:jsonb" json:"orderItems"`
	ShippingAddress Address       `gorm:"type:jsonb" json:"shippingAddress"`
	PaymentMethod   string        `json:"paymentMethod"`
	PaymentResult   PaymentResult `gorm:"type:jsonb" json:"paymentResult"`
	ItemsPrice      int64         `json:"itemsPrice"`
	TaxPrice        int64         `json:"taxPrice"`
	ShippingPrice   int64         `json:"shippingPrice"`
	TotalPrice      int64         `json:"totalPrice"`
	IsPaid          bool          `json:"isPaid"`
	PaidAt          *time.Time    `json:"paidAt,omitempty"`
	IsDelivered     bool          `json:"isDelivered"`
	DeliveredAt     *time.Time    `json:"deliveredAt,omitempty"`
	Status          string        `json:"status"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = strings.ReplaceAll(uuid.NewString(), "-", "")
	}
	return nil
}

// Number derives the human-readable order number from the id.
func (o *Order) Number() string {
	id := o.ID
	if len(id) > 8 {
		id = id[:8]
	}
	return "ORD-" + strings.ToUpper(id)
}
