package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ashishchaudhary2105/ShopSphere/model"
	"gorm.io/gorm"
)

// OrderService implements order placement and the order status
// transitions. Stock decrement and order insert run inside one
// database transaction; the guarded decrement keeps concurrent
// placements from ever driving stock negative.
type OrderService struct {
	db *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

type PlaceOrderItem struct {
	ProductID uint   `json:"product"`
	Quantity  int    `json:"quantity"`
	Price     int64  `json:"price"`
	Variant   string `json:"variant,omitempty"`
}

type PlaceOrderRequest struct {
	OrderItems      []PlaceOrderItem `json:"orderItems"`
	ShippingAddress *model.Address   `json:"shippingAddress"`
	PaymentMethod   string           `json:"paymentMethod"`
	ItemsPrice      *int64           `json:"itemsPrice"`
	TaxPrice        int64            `json:"taxPrice"`
	ShippingPrice   int64            `json:"shippingPrice"`
}

// PlaceOrder validates the request, reserves stock and persists the
// order as one atomic unit. On success the user's cart is cleared
// outside the transaction, best effort.
func (s *OrderService) PlaceOrder(ctx context.Context, userID uint, req PlaceOrderRequest) (*model.Order, error) {
	missing := MissingFields{
		OrderItems:      len(req.OrderItems) == 0,
		ShippingAddress: req.ShippingAddress == nil || !req.ShippingAddress.Complete(),
		PaymentMethod:   req.PaymentMethod == "",
		ItemsPrice:      req.ItemsPrice == nil,
	}
	if missing.Any() {
		return nil, &ValidationError{Message: "required fields are missing", Missing: &missing}
	}
	for _, it := range req.OrderItems {
		if it.Quantity < 1 {
			return nil, &ValidationError{
				Message: fmt.Sprintf("quantity for product %d must be at least 1", it.ProductID),
			}
		}
	}
	if !model.ValidPaymentMethod(req.PaymentMethod) {
		return nil, &ValidationError{
			Message:      "invalid payment method",
			ValidMethods: model.PaymentMethods(),
		}
	}

	totalPrice := *req.ItemsPrice + req.TaxPrice + req.ShippingPrice

	var order model.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := make([]uint, 0, len(req.OrderItems))
		for _, it := range req.OrderItems {
			ids = append(ids, it.ProductID)
		}

		var products []model.Product
		if err := tx.Where("id IN ?", ids).Find(&products).Error; err != nil {
			return err
		}
		byID := make(map[uint]model.Product, len(products))
		for _, p := range products {
			byID[p.ID] = p
		}

		var missingIDs []uint
		for _, it := range req.OrderItems {
			if _, ok := byID[it.ProductID]; !ok {
				missingIDs = append(missingIDs, it.ProductID)
			}
		}
		if len(missingIDs) > 0 {
			return &NotFoundError{Message: "some products not found", MissingProducts: missingIDs}
		}

		var outOfStock []OutOfStockItem
		items := make(model.OrderItemList, 0, len(req.OrderItems))
		for _, it := range req.OrderItems {
			p := byID[it.ProductID]
			if p.Stock < it.Quantity {
				outOfStock = append(outOfStock, OutOfStockItem{
					ProductID:         p.ID,
					Name:              p.Name,
					AvailableStock:    p.Stock,
					RequestedQuantity: it.Quantity,
				})
				continue
			}
			image := ""
			if len(p.Images) > 0 {
				image = p.Images[0]
			}
			items = append(items, model.OrderItem{
				ProductID: p.ID,
				Name:      p.Name,
				Quantity:  it.Quantity,
				Price:     it.Price,
				Image:     image,
				Variant:   it.Variant,
			})
		}
		if len(outOfStock) > 0 {
			return &OutOfStockError{Items: outOfStock}
		}

		// Conditional decrement: if another placement got here first
		// the guard misses, the whole transaction rolls back and no
		// partial decrement survives.
		for _, it := range req.OrderItems {
			res := tx.Model(&model.Product{}).
				Where("id = ? AND stock >= ?", it.ProductID, it.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", it.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return &ConflictError{
					Message: fmt.Sprintf("stock for product %d changed while placing the order", it.ProductID),
				}
			}
		}

		now := time.Now().UTC()
		order = model.Order{
			UserID:          userID,
			OrderItems:      items,
			ShippingAddress: *req.ShippingAddress,
			PaymentMethod:   req.PaymentMethod,
			ItemsPrice:      *req.ItemsPrice,
			TaxPrice:        req.TaxPrice,
			ShippingPrice:   req.ShippingPrice,
			TotalPrice:      totalPrice,
			IsPaid:          req.PaymentMethod != model.PaymentCashOnDelivery,
			IsDelivered:     false,
			Status:          model.StatusPending,
		}
		if order.IsPaid {
			order.PaidAt = &now
		}
		return tx.Create(&order).Error
	})
	if err != nil {
		return nil, err
	}

	// Best effort: a failed cart clear must not fail the placement.
	if err := s.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		UpdateColumn("cart", model.CartItemList{}).Error; err != nil {
		log.Printf("failed to clear cart for user %d after order %s: %v", userID, order.ID, err)
	}

	return &order, nil
}

// MarkPaid moves an order to Processing and attaches the payment
// confirmation. Delivered orders reject it; status never moves back.
func (s *OrderService) MarkPaid(ctx context.Context, orderID string, result model.PaymentResult) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Message: "order not found"}
			}
			return err
		}
		if order.IsDelivered {
			return &ConflictError{Message: "order already delivered"}
		}
		now := time.Now().UTC()
		order.IsPaid = true
		order.PaidAt = &now
		order.PaymentResult = result
		order.Status = model.StatusProcessing
		return tx.Save(&order).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// MarkDelivered moves an order to Delivered.
func (s *OrderService) MarkDelivered(ctx context.Context, orderID string) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Message: "order not found"}
			}
			return err
		}
		now := time.Now().UTC()
		order.IsDelivered = true
		order.DeliveredAt = &now
		order.Status = model.StatusDelivered
		return tx.Save(&order).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// UserOrders returns the caller's orders, newest first.
func (s *OrderService) UserOrders(ctx context.Context, userID uint) ([]model.Order, error) {
	orders := []model.Order{}
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// SellerOrderUser is the projection of the buyer attached to a seller
// order view. Password and other internal fields are never included.
type SellerOrderUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// SellerOrder is one order restricted to the line items owned by the
// requesting seller.
type SellerOrder struct {
	model.Order
	User SellerOrderUser `json:"user"`
}

// SellerOrders returns orders containing at least one line item whose
// product was created by the seller, newest first. A seller with no
// products gets an empty list, not an error.
func (s *OrderService) SellerOrders(ctx context.Context, sellerID uint) ([]SellerOrder, error) {
	db := s.db.WithContext(ctx)

	var productIDs []uint
	if err := db.Model(&model.Product{}).
		Where("created_by = ?", sellerID).
		Pluck("id", &productIDs).Error; err != nil {
		return nil, err
	}
	result := []SellerOrder{}
	if len(productIDs) == 0 {
		return result, nil
	}
	owned := make(map[uint]bool, len(productIDs))
	for _, id := range productIDs {
		owned[id] = true
	}

	// Line items live in a jsonb column, so the containment filter runs
	// application side. See the repository notes in DESIGN.md.
	var orders []model.Order
	if err := db.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}

	matched := make([]model.Order, 0, len(orders))
	userIDs := make([]uint, 0, len(orders))
	for _, o := range orders {
		subset := make(model.OrderItemList, 0, len(o.OrderItems))
		for _, it := range o.OrderItems {
			if owned[it.ProductID] {
				subset = append(subset, it)
			}
		}
		if len(subset) == 0 {
			continue
		}
		o.OrderItems = subset
		matched = append(matched, o)
		userIDs = append(userIDs, o.UserID)
	}
	if len(matched) == 0 {
		return result, nil
	}

	var users []model.User
	if err := db.Where("id IN ?", userIDs).Find(&users).Error; err != nil {
		return nil, err
	}
	userByID := make(map[uint]model.User, len(users))
	for _, u := range users {
		userByID[u.ID] = u
	}

	for _, o := range matched {
		u := userByID[o.UserID]
		result = append(result, SellerOrder{
			Order: o,
			User:  SellerOrderUser{ID: u.ID, Username: u.Username, Email: u.Email},
		})
	}
	return result, nil
}
