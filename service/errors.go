package service

// MissingFields reports which required order fields were absent.
type MissingFields struct {
	OrderItems      bool `json:"orderItems"`
	ShippingAddress bool `json:"shippingAddress"`
	PaymentMethod   bool `json:"paymentMethod"`
	ItemsPrice      bool `json:"itemsPrice"`
}

func (m MissingFields) Any() bool {
	return m.OrderItems || m.ShippingAddress || m.PaymentMethod || m.ItemsPrice
}

// ValidationError covers malformed or missing request fields.
type ValidationError struct {
	Message      string
	Missing      *MissingFields
	ValidMethods []string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError enumerates product ids that could not be resolved.
type NotFoundError struct {
	Message         string
	MissingProducts []uint
}

func (e *NotFoundError) Error() string { return e.Message }

type OutOfStockItem struct {
	ProductID         uint   `json:"product"`
	Name              string `json:"name"`
	AvailableStock    int    `json:"availableStock"`
	RequestedQuantity int    `json:"requestedQuantity"`
}

// OutOfStockError lists every line item whose quantity exceeds stock.
// A single insufficient item blocks the whole order.
type OutOfStockError struct {
	Items []OutOfStockItem
}

func (e *OutOfStockError) Error() string { return "some items are out of stock" }

// ConflictError covers duplicate or concurrent-update conflicts.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }
