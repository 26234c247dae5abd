package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/ashishchaudhary2105/ShopSphere/model"
	"github.com/ashishchaudhary2105/ShopSphere/service"
)

// PaymentSucceededEvent is the payload published by the payment
// gateway integration.
type PaymentSucceededEvent struct {
	EventType string `json:"event_type"`
	Data      struct {
		OrderID      string `json:"order_id"`
		PaymentID    string `json:"payment_id"`
		Status       string `json:"status"`
		EmailAddress string `json:"email_address"`
		PaidAt       string `json:"paid_at"`
	} `json:"data"`
}

// PaymentSucceededHandler marks the referenced order paid.
func PaymentSucceededHandler(orders *service.OrderService) func([]byte) {
	return func(msg []byte) {
		var event PaymentSucceededEvent
		if err := json.Unmarshal(msg, &event); err != nil {
			log.Printf("invalid payment.succeeded payload: %v", err)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		result := model.PaymentResult{
			PaymentID:    event.Data.PaymentID,
			Status:       event.Data.Status,
			UpdateTime:   event.Data.PaidAt,
			EmailAddress: event.Data.EmailAddress,
		}

		order, err := orders.MarkPaid(ctx, event.Data.OrderID, result)
		if err != nil {
			var notFound *service.NotFoundError
			if errors.As(err, &notFound) {
				log.Printf("payment.succeeded for unknown order %s", event.Data.OrderID)
				return
			}
			log.Printf("failed to mark order %s paid: %v", event.Data.OrderID, err)
			return
		}

		log.Printf("order %s marked paid (payment_id=%s)", order.ID, event.Data.PaymentID)
	}
}
