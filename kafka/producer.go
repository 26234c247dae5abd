package kafka

import (
	"encoding/json"
	"log"
	"time"

	"github.com/IBM/sarama"

	"github.com/ashishchaudhary2105/ShopSphere/model"
)

// Producer publishes order lifecycle events. A nil *Producer drops
// every publish, so order placement never depends on the broker.
type Producer struct {
	producer sarama.SyncProducer
}

func NewProducer(broker string) *Producer {
	if broker == "" {
		log.Println("Kafka disabled, no broker configured")
		return nil
	}

	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll

	var producer sarama.SyncProducer
	var err error

	for i := 1; i <= 10; i++ {
		producer, err = sarama.NewSyncProducer([]string{broker}, config)
		if err == nil {
			log.Println("Kafka producer initialized")
			return &Producer{producer: producer}
		}

		log.Printf("Waiting for Kafka... (%d/10) Error: %v", i, err)
		time.Sleep(5 * time.Second)
	}

	log.Printf("Kafka unavailable, order events will not be published: %v", err)
	return nil
}

func (p *Producer) publish(topic string, event interface{}) {
	if p == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", topic, err)
		return
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Value: sarama.ByteEncoder(data),
	}

	if _, _, err := p.producer.SendMessage(msg); err != nil {
		log.Printf("Failed to send %s Kafka message: %v", topic, err)
		return
	}

	log.Printf("Published %s event: %s", topic, string(data))
}

func (p *Producer) PublishOrderPlaced(order *model.Order) {
	p.publish("order.placed", map[string]interface{}{
		"event_type": "order.placed",
		"data": map[string]interface{}{
			"order_id":     order.ID,
			"order_number": order.Number(),
			"user_id":      order.UserID,
			"total_price":  order.TotalPrice,
			"placed_at":    order.CreatedAt.Format(time.RFC3339),
		},
	})
}

func (p *Producer) PublishOrderPaid(order *model.Order) {
	paidAt := ""
	if order.PaidAt != nil {
		paidAt = order.PaidAt.Format(time.RFC3339)
	}
	p.publish("order.paid", map[string]interface{}{
		"event_type": "order.paid",
		"data": map[string]interface{}{
			"order_id": order.ID,
			"user_id":  order.UserID,
			"paid_at":  paidAt,
		},
	})
}

func (p *Producer) PublishOrderDelivered(order *model.Order) {
	deliveredAt := ""
	if order.DeliveredAt != nil {
		deliveredAt = order.DeliveredAt.Format(time.RFC3339)
	}
	p.publish("order.delivered", map[string]interface{}{
		"event_type": "order.delivered",
		"data": map[string]interface{}{
			"order_id":     order.ID,
			"user_id":      order.UserID,
			"delivered_at": deliveredAt,
		},
	})
}
