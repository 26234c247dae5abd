package controller

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/ashishchaudhary2105/ShopSphere/cache"
	"github.com/ashishchaudhary2105/ShopSphere/kafka"
	"github.com/ashishchaudhary2105/ShopSphere/model"
	"github.com/ashishchaudhary2105/ShopSphere/service"
)

const userOrdersTTL = 5 * time.Minute

type OrderController struct {
	Service  *service.OrderService
	Cache    *cache.Cache
	Producer *kafka.Producer
	// Debug exposes internal error detail in 500 responses.
	Debug bool
}

func NewOrderController(db *gorm.DB, c *cache.Cache, p *kafka.Producer, debug bool) *OrderController {
	return &OrderController{
		Service:  service.NewOrderService(db),
		Cache:    c,
		Producer: p,
		Debug:    debug,
	}
}

// Place handles POST /order/.
func (oc *OrderController) Place(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var req service.PlaceOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "invalid request body",
		})
	}

	order, err := oc.Service.PlaceOrder(c.Context(), userID, req)
	if err != nil {
		return oc.renderError(c, err)
	}

	oc.Cache.Del(c.Context(), cache.UserOrdersKey(userID))
	oc.Producer.PublishOrderPlaced(order)

	return c.Status(201).JSON(fiber.Map{
		"success":     true,
		"message":     "Order placed successfully",
		"data":        order,
		"orderNumber": order.Number(),
	})
}

// ListUser handles GET /order/user.
func (oc *OrderController) ListUser(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)
	key := cache.UserOrdersKey(userID)

	var cached []model.Order
	if oc.Cache.GetJSON(c.Context(), key, &cached) {
		return c.JSON(fiber.Map{"success": true, "data": cached})
	}

	orders, err := oc.Service.UserOrders(c.Context(), userID)
	if err != nil {
		return oc.renderError(c, err)
	}

	oc.Cache.SetJSON(c.Context(), key, orders, userOrdersTTL)
	return c.JSON(fiber.Map{"success": true, "data": orders})
}

// ListSeller handles GET /order/seller.
func (oc *OrderController) ListSeller(c *fiber.Ctx) error {
	sellerID := c.Locals("user_id").(uint)

	orders, err := oc.Service.SellerOrders(c.Context(), sellerID)
	if err != nil {
		return oc.renderError(c, err)
	}

	message := "Orders retrieved successfully"
	if len(orders) == 0 {
		message = "No orders found for seller's products"
	}
	return c.JSON(fiber.Map{"success": true, "data": orders, "message": message})
}

// MarkPaid handles PATCH /order/:id/pay.
func (oc *OrderController) MarkPaid(c *fiber.Ctx) error {
	var body struct {
		PaymentResult model.PaymentResult `json:"paymentResult"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "invalid request body",
		})
	}

	order, err := oc.Service.MarkPaid(c.Context(), c.Params("id"), body.PaymentResult)
	if err != nil {
		return oc.renderError(c, err)
	}

	oc.Cache.Del(c.Context(), cache.UserOrdersKey(order.UserID))
	oc.Producer.PublishOrderPaid(order)

	return c.JSON(fiber.Map{"success": true, "data": order})
}

// MarkDelivered handles PATCH /order/:id/deliver.
func (oc *OrderController) MarkDelivered(c *fiber.Ctx) error {
	order, err := oc.Service.MarkDelivered(c.Context(), c.Params("id"))
	if err != nil {
		return oc.renderError(c, err)
	}

	oc.Cache.Del(c.Context(), cache.UserOrdersKey(order.UserID))
	oc.Producer.PublishOrderDelivered(order)

	return c.JSON(fiber.Map{"success": true, "data": order})
}

func (oc *OrderController) renderError(c *fiber.Ctx, err error) error {
	var validation *service.ValidationError
	if errors.As(err, &validation) {
		body := fiber.Map{"success": false, "message": validation.Message}
		if validation.Missing != nil {
			body["missingFields"] = validation.Missing
		}
		if validation.ValidMethods != nil {
			body["validPaymentMethods"] = validation.ValidMethods
		}
		return c.Status(400).JSON(body)
	}

	var notFound *service.NotFoundError
	if errors.As(err, &notFound) {
		body := fiber.Map{"success": false, "message": notFound.Message}
		if notFound.MissingProducts != nil {
			body["missingProducts"] = notFound.MissingProducts
		}
		return c.Status(404).JSON(body)
	}

	var outOfStock *service.OutOfStockError
	if errors.As(err, &outOfStock) {
		return c.Status(400).JSON(fiber.Map{
			"success":         false,
			"message":         "Some items are out of stock",
			"outOfStockItems": outOfStock.Items,
		})
	}

	var conflict *service.ConflictError
	if errors.As(err, &conflict) {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": conflict.Message,
		})
	}

	body := fiber.Map{"success": false, "message": "Failed to process order"}
	if oc.Debug {
		body["error"] = err.Error()
	}
	return c.Status(500).JSON(body)
}
