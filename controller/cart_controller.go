package controller

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/ashishchaudhary2105/ShopSphere/model"
)

// CartController manages the cart stored on the user record. The order
// engine clears it after a successful placement.
type CartController struct {
	DB *gorm.DB
}

type cartEntry struct {
	Product  model.Product `json:"product"`
	Quantity int           `json:"quantity"`
	Variant  string        `json:"variant,omitempty"`
}

func (cc *CartController) loadUser(c *fiber.Ctx) (*model.User, error) {
	userID := c.Locals("user_id").(uint)
	var user model.User
	if err := cc.DB.First(&user, userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (cc *CartController) Get(c *fiber.Ctx) error {
	user, err := cc.loadUser(c)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "user not found"})
	}

	items := []cartEntry{}
	if len(user.Cart) > 0 {
		ids := make([]uint, 0, len(user.Cart))
		for _, it := range user.Cart {
			ids = append(ids, it.ProductID)
		}
		var products []model.Product
		if err := cc.DB.Where("id IN ?", ids).Find(&products).Error; err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch cart."})
		}
		byID := make(map[uint]model.Product, len(products))
		for _, p := range products {
			byID[p.ID] = p
		}
		for _, it := range user.Cart {
			if p, ok := byID[it.ProductID]; ok {
				items = append(items, cartEntry{Product: p, Quantity: it.Quantity, Variant: it.Variant})
			}
		}
	}

	return c.JSON(fiber.Map{"items": items})
}

func (cc *CartController) Add(c *fiber.Ctx) error {
	user, err := cc.loadUser(c)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "user not found"})
	}

	var body struct {
		ProductID uint   `json:"product"`
		Quantity  int    `json:"quantity"`
		Variant   string `json:"variant"`
	}
	if err := c.BodyParser(&body); err != nil || body.ProductID == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid productId"})
	}
	if body.Quantity < 1 {
		body.Quantity = 1
	}

	found := false
	for i, it := range user.Cart {
		if it.ProductID == body.ProductID {
			user.Cart[i].Quantity += body.Quantity
			found = true
			break
		}
	}
	if !found {
		var product model.Product
		if err := cc.DB.First(&product, body.ProductID).Error; err != nil {
			return c.Status(404).JSON(fiber.Map{"error": "Product not found"})
		}
		user.Cart = append(user.Cart, model.CartItem{
			ProductID: body.ProductID,
			Quantity:  body.Quantity,
			Variant:   body.Variant,
		})
	}

	if err := cc.DB.Model(user).UpdateColumn("cart", user.Cart).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to add to cart."})
	}
	return c.JSON(fiber.Map{"cart": user.Cart})
}

func (cc *CartController) UpdateItem(c *fiber.Ctx) error {
	user, err := cc.loadUser(c)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "user not found"})
	}

	productID, err := strconv.Atoi(c.Params("productId"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid productId"})
	}

	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := c.BodyParser(&body); err != nil || body.Quantity < 1 {
		return c.Status(400).JSON(fiber.Map{"error": "invalid quantity"})
	}

	found := false
	for i, it := range user.Cart {
		if it.ProductID == uint(productID) {
			user.Cart[i].Quantity = body.Quantity
			found = true
			break
		}
	}
	if !found {
		return c.Status(404).JSON(fiber.Map{"error": "Item not in cart"})
	}

	if err := cc.DB.Model(user).UpdateColumn("cart", user.Cart).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update cart item."})
	}
	return c.JSON(fiber.Map{"cart": user.Cart})
}

func (cc *CartController) Remove(c *fiber.Ctx) error {
	user, err := cc.loadUser(c)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "user not found"})
	}

	productID, err := strconv.Atoi(c.Params("productId"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid productId"})
	}

	next := make(model.CartItemList, 0, len(user.Cart))
	for _, it := range user.Cart {
		if it.ProductID != uint(productID) {
			next = append(next, it)
		}
	}
	user.Cart = next

	if err := cc.DB.Model(user).UpdateColumn("cart", user.Cart).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to remove from cart."})
	}
	return c.JSON(fiber.Map{"cart": user.Cart})
}

func (cc *CartController) Clear(c *fiber.Ctx) error {
	user, err := cc.loadUser(c)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "user not found"})
	}

	user.Cart = model.CartItemList{}
	if err := cc.DB.Model(user).UpdateColumn("cart", user.Cart).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to clear cart."})
	}
	return c.JSON(fiber.Map{"cart": user.Cart})
}
