package controller

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/ashishchaudhary2105/ShopSphere/model"
)

type ProductController struct {
	DB *gorm.DB
}

func (pc *ProductController) List(c *fiber.Ctx) error {
	var products []model.Product
	if err := pc.DB.Find(&products).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "message": "Failed to fetch products"})
	}
	return c.JSON(fiber.Map{"success": true, "products": products})
}

func (pc *ProductController) Get(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "message": "invalid id"})
	}

	var p model.Product
	if err := pc.DB.First(&p, id).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"success": false, "message": "Product not found"})
	}
	return c.JSON(fiber.Map{"success": true, "product": p})
}

// Mine lists the products created by the authenticated seller.
func (pc *ProductController) Mine(c *fiber.Ctx) error {
	sellerID := c.Locals("user_id").(uint)

	var products []model.Product
	if err := pc.DB.Where("created_by = ?", sellerID).Find(&products).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "message": "Failed to fetch products"})
	}
	return c.JSON(fiber.Map{"success": true, "products": products})
}

func (pc *ProductController) Create(c *fiber.Ctx) error {
	sellerID := c.Locals("user_id").(uint)

	var in model.Product
	if err := c.BodyParser(&in); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "message": "invalid payload"})
	}
	if in.Name == "" || in.Description == "" || in.Price == 0 || len(in.Images) == 0 {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "Fill all the required details",
		})
	}

	in.ID = 0
	in.CreatedBy = sellerID
	if err := pc.DB.Create(&in).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"message": "Some error occurred while creating the product",
		})
	}

	return c.Status(201).JSON(fiber.Map{
		"success": true,
		"message": "Product created successfully",
		"product": in,
	})
}

func (pc *ProductController) Update(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "message": "invalid id"})
	}

	var product model.Product
	if err := pc.DB.First(&product, id).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"success": false, "message": "Product not found"})
	}

	var input model.Product
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "message": "invalid payload"})
	}

	product.Name = input.Name
	product.Description = input.Description
	product.Categories = input.Categories
	product.Price = input.Price
	product.Stock = input.Stock
	product.Images = input.Images

	if err := pc.DB.Save(&product).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "message": "Failed to update product"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Product updated successfully",
		"product": product,
	})
}

func (pc *ProductController) Delete(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "message": "invalid id"})
	}

	var p model.Product
	if err := pc.DB.First(&p, id).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"success": false, "message": "Product not found"})
	}
	if err := pc.DB.Delete(&p).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "message": "Failed to delete product"})
	}

	return c.JSON(fiber.Map{"success": true, "message": "Product deleted successfully"})
}
