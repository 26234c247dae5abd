package controller

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/ashishchaudhary2105/ShopSphere/model"
)

type CategoryController struct {
	DB *gorm.DB
}

func (cc *CategoryController) Create(c *fiber.Ctx) error {
	var in model.Category
	if err := c.BodyParser(&in); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "message": "invalid payload"})
	}
	if in.Name == "" {
		return c.Status(400).JSON(fiber.Map{"success": false, "message": "name is required"})
	}

	var existing model.Category
	err := cc.DB.Where("name = ?", in.Name).First(&existing).Error
	if err == nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "Category with this name already exists",
		})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(500).JSON(fiber.Map{"success": false, "message": "Failed to create category"})
	}

	in.ID = 0
	if err := cc.DB.Create(&in).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "message": "Failed to create category"})
	}

	return c.Status(201).JSON(fiber.Map{
		"success":  true,
		"message":  "Category created successfully",
		"category": in,
	})
}

func (cc *CategoryController) List(c *fiber.Ctx) error {
	var categories []model.Category
	if err := cc.DB.Find(&categories).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "message": "Failed to fetch categories"})
	}
	return c.JSON(fiber.Map{"success": true, "categories": categories})
}

func (cc *CategoryController) Get(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "message": "invalid id"})
	}

	var category model.Category
	if err := cc.DB.First(&category, id).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"success": false, "message": "Category not found"})
	}
	return c.JSON(fiber.Map{"success": true, "category": category})
}

func (cc *CategoryController) Update(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "message": "invalid id"})
	}

	var category model.Category
	if err := cc.DB.First(&category, id).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"success": false, "message": "Category not found"})
	}

	var input model.Category
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "message": "invalid payload"})
	}

	category.Name = input.Name
	category.Description = input.Description
	category.ParentID = input.ParentID

	if err := cc.DB.Save(&category).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "message": "Failed to update category"})
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"message":  "Category updated successfully",
		"category": category,
	})
}

func (cc *CategoryController) Delete(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "message": "invalid id"})
	}

	var category model.Category
	if err := cc.DB.First(&category, id).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"success": false, "message": "Category not found"})
	}
	if err := cc.DB.Delete(&category).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "message": "Failed to delete category"})
	}

	return c.JSON(fiber.Map{"success": true, "message": "Category deleted successfully"})
}
