package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/ashishchaudhary2105/ShopSphere/controller"
	"github.com/ashishchaudhary2105/ShopSphere/middleware"
	"github.com/ashishchaudhary2105/ShopSphere/model"
)

func RegisterCategoryRoutes(app *fiber.App, db *gorm.DB, auth fiber.Handler) {
	cc := &controller.CategoryController{DB: db}
	admin := middleware.RoleRequired(model.RoleSeller, model.RoleAdmin)

	api := app.Group("/api/v1")
	cat := api.Group("/category")

	cat.Get("/", cc.List)
	cat.Get("/:id", cc.Get)
	cat.Post("/", auth, admin, cc.Create)
	cat.Put("/:id", auth, admin, cc.Update)
	cat.Delete("/:id", auth, admin, cc.Delete)
}
