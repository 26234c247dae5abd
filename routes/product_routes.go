package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/ashishchaudhary2105/ShopSphere/controller"
	"github.com/ashishchaudhary2105/ShopSphere/middleware"
	"github.com/ashishchaudhary2105/ShopSphere/model"
)

func RegisterProductRoutes(app *fiber.App, db *gorm.DB, auth fiber.Handler) {
	pc := &controller.ProductController{DB: db}
	seller := middleware.RoleRequired(model.RoleSeller, model.RoleAdmin)

	api := app.Group("/api/v1")
	p := api.Group("/products")

	p.Get("/", pc.List)
	p.Get("/mine", auth, seller, pc.Mine)
	p.Get("/:id", pc.Get)
	p.Post("/", auth, seller, pc.Create)
	p.Put("/:id", auth, seller, pc.Update)
	p.Delete("/:id", auth, seller, pc.Delete)
}
