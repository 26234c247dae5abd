package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/ashishchaudhary2105/ShopSphere/controller"
)

func RegisterCartRoutes(app *fiber.App, db *gorm.DB, auth fiber.Handler) {
	cc := &controller.CartController{DB: db}

	api := app.Group("/api/v1")
	cart := api.Group("/cart")

	cart.Get("/", auth, cc.Get)
	cart.Post("/", auth, cc.Add)
	cart.Put("/:productId", auth, cc.UpdateItem)
	cart.Delete("/clear", auth, cc.Clear)
	cart.Delete("/:productId", auth, cc.Remove)
}
