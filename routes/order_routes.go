package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/ashishchaudhary2105/ShopSphere/cache"
	"github.com/ashishchaudhary2105/ShopSphere/controller"
	"github.com/ashishchaudhary2105/ShopSphere/kafka"
	"github.com/ashishchaudhary2105/ShopSphere/middleware"
	"github.com/ashishchaudhary2105/ShopSphere/model"
)

func RegisterOrderRoutes(app *fiber.App, db *gorm.DB, c *cache.Cache, p *kafka.Producer, auth fiber.Handler, debug bool) {
	oc := controller.NewOrderController(db, c, p, debug)

	api := app.Group("/api/v1")
	o := api.Group("/order")

	o.Post("/", auth, oc.Place)
	o.Get("/user", auth, oc.ListUser)
	o.Get("/seller", auth, middleware.RoleRequired(model.RoleSeller), oc.ListSeller)
	o.Patch("/:id/pay", auth, oc.MarkPaid)
	o.Patch("/:id/deliver", auth, middleware.RoleRequired(model.RoleSeller), oc.MarkDelivered)
}
