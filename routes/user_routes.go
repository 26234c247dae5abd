package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/ashishchaudhary2105/ShopSphere/controller"
)

func RegisterUserRoutes(app *fiber.App, db *gorm.DB, jwtSecret string, auth fiber.Handler) {
	ac := &controller.AuthController{DB: db, JWTSecret: jwtSecret}

	api := app.Group("/api/v1")
	u := api.Group("/user")

	u.Post("/signup", ac.Signup)
	u.Post("/signin", ac.Signin)
	u.Get("/me", auth, ac.Me)
}
