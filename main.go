package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/ashishchaudhary2105/ShopSphere/cache"
	"github.com/ashishchaudhary2105/ShopSphere/kafka"
	"github.com/ashishchaudhary2105/ShopSphere/middleware"
	"github.com/ashishchaudhary2105/ShopSphere/model"
	"github.com/ashishchaudhary2105/ShopSphere/routes"
	"github.com/ashishchaudhary2105/ShopSphere/service"
)

var DB *gorm.DB

func initDB() {
	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "postgres")
	pass := getEnv("DB_PASS", "postgres")
	name := getEnv("DB_NAME", "shopsphere")

	dsn := "host=" + host + " user=" + user + " password=" + pass +
		" dbname=" + name + " port=" + port +
		" sslmode=disable TimeZone=UTC"

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect db:", err)
	}

	if err := DB.AutoMigrate(&model.User{}, &model.Product{}, &model.Category{}, &model.Order{}); err != nil {
		log.Fatal(err)
	}
}

func main() {
	initDB()

	rdb := cache.Connect(getEnv("REDIS_ADDR", ""))
	broker := getEnv("KAFKA_BROKER", "")
	producer := kafka.NewProducer(broker)

	jwtSecret := getEnv("JWT_SECRET", "dev-secret")
	debug := getEnv("APP_ENV", "development") != "production"
	auth := middleware.AuthRequired(jwtSecret)

	consumer := kafka.NewConsumer(broker)
	consumer.Consume("payment.succeeded", kafka.PaymentSucceededHandler(service.NewOrderService(DB)))

	app := fiber.New()
	app.Use(logger.New())

	routes.RegisterUserRoutes(app, DB, jwtSecret, auth)
	routes.RegisterProductRoutes(app, DB, auth)
	routes.RegisterCategoryRoutes(app, DB, auth)
	routes.RegisterCartRoutes(app, DB, auth)
	routes.RegisterOrderRoutes(app, DB, rdb, producer, auth, debug)

	addr := ":" + getEnv("PORT", "3000")
	log.Println("HTTP server running on", addr)
	if err := app.Listen(addr); err != nil {
		log.Fatal("fiber error:", err)
	}
}

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
