package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/riascho/Budget-Project/internal/config"
	"github.com/riascho/Budget-Project/internal/db"
	"github.com/riascho/Budget-Project/internal/envelopes"
	"github.com/riascho/Budget-Project/internal/router"
	"github.com/riascho/Budget-Project/internal/transactions"
)

func main() {
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	pool, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("error connecting to database: %v", err)
	}
	defer pool.Close()

	app := fiber.New(fiber.Config{
		ErrorHandler: router.ErrorHandler,
	})

	app.Use(router.CorsMiddleware(cfg.CORSOrigin))
	app.Use(requestLogger())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	envelopeRepo := envelopes.NewRepo(pool)
	transactionRepo := transactions.NewRepo(pool)

	r := &router.Router{
		Envelopes:    envelopes.NewHandler(envelopeRepo),
		Transactions: transactions.NewHandler(transactionRepo),
		WriteLimit:   router.RateLimitWrite(cfg.WriteLimitMax, cfg.WriteLimitWindow),
	}
	r.RegisterRoutes(app)

	log.Println("Listening on port", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}

func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		reqID := uuid.NewString()
		c.Locals("request_id", reqID)
		c.Set("X-Request-Id", reqID)

		err := c.Next()
		log.Printf("%s %s %s %d %s", reqID[:8], c.Method(), c.Path(), c.Response().StatusCode(), time.Since(start))
		return err
	}
}
