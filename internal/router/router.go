package router

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/riascho/Budget-Project/internal/apperr"
	"github.com/riascho/Budget-Project/internal/envelopes"
	"github.com/riascho/Budget-Project/internal/transactions"
)

type Router struct {
	Envelopes    *envelopes.Handler
	Transactions *transactions.Handler
	WriteLimit   fiber.Handler
}

func (r *Router) RegisterRoutes(app *fiber.App) {
	limited := func(h fiber.Handler) []fiber.Handler {
		if r.WriteLimit == nil {
			return []fiber.Handler{h}
		}
		return []fiber.Handler{r.WriteLimit, h}
	}

	app.Get("/envelopes", r.Envelopes.List)
	app.Post("/envelopes", limited(r.Envelopes.Create)...)
	app.Get("/envelopes/:id/transactions", r.Transactions.ListByEnvelope)
	app.Get("/envelopes/:id", r.Envelopes.Get)
	app.Put("/envelopes/:id", limited(r.Envelopes.Update)...)
	app.Delete("/envelopes/:id", limited(r.Envelopes.Delete)...)
	app.Post("/envelopes/:from/:to", limited(r.Envelopes.Transfer)...)
	app.Post("/envelopes/:id", limited(r.Transactions.Create)...)

	app.Get("/transactions", r.Transactions.List)
	app.Get("/transactions/:id", r.Transactions.Get)
	app.Put("/transactions/:id", limited(r.Transactions.Update)...)
	app.Delete("/transactions/:id", limited(r.Transactions.Delete)...)

	// catch-all for unknown endpoints
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Endpoint '" + c.OriginalURL() + "' not Found",
		})
	})
}

// ErrorHandler maps the apperr taxonomy onto HTTP statuses in one place.
// Business-rule failures carry their numeric context into the response body;
// infrastructure failures are logged and hidden behind a generic 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		if ae.Kind == apperr.KindInfrastructure {
			log.Printf("infrastructure error: %v", ae)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "internal server error"})
		}
		body := fiber.Map{"message": ae.Message}
		for k, v := range ae.Context {
			body[k] = v
		}
		return c.Status(ae.HTTPStatus()).JSON(body)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{"message": fiberErr.Message})
	}

	log.Printf("unhandled error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "internal server error"})
}
