package transactions

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/riascho/Budget-Project/internal/apperr"
	"github.com/riascho/Budget-Project/internal/money"
)

type Handler struct {
	Repo *Repo
}

func NewHandler(repo *Repo) *Handler {
	return &Handler{Repo: repo}
}

type createTransactionRequest struct {
	Date        string           `json:"date"`
	Description string           `json:"description"`
	Amount      *decimal.Decimal `json:"amount"`
}

type updateTransactionRequest struct {
	Date        *string          `json:"date"`
	Description *string          `json:"description"`
	Amount      *decimal.Decimal `json:"amount"`
}

// Create handles POST /envelopes/:id — money movement against one envelope.
func (h *Handler) Create(c *fiber.Ctx) error {
	envelopeID, err := parseID(c, "id", "Envelope")
	if err != nil {
		return err
	}

	var req createTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	req.Description = strings.TrimSpace(req.Description)
	if req.Date == "" || req.Description == "" || req.Amount == nil {
		return apperr.Validation("You need to send 'date', 'description' and 'amount' properties in the request body!")
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return apperr.Validation("'date' must be YYYY-MM-DD!")
	}

	txn, balance, err := h.Repo.Create(c.UserContext(), envelopeID, date, req.Description, money.Round(*req.Amount))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"transaction": txn,
		"balance":     balance,
	})
}

func (h *Handler) List(c *fiber.Ctx) error {
	items, err := h.Repo.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(items)
}

func (h *Handler) ListByEnvelope(c *fiber.Ctx) error {
	envelopeID, err := parseID(c, "id", "Envelope")
	if err != nil {
		return err
	}
	items, err := h.Repo.ListByEnvelope(c.UserContext(), envelopeID)
	if err != nil {
		return err
	}
	return c.JSON(items)
}

func (h *Handler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "Transaction")
	if err != nil {
		return err
	}
	txn, err := h.Repo.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(txn)
}

func (h *Handler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "Transaction")
	if err != nil {
		return err
	}

	var req updateTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if req.Date == nil && req.Description == nil && req.Amount == nil {
		return apperr.Validation("You need to send a 'description' (string) or 'amount' (number) or 'date' (string) property in the request body to update transaction!")
	}

	var fields UpdateFields
	if req.Description != nil {
		trimmed := strings.TrimSpace(*req.Description)
		if trimmed == "" {
			return apperr.Validation("'description' must not be empty!")
		}
		fields.Description = &trimmed
	}
	if req.Date != nil {
		date, err := time.Parse(dateLayout, *req.Date)
		if err != nil {
			return apperr.Validation("'date' must be YYYY-MM-DD!")
		}
		fields.Date = &date
	}
	if req.Amount != nil {
		rounded := money.Round(*req.Amount)
		fields.Amount = &rounded
	}

	txn, err := h.Repo.Update(c.UserContext(), id, fields)
	if err != nil {
		return err
	}
	return c.JSON(txn)
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "Transaction")
	if err != nil {
		return err
	}
	txn, n, err := h.Repo.Delete(c.UserContext(), id)
	if err != nil {
		return err
	}
	message := "Deleted " + strconv.FormatInt(n, 10) + " Rows."
	if n == 1 {
		message = "Deleted 1 Row."
	}
	return c.JSON(fiber.Map{
		"deleted":     n,
		"message":     message,
		"transaction": txn,
	})
}

func parseID(c *fiber.Ctx, param, entity string) (int64, error) {
	raw := c.Params(param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.NotFound(entity, raw)
	}
	return id, nil
}
