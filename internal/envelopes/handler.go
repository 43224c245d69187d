package envelopes

import (
	"strconv"
	"strings"

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

type createEnvelopeRequest struct {
	Title  string           `json:"title"`
	Budget *decimal.Decimal `json:"budget"`
}

type updateEnvelopeRequest struct {
	Title  *string          `json:"title"`
	Budget *decimal.Decimal `json:"budget"`
}

func (h *Handler) Create(c *fiber.Ctx) error {
	var req createEnvelopeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || req.Budget == nil {
		return apperr.Validation("You need to send 'title' (string) and 'budget' (number) properties in the request body!")
	}
	if !req.Budget.IsPositive() {
		return apperr.Validation("'budget' must be greater than zero!")
	}

	env, err := h.Repo.Create(c.UserContext(), req.Title, money.Round(*req.Budget))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(env)
}

func (h *Handler) List(c *fiber.Ctx) error {
	items, err := h.Repo.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(items)
}

func (h *Handler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	env, err := h.Repo.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(env)
}

func (h *Handler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req updateEnvelopeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if req.Title == nil && req.Budget == nil {
		return apperr.Validation("You need to send a 'title' (string) or 'budget' (number) property in the request body!")
	}
	if req.Title != nil {
		trimmed := strings.TrimSpace(*req.Title)
		if trimmed == "" {
			return apperr.Validation("'title' must not be empty!")
		}
		req.Title = &trimmed
	}
	if req.Budget != nil {
		if req.Budget.IsNegative() {
			return apperr.Forbidden("Budget cannot be negative!", map[string]interface{}{
				"budget": *req.Budget,
			})
		}
		rounded := money.Round(*req.Budget)
		req.Budget = &rounded
	}

	env, err := h.Repo.Update(c.UserContext(), id, req.Title, req.Budget)
	if err != nil {
		return err
	}
	return c.JSON(env)
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	n, err := h.Repo.Delete(c.UserContext(), id)
	if err != nil {
		return err
	}
	message := "Deleted " + strconv.FormatInt(n, 10) + " Rows."
	if n == 1 {
		message = "Deleted 1 Row."
	}
	return c.JSON(fiber.Map{"deleted": n, "message": message})
}

// Transfer moves budget between two envelopes. The amount comes from the
// Amount header, with a JSON body {"amount": ...} as fallback; its absolute
// value is used.
func (h *Handler) Transfer(c *fiber.Ctx) error {
	fromID, err := parseID(c, "from")
	if err != nil {
		return err
	}
	toID, err := parseID(c, "to")
	if err != nil {
		return err
	}

	amount, err := transferAmount(c)
	if err != nil {
		return err
	}

	from, to, err := h.Repo.Transfer(c.UserContext(), fromID, toID, amount)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Transferred " + money.USD(amount) + " from envelope " + strings.ToUpper(from.Title) + " to envelope " + strings.ToUpper(to.Title),
		"from":    from,
		"to":      to,
	})
}

func transferAmount(c *fiber.Ctx) (decimal.Decimal, error) {
	raw := strings.TrimSpace(c.Get("Amount"))
	if raw == "" {
		var body struct {
			Amount *decimal.Decimal `json:"amount"`
		}
		if err := c.BodyParser(&body); err == nil && body.Amount != nil {
			raw = body.Amount.String()
		}
	}
	if raw == "" {
		return decimal.Zero, apperr.Validation("You need to send an 'amount' in the request header or body!")
	}
	amount, err := money.Parse(raw)
	if err != nil {
		return decimal.Zero, apperr.Validation("'amount' must be a number!")
	}
	amount = amount.Abs()
	if amount.IsZero() {
		return decimal.Zero, apperr.Validation("'amount' must not be zero!")
	}
	return amount, nil
}

// parseID resolves a numeric path parameter. Anything that is not a positive
// integer cannot reference a stored row, so it reports the same NotFound as an
// unknown id.
func parseID(c *fiber.Ctx, param string) (int64, error) {
	raw := c.Params(param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.NotFound("Envelope", raw)
	}
	return id, nil
}
