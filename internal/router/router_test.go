package router

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riascho/Budget-Project/internal/envelopes"
	"github.com/riascho/Budget-Project/internal/transactions"
)

// testApp wires the full route table against repos with no live pool. Only
// requests that are rejected before any store work can run here; everything
// touching Postgres is covered by the TEST_DATABASE_URL-gated repo tests.
func testApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	r := &Router{
		Envelopes:    envelopes.NewHandler(envelopes.NewRepo(nil)),
		Transactions: transactions.NewHandler(transactions.NewRepo(nil)),
	}
	r.RegisterRoutes(app)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string, header map[string]string) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var parsed map[string]interface{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &parsed), "body: %s", raw)
	}
	return resp.StatusCode, parsed
}

func TestCreateEnvelopeValidation(t *testing.T) {
	app := testApp()

	tests := []struct {
		name string
		body string
	}{
		{name: "missing title", body: `{"budget": 100}`},
		{name: "missing budget", body: `{"title": "Test"}`},
		{name: "blank title", body: `{"title": "  ", "budget": 100}`},
		{name: "zero budget", body: `{"title": "Test", "budget": 0}`},
		{name: "negative budget", body: `{"title": "Test", "budget": -10}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := doJSON(t, app, http.MethodPost, "/envelopes", tt.body, nil)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.NotEmpty(t, body["message"])
		})
	}
}

func TestUpdateEnvelopeValidation(t *testing.T) {
	app := testApp()

	status, body := doJSON(t, app, http.MethodPut, "/envelopes/1", `{}`, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["message"], "'title' (string) or 'budget' (number)")

	status, _ = doJSON(t, app, http.MethodPut, "/envelopes/1", `{"title": ""}`, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestUpdateEnvelopeRejectsNegativeBudget(t *testing.T) {
	app := testApp()

	status, body := doJSON(t, app, http.MethodPut, "/envelopes/1", `{"budget": -50}`, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Budget cannot be negative!", body["message"])
	assert.Equal(t, "-50", body["budget"])
}

func TestNonNumericIDsReportNotFound(t *testing.T) {
	app := testApp()

	tests := []struct {
		method  string
		path    string
		body    string
		message string
	}{
		{method: http.MethodGet, path: "/envelopes/abc", message: "Couldn't find Envelope id: abc"},
		{method: http.MethodDelete, path: "/envelopes/0", message: "Couldn't find Envelope id: 0"},
		{method: http.MethodGet, path: "/transactions/xyz", message: "Couldn't find Transaction id: xyz"},
		{method: http.MethodPut, path: "/transactions/-1", body: `{"amount": 5}`, message: "Couldn't find Transaction id: -1"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			status, body := doJSON(t, app, tt.method, tt.path, tt.body, nil)
			assert.Equal(t, http.StatusNotFound, status)
			assert.Equal(t, tt.message, body["message"])
		})
	}
}

func TestMakeTransactionValidation(t *testing.T) {
	app := testApp()

	tests := []struct {
		name string
		body string
	}{
		{name: "empty body", body: `{}`},
		{name: "missing amount", body: `{"date": "2024-05-17", "description": "coffee"}`},
		{name: "missing description", body: `{"date": "2024-05-17", "amount": -3}`},
		{name: "blank description", body: `{"date": "2024-05-17", "description": " ", "amount": -3}`},
		{name: "bad date", body: `{"date": "17.05.2024", "description": "coffee", "amount": -3}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := doJSON(t, app, http.MethodPost, "/envelopes/1", tt.body, nil)
			assert.Equal(t, http.StatusBadRequest, status)
		})
	}
}

func TestUpdateTransactionValidation(t *testing.T) {
	app := testApp()

	status, body := doJSON(t, app, http.MethodPut, "/transactions/1", `{}`, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["message"], "to update transaction")

	status, _ = doJSON(t, app, http.MethodPut, "/transactions/1", `{"description": "   "}`, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = doJSON(t, app, http.MethodPut, "/transactions/1", `{"date": "not-a-date"}`, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestTransferAmountValidation(t *testing.T) {
	app := testApp()

	status, body := doJSON(t, app, http.MethodPost, "/envelopes/1/2", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["message"], "'amount'")

	status, _ = doJSON(t, app, http.MethodPost, "/envelopes/1/2", "", map[string]string{"Amount": "abc"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = doJSON(t, app, http.MethodPost, "/envelopes/1/2", "", map[string]string{"Amount": "0"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = doJSON(t, app, http.MethodPost, "/envelopes/abc/2", "", map[string]string{"Amount": "10"})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestUnknownEndpointFallback(t *testing.T) {
	app := testApp()

	status, body := doJSON(t, app, http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Endpoint '/nope' not Found", body["message"])
}
