package apperr

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want int
	}{
		{name: "validation", err: Validation("bad input"), want: http.StatusBadRequest},
		{name: "not found", err: NotFound("Envelope", "7"), want: http.StatusNotFound},
		{name: "forbidden", err: Forbidden("no", nil), want: http.StatusForbidden},
		{name: "infrastructure", err: Infrastructure("query", errors.New("boom")), want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.HTTPStatus())
		})
	}
}

func TestNotFoundMessage(t *testing.T) {
	assert.Equal(t, "Couldn't find Envelope id: 7", NotFound("Envelope", "7").Message)
	assert.Equal(t, "Couldn't find Transaction id: abc", NotFound("Transaction", "abc").Message)
}

func TestInfrastructureWrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Infrastructure("lock envelope row", cause)

	require.ErrorIs(t, err, cause)
	assert.Equal(t, "lock envelope row failed: connection refused", err.Error())

	var ae *Error
	require.ErrorAs(t, error(err), &ae)
	assert.Equal(t, KindInfrastructure, ae.Kind)
}

func TestForbiddenCarriesContext(t *testing.T) {
	err := Forbidden("insufficient balance", map[string]interface{}{"shortfall": "100.00"})
	assert.Equal(t, "100.00", err.Context["shortfall"])
	assert.Equal(t, "insufficient balance", err.Error())
}
