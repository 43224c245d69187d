package transactions

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionMarshalJSON(t *testing.T) {
	txn := Transaction{
		ID:          3,
		Date:        time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.RequireFromString("-19.99"),
		Description: "groceries",
		EnvelopeID:  1,
	}

	raw, err := json.Marshal(txn)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &got))

	assert.Equal(t, "2024-05-17", got["date"])
	assert.Equal(t, float64(3), got["id"])
	assert.Equal(t, "groceries", got["description"])
	assert.Equal(t, float64(1), got["envelope_id"])
}
