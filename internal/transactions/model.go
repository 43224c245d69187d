package transactions

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// Transaction is one signed monetary event against an envelope's balance:
// positive amounts credit, negative amounts debit.
type Transaction struct {
	ID          int64           `json:"id"`
	Date        time.Time       `json:"-"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	EnvelopeID  int64           `json:"envelope_id"`
}

func (t Transaction) MarshalJSON() ([]byte, error) {
	type alias Transaction
	return json.Marshal(struct {
		alias
		Date string `json:"date"`
	}{alias(t), t.Date.Format(dateLayout)})
}

// UpdateFields carries the optional fields of an update request; nil means
// leave the column untouched.
type UpdateFields struct {
	Date        *time.Time
	Amount      *decimal.Decimal
	Description *string
}
