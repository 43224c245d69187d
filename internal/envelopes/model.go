package envelopes

import "github.com/shopspring/decimal"

// Envelope is a budget bucket. Budget is the allocation ceiling, balance the
// spendable remainder; the two are tracked independently and balance only
// moves through the transaction protocols.
type Envelope struct {
	ID      int64           `json:"id"`
	Title   string          `json:"title"`
	Budget  decimal.Decimal `json:"budget"`
	Balance decimal.Decimal `json:"balance"`
}

// ApplyBalanceDelta computes balance + amount. Credits always pass; a debit
// whose magnitude exceeds the balance is rejected. The would-be value is
// returned either way so a rejection can report the shortfall.
func (e Envelope) ApplyBalanceDelta(amount decimal.Decimal) (decimal.Decimal, bool) {
	next := e.Balance.Add(amount)
	if amount.IsNegative() && next.IsNegative() {
		return next, false
	}
	return next, true
}

// ApplyBudgetDelta computes budget + amount. A budget may be drained to
// exactly zero but never below it.
func (e Envelope) ApplyBudgetDelta(amount decimal.Decimal) (decimal.Decimal, bool) {
	next := e.Budget.Add(amount)
	if next.IsNegative() {
		return next, false
	}
	return next, true
}
