package transactions

import (
	"context"
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/riascho/Budget-Project/internal/apperr"
	"github.com/riascho/Budget-Project/internal/db"
	"github.com/riascho/Budget-Project/internal/envelopes"
	"github.com/riascho/Budget-Project/internal/money"
)

type Repo struct {
	Pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{Pool: pool}
}

const selectColumns = `id, date, amount, description, envelope_id`

// lockForUpdate reads a transaction row with FOR UPDATE inside an open
// transaction scope, or reports NotFound.
func lockForUpdate(ctx context.Context, tx pgx.Tx, id int64) (Transaction, error) {
	var t Transaction
	err := tx.QueryRow(ctx,
		`SELECT `+selectColumns+` FROM transactions WHERE id = $1 FOR UPDATE`,
		id,
	).Scan(&t.ID, &t.Date, &t.Amount, &t.Description, &t.EnvelopeID)
	if errors.Is(err, pgx.ErrNoRows) {
		return Transaction{}, apperr.NotFound("Transaction", strconv.FormatInt(id, 10))
	}
	if err != nil {
		return Transaction{}, apperr.Infrastructure("lock transaction row", err)
	}
	return t, nil
}

// Create applies amount to the envelope's balance and inserts the transaction
// row as one atomic unit. The envelope row stays locked for the whole scope,
// so concurrent transactions against the same envelope serialize. A debit that
// would drive the balance negative rolls everything back and reports the
// shortfall; no row is inserted and the balance is untouched.
func (r *Repo) Create(ctx context.Context, envelopeID int64, date time.Time, description string, amount decimal.Decimal) (Transaction, decimal.Decimal, error) {
	var created Transaction
	var newBalance decimal.Decimal

	err := db.WithTx(ctx, r.Pool, func(tx pgx.Tx) error {
		env, err := envelopes.LockForUpdate(ctx, tx, envelopeID)
		if err != nil {
			return err
		}

		next, ok := env.ApplyBalanceDelta(amount)
		if !ok {
			shortfall := next.Abs()
			return apperr.Forbidden(
				"Extracting "+money.USD(amount.Abs())+" will exceed your current balance by "+money.USD(shortfall)+"! Please access less or increase balance!",
				map[string]interface{}{
					"balance":   env.Balance,
					"amount":    amount,
					"shortfall": shortfall,
				})
		}

		if _, err := tx.Exec(ctx,
			`UPDATE envelopes SET balance = $1 WHERE id = $2`, next, env.ID,
		); err != nil {
			return apperr.Infrastructure("update envelope balance", err)
		}
		if err := tx.QueryRow(ctx,
			`INSERT INTO transactions (date, amount, description, envelope_id)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id`,
			date, amount, description, envelopeID,
		).Scan(&created.ID); err != nil {
			return apperr.Infrastructure("insert transaction", err)
		}

		created.Date = date
		created.Amount = amount
		created.Description = description
		created.EnvelopeID = envelopeID
		newBalance = next
		return nil
	})
	if err != nil {
		return Transaction{}, decimal.Zero, err
	}
	return created, newBalance, nil
}

// Update changes any of date, amount, description. When the amount changes,
// the envelope's balance is recomputed by reversing the old delta and applying
// the new one; a result below zero aborts the whole update.
func (r *Repo) Update(ctx context.Context, id int64, fields UpdateFields) (Transaction, error) {
	var updated Transaction
	err := db.WithTx(ctx, r.Pool, func(tx pgx.Tx) error {
		cur, err := lockForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		if fields.Amount != nil && !fields.Amount.Equal(cur.Amount) {
			env, err := envelopes.LockForUpdate(ctx, tx, cur.EnvelopeID)
			if err != nil {
				return err
			}
			newBalance := env.Balance.Sub(cur.Amount).Add(*fields.Amount)
			if newBalance.IsNegative() {
				return apperr.Forbidden(
					"Cannot change amount, because envelope balance will be negative!",
					map[string]interface{}{
						"balance":           env.Balance,
						"old_amount":        cur.Amount,
						"new_amount":        *fields.Amount,
						"resulting_balance": newBalance,
					})
			}
			if _, err := tx.Exec(ctx,
				`UPDATE envelopes SET balance = $1 WHERE id = $2`, newBalance, env.ID,
			); err != nil {
				return apperr.Infrastructure("update envelope balance", err)
			}
			cur.Amount = *fields.Amount
		}
		if fields.Date != nil {
			cur.Date = *fields.Date
		}
		if fields.Description != nil {
			cur.Description = *fields.Description
		}

		if _, err := tx.Exec(ctx,
			`UPDATE transactions SET date = $1, amount = $2, description = $3 WHERE id = $4`,
			cur.Date, cur.Amount, cur.Description, cur.ID,
		); err != nil {
			return apperr.Infrastructure("update transaction", err)
		}
		updated = cur
		return nil
	})
	if err != nil {
		return Transaction{}, err
	}
	return updated, nil
}

// Delete reverses the transaction's effect on its envelope's balance and
// removes the row, atomically. Reversing a credit subtracts from the balance
// with no guard; a negative result means the stored state was already
// inconsistent, which is logged rather than failed.
func (r *Repo) Delete(ctx context.Context, id int64) (Transaction, int64, error) {
	var deleted Transaction
	var count int64
	err := db.WithTx(ctx, r.Pool, func(tx pgx.Tx) error {
		cur, err := lockForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		env, err := envelopes.LockForUpdate(ctx, tx, cur.EnvelopeID)
		if err != nil {
			return err
		}

		newBalance := env.Balance.Sub(cur.Amount)
		if newBalance.IsNegative() {
			log.Printf("envelope %d balance goes negative (%s) reversing transaction %d; stored balance was inconsistent",
				env.ID, newBalance.StringFixed(2), cur.ID)
		}
		if _, err := tx.Exec(ctx,
			`UPDATE envelopes SET balance = $1 WHERE id = $2`, newBalance, env.ID,
		); err != nil {
			return apperr.Infrastructure("update envelope balance", err)
		}

		ct, err := tx.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, cur.ID)
		if err != nil {
			return apperr.Infrastructure("delete transaction", err)
		}
		count = ct.RowsAffected()
		if count == 0 {
			return apperr.NotFound("Transaction", strconv.FormatInt(id, 10))
		}
		deleted = cur
		return nil
	})
	if err != nil {
		return Transaction{}, 0, err
	}
	return deleted, count, nil
}

func (r *Repo) List(ctx context.Context) ([]Transaction, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT `+selectColumns+` FROM transactions ORDER BY id`)
	if err != nil {
		return nil, apperr.Infrastructure("list transactions", err)
	}
	return collect(rows)
}

// ListByEnvelope returns one envelope's transactions, oldest first, after
// confirming the envelope exists.
func (r *Repo) ListByEnvelope(ctx context.Context, envelopeID int64) ([]Transaction, error) {
	var exists bool
	if err := r.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM envelopes WHERE id = $1)`, envelopeID,
	).Scan(&exists); err != nil {
		return nil, apperr.Infrastructure("check envelope", err)
	}
	if !exists {
		return nil, apperr.NotFound("Envelope", strconv.FormatInt(envelopeID, 10))
	}

	rows, err := r.Pool.Query(ctx,
		`SELECT `+selectColumns+` FROM transactions WHERE envelope_id = $1 ORDER BY id`,
		envelopeID)
	if err != nil {
		return nil, apperr.Infrastructure("list envelope transactions", err)
	}
	return collect(rows)
}

func (r *Repo) Get(ctx context.Context, id int64) (Transaction, error) {
	var t Transaction
	err := r.Pool.QueryRow(ctx,
		`SELECT `+selectColumns+` FROM transactions WHERE id = $1`, id,
	).Scan(&t.ID, &t.Date, &t.Amount, &t.Description, &t.EnvelopeID)
	if errors.Is(err, pgx.ErrNoRows) {
		return Transaction{}, apperr.NotFound("Transaction", strconv.FormatInt(id, 10))
	}
	if err != nil {
		return Transaction{}, apperr.Infrastructure("get transaction", err)
	}
	return t, nil
}

func collect(rows pgx.Rows) ([]Transaction, error) {
	defer rows.Close()
	out := make([]Transaction, 0)
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.Date, &t.Amount, &t.Description, &t.EnvelopeID); err != nil {
			return nil, apperr.Infrastructure("scan transaction", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Infrastructure("read transactions", err)
	}
	return out, nil
}
