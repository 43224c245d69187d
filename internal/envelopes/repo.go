package envelopes

import (
	"context"
	"errors"
	"log"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/riascho/Budget-Project/internal/apperr"
	"github.com/riascho/Budget-Project/internal/db"
	"github.com/riascho/Budget-Project/internal/money"
)

type Repo struct {
	Pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{Pool: pool}
}

// LockForUpdate reads an envelope row with FOR UPDATE so concurrent protocols
// against the same envelope serialize instead of racing. Must run inside a
// db.WithTx scope.
func LockForUpdate(ctx context.Context, tx pgx.Tx, id int64) (Envelope, error) {
	var e Envelope
	err := tx.QueryRow(ctx,
		`SELECT id, title, budget, balance FROM envelopes WHERE id = $1 FOR UPDATE`,
		id,
	).Scan(&e.ID, &e.Title, &e.Budget, &e.Balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return Envelope{}, apperr.NotFound("Envelope", strconv.FormatInt(id, 10))
	}
	if err != nil {
		return Envelope{}, apperr.Infrastructure("lock envelope row", err)
	}
	return e, nil
}

func (r *Repo) Create(ctx context.Context, title string, budget decimal.Decimal) (Envelope, error) {
	var e Envelope
	err := r.Pool.QueryRow(ctx,
		`INSERT INTO envelopes (title, budget, balance)
		 VALUES ($1, $2, $2)
		 RETURNING id, title, budget, balance`,
		title, budget,
	).Scan(&e.ID, &e.Title, &e.Budget, &e.Balance)
	if err != nil {
		return Envelope{}, apperr.Infrastructure("insert envelope", err)
	}
	return e, nil
}

func (r *Repo) List(ctx context.Context) ([]Envelope, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT id, title, budget, balance FROM envelopes ORDER BY id`)
	if err != nil {
		return nil, apperr.Infrastructure("list envelopes", err)
	}
	defer rows.Close()

	out := make([]Envelope, 0)
	for rows.Next() {
		var e Envelope
		if err := rows.Scan(&e.ID, &e.Title, &e.Budget, &e.Balance); err != nil {
			return nil, apperr.Infrastructure("scan envelope", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Infrastructure("list envelopes", err)
	}
	return out, nil
}

func (r *Repo) Get(ctx context.Context, id int64) (Envelope, error) {
	var e Envelope
	err := r.Pool.QueryRow(ctx,
		`SELECT id, title, budget, balance FROM envelopes WHERE id = $1`,
		id,
	).Scan(&e.ID, &e.Title, &e.Budget, &e.Balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return Envelope{}, apperr.NotFound("Envelope", strconv.FormatInt(id, 10))
	}
	if err != nil {
		return Envelope{}, apperr.Infrastructure("get envelope", err)
	}
	return e, nil
}

// Update changes title and/or budget. The budget may be lowered to exactly
// zero but a negative budget is rejected without writing.
func (r *Repo) Update(ctx context.Context, id int64, title *string, budget *decimal.Decimal) (Envelope, error) {
	var updated Envelope
	err := db.WithTx(ctx, r.Pool, func(tx pgx.Tx) error {
		e, err := LockForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if title != nil {
			e.Title = *title
		}
		if budget != nil {
			if budget.IsNegative() {
				return apperr.Forbidden("Budget cannot be negative!", map[string]interface{}{
					"budget": *budget,
				})
			}
			e.Budget = *budget
		}
		if _, err := tx.Exec(ctx,
			`UPDATE envelopes SET title = $1, budget = $2 WHERE id = $3`,
			e.Title, e.Budget, e.ID,
		); err != nil {
			return apperr.Infrastructure("update envelope", err)
		}
		updated = e
		return nil
	})
	if err != nil {
		return Envelope{}, err
	}
	return updated, nil
}

// Delete removes the envelope row; dependent transactions go with it via the
// ON DELETE CASCADE constraint. Returns the number of envelope rows deleted.
func (r *Repo) Delete(ctx context.Context, id int64) (int64, error) {
	ct, err := r.Pool.Exec(ctx, `DELETE FROM envelopes WHERE id = $1`, id)
	if err != nil {
		return 0, apperr.Infrastructure("delete envelope", err)
	}
	n := ct.RowsAffected()
	if n == 0 {
		return 0, apperr.NotFound("Envelope", strconv.FormatInt(id, 10))
	}
	if n > 1 {
		log.Printf("store anomaly: deleting envelope %d removed %d rows", id, n)
	}
	return n, nil
}

// Transfer moves budget (not balance) from one envelope to another. Both rows
// are locked in ascending-id order so two opposing transfers cannot deadlock,
// and either both budgets change or neither does.
func (r *Repo) Transfer(ctx context.Context, fromID, toID int64, amount decimal.Decimal) (Envelope, Envelope, error) {
	var from, to Envelope
	err := db.WithTx(ctx, r.Pool, func(tx pgx.Tx) error {
		first, second := fromID, toID
		if second < first {
			first, second = second, first
		}

		locked := make(map[int64]Envelope, 2)
		for _, id := range []int64{first, second} {
			if _, ok := locked[id]; ok {
				continue
			}
			e, err := LockForUpdate(ctx, tx, id)
			if err != nil {
				return err
			}
			locked[id] = e
		}
		from, to = locked[fromID], locked[toID]

		newFromBudget, ok := from.ApplyBudgetDelta(amount.Neg())
		if !ok {
			return apperr.Forbidden(
				"Not enough budget in envelope "+from.Title+" to transfer "+money.USD(amount)+"! Current budget: "+money.USD(from.Budget),
				map[string]interface{}{
					"budget":    from.Budget,
					"amount":    amount,
					"shortfall": amount.Sub(from.Budget),
				})
		}
		newToBudget, _ := to.ApplyBudgetDelta(amount)
		if fromID == toID {
			// self-transfer nets to zero
			newFromBudget, newToBudget = from.Budget, to.Budget
		}

		if _, err := tx.Exec(ctx,
			`UPDATE envelopes SET budget = $1 WHERE id = $2`, newFromBudget, fromID,
		); err != nil {
			return apperr.Infrastructure("update source budget", err)
		}
		if _, err := tx.Exec(ctx,
			`UPDATE envelopes SET budget = $1 WHERE id = $2`, newToBudget, toID,
		); err != nil {
			return apperr.Infrastructure("update target budget", err)
		}
		from.Budget = newFromBudget
		to.Budget = newToBudget
		return nil
	})
	if err != nil {
		return Envelope{}, Envelope{}, err
	}
	return from, to, nil
}
