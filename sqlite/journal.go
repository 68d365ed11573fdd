package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/etnz/investor"
	"github.com/shopspring/decimal"
)

// Journal is a settlement Journal stored in the settlements table.
type Journal struct {
	db  *sql.DB
	now func() time.Time
}

var _ investor.Journal = (*Journal)(nil)

func NewJournal(db *sql.DB) *Journal {
	return &Journal{db: db, now: time.Now}
}

// Begin inserts the intent record.
func (j *Journal) Begin(ctx context.Context, s investor.Settlement) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO settlements
		(id, account, side, symbol, quantity, unit_price, total, currency, state, note, created, updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Account.String(), string(s.Side), string(s.Symbol), s.Quantity,
		s.UnitPrice.Decimal().String(), s.Total.Decimal().String(), s.Total.Currency(),
		string(s.State), s.Note, s.Created.UTC(), s.Updated.UTC(),
	)
	return err
}

// Finish moves a record to its final state.
func (j *Journal) Finish(ctx context.Context, id string, state investor.SettlementState, note string) error {
	res, err := j.db.ExecContext(ctx, `UPDATE settlements SET state = ?, note = ?, updated = ? WHERE id = ?`,
		string(state), note, j.now().UTC(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("unknown settlement %q", id)
	}
	return nil
}

// Unfinished returns pending and inconsistent records, oldest first.
func (j *Journal) Unfinished(ctx context.Context) ([]investor.Settlement, error) {
	return j.query(ctx, `WHERE state IN (?, ?) ORDER BY id`, string(investor.Pending), string(investor.Inconsistent))
}

// Get returns a single record.
func (j *Journal) Get(ctx context.Context, id string) (investor.Settlement, error) {
	list, err := j.query(ctx, `WHERE id = ?`, id)
	if err != nil {
		return investor.Settlement{}, err
	}
	if len(list) == 0 {
		return investor.Settlement{}, sql.ErrNoRows
	}
	return list[0], nil
}

// List returns the last limit records of account, most recent first.
func (j *Journal) List(ctx context.Context, account investor.AccountID, limit int) ([]investor.Settlement, error) {
	return j.query(ctx, `WHERE account = ? ORDER BY id DESC LIMIT ?`, account.String(), limit)
}

func (j *Journal) query(ctx context.Context, where string, args ...any) ([]investor.Settlement, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, account, side, symbol, quantity, unit_price, total, currency, state, note, created, updated
		FROM settlements `+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []investor.Settlement
	for rows.Next() {
		var (
			s                         investor.Settlement
			account, side, sym, state string
			unit, total, currency     string
		)
		if err := rows.Scan(&s.ID, &account, &side, &sym, &s.Quantity, &unit, &total, &currency, &state, &s.Note, &s.Created, &s.Updated); err != nil {
			return nil, err
		}
		if s.Account, err = investor.ParseAccountID(account); err != nil {
			return nil, fmt.Errorf("settlement %s: %w", s.ID, err)
		}
		u, err := decimal.NewFromString(unit)
		if err != nil {
			return nil, fmt.Errorf("settlement %s: %w", s.ID, err)
		}
		t, err := decimal.NewFromString(total)
		if err != nil {
			return nil, fmt.Errorf("settlement %s: %w", s.ID, err)
		}
		s.Side = investor.Side(side)
		s.Symbol = investor.Symbol(sym)
		s.State = investor.SettlementState(state)
		s.UnitPrice = investor.M(u, currency)
		s.Total = investor.M(t, currency)
		out = append(out, s)
	}
	return out, rows.Err()
}
