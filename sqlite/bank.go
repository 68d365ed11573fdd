package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/etnz/investor"
	"github.com/shopspring/decimal"
)

// Bank is a Bank keeping one balance per account, in a single currency.
// Balances never go negative.
type Bank struct {
	db       *sql.DB
	currency string
}

var _ investor.Bank = (*Bank)(nil)

func NewBank(db *sql.DB, currency string) *Bank {
	return &Bank{db: db, currency: currency}
}

// Balance returns the balance of account, 0 for unknown accounts.
func (b *Bank) Balance(ctx context.Context, account investor.AccountID) (investor.Money, error) {
	d, err := balance(ctx, b.db, account)
	if err != nil {
		return investor.Money{}, err
	}
	return investor.M(d, b.currency), nil
}

func (b *Bank) Withdraw(ctx context.Context, account investor.AccountID, amount investor.Money) investor.BankResponse {
	return b.move(ctx, account, amount, true)
}

func (b *Bank) Deposit(ctx context.Context, account investor.AccountID, amount investor.Money) investor.BankResponse {
	return b.move(ctx, account, amount, false)
}

// Format renders amount with its currency symbol.
func (b *Bank) Format(amount investor.Money) string {
	if amount.Currency() == "" {
		amount = amount.WithCurrency(b.currency)
	}
	return amount.String()
}

// move applies the operation in a single transaction.
func (b *Bank) move(ctx context.Context, account investor.AccountID, amount investor.Money, withdraw bool) investor.BankResponse {
	resp := investor.BankResponse{Amount: amount, Type: investor.Failure}
	fail := func(format string, args ...any) investor.BankResponse {
		resp.ErrorMessage = fmt.Sprintf(format, args...)
		return resp
	}

	if amount.Currency() != "" && amount.Currency() != b.currency {
		return fail("unsupported currency %s", amount.Currency())
	}
	if amount.IsNegative() {
		return fail("cannot move a negative amount")
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fail("%v", err)
	}
	defer tx.Rollback()

	current, err := balance(ctx, tx, account)
	if err != nil {
		return fail("%v", err)
	}
	resp.Balance = investor.M(current, b.currency)

	next := current.Add(amount.Decimal())
	if withdraw {
		next = current.Sub(amount.Decimal())
		if next.IsNegative() {
			return fail("insufficient funds")
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO balances (account, amount) VALUES (?, ?)
		ON CONFLICT(account) DO UPDATE SET amount = excluded.amount`,
		account.String(), next.String())
	if err != nil {
		return fail("%v", err)
	}
	if err := tx.Commit(); err != nil {
		return fail("%v", err)
	}
	resp.Balance = investor.M(next, b.currency)
	resp.Type = investor.Success
	return resp
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func balance(ctx context.Context, q querier, account investor.AccountID) (decimal.Decimal, error) {
	var s string
	err := q.QueryRowContext(ctx, `SELECT amount FROM balances WHERE account = ?`, account.String()).Scan(&s)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(s)
}
