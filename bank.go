package investor

import "context"

// ResponseType tells how a bank operation ended.
type ResponseType int

const (
	Success ResponseType = iota
	Failure
	NotImplemented
)

// BankResponse is the answer of a Bank to a withdrawal or a deposit.
type BankResponse struct {
	// Amount that was asked to move.
	Amount Money
	// Balance of the account after the operation.
	Balance      Money
	Type         ResponseType
	ErrorMessage string
}

// Success reports whether the money moved.
func (r BankResponse) Success() bool { return r.Type == Success }

// Bank is the money side of an account. Balances are owned by the host,
// the engine only moves money through this interface.
type Bank interface {
	Withdraw(ctx context.Context, account AccountID, amount Money) BankResponse
	Deposit(ctx context.Context, account AccountID, amount Money) BankResponse
	// Format renders an amount for the account holder, e.g "$500.00".
	Format(amount Money) string
}
