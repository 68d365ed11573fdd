package investor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatcher_Replies(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *fixture)
		args  []string
		want  string
	}{
		{
			name: "buy",
			args: []string{"buy", "AAPL", "5"},
			want: "You have purchased 5 share(s) of AAPL, for $500.00.",
		},
		{
			name: "symbol is upper cased",
			args: []string{"buy", "aapl", "1"},
			want: "You have purchased 1 share(s) of AAPL, for $100.00.",
		},
		{
			name:  "sell",
			setup: func(f *fixture) { f.hold(alice, "AAPL", 5) },
			args:  []string{"sell", "AAPL", "2"},
			want:  "You have sold 2 share(s) of AAPL, for $200.00.",
		},
		{
			name:  "sell the whole holding",
			setup: func(f *fixture) { f.hold(alice, "AAPL", 5) },
			args:  []string{"sell", "AAPL", "5"},
			want:  "You do not hold enough shares of AAPL.",
		},
		{
			name: "zero quantity",
			args: []string{"buy", "AAPL", "0"},
			want: "Invalid parameters.",
		},
		{
			name: "not a number",
			args: []string{"buy", "AAPL", "five"},
			want: "Invalid parameters.",
		},
		{
			name: "fractional quantity",
			args: []string{"buy", "AAPL", "1.5"},
			want: "Invalid parameters.",
		},
		{
			name: "invalid symbol",
			args: []string{"buy", "AA PL", "1"},
			want: "Invalid parameters.",
		},
		{
			name: "zero price",
			args: []string{"buy", "ZERO", "1"},
			want: "Invalid Purchase.",
		},
		{
			name:  "quote service down",
			setup: func(f *fixture) { f.quotes.err = &QuoteFetchError{Symbol: "AAPL", Err: errors.New("timeout")} },
			args:  []string{"buy", "AAPL", "1"},
			want:  "Error fetching stock.",
		},
		{
			name: "insufficient funds",
			args: []string{"buy", "AAPL", "20"},
			want: "Transaction failed: withdrawal refused: insufficient funds.",
		},
		{
			name: "price",
			args: []string{"price", "AAPL"},
			want: "AAPL is $100.00 per share.",
		},
		{
			name: "price of unpriced symbol",
			args: []string{"price", "ZERO"},
			want: "Error fetching stock.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.setup != nil {
				tt.setup(f)
			}
			d := NewDispatcher(f.engine, nil)

			reply, handled := d.Dispatch(context.Background(), alice, CommandLabel, tt.args)
			assert.True(t, handled)
			assert.Equal(t, tt.want, reply)
		})
	}
}

func TestDispatcher_Inconsistent(t *testing.T) {
	f := newFixture(t)
	f.store.failSets[1] = true
	f.bank.refuseDeposits = true
	d := NewDispatcher(f.engine, nil)

	reply, handled := d.Dispatch(context.Background(), alice, CommandLabel, []string{"buy", "AAPL", "1"})
	assert.True(t, handled)
	assert.Contains(t, reply, "please contact an operator")

	unfinished, _ := f.journal.Unfinished(context.Background())
	if assert.Len(t, unfinished, 1) {
		assert.Contains(t, reply, unfinished[0].ID)
	}
}

func TestDispatcher_NotHandled(t *testing.T) {
	tests := []struct {
		name  string
		label string
		args  []string
	}{
		{name: "other label", label: "trade", args: []string{"buy", "AAPL", "1"}},
		{name: "no args", label: CommandLabel},
		{name: "missing quantity", label: CommandLabel, args: []string{"buy", "AAPL"}},
		{name: "too many args", label: CommandLabel, args: []string{"buy", "AAPL", "1", "now"}},
		{name: "unknown action", label: CommandLabel, args: []string{"short", "AAPL", "1"}},
		{name: "price without symbol", label: CommandLabel, args: []string{"price"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			d := NewDispatcher(f.engine, nil)

			reply, handled := d.Dispatch(context.Background(), alice, tt.label, tt.args)
			assert.False(t, handled)
			assert.Empty(t, reply)
			assert.Zero(t, f.quotes.calls, "no quote fetched")
		})
	}
}
