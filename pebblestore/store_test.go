package pebblestore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/etnz/investor"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice = uuid.MustParse("0f8fad5b-d9cb-469f-a165-70867728950e")
	bob   = uuid.MustParse("7c9e6679-7425-40de-944b-e07fc1f90ae7")
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "holdings")
	s, err := Open(path)
	require.NoError(t, err)

	q, err := s.Get(ctx, alice, "AAPL")
	require.NoError(t, err)
	assert.True(t, q.IsZero())

	require.NoError(t, s.Set(ctx, alice, "MSFT", investor.Q(0.5)))
	require.NoError(t, s.Set(ctx, alice, "AAPL", investor.Q(5)))
	require.NoError(t, s.Set(ctx, bob, "AAPL", investor.Q(1)))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	q, err = s.Get(ctx, alice, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "5", q.String())

	list, err := s.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, investor.Symbol("AAPL"), list[0].Symbol)
	assert.Equal(t, investor.Symbol("MSFT"), list[1].Symbol)
	assert.Equal(t, "0.5", list[1].Quantity.String())
	assert.Equal(t, alice, list[1].Account)
}

func TestKeyUpperBound(t *testing.T) {
	assert.Equal(t, []byte("h:b"), keyUpperBound([]byte("h:a")))
	assert.Equal(t, []byte("h;"), keyUpperBound([]byte("h:\xff")))
	assert.Nil(t, keyUpperBound([]byte("\xff\xff")))
}
