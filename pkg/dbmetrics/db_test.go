package dbmetrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeTx struct {
	DBExecutor
}

func (fakeTx) Commit() error   { return nil }
func (fakeTx) Rollback() error { return nil }

func TestGetExecutor(t *testing.T) {
	db := Wrap(nil, nil)

	assert.Same(t, db, GetExecutor(context.Background(), db))
	assert.False(t, IsInTransaction(context.Background()))

	tx := &fakeTx{}
	ctx := WithTx(context.Background(), tx)

	assert.True(t, IsInTransaction(ctx))
	assert.Equal(t, tx, GetExecutor(ctx, db))
}

func TestOperationName(t *testing.T) {
	tests := map[string]string{
		"SELECT id FROM bookings":                "select",
		"  insert into games (x) values ($1)":    "insert",
		"UPDATE games SET status = $1":           "update",
		"SELECT pg_advisory_xact_lock($1)":       "select",
		"DELETE FROM game_participants":          "delete",
		"LOCK TABLE bookings IN EXCLUSIVE MODE":  "other",
		"":                                       "unknown",
	}

	for query, want := range tests {
		assert.Equal(t, want, operationName(query), query)
	}
}
