package storage

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countTodos(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM todos`).Scan(&n))
	return n
}

func TestWithTx_Commit(t *testing.T) {
	db := setupTestDB(t)

	err := WithTx(context.Background(), db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO todos (title, completed, created_at, updated_at) VALUES ('a', 0, 1, 1)`)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, countTodos(t, db))
}

func TestWithTx_RollbackOnPanic(t *testing.T) {
	db := setupTestDB(t)

	assert.PanicsWithValue(t, "boom", func() {
		_ = WithTx(context.Background(), db, func(tx *sql.Tx) error {
			_, err := tx.Exec(`INSERT INTO todos (title, completed, created_at, updated_at) VALUES ('a', 0, 1, 1)`)
			require.NoError(t, err)
			panic("boom")
		})
	})

	// 连接已归还，可以继续使用
	assert.Equal(t, 0, countTodos(t, db))
}

func TestWithTx_CanceledContext(t *testing.T) {
	db := setupTestDB(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := WithTx(ctx, db, func(tx *sql.Tx) error {
		called = true
		return nil
	})
	assert.Error(t, err)
	assert.False(t, called)
}

func TestInitSchema_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, InitSchema(context.Background(), db))
	assert.Equal(t, 0, countTodos(t, db))
}
