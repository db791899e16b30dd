package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/iammuhammadnoumankhan/talkflow/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore(t *testing.T) {
	runStoreContract(t, func(t *testing.T, now func() time.Time) Store {
		s := newTestStore(t)
		s.now = now
		return s
	})
}

func TestSQLiteStoreFileReopen(t *testing.T) {
	ctx := context.Background()
	dsn := "file:" + filepath.Join(t.TempDir(), "talkflow.db") + "?mode=rwc"

	first, err := NewSQLiteStore(dsn)
	require.NoError(t, err)
	session, err := first.CreateSession(ctx, "m1")
	require.NoError(t, err)
	_, err = first.AppendMessage(ctx, session.SessionID, domain.Message{Role: domain.RoleUser, Content: "hi"})
	require.NoError(t, err)
	require.NoError(t, first.Close())

	// Migrations are idempotent.
	second, err := NewSQLiteStore(dsn)
	require.NoError(t, err)
	defer second.Close()

	got, err := second.GetSession(ctx, session.SessionID)
	require.NoError(t, err)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "hi", got.Messages[0].Content)
}
