package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (l *sessionLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

func TestSessionLocksHonourContext(t *testing.T) {
	locks := newSessionLocks()

	release, err := locks.acquire(context.Background(), "s1")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = locks.acquire(ctx, "s1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	other, err := locks.acquire(context.Background(), "s2")
	require.NoError(t, err)
	other()

	release()
	release()
	assert.Equal(t, 0, locks.size())

	again, err := locks.acquire(context.Background(), "s1")
	require.NoError(t, err)
	again()
}

func TestNilSessionLocks(t *testing.T) {
	var locks *sessionLocks
	release, err := locks.acquire(context.Background(), "s1")
	require.NoError(t, err)
	release()
}
