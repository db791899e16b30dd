package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/iammuhammadnoumankhan/talkflow/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stepClock returns a strictly increasing time on every call.
type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func newStepClock() *stepClock {
	return &stepClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

type storeFactory func(t *testing.T, now func() time.Time) Store

// runStoreContract exercises the behaviour every Store implementation must share.
func runStoreContract(t *testing.T, newStore storeFactory) {
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		s := newStore(t, newStepClock().Now)

		created, err := s.CreateSession(ctx, "m1")
		require.NoError(t, err)
		require.NotEmpty(t, created.SessionID)

		got, err := s.GetSession(ctx, created.SessionID)
		require.NoError(t, err)
		assert.Equal(t, "m1", got.Model)
		assert.Empty(t, got.Messages)
		assert.True(t, got.CreatedAt.Equal(got.UpdatedAt))
	})

	t.Run("append preserves order and count", func(t *testing.T) {
		s := newStore(t, newStepClock().Now)
		session, err := s.CreateSession(ctx, "m1")
		require.NoError(t, err)

		for i := 0; i < 5; i++ {
			role := domain.RoleUser
			if i%2 == 1 {
				role = domain.RoleAssistant
			}
			msg, err := s.AppendMessage(ctx, session.SessionID, domain.Message{Role: role, Content: fmt.Sprintf("m%d", i)})
			require.NoError(t, err)
			assert.NotEmpty(t, msg.MessageID)
			assert.False(t, msg.Timestamp.IsZero())
		}

		got, err := s.GetSession(ctx, session.SessionID)
		require.NoError(t, err)
		require.Len(t, got.Messages, 5)
		for i, msg := range got.Messages {
			assert.Equal(t, fmt.Sprintf("m%d", i), msg.Content)
		}
		assert.Equal(t, domain.RoleAssistant, got.Messages[1].Role)
		assert.True(t, got.UpdatedAt.Equal(session.UpdatedAt), "append must not touch last_updated")
	})

	t.Run("touch advances last_updated", func(t *testing.T) {
		s := newStore(t, newStepClock().Now)
		session, err := s.CreateSession(ctx, "m1")
		require.NoError(t, err)

		require.NoError(t, s.TouchSession(ctx, session.SessionID))

		got, err := s.GetSession(ctx, session.SessionID)
		require.NoError(t, err)
		assert.True(t, got.UpdatedAt.After(session.UpdatedAt))
		assert.True(t, got.CreatedAt.Equal(session.CreatedAt))
	})

	t.Run("unknown session", func(t *testing.T) {
		s := newStore(t, newStepClock().Now)

		_, err := s.GetSession(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
		_, err = s.AppendMessage(ctx, "missing", domain.Message{Role: domain.RoleUser, Content: "hi"})
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
		assert.ErrorIs(t, s.TouchSession(ctx, "missing"), domain.ErrSessionNotFound)
		assert.ErrorIs(t, s.DeleteSession(ctx, "missing"), domain.ErrSessionNotFound)
	})

	t.Run("delete then get", func(t *testing.T) {
		s := newStore(t, newStepClock().Now)
		doomed, err := s.CreateSession(ctx, "m1")
		require.NoError(t, err)
		kept, err := s.CreateSession(ctx, "m1")
		require.NoError(t, err)
		_, err = s.AppendMessage(ctx, doomed.SessionID, domain.Message{Role: domain.RoleUser, Content: "hi"})
		require.NoError(t, err)

		require.NoError(t, s.DeleteSession(ctx, doomed.SessionID))

		_, err = s.GetSession(ctx, doomed.SessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
		assert.ErrorIs(t, s.DeleteSession(ctx, doomed.SessionID), domain.ErrSessionNotFound)

		_, err = s.GetSession(ctx, kept.SessionID)
		assert.NoError(t, err)
	})

	t.Run("list orders by last_updated desc", func(t *testing.T) {
		s := newStore(t, newStepClock().Now)
		a, err := s.CreateSession(ctx, "m1")
		require.NoError(t, err)
		b, err := s.CreateSession(ctx, "m2")
		require.NoError(t, err)
		c, err := s.CreateSession(ctx, "m1")
		require.NoError(t, err)

		_, err = s.AppendMessage(ctx, a.SessionID, domain.Message{Role: domain.RoleUser, Content: "hi"})
		require.NoError(t, err)
		require.NoError(t, s.TouchSession(ctx, a.SessionID))

		list, err := s.ListSessions(ctx)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, []string{a.SessionID, c.SessionID, b.SessionID}, ids(list))
		assert.Equal(t, 1, list[0].MessageCount)
		assert.Equal(t, "m2", list[2].Model)

		again, err := s.ListSessions(ctx)
		require.NoError(t, err)
		assert.Equal(t, list, again)
	})

	t.Run("list breaks ties by id", func(t *testing.T) {
		fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		s := newStore(t, func() time.Time { return fixed })
		for i := 0; i < 4; i++ {
			_, err := s.CreateSession(ctx, "m1")
			require.NoError(t, err)
		}

		list, err := s.ListSessions(ctx)
		require.NoError(t, err)
		got := ids(list)
		for i := 1; i < len(got); i++ {
			assert.Less(t, got[i-1], got[i])
		}
	})

	t.Run("get is idempotent and returns snapshots", func(t *testing.T) {
		s := newStore(t, newStepClock().Now)
		session, err := s.CreateSession(ctx, "m1")
		require.NoError(t, err)
		_, err = s.AppendMessage(ctx, session.SessionID, domain.Message{Role: domain.RoleUser, Content: "hi"})
		require.NoError(t, err)

		first, err := s.GetSession(ctx, session.SessionID)
		require.NoError(t, err)
		second, err := s.GetSession(ctx, session.SessionID)
		require.NoError(t, err)
		assert.Equal(t, first, second)

		first.Messages[0].Content = "tampered"
		first.Messages = append(first.Messages, domain.Message{Role: domain.RoleAssistant})

		third, err := s.GetSession(ctx, session.SessionID)
		require.NoError(t, err)
		assert.Equal(t, second, third)
	})

	t.Run("concurrent appends", func(t *testing.T) {
		s := newStore(t, newStepClock().Now)
		session, err := s.CreateSession(ctx, "m1")
		require.NoError(t, err)

		const writers = 20
		var wg sync.WaitGroup
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := s.AppendMessage(ctx, session.SessionID, domain.Message{Role: domain.RoleUser, Content: fmt.Sprint(i)})
				assert.NoError(t, err)
			}(i)
		}
		wg.Wait()

		got, err := s.GetSession(ctx, session.SessionID)
		require.NoError(t, err)
		assert.Len(t, got.Messages, writers)
	})
}

func ids(list []domain.SessionSummary) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = s.SessionID
	}
	return out
}
