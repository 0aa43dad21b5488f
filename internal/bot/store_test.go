package bot

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XxLosHermanosxX/Sushibot/internal/ai"
)

func TestGetOrCreateDefaults(t *testing.T) {
	s := NewStore()

	c := s.GetOrCreate("5511999@c.us")
	assert.Equal(t, "5511999@c.us", c.ChatID)
	assert.Equal(t, "5511999", c.CustomerName)
	assert.False(t, c.HumanActive)
	assert.False(t, c.GreetingSent)
	assert.Nil(t, c.LastHumanAction)
	assert.Empty(t, c.Messages)
	assert.Empty(t, c.History)
	assert.False(t, c.CreatedAt.IsZero())

	assert.Same(t, c, s.GetOrCreate("5511999@c.us"))
	assert.Equal(t, 1, s.Count())
}

func TestCustomerNameWithoutSuffix(t *testing.T) {
	s := NewStore()
	c := s.GetOrCreate("web-visitor-7")
	assert.Equal(t, "web-visitor-7", c.CustomerName)
}

func TestHistoryWindowEvictsOldestPairs(t *testing.T) {
	c := &Conversation{}

	for i := 1; i <= 15; i++ {
		c.pushTurns(fmt.Sprintf("u%d", i), fmt.Sprintf("a%d", i))
	}

	require.Len(t, c.History, historyLimit)
	// Oldest five exchanges evicted; the window starts at pair 6 and is
	// still aligned user first, assistant last.
	assert.Equal(t, ai.Message{Role: ai.RoleUser, Text: "u6"}, c.History[0])
	assert.Equal(t, ai.Message{Role: ai.RoleAssistant, Text: "a6"}, c.History[1])
	assert.Equal(t, ai.Message{Role: ai.RoleAssistant, Text: "a15"}, c.History[historyLimit-1])
	for i, m := range c.History {
		want := ai.RoleUser
		if i%2 == 1 {
			want = ai.RoleAssistant
		}
		assert.Equal(t, want, m.Role)
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	s := NewStore()
	c := s.GetOrCreate("chat")
	c.mu.Lock()
	c.Messages = append(c.Messages, Message{ID: "1", From: SenderCustomer, Text: "oi"})
	now := time.Now()
	c.LastHumanAction = &now
	c.mu.Unlock()

	v := c.snapshot()

	c.mu.Lock()
	c.Messages[0].Text = "mutated"
	*c.LastHumanAction = now.Add(time.Hour)
	c.mu.Unlock()

	assert.Equal(t, "oi", v.Messages[0].Text)
	assert.Equal(t, now, *v.LastHumanAction)
}

func TestListSortedByCreation(t *testing.T) {
	s := NewStore()
	base := time.Now()
	for i, id := range []string{"c", "a", "b"} {
		conv := s.GetOrCreate(id)
		conv.CreatedAt = base.Add(time.Duration(i) * time.Second)
	}

	views := s.List()
	require.Len(t, views, 3)
	assert.Equal(t, "c", views[0].ChatID)
	assert.Equal(t, "a", views[1].ChatID)
	assert.Equal(t, "b", views[2].ChatID)
}

func TestDeleteSemantics(t *testing.T) {
	s := NewStore()
	s.GetOrCreate("chat")

	assert.True(t, s.Delete("chat"))
	assert.False(t, s.Delete("chat"))

	s.GetOrCreate("x")
	s.GetOrCreate("y")
	s.DeleteAll()
	assert.Zero(t, s.Count())
}

func TestConcurrentGetOrCreateReturnsOneConversation(t *testing.T) {
	s := NewStore()

	var wg sync.WaitGroup
	got := make([]*Conversation, 16)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = s.GetOrCreate("chat")
		}(i)
	}
	wg.Wait()

	require.Equal(t, 1, s.Count())
	for _, c := range got[1:] {
		assert.Same(t, got[0], c)
	}
}
