package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskhand-io/deskhand/pkg/domain"
	"github.com/deskhand-io/deskhand/pkg/ports"
)

func TestConversationStoreContract(t *testing.T) {
	ports.RunConversationStoreContract(t, NewConversationStore())
}

func TestConversationStoreIsolation(t *testing.T) {
	ctx := context.Background()
	store := NewConversationStore()

	conv := domain.NewConversation("iso-1", time.Now())
	conv.Collected.UserName = "Alice"
	require.NoError(t, store.Save(ctx, conv))

	// Mutating the caller's copy must not affect the stored snapshot.
	conv.Collected.UserName = "Mallory"

	loaded, err := store.Load(ctx, "iso-1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", loaded.Collected.UserName)

	// And mutating a loaded copy must not leak back either.
	loaded.Collected.UserName = "Eve"
	again, err := store.Load(ctx, "iso-1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", again.Collected.UserName)
}

func newTicket(id string, category domain.Category, title string, createdAt time.Time) *domain.Ticket {
	return &domain.Ticket{
		ID:          id,
		Title:       title,
		Description: "description for " + id,
		Category:    category,
		Status:      domain.TicketOpen,
		CreatedAt:   createdAt,
	}
}

func TestTicketStoreFilters(t *testing.T) {
	ctx := context.Background()
	store := NewTicketStore()
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(ctx, newTicket("t-1", domain.CategoryBilling, "Double charge on invoice", base)))
	require.NoError(t, store.Save(ctx, newTicket("t-2", domain.CategoryTechnical, "App crashes on login", base.Add(time.Minute))))
	require.NoError(t, store.Save(ctx, newTicket("t-3", domain.CategoryBilling, "Refund request", base.Add(2*time.Minute))))
	require.NoError(t, store.Close(ctx, "t-3"))

	t.Run("newest first", func(t *testing.T) {
		all, err := store.List(ctx, ports.TicketFilter{})
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "t-3", all[0].ID)
		assert.Equal(t, "t-1", all[2].ID)
	})

	t.Run("by category", func(t *testing.T) {
		billing, err := store.List(ctx, ports.TicketFilter{Category: domain.CategoryBilling})
		require.NoError(t, err)
		assert.Len(t, billing, 2)
	})

	t.Run("by status", func(t *testing.T) {
		open := domain.TicketOpen
		tickets, err := store.List(ctx, ports.TicketFilter{Status: &open})
		require.NoError(t, err)
		assert.Len(t, tickets, 2)
	})

	t.Run("by query", func(t *testing.T) {
		tickets, err := store.List(ctx, ports.TicketFilter{Query: "crashes"})
		require.NoError(t, err)
		require.Len(t, tickets, 1)
		assert.Equal(t, "t-2", tickets[0].ID)
	})

	t.Run("limit", func(t *testing.T) {
		tickets, err := store.List(ctx, ports.TicketFilter{Limit: 1})
		require.NoError(t, err)
		require.Len(t, tickets, 1)
		assert.Equal(t, "t-3", tickets[0].ID)
	})

	t.Run("count ignores limit", func(t *testing.T) {
		n, err := store.Count(ctx, ports.TicketFilter{Limit: 1})
		require.NoError(t, err)
		assert.Equal(t, 3, n)
	})

	t.Run("update status", func(t *testing.T) {
		require.NoError(t, store.UpdateStatus(ctx, "t-1", domain.TicketInProgress))
		got, err := store.Get(ctx, "t-1")
		require.NoError(t, err)
		assert.Equal(t, domain.TicketInProgress, got.Status)
	})

	t.Run("missing ticket", func(t *testing.T) {
		_, err := store.Get(ctx, "nope")
		assert.ErrorIs(t, err, domain.ErrTicketNotFound)
		assert.ErrorIs(t, store.UpdateStatus(ctx, "nope", domain.TicketClosed), domain.ErrTicketNotFound)
	})
}
