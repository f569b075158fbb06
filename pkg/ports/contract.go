package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskhand-io/deskhand/pkg/domain"
)

// RunConversationStoreContract runs a suite of tests verifying that a
// ConversationStore implementation adheres to the interface contract.
// Adapter packages call it from their own tests.
func RunConversationStoreContract(t *testing.T, store ConversationStore) {
	ctx := context.Background()
	convID := "contract-test-conversation-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		conv := domain.NewConversation(convID, time.Now().UTC().Truncate(time.Second))
		conv.CurrentStep = domain.StepCollectIssue
		conv.Collected.UserName = "Alice"
		conv.Messages = append(conv.Messages, domain.Message{
			ID:        "m-1",
			Role:      domain.RoleUser,
			Content:   "My name is Alice",
			Timestamp: time.Now().UTC().Truncate(time.Second),
		})

		err := store.Save(ctx, conv)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, convID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, conv.CurrentStep, loaded.CurrentStep)
		assert.Equal(t, "Alice", loaded.Collected.UserName)
		require.Len(t, loaded.Messages, 1)
		assert.Equal(t, "My name is Alice", loaded.Messages[0].Content)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+convID)
		assert.ErrorIs(t, err, domain.ErrConversationNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, domain.NewConversation(convID, time.Now()))
		require.NoError(t, err)

		err = store.Delete(ctx, convID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, convID)
		assert.ErrorIs(t, err, domain.ErrConversationNotFound, "Load after Delete should return ErrConversationNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := convID + "-1"
		id2 := convID + "-2"
		_ = store.Save(ctx, domain.NewConversation(id1, time.Now()))
		_ = store.Save(ctx, domain.NewConversation(id2, time.Now()))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
