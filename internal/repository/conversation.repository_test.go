package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xisxz/agente-vendas/internal/model"
)

func seedConversation(t *testing.T, repo *ConversationRepository, leadID int64, direction model.Direction, channel, intent string) *model.Conversation {
	t.Helper()
	created, err := repo.Create(context.Background(), &model.Conversation{
		LeadID:    leadID,
		Channel:   channel,
		Direction: direction,
		Content:   "hello there",
		Intent:    intent,
	})
	require.NoError(t, err)
	return created
}

func TestConversationRepository_ListByLead(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConversationRepository(db.DB)
	ctx := context.Background()

	seedConversation(t, repo, 1, model.DirectionInbound, "whatsapp", "greeting")
	seedConversation(t, repo, 1, model.DirectionOutbound, "whatsapp", "follow_up")
	seedConversation(t, repo, 2, model.DirectionInbound, "email", "pricing_inquiry")

	t.Run("scoped to lead", func(t *testing.T) {
		got, err := repo.ListByLead(ctx, 1, model.ConversationFilter{})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("direction filter", func(t *testing.T) {
		inbound := model.DirectionInbound
		got, err := repo.ListByLead(ctx, 1, model.ConversationFilter{Direction: &inbound})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "greeting", got[0].Intent)
	})
}

func TestConversationRepository_RecentIntents(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConversationRepository(db.DB)
	ctx := context.Background()

	for _, intent := range []string{"greeting", "general", "general", "pricing_inquiry"} {
		seedConversation(t, repo, 1, model.DirectionInbound, "whatsapp", intent)
	}
	// outbound rows never count as history
	seedConversation(t, repo, 1, model.DirectionOutbound, "whatsapp", "follow_up")

	history, err := repo.RecentIntents(ctx, 1, 5)
	require.NoError(t, err)
	require.Len(t, history, 4)
	for _, h := range history {
		assert.NotEqual(t, "follow_up", h.Intent)
	}
}

func TestConversationRepository_ChannelCounts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConversationRepository(db.DB)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		seedConversation(t, repo, 1, model.DirectionInbound, "email", "general")
	}
	seedConversation(t, repo, 1, model.DirectionInbound, "whatsapp", "general")
	// outbound traffic is excluded
	seedConversation(t, repo, 1, model.DirectionOutbound, "voice", "follow_up")

	counts, err := repo.ChannelCounts(ctx, 1)
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, "email", counts[0].Channel)
	assert.Equal(t, int64(3), counts[0].Count)
	assert.Equal(t, "whatsapp", counts[1].Channel)
}

func TestConversationRepository_Stats(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConversationRepository(db.DB)
	ctx := context.Background()

	seedConversation(t, repo, 1, model.DirectionInbound, "whatsapp", "greeting")
	seedConversation(t, repo, 1, model.DirectionInbound, "whatsapp", "greeting")
	seedConversation(t, repo, 1, model.DirectionOutbound, "whatsapp", "follow_up")

	escalated, err := repo.Create(ctx, &model.Conversation{
		LeadID:           1,
		Channel:          "whatsapp",
		Direction:        model.DirectionInbound,
		Content:          "this is unacceptable",
		Intent:           "complaint",
		IsEscalated:      true,
		EscalationReason: "severe complaint",
	})
	require.NoError(t, err)
	assert.True(t, escalated.IsEscalated)

	stats, err := repo.Stats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.Total)
	assert.Equal(t, int64(3), stats.Inbound)
	assert.Equal(t, int64(1), stats.Outbound)
	assert.Equal(t, int64(1), stats.Escalated)
	assert.Equal(t, int64(2), stats.IntentCounts["greeting"])
	assert.Equal(t, int64(1), stats.IntentCounts["complaint"])
}
