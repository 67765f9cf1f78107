package repository

import (
	"context"

	"github.com/xisxz/agente-vendas/internal/model"
	"github.com/xisxz/agente-vendas/pkg/pg"
)

type ConversationRepository struct {
	*pg.DB
}

func NewConversationRepository(db *pg.DB) *ConversationRepository {
	return &ConversationRepository{
		db,
	}
}

func (r *ConversationRepository) Create(ctx context.Context, conversation *model.Conversation) (*model.Conversation, error) {
	entity := toConversationEntity(conversation)

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toConversationModel(entity), nil
}

// ListByLead returns a lead's conversations, newest first.
func (r *ConversationRepository) ListByLead(ctx context.Context, leadID int64, f model.ConversationFilter) ([]*model.Conversation, error) {
	q := r.Read(ctx).WithContext(ctx).
		Where("lead_id = ?", leadID)

	if f.Direction != nil {
		q = q.Where("direction = ?", string(*f.Direction))
	}

	limit := f.Limit
	if limit <= 0 || limit > 1000 {
		limit = 50
	}

	var entities []*ConversationEntity
	err := q.Order("created_at DESC").
		Limit(limit).
		Find(&entities).
		Error
	if err != nil {
		return nil, err
	}

	return toConversationModels(entities), nil
}

// ListInboundForLeads returns recent inbound messages across a set of
// leads, newest first. Used for cohort pattern mining.
func (r *ConversationRepository) ListInboundForLeads(ctx context.Context, leadIDs []int64, limit int) ([]*model.Conversation, error) {
	if len(leadIDs) == 0 {
		return nil, nil
	}
	if limit <= 0 || limit > 5000 {
		limit = 1000
	}

	var entities []*ConversationEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("lead_id IN ? AND direction = ?", leadIDs, string(model.DirectionInbound)).
		Order("created_at DESC").
		Limit(limit).
		Find(&entities).
		Error
	if err != nil {
		return nil, err
	}

	return toConversationModels(entities), nil
}

// RecentIntents returns the intents of a lead's most recent inbound
// messages, newest first.
func (r *ConversationRepository) RecentIntents(ctx context.Context, leadID int64, limit int) ([]model.HistoryEntry, error) {
	if limit <= 0 {
		limit = 5
	}

	var entities []*ConversationEntity
	err := r.Read(ctx).WithContext(ctx).
		Select("intent").
		Where("lead_id = ? AND direction = ?", leadID, string(model.DirectionInbound)).
		Order("created_at DESC").
		Limit(limit).
		Find(&entities).
		Error
	if err != nil {
		return nil, err
	}

	history := make([]model.HistoryEntry, len(entities))
	for i, e := range entities {
		history[i] = model.HistoryEntry{Intent: e.Intent}
	}
	return history, nil
}

func (r *ConversationRepository) CountByLead(ctx context.Context, leadID int64) (int64, error) {
	var count int64
	err := r.Read(ctx).WithContext(ctx).
		Model(&ConversationEntity{}).
		Where("lead_id = ?", leadID).
		Count(&count).
		Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ChannelCounts groups a lead's inbound messages by channel, most used
// first.
func (r *ConversationRepository) ChannelCounts(ctx context.Context, leadID int64) ([]model.ChannelCount, error) {
	var counts []model.ChannelCount
	err := r.Read(ctx).WithContext(ctx).
		Model(&ConversationEntity{}).
		Select("channel, COUNT(*) as count").
		Where("lead_id = ? AND direction = ?", leadID, string(model.DirectionInbound)).
		Group("channel").
		Order("count DESC").
		Scan(&counts).
		Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *ConversationRepository) Stats(ctx context.Context, leadID int64) (*model.ConversationStats, error) {
	stats := &model.ConversationStats{
		IntentCounts: map[string]int64{},
	}

	count := func(conds ...interface{}) (int64, error) {
		q := r.Read(ctx).WithContext(ctx).
			Model(&ConversationEntity{}).
			Where("lead_id = ?", leadID)
		if len(conds) > 0 {
			q = q.Where(conds[0], conds[1:]...)
		}
		var n int64
		return n, q.Count(&n).Error
	}

	var err error
	if stats.Total, err = count(); err != nil {
		return nil, err
	}
	if stats.Inbound, err = count("direction = ?", string(model.DirectionInbound)); err != nil {
		return nil, err
	}
	if stats.Outbound, err = count("direction = ?", string(model.DirectionOutbound)); err != nil {
		return nil, err
	}
	if stats.Escalated, err = count("is_escalated = ?", true); err != nil {
		return nil, err
	}

	var rows []struct {
		Intent string
		Count  int64
	}
	err = r.Read(ctx).WithContext(ctx).
		Model(&ConversationEntity{}).
		Select("intent, COUNT(*) as count").
		Where("lead_id = ? AND intent <> ''", leadID).
		Group("intent").
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats.IntentCounts[row.Intent] = row.Count
	}

	return stats, nil
}
