package repository

import (
	"context"
	"errors"
	"time"

	"github.com/xisxz/agente-vendas/internal/model"
	"github.com/xisxz/agente-vendas/pkg/pg"
	"gorm.io/gorm"
)

var (
	ErrFollowUpNotFound  = errors.New("followup not found")
	ErrFollowUpFinalized = errors.New("followup already left scheduled state")
)

type FollowUpRepository struct {
	*pg.DB
}

func NewFollowUpRepository(db *pg.DB) *FollowUpRepository {
	return &FollowUpRepository{
		db,
	}
}

func (r *FollowUpRepository) Create(ctx context.Context, followup *model.FollowUp) (*model.FollowUp, error) {
	entity := toFollowUpEntity(followup)

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toFollowUpModel(entity), nil
}

func (r *FollowUpRepository) Get(ctx context.Context, id int64) (*model.FollowUp, error) {
	var entity FollowUpEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("id = ?", id).
		First(&entity).
		Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFollowUpNotFound
		}
		return nil, err
	}

	return toFollowUpModel(&entity), nil
}

// Pending lists scheduled follow-ups whose time has come, oldest first.
func (r *FollowUpRepository) Pending(ctx context.Context, now time.Time, limit int) ([]*model.FollowUp, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	var entities []*FollowUpEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("status = ? AND scheduled_at <= ?", string(model.FollowUpStatusScheduled), now).
		Order("scheduled_at ASC").
		Limit(limit).
		Find(&entities).
		Error
	if err != nil {
		return nil, err
	}

	return toFollowUpModels(entities), nil
}

func (r *FollowUpRepository) ListByLead(ctx context.Context, leadID int64) ([]*model.FollowUp, error) {
	var entities []*FollowUpEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("lead_id = ?", leadID).
		Order("scheduled_at ASC").
		Find(&entities).
		Error
	if err != nil {
		return nil, err
	}
	return toFollowUpModels(entities), nil
}

// MarkSent transitions scheduled -> sent. The guard on the current
// status makes the transition idempotent under concurrent executors:
// the second caller gets ErrFollowUpFinalized, never a double send.
func (r *FollowUpRepository) MarkSent(ctx context.Context, id int64, sentAt time.Time) error {
	return r.finalize(ctx, id, map[string]interface{}{
		"status":  string(model.FollowUpStatusSent),
		"sent_at": sentAt,
	})
}

// MarkFailed transitions scheduled -> failed and records the reason.
func (r *FollowUpRepository) MarkFailed(ctx context.Context, id int64, reason string) error {
	return r.finalize(ctx, id, map[string]interface{}{
		"status":        string(model.FollowUpStatusFailed),
		"error_message": reason,
	})
}

// Cancel transitions scheduled -> cancelled.
func (r *FollowUpRepository) Cancel(ctx context.Context, id int64) error {
	return r.finalize(ctx, id, map[string]interface{}{
		"status": string(model.FollowUpStatusCancelled),
	})
}

func (r *FollowUpRepository) finalize(ctx context.Context, id int64, updates map[string]interface{}) error {
	result := r.Write(ctx).WithContext(ctx).
		Model(&FollowUpEntity{}).
		Where("id = ? AND status = ?", id, string(model.FollowUpStatusScheduled)).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		// Disambiguate a missing row from a lost race.
		var count int64
		err := r.Write(ctx).WithContext(ctx).
			Model(&FollowUpEntity{}).
			Where("id = ?", id).
			Count(&count).
			Error
		if err != nil {
			return err
		}
		if count == 0 {
			return ErrFollowUpNotFound
		}
		return ErrFollowUpFinalized
	}

	return nil
}

func (r *FollowUpRepository) Stats(ctx context.Context) (*model.FollowUpStats, error) {
	stats := &model.FollowUpStats{
		ByStatus:  map[string]int64{},
		ByChannel: map[string]int64{},
	}

	var byStatus []struct {
		Status string
		Count  int64
	}
	err := r.Read(ctx).WithContext(ctx).
		Model(&FollowUpEntity{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&byStatus).
		Error
	if err != nil {
		return nil, err
	}
	for _, row := range byStatus {
		stats.ByStatus[row.Status] = row.Count
	}

	var byChannel []struct {
		Channel string
		Count   int64
	}
	err = r.Read(ctx).WithContext(ctx).
		Model(&FollowUpEntity{}).
		Select("channel, COUNT(*) as count").
		Group("channel").
		Scan(&byChannel).
		Error
	if err != nil {
		return nil, err
	}
	for _, row := range byChannel {
		stats.ByChannel[row.Channel] = row.Count
	}

	return stats, nil
}
