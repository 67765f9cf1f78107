package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xisxz/agente-vendas/internal/model"
	"github.com/xisxz/agente-vendas/pkg/pg"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrLeadNotFound       = errors.New("lead not found")
	ErrConcurrentUpdate   = errors.New("concurrent update detected")
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)

const cohortLimit = 100

type LeadRepository struct {
	*pg.DB
}

func NewLeadRepository(db *pg.DB) *LeadRepository {
	return &LeadRepository{
		db,
	}
}

func (r *LeadRepository) Create(ctx context.Context, lead *model.Lead) (*model.Lead, error) {
	entity := toLeadEntity(lead)

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toLeadModel(entity), nil
}

func (r *LeadRepository) Get(ctx context.Context, id int64) (*model.Lead, error) {
	var entity LeadEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("id = ?", id).
		First(&entity).
		Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, err
	}

	return toLeadModel(&entity), nil
}

// FindByContact resolves a lead by email or phone, whichever is set.
func (r *LeadRepository) FindByContact(ctx context.Context, email, phone string) (*model.Lead, error) {
	q := r.Read(ctx).WithContext(ctx).Model(&LeadEntity{})

	switch {
	case email != "" && phone != "":
		q = q.Where("email = ? OR phone = ?", email, phone)
	case email != "":
		q = q.Where("email = ?", email)
	case phone != "":
		q = q.Where("phone = ?", phone)
	default:
		return nil, ErrLeadNotFound
	}

	var entity LeadEntity
	if err := q.First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, err
	}

	return toLeadModel(&entity), nil
}

func (r *LeadRepository) Update(ctx context.Context, lead *model.Lead) (*model.Lead, error) {
	entity := toLeadEntity(lead)

	result := r.Write(ctx).WithContext(ctx).
		Model(&LeadEntity{}).
		Where("id = ?", lead.ID).
		Updates(map[string]interface{}{
			"name":                entity.Name,
			"email":               entity.Email,
			"phone":               entity.Phone,
			"company":             entity.Company,
			"location":            entity.Location,
			"status":              entity.Status,
			"qualification_score": entity.QualificationScore,
			"category":            entity.Category,
			"source":              entity.Source,
			"crm_id":              entity.CRMID,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrLeadNotFound
	}

	return r.Get(ctx, lead.ID)
}

func (r *LeadRepository) List(ctx context.Context, f model.LeadFilter) ([]*model.Lead, int64, error) {
	q := r.Read(ctx).WithContext(ctx).Model(&LeadEntity{})

	if f.Status != nil {
		q = q.Where("status = ?", string(*f.Status))
	} else {
		q = q.Where("status <> ?", string(model.LeadStatusDeleted))
	}
	if f.Source != nil && *f.Source != "" {
		q = q.Where("source = ?", *f.Source)
	}
	if f.Category != nil && *f.Category != "" {
		q = q.Where("category = ?", *f.Category)
	}

	// Count before pagination
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "created_at"
	if f.Desc {
		order += " DESC"
	} else {
		order += " ASC"
	}

	limit := f.Limit
	if limit <= 0 || limit > 1000 {
		limit = 50
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	var entities []*LeadEntity
	if err := q.Order(order).Limit(limit).Offset(offset).Find(&entities).Error; err != nil {
		return nil, 0, err
	}

	return toLeadModels(entities), total, nil
}

// Cohort loads up to 100 other leads sharing category, source or
// location with the given lead.
func (r *LeadRepository) Cohort(ctx context.Context, lead *model.Lead) ([]*model.Lead, error) {
	var entities []*LeadEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("id <> ?", lead.ID).
		Where("category = ? OR source = ? OR location = ?", lead.Category, lead.Source, lead.Location).
		Limit(cohortLimit).
		Find(&entities).
		Error
	if err != nil {
		return nil, err
	}
	return toLeadModels(entities), nil
}

// RecordInteraction bumps the lead's engagement aggregates under a row
// lock with automatic retry: last interaction, interaction count and the
// running average of all non-null conversation sentiments.
func (r *LeadRepository) RecordInteraction(ctx context.Context, leadID int64, now time.Time) error {
	const maxRetries = 3
	const baseDelay = 2 * time.Millisecond

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := r.recordInteractionAttempt(ctx, leadID, now)

		if err == nil {
			return nil
		}

		if errors.Is(err, ErrLeadNotFound) {
			return err
		}

		if attempt < maxRetries {
			delay := baseDelay * time.Duration(1<<attempt) // 2ms, 4ms, 8ms
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				continue
			}
		}
	}

	return fmt.Errorf("%w: failed after %d attempts", ErrMaxRetriesExceeded, maxRetries+1)
}

func (r *LeadRepository) recordInteractionAttempt(ctx context.Context, leadID int64, now time.Time) error {
	var entity LeadEntity

	err := r.Write(ctx).WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", leadID).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLeadNotFound
		}
		return err
	}

	// nulls are excluded from the running average
	var avg *float64
	err = r.Write(ctx).WithContext(ctx).
		Model(&ConversationEntity{}).
		Select("AVG(sentiment)").
		Where("lead_id = ? AND sentiment IS NOT NULL", leadID).
		Scan(&avg).
		Error
	if err != nil {
		return err
	}

	sentimentScore := 0.0
	if avg != nil {
		sentimentScore = *avg
	}

	result := r.Write(ctx).WithContext(ctx).
		Model(&LeadEntity{}).
		Where("id = ?", leadID).
		Updates(map[string]interface{}{
			"last_interaction":  now,
			"interaction_count": gorm.Expr("interaction_count + ?", 1),
			"sentiment_score":   sentimentScore,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrConcurrentUpdate
	}

	return nil
}
