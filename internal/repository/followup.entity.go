package repository

import (
	"time"

	"github.com/xisxz/agente-vendas/internal/model"
)

type FollowUpEntity struct {
	ID           int64      `db:"id"            gorm:"primaryKey;autoIncrement;column:id"`
	LeadID       int64      `db:"lead_id"       gorm:"column:lead_id;not null;index"`
	Type         string     `db:"type"          gorm:"column:type;not null"`
	Status       string     `db:"status"        gorm:"column:status;not null;default:scheduled;index"`
	Priority     int        `db:"priority"      gorm:"column:priority;not null;default:0"`
	Message      string     `db:"message"       gorm:"column:message;not null"`
	Channel      string     `db:"channel"       gorm:"column:channel;not null"`
	ScheduledAt  time.Time  `db:"scheduled_at"  gorm:"column:scheduled_at;not null;index"`
	SentAt       *time.Time `db:"sent_at"       gorm:"column:sent_at"`
	ErrorMessage string     `db:"error_message" gorm:"column:error_message"`
	CreatedAt    time.Time  `db:"created_at"    gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `db:"updated_at"    gorm:"column:updated_at;autoUpdateTime"`
}

func (FollowUpEntity) TableName() string {
	return "followups"
}

func toFollowUpEntity(m *model.FollowUp) *FollowUpEntity {
	if m == nil {
		return nil
	}
	return &FollowUpEntity{
		ID:           m.ID,
		LeadID:       m.LeadID,
		Type:         string(m.Type),
		Status:       string(m.Status),
		Priority:     int(m.Priority),
		Message:      m.Message,
		Channel:      m.Channel,
		ScheduledAt:  m.ScheduledAt,
		SentAt:       m.SentAt,
		ErrorMessage: m.ErrorMessage,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toFollowUpModel(e *FollowUpEntity) *model.FollowUp {
	if e == nil {
		return nil
	}
	return &model.FollowUp{
		ID:           e.ID,
		LeadID:       e.LeadID,
		Type:         model.FollowUpType(e.Type),
		Status:       model.FollowUpStatus(e.Status),
		Priority:     model.Priority(e.Priority),
		Message:      e.Message,
		Channel:      e.Channel,
		ScheduledAt:  e.ScheduledAt,
		SentAt:       e.SentAt,
		ErrorMessage: e.ErrorMessage,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func toFollowUpModels(entities []*FollowUpEntity) []*model.FollowUp {
	if entities == nil {
		return nil
	}
	models := make([]*model.FollowUp, len(entities))
	for i, e := range entities {
		models[i] = toFollowUpModel(e)
	}
	return models
}
