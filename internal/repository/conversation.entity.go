package repository

import (
	"time"

	"github.com/xisxz/agente-vendas/internal/model"
)

type ConversationEntity struct {
	ID               int64     `db:"id"                gorm:"primaryKey;autoIncrement;column:id"`
	LeadID           int64     `db:"lead_id"           gorm:"column:lead_id;not null;index"`
	Channel          string    `db:"channel"           gorm:"column:channel;not null"`
	Direction        string    `db:"direction"         gorm:"column:direction;not null;index"`
	Content          string    `db:"content"           gorm:"column:content;not null"`
	Intent           string    `db:"intent"            gorm:"column:intent;index"`
	Entities         string    `db:"entities"          gorm:"column:entities"`
	Sentiment        *float64  `db:"sentiment"         gorm:"column:sentiment"`
	Confidence       *float64  `db:"confidence"        gorm:"column:confidence"`
	IsEscalated      bool      `db:"is_escalated"      gorm:"column:is_escalated;not null;default:false"`
	EscalationReason string    `db:"escalation_reason" gorm:"column:escalation_reason"`
	CreatedAt        time.Time `db:"created_at"        gorm:"column:created_at;autoCreateTime"`
}

func (ConversationEntity) TableName() string {
	return "conversations"
}

func toConversationEntity(m *model.Conversation) *ConversationEntity {
	if m == nil {
		return nil
	}
	return &ConversationEntity{
		ID:               m.ID,
		LeadID:           m.LeadID,
		Channel:          m.Channel,
		Direction:        string(m.Direction),
		Content:          m.Content,
		Intent:           m.Intent,
		Entities:         m.Entities,
		Sentiment:        m.Sentiment,
		Confidence:       m.Confidence,
		IsEscalated:      m.IsEscalated,
		EscalationReason: m.EscalationReason,
		CreatedAt:        m.CreatedAt,
	}
}

func toConversationModel(e *ConversationEntity) *model.Conversation {
	if e == nil {
		return nil
	}
	return &model.Conversation{
		ID:               e.ID,
		LeadID:           e.LeadID,
		Channel:          e.Channel,
		Direction:        model.Direction(e.Direction),
		Content:          e.Content,
		Intent:           e.Intent,
		Entities:         e.Entities,
		Sentiment:        e.Sentiment,
		Confidence:       e.Confidence,
		IsEscalated:      e.IsEscalated,
		EscalationReason: e.EscalationReason,
		CreatedAt:        e.CreatedAt,
	}
}

func toConversationModels(entities []*ConversationEntity) []*model.Conversation {
	if entities == nil {
		return nil
	}
	models := make([]*model.Conversation, len(entities))
	for i, e := range entities {
		models[i] = toConversationModel(e)
	}
	return models
}
