package repository

import (
	"time"

	"github.com/xisxz/agente-vendas/internal/model"
)

type LeadEntity struct {
	ID                 int64      `db:"id"                  gorm:"primaryKey;autoIncrement;column:id"`
	CRMID              *int64     `db:"crm_id"              gorm:"column:crm_id;unique"`
	Name               string     `db:"name"                gorm:"column:name;not null"`
	Email              string     `db:"email"               gorm:"column:email;index"`
	Phone              string     `db:"phone"               gorm:"column:phone;index"`
	Company            string     `db:"company"             gorm:"column:company"`
	Location           string     `db:"location"            gorm:"column:location"`
	Status             string     `db:"status"              gorm:"column:status;not null;default:new;index"`
	QualificationScore float64    `db:"qualification_score" gorm:"column:qualification_score;not null;default:0"`
	Category           string     `db:"category"            gorm:"column:category;index"`
	Source             string     `db:"source"              gorm:"column:source;index"`
	LastInteraction    *time.Time `db:"last_interaction"    gorm:"column:last_interaction"`
	InteractionCount   int        `db:"interaction_count"   gorm:"column:interaction_count;not null;default:0"`
	SentimentScore     float64    `db:"sentiment_score"     gorm:"column:sentiment_score;not null;default:0"`
	CreatedAt          time.Time  `db:"created_at"          gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time  `db:"updated_at"          gorm:"column:updated_at;autoUpdateTime"`
}

func (LeadEntity) TableName() string {
	return "leads"
}

func toLeadEntity(m *model.Lead) *LeadEntity {
	if m == nil {
		return nil
	}
	return &LeadEntity{
		ID:                 m.ID,
		CRMID:              m.CRMID,
		Name:               m.Name,
		Email:              m.Email,
		Phone:              m.Phone,
		Company:            m.Company,
		Location:           m.Location,
		Status:             string(m.Status),
		QualificationScore: m.QualificationScore,
		Category:           m.Category,
		Source:             m.Source,
		LastInteraction:    m.LastInteraction,
		InteractionCount:   m.InteractionCount,
		SentimentScore:     m.SentimentScore,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func toLeadModel(e *LeadEntity) *model.Lead {
	if e == nil {
		return nil
	}
	return &model.Lead{
		ID:                 e.ID,
		CRMID:              e.CRMID,
		Name:               e.Name,
		Email:              e.Email,
		Phone:              e.Phone,
		Company:            e.Company,
		Location:           e.Location,
		Status:             model.LeadStatus(e.Status),
		QualificationScore: e.QualificationScore,
		Category:           e.Category,
		Source:             e.Source,
		LastInteraction:    e.LastInteraction,
		InteractionCount:   e.InteractionCount,
		SentimentScore:     e.SentimentScore,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}
}

func toLeadModels(entities []*LeadEntity) []*model.Lead {
	if entities == nil {
		return nil
	}
	models := make([]*model.Lead, len(entities))
	for i, e := range entities {
		models[i] = toLeadModel(e)
	}
	return models
}
