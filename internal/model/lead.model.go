package model

import (
	"errors"
	"time"
)

// LeadStatus is the lifecycle state of a lead.
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusQualified LeadStatus = "qualified"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusConverted LeadStatus = "converted"
	LeadStatusLost      LeadStatus = "lost"
	LeadStatusEscalated LeadStatus = "escalated"
	LeadStatusDeleted   LeadStatus = "deleted"
)

// leadTransitions is the allowed lifecycle graph. escalated and deleted
// are reachable from any non-terminal state.
var leadTransitions = map[LeadStatus][]LeadStatus{
	LeadStatusNew:       {LeadStatusQualified, LeadStatusContacted, LeadStatusEscalated, LeadStatusDeleted},
	LeadStatusQualified: {LeadStatusContacted, LeadStatusConverted, LeadStatusLost, LeadStatusEscalated, LeadStatusDeleted},
	LeadStatusContacted: {LeadStatusQualified, LeadStatusConverted, LeadStatusLost, LeadStatusEscalated, LeadStatusDeleted},
	LeadStatusEscalated: {LeadStatusQualified, LeadStatusContacted, LeadStatusConverted, LeadStatusLost, LeadStatusDeleted},
}

func (s LeadStatus) CanTransitionTo(next LeadStatus) bool {
	if s == next {
		return false
	}
	for _, allowed := range leadTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s LeadStatus) IsTerminal() bool {
	return s == LeadStatusConverted || s == LeadStatusLost || s == LeadStatusDeleted
}

type Lead struct {
	ID                 int64      `json:"id"`
	CRMID              *int64     `json:"crm_id"`
	Name               string     `json:"name"`
	Email              string     `json:"email"`
	Phone              string     `json:"phone"`
	Company            string     `json:"company"`
	Location           string     `json:"location"`
	Status             LeadStatus `json:"status"`
	QualificationScore float64    `json:"qualification_score"` // 0..10
	Category           string     `json:"category"`
	Source             string     `json:"source"`
	LastInteraction    *time.Time `json:"last_interaction"`
	InteractionCount   int        `json:"interaction_count"`
	SentimentScore     float64    `json:"sentiment_score"` // running mean, -1..1
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func (Lead) TableName() string { return "leads" }

// LeadCreateRequest is the input for creating a lead.
type LeadCreateRequest struct {
	Name     string
	Email    string
	Phone    string
	Company  string
	Location string
	Category string
	Source   string
}

func (p LeadCreateRequest) Validate() error {
	if p.Name == "" {
		return errors.New("name is required")
	}
	if p.Email == "" && p.Phone == "" {
		return errors.New("email or phone is required")
	}
	return nil
}

// LeadUpdateRequest carries optional field updates; nil means unchanged.
type LeadUpdateRequest struct {
	Name               *string
	Email              *string
	Phone              *string
	Company            *string
	Location           *string
	Category           *string
	Status             *LeadStatus
	QualificationScore *float64
}

// LeadFilter controls List queries.
type LeadFilter struct {
	Status   *LeadStatus
	Source   *string
	Category *string
	Limit    int // default 50
	Offset   int
	Desc     bool // order by created_at
}
