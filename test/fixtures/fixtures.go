package fixtures

import (
	"time"

	"github.com/xisxz/agente-vendas/internal/model"
)

var (
	TestLeadNew = model.Lead{
		ID:     1,
		Name:   "Ana Souza",
		Email:  "ana@example.com",
		Status: model.LeadStatusNew,
		Source: "webchat",
	}

	TestLeadQualified = model.Lead{
		ID:                 2,
		Name:               "Bruno Lima",
		Email:              "bruno@example.com",
		Status:             model.LeadStatusQualified,
		QualificationScore: 7.5,
		Source:             "whatsapp",
	}

	TestLeadEscalated = model.Lead{
		ID:             3,
		Name:           "Carla Dias",
		Phone:          "+5511999990000",
		Status:         model.LeadStatusEscalated,
		SentimentScore: -0.6,
		Source:         "email",
	}

	TestLeadConverted = model.Lead{
		ID:     4,
		Name:   "Diego Alves",
		Email:  "diego@example.com",
		Status: model.LeadStatusConverted,
		Source: "webchat",
	}
)

func NewTestLead(id int64, status model.LeadStatus) *model.Lead {
	return &model.Lead{
		ID:        id,
		Name:      "Test Lead",
		Email:     "test@example.com",
		Status:    status,
		Source:    "webchat",
		CreatedAt: time.Now(),
	}
}

func NewTestConversation(leadID int64, direction model.Direction, content string) *model.Conversation {
	return &model.Conversation{
		LeadID:    leadID,
		Channel:   "webchat",
		Direction: direction,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

func NewTestFollowUp(leadID int64, fuType model.FollowUpType, scheduledAt time.Time) *model.FollowUp {
	return &model.FollowUp{
		LeadID:      leadID,
		Type:        fuType,
		Status:      model.FollowUpStatusScheduled,
		Priority:    model.PriorityMedium,
		Message:     "Just checking in",
		Channel:     "email",
		ScheduledAt: scheduledAt,
	}
}

var (
	PricingMessages = []string{
		"how much does the premium plan cost?",
		"what is the price of the enterprise tier?",
		"do you offer a discount for annual billing?",
	}

	ComplaintMessages = []string{
		"This is terrible, I am very unhappy and disappointed, I want a refund.",
		"The product is awful and support never answers.",
	}

	DemoMessages = []string{
		"Can you show me a demo of the product?",
		"I would like a demonstration next week.",
	}

	VagueMessages = []string{
		"hi",
		"ok",
		"hmm",
		"thanks",
	}
)

func LeadCreateRequestValid() model.LeadCreateRequest {
	return model.LeadCreateRequest{
		Name:   "Ana Souza",
		Email:  "ana@example.com",
		Source: "webchat",
	}
}

func LeadCreateRequestNoContact() model.LeadCreateRequest {
	return model.LeadCreateRequest{
		Name:   "No Contact",
		Source: "webchat",
	}
}

func LeadFilterByStatus(status model.LeadStatus) model.LeadFilter {
	return model.LeadFilter{
		Status: &status,
		Limit:  50,
		Offset: 0,
		Desc:   false,
	}
}

func LeadFilterWithPagination(limit, offset int) model.LeadFilter {
	return model.LeadFilter{
		Limit:  limit,
		Offset: offset,
		Desc:   true,
	}
}
