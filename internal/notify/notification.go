package notify

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/xisxz/agente-vendas/internal/model"
)

type Type string

const (
	TypeEscalation       Type = "escalation"
	TypeHighPriorityLead Type = "high_priority_lead"
	TypeUrgentFollowUp   Type = "urgent_followup"
	TypeComplaint        Type = "complaint"
	TypeHotLead          Type = "hot_lead"
	TypeSystemAlert      Type = "system_alert"
)

type Channel string

const (
	ChannelEmail     Channel = "email"
	ChannelSlack     Channel = "slack"
	ChannelWebhook   Channel = "webhook"
	ChannelSMS       Channel = "sms"
	ChannelDashboard Channel = "dashboard"
)

// typeDefaults maps each notification type to its delivery channels
// and priority when the caller supplies none.
var typeDefaults = map[Type]struct {
	channels []Channel
	priority string
}{
	TypeEscalation:       {[]Channel{ChannelSlack, ChannelEmail}, "high"},
	TypeHighPriorityLead: {[]Channel{ChannelSlack, ChannelDashboard}, "high"},
	TypeUrgentFollowUp:   {[]Channel{ChannelDashboard, ChannelEmail}, "medium"},
	TypeComplaint:        {[]Channel{ChannelSlack, ChannelEmail, ChannelSMS}, "urgent"},
	TypeHotLead:          {[]Channel{ChannelSlack, ChannelDashboard}, "high"},
	TypeSystemAlert:      {[]Channel{ChannelEmail, ChannelWebhook}, "medium"},
}

// Notification is an immutable alert for the human team.
type Notification struct {
	ID             string                 `json:"id"`
	Type           Type                   `json:"type"`
	Title          string                 `json:"title"`
	Message        string                 `json:"message"`
	Priority       string                 `json:"priority"`
	LeadID         int64                  `json:"lead_id,omitempty"`
	ConversationID int64                  `json:"conversation_id,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
	Channels       []Channel              `json:"channels"`
	CreatedAt      time.Time              `json:"created_at"`
}

// New builds a notification with defaults applied: generated id,
// current timestamp, and the type's channels/priority unless overridden.
func New(t Type, title, message string) Notification {
	n := Notification{
		ID:        uuid.NewString(),
		Type:      t,
		Title:     title,
		Message:   message,
		Metadata:  map[string]interface{}{},
		CreatedAt: time.Now().UTC(),
	}

	if d, ok := typeDefaults[t]; ok {
		n.Priority = d.priority
		n.Channels = append([]Channel(nil), d.channels...)
	} else {
		n.Priority = "medium"
		n.Channels = []Channel{ChannelDashboard}
	}

	return n
}

// ForEscalation announces a conversation handed off to a human.
func ForEscalation(lead *model.Lead, conversation *model.Conversation, reason, priority string) Notification {
	contact := lead.Email
	if contact == "" {
		contact = lead.Phone
	}

	n := New(TypeEscalation,
		fmt.Sprintf("Escalation: %s", lead.Name),
		fmt.Sprintf("Conversation handed off to a human.\nLead: %s (%s)\nReason: %s\nChannel: %s",
			lead.Name, contact, reason, conversation.Channel),
	)
	if priority != "" {
		n.Priority = priority
	}
	n.LeadID = lead.ID
	n.ConversationID = conversation.ID
	n.Metadata["escalation_reason"] = reason
	n.Metadata["conversation_intent"] = conversation.Intent
	n.Metadata["lead_qualification_score"] = lead.QualificationScore
	return n
}

// ForHotLead flags a lead whose priority score crossed the urgent tier.
func ForHotLead(lead *model.Lead, score float64) Notification {
	n := New(TypeHotLead,
		fmt.Sprintf("Hot lead: %s", lead.Name),
		fmt.Sprintf("Lead %s reached priority score %.2f and should be contacted now.", lead.Name, score),
	)
	n.LeadID = lead.ID
	n.Metadata["priority_score"] = score
	n.Metadata["source"] = lead.Source
	return n
}

// ForOverdueFollowUp flags a follow-up left unexecuted past its slot.
func ForOverdueFollowUp(followup *model.FollowUp, lead *model.Lead, overdue time.Duration) Notification {
	n := New(TypeUrgentFollowUp,
		fmt.Sprintf("Overdue follow-up for %s", lead.Name),
		fmt.Sprintf("A %s follow-up scheduled for %s is %.0f minutes overdue.",
			followup.Type, followup.ScheduledAt.Format(time.RFC3339), overdue.Minutes()),
	)
	n.LeadID = lead.ID
	n.Metadata["followup_id"] = followup.ID
	n.Metadata["followup_type"] = string(followup.Type)
	n.Metadata["overdue_minutes"] = overdue.Minutes()
	return n
}
