package model

import "time"

// Direction of a conversation record relative to the system.
type Direction string

const (
	DirectionInbound  Direction = "inbound"
	DirectionOutbound Direction = "outbound"
)

type Conversation struct {
	ID               int64     `json:"id"`
	LeadID           int64     `json:"lead_id"`
	Channel          string    `json:"channel"`
	Direction        Direction `json:"direction"`
	Content          string    `json:"content"`
	Intent           string    `json:"intent"`
	Entities         string    `json:"entities"` // JSON-encoded entity map
	Sentiment        *float64  `json:"sentiment"`
	Confidence       *float64  `json:"confidence"`
	IsEscalated      bool      `json:"is_escalated"`
	EscalationReason string    `json:"escalation_reason"`
	CreatedAt        time.Time `json:"created_at"`
}

func (Conversation) TableName() string { return "conversations" }

// ConversationFilter controls per-lead history queries.
type ConversationFilter struct {
	LeadID    int64
	Direction *Direction
	Limit     int
	Desc      bool // order by created_at
}

// ChannelCount is one row of a per-channel inbound frequency query.
type ChannelCount struct {
	Channel string
	Count   int64
}

// ConversationStats summarizes a lead's history for the chat context view.
type ConversationStats struct {
	Total        int64          `json:"total"`
	Inbound      int64          `json:"inbound"`
	Outbound     int64          `json:"outbound"`
	Escalated    int64          `json:"escalated"`
	IntentCounts map[string]int64 `json:"intent_counts"`
}
