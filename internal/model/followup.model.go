package model

import (
	"errors"
	"fmt"
	"time"
)

// FollowUpStatus is the lifecycle state of a follow-up. A follow-up is
// terminal once it leaves scheduled.
type FollowUpStatus string

const (
	FollowUpStatusScheduled FollowUpStatus = "scheduled"
	FollowUpStatusSent      FollowUpStatus = "sent"
	FollowUpStatusFailed    FollowUpStatus = "failed"
	FollowUpStatusCancelled FollowUpStatus = "cancelled"
)

// FollowUpType selects the base interval and message template family.
type FollowUpType string

const (
	FollowUpWelcome       FollowUpType = "welcome"
	FollowUpNurturing     FollowUpType = "nurturing"
	FollowUpQualification FollowUpType = "qualification"
	FollowUpProposal      FollowUpType = "proposal"
	FollowUpClosing       FollowUpType = "closing"
	FollowUpReactivation  FollowUpType = "reactivation"
	FollowUpFeedback      FollowUpType = "feedback"
)

// FollowUpTypes lists all valid types in their defined order.
var FollowUpTypes = []FollowUpType{
	FollowUpWelcome,
	FollowUpNurturing,
	FollowUpQualification,
	FollowUpProposal,
	FollowUpClosing,
	FollowUpReactivation,
	FollowUpFeedback,
}

var ErrUnknownFollowUpType = errors.New("unknown follow-up type")

func ParseFollowUpType(s string) (FollowUpType, error) {
	for _, t := range FollowUpTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q (valid: %v)", ErrUnknownFollowUpType, s, FollowUpTypes)
}

// Priority is an ordered 4-tier enumeration derived from a [0,1]
// composite score. It is recomputed on demand, never persisted on its own.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
	PriorityUrgent
)

func (p Priority) String() string {
	switch p {
	case PriorityUrgent:
		return "URGENT"
	case PriorityHigh:
		return "HIGH"
	case PriorityMedium:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

func ParsePriority(s string) (Priority, bool) {
	switch s {
	case "LOW":
		return PriorityLow, true
	case "MEDIUM":
		return PriorityMedium, true
	case "HIGH":
		return PriorityHigh, true
	case "URGENT":
		return PriorityUrgent, true
	}
	return PriorityLow, false
}

type FollowUp struct {
	ID           int64          `json:"id"`
	LeadID       int64          `json:"lead_id"`
	Type         FollowUpType   `json:"type"`
	Status       FollowUpStatus `json:"status"`
	Priority     Priority       `json:"priority"`
	ScheduledAt  time.Time      `json:"scheduled_at"`
	Message      string         `json:"message"`
	Channel      string         `json:"channel"`
	SentAt       *time.Time     `json:"sent_at"`
	ErrorMessage string         `json:"error_message,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func (FollowUp) TableName() string { return "followups" }

// PendingFollowUp is one row of the due-for-execution query.
type PendingFollowUp struct {
	FollowUp       *FollowUp `json:"followup"`
	Lead           *Lead     `json:"lead"`
	OverdueMinutes float64   `json:"overdue_minutes"`
}

// FollowUpStats aggregates follow-up rows by status and channel.
type FollowUpStats struct {
	ByStatus  map[string]int64 `json:"by_status"`
	ByChannel map[string]int64 `json:"by_channel"`
}
