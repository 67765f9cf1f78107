package model

// SentimentLabel is the 3-way classification of message polarity.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNeutral  SentimentLabel = "neutral"
	SentimentNegative SentimentLabel = "negative"
)

// Sentiment is the polarity/subjectivity record of one message.
type Sentiment struct {
	Polarity     float64        `json:"polarity"`     // -1..1
	Subjectivity float64        `json:"subjectivity"` // 0..1
	Label        SentimentLabel `json:"label"`
	Error        string         `json:"error,omitempty"`
}

// EntityMap groups extracted entities by pass. "generic" holds the
// free-form named-entity pass, "custom" the pattern extractors. The two
// passes are merged without cross-validation; overlaps are left to the
// caller.
type EntityMap struct {
	Generic map[string][]string `json:"generic"`
	Custom  map[string][]string `json:"custom"`
}

func (e EntityMap) Empty() bool {
	return len(e.Generic) == 0 && len(e.Custom) == 0
}

// MessageAnalysis is the transient per-message understanding result.
type MessageAnalysis struct {
	Raw        string    `json:"raw"`
	Normalized string    `json:"processed_text"`
	Intent     string    `json:"intent"`
	Entities   EntityMap `json:"entities"`
	Sentiment  Sentiment `json:"sentiment"`
	Confidence float64   `json:"confidence"` // 0..1
}

// EscalationVerdict is the human hand-off decision for one message.
type EscalationVerdict struct {
	ShouldEscalate bool     `json:"should_escalate"`
	Reasons        []string `json:"reasons"`
	Priority       string   `json:"priority"` // "high" | "medium"
}

// HistoryEntry is the slice of a past conversation the escalation policy
// looks at. Ordered most-recent-last.
type HistoryEntry struct {
	Intent string
}
