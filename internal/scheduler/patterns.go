package scheduler

import (
	"sort"
	"time"

	"github.com/xisxz/agente-vendas/internal/model"
)

// Minimum-sample gates before a pattern is trusted downstream.
const (
	leadPatternMinInteractions = 3
	cohortPatternMinMessages   = 10
)

// LeadPatterns is the contact-time profile mined from a single lead's
// inbound history.
type LeadPatterns struct {
	PreferredHours    []int          // most frequent first
	PreferredDays     []time.Weekday // most frequent first
	AvgResponseHours  *float64       // nil when fewer than 2 samples
	TotalInteractions int
}

func (p LeadPatterns) usable() bool {
	return p.TotalInteractions >= leadPatternMinInteractions
}

// CohortPatterns is the pooled profile of up to 100 leads sharing
// category, source or location with the target lead.
type CohortPatterns struct {
	PreferredHours []int
	PreferredDays  []time.Weekday
	SampleSize     int
}

func (p CohortPatterns) usable() bool {
	return p.SampleSize >= cohortPatternMinMessages
}

// AnalyzeLeadPatterns mines hour-of-day and day-of-week frequencies from
// the lead's inbound conversations, ordered oldest-first. The mean
// inter-message interval is only defined with two or more samples.
func AnalyzeLeadPatterns(inbound []*model.Conversation) LeadPatterns {
	if len(inbound) == 0 {
		return LeadPatterns{}
	}

	hours := make([]int, 0, len(inbound))
	days := make([]time.Weekday, 0, len(inbound))
	for _, conv := range inbound {
		hours = append(hours, conv.CreatedAt.Hour())
		days = append(days, conv.CreatedAt.Weekday())
	}

	return LeadPatterns{
		PreferredHours:    rankHours(hours),
		PreferredDays:     rankDays(days),
		AvgResponseHours:  avgIntervalHours(inbound),
		TotalInteractions: len(inbound),
	}
}

// AnalyzeCohortPatterns pools inbound conversations of the cohort. An
// empty cohort yields an unusable zero value and the caller falls
// through to the default tier.
func AnalyzeCohortPatterns(inbound []*model.Conversation) CohortPatterns {
	if len(inbound) == 0 {
		return CohortPatterns{}
	}

	hours := make([]int, 0, len(inbound))
	days := make([]time.Weekday, 0, len(inbound))
	for _, conv := range inbound {
		hours = append(hours, conv.CreatedAt.Hour())
		days = append(days, conv.CreatedAt.Weekday())
	}

	return CohortPatterns{
		PreferredHours: rankHours(hours),
		PreferredDays:  rankDays(days),
		SampleSize:     len(inbound),
	}
}

// rankHours orders distinct values by descending frequency. Ties keep
// first-appearance order so the ranking is deterministic.
func rankHours(values []int) []int {
	counts := map[int]int{}
	ranked := make([]int, 0, len(values))
	for _, v := range values {
		if counts[v] == 0 {
			ranked = append(ranked, v)
		}
		counts[v]++
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return counts[ranked[i]] > counts[ranked[j]]
	})
	return ranked
}

func rankDays(values []time.Weekday) []time.Weekday {
	counts := map[time.Weekday]int{}
	ranked := make([]time.Weekday, 0, len(values))
	for _, v := range values {
		if counts[v] == 0 {
			ranked = append(ranked, v)
		}
		counts[v]++
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return counts[ranked[i]] > counts[ranked[j]]
	})
	return ranked
}

func avgIntervalHours(inbound []*model.Conversation) *float64 {
	if len(inbound) < 2 {
		return nil
	}
	var total float64
	for i := 1; i < len(inbound); i++ {
		total += inbound[i].CreatedAt.Sub(inbound[i-1].CreatedAt).Hours()
	}
	avg := total / float64(len(inbound)-1)
	return &avg
}
