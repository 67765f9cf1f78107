package scheduler

import (
	"time"

	"github.com/xisxz/agente-vendas/internal/model"
)

// baseIntervals is the per-type wait before the next contact.
var baseIntervals = map[model.FollowUpType]time.Duration{
	model.FollowUpWelcome:       2 * time.Hour,
	model.FollowUpNurturing:     3 * 24 * time.Hour,
	model.FollowUpQualification: 24 * time.Hour,
	model.FollowUpProposal:      2 * 24 * time.Hour,
	model.FollowUpClosing:       24 * time.Hour,
	model.FollowUpReactivation:  7 * 24 * time.Hour,
	model.FollowUpFeedback:      24 * time.Hour,
}

// BaseInterval exposes the per-type wait for the smart-scheduling view.
func BaseInterval(t model.FollowUpType) time.Duration {
	return baseIntervals[t]
}

// BusinessHours bounds the window outbound contact is normalized into.
type BusinessHours struct {
	StartHour   int
	StartMinute int
	EndHour     int
	EndMinute   int
	LunchStart  int // hour, lunch window is [LunchStart:00, LunchEnd:00]
	LunchEnd    int
}

var DefaultBusinessHours = BusinessHours{
	StartHour:  9,
	EndHour:    18,
	LunchStart: 12,
	LunchEnd:   14,
}

// Default contact slot when neither the lead nor its cohort has enough
// history: mid-morning, Tuesday.
const (
	defaultHour   = 10
	defaultMinute = 30
)

var defaultDay = time.Tuesday

// TimePlanner turns mined patterns and a follow-up type into a concrete
// send timestamp. Deterministic given the same inputs and now.
type TimePlanner struct {
	hours BusinessHours
}

func NewTimePlanner(hours BusinessHours) *TimePlanner {
	return &TimePlanner{hours: hours}
}

// OptimalTime walks a single candidate timestamp through four steps:
// base interval, preferred-hour selection, preferred-day selection and
// business-hours normalization.
func (p *TimePlanner) OptimalTime(now time.Time, followupType model.FollowUpType, lead LeadPatterns, cohort CohortPatterns) time.Time {
	base := now.Add(baseIntervals[followupType])

	hour, minute := p.optimalHour(lead, cohort)
	candidate := time.Date(base.Year(), base.Month(), base.Day(), hour, minute, 0, 0, base.Location())

	if day, ok := p.optimalDay(followupType, lead, cohort); ok {
		daysAhead := int(day) - int(candidate.Weekday())
		if daysAhead <= 0 {
			// already passed this week, push a full week ahead
			daysAhead += 7
		}
		candidate = candidate.AddDate(0, 0, daysAhead)
	}

	return p.adjustToBusinessHours(candidate)
}

// optimalHour is a tiered fallback: lead history, then cohort, then the
// default slot.
func (p *TimePlanner) optimalHour(lead LeadPatterns, cohort CohortPatterns) (int, int) {
	if lead.usable() && len(lead.PreferredHours) > 0 {
		return lead.PreferredHours[0], 0
	}
	if cohort.usable() && len(cohort.PreferredHours) > 0 {
		return cohort.PreferredHours[0], 0
	}
	return defaultHour, defaultMinute
}

// optimalDay returns no day at all for welcome and closing follow-ups:
// those are urgency-driven and must not wait for a calendar slot.
func (p *TimePlanner) optimalDay(followupType model.FollowUpType, lead LeadPatterns, cohort CohortPatterns) (time.Weekday, bool) {
	if followupType == model.FollowUpWelcome || followupType == model.FollowUpClosing {
		return 0, false
	}
	if lead.usable() && len(lead.PreferredDays) > 0 {
		return lead.PreferredDays[0], true
	}
	if cohort.usable() && len(cohort.PreferredDays) > 0 {
		return cohort.PreferredDays[0], true
	}
	return defaultDay, true
}

func (p *TimePlanner) adjustToBusinessHours(t time.Time) time.Time {
	t = rollOffWeekend(t)

	minutes := t.Hour()*60 + t.Minute()
	start := p.hours.StartHour*60 + p.hours.StartMinute
	end := p.hours.EndHour*60 + p.hours.EndMinute
	lunchStart := p.hours.LunchStart * 60
	lunchEnd := p.hours.LunchEnd * 60

	switch {
	case minutes < start:
		t = withTime(t, p.hours.StartHour, p.hours.StartMinute)
	case minutes >= end:
		t = withTime(t.AddDate(0, 0, 1), p.hours.StartHour, p.hours.StartMinute)
		t = rollOffWeekend(t)
	case minutes >= lunchStart && minutes <= lunchEnd:
		t = withTime(t, p.hours.LunchEnd, 0)
	}
	return t
}

func rollOffWeekend(t time.Time) time.Time {
	switch t.Weekday() {
	case time.Saturday:
		return t.AddDate(0, 0, 2)
	case time.Sunday:
		return t.AddDate(0, 0, 1)
	}
	return t
}

func withTime(t time.Time, hour, minute int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), hour, minute, 0, 0, t.Location())
}
