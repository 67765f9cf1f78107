package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xisxz/agente-vendas/internal/model"
)

func conversationsAt(times ...time.Time) []*model.Conversation {
	out := make([]*model.Conversation, len(times))
	for i, ts := range times {
		out[i] = &model.Conversation{CreatedAt: ts, Direction: model.DirectionInbound}
	}
	return out
}

func TestAnalyzeLeadPatterns(t *testing.T) {
	t.Run("empty history", func(t *testing.T) {
		p := AnalyzeLeadPatterns(nil)
		assert.Zero(t, p.TotalInteractions)
		assert.Nil(t, p.AvgResponseHours)
	})

	t.Run("ranks hour and day by frequency", func(t *testing.T) {
		p := AnalyzeLeadPatterns(conversationsAt(
			time.Date(2025, 3, 3, 14, 0, 0, 0, time.UTC), // Monday 14h
			time.Date(2025, 3, 5, 14, 30, 0, 0, time.UTC), // Wednesday 14h
			time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),  // Monday 9h
		))
		require.Equal(t, 3, p.TotalInteractions)
		assert.Equal(t, 14, p.PreferredHours[0])
		assert.Equal(t, time.Monday, p.PreferredDays[0])
	})

	t.Run("average interval needs two samples", func(t *testing.T) {
		single := AnalyzeLeadPatterns(conversationsAt(time.Now()))
		assert.Nil(t, single.AvgResponseHours)

		base := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)
		p := AnalyzeLeadPatterns(conversationsAt(base, base.Add(4*time.Hour), base.Add(12*time.Hour)))
		require.NotNil(t, p.AvgResponseHours)
		assert.InDelta(t, 6.0, *p.AvgResponseHours, 1e-9)
	})
}

func TestTimePlanner_OptimalTime(t *testing.T) {
	planner := NewTimePlanner(DefaultBusinessHours)
	noLead := LeadPatterns{}
	noCohort := CohortPatterns{}

	// Monday 08:00 UTC
	now := time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC)

	t.Run("welcome skips day selection and stays in business hours", func(t *testing.T) {
		got := planner.OptimalTime(now, model.FollowUpWelcome, noLead, noCohort)
		// now + 2h on Monday, default slot 10:30
		assert.Equal(t, time.Date(2025, 3, 3, 10, 30, 0, 0, time.UTC), got)
	})

	t.Run("default day pushes to next tuesday", func(t *testing.T) {
		got := planner.OptimalTime(now, model.FollowUpQualification, noLead, noCohort)
		// base Tuesday + 7 because the selected weekday equals the base's
		assert.Equal(t, time.Date(2025, 3, 11, 10, 30, 0, 0, time.UTC), got)
		assert.Equal(t, time.Tuesday, got.Weekday())
	})

	t.Run("lead patterns win over cohort when gated in", func(t *testing.T) {
		lead := LeadPatterns{PreferredHours: []int{16}, PreferredDays: []time.Weekday{time.Thursday}, TotalInteractions: 5}
		cohort := CohortPatterns{PreferredHours: []int{9}, PreferredDays: []time.Weekday{time.Friday}, SampleSize: 50}

		got := planner.OptimalTime(now, model.FollowUpNurturing, lead, cohort)
		assert.Equal(t, time.Thursday, got.Weekday())
		assert.Equal(t, 16, got.Hour())
	})

	t.Run("lead below gate falls through to cohort", func(t *testing.T) {
		lead := LeadPatterns{PreferredHours: []int{16}, PreferredDays: []time.Weekday{time.Thursday}, TotalInteractions: 2}
		cohort := CohortPatterns{PreferredHours: []int{11}, PreferredDays: []time.Weekday{time.Friday}, SampleSize: 50}

		got := planner.OptimalTime(now, model.FollowUpNurturing, lead, cohort)
		assert.Equal(t, time.Friday, got.Weekday())
		assert.Equal(t, 11, got.Hour())
	})

	t.Run("cohort below gate falls through to default", func(t *testing.T) {
		cohort := CohortPatterns{PreferredHours: []int{7}, PreferredDays: []time.Weekday{time.Friday}, SampleSize: 3}

		got := planner.OptimalTime(now, model.FollowUpNurturing, noLead, cohort)
		assert.Equal(t, time.Tuesday, got.Weekday())
		assert.Equal(t, 10, got.Hour())
		assert.Equal(t, 30, got.Minute())
	})

	t.Run("early hour clamps up to start of day", func(t *testing.T) {
		lead := LeadPatterns{PreferredHours: []int{7}, TotalInteractions: 5}
		got := planner.OptimalTime(now, model.FollowUpWelcome, lead, noCohort)
		assert.Equal(t, 9, got.Hour())
		assert.Equal(t, 0, got.Minute())
	})

	t.Run("late hour rolls to next morning", func(t *testing.T) {
		lead := LeadPatterns{PreferredHours: []int{21}, TotalInteractions: 5}
		got := planner.OptimalTime(now, model.FollowUpWelcome, lead, noCohort)
		// Monday 21:00 rolls to Tuesday 09:00
		assert.Equal(t, time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC), got)
	})

	t.Run("lunch window clamps to end of lunch", func(t *testing.T) {
		lead := LeadPatterns{PreferredHours: []int{12}, TotalInteractions: 5}
		got := planner.OptimalTime(now, model.FollowUpWelcome, lead, noCohort)
		assert.Equal(t, 14, got.Hour())
	})

	t.Run("weekend rolls to monday", func(t *testing.T) {
		// Friday 16:00 + 24h closing interval lands on Saturday
		friday := time.Date(2025, 3, 7, 16, 0, 0, 0, time.UTC)
		got := planner.OptimalTime(friday, model.FollowUpClosing, noLead, noCohort)
		assert.Equal(t, time.Monday, got.Weekday())
	})

	t.Run("welcome always lands on a weekday inside the window", func(t *testing.T) {
		for day := 0; day < 14; day++ {
			for hour := 0; hour < 24; hour++ {
				start := time.Date(2025, 3, 1+day, hour, 15, 0, 0, time.UTC)
				got := planner.OptimalTime(start, model.FollowUpWelcome, noLead, noCohort)

				assert.NotEqual(t, time.Saturday, got.Weekday())
				assert.NotEqual(t, time.Sunday, got.Weekday())

				minutes := got.Hour()*60 + got.Minute()
				assert.GreaterOrEqual(t, minutes, 9*60)
				assert.Less(t, minutes, 18*60)
				outsideLunch := minutes < 12*60 || minutes > 14*60
				assert.True(t, outsideLunch || minutes == 14*60)
			}
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		first := planner.OptimalTime(now, model.FollowUpProposal, noLead, noCohort)
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, planner.OptimalTime(now, model.FollowUpProposal, noLead, noCohort))
		}
	})
}

func TestSelectMessage(t *testing.T) {
	got := SelectMessage(model.FollowUpWelcome, "Ana")
	assert.Equal(t, "Hello Ana! Thanks for your interest. How can I help you find the best solution?", got)

	// unknown type falls back to nurturing family
	fallback := SelectMessage(model.FollowUpType("bogus"), "Ana")
	assert.Equal(t, SelectMessage(model.FollowUpNurturing, "Ana"), fallback)
}

func TestIdealChannel(t *testing.T) {
	t.Run("top inbound channel wins", func(t *testing.T) {
		counts := []model.ChannelCount{{Channel: "email", Count: 7}, {Channel: "whatsapp", Count: 2}}
		assert.Equal(t, "email", IdealChannel(counts, "linkedin"))
	})

	t.Run("falls back to source", func(t *testing.T) {
		assert.Equal(t, "linkedin", IdealChannel(nil, "linkedin"))
	})

	t.Run("defaults to whatsapp", func(t *testing.T) {
		assert.Equal(t, "whatsapp", IdealChannel(nil, ""))
	})
}
