package scorecard

import (
	"github.com/callcoach/scorecard-backend-go/internal/domain/scorecard"
)

// Normalize converts raw operational counters into the eight percentage-scale
// sub-metrics. Every ratio with a missing or zero denominator yields 0; every
// result is clamped to [0,100]. Pure and deterministic.
func Normalize(raw scorecard.RawCounters) scorecard.NormalizedMetrics {
	return scorecard.NormalizedMetrics{
		ScheduleAdherence:  ratio(raw.ActualHours, raw.ScheduledHours),
		AttendanceRate:     ratio(raw.DaysPresent, raw.ScheduledDays),
		PunctualityScore:   ratio(raw.OnTimeArrivals, raw.TotalShifts),
		BreakCompliance:    ratio(raw.BreaksWithinLimit, raw.TotalBreaks),
		TaskCompletionRate: ratio(raw.TasksCompleted, raw.TasksAssigned),
		ProductivityIndex:  ratio(raw.ActualOutput, raw.ExpectedOutput),
		QualityScore:       ratio(raw.ErrorFreeTasks, raw.TotalTasks),
		EfficiencyRate:     ratio(raw.StandardTime, raw.ActualTimeSpent),
	}
}

// ratio returns num/den as a percentage clamped to [0,100]. Nil or zero
// denominators yield 0, never NaN or Inf.
func ratio(num, den *float64) float64 {
	if num == nil || den == nil || *den == 0 {
		return 0
	}
	pct := *num / *den * 100
	return clampPercent(pct)
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// ValidateLegacyScore clamps a hand-entered 1-5 score to the valid range.
// A missing score defaults to 1.
func ValidateLegacyScore(score *int) int {
	if score == nil {
		return 1
	}
	if *score < 1 {
		return 1
	}
	if *score > 5 {
		return 5
	}
	return *score
}

// ValidateLegacyScores applies ValidateLegacyScore field by field.
func ValidateLegacyScores(in scorecard.LegacyMetricsInput) scorecard.LegacyScores {
	return scorecard.LegacyScores{
		Service:      ValidateLegacyScore(in.Service),
		Productivity: ValidateLegacyScore(in.Productivity),
		Quality:      ValidateLegacyScore(in.Quality),
		Assiduity:    ValidateLegacyScore(in.Assiduity),
		Performance:  ValidateLegacyScore(in.Performance),
		Adherence:    ValidateLegacyScore(in.Adherence),
		Lateness:     ValidateLegacyScore(in.Lateness),
		BreakExceeds: ValidateLegacyScore(in.BreakExceeds),
	}
}
