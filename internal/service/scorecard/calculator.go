package scorecard

import (
	"math"

	"github.com/callcoach/scorecard-backend-go/internal/domain/scorecard"
)

// DefaultMetricWeights is the fixed weight table for the raw-derived scheme.
// Attendance, adherence, completion, productivity and quality carry the bulk;
// break compliance and efficiency act as tiebreakers.
func DefaultMetricWeights() scorecard.MetricWeights {
	return scorecard.MetricWeights{
		ScheduleAdherence:  1.5,
		AttendanceRate:     1.5,
		PunctualityScore:   1.0,
		BreakCompliance:    0.5,
		TaskCompletionRate: 1.5,
		ProductivityIndex:  1.5,
		QualityScore:       1.5,
		EfficiencyRate:     0.5,
	}
}

// DefaultLegacyWeights is the uniform weight table for the 1-5 scheme.
func DefaultLegacyWeights() scorecard.LegacyWeights {
	return scorecard.LegacyWeights{
		Service:      1.0,
		Productivity: 1.0,
		Quality:      1.0,
		Assiduity:    1.0,
		Performance:  1.0,
		Adherence:    1.0,
		Lateness:     1.0,
		BreakExceeds: 1.0,
	}
}

// ApplyMetricWeightOverrides lays caller-supplied weights over the default
// table. Fields absent from the map keep their default individually; a
// partial map never corrupts the rest of the table.
func ApplyMetricWeightOverrides(overrides map[string]float64) scorecard.MetricWeights {
	w := DefaultMetricWeights()
	if len(overrides) == 0 {
		return w
	}
	if v, ok := overrides["schedule_adherence"]; ok {
		w.ScheduleAdherence = v
	}
	if v, ok := overrides["attendance_rate"]; ok {
		w.AttendanceRate = v
	}
	if v, ok := overrides["punctuality_score"]; ok {
		w.PunctualityScore = v
	}
	if v, ok := overrides["break_compliance"]; ok {
		w.BreakCompliance = v
	}
	if v, ok := overrides["task_completion_rate"]; ok {
		w.TaskCompletionRate = v
	}
	if v, ok := overrides["productivity_index"]; ok {
		w.ProductivityIndex = v
	}
	if v, ok := overrides["quality_score"]; ok {
		w.QualityScore = v
	}
	if v, ok := overrides["efficiency_rate"]; ok {
		w.EfficiencyRate = v
	}
	return w
}

// ApplyLegacyWeightOverrides lays caller-supplied weights over the uniform
// legacy table, field by field.
func ApplyLegacyWeightOverrides(overrides map[string]float64) scorecard.LegacyWeights {
	w := DefaultLegacyWeights()
	if len(overrides) == 0 {
		return w
	}
	if v, ok := overrides["service"]; ok {
		w.Service = v
	}
	if v, ok := overrides["productivity"]; ok {
		w.Productivity = v
	}
	if v, ok := overrides["quality"]; ok {
		w.Quality = v
	}
	if v, ok := overrides["assiduity"]; ok {
		w.Assiduity = v
	}
	if v, ok := overrides["performance"]; ok {
		w.Performance = v
	}
	if v, ok := overrides["adherence"]; ok {
		w.Adherence = v
	}
	if v, ok := overrides["lateness"]; ok {
		w.Lateness = v
	}
	if v, ok := overrides["break_exceeds"]; ok {
		w.BreakExceeds = v
	}
	return w
}

// ScoreMetrics computes the weighted total and percentage-of-maximum for the
// raw-derived scheme. Sub-metrics are already on a 0-100 scale, so the
// maximum possible is 100 x the weight sum.
func ScoreMetrics(m scorecard.NormalizedMetrics, w scorecard.MetricWeights) (totalScore, percentage float64) {
	total := m.ScheduleAdherence*w.ScheduleAdherence +
		m.AttendanceRate*w.AttendanceRate +
		m.PunctualityScore*w.PunctualityScore +
		m.BreakCompliance*w.BreakCompliance +
		m.TaskCompletionRate*w.TaskCompletionRate +
		m.ProductivityIndex*w.ProductivityIndex +
		m.QualityScore*w.QualityScore +
		m.EfficiencyRate*w.EfficiencyRate

	weightSum := w.ScheduleAdherence + w.AttendanceRate + w.PunctualityScore +
		w.BreakCompliance + w.TaskCompletionRate + w.ProductivityIndex +
		w.QualityScore + w.EfficiencyRate

	return finishScore(total, 100*weightSum)
}

// ScoreLegacy computes the weighted total and percentage-of-maximum for the
// 1-5 scheme, where the maximum possible is 5 x the weight sum.
func ScoreLegacy(s scorecard.LegacyScores, w scorecard.LegacyWeights) (totalScore, percentage float64) {
	total := float64(s.Service)*w.Service +
		float64(s.Productivity)*w.Productivity +
		float64(s.Quality)*w.Quality +
		float64(s.Assiduity)*w.Assiduity +
		float64(s.Performance)*w.Performance +
		float64(s.Adherence)*w.Adherence +
		float64(s.Lateness)*w.Lateness +
		float64(s.BreakExceeds)*w.BreakExceeds

	weightSum := w.Service + w.Productivity + w.Quality + w.Assiduity +
		w.Performance + w.Adherence + w.Lateness + w.BreakExceeds

	return finishScore(total, 5*weightSum)
}

// finishScore rounds the total and derives the percentage against the maximum
// possible score. An all-zero weight table yields percentage 0 rather than a
// division by zero.
func finishScore(total, maxPossible float64) (totalScore, percentage float64) {
	totalScore = round2(total)
	if maxPossible == 0 {
		return totalScore, 0
	}
	return totalScore, round2(total / maxPossible * 100)
}

// round2 rounds to 2 decimal places, halves away from zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
