package scorecard

import (
	"github.com/callcoach/scorecard-backend-go/internal/domain/scorecard"
)

// PreviousPeriod returns the month/year immediately preceding the given
// period. January wraps to December of the prior year.
func PreviousPeriod(month, year int) (int, int) {
	if month == 1 {
		return 12, year - 1
	}
	return month - 1, year
}

// Trend computes signed per-field deltas between a record and its
// immediate predecessor. A nil previous record yields nil: a missing prior
// period is an absence, never a zero-delta period. Sub-metric deltas are
// only meaningful when both records carry the same scheme; the total-score
// and percentage deltas are always computed.
func Trend(current, previous *scorecard.AgentMetric) *scorecard.TrendDeltas {
	if current == nil || previous == nil {
		return nil
	}

	deltas := &scorecard.TrendDeltas{
		TotalScore: round2(current.TotalScore - previous.TotalScore),
		Percentage: round2(current.Percentage - previous.Percentage),
	}

	if current.Scheme != previous.Scheme {
		return deltas
	}

	switch current.Scheme {
	case scorecard.SchemeRaw:
		deltas.Metrics = &scorecard.NormalizedMetrics{
			ScheduleAdherence:  round2(current.Metrics.ScheduleAdherence - previous.Metrics.ScheduleAdherence),
			AttendanceRate:     round2(current.Metrics.AttendanceRate - previous.Metrics.AttendanceRate),
			PunctualityScore:   round2(current.Metrics.PunctualityScore - previous.Metrics.PunctualityScore),
			BreakCompliance:    round2(current.Metrics.BreakCompliance - previous.Metrics.BreakCompliance),
			TaskCompletionRate: round2(current.Metrics.TaskCompletionRate - previous.Metrics.TaskCompletionRate),
			ProductivityIndex:  round2(current.Metrics.ProductivityIndex - previous.Metrics.ProductivityIndex),
			QualityScore:       round2(current.Metrics.QualityScore - previous.Metrics.QualityScore),
			EfficiencyRate:     round2(current.Metrics.EfficiencyRate - previous.Metrics.EfficiencyRate),
		}
	case scorecard.SchemeLegacy:
		deltas.Legacy = &scorecard.LegacyScores{
			Service:      current.Legacy.Service - previous.Legacy.Service,
			Productivity: current.Legacy.Productivity - previous.Legacy.Productivity,
			Quality:      current.Legacy.Quality - previous.Legacy.Quality,
			Assiduity:    current.Legacy.Assiduity - previous.Legacy.Assiduity,
			Performance:  current.Legacy.Performance - previous.Legacy.Performance,
			Adherence:    current.Legacy.Adherence - previous.Legacy.Adherence,
			Lateness:     current.Legacy.Lateness - previous.Legacy.Lateness,
			BreakExceeds: current.Legacy.BreakExceeds - previous.Legacy.BreakExceeds,
		}
	}

	return deltas
}

// YearlyAverage computes per-field arithmetic means over a year's records,
// each rounded to 2 decimals. Total score and percentage average over every
// record; scheme-specific sub-metrics average over records of that scheme
// only, and are omitted when no record carries the scheme. Empty input
// yields nil.
func YearlyAverage(records []scorecard.AgentMetric) *scorecard.YearlyAverages {
	if len(records) == 0 {
		return nil
	}

	avg := &scorecard.YearlyAverages{Records: len(records)}

	var totalSum, pctSum float64
	var rawCount, legacyCount int
	var raw scorecard.NormalizedMetrics
	var legacy scorecard.LegacyAverages

	for _, rec := range records {
		totalSum += rec.TotalScore
		pctSum += rec.Percentage

		switch rec.Scheme {
		case scorecard.SchemeRaw:
			rawCount++
			raw.ScheduleAdherence += rec.Metrics.ScheduleAdherence
			raw.AttendanceRate += rec.Metrics.AttendanceRate
			raw.PunctualityScore += rec.Metrics.PunctualityScore
			raw.BreakCompliance += rec.Metrics.BreakCompliance
			raw.TaskCompletionRate += rec.Metrics.TaskCompletionRate
			raw.ProductivityIndex += rec.Metrics.ProductivityIndex
			raw.QualityScore += rec.Metrics.QualityScore
			raw.EfficiencyRate += rec.Metrics.EfficiencyRate
		case scorecard.SchemeLegacy:
			legacyCount++
			legacy.Service += float64(rec.Legacy.Service)
			legacy.Productivity += float64(rec.Legacy.Productivity)
			legacy.Quality += float64(rec.Legacy.Quality)
			legacy.Assiduity += float64(rec.Legacy.Assiduity)
			legacy.Performance += float64(rec.Legacy.Performance)
			legacy.Adherence += float64(rec.Legacy.Adherence)
			legacy.Lateness += float64(rec.Legacy.Lateness)
			legacy.BreakExceeds += float64(rec.Legacy.BreakExceeds)
		}
	}

	avg.TotalScore = mean(totalSum, len(records))
	avg.Percentage = mean(pctSum, len(records))

	if rawCount > 0 {
		avg.Metrics = &scorecard.NormalizedMetrics{
			ScheduleAdherence:  mean(raw.ScheduleAdherence, rawCount),
			AttendanceRate:     mean(raw.AttendanceRate, rawCount),
			PunctualityScore:   mean(raw.PunctualityScore, rawCount),
			BreakCompliance:    mean(raw.BreakCompliance, rawCount),
			TaskCompletionRate: mean(raw.TaskCompletionRate, rawCount),
			ProductivityIndex:  mean(raw.ProductivityIndex, rawCount),
			QualityScore:       mean(raw.QualityScore, rawCount),
			EfficiencyRate:     mean(raw.EfficiencyRate, rawCount),
		}
	}

	if legacyCount > 0 {
		avg.Legacy = &scorecard.LegacyAverages{
			Service:      mean(legacy.Service, legacyCount),
			Productivity: mean(legacy.Productivity, legacyCount),
			Quality:      mean(legacy.Quality, legacyCount),
			Assiduity:    mean(legacy.Assiduity, legacyCount),
			Performance:  mean(legacy.Performance, legacyCount),
			Adherence:    mean(legacy.Adherence, legacyCount),
			Lateness:     mean(legacy.Lateness, legacyCount),
			BreakExceeds: mean(legacy.BreakExceeds, legacyCount),
		}
	}

	return avg
}

// mean guards against a zero count regardless of the caller's contract.
func mean(sum float64, count int) float64 {
	if count == 0 {
		return 0
	}
	return round2(sum / float64(count))
}
