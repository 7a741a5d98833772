package scorecard

import (
	"github.com/callcoach/scorecard-backend-go/internal/pkg/validator"
)

// LegacyMetricsInput carries hand-entered 1-5 scores. Missing or out-of-range
// fields are defaulted/clamped by the normalizer, never rejected.
type LegacyMetricsInput struct {
	Service      *int `json:"service,omitempty"`
	Productivity *int `json:"productivity,omitempty"`
	Quality      *int `json:"quality,omitempty"`
	Assiduity    *int `json:"assiduity,omitempty"`
	Performance  *int `json:"performance,omitempty"`
	Adherence    *int `json:"adherence,omitempty"`
	Lateness     *int `json:"lateness,omitempty"`
	BreakExceeds *int `json:"break_exceeds,omitempty"`
}

// UpsertScorecardRequest creates or replaces the record for
// (AgentID, Month, Year). Exactly one of LegacyMetrics or RawData must be
// supplied; the two schemes never mix in a single write.
type UpsertScorecardRequest struct {
	AgentID       string              `json:"-"`
	Month         int                 `json:"month"`
	Year          int                 `json:"year"`
	LegacyMetrics *LegacyMetricsInput `json:"legacy_metrics,omitempty"`
	RawData       *RawCounters        `json:"raw_data,omitempty"`

	// Weights overrides the default weight table per-field. Keys are the
	// snake_case field names of the supplied scheme; unspecified fields keep
	// their defaults individually.
	Weights map[string]float64 `json:"weights,omitempty"`
	Notes   *string            `json:"notes,omitempty"`
}

var legacyWeightKeys = []string{
	"service", "productivity", "quality", "assiduity",
	"performance", "adherence", "lateness", "break_exceeds",
}

var metricWeightKeys = []string{
	"schedule_adherence", "attendance_rate", "punctuality_score",
	"break_compliance", "task_completion_rate", "productivity_index",
	"quality_score", "efficiency_rate",
}

func (r *UpsertScorecardRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.AgentID) {
		errs = append(errs, validator.ValidationError{
			Field:   "agent_id",
			Message: "agent_id is required",
		})
	}

	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}

	if r.Year < 2000 || r.Year > 2100 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be between 2000 and 2100",
		})
	}

	switch {
	case r.LegacyMetrics == nil && r.RawData == nil:
		errs = append(errs, validator.ValidationError{
			Field:   "metrics",
			Message: "one of legacy_metrics or raw_data is required",
		})
	case r.LegacyMetrics != nil && r.RawData != nil:
		errs = append(errs, validator.ValidationError{
			Field:   "metrics",
			Message: "legacy_metrics and raw_data are mutually exclusive",
		})
	}

	if len(r.Weights) > 0 {
		validKeys := metricWeightKeys
		if r.LegacyMetrics != nil {
			validKeys = legacyWeightKeys
		}
		for key, weight := range r.Weights {
			if !validator.IsInSlice(key, validKeys) {
				errs = append(errs, validator.ValidationError{
					Field:   "weights." + key,
					Message: "unknown weight field",
				})
			}
			if weight < 0 {
				errs = append(errs, validator.ValidationError{
					Field:   "weights." + key,
					Message: "weight must not be negative",
				})
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// AgentSummary is the slimmed principal view embedded in scorecard responses.
type AgentSummary struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	TeamLeaderID *string `json:"team_leader_id,omitempty"`
}

// MetricResponse is one persisted record as returned to callers.
type MetricResponse struct {
	ID            string             `json:"id"`
	AgentID       string             `json:"agent_id"`
	Month         int                `json:"month"`
	Year          int                `json:"year"`
	Scheme        Scheme             `json:"scheme"`
	Legacy        *LegacyScores      `json:"legacy_scores,omitempty"`
	LegacyWeights *LegacyWeights     `json:"legacy_weights,omitempty"`
	Metrics       *NormalizedMetrics `json:"metrics,omitempty"`
	MetricWeights *MetricWeights     `json:"metric_weights,omitempty"`
	Raw           *RawCounters       `json:"raw_counters,omitempty"`
	TotalScore    float64            `json:"total_score"`
	Percentage    float64            `json:"percentage"`
	Notes         *string            `json:"notes,omitempty"`
	CreatedAt     string             `json:"created_at"`
	UpdatedAt     string             `json:"updated_at"`
}

// TrendDeltas are signed period-over-period differences. Only the sub-metric
// set shared by both periods' scheme is populated; TotalScore and Percentage
// deltas are always present.
type TrendDeltas struct {
	Metrics    *NormalizedMetrics `json:"metrics,omitempty"`
	Legacy     *LegacyScores      `json:"legacy_scores,omitempty"`
	TotalScore float64            `json:"total_score"`
	Percentage float64            `json:"percentage"`
}

// YearlyAverages are per-field arithmetic means across a year's records,
// rounded to 2 decimals. Metrics averages cover raw-scheme records and legacy
// averages cover legacy-scheme records; TotalScore and Percentage average
// over every record regardless of scheme.
type YearlyAverages struct {
	Metrics    *NormalizedMetrics `json:"metrics,omitempty"`
	Legacy     *LegacyAverages    `json:"legacy_scores,omitempty"`
	TotalScore float64            `json:"total_score"`
	Percentage float64            `json:"percentage"`
	Records    int                `json:"records"`
}

// LegacyAverages mirror LegacyScores with fractional means.
type LegacyAverages struct {
	Service      float64 `json:"service"`
	Productivity float64 `json:"productivity"`
	Quality      float64 `json:"quality"`
	Assiduity    float64 `json:"assiduity"`
	Performance  float64 `json:"performance"`
	Adherence    float64 `json:"adherence"`
	Lateness     float64 `json:"lateness"`
	BreakExceeds float64 `json:"break_exceeds"`
}

// ScorecardResponse is the fully resolved read payload; this is also the
// value stored in the read-through cache.
type ScorecardResponse struct {
	Agent         AgentSummary     `json:"agent"`
	Metrics       []MetricResponse `json:"metrics"`
	Trends        *TrendDeltas     `json:"trends,omitempty"`
	YearlyAverage *YearlyAverages  `json:"yearly_average,omitempty"`
}
