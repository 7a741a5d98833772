package scorecard

import "time"

// Scheme tags which metric representation a record was written with. The two
// schemes are mutually exclusive per record.
type Scheme string

const (
	SchemeLegacy Scheme = "legacy" // eight 1-5 scores entered by hand
	SchemeRaw    Scheme = "raw"    // eight 0-100 metrics derived from raw counters
)

// LegacyScores are the original hand-entered coaching scores, each an integer
// in [1,5].
type LegacyScores struct {
	Service      int `json:"service"`
	Productivity int `json:"productivity"`
	Quality      int `json:"quality"`
	Assiduity    int `json:"assiduity"`
	Performance  int `json:"performance"`
	Adherence    int `json:"adherence"`
	Lateness     int `json:"lateness"`
	BreakExceeds int `json:"break_exceeds"`
}

// LegacyWeights carries one weight per legacy score. Defaults are uniform 1.0.
type LegacyWeights struct {
	Service      float64 `json:"service"`
	Productivity float64 `json:"productivity"`
	Quality      float64 `json:"quality"`
	Assiduity    float64 `json:"assiduity"`
	Performance  float64 `json:"performance"`
	Adherence    float64 `json:"adherence"`
	Lateness     float64 `json:"lateness"`
	BreakExceeds float64 `json:"break_exceeds"`
}

// NormalizedMetrics are the eight percentage-scale sub-metrics derived from
// raw operational counters. Every field is clamped to [0,100].
type NormalizedMetrics struct {
	ScheduleAdherence  float64 `json:"schedule_adherence"`
	AttendanceRate     float64 `json:"attendance_rate"`
	PunctualityScore   float64 `json:"punctuality_score"`
	BreakCompliance    float64 `json:"break_compliance"`
	TaskCompletionRate float64 `json:"task_completion_rate"`
	ProductivityIndex  float64 `json:"productivity_index"`
	QualityScore       float64 `json:"quality_score"`
	EfficiencyRate     float64 `json:"efficiency_rate"`
}

// MetricWeights carries one weight per normalized metric. Defaults come from
// a fixed, non-uniform table (see DefaultMetricWeights).
type MetricWeights struct {
	ScheduleAdherence  float64 `json:"schedule_adherence"`
	AttendanceRate     float64 `json:"attendance_rate"`
	PunctualityScore   float64 `json:"punctuality_score"`
	BreakCompliance    float64 `json:"break_compliance"`
	TaskCompletionRate float64 `json:"task_completion_rate"`
	ProductivityIndex  float64 `json:"productivity_index"`
	QualityScore       float64 `json:"quality_score"`
	EfficiencyRate     float64 `json:"efficiency_rate"`
}

// RawCounters are the optional operational counters backing the normalized
// metrics. Fields are nullable; a missing counter zeroes the ratio it feeds.
type RawCounters struct {
	ScheduledHours    *float64 `json:"scheduled_hours,omitempty"`
	ActualHours       *float64 `json:"actual_hours,omitempty"`
	ScheduledDays     *float64 `json:"scheduled_days,omitempty"`
	DaysPresent       *float64 `json:"days_present,omitempty"`
	TotalShifts       *float64 `json:"total_shifts,omitempty"`
	OnTimeArrivals    *float64 `json:"on_time_arrivals,omitempty"`
	TotalBreaks       *float64 `json:"total_breaks,omitempty"`
	BreaksWithinLimit *float64 `json:"breaks_within_limit,omitempty"`
	TasksAssigned     *float64 `json:"tasks_assigned,omitempty"`
	TasksCompleted    *float64 `json:"tasks_completed,omitempty"`
	ExpectedOutput    *float64 `json:"expected_output,omitempty"`
	ActualOutput      *float64 `json:"actual_output,omitempty"`
	TotalTasks        *float64 `json:"total_tasks,omitempty"`
	ErrorFreeTasks    *float64 `json:"error_free_tasks,omitempty"`
	StandardTime      *float64 `json:"standard_time,omitempty"`
	ActualTimeSpent   *float64 `json:"actual_time_spent,omitempty"`
}

// AgentMetric is one scorecard record. Exactly one record exists per
// (AgentID, Month, Year); writes are upserts keyed on that triple.
type AgentMetric struct {
	ID      string
	AgentID string
	Month   int // 1-12
	Year    int
	Scheme  Scheme

	Legacy        LegacyScores
	LegacyWeights LegacyWeights

	Metrics       NormalizedMetrics
	MetricWeights MetricWeights
	Raw           *RawCounters

	// TotalScore and Percentage are computed at write time and persisted,
	// never recomputed lazily on read.
	TotalScore float64
	Percentage float64

	Notes     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
