package scorecard

import "context"

// ScorecardRepository persists AgentMetric records keyed by the natural key
// (agent_id, month, year).
type ScorecardRepository interface {
	// GetByNaturalKey returns the record for the triple, or
	// ErrScorecardNotFound when absent.
	GetByNaturalKey(ctx context.Context, agentID string, month, year int) (AgentMetric, error)

	// ListByAgentYear returns every record for an agent in a year, ordered
	// by month ascending.
	ListByAgentYear(ctx context.Context, agentID string, year int) ([]AgentMetric, error)

	// Upsert inserts the record, replacing any existing record with the same
	// natural key. The second writer for a triple wins entirely.
	Upsert(ctx context.Context, metric AgentMetric) (AgentMetric, error)

	// Delete removes the record for the triple, returning
	// ErrScorecardNotFound when no row matched.
	Delete(ctx context.Context, agentID string, month, year int) error
}
