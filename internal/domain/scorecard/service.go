package scorecard

import (
	"context"

	"github.com/callcoach/scorecard-backend-go/internal/domain/user"
)

// ScorecardService is the engine's external surface. Every operation
// authorizes the principal before touching the store or the cache.
type ScorecardService interface {
	// Get resolves the scorecard view for an agent. A nil month yields the
	// yearly view (yearly average included when at least one record exists);
	// a non-nil month yields the monthly view (trends included when the
	// previous-period record exists).
	Get(ctx context.Context, principal user.Principal, agentID string, year int, month *int) (*ScorecardResponse, error)

	// Upsert creates or replaces the record for the request's natural key
	// and invalidates the agent's cached views before returning.
	Upsert(ctx context.Context, principal user.Principal, req UpsertScorecardRequest) (*AgentMetric, error)

	// Delete removes one record by natural key. Manager/admin only.
	Delete(ctx context.Context, principal user.Principal, agentID string, month, year int) error

	// ListVisibleAgents returns the agents the principal may view: self for
	// agents, the supervised set for team leaders, everyone for managers
	// and admins.
	ListVisibleAgents(ctx context.Context, principal user.Principal) ([]user.User, error)
}
