package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/callcoach/scorecard-backend-go/internal/domain/user"
)

// Resolver evaluates a principal's role and supervision edges against a
// target agent. Decisions are re-evaluated on every call; nothing here is
// cached, so a changed supervision edge takes effect immediately.
type Resolver struct {
	users user.UserRepository
}

func NewResolver(users user.UserRepository) *Resolver {
	return &Resolver{users: users}
}

// CanView reports whether the principal may read the target agent's
// scorecards. Agents see themselves; team leaders see themselves and their
// supervised agents; managers and admins see everyone.
func (r *Resolver) CanView(ctx context.Context, principal user.Principal, targetAgentID string) (bool, error) {
	switch principal.Role {
	case user.RoleManager, user.RoleAdmin:
		return true, nil
	case user.RoleAgent:
		return principal.ID == targetAgentID, nil
	case user.RoleTeamLeader:
		if principal.ID == targetAgentID {
			return true, nil
		}
		return r.supervises(ctx, principal.ID, targetAgentID)
	default:
		return false, nil
	}
}

// CanModify reports whether the principal may create or update the target
// agent's scorecard. Agents never modify scorecards, not even their own; a
// team leader may only write for agents they directly supervise.
func (r *Resolver) CanModify(ctx context.Context, principal user.Principal, targetAgentID string) (bool, error) {
	switch principal.Role {
	case user.RoleManager, user.RoleAdmin:
		return true, nil
	case user.RoleTeamLeader:
		return r.supervises(ctx, principal.ID, targetAgentID)
	default:
		return false, nil
	}
}

// CanDelete reports whether the principal may delete scorecard records.
// Managers and admins only.
func (r *Resolver) CanDelete(ctx context.Context, principal user.Principal, targetAgentID string) (bool, error) {
	return principal.Role == user.RoleManager || principal.Role == user.RoleAdmin, nil
}

// supervises checks the team-leader -> agent edge. A failed or empty edge
// lookup denies rather than erroring, so a probe for a non-existent agent is
// indistinguishable from a probe for an unsupervised one.
func (r *Resolver) supervises(ctx context.Context, teamLeaderID, targetAgentID string) (bool, error) {
	agentIDs, err := r.users.ListAgentIDsByTeamLeader(ctx, teamLeaderID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("resolve supervision edges: %w", err)
	}
	for _, id := range agentIDs {
		if id == targetAgentID {
			return true, nil
		}
	}
	return false, nil
}
