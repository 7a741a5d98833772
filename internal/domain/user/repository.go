package user

import "context"

type UserRepository interface {
	GetByID(ctx context.Context, id string) (User, error)

	// ListAgentIDsByTeamLeader returns the ids of agents whose team_leader_id
	// matches. Used by the access resolver on every authorization check.
	ListAgentIDsByTeamLeader(ctx context.Context, teamLeaderID string) ([]string, error)

	// ListAgentsByTeamLeader returns full agent records for a team leader.
	ListAgentsByTeamLeader(ctx context.Context, teamLeaderID string) ([]User, error)

	// ListAgents returns every user with the agent role.
	ListAgents(ctx context.Context) ([]User, error)
}
