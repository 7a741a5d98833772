package user

import "time"

type Role string

const (
	RoleAgent      Role = "agent"       // Call-center agent - sees own scorecards only
	RoleTeamLeader Role = "team_leader" // Coaches a set of agents
	RoleManager    Role = "manager"     // Oversees team leaders
	RoleAdmin      Role = "admin"       // Full access
)

// User is a principal in the coaching hierarchy. Supervision edges form a
// two-level tree: manager -> team leaders -> agents. An agent reports to at
// most one team leader at a time.
type User struct {
	ID           string
	Name         string
	Email        string
	Role         Role
	TeamLeaderID *string // set when Role == RoleAgent
	ManagedBy    *string // set when Role == RoleTeamLeader
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal is the authenticated identity attached to a request.
type Principal struct {
	ID   string
	Role Role
}

// CanSeeEveryone reports whether the role has unrestricted visibility.
func (r Role) CanSeeEveryone() bool {
	return r == RoleManager || r == RoleAdmin
}

// IsValidRole checks a role string against the known set.
func IsValidRole(role string) bool {
	switch Role(role) {
	case RoleAgent, RoleTeamLeader, RoleManager, RoleAdmin:
		return true
	}
	return false
}
