package scorecard

import "errors"

// Scorecard domain errors
var (
	// ErrForbidden is returned for any denied access. A principal probing a
	// non-existent agent and one probing a real agent outside their
	// visibility receive this same signal, so the response never reveals
	// which agents exist.
	ErrForbidden = errors.New("not allowed to access this agent's scorecards")

	ErrScorecardNotFound = errors.New("scorecard record not found")
	ErrAgentNotFound     = errors.New("agent not found")
)
