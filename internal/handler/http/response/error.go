package response

import (
	"errors"
	"net/http"

	"github.com/callcoach/scorecard-backend-go/internal/domain/scorecard"
	"github.com/callcoach/scorecard-backend-go/internal/domain/user"
	"github.com/callcoach/scorecard-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Principal errors
	case errors.Is(err, user.ErrNoPrincipal):
		Unauthorized(w, "Authentication required")

	// Scorecard domain errors. Forbidden covers both invisible and
	// non-existent agents for restricted principals; not-found is only
	// surfaced once authorization has passed.
	case errors.Is(err, scorecard.ErrForbidden):
		Forbidden(w, "Not allowed to access this agent's scorecards")
	case errors.Is(err, scorecard.ErrAgentNotFound):
		NotFound(w, "Agent not found")
	case errors.Is(err, scorecard.ErrScorecardNotFound):
		NotFound(w, "Scorecard record not found")
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")

	// Default: never leak store internals
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
