package middleware

import (
	"context"

	"github.com/callcoach/scorecard-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
)

// PrincipalFromContext extracts the authenticated {id, role} pair from the
// verified JWT claims. Returns ErrNoPrincipal when the claims are missing or
// malformed.
func PrincipalFromContext(ctx context.Context) (user.Principal, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return user.Principal{}, user.ErrNoPrincipal
	}

	id, ok := claims["user_id"].(string)
	if !ok || id == "" {
		return user.Principal{}, user.ErrNoPrincipal
	}

	role, ok := claims["role"].(string)
	if !ok || !user.IsValidRole(role) {
		return user.Principal{}, user.ErrNoPrincipal
	}

	return user.Principal{ID: id, Role: user.Role(role)}, nil
}
