package user

import "errors"

var (
	ErrUserNotFound = errors.New("user not found")
	ErrNoPrincipal  = errors.New("no authenticated principal")
)
