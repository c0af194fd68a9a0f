package models

import "errors"

// Domain errors shared by the service and auth layers. Handlers translate these
// to HTTP statuses with errors.Is.
var (
	ErrDuplicateUsername   = errors.New("username already taken")
	ErrEmptyImageURL       = errors.New("image URL must not be empty")
	ErrNotAuthenticated    = errors.New("not authenticated")
	ErrNotAuthorized       = errors.New("not authorized")
	ErrSelfDeleteForbidden = errors.New("cannot delete own account")
	ErrNotFound            = errors.New("record not found")
)
