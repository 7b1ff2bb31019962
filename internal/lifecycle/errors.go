package lifecycle

import "errors"

var (
	ErrInvalidTransition    = errors.New("invalid transition")
	ErrDuplicateSwot        = errors.New("swot already exists for projet")
	ErrDuplicateConception  = errors.New("conception already exists for projet")
	ErrForbidden            = errors.New("forbidden")
	ErrMissingRequiredField = errors.New("missing required field")
)
