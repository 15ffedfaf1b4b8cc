package model

import "errors"

// ErrInvalidArgument is wrapped by every argument validation failure so
// callers can match the whole class with errors.Is.
var ErrInvalidArgument = errors.New("invalid argument")
