package agency

import "errors"

var (
	ErrProfileExists   = errors.New("agency profile already exists")
	ErrProfileNotFound = errors.New("agency profile not found")
)
