package ports

import "errors"

// Sentinel errors returned by repositories. Lookups that find nothing return
// (nil, nil) instead.
var (
	ErrNotFound        = errors.New("record not found")
	ErrDuplicate       = errors.New("duplicate record")
	ErrLogAlreadyFinal = errors.New("delivery log already finalized")
)
