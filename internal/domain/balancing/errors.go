package balancing

import "errors"

// Sentinel kinds for balancing errors.
var (
	ErrUnknownStrategy = errors.New("unknown balancing strategy")
)
