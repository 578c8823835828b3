package engine

import "errors"

// ErrUnknownPattern is returned by InsertToken for a key not in the pattern set.
var ErrUnknownPattern = errors.New("unknown pattern")
