package domain

import "errors"

// ErrNotFound indicates the referenced record does not exist or is not
// owned by the caller.
var ErrNotFound = errors.New("not found")
