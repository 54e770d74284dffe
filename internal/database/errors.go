package database

import "errors"

// ErrUnreachable marks a failed connectivity check at startup, as opposed to
// configuration or command errors.
var ErrUnreachable = errors.New("data store unreachable")
