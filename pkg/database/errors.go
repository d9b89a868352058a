package database

import "errors"

// ErrNotReady indicates the note store connection has not been established
// yet; startup pings happen asynchronously under the lifecycle coordinator.
var ErrNotReady = errors.New("database not ready")
