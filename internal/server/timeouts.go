package server

import "time"

// No WriteTimeout: live scoreboard streams hold their connection open and
// manage their own write deadlines.
const (
	readTimeout       = 10 * time.Second
	readHeaderTimeout = 5 * time.Second
	idleTimeout       = 60 * time.Second
)

// shutdownTimeout remains a var for tests to override.
var shutdownTimeout = 10 * time.Second
