package contentapi

import "time"

// Name identifies this store in logs and metrics.
const Name = "contentapi"

const (
	defaultPageSize    = 100
	defaultHTTPTimeout = 10 * time.Second
	defaultMaxPages    = 20
	defaultTimezone    = "UTC"
	errorBodyLimit     = 512
)
