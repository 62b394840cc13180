package providers

import "time"

const (
	// shutdownTimeout is the maximum time to wait for graceful shutdown of services.
	shutdownTimeout = 30 * time.Second

	// rateLimitIdleTTL is how long a client's write bucket survives without traffic.
	rateLimitIdleTTL = 10 * time.Minute
)
