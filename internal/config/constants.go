package config

import "time"

// Application constants
const (
	AppName     = "LinkedInsights"
	AppVersion  = "1.0.0"
	ServiceName = "linkedinsights"

	// EnvPrefix namespaces every environment variable, e.g. INSIGHTS_SERVER_PORT
	EnvPrefix = "INSIGHTS"

	DefaultLogLevel = "info"
	DefaultLogFile  = "logs/app.log"

	DefaultRateLimit = 20 // requests per second
	DefaultBurstSize = 10

	DefaultRequestTimeout = 60 * time.Second
	DefaultPDFTimeout     = 30 * time.Second

	DefaultMaxUploadBytes int64 = 20 << 20 // 20MB
)
