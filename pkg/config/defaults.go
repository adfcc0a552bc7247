package config

// Snapshot defaults.
const (
	DefaultSnapshotCodec      = "string"
	DefaultSnapshotCompress   = true
	DefaultSnapshotDescending = false
)

// Render defaults.
const (
	DefaultRenderStyle = "light"
	DefaultRenderColor = "auto"
	DefaultRenderLimit = 0
)

// Logging defaults.
const (
	DefaultLoggingLevel  = "warn"
	DefaultLoggingFormat = "text"
)

// Telemetry defaults.
const (
	DefaultTelemetrySampleRatio = 0.0
)
