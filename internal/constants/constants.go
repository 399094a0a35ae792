// Package constants provides shared configuration values used across the peek application.
package constants

import "time"

// Configuration file defaults
const (
	// DefaultConfigFile is the default configuration filename
	DefaultConfigFile = "peek.yaml"

	// DefaultListenAddr is the default proxy listen address
	DefaultListenAddr = "127.0.0.1:8080"

	// DefaultAPIHost is the default host for the API server
	DefaultAPIHost = "127.0.0.1"

	// DefaultAPIPort is the default port for the API server
	DefaultAPIPort = 5666
)

// History and display defaults
const (
	// DefaultHistoryCapacity is the default exchange history size
	DefaultHistoryCapacity = 100

	// DefaultDetailLevel is the detail level used when none is configured
	DefaultDetailLevel = 3

	// BodyPreviewLength is the visible-character budget for level-5 body previews
	BodyPreviewLength = 512
)

// Capture limits
const (
	// DefaultCaptureMaxBodySize caps how much of a request or response body is retained
	DefaultCaptureMaxBodySize = 64 * 1024 // 64KB
)

// Timeout and duration defaults
const (
	// DefaultShutdownTimeout is the default timeout for graceful shutdown
	DefaultShutdownTimeout = 10 * time.Second

	// DefaultAPIRequestTimeout bounds API handler execution
	DefaultAPIRequestTimeout = 30 * time.Second
)

// Buffer sizes
const (
	// DefaultSubscriptionBuffer is the channel buffer size for history subscriptions
	DefaultSubscriptionBuffer = 100
)

// Storage defaults
const (
	// DefaultStoragePath is the default sqlite database location
	DefaultStoragePath = "~/.peek/peek.db"

	// DefaultExportDir is where inspect documents are written
	DefaultExportDir = "peek-exports"
)
