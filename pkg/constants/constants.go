// Package constants provides shared constants used throughout the ispbmap codebase.
// This includes timeouts, file permissions, registry endpoints, and other
// configuration values that should be consistent across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to the BCB endpoints
	DefaultHTTPTimeout = 30 * time.Second

	// RefreshContextTimeout is the timeout for a full refresh cycle
	RefreshContextTimeout = 5 * time.Minute

	// DefaultRefreshInterval is the default interval between automatic catalog refreshes
	DefaultRefreshInterval = 24 * time.Hour

	// ShutdownTimeout is the grace period for HTTP server shutdown
	ShutdownTimeout = 10 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Registry endpoints published by the Banco Central do Brasil.
const (
	// PIXParticipantsURLTemplate is the URL of the PIX participant list. The BCB
	// publishes one file per business day; {date} is replaced with YYYYMMDD.
	PIXParticipantsURLTemplate = "https://www.bcb.gov.br/content/estabilidadefinanceira/participantes_pix/lista-participantes-instituicoes-em-adesao-pix-{date}.csv"

	// STRParticipantsURL is the fixed URL of the STR participant list.
	STRParticipantsURL = "https://www.bcb.gov.br/content/estabilidadefinanceira/str1/ParticipantesSTR.csv"

	// PIXProbeDays is how many days back to probe for a published PIX file.
	PIXProbeDays = 10
)

// Persisted catalog file names.
const (
	// ParticipantsFile holds the full canonical participant list.
	ParticipantsFile = "participants.json"

	// MetadataFile holds the refresh metadata for lightweight polling.
	MetadataFile = "metadata.json"
)

// Server defaults.
const (
	// DefaultHost is the default bind address for the API server.
	DefaultHost = "localhost"

	// DefaultPort is the default port for the API server.
	DefaultPort = 8080

	// DefaultPathPrefix is the API route prefix.
	DefaultPathPrefix = "/api/v1"
)
