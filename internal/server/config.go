package server

import (
	"fmt"
	"time"

	"github.com/openispb/ispbmap/pkg/constants"
)

// Config holds HTTP server configuration.
type Config struct {
	Host         string
	Port         int
	PathPrefix   string
	CORSEnabled  bool
	CORSOrigins  []string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() Config {
	return Config{
		Host:         constants.DefaultHost,
		Port:         constants.DefaultPort,
		PathPrefix:   constants.DefaultPathPrefix,
		CORSEnabled:  true,
		CORSOrigins:  []string{"*"},
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// Addr returns the listen address in host:port form.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
