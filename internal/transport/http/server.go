// Package httptransport builds the HTTP server and its shared middleware.
package httptransport

import (
	"net/http"
	"time"
)

// Defaults applied to zero ServerConfig fields.
const (
	DefaultReadTimeout  = 5 * time.Second
	DefaultWriteTimeout = 2 * time.Minute
	DefaultIdleTimeout  = 60 * time.Second
	DefaultMaxBodyBytes = 1 << 20
)

// ServerConfig contains tunables for the HTTP server. WriteTimeout has to
// cover the slowest generation request.
type ServerConfig struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	// MaxBodyBytes caps request bodies; reads past it fail.
	MaxBodyBytes int64
}

func (c ServerConfig) withDefaults() ServerConfig {
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = DefaultReadTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = DefaultWriteTimeout
	}
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = DefaultIdleTimeout
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return c
}

// NewServer creates *http.Server serving handler with bodies capped at cfg.MaxBodyBytes.
func NewServer(cfg ServerConfig, handler http.Handler) *http.Server {
	cfg = cfg.withDefaults()
	return &http.Server{
		Addr:              cfg.Address,
		Handler:           http.MaxBytesHandler(handler, cfg.MaxBodyBytes),
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}
