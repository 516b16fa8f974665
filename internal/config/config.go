// Package config loads application settings from environment variables.
// Defaults are applied for unset values and everything is validated on
// startup so a bad deployment fails before it touches the database.
package config

import (
	"net"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/JonMunkholm/classcheck/internal/core"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Import   ImportConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading a request (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing a response (default: 60s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout bounds graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for API requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// URL selects the backend: postgres://... for PostgreSQL, sqlite:<path>
	// or file:<path> for SQLite. DATABASE_URL and DB_URL are both accepted.
	URL string `env:"DATABASE_URL" envAlt:"DB_URL" required:"true"`

	// MaxConns is the maximum number of pooled connections (default: 10)
	MaxConns int `env:"DB_MAX_CONNS" default:"10"`

	// MinConns is the minimum number of idle connections (default: 1)
	MinConns int `env:"DB_MIN_CONNS" default:"1"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime closes connections idle for longer (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// ImportConfig holds CSV import settings shared by the CLI and the upload
// endpoint.
type ImportConfig struct {
	// Encoding of source files (default: latin1)
	Encoding string `env:"IMPORT_ENCODING" default:"latin1"`

	// Delimiter is a single character, or "tab" (default: ;)
	Delimiter string `env:"IMPORT_DELIMITER" default:";"`

	// ProgressEvery is the number of persisted rows between progress lines (default: 50)
	ProgressEvery int `env:"IMPORT_PROGRESS_EVERY" default:"50"`

	// Debug prints header and row mapping traces (default: false)
	Debug bool `env:"IMPORT_DEBUG" default:"false"`

	// ContinueOnStoreError skips rows the database rejects instead of
	// aborting the run (default: false)
	ContinueOnStoreError bool `env:"IMPORT_CONTINUE_ON_STORE_ERROR" default:"false"`

	// MaxFileSize is the largest accepted upload in bytes (default: 10MB)
	MaxFileSize int64 `env:"UPLOAD_MAX_FILE_SIZE" default:"10485760"`

	// MaxConcurrent is the number of imports allowed to run at once (default: 1)
	MaxConcurrent int `env:"IMPORT_MAX_CONCURRENT" default:"1"`

	// MaxWaitTime is how long an upload waits for an import slot (default: 30s)
	MaxWaitTime time.Duration `env:"IMPORT_MAX_WAIT_TIME" default:"30s"`

	// Timeout bounds a single uploaded import (default: 10m)
	Timeout time.Duration `env:"IMPORT_TIMEOUT" default:"10m"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// DelimiterRune resolves Delimiter to a rune. It returns 0 when the value
// is not a single character.
func (c *ImportConfig) DelimiterRune() rune {
	d := c.Delimiter
	switch strings.ToLower(d) {
	case "tab", `\t`:
		return '\t'
	}
	if utf8.RuneCountInString(d) != 1 {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(d)
	return r
}

// Options converts the settings into import pipeline options.
func (c *ImportConfig) Options() core.ImportOptions {
	return core.ImportOptions{
		Source: core.SourceOptions{
			Encoding:  c.Encoding,
			Delimiter: c.DelimiterRune(),
		},
		ProgressEvery:        c.ProgressEvery,
		Debug:                c.Debug,
		ContinueOnStoreError: c.ContinueOnStoreError,
	}
}
