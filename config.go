package odata

import (
	"log/slog"
	"os"

	"tlog.app/go/errors"

	"github.com/hugr-lab/odata-go/filter"
)

// Config contains configuration for a query options Parser.
type Config struct {
	// MaxDepth bounds nesting of $filter sub-expressions.
	// OPTIONAL: If 0, uses filter.DefaultMaxDepth.
	MaxDepth int

	// RejectTrailingTokens makes text left over after a complete $filter
	// expression a syntax error instead of silently ignoring it.
	RejectTrailingTokens bool

	// Logger for ignored or invalid query options.
	// OPTIONAL: Uses slog.Default() if nil.
	// Note: If LogLevel is specified, a new logger will be created with that level.
	Logger *slog.Logger

	// LogLevel sets the logging level.
	// OPTIONAL: If nil, uses the Logger as is.
	// If Logger is also provided, LogLevel is ignored (use pre-configured logger).
	LogLevel *slog.Level
}

// Standard errors returned by odata package.
var (
	// ErrNilURI is returned by ParseFromURI for a nil URL.
	ErrNilURI = errors.New("nil request URI")
)

func (c *Config) filterOptions() *filter.ParserOptions {
	return &filter.ParserOptions{
		MaxDepth:             c.MaxDepth,
		RejectTrailingTokens: c.RejectTrailingTokens,
	}
}

// logger resolves the configured logger. A nil result means slog.Default
// is looked up at call time.
func (c *Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	if c.LogLevel != nil {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: *c.LogLevel}))
	}
	return nil
}
