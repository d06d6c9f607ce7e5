// Package debug carries the --debug switch on the context and owns the
// request-level logging it unlocks.
package debug

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"time"
)

// EnvVar turns on debug logging without the flag, for wrapper scripts
// that cannot inject one. Any value other than "" or "0" enables it.
const EnvVar = "SM8_DEBUG"

type contextKey string

const debugKey contextKey = "debug_enabled"

// WithDebug returns a context with debug mode enabled/disabled.
func WithDebug(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, debugKey, enabled)
}

// IsEnabled reports whether debug mode is on, via the context flag or
// the SM8_DEBUG environment variable.
func IsEnabled(ctx context.Context) bool {
	if v, ok := ctx.Value(debugKey).(bool); ok && v {
		return true
	}
	return FromEnv()
}

// FromEnv reports whether SM8_DEBUG requests debug logging.
func FromEnv() bool {
	v := os.Getenv(EnvVar)
	return v != "" && v != "0"
}

// SetupLogger configures slog based on debug mode.
func SetupLogger(debugEnabled bool) {
	var level slog.Level
	if debugEnabled {
		level = slog.LevelDebug
	} else {
		level = slog.LevelWarn
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

// LogRequest records a completed API round trip. Query values are
// scrubbed first: $filter expressions carry client names and email
// addresses, and search terms travel in q.
func LogRequest(ctx context.Context, method, rawURL string, status int, elapsed time.Duration) {
	if !IsEnabled(ctx) {
		return
	}
	slog.Debug("request complete", "method", method, "url", ScrubURL(rawURL), "status", status, "duration", elapsed)
}

// LogRequestError records a round trip that never produced a response.
func LogRequestError(ctx context.Context, method, rawURL string, err error) {
	if !IsEnabled(ctx) {
		return
	}
	slog.Debug("request failed", "method", method, "url", ScrubURL(rawURL), "error", err)
}

// ScrubURL blanks query values, keeping parameter names so the logged
// line still shows which knobs a request used.
func ScrubURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	if len(q) == 0 {
		return rawURL
	}
	for name := range q {
		q.Set(name, "***")
	}
	u.RawQuery = q.Encode()
	return u.String()
}
