package config

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

const redacted = "[REDACTED]"

// Attribute keys whose values are never written to the log.
var sensitiveLogKeys = map[string]bool{
	"merchant_key": true,
	"checksumhash": true,
	"checksum":     true,
	"password":     true,
}

// NewLogger creates a new structured logger writing to stdout
func (c *LoggerConfig) NewLogger() *slog.Logger {
	return c.newLogger(os.Stdout)
}

func (c *LoggerConfig) newLogger(w io.Writer) *slog.Logger {
	level := parseLogLevel(c.Level)
	opts := &slog.HandlerOptions{
		Level:       level,
		AddSource:   level == slog.LevelDebug,
		ReplaceAttr: redactSensitive,
	}

	var handler slog.Handler = slog.NewJSONHandler(w, opts)
	if strings.EqualFold(c.Format, "text") {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler).With("service", "paytm-mediator")
}

func redactSensitive(_ []string, a slog.Attr) slog.Attr {
	if sensitiveLogKeys[strings.ToLower(a.Key)] {
		return slog.String(a.Key, redacted)
	}
	return a
}

func parseLogLevel(level string) slog.Level {
	var l slog.Level
	if strings.EqualFold(level, "warning") {
		return slog.LevelWarn
	}
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}
