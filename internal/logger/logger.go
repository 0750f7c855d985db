package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
)

type ctxKey string

const ingestIDKey ctxKey = "ingestID"

// Init installs the default slog logger. Format is "json" or "text",
// level is one of debug/info/warn/error (case-insensitive).
func Init(level, format string) {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// ParseLevel converts a level string to slog.Level, defaulting to Info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// GenerateIngestID creates a new UUID for correlating all log lines
// produced while processing one inbound message or command.
func GenerateIngestID() string {
	return uuid.NewString()
}

// WithIngestID returns a new context containing the ingest ID.
func WithIngestID(ctx context.Context, ingestID string) context.Context {
	return context.WithValue(ctx, ingestIDKey, ingestID)
}

// IngestIDFromContext extracts the ingest ID from the context, if present.
func IngestIDFromContext(ctx context.Context) (string, bool) {
	if id, ok := ctx.Value(ingestIDKey).(string); ok {
		return id, true
	}
	return "", false
}

// FromContext returns a logger that includes the ingest_id attribute when present.
func FromContext(ctx context.Context) *slog.Logger {
	if id, ok := IngestIDFromContext(ctx); ok {
		return slog.Default().With("ingest_id", id)
	}
	return slog.Default()
}
