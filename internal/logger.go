package internal

import (
	"io"
	"log/slog"
	"time"
)

// NewLogger builds the process logger: human-readable text in dev,
// JSON with UTC RFC3339 timestamps in prod. Unknown levels fall back
// to info rather than failing startup.
func NewLogger(w io.Writer, env string, level string) *slog.Logger {
	lv := new(slog.LevelVar)
	switch level {
	case "debug":
		lv.Set(slog.LevelDebug)
	case "info":
		lv.Set(slog.LevelInfo)
	case "warn":
		lv.Set(slog.LevelWarn)
	case "error":
		lv.Set(slog.LevelError)
	default:
		slog.Default().Warn("Unknown log level, using info", slog.String("value", level))
	}

	var h slog.Handler
	if env == "prod" {
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: lv,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey {
					return slog.String("time", a.Value.Time().UTC().Format(time.RFC3339Nano))
				}
				return a
			},
		})
	} else {
		h = slog.NewTextHandler(w, &slog.HandlerOptions{Level: lv})
	}

	return slog.New(h).With(slog.String("service", "mundolibro"))
}
