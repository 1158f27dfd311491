package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Init installs a JSON slog handler as the default logger. level is one of
// debug, info, warn or error; anything else means info.
func Init(level string) {
	slog.SetDefault(New(os.Stdout, level))
	slog.Info("logger initialized", "level", ParseLevel(level).String())
}

func New(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
