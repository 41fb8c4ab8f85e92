package hxpage

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	slogmulti "github.com/samber/slog-multi"
)

// NewLogger builds a logger from log settings. Records go to w and to every
// extra handler.
func NewLogger(w io.Writer, s LogSettings, extra ...slog.Handler) (*slog.Logger, error) {
	level, err := parseLevel(s.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	var base slog.Handler
	switch s.Format {
	case "", "text":
		base = slog.NewTextHandler(w, opts)
	case "json":
		base = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("hxpage: unknown log format %q", s.Format)
	}

	if len(extra) == 0 {
		return slog.New(base), nil
	}
	handlers := append([]slog.Handler{base}, extra...)
	return slog.New(slogmulti.Fanout(handlers...)), nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("hxpage: unknown log level %q", s)
}
