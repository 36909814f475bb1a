package app

import (
	"log/slog"
	"os"
)

// NewLogger builds the process logger from LOG_FORMAT. "json" emits JSON
// records with source locations for aggregation; "text" is the same in
// logfmt. The default, "pretty", targets a developer terminal and drops
// source locations.
func NewLogger(cfg *Config) *slog.Logger {
	format := "pretty"
	if cfg != nil {
		format = cfg.LogFormat
	}
	switch format {
	case "json":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{AddSource: true}))
	case "text":
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{AddSource: true}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{}))
	}
}
