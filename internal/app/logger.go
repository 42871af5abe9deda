package app

import (
	"log/slog"

	"github.com/aussiebroadwan/campus/pkg/slogx"
)

// NewLogger builds the process logger. It writes to stderr so command output
// on stdout stays machine readable.
func NewLogger(cfg Config, service string) *slog.Logger {
	return slogx.New(slogx.Config{
		Service: service,
		Version: BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})
}
