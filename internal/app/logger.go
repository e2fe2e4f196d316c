package app

import (
	"io"
	"log/slog"
)

// logLevels maps the config keywords to slog levels. NewConfig guarantees the
// keyword is one of these.
var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// newLogger builds the app's isolated logger from the validated config. It
// never touches the global logger, and it writes to the log stream only, so
// scenario traces and reports stay clean on the output stream.
func newLogger(cfg *Config, logW io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: logLevels[cfg.LogLevel]}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(logW, opts))
	}
	return slog.New(slog.NewTextHandler(logW, opts))
}
