// Package logging builds the slog loggers of the binaries from flags.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"

	FormatJSON = "json"
	FormatText = "text"
	FormatRaw  = "raw"
)

// Opts holds logging configuration options.
type Opts struct {
	Fields   []string `long:"field" env:"FIELD" env-delim:"," description:"Inject fields at the topline level, using k:v"`
	Level    string   `long:"level" env:"LEVEL" description:"Log level" choice:"debug" choice:"info" choice:"warn" choice:"error" default:"info"`
	Format   string   `long:"format" env:"FORMAT" description:"Log format" choice:"json" choice:"text" choice:"raw" default:"json"`
	FilePath string   `long:"file" env:"FILE" description:"Log to file instead of stderr"`
}

// Init sets the default slog logger from opts.
func Init(opts *Opts) error {
	logger, err := NewLogger(opts)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	return nil
}

// NewLogger returns a logger writing to the file of opts, or to stderr.
func NewLogger(opts *Opts) (*slog.Logger, error) {
	writer := io.Writer(os.Stderr)
	if opts.FilePath != "" {
		file, err := os.OpenFile(opts.FilePath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		writer = file
	}
	return NewLoggerWithWriter(opts, writer)
}

// NewLoggerWithWriter returns a logger writing to w. Records logged with a context carrying a request id are
// tagged with it.
func NewLoggerWithWriter(opts *Opts, w io.Writer) (*slog.Logger, error) {
	handlerOpts := &slog.HandlerOptions{Level: parseLevel(opts.Level)}
	var handler slog.Handler
	switch opts.Format {
	case FormatJSON, "":
		handler = slog.NewJSONHandler(w, handlerOpts)
	case FormatText:
		handler = slog.NewTextHandler(w, handlerOpts)
	case FormatRaw:
		handler = NewRawHandler(w, handlerOpts)
	default:
		return nil, fmt.Errorf("unrecognized format: %s", opts.Format)
	}

	logger := slog.New(NewContextHandler(handler, ExtractRequestID))
	for _, field := range opts.Fields {
		key, value, ok := strings.Cut(field, ":")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid field format: %s", field)
		}
		logger = logger.With(key, value)
	}
	return logger, nil
}

var levelToSlogLevel = map[string]slog.Level{
	LevelDebug: slog.LevelDebug,
	LevelInfo:  slog.LevelInfo,
	LevelWarn:  slog.LevelWarn,
	LevelError: slog.LevelError,
}

func parseLevel(level string) slog.Level {
	if l, ok := levelToSlogLevel[strings.ToLower(level)]; ok {
		return l
	}
	return slog.LevelInfo
}
