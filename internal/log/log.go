// Package log builds the slog handlers used by the command line tool.
package log

import (
	"errors"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/muesli/termenv"

	charmlog "github.com/charmbracelet/log"
)

// Format names a log output encoding.
type Format string

const (
	FormatJSON   Format = "json"
	FormatLogfmt Format = "logfmt"
	FormatText   Format = "text"
)

var (
	ErrUnknownLogFormat = errors.New("unknown log format")

	// AllFormats lists the accepted --log-format values, text first.
	AllFormats = []string{
		string(FormatText),
		string(FormatLogfmt),
		string(FormatJSON),
	}
)

// ParseFormat resolves a case-insensitive format name.
func ParseFormat(format string) (Format, error) {
	f := Format(strings.ToLower(format))
	if !slices.Contains(AllFormats, string(f)) {
		return "", ErrUnknownLogFormat
	}
	return f, nil
}

// NewHandler returns a handler writing format-encoded records at level or
// above to w.
func NewHandler(w io.Writer, level slog.Level, format string) (slog.Handler, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}

	switch f {
	case FormatJSON:
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}), nil
	case FormatLogfmt:
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}), nil
	default:
		return newCharmHandler(w, level), nil
	}
}

func newCharmHandler(w io.Writer, level slog.Level) slog.Handler {
	//nolint:gosec // G115: slog levels fit in int32.
	logger := charmlog.NewWithOptions(w, charmlog.Options{
		Level:           charmlog.Level(int32(level)),
		Formatter:       charmlog.TextFormatter,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})
	logger.SetColorProfile(termenv.NewOutput(w).ColorProfile())
	return logger
}
