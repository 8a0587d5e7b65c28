package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/ian-shakespeare/libcalc/pkg/iterator"
)

// Level represents a logging level
type Level int

const (
	// LevelDebug is the most verbose logging level
	LevelDebug Level = iota
	// LevelInfo logs informational messages
	LevelInfo
	// LevelWarn logs warnings
	LevelWarn
	// LevelError logs errors
	LevelError
	// LevelNone disables all logging
	LevelNone
)

// String returns string representation of log level
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelNone:
		return "NONE"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a string into a Level
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "none", "off":
		return LevelNone, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

func fromSlogLevel(level slog.Level) Level {
	switch {
	case level >= slog.LevelError:
		return LevelError
	case level >= slog.LevelWarn:
		return LevelWarn
	case level >= slog.LevelInfo:
		return LevelInfo
	default:
		return LevelDebug
	}
}

// Columns selects the optional fields printed before each message.
type Columns uint8

const (
	ColumnNumber Columns = 1 << iota
	ColumnTime
	ColumnProcessID
	ColumnSource

	ColumnsNone Columns = 0
	ColumnsAll  Columns = ColumnNumber | ColumnTime | ColumnProcessID | ColumnSource
)

var columnNames = map[string]Columns{
	"num":    ColumnNumber,
	"time":   ColumnTime,
	"pid":    ColumnProcessID,
	"source": ColumnSource,
	"all":    ColumnsAll,
	"none":   ColumnsNone,
}

// ParseColumns parses a comma separated list such as "num,time,source".
func ParseColumns(s string) (Columns, error) {
	var cols Columns
	for _, name := range strings.Split(s, ",") {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		c, ok := columnNames[name]
		if !ok {
			valid := iterator.Collect(maps.Keys(columnNames))
			slices.Sort(valid)
			return 0, fmt.Errorf("unknown log column %q, expected one of %s", name, strings.Join(valid, ", "))
		}
		cols |= c
	}
	return cols, nil
}

func (c Columns) Has(col Columns) bool {
	return c&col != 0
}

// Entry is one record as handed to a Formatter.
type Entry struct {
	Number   uint64
	Time     time.Time
	PID      int
	Level    Level
	Source   string
	Function string
	Message  string
	Attrs    string
}

// Options configures a Handler.
type Options struct {
	Level     Level
	Formatter Formatter
	Columns   Columns
	Writers   []io.Writer
}

// sink is shared by a Handler and every handler derived from it.
type sink struct {
	mu      sync.Mutex
	writers []io.Writer
	counter uint64
}

// Handler is a slog.Handler that formats records with a Formatter and writes
// them to every configured writer.
type Handler struct {
	sink      *sink
	level     Level
	formatter Formatter
	columns   Columns
	groups    []string
	attrs     []slog.Attr
}

// New creates a Handler. Without writers, or at LevelNone, everything is
// discarded.
func New(opts Options) *Handler {
	formatter := opts.Formatter
	if formatter == nil {
		formatter = TextFormatter{}
	}
	return &Handler{
		sink:      &sink{writers: slices.Clone(opts.Writers)},
		level:     opts.Level,
		formatter: formatter,
		columns:   opts.Columns,
	}
}

// NewLogger wraps a Handler in a *slog.Logger.
func NewLogger(opts Options) (*slog.Logger, *Handler) {
	h := New(opts)
	return slog.New(h), h
}

// NewFileWriter opens logPath for appending, creating its directory.
func NewFileWriter(logPath string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return file, nil
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	if h.level == LevelNone || fromSlogLevel(level) < h.level {
		return false
	}

	h.sink.mu.Lock()
	defer h.sink.mu.Unlock()
	return len(h.sink.writers) > 0
}

func (h *Handler) Handle(_ context.Context, record slog.Record) error {
	own := make([]slog.Attr, 0, record.NumAttrs())
	record.Attrs(func(attr slog.Attr) bool {
		own = append(own, attr)
		return true
	})
	combined := append(slices.Clone(h.attrs), qualify(own, h.groups)...)

	entry := Entry{
		Time:    record.Time,
		PID:     os.Getpid(),
		Level:   fromSlogLevel(record.Level),
		Message: record.Message,
		Attrs:   formatAttrs(combined),
	}
	if record.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{record.PC}).Next()
		entry.Source = fmt.Sprintf("%s:%d", filepath.Base(frame.File), frame.Line)
		entry.Function = frame.Function
	}

	h.sink.mu.Lock()
	defer h.sink.mu.Unlock()

	entry.Number = h.sink.counter
	h.sink.counter++

	line := h.formatter.Format(entry, h.columns)
	var errs []error
	for _, w := range h.sink.writers {
		if _, err := w.Write(line); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(slices.Clone(h.attrs), qualify(attrs, h.groups)...)
	return &clone
}

func (h *Handler) WithGroup(name string) slog.Handler {
	clone := *h
	clone.groups = slices.Clone(h.groups)
	if name != "" {
		clone.groups = append(clone.groups, name)
	}
	return &clone
}

// Close closes every writer that is an io.Closer, except stdout and stderr.
func (h *Handler) Close() error {
	h.sink.mu.Lock()
	defer h.sink.mu.Unlock()

	var errs []error
	for _, w := range h.sink.writers {
		if w == os.Stdout || w == os.Stderr {
			continue
		}
		if c, ok := w.(io.Closer); ok {
			errs = append(errs, c.Close())
		}
	}
	h.sink.writers = nil
	return errors.Join(errs...)
}

// qualify nests attrs under the groups open at the time they were added.
func qualify(attrs []slog.Attr, groups []string) []slog.Attr {
	if len(groups) == 0 {
		return attrs
	}
	nested := make([]any, len(attrs))
	for i, a := range attrs {
		nested[i] = a
	}
	for i := len(groups) - 1; i > 0; i-- {
		nested = []any{slog.Group(groups[i], nested...)}
	}
	return []slog.Attr{slog.Group(groups[0], nested...)}
}

func formatAttrs(attrs []slog.Attr) string {
	if len(attrs) == 0 {
		return ""
	}

	var builder strings.Builder
	first := true
	for _, attr := range attrs {
		first = writeAttr(&builder, attr, nil, first)
	}

	return builder.String()
}

func writeAttr(builder *strings.Builder, attr slog.Attr, prefix []string, first bool) bool {
	if attr.Equal(slog.Attr{}) {
		return first
	}

	if attr.Value.Kind() == slog.KindGroup {
		groupPrefix := appendKey(prefix, attr.Key)
		for _, nested := range attr.Value.Group() {
			first = writeAttr(builder, nested, groupPrefix, first)
		}
		return first
	}

	key := attr.Key
	if key == "" {
		key = "attr"
	}

	keyParts := appendKey(prefix, key)
	if !first {
		builder.WriteByte(' ')
	}
	fmt.Fprintf(builder, "%s=%v", strings.Join(keyParts, "."), attr.Value)
	return false
}

func appendKey(prefix []string, key string) []string {
	combined := make([]string, 0, len(prefix)+1)
	combined = append(combined, prefix...)
	combined = append(combined, key)
	return combined
}
