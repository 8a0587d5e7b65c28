package logger

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const timeLayout = "15:04:05.000"

// Formatter renders one Entry as a complete line, including the newline.
type Formatter interface {
	Format(e Entry, cols Columns) []byte
}

// ParseFormat returns the formatter named by s: "text", "color" or "excel".
// The color formatter detects the color support of out.
func ParseFormat(s string, out io.Writer) (Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "":
		return TextFormatter{}, nil
	case "color":
		return NewColorFormatter(out), nil
	case "excel", "csv":
		return ExcelFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown log format %q", s)
	}
}

// TextFormatter writes plain lines:
//
//	3 12:00:01.250 pid:42 [DEBUG] scan.go:40 interpret.(*scanner).NextToken token type=number
type TextFormatter struct{}

func (TextFormatter) Format(e Entry, cols Columns) []byte {
	var b strings.Builder
	for _, field := range prefixFields(e, cols) {
		b.WriteString(field)
		b.WriteByte(' ')
	}
	b.WriteString("[" + e.Level.String() + "] ")
	if cols.Has(ColumnSource) && e.Source != "" {
		b.WriteString(e.Source + " " + e.Function + " ")
	}
	b.WriteString(e.Message)
	if e.Attrs != "" {
		b.WriteString(" " + e.Attrs)
	}
	b.WriteByte('\n')
	return []byte(b.String())
}

// ColorFormatter is TextFormatter with ANSI colors per column.
type ColorFormatter struct {
	number  lipgloss.Style
	source  lipgloss.Style
	message lipgloss.Style
	levels  map[Level]lipgloss.Style
}

func NewColorFormatter(out io.Writer) ColorFormatter {
	r := lipgloss.NewRenderer(out)
	green := r.NewStyle().Foreground(lipgloss.Color("2"))
	red := r.NewStyle().Foreground(lipgloss.Color("1"))
	return ColorFormatter{
		number:  r.NewStyle().Foreground(lipgloss.Color("4")),
		source:  r.NewStyle().Foreground(lipgloss.Color("6")),
		message: r.NewStyle().Foreground(lipgloss.Color("11")),
		levels: map[Level]lipgloss.Style{
			LevelDebug: green,
			LevelInfo:  green,
			LevelWarn:  r.NewStyle().Foreground(lipgloss.Color("3")),
			LevelError: red.Bold(true),
		},
	}
}

func (f ColorFormatter) Format(e Entry, cols Columns) []byte {
	var b strings.Builder
	fields := prefixFields(e, cols)
	for i, field := range fields {
		if i == 0 && cols.Has(ColumnNumber) {
			field = f.number.Render(field)
		}
		b.WriteString(field)
		b.WriteByte(' ')
	}
	b.WriteString(f.levels[e.Level].Render("["+e.Level.String()+"]") + " ")
	if cols.Has(ColumnSource) && e.Source != "" {
		b.WriteString(f.source.Render(e.Source+" "+e.Function) + " ")
	}
	b.WriteString(f.message.Render(e.Message))
	if e.Attrs != "" {
		b.WriteString(" " + e.Attrs)
	}
	b.WriteByte('\n')
	return []byte(b.String())
}

// ExcelFormatter writes semicolon separated records that spreadsheet
// programs import directly.
type ExcelFormatter struct{}

func (ExcelFormatter) Format(e Entry, cols Columns) []byte {
	record := prefixFields(e, cols)
	record = append(record, e.Level.String())
	if cols.Has(ColumnSource) {
		record = append(record, e.Source, e.Function)
	}
	record = append(record, e.Message, e.Attrs)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = ';'
	// Writing to a bytes.Buffer cannot fail.
	_ = w.Write(record)
	w.Flush()
	return buf.Bytes()
}

func prefixFields(e Entry, cols Columns) []string {
	var fields []string
	if cols.Has(ColumnNumber) {
		fields = append(fields, strconv.FormatUint(e.Number, 10))
	}
	if cols.Has(ColumnTime) {
		fields = append(fields, e.Time.Format(timeLayout))
	}
	if cols.Has(ColumnProcessID) {
		fields = append(fields, "pid:"+strconv.Itoa(e.PID))
	}
	return fields
}
