package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ian-shakespeare/libcalc/internal/interpret"
)

// Terminator ends an expression in interactive mode. Input lines are joined
// until one ends with it.
const Terminator = "="

// TestExpressions are evaluated in test mode instead of reading input.
var TestExpressions = []string{
	"3 + 4 * 2 / (1 - 5) ^ 2 ^ 3",
	"((15 / (7 - (1 + 1))) * 3) - (2 + (1 + 1))",
	"22+33*44",
	" - 22 +   33*44",
	"22+33)*44",
	"22+33 44",
	"22+33 44 55",
	"22+33**44",
	"    22+33*44",
	"22+33*44    ",
	"22+33    *    44",
	"\t\t\t22+33*44",
	"22+33*\t\t\t44",
	"22+33*44\t\t\t",
}

// Evaluator computes one expression.
type Evaluator interface {
	Evaluate(text string) (float64, error)
}

// Compiler is implemented by evaluators that can show the postfix form.
type Compiler interface {
	Compile(text string) ([]interpret.Token, error)
}

type Options struct {
	// Test evaluates TestExpressions and returns.
	Test bool
	// Echo prints the postfix form before each result.
	Echo bool
	// Color enables ANSI colors.
	Color bool
	Log   *slog.Logger
}

type styles struct {
	banner  lipgloss.Style
	mode    lipgloss.Style
	prompt  lipgloss.Style
	result  lipgloss.Style
	failure lipgloss.Style
	postfix lipgloss.Style
}

type Shell struct {
	calc   Evaluator
	in     *bufio.Reader
	lines  <-chan inputLine
	out    io.Writer
	opts   Options
	log    *slog.Logger
	styles styles
}

func New(calc Evaluator, in io.Reader, out io.Writer, opts Options) *Shell {
	log := opts.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	r := lipgloss.NewRenderer(out)
	style := func(color string) lipgloss.Style {
		s := r.NewStyle().TabWidth(lipgloss.NoTabConversion)
		if opts.Color {
			s = s.Foreground(lipgloss.Color(color))
		}
		return s
	}

	return &Shell{
		calc: calc,
		in:   bufio.NewReader(in),
		out:  out,
		opts: opts,
		log:  log,
		styles: styles{
			banner:  style("3"),
			mode:    style("6"),
			prompt:  style("11"),
			result:  style("2"),
			failure: style("1"),
			postfix: style("4"),
		},
	}
}

type inputLine struct {
	text string
	err  error
}

// Run evaluates expressions until the input is exhausted, the user leaves
// with two empty lines, or ctx is done. It only fails on I/O errors.
func (s *Shell) Run(ctx context.Context) error {
	s.println(s.styles.banner, "This is a simple line expression calculator.")
	if s.opts.Test {
		s.println(s.styles.mode, "Test mode.")
		s.blank()
		for _, expr := range TestExpressions {
			if ctx.Err() != nil {
				return nil
			}
			s.evaluate(expr)
		}
		return nil
	}

	s.println(s.styles.banner, "Type expression with '"+Terminator+"' at the end to calculate,")
	s.println(s.styles.banner, "or press 'Enter' to exit.")
	s.blank()

	readCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.lines = s.readLines(readCtx)

	for ctx.Err() == nil {
		expr, err := s.readExpression(ctx)
		if err != nil && ctx.Err() != nil {
			return nil
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}

		if expr != "" {
			s.evaluate(expr)
		} else if err == nil {
			s.println(s.styles.banner, "Expression to calculate: ")
			s.println(s.styles.failure, "Press 'Enter' to exit.")
			line, err := s.readLine(ctx)
			if err != nil && ctx.Err() != nil {
				return nil
			}
			if err != nil && !errors.Is(err, io.EOF) {
				return err
			}
			if line == "" {
				return nil
			}
			s.log.Debug("ignored", slog.String("line", line))
			continue
		}

		if errors.Is(err, io.EOF) {
			return nil
		}
	}
	return nil
}

// readExpression joins lines until one ends with Terminator. An empty first
// line yields an empty expression.
func (s *Shell) readExpression(ctx context.Context) (string, error) {
	s.println(s.styles.prompt, "Input expression to calculate:")

	var expr strings.Builder
	for {
		line, err := s.readLine(ctx)
		if err != nil && ctx.Err() != nil {
			return "", err
		}
		s.log.Debug("input", slog.String("line", line))
		if line == "" && expr.Len() == 0 {
			return "", err
		}

		if trimmed, ok := strings.CutSuffix(line, Terminator); ok {
			expr.WriteString(trimmed)
			return expr.String(), nil
		}
		expr.WriteString(line)

		if err != nil {
			return expr.String(), err
		}
	}
}

// readLines reads the input on its own goroutine so that a blocked read
// does not keep Run from noticing ctx. The goroutine stops after the first
// read error or once ctx is done.
func (s *Shell) readLines(ctx context.Context) <-chan inputLine {
	lines := make(chan inputLine)
	go func() {
		defer close(lines)
		for {
			text, err := s.in.ReadString('\n')
			select {
			case lines <- inputLine{text: strings.TrimRight(text, "\r\n"), err: err}:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()
	return lines
}

func (s *Shell) readLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case l, ok := <-s.lines:
		if !ok {
			return "", io.EOF
		}
		return l.text, l.err
	}
}

func (s *Shell) evaluate(expr string) {
	s.println(s.styles.banner, "Expression to calculate: "+expr)
	s.blank()
	s.log.Info("processing", slog.String("expression", expr))

	if c, ok := s.calc.(Compiler); ok && s.opts.Echo {
		if postfix, err := c.Compile(expr); err == nil {
			s.println(s.styles.postfix, "postfix = "+interpret.FormatTokens(postfix))
		}
	}

	result, err := s.calc.Evaluate(expr)
	if err != nil {
		s.log.Warn("rejected", slog.String("expression", expr), slog.Any("error", err))
		s.println(s.styles.failure, describe(err))
		s.blank()
		return
	}

	s.println(s.styles.result, "result = "+strconv.FormatFloat(result, 'g', -1, 64))
	s.blank()
}

func (s *Shell) println(style lipgloss.Style, text string) {
	fmt.Fprintln(s.out, style.Render(text))
}

func (s *Shell) blank() {
	fmt.Fprintln(s.out)
}

// describe renders an evaluation error as a sentence for the user.
func describe(err error) string {
	var evalErr *interpret.EvalError
	if !errors.As(err, &evalErr) {
		return err.Error()
	}

	kind := evalErr.Kind.String()
	msg := strings.ToUpper(kind[:1]) + kind[1:] + "."
	if evalErr.Message != "" {
		msg += " " + strings.ToUpper(evalErr.Message[:1]) + evalErr.Message[1:]
		if evalErr.Pos >= 0 {
			msg += " at offset " + strconv.Itoa(evalErr.Pos)
		}
		msg += "."
	}
	return msg
}
