package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/ian-shakespeare/libcalc/internal/config"
	"github.com/ian-shakespeare/libcalc/internal/interpret"
	"github.com/ian-shakespeare/libcalc/internal/logger"
	"github.com/ian-shakespeare/libcalc/internal/shell"
	"golang.org/x/term"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	// A second interrupt kills the process.
	context.AfterFunc(ctx, stop)

	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr, os.LookupEnv)
	if err != nil && !errors.Is(err, flag.ErrHelp) {
		stop()
		log.Fatal(err.Error())
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, lookupEnv func(string) (string, bool)) error {
	flags := flag.NewFlagSet("libcalc", flag.ContinueOnError)
	flags.SetOutput(stderr)

	var (
		test       = flags.Bool("t", false, "evaluate the built-in test expressions and exit")
		echo       = flags.Bool("echo", false, "print the postfix form of each expression")
		configPath = flags.String("config", config.GetConfigPath(), "configuration file")
		logLevel   = flags.String("log-level", "", "log level: debug, info, warn, error or none")
		logFormat  = flags.String("log-format", "", "log format: text, color or excel")
		logColumns = flags.String("log-columns", "", "log columns: num, time, pid, source, all or none")
		logFile    = flags.String("log-file", "", "append logs to this file instead of stderr")
		strict     = flags.Bool("strict", false, "reject malformed numbers instead of reading their longest valid prefix")
		rightAssoc = flags.Bool("right-assoc-pow", false, "group chains of '^' right to left")
		noColor    = flags.Bool("no-color", false, "disable colored output")
	)
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(lookupEnv); err != nil {
		return fmt.Errorf("invalid environment: %w", err)
	}

	flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "log-level":
			cfg.LogLevel = *logLevel
		case "log-format":
			cfg.LogFormat = *logFormat
		case "log-columns":
			cfg.LogColumns = *logColumns
		case "log-file":
			cfg.LogPath = *logFile
		case "strict":
			cfg.StrictNumbers = *strict
		case "right-assoc-pow":
			cfg.RightAssociativePower = *rightAssoc
		case "no-color":
			cfg.NoColor = *noColor
		}
	})
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	l, h, err := newLogger(cfg, stderr)
	if err != nil {
		return err
	}
	defer func() {
		if err := h.Close(); err != nil {
			fmt.Fprintf(stderr, "Warning: failed to close logger: %v\n", err)
		}
	}()

	opts := []interpret.Option{interpret.WithLogger(l)}
	if cfg.StrictNumbers {
		opts = append(opts, interpret.StrictNumbers())
	}
	if cfg.RightAssociativePower {
		opts = append(opts, interpret.RightAssociativePower())
	}

	s := shell.New(interpret.NewCalculator(opts...), stdin, stdout, shell.Options{
		Test:  *test,
		Echo:  *echo,
		Color: !cfg.NoColor && isTerminal(stdout),
		Log:   l,
	})
	return s.Run(ctx)
}

// newLogger writes to stderr, or only to cfg.LogPath when it is set.
func newLogger(cfg *config.Config, stderr io.Writer) (*slog.Logger, *logger.Handler, error) {
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	columns, err := logger.ParseColumns(cfg.LogColumns)
	if err != nil {
		return nil, nil, err
	}

	out := stderr
	if cfg.LogPath != "" && level != logger.LevelNone {
		file, err := logger.NewFileWriter(cfg.LogPath)
		if err != nil {
			return nil, nil, err
		}
		out = file
	}

	formatter, err := logger.ParseFormat(cfg.LogFormat, out)
	if err != nil {
		return nil, nil, err
	}

	l, h := logger.NewLogger(logger.Options{
		Level:     level,
		Formatter: formatter,
		Columns:   columns,
		Writers:   []io.Writer{out},
	})
	return l, h, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
