package shell_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/ian-shakespeare/libcalc/internal/interpret"
	"github.com/ian-shakespeare/libcalc/internal/shell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, input string, opts shell.Options) string {
	t.Helper()

	var out bytes.Buffer
	s := shell.New(interpret.NewCalculator(), strings.NewReader(input), &out, opts)
	require.NoError(t, s.Run(context.Background()))
	return out.String()
}

func TestShell(t *testing.T) {
	t.Parallel()

	t.Run("testMode", func(t *testing.T) {
		t.Parallel()

		out := run(t, "", shell.Options{Test: true})
		assert.Contains(t, out, "Test mode.")
		assert.Equal(t, len(shell.TestExpressions), strings.Count(out, "Expression to calculate:"))
		assert.Equal(t, 7, strings.Count(out, "result = 1474\n"))
		assert.Contains(t, out, "result = 1430\n")
		assert.Contains(t, out, "result = 5\n")
		assert.Contains(t, out, "result = 3.001953125\n")
		assert.Contains(t, out, "Wrong number of parentheses.")
		assert.Equal(t, 3, strings.Count(out, "Wrong expression."))
	})

	t.Run("singleLine", func(t *testing.T) {
		t.Parallel()

		out := run(t, "3+4*2=\n", shell.Options{})
		assert.Contains(t, out, "Expression to calculate: 3+4*2\n")
		assert.Contains(t, out, "result = 11\n")
	})

	t.Run("multiLine", func(t *testing.T) {
		t.Parallel()

		out := run(t, "(3+4)\r\n*\n2=\n", shell.Options{})
		assert.Contains(t, out, "Expression to calculate: (3+4)*2\n")
		assert.Contains(t, out, "result = 14\n")
	})

	t.Run("severalExpressions", func(t *testing.T) {
		t.Parallel()

		out := run(t, "1+1=\n22%3=\n2^3^2=\n", shell.Options{})
		assert.Contains(t, out, "result = 2\n")
		assert.Contains(t, out, "Wrong operation sign.")
		assert.Contains(t, out, "result = 64\n")
	})

	t.Run("exitOnTwoEmptyLines", func(t *testing.T) {
		t.Parallel()

		out := run(t, "\n\n1+1=\n", shell.Options{})
		assert.Contains(t, out, "Press 'Enter' to exit.")
		assert.NotContains(t, out, "result = 2")

		echo := strings.Index(out, "Expression to calculate:")
		require.NotEqual(t, -1, echo)
		assert.Less(t, echo, strings.Index(out, "Press 'Enter' to exit."))
	})

	t.Run("continueAfterExitPrompt", func(t *testing.T) {
		t.Parallel()

		out := run(t, "\nno\n1+1=\n", shell.Options{})
		assert.Contains(t, out, "Press 'Enter' to exit.")
		assert.Contains(t, out, "result = 2\n")
	})

	t.Run("unterminatedAtEOF", func(t *testing.T) {
		t.Parallel()

		out := run(t, "1+\n2", shell.Options{})
		assert.Contains(t, out, "result = 3\n")
	})

	t.Run("emptyInput", func(t *testing.T) {
		t.Parallel()

		out := run(t, "", shell.Options{})
		assert.Contains(t, out, "This is a simple line expression calculator.")
		assert.NotContains(t, out, "Expression to calculate")
	})

	t.Run("echo", func(t *testing.T) {
		t.Parallel()

		out := run(t, "3+4*2=\n", shell.Options{Echo: true})
		assert.Contains(t, out, "postfix = 3 4 2 * +\n")
	})

	t.Run("sentinelResults", func(t *testing.T) {
		t.Parallel()

		out := run(t, "1/0=\n", shell.Options{})
		assert.Contains(t, out, "result = +Inf\n")
	})

	t.Run("cancelled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var out bytes.Buffer
		s := shell.New(interpret.NewCalculator(), strings.NewReader("1+1=\n"), &out, shell.Options{})
		require.NoError(t, s.Run(ctx))
		assert.NotContains(t, out.String(), "result")
	})

	blockedReads := []struct {
		name  string
		input string
	}{
		{"waitingForExpression", "1+1=\n"},
		{"waitingForExitConfirmation", "1+1=\n\n"},
	}

	for _, input := range blockedReads {
		t.Run(input.name, func(t *testing.T) {
			t.Parallel()

			pr, pw := io.Pipe()
			t.Cleanup(func() { pw.Close() })

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			var out bytes.Buffer
			s := shell.New(interpret.NewCalculator(), pr, &out, shell.Options{})
			done := make(chan error, 1)
			go func() {
				done <- s.Run(ctx)
			}()

			_, err := io.WriteString(pw, input.input)
			require.NoError(t, err)
			// Accepted only once every earlier line has been handed to Run.
			_, err = io.WriteString(pw, "2")
			require.NoError(t, err)
			cancel()

			select {
			case err := <-done:
				require.NoError(t, err)
			case <-time.After(time.Second):
				t.Fatal("Run did not return after the context was cancelled")
			}
			assert.Contains(t, out.String(), "result = 2\n")
		})
	}

	t.Run("readError", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		s := shell.New(interpret.NewCalculator(), failingReader{}, &out, shell.Options{})
		assert.ErrorIs(t, s.Run(context.Background()), errRead)
	})
}

var errRead = errors.New("read failed")

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errRead
}
