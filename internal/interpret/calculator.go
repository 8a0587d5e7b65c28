package interpret

import "log/slog"

// Calculator evaluates expressions with a fixed set of options. It holds no
// per-expression state and is safe for concurrent use.
type Calculator struct {
	opts []Option
	log  *slog.Logger
}

func NewCalculator(opts ...Option) *Calculator {
	return &Calculator{
		opts: opts,
		log:  newOptions(opts).log,
	}
}

// Compile returns the postfix form of text.
func (c *Calculator) Compile(text string) ([]Token, error) {
	infix, err := BuildInfix(text, c.opts...)
	if err != nil {
		return nil, err
	}
	return ToPostfix(infix, c.opts...)
}

// Evaluate computes the value of text. Errors are *EvalError values.
func (c *Calculator) Evaluate(text string) (float64, error) {
	postfix, err := c.Compile(text)
	if err != nil {
		c.log.Debug("rejected", slog.String("expression", text), slog.Any("error", err))
		return 0, err
	}

	result, err := EvaluatePostfix(postfix, c.opts...)
	if err != nil {
		c.log.Debug("rejected", slog.String("expression", text), slog.Any("error", err))
		return 0, err
	}

	c.log.Debug("evaluated", slog.String("expression", text), slog.Float64("result", result))
	return result, nil
}

var defaultCalculator = NewCalculator()

// Evaluate computes text with the default options.
func Evaluate(text string) (float64, error) {
	return defaultCalculator.Evaluate(text)
}
