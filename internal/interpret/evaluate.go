package interpret

import (
	"log/slog"
	"math"

	"github.com/ian-shakespeare/libcalc/pkg/stack"
)

// EvaluatePostfix reduces a postfix sequence to a single value. Division by
// zero and invalid powers are not errors; they yield Inf or NaN.
func EvaluatePostfix(postfix []Token, opts ...Option) (float64, error) {
	o := newOptions(opts)

	var values stack.Stack[float64]
	for _, token := range postfix {
		switch token.Type {
		case NUMBER_TOKEN:
			values.Push(token.Number)
		case OPERATOR_TOKEN:
			b, err := values.Pop()
			if err != nil {
				return 0, NewEvalErrorf(MALFORMED_EXPRESSION_ERROR, token.Pos, "missing right operand for %q", token.Symbol())
			}
			a, err := values.Pop()
			if err != nil {
				return 0, NewEvalErrorf(MALFORMED_EXPRESSION_ERROR, token.Pos, "missing left operand for %q", token.Symbol())
			}

			result, err := apply(token, a, b)
			if err != nil {
				return 0, err
			}
			o.log.Debug("operation", slog.Float64("a", a), slog.String("op", string(token.Symbol())), slog.Float64("b", b), slog.Float64("result", result))
			values.Push(result)
		default:
			return 0, NewEvalErrorf(MALFORMED_EXPRESSION_ERROR, token.Pos, "unexpected %s token in postfix", token.Type)
		}
	}

	if values.Len() != 1 {
		return 0, NewEvalErrorf(MALFORMED_EXPRESSION_ERROR, -1, "%d values left after evaluation", values.Len())
	}
	return values.Pop()
}

func apply(op Token, a, b float64) (float64, error) {
	switch op.Symbol() {
	case '+':
		return a + b, nil
	case '-':
		return a - b, nil
	case '*':
		return a * b, nil
	case '/':
		return a / b, nil
	case '^':
		return math.Pow(a, b), nil
	default:
		return 0, NewEvalErrorf(INVALID_OPERATOR_ERROR, op.Pos, "unknown operator %q", op.Symbol())
	}
}
