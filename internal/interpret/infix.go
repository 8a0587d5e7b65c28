package interpret

import (
	"log/slog"
	"strings"

	"github.com/ian-shakespeare/libcalc/pkg/array"
	"github.com/ian-shakespeare/libcalc/pkg/iterator"
)

// BuildInfix tokenizes text and checks that the parentheses are balanced and
// that there is exactly one more operand than there are operators.
func BuildInfix(text string, opts ...Option) ([]Token, error) {
	s := NewScanner(strings.NewReader(text), opts...)

	tokens, errs := iterator.Collect2(s.Tokens())
	if i := array.Some(errs, func(err error) bool { return err != nil }); i > -1 {
		return nil, errs[i]
	}

	if err := checkParentheses(tokens); err != nil {
		return nil, err
	}
	if err := checkOperands(tokens); err != nil {
		return nil, err
	}

	s.log.Debug("infix", slog.String("tokens", FormatTokens(tokens)))
	return tokens, nil
}

// checkParentheses only compares counts. Misordered parentheses such as ")("
// are left for ToPostfix to reject.
func checkParentheses(tokens []Token) error {
	depth := array.Sum(tokens, func(t Token) int {
		switch t.Type {
		case OPEN_PAREN_TOKEN:
			return 1
		case CLOSE_PAREN_TOKEN:
			return -1
		default:
			return 0
		}
	})

	switch {
	case depth > 0:
		return NewEvalErrorf(UNBALANCED_PARENTHESES_ERROR, -1, "%d unclosed parentheses", depth)
	case depth < 0:
		return NewEvalErrorf(UNBALANCED_PARENTHESES_ERROR, -1, "%d unopened parentheses", -depth)
	}
	return nil
}

func checkOperands(tokens []Token) error {
	numbers := array.Count(tokens, func(t Token) bool { return t.Type == NUMBER_TOKEN })
	ops := array.Count(tokens, func(t Token) bool { return t.Type == OPERATOR_TOKEN })

	if numbers-ops != 1 {
		return NewEvalErrorf(MALFORMED_EXPRESSION_ERROR, -1, "%d operands for %d operators", numbers, ops)
	}
	return nil
}
