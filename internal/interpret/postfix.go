package interpret

import (
	"log/slog"

	"github.com/ian-shakespeare/libcalc/pkg/stack"
)

// ToPostfix reorders an infix sequence into reverse Polish notation using the
// shunting-yard algorithm. A close parenthesis with no open parenthesis on the
// operator stack, or an open parenthesis left over at the end, is a
// MALFORMED_EXPRESSION_ERROR.
func ToPostfix(infix []Token, opts ...Option) ([]Token, error) {
	o := newOptions(opts)

	var pending stack.Stack[Token]
	postfix := make([]Token, 0, len(infix))

	emit := func(t Token) {
		o.log.Debug("push", slog.String("token", t.String()))
		postfix = append(postfix, t)
	}

	for _, token := range infix {
		switch token.Type {
		case NUMBER_TOKEN:
			emit(token)
		case OPERATOR_TOKEN:
			for {
				top, err := pending.Peek()
				if err != nil || !o.popsBefore(top, token) {
					break
				}
				_, _ = pending.Pop()
				emit(top)
			}
			pending.Push(token)
		case OPEN_PAREN_TOKEN:
			pending.Push(token)
		case CLOSE_PAREN_TOKEN:
			for {
				top, err := pending.Pop()
				if err != nil {
					return nil, NewEvalError(MALFORMED_EXPRESSION_ERROR, token.Pos, "close parenthesis before its open parenthesis")
				}
				if top.Type == OPEN_PAREN_TOKEN {
					break
				}
				emit(top)
			}
		default:
			return nil, NewEvalErrorf(MALFORMED_EXPRESSION_ERROR, token.Pos, "unexpected %s token", token.Type)
		}
	}

	for pending.Len() > 0 {
		top, _ := pending.Pop()
		if top.Type == OPEN_PAREN_TOKEN {
			return nil, NewEvalError(MALFORMED_EXPRESSION_ERROR, top.Pos, "open parenthesis is never closed")
		}
		emit(top)
	}

	return postfix, nil
}

// popsBefore reports whether top, sitting on the operator stack, goes to the
// output before incoming is pushed.
func (o options) popsBefore(top, incoming Token) bool {
	if top.Type != OPERATOR_TOKEN {
		return false
	}
	if o.rightAssocPow && incoming.Symbol() == '^' {
		return top.Precedence > incoming.Precedence
	}
	return top.Precedence >= incoming.Precedence
}
