package interpret

import "fmt"

type ErrorKind int

const (
	UNKNOWN_ERROR                ErrorKind = 0
	INVALID_OPERATOR_ERROR       ErrorKind = 1
	UNBALANCED_PARENTHESES_ERROR ErrorKind = 2
	MALFORMED_EXPRESSION_ERROR   ErrorKind = 3
	NUMBER_FORMAT_ERROR          ErrorKind = 4
)

func (k ErrorKind) String() string {
	switch k {
	case INVALID_OPERATOR_ERROR:
		return "wrong operation sign"
	case UNBALANCED_PARENTHESES_ERROR:
		return "wrong number of parentheses"
	case MALFORMED_EXPRESSION_ERROR:
		return "wrong expression"
	case NUMBER_FORMAT_ERROR:
		return "wrong number format"
	default:
		return "unknown error"
	}
}

// Sentinels for errors.Is. Each matches any *EvalError of the same kind.
var (
	ErrInvalidOperator       = &EvalError{Kind: INVALID_OPERATOR_ERROR}
	ErrUnbalancedParentheses = &EvalError{Kind: UNBALANCED_PARENTHESES_ERROR}
	ErrMalformedExpression   = &EvalError{Kind: MALFORMED_EXPRESSION_ERROR}
	ErrNumberFormat          = &EvalError{Kind: NUMBER_FORMAT_ERROR}
)

// EvalError reports why an expression could not be evaluated. Pos is the byte
// offset of the offending token, or -1 when the error concerns the whole
// expression.
type EvalError struct {
	Kind    ErrorKind
	Pos     int
	Message string
}

func NewEvalError(kind ErrorKind, pos int, message string) *EvalError {
	return &EvalError{
		Kind:    kind,
		Pos:     pos,
		Message: message,
	}
}

func NewEvalErrorf(kind ErrorKind, pos int, format string, a ...any) *EvalError {
	return NewEvalError(kind, pos, fmt.Sprintf(format, a...))
}

func (e *EvalError) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	if e.Pos < 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s at offset %d", e.Kind, e.Message, e.Pos)
}

func (e *EvalError) Is(target error) bool {
	t, ok := target.(*EvalError)
	return ok && t.Kind == e.Kind
}
