package interpret

import (
	"strconv"
	"strings"
)

type TokenType int

const (
	UNKNOWN_TOKEN     TokenType = 0
	NUMBER_TOKEN      TokenType = 1
	OPERATOR_TOKEN    TokenType = 2
	OPEN_PAREN_TOKEN  TokenType = 3
	CLOSE_PAREN_TOKEN TokenType = 4
)

func (t TokenType) String() string {
	switch t {
	case NUMBER_TOKEN:
		return "number"
	case OPERATOR_TOKEN:
		return "operator"
	case OPEN_PAREN_TOKEN:
		return "open"
	case CLOSE_PAREN_TOKEN:
		return "close"
	default:
		return "unknown"
	}
}

// Operator precedence ranks. A higher rank binds tighter.
const (
	ADDITIVE_PRECEDENCE       = 1
	MULTIPLICATIVE_PRECEDENCE = 2
	POWER_PRECEDENCE          = 3
)

var operators = []byte{'+', '-', '*', '/', '^'}

// Token is a single lexeme of an expression. Value holds the source text, Pos
// the byte offset where it starts. Number is only meaningful for
// NUMBER_TOKEN and Precedence only for OPERATOR_TOKEN.
type Token struct {
	Type       TokenType
	Value      []rune
	Pos        int
	Number     float64
	Precedence int
}

func newOperator(symbol byte, pos int) Token {
	t := Token{Type: OPERATOR_TOKEN, Value: []rune{rune(symbol)}, Pos: pos}
	switch symbol {
	case '+', '-':
		t.Precedence = ADDITIVE_PRECEDENCE
	case '*', '/':
		t.Precedence = MULTIPLICATIVE_PRECEDENCE
	case '^':
		t.Precedence = POWER_PRECEDENCE
	}
	return t
}

// Symbol returns the first rune of the token's source text.
func (t Token) Symbol() rune {
	if len(t.Value) == 0 {
		return 0
	}
	return t.Value[0]
}

func (t Token) String() string {
	if t.Type == NUMBER_TOKEN {
		return strconv.FormatFloat(t.Number, 'g', -1, 64)
	}
	return string(t.Value)
}

// FormatTokens joins tokens with single spaces, e.g. "3 4 2 * +".
func FormatTokens(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}
