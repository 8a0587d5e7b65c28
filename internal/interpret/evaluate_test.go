package interpret_test

import (
	"math"
	"testing"

	"github.com/ian-shakespeare/libcalc/internal/interpret"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func num(v float64) interpret.Token {
	return interpret.Token{Type: interpret.NUMBER_TOKEN, Number: v}
}

func op(symbol rune) interpret.Token {
	return interpret.Token{Type: interpret.OPERATOR_TOKEN, Value: []rune{symbol}}
}

func TestEvaluatePostfix(t *testing.T) {
	t.Parallel()

	valid := []struct {
		name    string
		postfix []interpret.Token
		want    float64
	}{
		{"single", []interpret.Token{num(4)}, 4},
		{"add", []interpret.Token{num(1), num(2), op('+')}, 3},
		{"subtractOrder", []interpret.Token{num(10), num(4), op('-')}, 6},
		{"divideOrder", []interpret.Token{num(1), num(4), op('/')}, 0.25},
		{"powerOrder", []interpret.Token{num(2), num(10), op('^')}, 1024},
		{"chain", []interpret.Token{num(3), num(4), num(2), op('*'), op('+')}, 11},
		{"fractionalPower", []interpret.Token{num(9), num(0.5), op('^')}, 3},
	}

	for _, input := range valid {
		t.Run(input.name, func(t *testing.T) {
			t.Parallel()

			got, err := interpret.EvaluatePostfix(input.postfix)
			require.NoError(t, err)
			assert.Equal(t, input.want, got)
		})
	}

	t.Run("divideByZero", func(t *testing.T) {
		t.Parallel()

		got, err := interpret.EvaluatePostfix([]interpret.Token{num(1), num(0), op('/')})
		require.NoError(t, err)
		assert.True(t, math.IsInf(got, 1))

		got, err = interpret.EvaluatePostfix([]interpret.Token{num(-1), num(0), op('/')})
		require.NoError(t, err)
		assert.True(t, math.IsInf(got, -1))
	})

	t.Run("invalidPowerDomain", func(t *testing.T) {
		t.Parallel()

		got, err := interpret.EvaluatePostfix([]interpret.Token{num(-1), num(0.5), op('^')})
		require.NoError(t, err)
		assert.True(t, math.IsNaN(got))
	})

	malformed := []struct {
		name    string
		postfix []interpret.Token
	}{
		{"empty", nil},
		{"missingOperand", []interpret.Token{num(1), op('+')}},
		{"missingOperands", []interpret.Token{op('*')}},
		{"leftoverValues", []interpret.Token{num(1), num(2)}},
		{"parenthesis", []interpret.Token{num(1), {Type: interpret.OPEN_PAREN_TOKEN, Value: []rune("(")}}},
	}

	for _, input := range malformed {
		t.Run(input.name, func(t *testing.T) {
			t.Parallel()

			_, err := interpret.EvaluatePostfix(input.postfix)
			assert.ErrorIs(t, err, interpret.ErrMalformedExpression)
		})
	}

	t.Run("unknownOperator", func(t *testing.T) {
		t.Parallel()

		_, err := interpret.EvaluatePostfix([]interpret.Token{num(1), num(2), op('%')})
		assert.ErrorIs(t, err, interpret.ErrInvalidOperator)
	})
}
