package array_test

import (
	"testing"

	"github.com/ian-shakespeare/libcalc/pkg/array"
	"github.com/stretchr/testify/assert"
)

func TestArray(t *testing.T) {
	t.Parallel()

	isEven := func(n int) bool { return n%2 == 0 }

	t.Run("some", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, 1, array.Some([]int{1, 2, 4}, isEven))
		assert.Equal(t, -1, array.Some([]int{1, 3, 5}, isEven))
		assert.Equal(t, -1, array.Some(nil, isEven))
	})

	t.Run("contains", func(t *testing.T) {
		t.Parallel()

		assert.True(t, array.Contains([]byte("+-*/^"), '^'))
		assert.False(t, array.Contains([]byte("+-*/^"), '%'))
	})

	t.Run("count", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, 2, array.Count([]int{1, 2, 3, 4}, isEven))
		assert.Equal(t, 0, array.Count([]int{}, isEven))
	})

	t.Run("sum", func(t *testing.T) {
		t.Parallel()

		parens := []rune("(()())")
		depth := func(r rune) int {
			if r == '(' {
				return 1
			}
			return -1
		}
		assert.Equal(t, 0, array.Sum(parens, depth))
		assert.Equal(t, 1, array.Sum([]rune("(()"), depth))
	})
}
