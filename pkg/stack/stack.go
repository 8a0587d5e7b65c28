package stack

import "errors"

var ErrEmpty = errors.New("stack is empty")

// Stack is a LIFO stack. The zero value is an empty stack ready to use.
type Stack[T any] struct {
	elems []T
}

func (s *Stack[T]) Push(value T) {
	s.elems = append(s.elems, value)
}

// Pop removes and returns the top element, or ErrEmpty.
func (s *Stack[T]) Pop() (T, error) {
	top, err := s.Peek()
	if err != nil {
		return top, err
	}
	s.elems = s.elems[:len(s.elems)-1]
	return top, nil
}

// Peek returns the top element without removing it, or ErrEmpty.
func (s *Stack[T]) Peek() (T, error) {
	if len(s.elems) == 0 {
		var zero T
		return zero, ErrEmpty
	}
	return s.elems[len(s.elems)-1], nil
}

func (s *Stack[T]) Len() int {
	return len(s.elems)
}
