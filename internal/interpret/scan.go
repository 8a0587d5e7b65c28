package interpret

import (
	"errors"
	"io"
	"iter"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ian-shakespeare/libcalc/pkg/array"
	"github.com/ian-shakespeare/libcalc/pkg/iterator"
)

type scanner struct {
	input   io.ReadSeeker
	offset  int
	scanned int
	options
}

func NewScanner(input io.ReadSeeker, opts ...Option) *scanner {
	return &scanner{
		input:   input,
		options: newOptions(opts),
	}
}

// NextToken returns the next token, or io.EOF once only whitespace remains. A
// '-' read as the very first token is folded into the number that follows it.
func (s *scanner) NextToken() (Token, error) {
	token, err := s.scanToken(s.scanned == 0)
	if err != nil {
		return Token{}, err
	}
	s.scanned++

	s.log.Debug("token", slog.String("type", token.Type.String()), slog.String("value", string(token.Value)), slog.Int("pos", token.Pos))
	return token, nil
}

// Tokens yields every token up to the end of input. It stops after the first
// error.
func (s *scanner) Tokens() iter.Seq2[Token, error] {
	return iterator.Until(s.tokens(), func(_ Token, err error) bool {
		return err != nil
	})
}

func (s *scanner) tokens() iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		for {
			token, err := s.NextToken()
			if errors.Is(err, io.EOF) {
				break
			}
			if !yield(token, err) {
				return
			}
		}
	}
}

// Position returns the byte offset of the next unread character.
func (s *scanner) Position() int {
	return s.offset
}

func (s *scanner) getNextCharacter() (byte, error) {
	b := make([]byte, 1)
	if _, err := s.input.Read(b); err != nil {
		return 0, err
	}
	s.offset++
	return b[0], nil
}

func (s *scanner) unreadCharacter() error {
	if _, err := s.input.Seek(-1, io.SeekCurrent); err != nil {
		return err
	}
	s.offset--
	return nil
}

func (s *scanner) scanToken(first bool) (Token, error) {
	for {
		b, err := s.getNextCharacter()
		if err != nil {
			return Token{}, err
		}
		pos := s.offset - 1

		switch b {
		case ' ', '\t':
			continue
		case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			return s.scanNumber(b, pos)
		case '(':
			return Token{Type: OPEN_PAREN_TOKEN, Value: []rune{'('}, Pos: pos}, nil
		case ')':
			return Token{Type: CLOSE_PAREN_TOKEN, Value: []rune{')'}, Pos: pos}, nil
		}

		if !array.Contains(operators, b) {
			return Token{}, NewEvalErrorf(INVALID_OPERATOR_ERROR, pos, "unexpected character %q", b)
		}
		token := newOperator(b, pos)
		if b == '-' && first {
			return s.foldSign(token)
		}
		return token, nil
	}
}

// foldSign merges a leading minus into the number after it. Only number
// literals fold: "-(2+3)" is rejected rather than losing its sign.
func (s *scanner) foldSign(minus Token) (Token, error) {
	next, err := s.scanToken(false)
	if errors.Is(err, io.EOF) {
		return Token{}, NewEvalError(MALFORMED_EXPRESSION_ERROR, minus.Pos, "leading minus without operand")
	}
	if err != nil {
		return Token{}, err
	}
	if next.Type != NUMBER_TOKEN {
		return Token{}, NewEvalErrorf(MALFORMED_EXPRESSION_ERROR, minus.Pos, "leading minus only applies to a number literal, got %q", string(next.Value))
	}

	next.Number = -next.Number
	next.Value = append([]rune{'-'}, next.Value...)
	next.Pos = minus.Pos
	return next, nil
}

func (s *scanner) scanNumber(startingChar byte, pos int) (Token, error) {
	word := []byte{startingChar}

	for {
		b, err := s.getNextCharacter()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Token{}, err
		}

		if (b < '0' || b > '9') && b != '.' && b != ',' {
			if err := s.unreadCharacter(); err != nil {
				return Token{}, err
			}
			break
		}
		word = append(word, b)
	}

	value, err := s.parseNumber(string(word), pos)
	if err != nil {
		return Token{}, err
	}
	return Token{Type: NUMBER_TOKEN, Value: []rune(string(word)), Pos: pos, Number: value}, nil
}

// parseNumber reads ',' as a decimal point. In loose mode everything from a
// second decimal point on is ignored. Literals out of float64 range become
// ±Inf in both modes.
func (s *scanner) parseNumber(word string, pos int) (float64, error) {
	normalized := strings.ReplaceAll(word, ",", ".")

	if s.strictNumbers {
		value, err := strconv.ParseFloat(normalized, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return 0, NewEvalErrorf(NUMBER_FORMAT_ERROR, pos, "invalid number %q", word)
		}
		return value, nil
	}

	if i := strings.IndexByte(normalized, '.'); i > -1 {
		if j := strings.IndexByte(normalized[i+1:], '.'); j > -1 {
			normalized = normalized[:i+1+j]
		}
	}
	value, err := strconv.ParseFloat(normalized, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		s.log.Warn("unparsable number defaults to zero", slog.String("value", word), slog.Int("pos", pos))
		return 0, nil
	}
	return value, nil
}
