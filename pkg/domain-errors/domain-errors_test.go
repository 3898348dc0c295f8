package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

type DomainErrorsSuite struct {
	suite.Suite
}

func TestDomainErrorsSuite(t *testing.T) {
	suite.Run(t, new(DomainErrorsSuite))
}

func (s *DomainErrorsSuite) TestErrorString() {
	s.Run("message wins over code", func() {
		err := &Error{Code: CodeNotFound, Message: "grant not found"}
		s.Equal("grant not found", err.Error())
	})

	s.Run("falls back to code", func() {
		err := &Error{Code: CodeInvalidState}
		s.Equal("invalid_state", err.Error())
	})
}

func (s *DomainErrorsSuite) TestIsMatchesByCode() {
	a := New(CodeNotAuthorized, "not the grant owner")
	b := New(CodeNotAuthorized, "doctor role required")
	s.True(errors.Is(a, b))
	s.False(errors.Is(a, New(CodeNotFound, "")))

	s.Run("matches through stdlib wrapping", func() {
		wrapped := fmt.Errorf("respond: %w", a)
		s.True(errors.Is(wrapped, &Error{Code: CodeNotAuthorized}))
	})
}

func (s *DomainErrorsSuite) TestWrap() {
	s.Run("preserves an existing domain code", func() {
		inner := New(CodeInvalidState, "grant is not pending")
		wrapped := Wrap(inner, CodeInternal, "respond to grant")
		s.True(HasCode(wrapped, CodeInvalidState))
		s.Equal("respond to grant", wrapped.Error())
	})

	s.Run("applies code to plain errors", func() {
		inner := errors.New("connection reset")
		wrapped := Wrap(inner, CodeInternal, "load grant")
		s.True(HasCode(wrapped, CodeInternal))
		s.ErrorIs(wrapped, inner)
	})
}

func (s *DomainErrorsSuite) TestCodeOf() {
	s.Equal(CodeNotFound, CodeOf(New(CodeNotFound, "patient not found")))
	s.Equal(CodeInternal, CodeOf(errors.New("boom")))
	s.Equal(CodeInternal, CodeOf(nil))
	s.False(HasCode(nil, CodeNotFound))
}

func (s *DomainErrorsSuite) TestNewf() {
	err := Newf(CodeInvalidInput, "duration %.1fh exceeds %dh", 30.0, 24)
	s.True(HasCode(err, CodeInvalidInput))
	s.Equal("duration 30.0h exceeds 24h", err.Error())
}
