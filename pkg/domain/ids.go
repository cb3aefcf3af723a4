package domain

import (
	"strings"
	"unicode"

	dErrors "nyaya/pkg/domain-errors"
)

const maxIDLength = 64

// CaseID identifies a case (FIR or CNR-style reference). Opaque to the
// compliance core beyond being a stable key.
type CaseID string

// ActorID identifies the officer, expert, supervisor or judge acting on a case.
type ActorID string

// ParseCaseID validates an external case identifier.
//
// Errors: CodeInvalidInput when empty, too long, or containing characters
// outside letters, digits, '-', '_', '/' and '.'.
func ParseCaseID(s string) (CaseID, error) {
	v, err := parseIdentifier("case id", s)
	return CaseID(v), err
}

// ParseActorID validates an external actor identifier.
func ParseActorID(s string) (ActorID, error) {
	v, err := parseIdentifier("actor id", s)
	return ActorID(v), err
}

func parseIdentifier(kind, s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, kind+" cannot be empty")
	}
	if len(s) > maxIDLength {
		return "", dErrors.New(dErrors.CodeInvalidInput, kind+" is too long")
	}
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			continue
		}
		switch r {
		case '-', '_', '/', '.':
			continue
		}
		return "", dErrors.New(dErrors.CodeInvalidInput, kind+" contains invalid characters")
	}
	return s, nil
}

func (c CaseID) String() string  { return string(c) }
func (a ActorID) String() string { return string(a) }

// IsNil reports whether the id is empty.
func (c CaseID) IsNil() bool  { return c == "" }
func (a ActorID) IsNil() bool { return a == "" }
