package entity

import (
	"encoding"
	"fmt"
	"strings"
)

// Grade is the recall quality reported for a reviewed card.
type Grade string

const (
	GradeAgain Grade = "again" // Failed to recall.
	GradeHard  Grade = "hard"  // Recalled with significant difficulty.
	GradeGood  Grade = "good"  // Recalled with some effort.
	GradeEasy  Grade = "easy"  // Recalled effortlessly.
)

// Grades lists every valid grade from worst to best.
var Grades = []Grade{GradeAgain, GradeHard, GradeGood, GradeEasy}

var (
	_ fmt.Stringer             = Grade("")
	_ encoding.TextMarshaler   = Grade("")
	_ encoding.TextUnmarshaler = (*Grade)(nil)
)

// IsValid reports whether g is one of again, hard, good or easy.
func (g Grade) IsValid() bool {
	switch g {
	case GradeAgain, GradeHard, GradeGood, GradeEasy:
		return true
	default:
		return false
	}
}

// IsLapse reports whether g counts as a failed recall.
func (g Grade) IsLapse() bool {
	return g == GradeAgain || g == GradeHard
}

func (g Grade) String() string {
	return string(g)
}

// ParseGrade converts user input ("Good", " easy ") into a Grade.
func ParseGrade(s string) (Grade, error) {
	g := Grade(strings.ToLower(strings.TrimSpace(s)))
	if !g.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidGrade, s)
	}
	return g, nil
}

// MarshalText implements encoding.TextMarshaler.
func (g Grade) MarshalText() ([]byte, error) {
	if !g.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidGrade, string(g))
	}
	return []byte(g), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (g *Grade) UnmarshalText(text []byte) error {
	v, err := ParseGrade(string(text))
	if err != nil {
		return err
	}
	*g = v
	return nil
}
