package usecase

import (
	"errors"
	"fmt"

	"github.com/jyokotori/neko-words/internal/entity"
)

// FailureKind classifies collaborator errors surfaced to the presentation layer.
type FailureKind int

const (
	FailureUnknown FailureKind = iota
	FailureQueueLoad
	FailureGradeSubmit
	FailureUndo
	FailureDuplicateWord
)

func (k FailureKind) String() string {
	switch k {
	case FailureQueueLoad:
		return "queue_load"
	case FailureGradeSubmit:
		return "grade_submit"
	case FailureUndo:
		return "undo"
	case FailureDuplicateWord:
		return "duplicate_word"
	default:
		return "unknown"
	}
}

// Failure wraps a collaborator error with its kind.
type Failure struct {
	Kind FailureKind
	Err  error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return f.Kind.String()
	}
	return fmt.Sprintf("%s: %v", f.Kind, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

func newFailure(kind FailureKind, err error) *Failure {
	return &Failure{Kind: kind, Err: err}
}

// FailureKindOf reports the kind carried by err. Errors that are not a
// *Failure are FailureUnknown, except duplicate-word sentinels.
func FailureKindOf(err error) FailureKind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	if errors.Is(err, entity.ErrDuplicateWord) {
		return FailureDuplicateWord
	}
	return FailureUnknown
}

// FailureMessage renders err as a short inline message.
func FailureMessage(err error) string {
	if err == nil {
		return ""
	}
	switch FailureKindOf(err) {
	case FailureQueueLoad:
		return "Could not load reviews. Restart the session to try again."
	case FailureGradeSubmit:
		return "Failed to save the grade. Try again."
	case FailureUndo:
		return "Undo failed."
	case FailureDuplicateWord:
		return "Word already exists (review reset!)"
	default:
		return fmt.Sprintf("Something went wrong: %v", err)
	}
}
