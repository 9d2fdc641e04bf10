package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/jyokotori/neko-words/internal/entity"
	"github.com/jyokotori/neko-words/internal/repository"
)

// SessionState is the display state of a review session.
type SessionState int

const (
	SessionLoading SessionState = iota
	SessionActive
	SessionCompleted
	SessionEmpty
	SessionError
)

func (s SessionState) String() string {
	switch s {
	case SessionLoading:
		return "loading"
	case SessionActive:
		return "active"
	case SessionCompleted:
		return "completed"
	case SessionEmpty:
		return "empty"
	case SessionError:
		return "error"
	default:
		return "unknown"
	}
}

var (
	// ErrInvalidTransition is returned when an intent is not valid in the current state.
	ErrInvalidTransition = errors.New("invalid session transition")
	// ErrGradePending is returned when a grade is requested while another is awaiting its outcome.
	ErrGradePending = errors.New("grade submission pending")
	// ErrUndoPending is returned when a grade is requested while an undo is awaiting its outcome.
	ErrUndoPending = errors.New("undo pending")
)

// SessionView is a snapshot of the session for rendering.
type SessionView struct {
	State    SessionState
	Card     *entity.Card
	Position int
	Length   int
	Revealed bool
	CanUndo  bool
	Busy     bool
	Err      error
}

// ReviewSession walks a fixed queue of due cards. It tracks a single undo slot:
// only the most recently graded card can be reverted, and only once.
//
// Collaborator calls run without holding the lock, so intents issued while a
// call is outstanding see the pre-call state.
type ReviewSession struct {
	loader repository.ReviewQueueLoader
	grader repository.GradeSubmitter
	undoer repository.UndoRequester
	limit  int
	logger logrus.FieldLogger

	mu           sync.Mutex
	state        SessionState
	queue        []entity.Card
	position     int
	revealed     bool
	lastGradedID string
	loading      bool
	gradePending bool
	undoInFlight bool
	loadErr      error
}

// NewReviewSession creates a session in the Loading state.
func NewReviewSession(loader repository.ReviewQueueLoader, grader repository.GradeSubmitter, undoer repository.UndoRequester, limit int, logger logrus.FieldLogger) *ReviewSession {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ReviewSession{
		loader: loader,
		grader: grader,
		undoer: undoer,
		limit:  limit,
		logger: logger,
		state:  SessionLoading,
	}
}

// Load fetches the due queue. It is valid once, from Loading.
func (s *ReviewSession) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.state != SessionLoading || s.loading {
		s.mu.Unlock()
		return ErrInvalidTransition
	}
	s.loading = true
	s.mu.Unlock()

	items, err := s.loader.FetchDue(ctx, s.limit)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		failure := newFailure(FailureQueueLoad, err)
		s.state = SessionError
		s.loadErr = failure
		s.logger.WithError(err).Warn("load review queue")
		return failure
	}
	s.queue = lo.Map(items, func(item entity.DueReview, _ int) entity.Card {
		return item.Word.Card()
	})
	s.position = 0
	s.revealed = false
	if len(s.queue) == 0 {
		s.state = SessionEmpty
		return nil
	}
	s.state = SessionActive
	s.logger.WithField("cards", len(s.queue)).Debug("review queue loaded")
	return nil
}

// Reveal shows the answer of the current card. Repeated calls are harmless.
func (s *ReviewSession) Reveal() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != SessionActive {
		return ErrInvalidTransition
	}
	s.revealed = true
	return nil
}

// Grade submits g for the current card and advances on success. On failure
// the session stays put, answer still revealed, and a *Failure is returned.
func (s *ReviewSession) Grade(ctx context.Context, g entity.Grade) error {
	if !g.IsValid() {
		return entity.ErrInvalidGrade
	}
	s.mu.Lock()
	if s.state != SessionActive || !s.revealed {
		s.mu.Unlock()
		return ErrInvalidTransition
	}
	if s.gradePending {
		s.mu.Unlock()
		return ErrGradePending
	}
	if s.undoInFlight {
		s.mu.Unlock()
		return ErrUndoPending
	}
	cardID := s.queue[s.position].ID
	s.gradePending = true
	s.mu.Unlock()

	err := s.grader.Submit(ctx, cardID, g)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.gradePending = false
	if err != nil {
		s.logger.WithError(err).WithField("card_id", cardID).Warn("submit grade")
		return newFailure(FailureGradeSubmit, err)
	}
	s.lastGradedID = cardID
	s.revealed = false
	if s.position == len(s.queue)-1 {
		s.position = len(s.queue)
		s.state = SessionCompleted
		return nil
	}
	s.position++
	return nil
}

// Undo reverts the most recent successful grade. It is a no-op when there is
// nothing to undo or an undo or grade is already outstanding.
func (s *ReviewSession) Undo(ctx context.Context) error {
	s.mu.Lock()
	if s.undoInFlight || s.gradePending || s.lastGradedID == "" {
		s.mu.Unlock()
		return nil
	}
	cardID := s.lastGradedID
	s.undoInFlight = true
	s.mu.Unlock()

	err := s.undoer.Undo(ctx, cardID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.undoInFlight = false
	if err != nil {
		s.logger.WithError(err).WithField("card_id", cardID).Warn("undo grade")
		return newFailure(FailureUndo, err)
	}
	switch {
	case s.state == SessionCompleted:
		s.state = SessionActive
		s.position = len(s.queue) - 1
	case s.state == SessionActive && s.position > 0:
		s.position--
	}
	s.revealed = false
	s.lastGradedID = ""
	return nil
}

// Snapshot returns the current view of the session.
func (s *ReviewSession) Snapshot() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	view := SessionView{
		State:    s.state,
		Position: s.position,
		Length:   len(s.queue),
		Revealed: s.revealed,
		CanUndo:  s.lastGradedID != "" && !s.undoInFlight && !s.gradePending,
		Busy:     s.loading || s.gradePending || s.undoInFlight,
		Err:      s.loadErr,
	}
	if s.state == SessionActive {
		card := s.queue[s.position]
		view.Card = &card
	}
	return view
}
