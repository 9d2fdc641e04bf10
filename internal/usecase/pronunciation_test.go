package usecase

import (
	"context"
	"testing"

	"github.com/jyokotori/neko-words/internal/entity"
)

func TestPronunciationCueWaitsForInteraction(t *testing.T) {
	s := newLoadedSession(t, &fakeGrader{}, &fakeUndoer{}, "a", "b")
	var cue PronunciationCue

	if _, ok := cue.Next(s.Snapshot()); ok {
		t.Fatalf("cue must not fire before the first interaction")
	}

	if err := s.Reveal(); err != nil {
		t.Fatalf("reveal: %v", err)
	}
	cue.Interact()
	card, ok := cue.Next(s.Snapshot())
	if !ok || card.ID != "a" {
		t.Fatalf("expected cue for a after interaction, got %v %+v", ok, card)
	}
	if _, ok := cue.Next(s.Snapshot()); ok {
		t.Fatalf("cue must not repeat for the same card")
	}

	if err := s.Grade(context.Background(), entity.GradeGood); err != nil {
		t.Fatalf("grade: %v", err)
	}
	if card, ok := cue.Next(s.Snapshot()); !ok || card.ID != "b" {
		t.Fatalf("expected cue for b after advance, got %v %+v", ok, card)
	}
}

func TestPronunciationCueManualPlaySuppressesRepeat(t *testing.T) {
	s := newLoadedSession(t, &fakeGrader{}, &fakeUndoer{}, "a")
	var cue PronunciationCue

	cue.Played(s.Snapshot())
	if !cue.Interacted() {
		t.Fatalf("manual play should count as interaction")
	}
	if _, ok := cue.Next(s.Snapshot()); ok {
		t.Fatalf("cue must not replay a card that was just played manually")
	}
}

func TestPronunciationCueRefiresAfterUndoFromCompleted(t *testing.T) {
	s := newLoadedSession(t, &fakeGrader{}, &fakeUndoer{}, "a")
	var cue PronunciationCue
	cue.Interact()
	if _, ok := cue.Next(s.Snapshot()); !ok {
		t.Fatalf("expected initial cue")
	}
	if err := revealAndGrade(t, s, entity.GradeGood); err != nil {
		t.Fatalf("grade: %v", err)
	}
	if _, ok := cue.Next(s.Snapshot()); ok {
		t.Fatalf("completed view has no card to play")
	}
	if err := s.Undo(context.Background()); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if card, ok := cue.Next(s.Snapshot()); !ok || card.ID != "a" {
		t.Fatalf("expected cue for a after undo, got %v %+v", ok, card)
	}
}
