package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jyokotori/neko-words/internal/entity"
	"github.com/jyokotori/neko-words/internal/usecase"
)

// Speaker plays the pronunciation of a headword without blocking.
type Speaker interface {
	Play(word string)
}

type loadedMsg struct{ err error }

type gradedMsg struct{ err error }

type undoneMsg struct{ err error }

var gradeKeys = map[string]entity.Grade{
	"1": entity.GradeAgain,
	"2": entity.GradeHard,
	"3": entity.GradeGood,
	"4": entity.GradeEasy,
}

// ReviewModel renders a ReviewSession and turns key presses into intents.
type ReviewModel struct {
	ctx     context.Context
	session *usecase.ReviewSession
	cue     *usecase.PronunciationCue
	speaker Speaker
	flash   string
}

func NewReviewModel(ctx context.Context, session *usecase.ReviewSession, speaker Speaker) *ReviewModel {
	return &ReviewModel{
		ctx:     ctx,
		session: session,
		cue:     &usecase.PronunciationCue{},
		speaker: speaker,
	}
}

func (m *ReviewModel) Init() tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{err: m.session.Load(m.ctx)}
	}
}

func (m *ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		m.autoplay()
	case gradedMsg:
		m.setFlash(msg.err)
		m.autoplay()
	case undoneMsg:
		m.setFlash(msg.err)
		m.autoplay()
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *ReviewModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "ctrl+z", "u":
		if !m.session.Snapshot().CanUndo {
			return m, nil
		}
		m.flash = ""
		return m, m.undo()
	}

	view := m.session.Snapshot()
	if view.State != usecase.SessionActive {
		return m, nil
	}
	switch {
	case key == " " || key == "enter":
		if !view.Revealed {
			_ = m.session.Reveal()
			m.cue.Interact()
			m.autoplay()
		}
	case key == "p":
		m.speak(view.Card.Headword)
		m.cue.Played(view)
	default:
		if g, ok := gradeKeys[key]; ok && view.Revealed && !view.Busy {
			m.flash = ""
			return m, m.grade(g)
		}
	}
	return m, nil
}

func (m *ReviewModel) grade(g entity.Grade) tea.Cmd {
	return func() tea.Msg {
		return gradedMsg{err: m.session.Grade(m.ctx, g)}
	}
}

func (m *ReviewModel) undo() tea.Cmd {
	return func() tea.Msg {
		return undoneMsg{err: m.session.Undo(m.ctx)}
	}
}

func (m *ReviewModel) setFlash(err error) {
	switch {
	case err == nil:
		m.flash = ""
	case errors.Is(err, usecase.ErrGradePending), errors.Is(err, usecase.ErrUndoPending),
		errors.Is(err, usecase.ErrInvalidTransition):
	default:
		m.flash = usecase.FailureMessage(err)
	}
}

func (m *ReviewModel) autoplay() {
	if card, ok := m.cue.Next(m.session.Snapshot()); ok {
		m.speak(card.Headword)
	}
}

func (m *ReviewModel) speak(word string) {
	if m.speaker != nil {
		m.speaker.Play(word)
	}
}

func (m *ReviewModel) View() string {
	view := m.session.Snapshot()
	var b strings.Builder

	switch view.State {
	case usecase.SessionLoading:
		b.WriteString(styleSubtle.Render("Loading reviews..."))
	case usecase.SessionError:
		b.WriteString(styleError.Render(usecase.FailureMessage(view.Err)))
		b.WriteString("\n\n" + styleSubtle.Render("q: quit"))
	case usecase.SessionEmpty:
		b.WriteString(styleDone.Render("No reviews due. Nice work!"))
		b.WriteString("\n\n" + styleSubtle.Render("q: quit"))
	case usecase.SessionCompleted:
		b.WriteString(styleDone.Render(fmt.Sprintf("All done! You reviewed %d cards.", view.Length)))
		b.WriteString("\n\n" + styleSubtle.Render(hints(view)))
	case usecase.SessionActive:
		b.WriteString(styleHeader.Render(fmt.Sprintf("Card %d / %d", view.Position+1, view.Length)))
		b.WriteString("\n")
		b.WriteString(m.renderCard(view))
		b.WriteString("\n" + styleSubtle.Render(hints(view)))
	}

	if m.flash != "" {
		b.WriteString("\n" + styleError.Render(m.flash))
	}
	return b.String() + "\n"
}

func (m *ReviewModel) renderCard(view usecase.SessionView) string {
	card := view.Card
	lines := []string{styleHeadword.Render(card.Headword)}
	if !view.Revealed {
		if s := card.FirstSentence(); s != "" {
			lines = append(lines, "", styleSentence.Render(s))
		}
		return styleCard.Render(strings.Join(lines, "\n"))
	}
	lines = append(lines, "", styleTranslation.Render(card.Translation))
	for _, ex := range card.Examples {
		lines = append(lines, "", "- "+ex.Sentence)
		if ex.Translation != "" {
			lines = append(lines, "  "+styleSubtle.Render(ex.Translation))
		}
	}
	return styleCard.Render(strings.Join(lines, "\n"))
}

func hints(view usecase.SessionView) string {
	var parts []string
	switch {
	case view.State == usecase.SessionActive && !view.Revealed:
		parts = append(parts, "space: show answer", "p: play")
	case view.State == usecase.SessionActive:
		parts = append(parts, "1: again", "2: hard", "3: good", "4: easy", "p: play")
	}
	if view.CanUndo {
		parts = append(parts, "u: undo")
	}
	if view.Busy {
		parts = append(parts, "saving...")
	}
	parts = append(parts, "q: quit")
	return strings.Join(parts, "  ")
}
