package usecase

import (
	"fmt"
	"sync"

	"github.com/jyokotori/neko-words/internal/entity"
)

// PronunciationCue decides when a card's pronunciation should autoplay.
// Nothing plays until the user has interacted once; after that the cue fires
// each time a different card is displayed.
type PronunciationCue struct {
	mu         sync.Mutex
	interacted bool
	lastKey    string
}

// Interact latches the interacted flag. It is never cleared.
func (c *PronunciationCue) Interact() {
	c.mu.Lock()
	c.interacted = true
	c.mu.Unlock()
}

// Interacted reports whether Interact has been called.
func (c *PronunciationCue) Interacted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.interacted
}

// Next returns the card to play for view, if any.
func (c *PronunciationCue) Next(view SessionView) (entity.Card, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if view.State != SessionActive || view.Card == nil {
		c.lastKey = ""
		return entity.Card{}, false
	}
	key := displayKey(view)
	if !c.interacted || key == c.lastKey {
		return entity.Card{}, false
	}
	c.lastKey = key
	return *view.Card, true
}

// Played records a manual play of the displayed card so Next does not repeat it.
func (c *PronunciationCue) Played(view SessionView) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.interacted = true
	if view.State == SessionActive && view.Card != nil {
		c.lastKey = displayKey(view)
	}
}

func displayKey(view SessionView) string {
	return fmt.Sprintf("%d:%s", view.Position, view.Card.ID)
}
