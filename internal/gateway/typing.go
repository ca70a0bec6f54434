package gateway

import (
	"sync"
	"time"

	"github.com/Selva2621/plv/internal/model"
)

// typingTracker expires typing indicators client-side. A typing=true signal
// arms a timer per user; expiry re-emits typing=false so subscribers never
// render a stuck indicator when the server's clear signal is lost.
type typingTracker struct {
	expiry time.Duration
	emit   func(model.TypingEvent)

	mu     sync.Mutex
	timers map[string]*time.Timer
}

func newTypingTracker(expiry time.Duration, emit func(model.TypingEvent)) *typingTracker {
	return &typingTracker{
		expiry: expiry,
		emit:   emit,
		timers: make(map[string]*time.Timer),
	}
}

// observe processes one typing signal from the gateway.
func (t *typingTracker) observe(ev model.TypingEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if timer, ok := t.timers[ev.UserID]; ok {
		timer.Stop()
		delete(t.timers, ev.UserID)
	}

	if !ev.IsTyping {
		return
	}

	userID := ev.UserID
	t.timers[userID] = time.AfterFunc(t.expiry, func() {
		t.mu.Lock()
		delete(t.timers, userID)
		t.mu.Unlock()

		t.emit(model.TypingEvent{UserID: userID, IsTyping: false})
	})
}

// typingUsers returns the users whose indicators are currently armed.
func (t *typingTracker) typingUsers() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	users := make([]string, 0, len(t.timers))
	for id := range t.timers {
		users = append(users, id)
	}
	return users
}

// reset stops all timers without emitting, for disconnect teardown.
func (t *typingTracker) reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for id, timer := range t.timers {
		timer.Stop()
		delete(t.timers, id)
	}
}
