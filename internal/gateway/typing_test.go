package gateway

import (
	"testing"
	"time"

	"github.com/Selva2621/plv/internal/model"
)

func TestTypingTracker_ExplicitStop(t *testing.T) {
	emitted := make(chan model.TypingEvent, 4)
	tracker := newTypingTracker(time.Hour, func(ev model.TypingEvent) {
		emitted <- ev
	})
	defer tracker.reset()

	tracker.observe(model.TypingEvent{UserID: "u2", IsTyping: true})
	if got := tracker.typingUsers(); len(got) != 1 || got[0] != "u2" {
		t.Errorf("typingUsers = %v, want [u2]", got)
	}

	tracker.observe(model.TypingEvent{UserID: "u2", IsTyping: false})
	if got := tracker.typingUsers(); len(got) != 0 {
		t.Errorf("typingUsers = %v, want empty after explicit stop", got)
	}

	// An explicit stop must not synthesize an expiry event.
	select {
	case ev := <-emitted:
		t.Errorf("unexpected emission %+v", ev)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestTypingTracker_RenewedSignalExtendsTimer(t *testing.T) {
	emitted := make(chan model.TypingEvent, 4)
	tracker := newTypingTracker(40*time.Millisecond, func(ev model.TypingEvent) {
		emitted <- ev
	})
	defer tracker.reset()

	tracker.observe(model.TypingEvent{UserID: "u2", IsTyping: true})
	time.Sleep(25 * time.Millisecond)
	tracker.observe(model.TypingEvent{UserID: "u2", IsTyping: true})
	time.Sleep(25 * time.Millisecond)

	// 50ms after the first signal but only 25ms after the renewal: still armed.
	if got := tracker.typingUsers(); len(got) != 1 {
		t.Errorf("typingUsers = %v, want [u2] (renewal extends expiry)", got)
	}

	select {
	case ev := <-emitted:
		if ev.IsTyping {
			t.Errorf("expiry event = %+v, want isTyping=false", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("renewed indicator never expired")
	}
}

func TestTypingTracker_ResetStopsWithoutEmitting(t *testing.T) {
	emitted := make(chan model.TypingEvent, 4)
	tracker := newTypingTracker(10*time.Millisecond, func(ev model.TypingEvent) {
		emitted <- ev
	})

	tracker.observe(model.TypingEvent{UserID: "u2", IsTyping: true})
	tracker.observe(model.TypingEvent{UserID: "u3", IsTyping: true})
	tracker.reset()

	if got := tracker.typingUsers(); len(got) != 0 {
		t.Errorf("typingUsers = %v, want empty after reset", got)
	}

	select {
	case ev := <-emitted:
		t.Errorf("unexpected emission after reset: %+v", ev)
	case <-time.After(30 * time.Millisecond):
	}
}
