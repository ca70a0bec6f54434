package event

import (
	"testing"
)

func TestRegistry_OnEmit(t *testing.T) {
	r := NewRegistry(nil)

	var got []any
	r.On("new_message", func(data any) {
		got = append(got, data)
	})

	r.Emit("new_message", "hello")
	r.Emit("new_message", "world")

	if len(got) != 2 {
		t.Fatalf("listener called %d times, want 2", len(got))
	}
	if got[0] != "hello" || got[1] != "world" {
		t.Errorf("received %v, want [hello world]", got)
	}
}

func TestRegistry_MultipleListeners(t *testing.T) {
	r := NewRegistry(nil)

	calledA, calledB := 0, 0
	r.On("user_typing", func(any) { calledA++ })
	r.On("user_typing", func(any) { calledB++ })

	r.Emit("user_typing", nil)

	if calledA != 1 || calledB != 1 {
		t.Errorf("calledA=%d calledB=%d, want 1 and 1", calledA, calledB)
	}
}

func TestRegistry_Off(t *testing.T) {
	r := NewRegistry(nil)

	calledA, calledB := 0, 0
	idA := r.On("new_message", func(any) { calledA++ })
	r.On("new_message", func(any) { calledB++ })

	r.Off("new_message", idA)
	r.Emit("new_message", nil)

	if calledA != 0 {
		t.Errorf("removed listener called %d times, want 0", calledA)
	}
	if calledB != 1 {
		t.Errorf("remaining listener called %d times, want 1", calledB)
	}
}

func TestRegistry_OffDropsEmptyEvent(t *testing.T) {
	r := NewRegistry(nil)

	id := r.On("room_joined", func(any) {})
	r.Off("room_joined", id)

	if n := r.ListenerCount("room_joined"); n != 0 {
		t.Errorf("ListenerCount = %d, want 0", n)
	}
	if len(r.sets) != 0 {
		t.Errorf("event key not removed, %d sets remain", len(r.sets))
	}
}

func TestRegistry_OffUnknownID(t *testing.T) {
	r := NewRegistry(nil)

	// Must not panic or affect other registrations.
	r.Off("missing", 42)

	called := 0
	r.On("missing", func(any) { called++ })
	r.Off("missing", 999)
	r.Emit("missing", nil)

	if called != 1 {
		t.Errorf("listener called %d times, want 1", called)
	}
}

func TestRegistry_PanickingListenerDoesNotAbortDispatch(t *testing.T) {
	r := NewRegistry(nil)

	calledB := 0
	r.On("new_message", func(any) { panic("listener A blew up") })
	r.On("new_message", func(any) { calledB++ })

	r.Emit("new_message", "payload")

	if calledB != 1 {
		t.Errorf("listener B called %d times, want 1", calledB)
	}
}

func TestRegistry_OffDuringDispatchAffectsNextEmitOnly(t *testing.T) {
	r := NewRegistry(nil)

	calledB := 0
	var idB ListenerID
	r.On("new_message", func(any) {
		r.Off("new_message", idB)
	})
	idB = r.On("new_message", func(any) { calledB++ })

	// The snapshot means B may or may not see the first emit depending on
	// map order, but it must never see the second.
	r.Emit("new_message", nil)
	first := calledB

	r.Emit("new_message", nil)
	if calledB != first {
		t.Errorf("removed listener received a later emit: first=%d now=%d", first, calledB)
	}
}

func TestRegistry_SameListenerOnMultipleEvents(t *testing.T) {
	r := NewRegistry(nil)

	called := 0
	fn := func(any) { called++ }
	r.On("user_online", fn)
	idOffline := r.On("user_offline", fn)

	r.Off("user_offline", idOffline)

	r.Emit("user_online", nil)
	r.Emit("user_offline", nil)

	if called != 1 {
		t.Errorf("listener called %d times, want 1 (user_online only)", called)
	}
}
