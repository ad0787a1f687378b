package web

import (
	"errors"
	"testing"
	"time"

	"psp.com/xabiren-quiz/backend/internal/quiz"
)

func TestStoreLifecycle(t *testing.T) {
	st := NewStore(time.Hour)
	sess, _ := quiz.NewSession(testBank(2), nil)
	id := st.Add(sess)
	if st.Len() != 1 {
		t.Fatalf("Len = %d", st.Len())
	}

	var got *quiz.Session
	if err := st.With(id, func(e *Entry) error { got = e.Session; return nil }); err != nil {
		t.Fatal(err)
	}
	if got != sess {
		t.Fatal("With returned a different session")
	}

	want := errors.New("boom")
	if err := st.With(id, func(*Entry) error { return want }); err != want {
		t.Fatalf("With should pass fn errors through, got %v", err)
	}

	if !st.Delete(id) || st.Delete(id) {
		t.Fatal("Delete should succeed exactly once")
	}
	if err := st.With(id, func(*Entry) error { return nil }); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestStoreSweep(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	st := NewStore(time.Hour)
	st.now = func() time.Time { return now }

	sess, _ := quiz.NewSession(testBank(1), nil)
	stale := st.Add(sess)
	now = now.Add(30 * time.Minute)
	fresh := st.Add(sess)

	now = now.Add(45 * time.Minute)
	if n := st.Sweep(); n != 1 {
		t.Fatalf("Sweep removed %d, want 1", n)
	}
	if err := st.With(stale, func(*Entry) error { return nil }); !errors.Is(err, ErrSessionNotFound) {
		t.Fatal("stale session survived the sweep")
	}

	// touching a session keeps it alive
	now = now.Add(50 * time.Minute)
	if err := st.With(fresh, func(*Entry) error { return nil }); err != nil {
		t.Fatal(err)
	}
	now = now.Add(30 * time.Minute)
	if n := st.Sweep(); n != 0 {
		t.Fatalf("Sweep removed %d recently used sessions", n)
	}
}
