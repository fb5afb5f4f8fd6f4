package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ozodbek-r/neoneats/internal/snapshot"
)

// fakeSnap is an in-memory snapshot.Store that records writes and can be
// told to fail.
type fakeSnap struct {
	mu      sync.Mutex
	data    map[string][]byte
	saves   int
	failing bool
}

func newFakeSnap() *fakeSnap {
	return &fakeSnap{data: map[string][]byte{}}
}

func (f *fakeSnap) Save(_ context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return errors.New("disk full")
	}
	f.data[key] = append([]byte(nil), value...)
	f.saves++
	return nil
}

func (f *fakeSnap) Load(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return nil, snapshot.ErrNotFound
	}
	return v, nil
}

func (f *fakeSnap) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
	return nil
}

func (f *fakeSnap) Close() error { return nil }

func (f *fakeSnap) get(key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok
}

func (f *fakeSnap) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saves
}

type counter struct {
	N int `json:"n"`
}

func TestUpdateNotifiesInSubscriptionOrder(t *testing.T) {
	s := New("test", counter{})
	defer s.Close()

	var order []string
	s.Subscribe(func(c counter) { order = append(order, "first") })
	s.Subscribe(func(c counter) { order = append(order, "second") })
	s.Subscribe(func(c counter) { order = append(order, "third") })

	if err := s.Update(func(c counter) counter { c.N++; return c }); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	want := []string{"first", "second", "third"}
	if len(order) != len(want) {
		t.Fatalf("got %d notifications, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("notification %d = %s, want %s", i, order[i], want[i])
		}
	}
}

func TestSubscriberSeesNewStateBeforeUpdateReturns(t *testing.T) {
	s := New("test", counter{})
	defer s.Close()

	var seen int
	s.Subscribe(func(c counter) { seen = c.N })

	s.Update(func(c counter) counter { c.N = 42; return c })

	if seen != 42 {
		t.Errorf("subscriber saw %d, want 42", seen)
	}
	if got := s.Get().N; got != 42 {
		t.Errorf("Get().N = %d, want 42", got)
	}
}

func TestUnsubscribe(t *testing.T) {
	s := New("test", counter{})
	defer s.Close()

	var calls int
	unsub := s.Subscribe(func(c counter) { calls++ })

	s.Update(func(c counter) counter { return c })
	unsub()
	unsub() // second call is harmless
	s.Update(func(c counter) counter { return c })

	if calls != 1 {
		t.Errorf("subscriber called %d times, want 1", calls)
	}
}

func TestUpdateAfterCloseReturnsErrClosed(t *testing.T) {
	s := New("test", counter{})

	var calls int
	s.Subscribe(func(c counter) { calls++ })

	s.Close()
	s.Close() // idempotent

	if err := s.Update(func(c counter) counter { return c }); !errors.Is(err, ErrClosed) {
		t.Errorf("Update after Close error = %v, want ErrClosed", err)
	}
	if calls != 0 {
		t.Errorf("subscriber called %d times after Close, want 0", calls)
	}
}

func TestWriteThroughPersistence(t *testing.T) {
	snap := newFakeSnap()
	s := New("test", counter{}, WithSnapshot[counter](snap, "counter-storage"))

	s.Update(func(c counter) counter { c.N = 7; return c })
	s.Close() // flushes pending writes

	blob, ok := snap.get("counter-storage")
	if !ok {
		t.Fatal("no snapshot written")
	}
	var got counter
	if err := json.Unmarshal(blob, &got); err != nil {
		t.Fatalf("snapshot not valid JSON: %v", err)
	}
	if got.N != 7 {
		t.Errorf("persisted N = %d, want 7", got.N)
	}
}

func TestRestoreFromSnapshot(t *testing.T) {
	snap := newFakeSnap()
	snap.data["counter-storage"] = []byte(`{"n":99}`)

	s := New("test", counter{N: 1}, WithSnapshot[counter](snap, "counter-storage"))
	defer s.Close()

	if got := s.Get().N; got != 99 {
		t.Errorf("restored N = %d, want 99", got)
	}
}

func TestRestoreCorruptSnapshotFallsBackToInitial(t *testing.T) {
	snap := newFakeSnap()
	snap.data["counter-storage"] = []byte(`{{{not json`)

	s := New("test", counter{N: 5}, WithSnapshot[counter](snap, "counter-storage"))
	defer s.Close()

	if got := s.Get().N; got != 5 {
		t.Errorf("N after corrupt restore = %d, want initial 5", got)
	}
}

func TestRestoreMissingSnapshotUsesInitial(t *testing.T) {
	snap := newFakeSnap()

	s := New("test", counter{N: 3}, WithSnapshot[counter](snap, "counter-storage"))
	defer s.Close()

	if got := s.Get().N; got != 3 {
		t.Errorf("N with empty snapshot = %d, want initial 3", got)
	}
}

func TestPersistFailureDoesNotAffectState(t *testing.T) {
	snap := newFakeSnap()
	snap.failing = true

	s := New("test", counter{}, WithSnapshot[counter](snap, "counter-storage"))

	if err := s.Update(func(c counter) counter { c.N = 11; return c }); err != nil {
		t.Fatalf("Update surfaced persistence error: %v", err)
	}
	if got := s.Get().N; got != 11 {
		t.Errorf("in-memory N = %d, want 11", got)
	}
	s.Close()
}

func TestDebounceCoalescesWrites(t *testing.T) {
	snap := newFakeSnap()
	s := New("test", counter{},
		WithSnapshot[counter](snap, "counter-storage"),
		WithDebounce[counter](50*time.Millisecond),
	)

	for i := 1; i <= 20; i++ {
		s.Update(func(c counter) counter { c.N = i; return c })
	}
	s.Close()

	if n := snap.saveCount(); n >= 20 {
		t.Errorf("debounced store wrote %d times for 20 mutations", n)
	}

	blob, ok := snap.get("counter-storage")
	if !ok {
		t.Fatal("no snapshot written")
	}
	var got counter
	if err := json.Unmarshal(blob, &got); err != nil {
		t.Fatalf("snapshot not valid JSON: %v", err)
	}
	if got.N != 20 {
		t.Errorf("final persisted N = %d, want 20 (last write wins)", got.N)
	}
}

func TestUpdateAndClearPersistedRemovesSnapshotEntry(t *testing.T) {
	snap := newFakeSnap()
	s := New("test", counter{}, WithSnapshot[counter](snap, "counter-storage"))
	defer s.Close()

	var seen int
	s.Subscribe(func(c counter) { seen = c.N })

	s.Update(func(c counter) counter { c.N = 1; return c })

	err := s.UpdateAndClearPersisted(context.Background(), func(c counter) counter {
		c.N = 0
		return c
	})
	if err != nil {
		t.Fatalf("UpdateAndClearPersisted failed: %v", err)
	}

	if _, ok := snap.get("counter-storage"); ok {
		t.Error("snapshot entry still present after clear")
	}
	if got := s.Get().N; got != 0 {
		t.Errorf("N after clear = %d, want 0", got)
	}
	if seen != 0 {
		t.Errorf("subscriber saw %d, want the cleared state", seen)
	}
}

func TestListenerMayReadStore(t *testing.T) {
	s := New("test", counter{})
	defer s.Close()

	var fromGet int
	s.Subscribe(func(c counter) { fromGet = s.Get().N })

	s.Update(func(c counter) counter { c.N = 8; return c })

	if fromGet != 8 {
		t.Errorf("listener Get().N = %d, want 8", fromGet)
	}
}
