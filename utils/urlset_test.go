package utils

import (
	"fmt"
	"testing"
	"time"
)

func TestOrderedSetAddAndContains(t *testing.T) {
	s := NewOrderedSet()

	if !s.Add("a") {
		t.Error("first Add must report new")
	}
	if s.Add("a") {
		t.Error("second Add of same value must report duplicate")
	}
	if !s.Contains("a") {
		t.Error("Contains must see an added value")
	}
	if s.Contains("b") {
		t.Error("Contains must not see an absent value")
	}
	if s.Size() != 1 {
		t.Errorf("Size() = %d; want 1", s.Size())
	}
}

func TestOrderedSetPreservesInsertionOrder(t *testing.T) {
	s := NewOrderedSet()
	for i := 0; i < 10; i++ {
		s.Add(fmt.Sprintf("url-%d", i))
	}
	s.Add("url-3") // duplicate must not reorder

	vals := s.Values()
	if len(vals) != 10 {
		t.Fatalf("Values() length = %d; want 10", len(vals))
	}
	for i, v := range vals {
		if want := fmt.Sprintf("url-%d", i); v != want {
			t.Errorf("Values()[%d] = %q; want %q", i, v, want)
		}
	}
}

func TestOrderedSetValuesIsACopy(t *testing.T) {
	s := NewOrderedSet()
	s.Add("a")
	s.Add("b")

	vals := s.Values()
	vals[0] = "mutated"

	if got := s.Values()[0]; got != "a" {
		t.Errorf("internal order mutated through Values(): %q", got)
	}
}

func TestRandomDelayDurationBounds(t *testing.T) {
	for i := 0; i < 100; i++ {
		d := RandomDelayDuration(2, 5)
		if d < 2*time.Second || d > 5*time.Second {
			t.Fatalf("duration %v outside [2s, 5s]", d)
		}
	}
	if d := RandomDelayDuration(3, 3); d != 3*time.Second {
		t.Errorf("equal bounds must return the bound, got %v", d)
	}
}
