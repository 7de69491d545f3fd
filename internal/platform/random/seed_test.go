package random

import "testing"

func TestNewSeedVaries(t *testing.T) {
	first, err := NewSeed()
	if err != nil {
		t.Fatalf("NewSeed() error = %v", err)
	}
	for i := 0; i < 8; i++ {
		next, err := NewSeed()
		if err != nil {
			t.Fatalf("NewSeed() error = %v", err)
		}
		if next != first {
			return
		}
	}
	t.Fatal("expected seeds to vary")
}
