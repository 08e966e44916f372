package engine

import (
	"testing"
)

func TestFloatsRange(t *testing.T) {
	tests := []struct {
		name   string
		seed   string
		run    uint64
		cursor uint64
		count  int
	}{
		{name: "single float", seed: "test_seed", run: 1, cursor: 0, count: 1},
		{name: "crosses a round", seed: "test_seed", run: 1, cursor: 0, count: 20},
		{name: "offset cursor", seed: "another", run: 7, cursor: 30, count: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			floats := Floats(tt.seed, tt.run, tt.cursor, tt.count)
			if len(floats) != tt.count {
				t.Fatalf("Floats() returned %d floats, want %d", len(floats), tt.count)
			}
			for i, f := range floats {
				if f < 0 || f >= 1 {
					t.Errorf("float %d out of range [0, 1): %f", i, f)
				}
			}
		})
	}
}

func TestDeterministicFloats(t *testing.T) {
	a := Floats("deterministic", 42, 0, 16)
	b := Floats("deterministic", 42, 0, 16)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("float %d differs between identical calls: %f vs %f", i, a[i], b[i])
		}
	}

	c := Floats("deterministic", 43, 0, 16)
	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different run numbers produced identical streams")
	}
}

func TestCursorMatchesSequentialRead(t *testing.T) {
	all := Floats("cursor", 3, 0, 12)
	// each float consumes 4 bytes, so float 9 starts at byte 36
	tail := Floats("cursor", 3, 36, 3)
	for i := range tail {
		if tail[i] != all[9+i] {
			t.Errorf("cursor read %d = %f, sequential = %f", i, tail[i], all[9+i])
		}
	}
}

func TestStreamMatchesFloats(t *testing.T) {
	want := Floats("stream", 5, 0, 10)
	s := NewStream("stream", 5)
	for i, w := range want {
		if got := s.Float64(); got != w {
			t.Errorf("draw %d = %f, want %f", i, got, w)
		}
	}
	if s.Drawn() != 10 {
		t.Errorf("Drawn() = %d, want 10", s.Drawn())
	}
}

func TestHashSeed(t *testing.T) {
	if HashSeed("") != "empty" {
		t.Errorf("empty seed should hash to \"empty\"")
	}
	h := HashSeed("secret")
	if len(h) != 16 {
		t.Errorf("hash length = %d, want 16", len(h))
	}
	if h == "secret" {
		t.Error("hash must not echo the seed")
	}
}
