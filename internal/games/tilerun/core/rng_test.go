package core

import "testing"

func TestRNGDeterminism(t *testing.T) {
	rng1 := NewRNG(42)
	rng2 := NewRNG(42)

	for i := 0; i < 100; i++ {
		a := rng1.Float()
		b := rng2.Float()
		if a != b {
			t.Fatalf("draw %d: got %v and %v from same seed", i, a, b)
		}
	}
}

func TestRNGFloatRange(t *testing.T) {
	rng := NewRNG(99)

	for i := 0; i < 1000; i++ {
		f := rng.Float()
		if f < 0 || f >= 1 {
			t.Fatalf("draw %d out of range [0,1): got %v", i, f)
		}
	}
}

func TestRNGNegativeSeedNormalized(t *testing.T) {
	rng := NewRNG(-7)

	for i := 0; i < 100; i++ {
		f := rng.Float()
		if f < 0 || f >= 1 {
			t.Fatalf("draw %d out of range [0,1) for negative seed: got %v", i, f)
		}
	}
}

// Pins the recurrence for seed 42. If these values change, every recorded
// match replay changes with them.
func TestRNGKnownSequence(t *testing.T) {
	rng := NewRNG(42)

	wantStates := []int64{206659, 190736, 223713}
	for i, want := range wantStates {
		got := rng.Float()
		expected := float64(want) / float64(lcgModulus)
		if got != expected {
			t.Errorf("draw %d: expected %v, got %v", i, expected, got)
		}
	}

	rng = NewRNG(42)
	wantRolls := []int{6, 5, 6}
	for i, want := range wantRolls {
		if got := rng.IntBetween(1, 6); got != want {
			t.Errorf("roll %d: expected %d, got %d", i, want, got)
		}
	}
}

func TestIntBetweenRange(t *testing.T) {
	rng := NewRNG(7)
	seen := make(map[int]bool)

	for i := 0; i < 1000; i++ {
		v := rng.IntBetween(1, 6)
		if v < 1 || v > 6 {
			t.Fatalf("draw %d out of range [1,6]: got %d", i, v)
		}
		seen[v] = true
	}

	// 1000 draws should hit every face of a d6.
	for face := 1; face <= 6; face++ {
		if !seen[face] {
			t.Errorf("face %d never drawn in 1000 rolls", face)
		}
	}
}

func TestIntBetweenInclusiveBounds(t *testing.T) {
	rng := NewRNG(1)

	for i := 0; i < 20; i++ {
		if v := rng.IntBetween(4, 4); v != 4 {
			t.Fatalf("degenerate range should always return 4, got %d", v)
		}
	}
}

func TestIntBetweenInvertedRange(t *testing.T) {
	rng := NewRNG(1)

	if v := rng.IntBetween(5, 2); v != 5 {
		t.Errorf("inverted range should return min without drawing, got %d", v)
	}
}

func TestPickDeterminism(t *testing.T) {
	items := []int{5, 2, -2, -5}
	rng1 := NewRNG(42)
	rng2 := NewRNG(42)

	for i := 0; i < 50; i++ {
		a := Pick(rng1, items)
		b := Pick(rng2, items)
		if a != b {
			t.Fatalf("pick %d: got %d and %d from same seed", i, a, b)
		}
	}
}

func TestPickStaysInSet(t *testing.T) {
	items := []int{5, 2, -2, -5}
	member := make(map[int]bool, len(items))
	for _, v := range items {
		member[v] = true
	}

	rng := NewRNG(12345)
	for i := 0; i < 500; i++ {
		v := Pick(rng, items)
		if !member[v] {
			t.Fatalf("pick %d returned %d, not in input set", i, v)
		}
	}
}

func TestShuffleDoesNotMutateInput(t *testing.T) {
	input := []int{1, 2, 3, 4, 5, 6, 7, 8}
	original := make([]int, len(input))
	copy(original, input)

	rng := NewRNG(42)
	Shuffle(rng, input)

	for i := range input {
		if input[i] != original[i] {
			t.Fatalf("input mutated at index %d: expected %d, got %d", i, original[i], input[i])
		}
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	input := []int{1, 1, 2, 3, 3, 3, 4}
	rng := NewRNG(9)

	out := Shuffle(rng, input)
	if len(out) != len(input) {
		t.Fatalf("expected length %d, got %d", len(input), len(out))
	}

	counts := make(map[int]int)
	for _, v := range input {
		counts[v]++
	}
	for _, v := range out {
		counts[v]--
	}
	for v, c := range counts {
		if c != 0 {
			t.Errorf("element %d count off by %d after shuffle", v, c)
		}
	}
}

func TestShuffleDeterminism(t *testing.T) {
	input := make([]int, 50)
	for i := range input {
		input[i] = i
	}

	out1 := Shuffle(NewRNG(42), input)
	out2 := Shuffle(NewRNG(42), input)
	for i := range out1 {
		if out1[i] != out2[i] {
			t.Fatalf("index %d: got %d and %d from same seed", i, out1[i], out2[i])
		}
	}

	// A different seed should produce a different order somewhere.
	out3 := Shuffle(NewRNG(43), input)
	same := true
	for i := range out1 {
		if out1[i] != out3[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("expected different seeds to produce different orders")
	}
}

func TestNewSeedUsable(t *testing.T) {
	a := NewSeed()
	b := NewSeed()

	if a <= 0 || b <= 0 {
		t.Fatalf("minted seeds must be positive, got %d and %d", a, b)
	}
	if a == b {
		t.Errorf("two minted seeds should differ, both were %d", a)
	}
}
