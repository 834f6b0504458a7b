package questions

import "testing"

func testPack(t *testing.T) Pack {
	t.Helper()

	pack := Pack{ID: "test", Name: "Test"}
	for i := 0; i < 8; i++ {
		pack.Questions = append(pack.Questions, Question{
			ID:      string(rune('a' + i)),
			Prompt:  "prompt",
			Options: []string{"x", "y"},
			Answer:  0,
		})
	}
	return pack
}

func TestPickerDeterminism(t *testing.T) {
	pack := testPack(t)
	p1 := NewPicker(pack, 42)
	p2 := NewPicker(pack, 42)

	for i := 0; i < 20; i++ {
		a := p1.Next()
		b := p2.Next()
		if a.ID != b.ID {
			t.Fatalf("draw %d: got %q and %q from same seed", i, a.ID, b.ID)
		}
	}
}

func TestPickerCoversPackWithoutRepeats(t *testing.T) {
	pack := testPack(t)
	p := NewPicker(pack, 7)

	seen := make(map[string]bool)
	for i := 0; i < len(pack.Questions); i++ {
		q := p.Next()
		if seen[q.ID] {
			t.Fatalf("question %q repeated before the pack was exhausted", q.ID)
		}
		seen[q.ID] = true
	}
	if len(seen) != len(pack.Questions) {
		t.Errorf("expected %d distinct questions, got %d", len(pack.Questions), len(seen))
	}
}

func TestPickerReshufflesAfterExhaustion(t *testing.T) {
	pack := testPack(t)
	p := NewPicker(pack, 9)

	for i := 0; i < len(pack.Questions); i++ {
		p.Next()
	}

	// Second cycle deals the full pack again.
	seen := make(map[string]bool)
	for i := 0; i < len(pack.Questions); i++ {
		seen[p.Next().ID] = true
	}
	if len(seen) != len(pack.Questions) {
		t.Errorf("expected full coverage on second cycle, got %d of %d", len(seen), len(pack.Questions))
	}
}

func TestPickerRemaining(t *testing.T) {
	pack := testPack(t)
	p := NewPicker(pack, 3)

	if got := p.Remaining(); got != len(pack.Questions) {
		t.Fatalf("expected %d remaining, got %d", len(pack.Questions), got)
	}
	p.Next()
	if got := p.Remaining(); got != len(pack.Questions)-1 {
		t.Errorf("expected %d remaining after one draw, got %d", len(pack.Questions)-1, got)
	}
}

func TestPickerZeroSeedStillDeals(t *testing.T) {
	pack := testPack(t)
	p := NewPicker(pack, 0)

	q := p.Next()
	if q.ID == "" {
		t.Error("expected a dealt question")
	}
}
