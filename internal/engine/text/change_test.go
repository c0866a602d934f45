package text

import (
	"math/rand"
	"strings"
	"testing"
)

func TestChangeDelta(t *testing.T) {
	tests := []struct {
		c    Change
		want int
	}{
		{Insertion(0, "abc"), 3},
		{Deletion(2, 5), -3},
		{Replacement(1, 3, "日本語"), 1},
		{Change{From: 4, To: 4}, 0},
	}

	for _, tt := range tests {
		if got := tt.c.Delta(); got != tt.want {
			t.Errorf("%s.Delta() = %d, want %d", tt.c, got, tt.want)
		}
	}
}

func TestChangeSetInvertRestoresDocument(t *testing.T) {
	d := NewDocument("The quick brown fox")
	cs := ChangeSet{
		Insertion(0, ">> "),
		Replacement(4, 9, "slow"),
		Deletion(10, 16),
		Insertion(19, "!"),
	}

	next, err := d.Apply(cs)
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if next.String() != ">> The slow fox!" {
		t.Fatalf("unexpected result %q", next.String())
	}

	back, err := next.Apply(cs.Invert(d))
	if err != nil {
		t.Fatalf("apply inverse failed: %v", err)
	}
	if !back.Equal(d) {
		t.Errorf("expected %q, got %q", d.String(), back.String())
	}
}

// randomChangeSet builds a sorted, non-overlapping change set for a document
// of the given length.
func randomChangeSet(rng *rand.Rand, length int) ChangeSet {
	var cs ChangeSet
	pos := 0
	for pos <= length && rng.Intn(4) != 0 {
		from := pos + rng.Intn(length-pos+1)
		to := from + rng.Intn(length-from+1)
		if rng.Intn(3) == 0 {
			to = from
		}
		insert := strings.Repeat(string(rune('a'+rng.Intn(26))), rng.Intn(4))
		if rng.Intn(5) == 0 {
			insert += "é"
		}
		cs = append(cs, Change{From: from, To: to, Insert: insert})
		pos = to
	}
	return cs
}

func TestChangeSetInvertRoundTripRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		d := NewDocument(strings.Repeat("xyzé ", rng.Intn(8)))
		cs := randomChangeSet(rng, d.Len())

		next, err := d.Apply(cs)
		if err != nil {
			t.Fatalf("iteration %d: apply %v: %v", i, cs, err)
		}
		if next.Len() != cs.NewLength(d.Len()) {
			t.Fatalf("iteration %d: length %d, NewLength %d", i, next.Len(), cs.NewLength(d.Len()))
		}

		back, err := next.Apply(cs.Invert(d))
		if err != nil {
			t.Fatalf("iteration %d: apply inverse of %v: %v", i, cs, err)
		}
		if !back.Equal(d) {
			t.Fatalf("iteration %d: round trip of %v gave %q, want %q", i, cs, back.String(), d.String())
		}
	}
}

func TestChangeSetMapPos(t *testing.T) {
	cs := ChangeSet{
		Insertion(2, "xx"),
		Replacement(5, 8, "y"),
	}

	tests := []struct {
		pos   int
		assoc Assoc
		want  int
	}{
		{0, AssocAfter, 0},
		{2, AssocBefore, 2},
		{2, AssocAfter, 4},
		{4, AssocAfter, 6},
		{5, AssocAfter, 7},
		{6, AssocBefore, 7},
		{6, AssocAfter, 8},
		{8, AssocBefore, 8},
		{10, AssocAfter, 10},
	}

	for _, tt := range tests {
		if got := cs.MapPos(tt.pos, tt.assoc); got != tt.want {
			t.Errorf("MapPos(%d, %d) = %d, want %d", tt.pos, tt.assoc, got, tt.want)
		}
	}
}

func TestDiff(t *testing.T) {
	a := NewDocument("Hello world")
	b := NewDocument("Hello brave world")

	cs := Diff(a, b)
	if len(cs) != 1 {
		t.Fatalf("expected one change, got %v", cs)
	}
	if cs[0] != Insertion(6, "brave ") {
		t.Errorf("unexpected change %s", cs[0])
	}

	if Diff(a, a) != nil {
		t.Error("diff of equal documents should be empty")
	}
}

func TestChangeSetCompose(t *testing.T) {
	d := NewDocument("abc")
	first := ChangeSet{Insertion(3, "d")}
	second := ChangeSet{Deletion(0, 1)}

	composed, err := first.Compose(d, second)
	if err != nil {
		t.Fatalf("compose failed: %v", err)
	}

	got, err := d.Apply(composed)
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if got.String() != "bcd" {
		t.Errorf("expected %q, got %q", "bcd", got.String())
	}
}
