package view

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/dshills/ghostpad/internal/engine/text"
)

func TestDispatchMirrorsContentNotSelection(t *testing.T) {
	d := NewDispatcher()
	primary := New(KindPrimary, text.NewDocument("The cat"), WithSelection(text.Cursor(0)))
	cursor := New(KindCursor, primary.Document().Clone(), WithSelection(text.Cursor(7)))

	up, err := d.Dispatch(
		text.Insert(7, " sat").WithSelection(text.Cursor(11)),
		cursor,
		[]*View{primary},
	)
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	if primary.Document().String() != "The cat sat" {
		t.Errorf("primary not mirrored: %q", primary.Document().String())
	}
	if cursor.Selection() != text.Cursor(11) {
		t.Errorf("origin selection should follow the transaction, got %s", cursor.Selection())
	}
	if primary.Selection() != text.Cursor(0) {
		t.Errorf("paired selection must evolve independently, got %s", primary.Selection())
	}
	if len(up.Mirrored) != 1 || up.Mirrored[0] != primary.ID() {
		t.Errorf("expected primary in mirrored set, got %v", up.Mirrored)
	}
	if up.Before.String() != "The cat" || up.After.String() != "The cat sat" {
		t.Errorf("unexpected update documents %q -> %q", up.Before.String(), up.After.String())
	}
}

func TestDispatchRejectsMalformedWithoutMutation(t *testing.T) {
	d := NewDispatcher()
	primary := New(KindPrimary, text.NewDocument("abc"))
	cursor := New(KindCursor, primary.Document().Clone())

	_, err := d.Dispatch(text.Replace(2, 5, "x"), primary, []*View{cursor})
	if !errors.Is(err, text.ErrOffsetOutOfRange) {
		t.Fatalf("expected ErrOffsetOutOfRange, got %v", err)
	}

	_, err = d.Dispatch(text.Insert(1, "x").WithSelection(text.Cursor(9)), primary, []*View{cursor})
	if !errors.Is(err, text.ErrSelectionOutOfRange) {
		t.Fatalf("expected ErrSelectionOutOfRange, got %v", err)
	}

	if primary.Document().String() != "abc" || cursor.Document().String() != "abc" {
		t.Error("no view may change when a transaction is rejected")
	}
}

func TestDispatchSkipsDesyncedView(t *testing.T) {
	var reported []Desync
	d := NewDispatcher(WithDesyncHandler(func(ds Desync) {
		reported = append(reported, ds)
	}))

	primary := New(KindPrimary, text.NewDocument("abc"))
	stale := New(KindCursor, text.NewDocument("abcdef"))
	good := New(KindCursor, primary.Document().Clone())

	up, err := d.Dispatch(text.Insert(3, "!"), primary, []*View{stale, good})
	if err != nil {
		t.Fatalf("desync must not fail the dispatch: %v", err)
	}

	if primary.Document().String() != "abc!" {
		t.Errorf("origin edit must still apply, got %q", primary.Document().String())
	}
	if stale.Document().String() != "abcdef" {
		t.Errorf("desynced view must be left untouched, got %q", stale.Document().String())
	}
	if good.Document().String() != "abc!" {
		t.Errorf("in-sync view should be mirrored, got %q", good.Document().String())
	}
	if len(up.Skipped) != 1 || up.Skipped[0] != stale.ID() {
		t.Errorf("expected stale view to be skipped, got %v", up.Skipped)
	}
	if len(reported) != 1 || reported[0].Expected != 3 || reported[0].Actual != 6 {
		t.Errorf("unexpected desync report %v", reported)
	}
}

func TestDispatchIgnoresDestroyedPairedView(t *testing.T) {
	d := NewDispatcher()
	primary := New(KindPrimary, text.NewDocument("abc"))
	cursor := New(KindCursor, primary.Document().Clone())
	cursor.Destroy()

	up, err := d.Dispatch(text.Insert(0, "x"), primary, []*View{cursor, nil})
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if len(up.Mirrored) != 0 || len(up.Skipped) != 0 {
		t.Errorf("destroyed views should be ignored, got %+v", up)
	}
}

func TestDispatchSelectionOnlyDoesNotMirror(t *testing.T) {
	d := NewDispatcher()
	primary := New(KindPrimary, text.NewDocument("abc"))
	cursor := New(KindCursor, primary.Document().Clone(), WithSelection(text.Cursor(1)))

	up, err := d.Dispatch(text.Select(text.Cursor(3)), primary, []*View{cursor})
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if up.DocChanged() || len(up.Mirrored) != 0 {
		t.Error("selection-only transactions should not be mirrored")
	}
	if cursor.Selection() != text.Cursor(1) {
		t.Errorf("paired selection changed: %s", cursor.Selection())
	}
}

func TestMirrorConsistencyRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	d := NewDispatcher()
	primary := New(KindPrimary, text.NewDocument("seed text"))
	cursor := New(KindCursor, primary.Document().Clone(), WithSelection(text.Cursor(4)))

	for i := 0; i < 300; i++ {
		origin, paired := primary, cursor
		if rng.Intn(2) == 0 {
			origin, paired = cursor, primary
		}

		n := origin.Document().Len()
		from := rng.Intn(n + 1)
		to := from + rng.Intn(n-from+1)
		insert := []string{"", "a", "bc", "日本", " "}[rng.Intn(5)]

		if _, err := d.Dispatch(text.Replace(from, to, insert), origin, []*View{paired}); err != nil {
			t.Fatalf("step %d: dispatch failed: %v", i, err)
		}
		if !primary.Document().Equal(cursor.Document()) {
			t.Fatalf("step %d: documents diverged: %q vs %q", i, primary.Document().String(), cursor.Document().String())
		}
		if err := cursor.Selection().Validate(cursor.Document().Len()); err != nil {
			t.Fatalf("step %d: cursor selection invalid: %v", i, err)
		}
		if err := primary.Selection().Validate(primary.Document().Len()); err != nil {
			t.Fatalf("step %d: primary selection invalid: %v", i, err)
		}
	}
}
