package surface

import (
	"testing"

	"github.com/dshills/ghostpad/internal/engine/text"
)

func TestAppendSpeech(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		sel      text.Selection
		res      SpeechResult
		want     string
		wantSel  text.Selection
		wantEdit bool
	}{
		{
			name:     "replace ghost text",
			content:  "The cat sat",
			sel:      text.Cursor(11),
			res:      SpeechResult{Previous: " sat", Replace: " ran fast"},
			want:     "The cat ran fast",
			wantSel:  text.Cursor(16),
			wantEdit: true,
		},
		{
			name:     "interrupted ghost text",
			content:  "The cat sat down",
			sel:      text.Cursor(16),
			res:      SpeechResult{Previous: " sat", Replace: " ran fast"},
			want:     "The cat sat down",
			wantSel:  text.Cursor(16),
			wantEdit: false,
		},
		{
			name:     "append pads after word",
			content:  "Hello",
			sel:      text.Cursor(5),
			res:      SpeechResult{Replace: "world"},
			want:     "Hello world",
			wantSel:  text.Cursor(11),
			wantEdit: true,
		},
		{
			name:     "append after space",
			content:  "Hello ",
			sel:      text.Cursor(6),
			res:      SpeechResult{Replace: "world"},
			want:     "Hello world",
			wantSel:  text.Cursor(11),
			wantEdit: true,
		},
		{
			name:     "append after byte order mark",
			content:  "Hi\ufeff",
			sel:      text.Cursor(3),
			res:      SpeechResult{Replace: "there"},
			want:     "Hi\ufeffthere",
			wantSel:  text.Cursor(8),
			wantEdit: true,
		},
		{
			name:     "append pads after next line control",
			content:  "Hi\u0085",
			sel:      text.Cursor(3),
			res:      SpeechResult{Replace: "there"},
			want:     "Hi\u0085 there",
			wantSel:  text.Cursor(9),
			wantEdit: true,
		},
		{
			name:     "append at start of document",
			content:  "",
			sel:      text.Cursor(0),
			res:      SpeechResult{Replace: "world"},
			want:     "world",
			wantSel:  text.Cursor(5),
			wantEdit: true,
		},
		{
			name:     "append after newline",
			content:  "line\n",
			sel:      text.Cursor(5),
			res:      SpeechResult{Replace: "next"},
			want:     "line\nnext",
			wantSel:  text.Cursor(9),
			wantEdit: true,
		},
		{
			name:     "append mid document",
			content:  "Hello there",
			sel:      text.Cursor(5),
			res:      SpeechResult{Replace: "out"},
			want:     "Hello out there",
			wantSel:  text.Cursor(9),
			wantEdit: true,
		},
		{
			name:     "selection overwritten",
			content:  "Hello big world",
			sel:      text.Range(6, 9),
			res:      SpeechResult{Replace: "small"},
			want:     "Hello small world",
			wantSel:  text.Cursor(11),
			wantEdit: true,
		},
		{
			name:     "selection replaced uses its upper end",
			content:  "one two",
			sel:      text.Range(7, 4),
			res:      SpeechResult{Previous: "two", Replace: "three"},
			want:     "one three",
			wantSel:  text.Cursor(9),
			wantEdit: true,
		},
		{
			name:     "previous longer than caret offset",
			content:  "ab",
			sel:      text.Cursor(1),
			res:      SpeechResult{Previous: "a long ghost", Replace: "x"},
			want:     "ab",
			wantSel:  text.Cursor(1),
			wantEdit: false,
		},
		{
			name:     "previous is whole prefix",
			content:  "ab",
			sel:      text.Cursor(2),
			res:      SpeechResult{Previous: "ab", Replace: "xyz"},
			want:     "xyz",
			wantSel:  text.Cursor(3),
			wantEdit: true,
		},
		{
			name:     "multibyte ghost text",
			content:  "café ola",
			sel:      text.Cursor(8),
			res:      SpeechResult{Previous: " ola", Replace: " olé"},
			want:     "café olé",
			wantSel:  text.Cursor(8),
			wantEdit: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(WithContent(tt.content), WithSelection(tt.sel), WithSyncNotify())
			defer s.Destroy()

			if got := s.AppendSpeech(tt.res); got != tt.wantEdit {
				t.Errorf("AppendSpeech() = %v, want %v", got, tt.wantEdit)
			}
			if got := s.Value(); got != tt.want {
				t.Errorf("Value() = %q, want %q", got, tt.want)
			}
			if got := s.Selection(); got != tt.wantSel {
				t.Errorf("Selection() = %s, want %s", got, tt.wantSel)
			}
		})
	}
}

func TestPlanSpeechClampsStaleSelection(t *testing.T) {
	doc := text.NewDocument("Hi")

	txs, ok := PlanSpeech(doc, text.Cursor(40), SpeechResult{Replace: "there"})
	if !ok {
		t.Fatal("expected a plan")
	}
	if len(txs) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txs))
	}
	if err := txs[0].Validate(doc.Len()); err != nil {
		t.Fatalf("plan not valid against document: %v", err)
	}
	next, err := doc.Apply(txs[0].Changes)
	if err != nil {
		t.Fatal(err)
	}
	if next.String() != "Hi there" {
		t.Errorf("expected %q, got %q", "Hi there", next.String())
	}

	// Stale ranges past the end with a ghost must not index out of bounds.
	txs, ok = PlanSpeech(doc, text.Range(30, 40), SpeechResult{Previous: "Hi", Replace: "Yo"})
	if !ok {
		t.Fatal("expected the clamped ghost to match")
	}
	next, err = doc.Apply(txs[0].Changes)
	if err != nil {
		t.Fatal(err)
	}
	if next.String() != "Yo" {
		t.Errorf("expected %q, got %q", "Yo", next.String())
	}
}

func TestPlanSpeechSequentialTransactions(t *testing.T) {
	doc := text.NewDocument("Hello big world")

	txs, ok := PlanSpeech(doc, text.Range(6, 9), SpeechResult{Replace: "small"})
	if !ok {
		t.Fatal("expected a plan")
	}
	if len(txs) != 2 {
		t.Fatalf("expected delete and insert, got %d transactions", len(txs))
	}

	for _, tx := range txs {
		var err error
		if doc, err = doc.Apply(tx.Changes); err != nil {
			t.Fatalf("apply %s: %v", tx, err)
		}
	}
	if doc.String() != "Hello small world" {
		t.Errorf("got %q", doc.String())
	}
}

func TestSpeechSelectionOverwriteIsOneUndo(t *testing.T) {
	s := New(WithContent("Hello big world"), WithSelection(text.Range(6, 9)), WithSyncNotify())
	defer s.Destroy()

	if !s.AppendSpeech(SpeechResult{Replace: "small"}) {
		t.Fatal("expected speech to apply")
	}
	if err := s.Undo(); err != nil {
		t.Fatal(err)
	}
	if got := s.Value(); got != "Hello big world" {
		t.Errorf("expected original text after undo, got %q", got)
	}
	if got := s.Selection(); got != text.Range(6, 9) {
		t.Errorf("expected selection restored, got %s", got)
	}
}

func TestSpeechAfterUserTyping(t *testing.T) {
	s := New(WithContent("I said"), WithSelection(text.Cursor(6)), WithSyncNotify())
	defer s.Destroy()

	if !s.AppendSpeech(SpeechResult{Replace: "hel"}) {
		t.Fatal("append failed")
	}
	if got := s.Value(); got != "I said hel" {
		t.Fatalf("got %q", got)
	}

	// The user types after the ghost text, so the ghost is no longer
	// directly before the caret.
	if err := s.Dispatch(text.Insert(10, "!")); err != nil {
		t.Fatal(err)
	}
	if s.AppendSpeech(SpeechResult{Previous: "hel", Replace: "hello"}) {
		t.Error("expected interrupted ghost to be left alone")
	}
	if got := s.Value(); got != "I said hel!" {
		t.Errorf("document changed on mismatch: %q", got)
	}
}
