package surface

import (
	"strings"
	"unicode/utf8"

	"github.com/dshills/ghostpad/internal/engine/text"
)

// SpeechResult pairs the ghost text currently shown with the text that
// should take its place.
type SpeechResult struct {
	Previous string
	Replace  string
}

// PlanSpeech computes the transactions that reconcile res against doc and
// sel. It returns false when Previous no longer precedes the caret, in which
// case nothing must be applied.
//
// The transactions are sequential: each is expressed against the document
// produced by the ones before it.
func PlanSpeech(doc text.Document, sel text.Selection, res SpeechResult) ([]text.Transaction, bool) {
	var txs []text.Transaction

	// A real selection is overwritten by fresh speech.
	if !sel.IsEmpty() && res.Previous == "" {
		from := text.Clamp(sel.From(), doc.Len())
		to := text.Clamp(sel.To(), doc.Len())
		del := text.Replace(from, to, "").WithSelection(text.Cursor(from))

		next, err := doc.Apply(del.Changes)
		if err != nil {
			return nil, false
		}
		txs = append(txs, del)
		doc = next
		sel = text.Cursor(from)
	}

	end := text.Clamp(sel.To(), doc.Len())

	if res.Previous != "" {
		anchor := text.Clamp(end-utf8.RuneCountInString(res.Previous), doc.Len())
		if !strings.HasSuffix(doc.Slice(anchor, end), res.Previous) {
			return nil, false
		}
		head := anchor + utf8.RuneCountInString(res.Replace)
		return append(txs, text.Replace(anchor, end, res.Replace).WithSelection(text.Cursor(head))), true
	}

	padding := ""
	if r, ok := doc.RuneBefore(end); ok && !text.IsSpace(r) {
		padding = " "
	}
	insert := padding + res.Replace
	head := end + utf8.RuneCountInString(insert)
	return append(txs, text.Insert(end, insert).WithSelection(text.Cursor(head))), true
}

// AppendSpeech reconciles a speech result against the primary view's live
// selection. It returns false, leaving the document untouched, when the ghost
// text no longer sits before the caret.
func (s *Surface) AppendSpeech(res SpeechResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyed {
		return false
	}

	txs, ok := PlanSpeech(s.primary.Document(), s.primary.Selection(), res)
	if !ok {
		s.log.Debug("speech interrupted: %q not before caret", res.Previous)
		return false
	}

	grouped := !s.history.IsGrouping() && len(txs) > 1
	if grouped {
		s.history.BeginGroup("speech")
		defer s.history.EndGroup()
	}

	for _, tx := range txs {
		if err := s.primary.Dispatch(tx); err != nil {
			s.log.Error("apply speech %s: %v", tx, err)
			return false
		}
	}

	if res.Previous != "" {
		s.log.Debug("speech replace %q -> %q", res.Previous, res.Replace)
	} else {
		s.log.Debug("speech append %q", res.Replace)
	}
	return true
}
