package speech

import (
	"errors"

	"github.com/tidwall/gjson"
)

// Errors returned by ParseTranscript.
var (
	ErrMalformed    = errors.New("malformed transcript message")
	ErrNoTranscript = errors.New("message carries no transcript")
)

// Transcript is one transcription result.
type Transcript struct {
	Text  string
	Final bool
}

// ParseTranscript decodes a transcription message. Two shapes are accepted:
// streaming results with channel.alternatives[0].transcript and is_final, and
// flat messages with text and final. Messages of any other shape, such as
// metadata or keepalives, return ErrNoTranscript.
func ParseTranscript(data []byte) (Transcript, error) {
	if !gjson.ValidBytes(data) {
		return Transcript{}, ErrMalformed
	}

	if alt := gjson.GetBytes(data, "channel.alternatives.0.transcript"); alt.Exists() {
		return Transcript{
			Text:  alt.String(),
			Final: gjson.GetBytes(data, "is_final").Bool(),
		}, nil
	}

	if text := gjson.GetBytes(data, "text"); text.Exists() && text.Type == gjson.String {
		final := gjson.GetBytes(data, "final")
		if !final.Exists() {
			final = gjson.GetBytes(data, "is_final")
		}
		return Transcript{Text: text.String(), Final: final.Bool()}, nil
	}

	return Transcript{}, ErrNoTranscript
}
