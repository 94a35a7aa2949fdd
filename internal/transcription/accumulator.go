package transcription

import "strings"

// Accumulator folds recognition events into a single growing transcript.
// Partial events contribute nothing; each final event appends its best
// alternative, space-separated, in arrival order. One accumulator serves
// exactly one call and is not safe for concurrent use.
type Accumulator struct {
	sb strings.Builder
}

func (a *Accumulator) Handle(ev Event) {
	if ev.IsPartial {
		return
	}
	if len(ev.Alternatives) == 0 {
		return
	}
	text := ev.Alternatives[0].Transcript
	if text == "" {
		return
	}
	if a.sb.Len() > 0 {
		a.sb.WriteByte(' ')
	}
	a.sb.WriteString(text)
}

// Finalize returns the accumulated transcript. Safe to call with zero
// events handled, in which case it returns the empty string.
func (a *Accumulator) Finalize() string {
	return a.sb.String()
}
