package synthesis

import "context"

// Synthesizer renders one utterance to a complete audio buffer. One
// synchronous call per invocation; no streaming, no internal retry.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}
