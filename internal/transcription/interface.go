package transcription

import "context"

// StreamTranscriber turns a live audio stream into a final transcript.
// The operation returns once the audio channel is closed and the provider
// has finished emitting results.
type StreamTranscriber interface {
	Transcribe(ctx context.Context, audio <-chan []byte) (string, error)
}

// BatchTranscriber transcribes a pre-recorded audio resource addressed
// by URL through a submit-then-poll workflow.
type BatchTranscriber interface {
	Transcribe(ctx context.Context, mediaURL string) (string, error)
}
