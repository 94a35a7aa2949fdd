package transcription

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/transcribestreaming"
	"github.com/aws/aws-sdk-go-v2/service/transcribestreaming/types"
	"github.com/eleven-am/call-backend/internal/shared"
)

// StreamingAPI abstracts the Transcribe streaming operation used by
// [StreamingClient]. The [transcribestreaming.Client] type satisfies it.
type StreamingAPI interface {
	StartStreamTranscription(ctx context.Context, params *transcribestreaming.StartStreamTranscriptionInput, optFns ...func(*transcribestreaming.Options)) (*transcribestreaming.StartStreamTranscriptionOutput, error)
}

// StreamingClient bridges a live audio stream to an AWS Transcribe
// streaming session. The client itself is stateless and safe to share
// across calls; each Transcribe invocation opens its own session.
type StreamingClient struct {
	api StreamingAPI
	cfg Config
	log *slog.Logger
}

func NewStreaming(api StreamingAPI, cfg Config, log *slog.Logger) *StreamingClient {
	if log == nil {
		log = slog.Default()
	}
	return &StreamingClient{
		api: api,
		cfg: normalizeConfig(cfg),
		log: log.With("component", "streaming_transcriber"),
	}
}

// transcriptStream is the live recognition session surface consumed by
// [StreamingClient]. The SDK's event stream satisfies it.
type transcriptStream interface {
	Events() <-chan types.TranscriptResultStream
	Send(ctx context.Context, event types.AudioStream) error
	Close() error
	Err() error
}

// Transcribe opens one recognition session, pumps audio chunks into it
// until the channel closes, and returns the accumulated transcript of
// all finalized results. Any provider fault aborts the whole operation;
// partial text is discarded.
func (c *StreamingClient) Transcribe(ctx context.Context, audio <-chan []byte) (string, error) {
	out, err := c.api.StartStreamTranscription(ctx, &transcribestreaming.StartStreamTranscriptionInput{
		LanguageCode:         types.LanguageCode(c.cfg.LanguageCode),
		MediaEncoding:        types.MediaEncoding(c.cfg.MediaEncoding),
		MediaSampleRateHertz: aws.Int32(c.cfg.SampleRateHertz),
	})
	if err != nil {
		return "", fmt.Errorf("%w: start session: %v", shared.ErrTranscription, err)
	}

	return c.consume(ctx, out.GetStream(), audio)
}

func (c *StreamingClient) consume(ctx context.Context, stream transcriptStream, audio <-chan []byte) (string, error) {
	defer stream.Close()

	// stopPump releases the pump once the provider has ended the event
	// stream; the caller may still be holding the audio channel open.
	stopPump := make(chan struct{})
	sendErrCh := make(chan error, 1)
	go func() {
		defer close(sendErrCh)
		for {
			select {
			case <-ctx.Done():
				sendErrCh <- ctx.Err()
				return
			case <-stopPump:
				return
			case chunk, ok := <-audio:
				if !ok {
					// Caller closed the stream: tell the provider we are
					// done so it finalizes pending results and ends the
					// event stream.
					if err := stream.Close(); err != nil {
						sendErrCh <- err
					}
					return
				}
				if len(chunk) == 0 {
					continue
				}
				// The provider may have ended the session between the
				// chunk arriving and now; sending would hit a closed
				// stream.
				select {
				case <-stopPump:
					return
				default:
				}
				if err := stream.Send(ctx, &types.AudioStreamMemberAudioEvent{
					Value: types.AudioEvent{AudioChunk: chunk},
				}); err != nil {
					sendErrCh <- err
					return
				}
			}
		}
	}()

	var acc Accumulator
	for raw := range stream.Events() {
		switch ev := raw.(type) {
		case *types.TranscriptResultStreamMemberTranscriptEvent:
			if ev.Value.Transcript == nil {
				continue
			}
			for _, res := range ev.Value.Transcript.Results {
				acc.Handle(eventFromResult(res))
			}
		default:
			c.log.Debug("unexpected transcript stream event", "type", fmt.Sprintf("%T", raw))
		}
	}
	close(stopPump)

	if err := stream.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrTranscription, err)
	}
	if err := <-sendErrCh; err != nil {
		return "", fmt.Errorf("%w: send audio: %v", shared.ErrTranscription, err)
	}

	return acc.Finalize(), nil
}

// eventFromResult converts one provider result into the provider-neutral
// event consumed by the accumulator.
func eventFromResult(res types.Result) Event {
	alts := make([]Alternative, 0, len(res.Alternatives))
	for _, alt := range res.Alternatives {
		alts = append(alts, Alternative{Transcript: aws.ToString(alt.Transcript)})
	}
	return Event{
		IsPartial:    res.IsPartial,
		Alternatives: alts,
	}
}
