package synthesis

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/polly"
	"github.com/aws/aws-sdk-go-v2/service/polly/types"
	"github.com/eleven-am/call-backend/internal/shared"
)

// PollyAPI abstracts the Polly operation used by [PollyClient].
// The [polly.Client] type satisfies it.
type PollyAPI interface {
	SynthesizeSpeech(ctx context.Context, params *polly.SynthesizeSpeechInput, optFns ...func(*polly.Options)) (*polly.SynthesizeSpeechOutput, error)
}

// PollyClient renders text with Amazon Polly. Voice and output format
// are fixed at construction, not per call. Safe to share across calls.
type PollyClient struct {
	api PollyAPI
	cfg PollyConfig
	log *slog.Logger
}

func NewPolly(api PollyAPI, cfg PollyConfig, log *slog.Logger) *PollyClient {
	if log == nil {
		log = slog.Default()
	}
	return &PollyClient{
		api: api,
		cfg: normalizePolly(cfg),
		log: log.With("component", "polly_synthesizer"),
	}
}

func (c *PollyClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	out, err := c.api.SynthesizeSpeech(ctx, &polly.SynthesizeSpeechInput{
		Text:         aws.String(text),
		OutputFormat: types.OutputFormat(c.cfg.OutputFormat),
		VoiceId:      types.VoiceId(c.cfg.VoiceID),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: polly: %v", shared.ErrSynthesis, err)
	}
	defer out.AudioStream.Close()

	audio, err := io.ReadAll(out.AudioStream)
	if err != nil {
		return nil, fmt.Errorf("%w: read audio stream: %v", shared.ErrSynthesis, err)
	}

	c.log.Debug("synthesized utterance", "voice", c.cfg.VoiceID, "bytes", len(audio))
	return audio, nil
}
