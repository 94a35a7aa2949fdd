package synthesis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/eleven-am/call-backend/internal/shared"
)

// ElevenLabsClient renders text with the ElevenLabs HTTP API. The whole
// utterance is returned in one response body; no chunked playback.
type ElevenLabsClient struct {
	httpClient *http.Client
	cfg        ElevenLabsConfig
	log        *slog.Logger
}

func NewElevenLabs(cfg ElevenLabsConfig, log *slog.Logger) *ElevenLabsClient {
	if log == nil {
		log = slog.Default()
	}
	return &ElevenLabsClient{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		cfg:        normalizeElevenLabs(cfg),
		log:        log.With("component", "elevenlabs_synthesizer"),
	}
}

type elevenLabsRequest struct {
	Text          string             `json:"text"`
	ModelID       string             `json:"model_id"`
	VoiceSettings map[string]float64 `json:"voice_settings,omitempty"`
}

func (c *ElevenLabsClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	endpoint, err := url.Parse(fmt.Sprintf("%s/v1/text-to-speech/%s", c.cfg.BaseURL, c.cfg.VoiceID))
	if err != nil {
		return nil, fmt.Errorf("%w: build endpoint: %v", shared.ErrSynthesis, err)
	}
	q := endpoint.Query()
	q.Set("output_format", c.cfg.OutputFormat)
	endpoint.RawQuery = q.Encode()

	body, err := json.Marshal(elevenLabsRequest{
		Text:    text,
		ModelID: c.cfg.ModelID,
		VoiceSettings: map[string]float64{
			"stability":        0.75,
			"similarity_boost": 0.7,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %v", shared.ErrSynthesis, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", shared.ErrSynthesis, err)
	}
	req.Header.Set("xi-api-key", c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: elevenlabs: %v", shared.ErrSynthesis, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: elevenlabs: status %d", shared.ErrSynthesis, resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", shared.ErrSynthesis, err)
	}

	c.log.Debug("synthesized utterance", "voice", c.cfg.VoiceID, "bytes", len(audio))
	return audio, nil
}
