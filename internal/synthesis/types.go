package synthesis

// Provider names accepted by the bootstrap layer.
const (
	ProviderPolly      = "polly"
	ProviderElevenLabs = "elevenlabs"
)

type PollyConfig struct {
	VoiceID      string
	OutputFormat string
}

func normalizePolly(cfg PollyConfig) PollyConfig {
	if cfg.VoiceID == "" {
		cfg.VoiceID = "Joanna"
	}
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = "mp3"
	}
	return cfg
}

type ElevenLabsConfig struct {
	APIKey  string
	VoiceID string
	ModelID string
	// OutputFormat is passed as a query parameter; ulaw_8000 matches
	// telephony playback.
	OutputFormat string
	// BaseURL overrides the API endpoint, used by tests.
	BaseURL string
}

func normalizeElevenLabs(cfg ElevenLabsConfig) ElevenLabsConfig {
	if cfg.VoiceID == "" {
		cfg.VoiceID = "JBFqnCBsd6RMkjVDRZzb"
	}
	if cfg.ModelID == "" {
		cfg.ModelID = "eleven_multilingual_v2"
	}
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = "ulaw_8000"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.elevenlabs.io"
	}
	return cfg
}
