package transcription

import "time"

// Alternative is one candidate reading of a stretch of speech.
// Providers order alternatives by confidence; only the first is consulted.
type Alternative struct {
	Transcript string
	Confidence float64
}

// Event is one recognition result from a provider. Partial events are
// tentative and may be revised; final events are committed and never
// retracted.
type Event struct {
	IsPartial    bool
	Alternatives []Alternative
}

type Config struct {
	LanguageCode    string
	SampleRateHertz int32
	// MediaEncoding applies to the streaming path (telephony PCM).
	MediaEncoding string
	// MediaFormat applies to the batch path (recorded calls).
	MediaFormat  string
	PollInterval time.Duration
	JobTimeout   time.Duration
}

const (
	defaultLanguageCode    = "en-US"
	defaultSampleRateHertz = 8000
	defaultMediaEncoding   = "pcm"
	defaultMediaFormat     = "mp3"
	defaultPollInterval    = 5 * time.Second
	defaultJobTimeout      = 10 * time.Minute
)

func normalizeConfig(cfg Config) Config {
	if cfg.LanguageCode == "" {
		cfg.LanguageCode = defaultLanguageCode
	}
	if cfg.SampleRateHertz <= 0 {
		cfg.SampleRateHertz = defaultSampleRateHertz
	}
	if cfg.MediaEncoding == "" {
		cfg.MediaEncoding = defaultMediaEncoding
	}
	if cfg.MediaFormat == "" {
		cfg.MediaFormat = defaultMediaFormat
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = defaultJobTimeout
	}
	return cfg
}
