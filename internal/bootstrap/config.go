package bootstrap

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddr string
	LogLevel   string
	Version    string

	// BaseURL is the externally reachable HTTPS origin Twilio calls
	// back to; WSBaseURL is its websocket counterpart, derived from
	// BaseURL when unset.
	BaseURL   string
	WSBaseURL string

	TwilioAccountSID     string
	TwilioAuthToken      string
	OutboundCallerNumber string

	OpenAIAPIKey string
	AgentModel   string

	ElevenLabsAPIKey  string
	ElevenLabsVoiceID string

	AWSRegion string

	// SynthesizerProvider is "polly" or "elevenlabs";
	// TranscriberMode is "streaming" or "batch".
	SynthesizerProvider string
	TranscriberMode     string

	BatchJobTimeout time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

func LoadConfig() *Config {
	// Missing .env is fine; the process may be configured by real
	// environment variables.
	_ = godotenv.Load()

	cfg := &Config{
		ServerAddr: getEnv("SERVER_ADDR", ":8080"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		Version:    getEnv("VERSION", "dev"),

		BaseURL:   getEnv("BASE_URL", ""),
		WSBaseURL: getEnv("WS_BASE_URL", ""),

		TwilioAccountSID:     getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:      getEnv("TWILIO_AUTH_TOKEN", ""),
		OutboundCallerNumber: getEnv("OUTBOUND_CALLER_NUMBER", ""),

		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		AgentModel:   getEnv("AGENT_MODEL", ""),

		ElevenLabsAPIKey:  getEnv("ELEVENLABS_API_KEY", ""),
		ElevenLabsVoiceID: getEnv("ELEVENLABS_VOICE_ID", ""),

		AWSRegion: getEnv("AWS_REGION", "us-east-1"),

		SynthesizerProvider: getEnv("SYNTHESIZER_PROVIDER", "polly"),
		TranscriberMode:     getEnv("TRANSCRIBER_MODE", "streaming"),

		BatchJobTimeout: getEnvDuration("BATCH_JOB_TIMEOUT", 10*time.Minute),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       0,
	}

	if cfg.WSBaseURL == "" && cfg.BaseURL != "" {
		cfg.WSBaseURL = deriveWSBaseURL(cfg.BaseURL)
	}

	return cfg
}

func deriveWSBaseURL(baseURL string) string {
	switch {
	case strings.HasPrefix(baseURL, "https://"):
		return "wss://" + strings.TrimPrefix(baseURL, "https://")
	case strings.HasPrefix(baseURL, "http://"):
		return "ws://" + strings.TrimPrefix(baseURL, "http://")
	default:
		return baseURL
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
