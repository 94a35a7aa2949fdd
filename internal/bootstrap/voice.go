package bootstrap

import (
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/polly"
	"github.com/aws/aws-sdk-go-v2/service/transcribe"
	"github.com/aws/aws-sdk-go-v2/service/transcribestreaming"
	"github.com/eleven-am/call-backend/internal/agent"
	"github.com/eleven-am/call-backend/internal/callsession"
	"github.com/eleven-am/call-backend/internal/configstore"
	"github.com/eleven-am/call-backend/internal/synthesis"
	"github.com/eleven-am/call-backend/internal/telephony"
	"github.com/eleven-am/call-backend/internal/transcription"
	"github.com/redis/go-redis/v9"
	openai "github.com/sashabaranov/go-openai"
	"github.com/twilio/twilio-go"
	"go.uber.org/fx"
)

func ProvideStreamTranscriber(cfg *Config, awsCfg aws.Config, log *slog.Logger) transcription.StreamTranscriber {
	return transcription.NewStreaming(
		transcribestreaming.NewFromConfig(awsCfg),
		transcription.Config{},
		log,
	)
}

func ProvideBatchTranscriber(cfg *Config, awsCfg aws.Config, log *slog.Logger) transcription.BatchTranscriber {
	return transcription.NewBatch(
		transcribe.NewFromConfig(awsCfg),
		transcription.Config{JobTimeout: cfg.BatchJobTimeout},
		log,
	)
}

// ProvideSynthesizers builds every synthesizer the process can offer,
// keyed by provider name, so a per-call config can pick its strategy.
func ProvideSynthesizers(cfg *Config, awsCfg aws.Config, log *slog.Logger) map[string]synthesis.Synthesizer {
	synthesizers := map[string]synthesis.Synthesizer{
		synthesis.ProviderPolly: synthesis.NewPolly(polly.NewFromConfig(awsCfg), synthesis.PollyConfig{}, log),
	}
	if cfg.ElevenLabsAPIKey != "" {
		synthesizers[synthesis.ProviderElevenLabs] = synthesis.NewElevenLabs(synthesis.ElevenLabsConfig{
			APIKey:  cfg.ElevenLabsAPIKey,
			VoiceID: cfg.ElevenLabsVoiceID,
		}, log)
	}
	return synthesizers
}

func ProvideSynthesizer(cfg *Config, synthesizers map[string]synthesis.Synthesizer) synthesis.Synthesizer {
	if s, ok := synthesizers[cfg.SynthesizerProvider]; ok {
		return s
	}
	return synthesizers[synthesis.ProviderPolly]
}

// ProvideResponderFactory builds a fresh conversation per call; the
// OpenAI client underneath is shared.
func ProvideResponderFactory(cfg *Config, log *slog.Logger) func() agent.Responder {
	client := openai.NewClient(cfg.OpenAIAPIKey)
	agentCfg := agent.Config{Model: cfg.AgentModel}
	return func() agent.Responder {
		return agent.NewChat(client, agentCfg, log)
	}
}

func ProvideSessionManager(
	transcriber transcription.StreamTranscriber,
	synthesizer synthesis.Synthesizer,
	synthesizers map[string]synthesis.Synthesizer,
	newResponder func() agent.Responder,
	log *slog.Logger,
) *callsession.Manager {
	return callsession.NewManager(callsession.ManagerConfig{
		Transcriber:  transcriber,
		Synthesizer:  synthesizer,
		Synthesizers: synthesizers,
		NewResponder: newResponder,
		Log:          log,
	})
}

func defaultCallConfig(cfg *Config) telephony.CallConfig {
	return telephony.CallConfig{
		BaseURL: cfg.BaseURL,
		From:    cfg.OutboundCallerNumber,
		Twilio: telephony.TwilioConfig{
			AccountSID: cfg.TwilioAccountSID,
			AuthToken:  cfg.TwilioAuthToken,
		},
		Agent:       agent.Config{Model: cfg.AgentModel},
		Synthesizer: cfg.SynthesizerProvider,
		Transcriber: cfg.TranscriberMode,
	}
}

func ProvideDialer(cfg *Config, client *twilio.RestClient, log *slog.Logger) *telephony.Dialer {
	return telephony.NewDialer(client.Api, defaultCallConfig(cfg), log)
}

func ProvideConfigStore(redisClient *redis.Client) configstore.Store {
	if redisClient != nil {
		return configstore.NewRedis(redisClient)
	}
	return configstore.NewMemory()
}

var VoiceModule = fx.Options(
	fx.Provide(
		ProvideStreamTranscriber,
		ProvideBatchTranscriber,
		ProvideSynthesizers,
		ProvideSynthesizer,
		ProvideResponderFactory,
		ProvideSessionManager,
		ProvideDialer,
		ProvideConfigStore,
	),
)
