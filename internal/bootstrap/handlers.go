package bootstrap

import (
	"log/slog"

	"github.com/eleven-am/call-backend/internal/callsession"
	"github.com/eleven-am/call-backend/internal/configstore"
	"github.com/eleven-am/call-backend/internal/dto"
	"github.com/eleven-am/call-backend/internal/gateway"
	"github.com/eleven-am/call-backend/internal/health"
	"github.com/eleven-am/call-backend/internal/telephony"
	"github.com/eleven-am/call-backend/internal/transcription"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

func configSummary(cfg *Config) dto.ConfigSummary {
	model := cfg.AgentModel
	if model == "" {
		model = "gpt-4o-mini"
	}
	return dto.ConfigSummary{
		BaseURL:              cfg.BaseURL,
		CallerNumber:         cfg.OutboundCallerNumber,
		Synthesizer:          cfg.SynthesizerProvider,
		Transcriber:          cfg.TranscriberMode,
		AgentModel:           model,
		TwilioConfigured:     cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "",
		OpenAIConfigured:     cfg.OpenAIAPIKey != "",
		ElevenLabsConfigured: cfg.ElevenLabsAPIKey != "",
	}
}

func ProvideGatewayHandler(
	cfg *Config,
	dialer *telephony.Dialer,
	batch transcription.BatchTranscriber,
	sessions *callsession.Manager,
	store configstore.Store,
	log *slog.Logger,
) *gateway.Handler {
	return gateway.NewHandler(gateway.HandlerConfig{
		WSBaseURL: cfg.WSBaseURL,
		Defaults:  defaultCallConfig(cfg),
		Summary:   configSummary(cfg),
		Dialer:    dialer,
		Batch:     batch,
		Sessions:  sessions,
		Store:     store,
		Log:       log,
	})
}

func ProvideHealthHandler(cfg *Config, redisClient *redis.Client, sessions *callsession.Manager) *health.Handler {
	providers := map[string]bool{
		"twilio": cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "",
		"openai": cfg.OpenAIAPIKey != "",
	}
	if cfg.SynthesizerProvider == "elevenlabs" {
		providers["elevenlabs"] = cfg.ElevenLabsAPIKey != ""
	}
	return health.NewHandler(redisClient, sessions, providers, cfg.Version)
}

func metricsMiddleware(h *health.Handler) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h.IncrementRequests()
			h.IncrementConnections()
			defer h.DecrementConnections()
			return next(c)
		}
	}
}

func RegisterRoutes(e *echo.Echo, gatewayHandler *gateway.Handler, healthHandler *health.Handler) {
	e.Use(metricsMiddleware(healthHandler))
	gatewayHandler.RegisterRoutes(e)
	healthHandler.RegisterRoutes(e)
}

var HandlersModule = fx.Options(
	fx.Provide(
		ProvideGatewayHandler,
		ProvideHealthHandler,
	),
	fx.Invoke(RegisterRoutes),
)
