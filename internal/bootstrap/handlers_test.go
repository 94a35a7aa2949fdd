package bootstrap

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/eleven-am/call-backend/internal/health"
	"github.com/labstack/echo/v4"
)

type staticSessionCount int

func (s staticSessionCount) SessionCount() int { return int(s) }

func TestMetricsMiddlewareFeedsHealthStats(t *testing.T) {
	h := health.NewHandler(nil, staticSessionCount(0), nil, "test")

	e := echo.New()
	e.Use(metricsMiddleware(h))
	e.GET("/ping", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	h.RegisterRoutes(e)

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("ping status = %d", rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var resp health.HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	// The readiness request itself passes through the middleware too.
	if resp.Stats.Requests.TotalRequests != 4 {
		t.Errorf("total requests = %d, want 4", resp.Stats.Requests.TotalRequests)
	}
	if resp.Stats.Requests.ActiveConnections != 1 {
		t.Errorf("active connections = %d, want the in-flight readiness request", resp.Stats.Requests.ActiveConnections)
	}
}

func TestConfigSummaryRedaction(t *testing.T) {
	cfg := &Config{
		BaseURL:              "https://voice.example.com",
		OutboundCallerNumber: "+15550000000",
		SynthesizerProvider:  "polly",
		TranscriberMode:      "streaming",
		TwilioAccountSID:     "AC123",
		TwilioAuthToken:      "secret",
		OpenAIAPIKey:         "sk-secret",
	}

	summary := configSummary(cfg)
	if !summary.TwilioConfigured || !summary.OpenAIConfigured {
		t.Error("expected provider presence flags set")
	}
	if summary.ElevenLabsConfigured {
		t.Error("elevenlabs flag set without a key")
	}
	if summary.AgentModel == "" {
		t.Error("expected a default agent model in the summary")
	}
}
