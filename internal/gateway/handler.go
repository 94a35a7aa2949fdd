package gateway

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/eleven-am/call-backend/internal/configstore"
	"github.com/eleven-am/call-backend/internal/dto"
	"github.com/eleven-am/call-backend/internal/shared"
	"github.com/eleven-am/call-backend/internal/telephony"
	"github.com/eleven-am/call-backend/internal/transcription"
	"github.com/labstack/echo/v4"
)

// OutboundDialer is the orchestration surface the HTTP layer needs.
type OutboundDialer interface {
	StartOutboundCall(to string) telephony.DialResult
}

type HandlerConfig struct {
	// WSBaseURL is the externally reachable websocket origin, e.g.
	// wss://voice.example.com.
	WSBaseURL string
	// Greeting is spoken by Twilio while the media stream connects.
	Greeting string
	Defaults telephony.CallConfig
	// Summary is the redacted configuration view served at the root
	// endpoint.
	Summary dto.ConfigSummary

	Dialer OutboundDialer
	// Batch transcribes recorded call media by URL. Optional; the
	// endpoint reports 503 when absent.
	Batch    transcription.BatchTranscriber
	Sessions Sessions
	Store    configstore.Store
	Log      *slog.Logger
}

// Handler exposes the telephony webhook surface: outbound dial requests,
// the inbound-call webhook, TwiML answers, and the media-stream socket.
type Handler struct {
	cfg HandlerConfig
	log *slog.Logger
}

func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	return &Handler{
		cfg: cfg,
		log: cfg.Log.With("component", "gateway"),
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Root)
	e.POST("/calls/outbound", h.StartOutboundCall)
	e.POST("/transcriptions", h.TranscribeRecording)
	e.POST("/inbound_call", h.InboundCall)
	e.POST("/twiml", h.AnswerTwiML)
	e.GET("/twiml", h.AnswerTwiML)
	e.GET("/media-stream", h.MediaStream)
}

// StartOutboundCall dials the requested number. The dialer never
// returns an error; its result is mapped onto the response so callers
// can react to skipped and failed attempts.
func (h *Handler) StartOutboundCall(c echo.Context) error {
	var req dto.OutboundCallRequest
	if err := c.Bind(&req); err != nil {
		return shared.BadRequest("invalid_request", "invalid request body")
	}

	result := h.cfg.Dialer.StartOutboundCall(req.To)

	if result.Status == telephony.DialStarted {
		h.saveCallConfig(c, result.CallSID, req.To, shared.DirectionOutbound)
	}

	resp := dto.OutboundCallResponse{
		Status:  string(result.Status),
		CallSID: result.CallSID,
		Reason:  result.Reason,
	}

	status := http.StatusOK
	if result.Status == telephony.DialFailed {
		status = http.StatusBadGateway
	}
	return c.JSON(status, resp)
}

// saveCallConfig records the per-call configuration so the media-stream
// handler can recover this call's strategy when its stream starts. A
// store fault is not fatal; the call proceeds on process defaults.
func (h *Handler) saveCallConfig(c echo.Context, callSid, to string, direction shared.CallDirection) {
	if h.cfg.Store == nil || callSid == "" {
		return
	}
	cfg := h.cfg.Defaults
	cfg.To = to
	cfg.Direction = direction
	if err := h.cfg.Store.Save(c.Request().Context(), callSid, cfg); err != nil {
		h.log.Warn("failed to save call config", "call_sid", callSid, "error", err)
	}
}

// TranscribeRecording runs a recorded call through the batch
// transcriber. This blocks for the duration of the provider job, so
// callers should budget generous client timeouts.
func (h *Handler) TranscribeRecording(c echo.Context) error {
	if h.cfg.Batch == nil {
		return shared.ServiceUnavailable("batch_unconfigured", "batch transcription not configured")
	}

	var req dto.TranscriptionRequest
	if err := c.Bind(&req); err != nil {
		return shared.BadRequest("invalid_request", "invalid request body")
	}
	if req.MediaURL == "" {
		return shared.BadRequest("missing_media_url", "media_url is required")
	}

	transcript, err := h.cfg.Batch.Transcribe(c.Request().Context(), req.MediaURL)
	if err != nil {
		h.log.Error("batch transcription failed", "media_url", req.MediaURL, "error", err)
		switch {
		case errors.Is(err, shared.ErrJobTimeout):
			return shared.GatewayTimeout("job_timeout", "transcription job timed out")
		case errors.Is(err, shared.ErrJobFailed):
			return shared.BadGateway("job_failed", "transcription job failed")
		default:
			return shared.BadGateway("transcription_failed", "transcription failed")
		}
	}

	return c.JSON(http.StatusOK, dto.TranscriptionResponse{Transcript: transcript})
}

// InboundCall answers Twilio's inbound-call webhook: it records the
// call's configuration and returns TwiML that connects the caller to
// the media stream.
func (h *Handler) InboundCall(c echo.Context) error {
	var req dto.InboundCallRequest
	if err := c.Bind(&req); err != nil {
		return shared.BadRequest("invalid_webhook", "invalid webhook payload")
	}
	h.log.Info("inbound call", "call_sid", req.CallSid, "from", req.From)

	h.saveCallConfig(c, req.CallSid, req.From, shared.DirectionInbound)

	return h.respondTwiML(c)
}

// AnswerTwiML serves the answer document for outbound calls once the
// callee picks up.
func (h *Handler) AnswerTwiML(c echo.Context) error {
	return h.respondTwiML(c)
}

func (h *Handler) respondTwiML(c echo.Context) error {
	doc, err := telephony.StreamTwiML(h.cfg.WSBaseURL+"/media-stream", h.cfg.Greeting)
	if err != nil {
		h.log.Error("twiml generation failed", "error", err)
		return shared.InternalError("twiml_failed", "twiml generation failed")
	}
	return c.Blob(http.StatusOK, "text/xml", []byte(doc))
}

// Root reports a redacted view of the process configuration, handy when
// wiring up Twilio consoles and tunnels.
func (h *Handler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, h.cfg.Summary)
}
