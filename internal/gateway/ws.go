package gateway

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/eleven-am/call-backend/internal/callsession"
	"github.com/eleven-am/call-backend/internal/shared"
	"github.com/eleven-am/call-backend/internal/telephony"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// Sessions narrows callsession.Manager to what the socket loop uses.
type Sessions interface {
	CreateSession(streamSid, callSid string, sink callsession.AudioSink, synthesizer string) (*callsession.Session, error)
	GetSession(streamSid string) (*callsession.Session, bool)
	RemoveSession(streamSid string)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		// Twilio's media-stream client sends no browser origin.
		return true
	},
}

// MediaStream handles a Twilio media-stream socket for the lifetime of
// one call. Audio frames are forwarded to the call's session; anything
// the session speaks comes back on the same socket.
func (h *Handler) MediaStream(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.log.Error("websocket upgrade failed", "error", err)
		return err
	}
	defer conn.Close()

	h.readLoop(c.Request().Context(), conn)
	return nil
}

func (h *Handler) readLoop(ctx context.Context, conn *websocket.Conn) {
	var streamSid, callSid string
	defer func() {
		if streamSid != "" {
			h.endStream(ctx, streamSid, callSid)
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Warn("websocket read failed", "stream_sid", streamSid, "error", err)
			}
			return
		}

		event, err := telephony.DecodeMediaEvent(raw)
		if err != nil {
			h.log.Warn("undecodable media event", "error", err)
			continue
		}

		switch event.Event {
		case telephony.EventStart:
			streamSid = event.Start.StreamSid
			callSid = event.Start.CallSid
			h.startStream(ctx, conn, event)
		case telephony.EventMedia:
			h.pushAudio(streamSid, event)
		case telephony.EventStop:
			if streamSid != "" {
				h.endStream(ctx, streamSid, callSid)
				streamSid, callSid = "", ""
			}
		}
	}
}

func (h *Handler) startStream(ctx context.Context, conn *websocket.Conn, event telephony.MediaEvent) {
	streamSid := event.Start.StreamSid
	callSid := event.Start.CallSid
	h.log.Info("media stream started", "stream_sid", streamSid, "call_sid", callSid)

	callCfg := h.callConfigFor(ctx, callSid)

	_, err := h.cfg.Sessions.CreateSession(streamSid, callSid, newWSSink(conn), callCfg.Synthesizer)
	if err != nil {
		h.log.Error("session creation failed", "stream_sid", streamSid, "error", err)
	}
}

// callConfigFor recovers the configuration saved when this call was
// dialed or answered. A miss (or no store) falls back to the process
// defaults.
func (h *Handler) callConfigFor(ctx context.Context, callSid string) telephony.CallConfig {
	if h.cfg.Store == nil || callSid == "" {
		return h.cfg.Defaults
	}
	callCfg, err := h.cfg.Store.Get(ctx, callSid)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			h.log.Warn("call config lookup failed", "call_sid", callSid, "error", err)
		}
		return h.cfg.Defaults
	}
	return callCfg
}

func (h *Handler) pushAudio(streamSid string, event telephony.MediaEvent) {
	session, ok := h.cfg.Sessions.GetSession(streamSid)
	if !ok {
		return
	}
	audio, err := event.AudioChunk()
	if err != nil {
		h.log.Warn("undecodable audio payload", "stream_sid", streamSid, "error", err)
		return
	}
	session.PushAudio(audio)
}

func (h *Handler) endStream(ctx context.Context, streamSid, callSid string) {
	session, ok := h.cfg.Sessions.GetSession(streamSid)
	if ok {
		session.EndAudio()
	}
	h.cfg.Sessions.RemoveSession(streamSid)

	if h.cfg.Store != nil && callSid != "" {
		if err := h.cfg.Store.Delete(ctx, callSid); err != nil {
			h.log.Warn("call config cleanup failed", "call_sid", callSid, "error", err)
		}
	}
	h.log.Info("media stream ended", "stream_sid", streamSid)
}

// wsSink writes synthesized audio back to Twilio as media messages.
// gorilla connections allow one concurrent writer, so writes are
// serialized behind a mutex.
type wsSink struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func newWSSink(conn *websocket.Conn) *wsSink {
	return &wsSink{conn: conn}
}

func (s *wsSink) WriteAudio(streamSid string, audio []byte) error {
	msg, err := telephony.EncodeMediaMessage(streamSid, audio)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteMessage(websocket.TextMessage, msg)
}
