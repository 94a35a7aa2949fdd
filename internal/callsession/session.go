package callsession

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/eleven-am/call-backend/internal/agent"
	"github.com/eleven-am/call-backend/internal/shared"
	"github.com/eleven-am/call-backend/internal/synthesis"
	"github.com/eleven-am/call-backend/internal/transcription"
)

const audioBufferSize = 256

// AudioSink receives synthesized audio for playback on a stream.
type AudioSink interface {
	WriteAudio(streamSid string, audio []byte) error
}

type Config struct {
	StreamSID   string
	CallSID     string
	Transcriber transcription.StreamTranscriber
	Responder   agent.Responder
	Synthesizer synthesis.Synthesizer
	Sink        AudioSink
}

// Session owns one call's pipeline: inbound audio chunks flow to the
// streaming transcriber, the final transcript to the agent, and the
// agent's reply through the synthesizer back to the sink. Nothing in a
// session is shared with other sessions.
type Session struct {
	sessionID string
	streamSid string
	callSid   string

	stt  transcription.StreamTranscriber
	conv agent.Responder
	tts  synthesis.Synthesizer
	sink AudioSink

	ctx    context.Context
	cancel context.CancelFunc
	log    *slog.Logger

	audioCh chan []byte
	audioMu sync.Mutex
	ended   bool

	done chan struct{}
}

func New(cfg Config, log *slog.Logger) (*Session, error) {
	if cfg.Transcriber == nil || cfg.Responder == nil || cfg.Synthesizer == nil || cfg.Sink == nil {
		return nil, fmt.Errorf("callsession: missing pipeline dependency")
	}
	if log == nil {
		log = slog.Default()
	}

	sessionID := shared.NewID("sess_")
	ctx, cancel := context.WithCancel(context.Background())

	return &Session{
		sessionID: sessionID,
		streamSid: cfg.StreamSID,
		callSid:   cfg.CallSID,
		stt:       cfg.Transcriber,
		conv:      cfg.Responder,
		tts:       cfg.Synthesizer,
		sink:      cfg.Sink,
		ctx:       ctx,
		cancel:    cancel,
		log:       log.With("session_id", sessionID, "stream_sid", cfg.StreamSID),
		audioCh:   make(chan []byte, audioBufferSize),
		done:      make(chan struct{}),
	}, nil
}

func (s *Session) SessionID() string {
	return s.sessionID
}

func (s *Session) StreamSID() string {
	return s.streamSid
}

// Start launches the pipeline. The session speaks the agent's greeting,
// then transcribes inbound audio until EndAudio, then plays the agent's
// reply. Faults inside the pipeline degrade the conversation turn; they
// are never surfaced to the telephony transport.
func (s *Session) Start() {
	go s.run()
}

func (s *Session) run() {
	defer close(s.done)
	// Once the pipeline is finished, whether cleanly or on a fault,
	// late audio pushes must not back up behind a full buffer.
	defer s.cancel()

	if greeting := s.conv.Greeting(); greeting != "" {
		s.speak(greeting)
	}

	transcript, err := s.stt.Transcribe(s.ctx, s.audioCh)
	if err != nil {
		s.log.Warn("transcription failed, aborting turn", "error", err)
		return
	}
	if transcript == "" {
		s.log.Debug("empty transcript, nothing to respond to")
		return
	}
	s.log.Info("caller transcript", "text", transcript)

	reply, err := s.conv.Respond(s.ctx, transcript)
	if err != nil {
		s.log.Warn("agent response failed, dropping turn", "error", err)
		return
	}

	s.speak(reply)
}

func (s *Session) speak(text string) {
	audio, err := s.tts.Synthesize(s.ctx, text)
	if err != nil {
		s.log.Warn("synthesis failed, dropping utterance", "error", err)
		return
	}
	if err := s.sink.WriteAudio(s.streamSid, audio); err != nil {
		s.log.Warn("audio playback failed", "error", err)
	}
}

// PushAudio feeds one inbound chunk into the pipeline, preserving
// arrival order. Chunks pushed after EndAudio are dropped.
func (s *Session) PushAudio(chunk []byte) {
	s.audioMu.Lock()
	defer s.audioMu.Unlock()
	if s.ended {
		return
	}
	select {
	case s.audioCh <- chunk:
	case <-s.ctx.Done():
	}
}

// EndAudio signals that the caller's stream is exhausted, letting the
// transcriber finalize. Safe to call more than once.
func (s *Session) EndAudio() {
	s.audioMu.Lock()
	defer s.audioMu.Unlock()
	if s.ended {
		return
	}
	s.ended = true
	close(s.audioCh)
}

// Done is closed once the pipeline has finished its final turn.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Close ends the audio stream and cancels any in-flight provider work.
func (s *Session) Close() {
	s.EndAudio()
	s.cancel()
}
