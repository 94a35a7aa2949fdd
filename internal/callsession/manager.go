package callsession

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/eleven-am/call-backend/internal/agent"
	"github.com/eleven-am/call-backend/internal/synthesis"
	"github.com/eleven-am/call-backend/internal/transcription"
)

type ManagerConfig struct {
	Transcriber transcription.StreamTranscriber
	Synthesizer synthesis.Synthesizer
	// Synthesizers holds named alternatives to the default, so a
	// per-call config can pick its synthesis strategy.
	Synthesizers map[string]synthesis.Synthesizer
	// NewResponder builds a fresh conversation per call so no dialogue
	// history crosses call boundaries.
	NewResponder func() agent.Responder
	Log          *slog.Logger
}

// Manager tracks live call sessions keyed by stream SID. Provider
// handles are shared read-only across sessions; each session opens its
// own recognition session and conversation.
type Manager struct {
	cfg      ManagerConfig
	sessions map[string]*Session
	mu       sync.RWMutex
	log      *slog.Logger
}

func NewManager(cfg ManagerConfig) *Manager {
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	return &Manager{
		cfg:      cfg,
		sessions: make(map[string]*Session),
		log:      cfg.Log.With("component", "callsession_manager"),
	}
}

// CreateSession opens the pipeline for one stream. synthesizer names
// the synthesis strategy for this call; an empty or unknown name falls
// back to the default.
func (m *Manager) CreateSession(streamSid, callSid string, sink AudioSink, synthesizer string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[streamSid]; exists {
		return nil, fmt.Errorf("session already active for stream %s", streamSid)
	}

	session, err := New(Config{
		StreamSID:   streamSid,
		CallSID:     callSid,
		Transcriber: m.cfg.Transcriber,
		Responder:   m.cfg.NewResponder(),
		Synthesizer: m.synthesizerFor(synthesizer),
		Sink:        sink,
	}, m.log)
	if err != nil {
		return nil, err
	}

	m.sessions[streamSid] = session
	session.Start()

	m.log.Info("call session created", "session_id", session.SessionID(), "stream_sid", streamSid, "call_sid", callSid)
	return session, nil
}

func (m *Manager) synthesizerFor(name string) synthesis.Synthesizer {
	if s, ok := m.cfg.Synthesizers[name]; ok {
		return s
	}
	return m.cfg.Synthesizer
}

func (m *Manager) GetSession(streamSid string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[streamSid]
	return session, ok
}

func (m *Manager) RemoveSession(streamSid string) {
	m.mu.Lock()
	session, ok := m.sessions[streamSid]
	if ok {
		delete(m.sessions, streamSid)
	}
	m.mu.Unlock()

	if session != nil {
		session.Close()
		m.log.Info("call session removed", "stream_sid", streamSid)
	}
}

func (m *Manager) SessionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
