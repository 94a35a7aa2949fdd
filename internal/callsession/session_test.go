package callsession

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/eleven-am/call-backend/internal/shared"
)

type fakeTranscriber struct {
	transcript string
	err        error
	received   [][]byte
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audio <-chan []byte) (string, error) {
	for chunk := range audio {
		f.received = append(f.received, chunk)
	}
	if f.err != nil {
		return "", f.err
	}
	return f.transcript, nil
}

type fakeResponder struct {
	greeting string
	reply    string
	err      error
	inputs   []string
}

func (f *fakeResponder) Respond(ctx context.Context, input string) (string, error) {
	f.inputs = append(f.inputs, input)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeResponder) Greeting() string {
	return f.greeting
}

type fakeSynth struct {
	err   error
	texts []string
}

func (f *fakeSynth) Synthesize(ctx context.Context, text string) ([]byte, error) {
	f.texts = append(f.texts, text)
	if f.err != nil {
		return nil, f.err
	}
	return []byte("audio:" + text), nil
}

type fakeSink struct {
	mu     sync.Mutex
	err    error
	writes []string
}

func (f *fakeSink) WriteAudio(streamSid string, audio []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = append(f.writes, streamSid+"|"+string(audio))
	return f.err
}

func newTestSession(t *testing.T, stt *fakeTranscriber, conv *fakeResponder, tts *fakeSynth, sink *fakeSink) *Session {
	t.Helper()
	s, err := New(Config{
		StreamSID:   "MZ1",
		CallSID:     "CA1",
		Transcriber: stt,
		Responder:   conv,
		Synthesizer: tts,
		Sink:        sink,
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return s
}

func waitDone(t *testing.T, s *Session) {
	t.Helper()
	select {
	case <-s.Done():
	case <-time.After(time.Second):
		t.Fatal("session did not finish")
	}
}

func TestSessionFullTurn(t *testing.T) {
	stt := &fakeTranscriber{transcript: "i want an appointment"}
	conv := &fakeResponder{greeting: "Hello!", reply: "Sure, when suits you?"}
	tts := &fakeSynth{}
	sink := &fakeSink{}

	s := newTestSession(t, stt, conv, tts, sink)
	s.Start()

	s.PushAudio([]byte{1})
	s.PushAudio([]byte{2})
	s.EndAudio()
	waitDone(t, s)

	if len(stt.received) != 2 {
		t.Errorf("expected 2 chunks forwarded, got %d", len(stt.received))
	}
	if len(conv.inputs) != 1 || conv.inputs[0] != "i want an appointment" {
		t.Errorf("expected transcript handed to agent, got %v", conv.inputs)
	}
	if len(tts.texts) != 2 || tts.texts[0] != "Hello!" || tts.texts[1] != "Sure, when suits you?" {
		t.Errorf("expected greeting then reply synthesized, got %v", tts.texts)
	}
	if len(sink.writes) != 2 {
		t.Fatalf("expected 2 audio writes, got %d", len(sink.writes))
	}
	if sink.writes[1] != "MZ1|audio:Sure, when suits you?" {
		t.Errorf("unexpected playback %q", sink.writes[1])
	}
}

func TestSessionTranscriptionFaultDegradesTurn(t *testing.T) {
	stt := &fakeTranscriber{err: shared.ErrTranscription}
	conv := &fakeResponder{reply: "should not happen"}
	tts := &fakeSynth{}
	sink := &fakeSink{}

	s := newTestSession(t, stt, conv, tts, sink)
	s.Start()
	s.EndAudio()
	waitDone(t, s)

	if len(conv.inputs) != 0 {
		t.Error("agent must not run after a transcription fault")
	}
	if len(sink.writes) != 0 {
		t.Error("no playback expected after an aborted turn")
	}
}

// failFastTranscriber faults before consuming any audio, like a
// provider rejecting the session at open.
type failFastTranscriber struct{}

func (failFastTranscriber) Transcribe(context.Context, <-chan []byte) (string, error) {
	return "", shared.ErrTranscription
}

func TestSessionFaultDoesNotWedgeAudioPush(t *testing.T) {
	conv := &fakeResponder{reply: "should not happen"}
	sink := &fakeSink{}
	s, err := New(Config{
		StreamSID:   "MZ1",
		CallSID:     "CA1",
		Transcriber: failFastTranscriber{},
		Responder:   conv,
		Synthesizer: &fakeSynth{},
		Sink:        sink,
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Start()

	// Nothing drains the audio channel once the pipeline aborts; pushes
	// well past the buffer size must still return, and Close must not
	// deadlock behind a blocked push.
	pushed := make(chan struct{})
	go func() {
		defer close(pushed)
		for i := 0; i < audioBufferSize*2+1; i++ {
			s.PushAudio([]byte{byte(i)})
		}
		s.Close()
	}()

	select {
	case <-pushed:
	case <-time.After(2 * time.Second):
		t.Fatal("audio pushes blocked after the pipeline aborted")
	}
	waitDone(t, s)

	if len(sink.writes) != 0 {
		t.Error("no playback expected after an aborted pipeline")
	}
}

func TestSessionEmptyTranscriptSkipsAgent(t *testing.T) {
	stt := &fakeTranscriber{transcript: ""}
	conv := &fakeResponder{}
	tts := &fakeSynth{}
	sink := &fakeSink{}

	s := newTestSession(t, stt, conv, tts, sink)
	s.Start()
	s.EndAudio()
	waitDone(t, s)

	if len(conv.inputs) != 0 {
		t.Error("agent must not run on an empty transcript")
	}
}

func TestSessionSynthesisFaultDropsUtterance(t *testing.T) {
	stt := &fakeTranscriber{transcript: "hello"}
	conv := &fakeResponder{reply: "hi"}
	tts := &fakeSynth{err: shared.ErrSynthesis}
	sink := &fakeSink{}

	s := newTestSession(t, stt, conv, tts, sink)
	s.Start()
	s.EndAudio()
	waitDone(t, s)

	if len(sink.writes) != 0 {
		t.Error("no playback expected when synthesis fails")
	}
}

func TestSessionAgentFaultDropsTurn(t *testing.T) {
	stt := &fakeTranscriber{transcript: "hello"}
	conv := &fakeResponder{err: errors.New("model unavailable")}
	tts := &fakeSynth{}
	sink := &fakeSink{}

	s := newTestSession(t, stt, conv, tts, sink)
	s.Start()
	s.EndAudio()
	waitDone(t, s)

	if len(tts.texts) != 0 {
		t.Error("no synthesis expected when the agent fails")
	}
}

func TestSessionPushAfterEndIsDropped(t *testing.T) {
	stt := &fakeTranscriber{transcript: "x"}
	s := newTestSession(t, stt, &fakeResponder{}, &fakeSynth{}, &fakeSink{})
	s.Start()

	s.EndAudio()
	s.PushAudio([]byte{9})
	s.EndAudio()
	waitDone(t, s)

	if len(stt.received) != 0 {
		t.Errorf("expected no chunks after EndAudio, got %d", len(stt.received))
	}
}

func TestNewSessionRequiresDependencies(t *testing.T) {
	_, err := New(Config{StreamSID: "MZ1"}, nil)
	if err == nil {
		t.Fatal("expected error for missing dependencies")
	}
}
