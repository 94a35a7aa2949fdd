package telephony

import (
	"strings"
	"testing"
)

func TestStreamTwiML(t *testing.T) {
	out, err := StreamTwiML("wss://voice.example.com/media-stream", "Hello! How can I help?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"<Connect>",
		"<Stream",
		"wss://voice.example.com/media-stream",
		"Hello! How can I help?",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected TwiML to contain %q, got:\n%s", want, out)
		}
	}
}

func TestStreamTwiMLWithoutGreeting(t *testing.T) {
	out, err := StreamTwiML("wss://voice.example.com/media-stream", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out, "<Say>") {
		t.Errorf("expected no Say verb without a greeting, got:\n%s", out)
	}
	if !strings.Contains(out, "<Connect>") {
		t.Errorf("expected Connect verb, got:\n%s", out)
	}
}
