package telephony

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Media stream event names sent by Twilio over the websocket.
const (
	EventStart = "start"
	EventMedia = "media"
	EventStop  = "stop"
	EventMark  = "mark"
)

// MediaEvent is one message on a Twilio media stream.
type MediaEvent struct {
	Event string `json:"event"`
	Start struct {
		CallSid   string `json:"callSid"`
		StreamSid string `json:"streamSid"`
	} `json:"start,omitempty"`
	Media struct {
		Payload string `json:"payload"`
	} `json:"media,omitempty"`
	Stop struct {
		StreamSid string `json:"streamSid"`
	} `json:"stop,omitempty"`
	StreamSid string `json:"streamSid,omitempty"`
}

func DecodeMediaEvent(msg []byte) (MediaEvent, error) {
	var ev MediaEvent
	if err := json.Unmarshal(msg, &ev); err != nil {
		return MediaEvent{}, fmt.Errorf("decode media event: %w", err)
	}
	return ev, nil
}

// AudioChunk decodes the base64 payload of a media event into raw audio
// bytes. Chunks stay in arrival order; the caller owns the returned slice.
func (e MediaEvent) AudioChunk() ([]byte, error) {
	chunk, err := base64.StdEncoding.DecodeString(e.Media.Payload)
	if err != nil {
		return nil, fmt.Errorf("decode media payload: %w", err)
	}
	return chunk, nil
}

type outboundMedia struct {
	Event     string `json:"event"`
	StreamSid string `json:"streamSid"`
	Media     struct {
		Payload string `json:"payload"`
	} `json:"media"`
}

// EncodeMediaMessage wraps synthesized audio as a media event for
// playback on the given stream.
func EncodeMediaMessage(streamSid string, audio []byte) ([]byte, error) {
	msg := outboundMedia{
		Event:     EventMedia,
		StreamSid: streamSid,
	}
	msg.Media.Payload = base64.StdEncoding.EncodeToString(audio)

	out, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode media event: %w", err)
	}
	return out, nil
}
