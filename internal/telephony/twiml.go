package telephony

import (
	"github.com/twilio/twilio-go/twiml"
)

// StreamTwiML builds the voice response that connects a call to the
// media-stream websocket, optionally speaking a greeting first.
func StreamTwiML(wsURL, greeting string) (string, error) {
	var elements []twiml.Element

	if greeting != "" {
		elements = append(elements, &twiml.VoiceSay{Message: greeting})
	}

	stream := twiml.VoiceStream{
		Name: "media-stream",
		Url:  wsURL,
	}
	elements = append(elements, &twiml.VoiceConnect{
		InnerElements: []twiml.Element{stream},
	})

	return twiml.Voice(elements)
}
