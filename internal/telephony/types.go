package telephony

import (
	"fmt"

	"github.com/eleven-am/call-backend/internal/agent"
	"github.com/eleven-am/call-backend/internal/shared"
)

type TwilioConfig struct {
	AccountSID string
	AuthToken  string
}

// CallConfig is the immutable bundle of parameters for one call attempt.
// Built once per attempt from process-wide defaults, never mutated after
// the call is started.
type CallConfig struct {
	BaseURL string
	To      string
	From    string

	Direction shared.CallDirection

	Twilio TwilioConfig
	Agent  agent.Config

	// Synthesizer and Transcriber name the strategy for this call,
	// e.g. "polly"/"elevenlabs" and "streaming"/"batch".
	Synthesizer string
	Transcriber string
}

func (c CallConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("%w: missing base URL", shared.ErrConfiguration)
	}
	if c.From == "" {
		return fmt.Errorf("%w: missing caller number", shared.ErrConfiguration)
	}
	if c.Twilio.AccountSID == "" || c.Twilio.AuthToken == "" {
		return fmt.Errorf("%w: missing telephony credentials", shared.ErrConfiguration)
	}
	return nil
}
