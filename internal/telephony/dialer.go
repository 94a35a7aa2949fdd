package telephony

import (
	"fmt"
	"log/slog"

	"github.com/eleven-am/call-backend/internal/shared"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// CallCreator abstracts the Twilio call-creation operation used by
// [Dialer]. The rest client's Api service satisfies it.
type CallCreator interface {
	CreateCall(params *openapi.CreateCallParams) (*openapi.ApiV2010Call, error)
}

type DialStatus string

const (
	DialStarted DialStatus = "started"
	DialSkipped DialStatus = "skipped"
	DialFailed  DialStatus = "failed"
)

// DialResult reports one outbound call attempt. Failures are contained
// here rather than returned as errors: a best-effort dialer must never
// take its host down with it.
type DialResult struct {
	Status  DialStatus `json:"status"`
	CallSID string     `json:"call_sid,omitempty"`
	Reason  string     `json:"reason,omitempty"`
}

// Dialer assembles a CallConfig for one outbound attempt and starts it.
type Dialer struct {
	api      CallCreator
	defaults CallConfig
	log      *slog.Logger
}

// NewDialer builds a dialer around process-wide defaults. The defaults'
// To field is ignored; the destination is supplied per attempt.
func NewDialer(api CallCreator, defaults CallConfig, log *slog.Logger) *Dialer {
	if log == nil {
		log = slog.Default()
	}
	return &Dialer{
		api:      api,
		defaults: defaults,
		log:      log.With("component", "dialer"),
	}
}

// StartOutboundCall dials the destination. An empty destination is a
// silent skip, not an error. Whether the number is syntactically valid
// is left to the telephony provider; a malformed number comes back as a
// failed result. No fault, including a panic in the telephony client,
// escapes this method.
func (d *Dialer) StartOutboundCall(to string) (result DialResult) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("outbound call panicked", "to", to, "panic", r)
			result = DialResult{Status: DialFailed, Reason: fmt.Sprint(r)}
		}
	}()

	if to == "" {
		d.log.Debug("no destination number, skipping outbound call")
		return DialResult{Status: DialSkipped}
	}

	cfg := d.defaults
	cfg.To = to
	cfg.Direction = shared.DirectionOutbound
	if err := cfg.Validate(); err != nil {
		d.log.Error("outbound call misconfigured", "to", to, "error", err)
		return DialResult{Status: DialFailed, Reason: err.Error()}
	}

	params := &openapi.CreateCallParams{}
	params.SetTo(cfg.To)
	params.SetFrom(cfg.From)
	params.SetUrl(cfg.BaseURL + "/twiml")
	params.SetMethod("POST")

	call, err := d.api.CreateCall(params)
	if err != nil {
		d.log.Error("outbound call failed", "to", to, "error", err)
		return DialResult{Status: DialFailed, Reason: err.Error()}
	}

	var sid string
	if call.Sid != nil {
		sid = *call.Sid
	}
	d.log.Info("outbound call started", "to", to, "call_sid", sid)
	return DialResult{Status: DialStarted, CallSID: sid}
}
