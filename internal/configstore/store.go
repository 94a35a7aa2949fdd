package configstore

import (
	"context"

	"github.com/eleven-am/call-backend/internal/telephony"
)

// Store keeps per-call configuration for the lifetime of a call, keyed
// by call SID, so the webhook handlers that answer a call can recover
// the parameters the dialer chose for it.
type Store interface {
	Save(ctx context.Context, callSid string, cfg telephony.CallConfig) error
	Get(ctx context.Context, callSid string) (telephony.CallConfig, error)
	Delete(ctx context.Context, callSid string) error
}
