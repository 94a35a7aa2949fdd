package dto

type OutboundCallRequest struct {
	To string `json:"to" form:"to_phone"`
}

type OutboundCallResponse struct {
	Status  string `json:"status"`
	CallSID string `json:"call_sid,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

type InboundCallRequest struct {
	CallSid string `form:"CallSid"`
	From    string `form:"From"`
	To      string `form:"To"`
}

// ConfigSummary is what the root endpoint reports about the running
// process. Secrets are redacted to presence flags.
type ConfigSummary struct {
	BaseURL              string `json:"base_url"`
	CallerNumber         string `json:"caller_number"`
	Synthesizer          string `json:"synthesizer"`
	Transcriber          string `json:"transcriber"`
	AgentModel           string `json:"agent_model"`
	TwilioConfigured     bool   `json:"twilio_configured"`
	OpenAIConfigured     bool   `json:"openai_configured"`
	ElevenLabsConfigured bool   `json:"elevenlabs_configured"`
}

type TranscriptionRequest struct {
	MediaURL string `json:"media_url" form:"media_url"`
}

type TranscriptionResponse struct {
	Transcript string `json:"transcript"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}
