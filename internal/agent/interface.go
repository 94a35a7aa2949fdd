package agent

import "context"

// Responder is the conversational collaborator: transcript text in,
// reply text out. Implementations keep per-call history; use one
// Responder per call.
type Responder interface {
	Respond(ctx context.Context, input string) (string, error)
	Greeting() string
}
