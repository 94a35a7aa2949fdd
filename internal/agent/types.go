package agent

type Config struct {
	Model          string
	PromptPreamble string
	InitialMessage string
}

const (
	defaultModel = "gpt-4o-mini"

	defaultPromptPreamble = "You are a helpful assistant for a dental clinic. " +
		"Assist customers with booking appointments, answering FAQs about services " +
		"(like teeth cleaning, whitening, braces), and providing clinic timings."

	defaultInitialMessage = "Hello! Welcome to Royal Apple Dental Clinic. How can I assist you today?"
)

func normalizeConfig(cfg Config) Config {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.PromptPreamble == "" {
		cfg.PromptPreamble = defaultPromptPreamble
	}
	if cfg.InitialMessage == "" {
		cfg.InitialMessage = defaultInitialMessage
	}
	return cfg
}
