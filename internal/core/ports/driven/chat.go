package driven

import "context"

// Chat message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatProvider produces a completion for an ordered list of messages.
//
// Implementations include:
//   - OpenAI (gpt-5-nano, gpt-4o-mini)
//   - Gemini (gemini-2.5-flash-lite)
//
// Failures wrap domain.ErrProvider.
type ChatProvider interface {
	// Generate returns the model's reply to the conversation.
	Generate(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)

	// ModelName returns the name of the chat model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// ChatMessage represents a message in a conversation.
type ChatMessage struct {
	// Role is the message sender: "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// ChatOptions configures a single generation.
// Zero values fall back to the provider's configured defaults.
type ChatOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness. Nil uses the configured temperature.
	Temperature *float64
}
