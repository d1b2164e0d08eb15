// Package chat holds the conversation history value types shared between
// the query use case and the model transport.
package chat

// Sender identifies who produced a message.
type Sender string

// Known senders. Anything other than SenderUser is treated as the assistant
// when mapping history onto model roles.
const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// Message is a single turn in a chat history. Transient — constructed per
// request, never persisted.
type Message struct {
	Text      string
	Sender    Sender
	Timestamp int64 // unix milliseconds
}
