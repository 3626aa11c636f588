package core

import "time"

// Sender identifies who authored a chat message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message is the domain model for a chat message.
type Message struct {
	ID        int64
	Sender    Sender
	Text      string
	CreatedAt time.Time
}

// IsUser reports whether the message was submitted by the visitor.
func (m Message) IsUser() bool {
	return m.Sender == SenderUser
}
