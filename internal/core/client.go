package core

// Subscriber receives events of one chat session.
type Subscriber struct {
	ID        string
	SessionID string
	Events    chan *Event
}

// NewSubscriber constructs a subscriber with an initialized event channel.
func NewSubscriber(id, sessionID string) *Subscriber {
	return &Subscriber{
		ID:        id,
		SessionID: sessionID,
		Events:    make(chan *Event, 16),
	}
}
