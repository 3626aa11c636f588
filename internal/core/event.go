package core

import "html/template"

// EventKind is a notification the hub emits to subscribers.
type EventKind int

const (
	// EventMessage notifies subscribers about an appended message.
	EventMessage EventKind = iota
	// EventTyping notifies subscribers that the typing flag changed.
	EventTyping
	// EventRender delivers freshly rendered widget markup.
	EventRender
	// EventClosed tells subscribers the session is gone.
	EventClosed
)

func (k EventKind) String() string {
	switch k {
	case EventMessage:
		return "message"
	case EventTyping:
		return "typing"
	case EventRender:
		return "render"
	case EventClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Event is sent to subscribers to describe what happened in a session.
type Event struct {
	Kind      EventKind
	SessionID string
	Message   Message
	Typing    bool
	HTML      template.HTML // EventRender only
}
