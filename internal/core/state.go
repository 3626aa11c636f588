package core

import (
	"strings"
	"time"
)

// State is the chat demo state rendered by the widget.
type State struct {
	Messages []Message
	IsTyping bool
}

// Clone returns a copy that shares nothing with the receiver.
func (s State) Clone() State {
	msgs := make([]Message, len(s.Messages))
	copy(msgs, s.Messages)
	return State{Messages: msgs, IsTyping: s.IsTyping}
}

// Widget owns the state of one chat demo. It is not safe for concurrent use;
// the hub serializes every call through its event loop.
type Widget struct {
	state  State
	nextID int64
	now    func() time.Time
}

// NewWidget creates a widget seeded with the bot greeting.
func NewWidget(greeting string, now func() time.Time) *Widget {
	if now == nil {
		now = time.Now
	}
	w := &Widget{now: now}
	w.append(SenderBot, greeting)
	return w
}

// Submit appends a user message and marks the bot as typing.
// Blank text or a pending reply makes it a no-op.
func (w *Widget) Submit(text string) (Message, bool) {
	if strings.TrimSpace(text) == "" || w.state.IsTyping {
		return Message{}, false
	}
	msg := w.append(SenderUser, text)
	w.state.IsTyping = true
	return msg, true
}

// Complete appends the bot reply for the pending submission.
func (w *Widget) Complete(reply string) (Message, bool) {
	if !w.state.IsTyping {
		return Message{}, false
	}
	msg := w.append(SenderBot, reply)
	w.state.IsTyping = false
	return msg, true
}

// Typing reports whether a bot reply is pending.
func (w *Widget) Typing() bool {
	return w.state.IsTyping
}

// State returns a copy of the current state.
func (w *Widget) State() State {
	return w.state.Clone()
}

func (w *Widget) append(sender Sender, text string) Message {
	w.nextID++
	msg := Message{
		ID:        w.nextID,
		Sender:    sender,
		Text:      text,
		CreatedAt: w.now(),
	}
	w.state.Messages = append(w.state.Messages, msg)
	return msg
}
