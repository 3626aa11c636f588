package core

import "time"

// Session is one visitor's chat demo and the subscribers watching it.
type Session struct {
	ID         string
	widget     *Widget
	subs       map[*Subscriber]struct{}
	pending    Task
	seq        uint64
	watched    bool
	lastActive time.Time
}

func newSession(id string, widget *Widget, now time.Time) *Session {
	return &Session{
		ID:         id,
		widget:     widget,
		subs:       make(map[*Subscriber]struct{}),
		lastActive: now,
	}
}

// AddSubscriber inserts a subscriber. Returns true if newly added.
func (s *Session) AddSubscriber(sub *Subscriber) bool {
	if _, exists := s.subs[sub]; exists {
		return false
	}
	s.subs[sub] = struct{}{}
	return true
}

// RemoveSubscriber deletes a subscriber. Returns true if removed.
func (s *Session) RemoveSubscriber(sub *Subscriber) bool {
	if _, exists := s.subs[sub]; !exists {
		return false
	}
	delete(s.subs, sub)
	return true
}

// Broadcast sends an event to all subscribers of the session.
func (s *Session) Broadcast(event *Event) {
	for sub := range s.subs {
		select {
		case sub.Events <- event:
		default:
			// Drop if slow consumer.
		}
	}
}

// Idle reports whether nobody watches the session and no reply is pending.
func (s *Session) Idle() bool {
	return len(s.subs) == 0 && !s.widget.Typing()
}

func (s *Session) touch(now time.Time) {
	s.lastActive = now
}
