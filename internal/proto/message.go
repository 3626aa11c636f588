package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the browser.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	ProtocolVersion = 1

	InboundTypeHello = "hello"
	InboundTypeReply = "reply"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"

	EventNameMessage = "message"
	EventNameTyping  = "typing"
	EventNameRender  = "render"
	EventNameClosed  = "closed"
)

// HelloData is sent by the page to announce its protocol version.
type HelloData struct {
	Protocol int `json:"protocol,omitempty"`
}

// ReplyData is a quick reply clicked by the visitor.
type ReplyData struct {
	Text string `json:"text"`
}

// Outbound is the envelope for messages sent to the browser.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// EventMessage describes one appended chat message.
type EventMessage struct {
	ID     int64  `json:"id"`
	Sender string `json:"sender"`
	Text   string `json:"text"`
	TS     int64  `json:"ts"`
}

// EventTyping reports the typing indicator state.
type EventTyping struct {
	Typing bool `json:"typing"`
}

// EventRender carries the widget markup to swap into the page.
type EventRender struct {
	HTML   string `json:"html"`
	Typing bool   `json:"typing"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
