package core

// CommandKind describes what a caller wants the hub to do.
type CommandKind int

const (
	// CommandOpen creates a new chat session.
	CommandOpen CommandKind = iota
	// CommandSubmit submits a quick reply to a session.
	CommandSubmit
	// CommandComplete delivers the bot reply for a pending submission.
	CommandComplete
	// CommandSnapshot reads the session state.
	CommandSnapshot
	// CommandSubscribe attaches a subscriber to a session.
	CommandSubscribe
	// CommandUnsubscribe detaches a subscriber.
	CommandUnsubscribe
	// CommandClose discards a session.
	CommandClose
)

// Command represents an action processed by the hub loop.
type Command struct {
	Kind       CommandKind
	SessionID  string
	Text       string
	Subscriber *Subscriber
	seq        uint64
	reply      chan result
}

type result struct {
	session SessionInfo
	submit  SubmitResult
	err     error
}
