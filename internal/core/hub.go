package core

import (
	"context"
	"html/template"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultReplyDelay is how long the bot "types" before answering.
const DefaultReplyDelay = 1500 * time.Millisecond

// SessionInfo describes a session as seen by transports.
type SessionInfo struct {
	ID    string
	State State
	HTML  template.HTML
}

// SubmitResult reports the outcome of a quick reply submission.
type SubmitResult struct {
	Accepted bool
	Message  Message
	State    State
}

// Hub owns every chat session. All state changes, including delayed bot
// replies, run on the goroutine executing Run.
type Hub struct {
	commands chan *Command
	done     chan struct{}
	sessions map[string]*Session

	catalog     *Catalog
	classifier  *Classifier
	renderer    *Renderer
	scheduler   Scheduler
	replyDelay  time.Duration
	idleTimeout time.Duration
	unwatched   time.Duration
	now         func() time.Time
	newID       func() string
	log         *zerolog.Logger
}

// Option customizes a Hub.
type Option func(*Hub)

// WithScheduler replaces the timer used for delayed replies.
func WithScheduler(s Scheduler) Option {
	return func(h *Hub) { h.scheduler = s }
}

// WithReplyDelay sets the simulated typing delay.
func WithReplyDelay(d time.Duration) Option {
	return func(h *Hub) { h.replyDelay = d }
}

// WithIdleTimeout enables discarding unwatched sessions after d. Zero disables it.
func WithIdleTimeout(d time.Duration) Option {
	return func(h *Hub) { h.idleTimeout = d }
}

// WithUnwatchedTimeout discards sessions that never had a subscriber after d,
// usually shorter than the idle timeout. Zero falls back to the idle timeout.
func WithUnwatchedTimeout(d time.Duration) Option {
	return func(h *Hub) { h.unwatched = d }
}

// WithClassifier replaces the keyword rules.
func WithClassifier(c *Classifier) Option {
	return func(h *Hub) { h.classifier = c }
}

// WithClock sets the time source used for message timestamps and idle tracking.
func WithClock(now func() time.Time) Option {
	return func(h *Hub) { h.now = now }
}

// WithLogger attaches a logger.
func WithLogger(l *zerolog.Logger) Option {
	return func(h *Hub) { h.log = l }
}

// NewHub creates a hub answering with texts from catalog.
func NewHub(catalog *Catalog, opts ...Option) *Hub {
	nop := zerolog.Nop()
	h := &Hub{
		commands:   make(chan *Command, 64),
		done:       make(chan struct{}),
		sessions:   make(map[string]*Session),
		catalog:    catalog,
		classifier: DefaultClassifier(),
		renderer:   NewRenderer(catalog),
		scheduler:  TimerScheduler{},
		replyDelay: DefaultReplyDelay,
		now:        time.Now,
		newID:      uuid.NewString,
		log:        &nop,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Renderer returns the renderer used for widget markup.
func (h *Hub) Renderer() *Renderer {
	return h.renderer
}

// Catalog returns the text catalog.
func (h *Hub) Catalog() *Catalog {
	return h.catalog
}

// Run processes commands until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	var sweep <-chan time.Time
	if shortest := minPositive(h.idleTimeout, h.unwatched); shortest > 0 {
		interval := shortest / 2
		if interval < 10*time.Millisecond {
			interval = 10 * time.Millisecond
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		sweep = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return
		case cmd := <-h.commands:
			h.handle(cmd)
		case <-sweep:
			h.sweepIdle()
		}
	}
}

// Open creates a new session seeded with the greeting.
func (h *Hub) Open(ctx context.Context) (SessionInfo, error) {
	res, err := h.do(ctx, &Command{Kind: CommandOpen})
	return res.session, err
}

// Submit sends a quick reply. A blank text or a pending reply is ignored
// and reported as not accepted.
func (h *Hub) Submit(ctx context.Context, sessionID, text string) (SubmitResult, error) {
	res, err := h.do(ctx, &Command{Kind: CommandSubmit, SessionID: sessionID, Text: text})
	return res.submit, err
}

// Snapshot returns the current state and markup of a session.
func (h *Hub) Snapshot(ctx context.Context, sessionID string) (SessionInfo, error) {
	res, err := h.do(ctx, &Command{Kind: CommandSnapshot, SessionID: sessionID})
	return res.session, err
}

// Subscribe attaches sub to its session. The current markup is delivered first.
func (h *Hub) Subscribe(ctx context.Context, sub *Subscriber) error {
	_, err := h.do(ctx, &Command{Kind: CommandSubscribe, SessionID: sub.SessionID, Subscriber: sub})
	return err
}

// Unsubscribe detaches sub and closes its event channel.
func (h *Hub) Unsubscribe(ctx context.Context, sub *Subscriber) error {
	_, err := h.do(ctx, &Command{Kind: CommandUnsubscribe, SessionID: sub.SessionID, Subscriber: sub})
	return err
}

// Close discards a session and cancels its pending reply.
func (h *Hub) Close(ctx context.Context, sessionID string) error {
	_, err := h.do(ctx, &Command{Kind: CommandClose, SessionID: sessionID})
	return err
}

func (h *Hub) do(ctx context.Context, cmd *Command) (result, error) {
	cmd.reply = make(chan result, 1)
	select {
	case h.commands <- cmd:
	case <-ctx.Done():
		return result{}, ctx.Err()
	case <-h.done:
		return result{}, ErrHubStopped
	}
	select {
	case res := <-cmd.reply:
		return res, res.err
	case <-ctx.Done():
		return result{}, ctx.Err()
	case <-h.done:
		return result{}, ErrHubStopped
	}
}

// post enqueues a command without waiting for its result.
func (h *Hub) post(cmd *Command) {
	select {
	case h.commands <- cmd:
	case <-h.done:
	}
}

func (h *Hub) handle(cmd *Command) {
	var res result
	switch cmd.Kind {
	case CommandOpen:
		res = h.open()
	case CommandSubmit:
		res = h.submit(cmd)
	case CommandComplete:
		h.complete(cmd)
	case CommandSnapshot:
		res = h.snapshot(cmd.SessionID)
	case CommandSubscribe:
		res = h.subscribe(cmd)
	case CommandUnsubscribe:
		h.unsubscribe(cmd)
	case CommandClose:
		res = h.close(cmd.SessionID)
	}
	if cmd.reply != nil {
		cmd.reply <- res
	}
}

func (h *Hub) lookup(id string) (*Session, error) {
	s, ok := h.sessions[id]
	if !ok {
		return nil, coreError(ErrCodeSessionNotFound, ErrSessionNotFound)
	}
	return s, nil
}

func (h *Hub) open() result {
	id := h.newID()
	s := newSession(id, NewWidget(h.catalog.Text(MsgChatGreeting), h.now), h.now())
	h.sessions[id] = s
	h.log.Debug().Str("session_id", id).Msg("chat session opened")
	return result{session: h.info(s)}
}

func (h *Hub) submit(cmd *Command) result {
	s, err := h.lookup(cmd.SessionID)
	if err != nil {
		return result{err: err}
	}
	s.touch(h.now())

	msg, ok := s.widget.Submit(cmd.Text)
	if !ok {
		h.log.Debug().Str("session_id", s.ID).Bool("typing", s.widget.Typing()).Msg("quick reply ignored")
		return result{submit: SubmitResult{State: s.widget.State()}}
	}

	s.seq++
	complete := &Command{Kind: CommandComplete, SessionID: s.ID, Text: cmd.Text, seq: s.seq}
	s.pending = h.scheduler.AfterFunc(h.replyDelay, func() { h.post(complete) })

	h.publish(s, msg)
	return result{submit: SubmitResult{Accepted: true, Message: msg, State: s.widget.State()}}
}

func (h *Hub) complete(cmd *Command) {
	s, ok := h.sessions[cmd.SessionID]
	if !ok || s.pending == nil || s.seq != cmd.seq {
		return
	}
	s.pending = nil

	replyID := h.classifier.Classify(cmd.Text)
	msg, ok := s.widget.Complete(h.catalog.Text(replyID))
	if !ok {
		return
	}
	s.touch(h.now())
	h.log.Debug().Str("session_id", s.ID).Str("reply", replyID).Msg("bot replied")
	h.publish(s, msg)
}

func (h *Hub) snapshot(id string) result {
	s, err := h.lookup(id)
	if err != nil {
		return result{err: err}
	}
	return result{session: h.info(s)}
}

func (h *Hub) subscribe(cmd *Command) result {
	s, err := h.lookup(cmd.SessionID)
	if err != nil {
		return result{err: err}
	}
	if s.AddSubscriber(cmd.Subscriber) {
		s.watched = true
		s.touch(h.now())
		select {
		case cmd.Subscriber.Events <- h.renderEvent(s):
		default:
		}
	}
	return result{session: h.info(s)}
}

func (h *Hub) unsubscribe(cmd *Command) {
	s, ok := h.sessions[cmd.SessionID]
	if !ok {
		return
	}
	if s.RemoveSubscriber(cmd.Subscriber) {
		close(cmd.Subscriber.Events)
		s.touch(h.now())
	}
}

func (h *Hub) close(id string) result {
	s, err := h.lookup(id)
	if err != nil {
		return result{err: err}
	}
	h.discard(s)
	h.log.Debug().Str("session_id", id).Msg("chat session closed")
	return result{}
}

func (h *Hub) discard(s *Session) {
	if s.pending != nil {
		s.pending.Cancel()
		s.pending = nil
	}
	s.Broadcast(&Event{Kind: EventClosed, SessionID: s.ID})
	for sub := range s.subs {
		s.RemoveSubscriber(sub)
		close(sub.Events)
	}
	delete(h.sessions, s.ID)
}

func (h *Hub) sweepIdle() {
	now := h.now()
	for _, s := range h.sessions {
		if !s.Idle() {
			continue
		}
		timeout := h.idleTimeout
		if !s.watched {
			timeout = minPositive(h.idleTimeout, h.unwatched)
		}
		if timeout > 0 && s.lastActive.Before(now.Add(-timeout)) {
			h.log.Debug().Str("session_id", s.ID).Bool("watched", s.watched).Msg("discarding idle chat session")
			h.discard(s)
		}
	}
}

func minPositive(a, b time.Duration) time.Duration {
	switch {
	case a <= 0:
		return b
	case b <= 0 || a < b:
		return a
	default:
		return b
	}
}

func (h *Hub) shutdown() {
	close(h.done)
	for _, s := range h.sessions {
		h.discard(s)
	}
}

// publish notifies subscribers about msg, the typing flag and the new markup.
func (h *Hub) publish(s *Session, msg Message) {
	typing := s.widget.Typing()
	s.Broadcast(&Event{Kind: EventMessage, SessionID: s.ID, Message: msg, Typing: typing})
	s.Broadcast(&Event{Kind: EventTyping, SessionID: s.ID, Typing: typing})
	s.Broadcast(h.renderEvent(s))
}

func (h *Hub) renderEvent(s *Session) *Event {
	return &Event{
		Kind:      EventRender,
		SessionID: s.ID,
		Typing:    s.widget.Typing(),
		HTML:      h.render(s.ID, s.widget.State()),
	}
}

func (h *Hub) info(s *Session) SessionInfo {
	st := s.widget.State()
	return SessionInfo{ID: s.ID, State: st, HTML: h.render(s.ID, st)}
}

// render returns the widget markup, or empty markup when the template fails.
func (h *Hub) render(sessionID string, st State) template.HTML {
	html, err := h.renderer.Render(st)
	if err != nil {
		h.log.Error().Err(err).Str("session_id", sessionID).Msg("failed to render chat widget")
		return ""
	}
	return html
}
