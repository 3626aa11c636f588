package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubSubmitCompletesWithGenericReply(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	sched := &fakeScheduler{}
	hub := startHub(t, WithScheduler(sched))

	info, err := hub.Open(ctx)
	require.NoError(t, err)
	require.Len(t, info.State.Messages, 1)

	res, err := hub.Submit(ctx, info.ID, "엄마 선물 샀어요")
	require.NoError(t, err)
	require.True(t, res.Accepted)
	assert.True(t, res.State.IsTyping)
	assert.Equal(t, []time.Duration{DefaultReplyDelay}, sched.Delays())

	require.Equal(t, 1, sched.FireAll())

	snap, err := hub.Snapshot(ctx, info.ID)
	require.NoError(t, err)
	assert.False(t, snap.State.IsTyping)
	require.Len(t, snap.State.Messages, 3)

	reply := snap.State.Messages[2]
	assert.Equal(t, SenderBot, reply.Sender)
	assert.Equal(t, hub.Catalog().Text(MsgReplyGeneric), reply.Text)
}

func TestHubReplyClassification(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	sched := &fakeScheduler{}
	hub := startHub(t, WithScheduler(sched))

	tests := []struct {
		text string
		want string
	}{
		{"연필이랑 과자 샀어", MsgReplySchoolSupplies},
		{"떡볶이 먹었어", MsgReplySnack},
		{"장난감 샀어", MsgReplyGeneric},
	}

	for _, tt := range tests {
		info, err := hub.Open(ctx)
		require.NoError(t, err)

		res, err := hub.Submit(ctx, info.ID, tt.text)
		require.NoError(t, err)
		require.True(t, res.Accepted)
		sched.FireAll()

		snap, err := hub.Snapshot(ctx, info.ID)
		require.NoError(t, err)
		last := snap.State.Messages[len(snap.State.Messages)-1]
		assert.Equal(t, hub.Catalog().Text(tt.want), last.Text, "text %q", tt.text)
	}
}

func TestHubIgnoresBlankAndConcurrentSubmissions(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	sched := &fakeScheduler{}
	hub := startHub(t, WithScheduler(sched))

	info, err := hub.Open(ctx)
	require.NoError(t, err)

	for _, text := range []string{"", "   "} {
		res, err := hub.Submit(ctx, info.ID, text)
		require.NoError(t, err)
		assert.False(t, res.Accepted)
		assert.Equal(t, info.State, res.State)
	}

	first, err := hub.Submit(ctx, info.ID, "x")
	require.NoError(t, err)
	second, err := hub.Submit(ctx, info.ID, "x")
	require.NoError(t, err)

	assert.True(t, first.Accepted)
	assert.False(t, second.Accepted)
	assert.Len(t, second.State.Messages, 2)
	assert.Len(t, sched.Delays(), 1)

	sched.FireAll()
	snap, err := hub.Snapshot(ctx, info.ID)
	require.NoError(t, err)
	assert.Len(t, snap.State.Messages, 3)
	assert.False(t, snap.State.IsTyping)
}

func TestHubSubscriberReceivesEvents(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	sched := &fakeScheduler{}
	hub := startHub(t, WithScheduler(sched))

	info, err := hub.Open(ctx)
	require.NoError(t, err)

	sub := NewSubscriber("s1", info.ID)
	require.NoError(t, hub.Subscribe(ctx, sub))

	initial := mustEvent(t, sub.Events, EventRender)
	assert.Equal(t, info.HTML, initial.HTML)

	_, err = hub.Submit(ctx, info.ID, "공책 샀어")
	require.NoError(t, err)

	msgEv := mustEvent(t, sub.Events, EventMessage)
	assert.Equal(t, SenderUser, msgEv.Message.Sender)
	assert.True(t, msgEv.Typing)
	renderEv := mustEvent(t, sub.Events, EventRender)
	assert.Contains(t, string(renderEv.HTML), "chat-typing")

	sched.FireAll()

	replyEv := mustEvent(t, sub.Events, EventMessage)
	assert.Equal(t, SenderBot, replyEv.Message.Sender)
	assert.False(t, replyEv.Typing)
	typingEv := mustEvent(t, sub.Events, EventTyping)
	assert.False(t, typingEv.Typing)

	require.NoError(t, hub.Unsubscribe(ctx, sub))
	for range sub.Events {
		// Unsubscribe closes the channel; leftover events are discarded.
	}
}

func TestHubCloseCancelsPendingReply(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	sched := &fakeScheduler{}
	hub := startHub(t, WithScheduler(sched))

	info, err := hub.Open(ctx)
	require.NoError(t, err)
	sub := NewSubscriber("s1", info.ID)
	require.NoError(t, hub.Subscribe(ctx, sub))

	_, err = hub.Submit(ctx, info.ID, "x")
	require.NoError(t, err)
	require.NoError(t, hub.Close(ctx, info.ID))

	mustEvent(t, sub.Events, EventClosed)
	assert.Equal(t, 0, sched.FireAll())

	_, err = hub.Snapshot(ctx, info.ID)
	assert.True(t, errors.Is(err, ErrSessionNotFound))
}

func TestHubUnknownSession(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	hub := startHub(t)

	_, err := hub.Submit(ctx, "ghost", "x")
	require.Error(t, err)
	assert.Equal(t, ErrCodeSessionNotFound, ErrorCode(err))
	assert.ErrorIs(t, err, ErrSessionNotFound)

	err = hub.Subscribe(ctx, NewSubscriber("s", "ghost"))
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestHubRealTimerReply(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	hub := startHub(t, WithReplyDelay(20*time.Millisecond))

	info, err := hub.Open(ctx)
	require.NoError(t, err)
	res, err := hub.Submit(ctx, info.ID, "과자")
	require.NoError(t, err)
	require.True(t, res.Accepted)

	require.Eventually(t, func() bool {
		snap, err := hub.Snapshot(ctx, info.ID)
		return err == nil && !snap.State.IsTyping && len(snap.State.Messages) == 3
	}, 2*time.Second, 10*time.Millisecond)
}

func TestHubSweepsIdleSessions(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	hub := startHub(t, WithIdleTimeout(30*time.Millisecond))

	idle, err := hub.Open(ctx)
	require.NoError(t, err)
	watched, err := hub.Open(ctx)
	require.NoError(t, err)
	sub := NewSubscriber("s", watched.ID)
	require.NoError(t, hub.Subscribe(ctx, sub))

	require.Eventually(t, func() bool {
		_, err := hub.Snapshot(ctx, idle.ID)
		return errors.Is(err, ErrSessionNotFound)
	}, 2*time.Second, 10*time.Millisecond)

	_, err = hub.Snapshot(ctx, watched.ID)
	assert.NoError(t, err)
}

func TestHubSweepsUnwatchedSessionsFirst(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	hub := startHub(t, WithIdleTimeout(time.Hour), WithUnwatchedTimeout(30*time.Millisecond))

	unwatched, err := hub.Open(ctx)
	require.NoError(t, err)
	watched, err := hub.Open(ctx)
	require.NoError(t, err)
	sub := NewSubscriber("s", watched.ID)
	require.NoError(t, hub.Subscribe(ctx, sub))
	require.NoError(t, hub.Unsubscribe(ctx, sub))
	for range sub.Events {
	}

	require.Eventually(t, func() bool {
		_, err := hub.Snapshot(ctx, unwatched.ID)
		return errors.Is(err, ErrSessionNotFound)
	}, 2*time.Second, 10*time.Millisecond)

	_, err = hub.Snapshot(ctx, watched.ID)
	assert.NoError(t, err)
}

func TestMinPositive(t *testing.T) {
	assert.Equal(t, 2*time.Second, minPositive(0, 2*time.Second))
	assert.Equal(t, time.Second, minPositive(time.Second, 0))
	assert.Equal(t, time.Second, minPositive(2*time.Second, time.Second))
	assert.Equal(t, time.Duration(0), minPositive(0, 0))
}

func TestHubStoppedRejectsCalls(t *testing.T) {
	hub := NewHub(mustCatalog(t, "ko"))
	runCtx, stop := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(runCtx)
		close(stopped)
	}()
	stop()
	<-stopped

	_, err := hub.Open(context.Background())
	assert.ErrorIs(t, err, ErrHubStopped)
}
