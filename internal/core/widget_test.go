package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() func() time.Time {
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time { return base }
}

func TestNewWidgetSeedsGreeting(t *testing.T) {
	w := NewWidget("안녕", fixedClock())

	st := w.State()
	require.Len(t, st.Messages, 1)
	assert.Equal(t, SenderBot, st.Messages[0].Sender)
	assert.Equal(t, "안녕", st.Messages[0].Text)
	assert.False(t, st.IsTyping)
}

func TestWidgetSubmitIgnoresBlankText(t *testing.T) {
	for _, text := range []string{"", "   ", "\t\n"} {
		w := NewWidget("hi", fixedClock())
		before := w.State()

		_, ok := w.Submit(text)

		assert.False(t, ok, "text %q", text)
		assert.Equal(t, before, w.State())
	}
}

func TestWidgetSubmitWhileTypingIsIgnored(t *testing.T) {
	w := NewWidget("hi", fixedClock())

	_, ok := w.Submit("x")
	require.True(t, ok)
	_, ok = w.Submit("x")
	require.False(t, ok)

	st := w.State()
	assert.Len(t, st.Messages, 2)
	assert.True(t, st.IsTyping)
}

func TestWidgetCompleteAppendsBotReply(t *testing.T) {
	w := NewWidget("hi", fixedClock())

	_, ok := w.Complete("nothing pending")
	require.False(t, ok)

	user, ok := w.Submit("공책 샀어")
	require.True(t, ok)
	bot, ok := w.Complete("reply")
	require.True(t, ok)

	assert.Equal(t, SenderUser, user.Sender)
	assert.Equal(t, SenderBot, bot.Sender)
	assert.Greater(t, bot.ID, user.ID)

	st := w.State()
	assert.False(t, st.IsTyping)
	require.Len(t, st.Messages, 3)
	for i := 1; i < len(st.Messages); i++ {
		assert.Greater(t, st.Messages[i].ID, st.Messages[i-1].ID)
	}
}

func TestWidgetStateIsACopy(t *testing.T) {
	w := NewWidget("hi", fixedClock())
	st := w.State()
	st.Messages[0].Text = "changed"

	assert.Equal(t, "hi", w.State().Messages[0].Text)
}
