package web

import (
	"bytes"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFragmentsAreFixed(t *testing.T) {
	assert.Contains(t, string(Header()), `class="site-logo"`)
	assert.Contains(t, string(Footer()), `class="footer-nav__add"`)
	assert.Equal(t, Header(), Header())
	assert.Equal(t, Footer(), Footer())
}

func TestLandingPage(t *testing.T) {
	pages, err := NewPages()
	require.NoError(t, err)

	var buf bytes.Buffer
	err = pages.Landing(&buf, LandingData{
		SessionID:       "sess-1",
		ChatHTML:        `<div class="chat-messages"></div>`,
		QuickReplies:    []string{"공책 샀어요", "떡볶이"},
		LoginURL:        "/auth/kakao",
		PolicyAvailable: true,
	})
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, `data-session="sess-1"`)
	assert.Contains(t, html, `<div class="chat-messages"></div>`)
	assert.Contains(t, html, `data-text="공책 샀어요"`)
	assert.Contains(t, html, `href="/auth/kakao"`)
	assert.Contains(t, html, `class="site-header"`)
	assert.Contains(t, html, `class="site-footer"`)
	assert.NotContains(t, html, "약관 정보를 불러올 수 없어요")
}

func TestLandingPageWithoutPolicy(t *testing.T) {
	pages, err := NewPages()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, pages.Landing(&buf, LandingData{SessionID: "s", Typing: true, QuickReplies: []string{"x"}}))

	assert.Contains(t, buf.String(), "약관 정보를 불러올 수 없어요")
	assert.Contains(t, buf.String(), `data-text="x" disabled`)
}

func TestPlaceholderPage(t *testing.T) {
	pages, err := NewPages()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, pages.Placeholder(&buf, PlaceholderData{Title: "키즈 로그인", Message: "준비 중"}))

	assert.Contains(t, buf.String(), "<h1>키즈 로그인</h1>")
}

func TestStaticAssets(t *testing.T) {
	for _, name := range []string{"app.js", "app.css", "logo.svg", "bot-avatar.svg"} {
		_, err := fs.Stat(Static(), name)
		assert.NoError(t, err, name)
	}
}

func TestScriptFallbackGuards(t *testing.T) {
	data, err := fs.ReadFile(Static(), "app.js")
	require.NoError(t, err)
	script := string(data)

	// Error bodies must never be swapped into the widget.
	assert.Contains(t, script, `if (!res.ok) {
        throw new Error("render failed: " + res.status);`)
	assert.Contains(t, script, `throw new Error("reply failed: " + res.status);`)
	// The REST path keeps refreshing until the typing indicator is gone.
	assert.Contains(t, script, "pollRender(POLL_LIMIT)")
	assert.Contains(t, script, `html.indexOf("chat-typing")`)
	// An empty policy document replaces the previous text.
	assert.Contains(t, script, "body.textContent = doc.text || POLICY_MISSING;")
	assert.Contains(t, script, `"약관 정보를 불러올 수 없어요."`)
}
