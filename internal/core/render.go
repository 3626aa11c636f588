package core

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
)

const widgetTemplate = `<div class="chat-messages" id="chat-messages" data-autoscroll="bottom">
{{- range .State.Messages}}
{{- if .IsUser}}
<div class="chat-msg chat-msg--user" data-id="{{.ID}}"><p class="chat-bubble chat-bubble--highlight">{{.Text}}</p></div>
{{- else}}
<div class="chat-msg chat-msg--bot" data-id="{{.ID}}"><img class="chat-avatar" src="/static/bot-avatar.svg" alt="{{$.BotName}}"><p class="chat-bubble">{{.Text}}</p></div>
{{- end}}
{{- end}}
{{- if .State.IsTyping}}
<div class="chat-msg chat-msg--bot chat-typing" role="status" aria-label="{{.TypingLabel}}"><img class="chat-avatar" src="/static/bot-avatar.svg" alt="{{.BotName}}"><p class="chat-bubble"><span class="dot"></span><span class="dot"></span><span class="dot"></span></p></div>
{{- end}}
</div>`

var widgetTmpl = template.Must(template.New("chat").Parse(widgetTemplate))

// Renderer turns chat state into widget markup.
type Renderer struct {
	botName     string
	typingLabel string
}

// NewRenderer builds a renderer labelled from the catalog.
func NewRenderer(c *Catalog) *Renderer {
	return &Renderer{
		botName:     c.Text(MsgBotName),
		typingLabel: c.Text(MsgTypingLabel),
	}
}

// RenderTo writes the markup for st to w, oldest message first.
func (r *Renderer) RenderTo(w io.Writer, st State) error {
	return widgetTmpl.Execute(w, struct {
		State       State
		BotName     string
		TypingLabel string
	}{st, r.botName, r.typingLabel})
}

// Render returns the markup for st.
func (r *Renderer) Render(st State) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.RenderTo(&buf, st); err != nil {
		return "", fmt.Errorf("render chat widget: %w", err)
	}
	return template.HTML(buf.String()), nil //nolint:gosec // produced by html/template
}
