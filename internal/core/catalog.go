package core

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

var localeFiles = []string{"locales/ko.json", "locales/en.json"}

// quickReplyIDs lists the predefined quick replies in display order.
// Their texts stay Korean in every locale so the keyword rules keep matching.
var quickReplyIDs = []string{"QuickReplyNotebook", "QuickReplySnack", "QuickReplyGift"}

// QuickReply is a canned text the visitor can send with one click.
type QuickReply struct {
	ID   string
	Text string
}

// Catalog resolves bot texts for one locale.
type Catalog struct {
	lang      string
	localizer *i18n.Localizer
}

// NewCatalog loads the embedded message files and binds a localizer for lang.
// Unknown languages fall back to Korean.
func NewCatalog(lang string) (*Catalog, error) {
	bundle := i18n.NewBundle(language.Korean)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)
	for _, name := range localeFiles {
		data, err := localeFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		if _, err := bundle.ParseMessageFileBytes(data, name); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
	}
	return &Catalog{
		lang:      lang,
		localizer: i18n.NewLocalizer(bundle, lang, language.Korean.String()),
	}, nil
}

// Lang returns the requested language.
func (c *Catalog) Lang() string {
	return c.lang
}

// Text returns the localized text for id, or id itself when missing.
func (c *Catalog) Text(id string) string {
	text, err := c.localizer.Localize(&i18n.LocalizeConfig{MessageID: id})
	if err != nil || text == "" {
		return id
	}
	return text
}

// QuickReplies returns the predefined quick replies in display order.
func (c *Catalog) QuickReplies() []QuickReply {
	out := make([]QuickReply, 0, len(quickReplyIDs))
	for _, id := range quickReplyIDs {
		out = append(out, QuickReply{ID: id, Text: c.Text(id)})
	}
	return out
}
