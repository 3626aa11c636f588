package core

import "strings"

// Message IDs of the bot texts in the locale catalog.
const (
	MsgChatGreeting        = "ChatGreeting"
	MsgReplySchoolSupplies = "ReplySchoolSupplies"
	MsgReplySnack          = "ReplySnack"
	MsgReplyGeneric        = "ReplyGeneric"
	MsgTypingLabel         = "TypingLabel"
	MsgBotName             = "BotName"
)

// Rule maps a keyword set to a reply.
type Rule struct {
	Name      string
	Keywords  []string
	MessageID string
}

// Matches reports whether text contains any of the rule keywords.
// Matching is case-sensitive substring containment.
func (r Rule) Matches(text string) bool {
	for _, kw := range r.Keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// Classifier picks a reply using the first matching rule.
type Classifier struct {
	rules    []Rule
	fallback string
}

// NewClassifier builds a classifier over rules evaluated in order.
func NewClassifier(rules []Rule, fallback string) *Classifier {
	return &Classifier{rules: rules, fallback: fallback}
}

// DefaultClassifier returns the school-supplies / snack / generic rule set.
func DefaultClassifier() *Classifier {
	return NewClassifier([]Rule{
		{Name: "school_supplies", Keywords: []string{"공책", "연필", "문구점"}, MessageID: MsgReplySchoolSupplies},
		{Name: "snack", Keywords: []string{"과자", "떡볶이"}, MessageID: MsgReplySnack},
	}, MsgReplyGeneric)
}

// Classify returns the message ID of the reply for text.
func (c *Classifier) Classify(text string) string {
	for _, r := range c.rules {
		if r.Matches(text) {
			return r.MessageID
		}
	}
	return c.fallback
}
