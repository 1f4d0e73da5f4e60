package logger

import (
	"strings"
	"time"
)

// DefaultSource is the source attached to messages emitted by the system
// itself rather than by a named component.
const DefaultSource = "Puppet"

// Message is a single log message.
// It is immutable once constructed: destinations read it but never write
// it. The only permitted rewrite (the remote destination stamping the
// local hostname into Source) happens on a private copy.
type Message struct {
	Level     Level     `json:"level"`
	Source    string    `json:"source"`
	Text      string    `json:"text"`
	Time      time.Time `json:"time"`
	Remote    bool      `json:"remote,omitempty"`
	Multiline string    `json:"multiline,omitempty"`
}

// NewMessage allocates a Message, filling in the source sentinel and the
// current time when the caller leaves them empty.
func NewMessage(level Level, source string, text string) *Message {
	if source == "" {
		source = DefaultSource
	}

	return &Message{
		Level:  level,
		Source: source,
		Text:   strings.TrimRight(text, "\n"),
		Time:   time.Now(),
	}
}

// FromSystem reports whether the message was emitted by the system itself.
func (m *Message) FromSystem() bool {
	return m.Source == DefaultSource
}
