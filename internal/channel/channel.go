package channel

import (
	"fmt"
	"strings"

	"github.com/xisxz/agente-vendas/internal/model"
)

// Payload is a channel-specific outbound message structure, ready for
// the channel's delivery API.
type Payload map[string]interface{}

// InboundMessage is the channel-agnostic shape every adapter parses
// raw webhook payloads into.
type InboundMessage struct {
	Channel     string                 `json:"channel"`
	Content     string                 `json:"content"`
	MessageType string                 `json:"message_type"`
	SenderName  string                 `json:"sender_name,omitempty"`
	SenderEmail string                 `json:"sender_email,omitempty"`
	SenderPhone string                 `json:"sender_phone,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

type Validation struct {
	Valid  bool     `json:"is_valid"`
	Issues []string `json:"issues"`
	Length int      `json:"formatted_length"`
}

type Capabilities struct {
	MaxMessageLength int  `json:"max_message_length"`
	RichText         bool `json:"supports_rich_text"`
	Attachments      bool `json:"supports_attachments"`
	QuickReplies     bool `json:"supports_quick_replies"`
}

// FormatOptions tweaks outbound formatting per call.
type FormatOptions struct {
	QuickReplies bool
	Subject      string
	SenderName   string
	SenderEmail  string
}

// Adapter formats, parses and validates messages for one channel.
type Adapter interface {
	Name() string
	Capabilities() Capabilities
	Format(message string, lead *model.Lead, opts FormatOptions) Payload
	Parse(raw map[string]interface{}) *InboundMessage
	Validate(message string) Validation
}

var ErrUnsupportedChannel = fmt.Errorf("unsupported channel")

// Registry holds the known adapters keyed by channel name.
type Registry struct {
	adapters map[string]Adapter
	names    []string
}

func NewRegistry() *Registry {
	r := &Registry{adapters: map[string]Adapter{}}
	for _, a := range []Adapter{
		NewWhatsAppAdapter(),
		NewEmailAdapter(),
		NewWebChatAdapter(),
		NewVoiceAdapter(),
	} {
		r.adapters[a.Name()] = a
		r.names = append(r.names, a.Name())
	}
	return r
}

func (r *Registry) Get(name string) (Adapter, error) {
	a, ok := r.adapters[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedChannel, name, strings.Join(r.names, ", "))
	}
	return a, nil
}

func (r *Registry) Supported() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// truncate cuts a message to max runes, marking the cut with an
// ellipsis.
func truncate(message string, max int) string {
	runes := []rune(message)
	if len(runes) <= max {
		return message
	}
	return string(runes[:max-3]) + "..."
}

func lengthIssue(message, channelName string, max int) []string {
	if n := len([]rune(message)); n > max {
		return []string{fmt.Sprintf("message too long for %s (%d characters, maximum %d)", channelName, n, max)}
	}
	return nil
}

func stringField(raw map[string]interface{}, key string) string {
	if v, ok := raw[key].(string); ok {
		return v
	}
	return ""
}

func mapField(raw map[string]interface{}, key string) map[string]interface{} {
	if v, ok := raw[key].(map[string]interface{}); ok {
		return v
	}
	return nil
}
