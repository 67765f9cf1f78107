package channel

import (
	"github.com/xisxz/agente-vendas/internal/model"
)

const webchatMaxLength = 2000

type WebChatAdapter struct{}

func NewWebChatAdapter() *WebChatAdapter {
	return &WebChatAdapter{}
}

func (a *WebChatAdapter) Name() string { return "webchat" }

func (a *WebChatAdapter) Capabilities() Capabilities {
	return Capabilities{
		MaxMessageLength: webchatMaxLength,
		RichText:         true,
		QuickReplies:     true,
	}
}

func (a *WebChatAdapter) Format(message string, lead *model.Lead, opts FormatOptions) Payload {
	meta := map[string]interface{}{"channel": a.Name()}
	if lead != nil {
		meta["lead_id"] = lead.ID
	}

	payload := Payload{
		"type":     "text",
		"content":  truncate(message, webchatMaxLength),
		"sender":   "bot",
		"metadata": meta,
	}

	if opts.QuickReplies {
		payload["quick_replies"] = []map[string]interface{}{
			{"text": "More information", "payload": "more_info"},
			{"text": "Talk to an agent", "payload": "talk_human"},
			{"text": "Schedule a demo", "payload": "schedule_demo"},
		}
	}

	return payload
}

func (a *WebChatAdapter) Parse(raw map[string]interface{}) *InboundMessage {
	msg := &InboundMessage{
		Channel:     a.Name(),
		Content:     stringField(raw, "content"),
		MessageType: "text",
		Metadata:    map[string]interface{}{},
	}
	if t := stringField(raw, "type"); t != "" {
		msg.MessageType = t
	}
	if meta := mapField(raw, "metadata"); meta != nil {
		msg.Metadata = meta
	}
	if user := mapField(raw, "user"); user != nil {
		msg.SenderName = stringField(user, "name")
		msg.SenderEmail = stringField(user, "email")
		if session := stringField(user, "session_id"); session != "" {
			msg.Metadata["session_id"] = session
		}
	}
	return msg
}

func (a *WebChatAdapter) Validate(message string) Validation {
	issues := lengthIssue(message, a.Name(), webchatMaxLength)
	return Validation{Valid: len(issues) == 0, Issues: issues, Length: len([]rune(message))}
}
