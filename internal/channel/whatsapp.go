package channel

import (
	"strings"

	"github.com/xisxz/agente-vendas/internal/model"
)

const whatsappMaxLength = 4096

type WhatsAppAdapter struct{}

func NewWhatsAppAdapter() *WhatsAppAdapter {
	return &WhatsAppAdapter{}
}

func (a *WhatsAppAdapter) Name() string { return "whatsapp" }

func (a *WhatsAppAdapter) Capabilities() Capabilities {
	return Capabilities{
		MaxMessageLength: whatsappMaxLength,
		RichText:         true,
		Attachments:      true,
		QuickReplies:     true,
	}
}

// contextEmojis prefixes the first matching context's emoji.
var contextEmojis = []struct {
	emoji    string
	keywords []string
}{
	{"\U0001F44B", []string{"hello", "hi", "good morning", "good afternoon"}},
	{"\U0001F6CD", []string{"product", "service", "solution"}},
	{"\U0001F4B0", []string{"price", "cost", "how much"}},
	{"\U0001F3AF", []string{"demo", "demonstration", "presentation"}},
	{"\U0001F198", []string{"help", "support", "problem"}},
	{"\U0001F64F", []string{"thank you", "thanks"}},
	{"\U0001F389", []string{"congratulations", "excellent", "great"}},
}

func addEmoji(message string) string {
	lower := strings.ToLower(message)
	for _, ctx := range contextEmojis {
		for _, kw := range ctx.keywords {
			if strings.Contains(lower, kw) {
				if !strings.HasPrefix(message, ctx.emoji) {
					return ctx.emoji + " " + message
				}
				return message
			}
		}
	}
	return message
}

func (a *WhatsAppAdapter) Format(message string, lead *model.Lead, opts FormatOptions) Payload {
	body := truncate(addEmoji(message), whatsappMaxLength)

	payload := Payload{
		"messaging_product": "whatsapp",
		"type":              "text",
		"text":              map[string]interface{}{"body": body},
	}
	if lead != nil {
		payload["to"] = lead.Phone
	}

	if opts.QuickReplies {
		payload["type"] = "interactive"
		payload["interactive"] = map[string]interface{}{
			"type": "button",
			"body": map[string]interface{}{"text": body},
			"action": map[string]interface{}{
				"buttons": []map[string]interface{}{
					{"type": "reply", "reply": map[string]interface{}{"id": "more_info", "title": "More information"}},
					{"type": "reply", "reply": map[string]interface{}{"id": "talk_human", "title": "Talk to a human"}},
					{"type": "reply", "reply": map[string]interface{}{"id": "schedule_demo", "title": "Schedule a demo"}},
				},
			},
		}
		delete(payload, "text")
	}

	return payload
}

func (a *WhatsAppAdapter) Parse(raw map[string]interface{}) *InboundMessage {
	msg := &InboundMessage{
		Channel:     a.Name(),
		MessageType: "text",
		Metadata:    map[string]interface{}{},
	}

	if contacts, ok := raw["contacts"].([]interface{}); ok && len(contacts) > 0 {
		if contact, ok := contacts[0].(map[string]interface{}); ok {
			msg.SenderPhone = stringField(contact, "wa_id")
			if profile := mapField(contact, "profile"); profile != nil {
				msg.SenderName = stringField(profile, "name")
			}
		}
	}

	if messages, ok := raw["messages"].([]interface{}); ok && len(messages) > 0 {
		if m, ok := messages[0].(map[string]interface{}); ok {
			if t := stringField(m, "type"); t != "" {
				msg.MessageType = t
			}
			switch msg.MessageType {
			case "text":
				if text := mapField(m, "text"); text != nil {
					msg.Content = stringField(text, "body")
				}
			case "interactive":
				if interactive := mapField(m, "interactive"); interactive != nil {
					if reply := mapField(interactive, "button_reply"); reply != nil {
						msg.Content = stringField(reply, "title")
						msg.Metadata["button_id"] = stringField(reply, "id")
					}
				}
			}
			msg.Metadata["message_id"] = stringField(m, "id")
		}
	}

	return msg
}

func (a *WhatsAppAdapter) Validate(message string) Validation {
	issues := lengthIssue(message, a.Name(), whatsappMaxLength)

	for _, r := range message {
		if r > 0xFFFF {
			issues = append(issues, "contains characters outside the basic multilingual plane")
			break
		}
	}

	return Validation{Valid: len(issues) == 0, Issues: issues, Length: len([]rune(message))}
}
