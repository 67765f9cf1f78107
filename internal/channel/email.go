package channel

import (
	"regexp"
	"strings"

	"github.com/xisxz/agente-vendas/internal/model"
)

const emailMaxLength = 10000

const emailSignature = "Best regards,\nThe Sales Team\nsales@company.com\n+55 11 99999-9999"

var urlPattern = regexp.MustCompile(`https?://[^\s]+`)

type EmailAdapter struct{}

func NewEmailAdapter() *EmailAdapter {
	return &EmailAdapter{}
}

func (a *EmailAdapter) Name() string { return "email" }

func (a *EmailAdapter) Capabilities() Capabilities {
	return Capabilities{
		MaxMessageLength: emailMaxLength,
		RichText:         true,
		Attachments:      true,
	}
}

func (a *EmailAdapter) Format(message string, lead *model.Lead, opts FormatOptions) Payload {
	fromName := opts.SenderName
	if fromName == "" {
		fromName = "Sales Team"
	}
	fromEmail := opts.SenderEmail
	if fromEmail == "" {
		fromEmail = "sales@company.com"
	}

	bodyText := message + "\n\n" + emailSignature

	payload := Payload{
		"subject":    subjectFor(message, opts),
		"body_text":  bodyText,
		"body_html":  toHTML(bodyText),
		"from_name":  fromName,
		"from_email": fromEmail,
	}
	if lead != nil {
		payload["to"] = lead.Email
	}
	return payload
}

func (a *EmailAdapter) Parse(raw map[string]interface{}) *InboundMessage {
	content := stringField(raw, "text_body")
	if content == "" {
		content = stringField(raw, "html_body")
	}

	return &InboundMessage{
		Channel:     a.Name(),
		Content:     content,
		MessageType: "email",
		SenderName:  stringField(raw, "from_name"),
		SenderEmail: stringField(raw, "from_email"),
		Metadata: map[string]interface{}{
			"subject":    stringField(raw, "subject"),
			"message_id": stringField(raw, "message_id"),
			"thread_id":  stringField(raw, "thread_id"),
		},
	}
}

func (a *EmailAdapter) Validate(message string) Validation {
	issues := lengthIssue(message, a.Name(), emailMaxLength)
	return Validation{Valid: len(issues) == 0, Issues: issues, Length: len([]rune(message))}
}

func subjectFor(message string, opts FormatOptions) string {
	if opts.Subject != "" {
		return opts.Subject
	}

	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "demo"):
		return "A demonstration of our products"
	case strings.Contains(lower, "pric") || strings.Contains(lower, "cost"):
		return "Pricing and conditions"
	case strings.Contains(lower, "product") || strings.Contains(lower, "service"):
		return "About our products"
	case strings.Contains(lower, "support") || strings.Contains(lower, "help"):
		return "Technical support"
	default:
		return "A reply from our team"
	}
}

func toHTML(text string) string {
	html := strings.ReplaceAll(text, "\n", "<br>")
	return urlPattern.ReplaceAllString(html, `<a href="$0">$0</a>`)
}
