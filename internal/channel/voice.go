package channel

import (
	"regexp"
	"strings"

	"github.com/xisxz/agente-vendas/internal/model"
)

const voiceMaxLength = 500

// unspeakable flags symbols text-to-speech engines stumble on.
var unspeakable = regexp.MustCompile(`[^\w\s.,!?áéíóúâêîôûàèìòùãõç-]`)

var speechReplacer = strings.NewReplacer(
	"R$", "reais ",
	"%", " percent",
	"&", " and ",
	"@", " at ",
	"www.", "www dot ",
	".com", " dot com",
)

type VoiceAdapter struct{}

func NewVoiceAdapter() *VoiceAdapter {
	return &VoiceAdapter{}
}

func (a *VoiceAdapter) Name() string { return "voice" }

func (a *VoiceAdapter) Capabilities() Capabilities {
	return Capabilities{
		MaxMessageLength: voiceMaxLength,
	}
}

func (a *VoiceAdapter) Format(message string, lead *model.Lead, opts FormatOptions) Payload {
	speech := truncate(adaptForSpeech(message), voiceMaxLength)

	payload := Payload{
		"type":    "speech",
		"content": speech,
		"voice_settings": map[string]interface{}{
			"language": "pt-BR",
			"speed":    "normal",
		},
	}
	if lead != nil {
		payload["phone_number"] = lead.Phone
	}
	return payload
}

func (a *VoiceAdapter) Parse(raw map[string]interface{}) *InboundMessage {
	msg := &InboundMessage{
		Channel:     a.Name(),
		Content:     stringField(raw, "transcription"),
		MessageType: "voice",
		Metadata: map[string]interface{}{
			"call_duration": raw["duration"],
			"audio_url":     stringField(raw, "audio_url"),
			"confidence":    raw["transcription_confidence"],
		},
	}
	if caller := stringField(raw, "caller_id"); caller != "" {
		msg.SenderPhone = caller
	}
	return msg
}

func (a *VoiceAdapter) Validate(message string) Validation {
	issues := lengthIssue(message, a.Name(), voiceMaxLength)

	if unspeakable.MatchString(message) {
		issues = append(issues, "contains characters unsuitable for speech synthesis")
	}

	return Validation{Valid: len(issues) == 0, Issues: issues, Length: len([]rune(message))}
}

// adaptForSpeech expands symbols and adds breathing room after
// punctuation.
func adaptForSpeech(message string) string {
	adapted := speechReplacer.Replace(message)
	adapted = strings.NewReplacer(
		".", ". ",
		",", ", ",
		"!", "! ",
		"?", "? ",
	).Replace(adapted)
	return strings.Join(strings.Fields(adapted), " ")
}
