package nlp

import (
	"regexp"
	"strings"
)

var (
	repeatedBang     = regexp.MustCompile(`!{2,}`)
	repeatedQuestion = regexp.MustCompile(`\?{2,}`)
	repeatedDot      = regexp.MustCompile(`\.{2,}`)
	extraSpace       = regexp.MustCompile(`\s+`)
)

// Normalize lowercases the text, collapses repeated punctuation and
// squeezes whitespace. Classification and sentiment run over the
// normalized form; entity extraction keeps the raw text.
func Normalize(text string) string {
	text = strings.ToLower(text)
	text = repeatedBang.ReplaceAllString(text, "!")
	text = repeatedQuestion.ReplaceAllString(text, "?")
	text = repeatedDot.ReplaceAllString(text, "...")
	text = extraSpace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
