package nlp

import (
	"regexp"
	"strings"

	"github.com/xisxz/agente-vendas/internal/model"
)

// Pattern extractors run over the raw (non-lowercased) text. Phone and
// money keep the Brazilian formats of the markets this runs in.
var customPatterns = []struct {
	label string
	re    *regexp.Regexp
}{
	{"email", regexp.MustCompile(`(?i)\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)},
	{"phone", regexp.MustCompile(`(?:\+55\s?)?(?:\(?[1-9]{2}\)?\s?)?(?:9\s?)?[0-9]{4}[-\s]?[0-9]{4}`)},
	{"money", regexp.MustCompile(`(?i)R\$\s?[\d.,]+|[\d.,]+\s?reais?`)},
	{"company", regexp.MustCompile(`\b[A-Z][a-zA-Z\s]+(?:Ltda|S\.A\.|EIRELI|ME)\b`)},
	{"name", regexp.MustCompile(`\b[A-Z][a-z]+(?:\s[A-Z][a-z]+)+\b`)},
}

var capitalizedSpan = regexp.MustCompile(`\b[A-Z][a-zA-Z]*(?:\s+[A-Z][a-zA-Z]*)*\b`)

// ExtractEntities runs the generic named-entity pass and the fixed
// pattern extractors independently over the raw text. The two maps are
// kept separate; duplicates between them are intentional.
func ExtractEntities(raw string) model.EntityMap {
	out := model.EntityMap{
		Generic: extractGeneric(raw),
		Custom:  map[string][]string{},
	}

	for _, p := range customPatterns {
		matches := p.re.FindAllString(raw, -1)
		if len(matches) > 0 {
			out.Custom[p.label] = matches
		}
	}
	return out
}

// extractGeneric is a heuristic stand-in for a trained NER model:
// capitalized spans that do not open a sentence are collected under a
// single label.
func extractGeneric(raw string) map[string][]string {
	generic := map[string][]string{}

	for _, loc := range capitalizedSpan.FindAllStringIndex(raw, -1) {
		span := raw[loc[0]:loc[1]]
		if sentenceInitial(raw, loc[0]) && !strings.Contains(span, " ") {
			continue
		}
		generic["span"] = append(generic["span"], span)
	}
	if len(generic) == 0 {
		return map[string][]string{}
	}
	return generic
}

func sentenceInitial(raw string, pos int) bool {
	for i := pos - 1; i >= 0; i-- {
		c := raw[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n':
			continue
		case c == '.' || c == '!' || c == '?':
			return true
		default:
			return false
		}
	}
	return true
}
