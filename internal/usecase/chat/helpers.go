package chat

import (
	"strings"
	"unicode"

	"github.com/futig/fundfacts/internal/entity"
)

var acknowledgements = map[string]struct{}{
	"ok": {}, "okay": {}, "thanks": {}, "thank you": {}, "got it": {}, "thx": {},
	"cheers": {}, "cool": {}, "👍": {}, "ty": {}, "thank u": {}, "noted": {}, "great": {},
}

// isAcknowledgement reports whether the message is only a conversational acknowledgement,
// ignoring case and punctuation ("Thanks!", "ok.").
func isAcknowledgement(message string) bool {
	raw := strings.ToLower(strings.TrimSpace(message))
	if _, ok := acknowledgements[raw]; ok {
		return true
	}

	cleaned := strings.Join(strings.FieldsFunc(raw, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}), " ")
	_, ok := acknowledgements[cleaned]
	return ok
}

// sourceIDs lists each distinct source of the used chunks once, in first-seen order.
func sourceIDs(results []entity.RetrievalResult) []string {
	seen := make(map[string]struct{}, len(results))
	sources := make([]string, 0, len(results))
	for _, r := range results {
		id := r.Metadata.SourceID()
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		sources = append(sources, id)
	}
	return sources
}

func refusalAnswer(r entity.RefusalResult) string {
	if r.EducationalLink == "" {
		return r.Message
	}
	return r.Message + "\n\n📘 Learn more: " + r.EducationalLink
}
