package classify

import "strings"

// IsAffirmative reports whether the input reads as agreement. The trimmed,
// lower-cased input matches when it equals an affirmative phrase exactly or
// contains one as a substring. An empty input matches nothing.
func (c *Classifier) IsAffirmative(input string) bool {
	return matchesPhraseList(input, c.cfg.Affirmative)
}

// IsNegative reports whether the input reads as refusal. Evaluated
// independently of IsAffirmative; callers that need a single verdict apply
// affirmative-first precedence.
func (c *Classifier) IsNegative(input string) bool {
	return matchesPhraseList(input, c.cfg.Negative)
}

func matchesPhraseList(input string, phrases []string) bool {
	clean := strings.ToLower(strings.TrimSpace(input))
	if clean == "" {
		return false
	}
	for _, phrase := range phrases {
		if clean == phrase || strings.Contains(clean, phrase) {
			return true
		}
	}
	return false
}
