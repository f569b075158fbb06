package classify

import (
	"regexp"
	"strings"
)

// Deliberately permissive: one-or-more non-space-non-@ characters, an @,
// more of the same, a dot, more of the same. Full RFC validation is out of
// scope; anything that survives this shape is accepted.
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail reports whether the trimmed, lower-cased input has the
// structural shape of an email address.
func (c *Classifier) IsValidEmail(input string) bool {
	return emailRe.MatchString(strings.ToLower(strings.TrimSpace(input)))
}

// NormalizeEmail returns the canonical form stored on the conversation.
func (c *Classifier) NormalizeEmail(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}
