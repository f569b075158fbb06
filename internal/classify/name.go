package classify

import (
	"regexp"
	"strings"
)

// NameResult is the outcome of name extraction.
type NameResult struct {
	// Name is the extracted or cleaned name. Empty when extraction from a
	// sentence failed.
	Name string
	// IsSentence reports that the input looked like a sentence rather than
	// a bare name.
	IsSentence bool
	// NeedsClarification reports that the result must be confirmed with the
	// user before it is committed.
	NeedsClarification bool
}

var (
	punctuationChars = ",.!?;:"
	nonNameCharsRe   = regexp.MustCompile(`[^\w\s'.-]`)
)

// ExtractName classifies raw input as a bare name or a sentence and, for
// sentences, attempts to pull a name out of a self-introduction phrase
// ("my name is John"). Names found inside sentences are never committed
// directly: the result is flagged for confirmation.
func (c *Classifier) ExtractName(input string) NameResult {
	trimmed := strings.TrimSpace(input)
	if c.looksLikeSentence(trimmed) {
		name := c.extractFromSentence(trimmed)
		return NameResult{Name: name, IsSentence: true, NeedsClarification: true}
	}

	cleaned := cleanName(trimmed)
	return NameResult{
		Name:               cleaned,
		NeedsClarification: len(cleaned) < 2,
	}
}

// looksLikeSentence applies the sentence heuristics: greeting prefixes,
// self-introduction phrases, conjunction/request words, punctuation, or more
// than three whitespace-delimited tokens.
func (c *Classifier) looksLikeSentence(input string) bool {
	lower := strings.ToLower(input)

	if len(strings.Fields(lower)) > 3 {
		return true
	}
	if strings.ContainsAny(lower, punctuationChars) {
		return true
	}
	for _, prefix := range c.cfg.GreetingPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	for _, phrase := range c.cfg.IntroPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	for _, word := range strings.Fields(lower) {
		if c.sentenceWords[strings.Trim(word, punctuationChars)] {
			return true
		}
	}
	return false
}

// extractFromSentence returns the name token following an introduction
// phrase, or "" when no usable name is present. The captured text is cut at
// the first conjunction/request word so "my name is John and I need help"
// yields just "John".
func (c *Classifier) extractFromSentence(input string) string {
	m := c.introRe.FindStringSubmatch(input)
	if m == nil {
		return ""
	}

	var kept []string
	for _, tok := range strings.Fields(strings.TrimSpace(m[1])) {
		if c.sentenceWords[strings.ToLower(strings.Trim(tok, punctuationChars))] {
			break
		}
		kept = append(kept, tok)
	}
	name := cleanName(strings.Join(kept, " "))
	if len(name) < 2 {
		return ""
	}
	return name
}

// cleanName strips characters outside word/space/hyphen/apostrophe/period,
// collapses whitespace, and truncates to 50 characters.
func cleanName(s string) string {
	cleaned := nonNameCharsRe.ReplaceAllString(s, "")
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	if len(cleaned) > 50 {
		cleaned = strings.TrimSpace(cleaned[:50])
	}
	return cleaned
}
