// Package classify implements the deterministic text classifiers behind the
// conversation engine: category detection, affirmative/negative detection,
// name extraction from free-form sentences, and structural email validation.
//
// No machine learning is involved. Every decision is keyword and pattern
// matching over immutable configuration data, so the same text always yields
// the same result.
package classify

import (
	"regexp"
	"strings"

	"github.com/deskhand-io/deskhand/pkg/domain"
)

// CategoryKeywords binds a category to the keyword list that identifies it.
type CategoryKeywords struct {
	Category domain.Category `yaml:"category"`
	Keywords []string        `yaml:"keywords"`
}

// Config holds every phrase and keyword list the classifiers match against.
// It is injected rather than hard-coded so tests and deployments can swap
// vocabularies without touching classifier logic.
type Config struct {
	// Categories is ordered: ties between equal match counts resolve to the
	// earliest entry.
	Categories []CategoryKeywords `yaml:"categories"`

	Affirmative []string `yaml:"affirmative"`
	Negative    []string `yaml:"negative"`

	GreetingPrefixes []string `yaml:"greeting_prefixes"`
	IntroPhrases     []string `yaml:"intro_phrases"`
	SentenceWords    []string `yaml:"sentence_words"`
}

// DefaultConfig returns the built-in English vocabulary.
func DefaultConfig() Config {
	return Config{
		Categories: []CategoryKeywords{
			{Category: domain.CategoryTechnical, Keywords: []string{
				"error", "crash", "not working", "slow", "performance",
				"install", "update", "technical", "server", "connection",
				"timeout", "load", "freeze",
			}},
			{Category: domain.CategoryBilling, Keywords: []string{
				"bill", "billing", "invoice", "payment", "charge", "refund",
				"subscription", "price", "cost", "credit card", "receipt",
				"overcharged",
			}},
			{Category: domain.CategoryAccount, Keywords: []string{
				"account", "password", "username", "profile", "sign in",
				"login", "locked", "access", "settings", "verification",
				"two-factor",
			}},
			{Category: domain.CategoryFeatureRequest, Keywords: []string{
				"feature", "request", "suggestion", "improve", "enhancement",
				"would be nice", "add support", "wish", "idea", "integrate",
			}},
			{Category: domain.CategoryBugReport, Keywords: []string{
				"bug", "glitch", "defect", "broken", "unexpected",
				"reproduce", "incorrect", "wrong behavior", "steps to",
			}},
		},
		Affirmative: []string{
			"yes", "yeah", "yep", "yup", "sure", "correct", "right",
			"ok", "okay", "sounds good", "that's right", "that's correct",
			"absolutely", "definitely", "exactly", "confirm", "go ahead",
			"please do",
		},
		Negative: []string{
			"no", "nope", "nah", "not", "wrong", "incorrect",
			"that's wrong", "not really", "not quite", "don't", "do not",
			"cancel", "negative",
		},
		GreetingPrefixes: []string{
			"hello", "hi", "hey", "good morning", "good afternoon",
			"good evening", "greetings", "howdy",
		},
		IntroPhrases: []string{
			"my name is", "i am", "i'm", "call me", "name's", "this is",
		},
		SentenceWords: []string{
			"and", "but", "because", "so", "please", "need", "want",
			"help", "issue", "problem", "can", "could", "would",
		},
	}
}

// Classifier evaluates free-text input against an immutable Config.
// The zero value is not usable; construct with New.
type Classifier struct {
	cfg Config

	sentenceWords map[string]bool
	introRe       *regexp.Regexp
}

// New creates a Classifier. Empty config sections fall back to the defaults,
// so partial overrides (e.g. only category keywords) stay safe.
func New(cfg Config) *Classifier {
	def := DefaultConfig()
	if len(cfg.Categories) == 0 {
		cfg.Categories = def.Categories
	}
	if len(cfg.Affirmative) == 0 {
		cfg.Affirmative = def.Affirmative
	}
	if len(cfg.Negative) == 0 {
		cfg.Negative = def.Negative
	}
	if len(cfg.GreetingPrefixes) == 0 {
		cfg.GreetingPrefixes = def.GreetingPrefixes
	}
	if len(cfg.IntroPhrases) == 0 {
		cfg.IntroPhrases = def.IntroPhrases
	}
	if len(cfg.SentenceWords) == 0 {
		cfg.SentenceWords = def.SentenceWords
	}

	words := make(map[string]bool, len(cfg.SentenceWords))
	for _, w := range cfg.SentenceWords {
		words[w] = true
	}

	quoted := make([]string, len(cfg.IntroPhrases))
	for i, p := range cfg.IntroPhrases {
		quoted[i] = regexp.QuoteMeta(p)
	}
	// A name token is 2-30 chars of letters, spaces, hyphens, apostrophes,
	// or periods following an introduction phrase.
	introRe := regexp.MustCompile(`(?i)(?:` + strings.Join(quoted, "|") + `)\s+([A-Za-z][A-Za-z\s'.-]{1,29})`)

	return &Classifier{
		cfg:           cfg,
		sentenceWords: words,
		introRe:       introRe,
	}
}
