package intent

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Unknown is the terminal classification when nothing matches.
const Unknown = "unknown"

// DefaultThreshold is the minimum fuzzy similarity accepted as a match.
const DefaultThreshold = 0.6

// Rule binds an intent label to its ordered match patterns.
// Classification walks rules in declaration order; the first pattern hit wins.
type Rule struct {
	Intent   string
	Patterns []*regexp.Regexp
}

// Extractor captures one named entity from text. The pattern's first capture
// group is the entity value; Transform, when set, post-processes the capture.
type Extractor struct {
	Entity    string
	Pattern   *regexp.Regexp
	Transform func(string) string
}

// Config is the full rule table for an engine. Engines built from different
// configs are independent, so tests can run against reduced catalogs.
type Config struct {
	Rules      []Rule
	Canonical  map[string][]string
	Extractors map[string][]Extractor
	Prompts    map[string]string
	Threshold  float64
}

// Engine classifies text into intents and extracts entities. It holds only
// static rule tables and is safe for concurrent use.
type Engine struct {
	cfg Config
}

func New(cfg Config) *Engine {
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultThreshold
	}

	return &Engine{cfg: cfg}
}

// Classify maps text to an intent label and a confidence. Exact pattern hits
// score 1.0; fuzzy fallback scores carry their similarity; anything else is
// Unknown with 0.0.
func (e *Engine) Classify(text string) (string, float64) {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return Unknown, 0
	}

	// assignment form always means learning a fact
	if strings.Contains(lower, "=") {
		return LearnFact, 1.0
	}

	for _, rule := range e.cfg.Rules {
		for _, pattern := range rule.Patterns {
			if pattern.MatchString(lower) {
				return rule.Intent, 1.0
			}
		}
	}

	return e.fuzzyMatch(lower)
}

// fuzzyMatch compares the normalized input against each intent's canonical
// phrases. The best similarity above the threshold wins; rule declaration
// order breaks ties.
func (e *Engine) fuzzyMatch(text string) (string, float64) {
	normalized := collapse(text)

	best := Unknown
	bestScore := 0.0

	for _, rule := range e.cfg.Rules {
		for _, phrase := range e.cfg.Canonical[rule.Intent] {
			if score := similarity(normalized, phrase); score > bestScore {
				best = rule.Intent
				bestScore = score
			}
		}
	}

	if bestScore >= e.cfg.Threshold {
		return best, bestScore
	}

	return Unknown, 0
}

// Extract pulls intent-specific entities out of text. Extractors for an
// entity are tried in order and the first success wins; misses leave the
// entity absent rather than empty.
func (e *Engine) Extract(text, intent string) map[string]string {
	entities := make(map[string]string)

	for _, ex := range e.cfg.Extractors[intent] {
		if _, done := entities[ex.Entity]; done {
			continue
		}

		match := ex.Pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}

		value := strings.TrimSpace(match[1])
		if ex.Transform != nil {
			value = ex.Transform(value)
		}

		if value != "" {
			entities[ex.Entity] = value
		}
	}

	return entities
}

// PromptFor phrases a follow-up question for a missing entity.
func (e *Engine) PromptFor(entity string) string {
	if prompt, ok := e.cfg.Prompts[entity]; ok {
		return prompt
	}

	return fmt.Sprintf("Can you please tell me the %s?", entity)
}

// Threshold reports the fuzzy acceptance threshold in effect.
func (e *Engine) Threshold() float64 {
	return e.cfg.Threshold
}

var whitespace = regexp.MustCompile(`\s+`)

func collapse(s string) string {
	return whitespace.ReplaceAllString(strings.TrimSpace(s), " ")
}

// similarity is a normalized edit-distance score in [0, 1].
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}

	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 0
	}

	distance := levenshtein.ComputeDistance(a, b)

	return 1 - float64(distance)/float64(longest)
}
