package intent

import (
	"regexp"
	"strings"
)

// Built-in intent labels.
const (
	WeatherQuery = "weather_query"
	LearnFact    = "learn_fact"
	QueryFact    = "query_fact"
	StatusQuery  = "status_query"
	TimeQuery    = "time_query"
)

// DefaultConfig returns the built-in intent catalog. Rule order matters:
// time and status outrank the generic "what is" question patterns so that
// "what is the time" doesn't turn into a knowledge lookup.
func DefaultConfig() Config {
	return Config{
		Rules: []Rule{
			{
				Intent: WeatherQuery,
				Patterns: []*regexp.Regexp{
					regexp.MustCompile(`\b(?:weather|temperature|forecast)\b`),
					regexp.MustCompile(`\bhow'?s?\s+it\s+outside\b`),
				},
			},
			{
				Intent: LearnFact,
				Patterns: []*regexp.Regexp{
					regexp.MustCompile(`\blearn\b`),
					regexp.MustCompile(`\bremember\b`),
				},
			},
			{
				Intent: TimeQuery,
				Patterns: []*regexp.Regexp{
					regexp.MustCompile(`\bwhat\s+time\b`),
					regexp.MustCompile(`\bcurrent\s+time\b`),
					regexp.MustCompile(`\btime\s+is\s+it\b`),
					regexp.MustCompile(`\bwhat\s+day\b`),
				},
			},
			{
				Intent: StatusQuery,
				Patterns: []*regexp.Regexp{
					regexp.MustCompile(`\bstatus\b`),
					regexp.MustCompile(`\bhow\s+are\s+you\s+(?:running|holding\s+up)\b`),
				},
			},
			{
				Intent: QueryFact,
				Patterns: []*regexp.Regexp{
					regexp.MustCompile(`\bwhat\s+is\b`),
					regexp.MustCompile(`\bwhat'?s\b`),
					regexp.MustCompile(`\btell\s+me\s+about\b`),
					regexp.MustCompile(`\bdo\s+you\s+know\b`),
				},
			},
		},
		Canonical: map[string][]string{
			WeatherQuery: {"what is the weather", "how is the weather", "weather forecast"},
			LearnFact:    {"learn something new", "remember this"},
			TimeQuery:    {"what time is it", "current time"},
			StatusQuery:  {"system status", "how are you running"},
			QueryFact:    {"what is", "do you know", "tell me about"},
		},
		Extractors: map[string][]Extractor{
			WeatherQuery: {
				{
					Entity:  "location",
					Pattern: regexp.MustCompile(`(?i)\bin\s+([A-Za-z][A-Za-z\s]*?)\s*(?:[?.,!]|$)`),
				},
				{
					Entity:  "location",
					Pattern: regexp.MustCompile(`(?i)\b(?:weather|forecast|temperature)\s+(?:for|at)\s+([A-Za-z][A-Za-z\s]*?)\s*(?:[?.,!]|$)`),
				},
				{
					// bare capitalized place after the keyword: "weather Tokyo"
					Entity:  "location",
					Pattern: regexp.MustCompile(`\b(?:weather|forecast|temperature|Weather|Forecast|Temperature)\s+([A-Z][A-Za-z]*(?:\s+[A-Z][A-Za-z]*)*)`),
				},
			},
			LearnFact: {
				{
					Entity:  "key",
					Pattern: regexp.MustCompile(`(?i)(?:\blearn\s+)?([A-Za-z_]\w*)\s*=`),
				},
				{
					Entity:    "value",
					Pattern:   regexp.MustCompile(`=\s*(.+?)\s*$`),
					Transform: trimTrailingPunct,
				},
			},
			QueryFact: {
				{
					Entity:    "key",
					Pattern:   regexp.MustCompile(`(?i)\b(?:what\s+is|what'?s|tell\s+me\s+about|do\s+you\s+know)\s+(.+)`),
					Transform: questionKey,
				},
			},
		},
		Prompts: map[string]string{
			"location": "Can you please tell me the location?",
			"key":      "What would you like me to learn?",
			"value":    "What's the value for that?",
		},
		Threshold: DefaultThreshold,
	}
}

func trimTrailingPunct(s string) string {
	return strings.TrimRight(s, "?.!,")
}

var punct = strings.NewReplacer("?", "", ".", "", ",", "", "!", "")

// questionKey turns the free-text tail of a question into a fact key:
// "the capital of Germany?" becomes "capital_of_germany".
func questionKey(s string) string {
	s = punct.Replace(strings.ToLower(s))
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "the "))

	return strings.ReplaceAll(collapse(s), " ", "_")
}
