package intent

import (
	"regexp"
	"testing"
)

func TestClassifyPatternHits(t *testing.T) {
	e := New(DefaultConfig())

	tests := []struct {
		text string
		want string
	}{
		{"What's the weather in London?", WeatherQuery},
		{"weather", WeatherQuery},
		{"tell me the forecast", WeatherQuery},
		{"how's it outside", WeatherQuery},
		{"learn capital_of_france = Paris", LearnFact},
		{"x = y", LearnFact},
		{"remember my birthday", LearnFact},
		{"what is the capital of France?", QueryFact},
		{"do you know my name", QueryFact},
		{"what time is it", TimeQuery},
		{"system status", StatusQuery},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, confidence := e.Classify(tt.text)
			if got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.text, got, tt.want)
			}
			if confidence != 1.0 {
				t.Errorf("pattern hit should have confidence 1.0, got %v", confidence)
			}
		})
	}
}

func TestClassifyUnknown(t *testing.T) {
	e := New(DefaultConfig())

	for _, text := range []string{"", "   ", "can you dance?", "teach me math"} {
		got, confidence := e.Classify(text)
		if got != Unknown {
			t.Errorf("Classify(%q) = %q, want unknown", text, got)
		}
		if confidence != 0 {
			t.Errorf("Classify(%q) confidence = %v, want 0", text, confidence)
		}
	}
}

func TestClassifyFuzzyFallback(t *testing.T) {
	e := New(DefaultConfig())

	// typo: no pattern matches, but close enough to "how is the weather"
	got, confidence := e.Classify("hows the weathe")
	if got != WeatherQuery {
		t.Fatalf("expected weather_query, got %q", got)
	}

	if confidence < e.Threshold() || confidence >= 1.0 {
		t.Errorf("fuzzy confidence %v outside (%v, 1.0)", confidence, e.Threshold())
	}
}

func TestClassifyRuleOrder(t *testing.T) {
	e := New(DefaultConfig())

	// matches both the weather rule and the "what's" question rule;
	// the weather rule is declared first and must win
	got, _ := e.Classify("what's the weather")
	if got != WeatherQuery {
		t.Errorf("expected weather_query, got %q", got)
	}

	// "what is the current time" must not become a knowledge lookup
	got, _ = e.Classify("what is the current time")
	if got != TimeQuery {
		t.Errorf("expected time_query, got %q", got)
	}
}

func TestExtractWeatherLocation(t *testing.T) {
	e := New(DefaultConfig())

	tests := []struct {
		text string
		want string
	}{
		{"What's the weather in London?", "London"},
		{"weather in New York", "New York"},
		{"in Tokyo", "Tokyo"},
		{"forecast for Berlin", "Berlin"},
		{"weather Tokyo", "Tokyo"},
		{"weather", ""},
	}

	for _, tt := range tests {
		entities := e.Extract(tt.text, WeatherQuery)
		got := entities["location"]
		if got != tt.want {
			t.Errorf("Extract(%q) location = %q, want %q", tt.text, got, tt.want)
		}
		if tt.want == "" {
			if _, present := entities["location"]; present {
				t.Errorf("Extract(%q) should leave location absent, not empty", tt.text)
			}
		}
	}
}

func TestExtractLearnKeyValue(t *testing.T) {
	e := New(DefaultConfig())

	entities := e.Extract("learn capital_of_germany = Berlin", LearnFact)
	if entities["key"] != "capital_of_germany" {
		t.Errorf("key = %q, want capital_of_germany", entities["key"])
	}
	if entities["value"] != "Berlin" {
		t.Errorf("value = %q, want Berlin", entities["value"])
	}

	entities = e.Extract("x = y", LearnFact)
	if entities["key"] != "x" || entities["value"] != "y" {
		t.Errorf("got %v, want key=x value=y", entities)
	}

	// no assignment form: nothing extractable yet
	entities = e.Extract("learn something new", LearnFact)
	if len(entities) != 0 {
		t.Errorf("expected no entities, got %v", entities)
	}
}

func TestExtractQuestionKey(t *testing.T) {
	e := New(DefaultConfig())

	tests := []struct {
		text string
		want string
	}{
		{"what is the capital of Germany?", "capital_of_germany"},
		{"what is x?", "x"},
		{"tell me about go", "go"},
		{"do you know the answer", "answer"},
	}

	for _, tt := range tests {
		entities := e.Extract(tt.text, QueryFact)
		if entities["key"] != tt.want {
			t.Errorf("Extract(%q) key = %q, want %q", tt.text, entities["key"], tt.want)
		}
	}
}

func TestExtractFirstSuccessWins(t *testing.T) {
	cfg := Config{
		Rules: []Rule{{Intent: "greet", Patterns: []*regexp.Regexp{regexp.MustCompile(`hello`)}}},
		Extractors: map[string][]Extractor{
			"greet": {
				{Entity: "name", Pattern: regexp.MustCompile(`hello\s+(\w+)`)},
				{Entity: "name", Pattern: regexp.MustCompile(`(\w+)$`)},
			},
		},
	}
	e := New(cfg)

	entities := e.Extract("hello alice bob", "greet")
	if entities["name"] != "alice" {
		t.Errorf("first extractor should win, got %q", entities["name"])
	}
}

func TestPromptFor(t *testing.T) {
	e := New(DefaultConfig())

	if got := e.PromptFor("location"); got != "Can you please tell me the location?" {
		t.Errorf("unexpected prompt: %q", got)
	}

	// unmapped entities get a generic prompt naming the entity
	if got := e.PromptFor("frequency"); got != "Can you please tell me the frequency?" {
		t.Errorf("unexpected generic prompt: %q", got)
	}
}

func TestSimilarity(t *testing.T) {
	if got := similarity("same", "same"); got != 1 {
		t.Errorf("identical strings should score 1, got %v", got)
	}

	if got := similarity("", ""); got != 1 {
		t.Errorf("two empty strings are identical, got %v", got)
	}

	if got := similarity("abc", "xyz"); got != 0 {
		t.Errorf("disjoint strings should score 0, got %v", got)
	}

	got := similarity("what is the weathr", "what is the weather")
	if got <= 0.9 || got >= 1 {
		t.Errorf("one-edit similarity should be just under 1, got %v", got)
	}
}
