package skills

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/bowerhall/parley/internal/intent"
	"github.com/bowerhall/parley/internal/knowledge"
)

func TestWeatherMentionsLocation(t *testing.T) {
	w := NewWeather()

	response, err := w.Execute(context.Background(), map[string]string{"location": "London"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(response, "London") {
		t.Errorf("response should mention the location: %q", response)
	}
}

func TestWeatherIsDeterministicPerLocation(t *testing.T) {
	w := NewWeather()

	first, _ := w.Execute(context.Background(), map[string]string{"location": "Tokyo"})
	second, _ := w.Execute(context.Background(), map[string]string{"location": "Tokyo"})

	if first != second {
		t.Errorf("same location should give the same report: %q vs %q", first, second)
	}
}

func TestWeatherMissingLocationErrors(t *testing.T) {
	w := NewWeather()

	if _, err := w.Execute(context.Background(), map[string]string{}); err == nil {
		t.Error("expected error without location")
	}
}

func TestLearnAndAskRoundTrip(t *testing.T) {
	store := knowledge.NewStore()
	learn := NewLearn(store)
	ask := NewAsk(store)

	response, err := learn.Execute(context.Background(), map[string]string{"key": "x", "value": "y"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if response != "Learned 'x' = 'y'" {
		t.Errorf("unexpected confirmation: %q", response)
	}

	answer, err := ask.Execute(context.Background(), map[string]string{"key": "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if answer != "y" {
		t.Errorf("expected y, got %q", answer)
	}
}

func TestAskUnknownFactPhrasesMiss(t *testing.T) {
	ask := NewAsk(knowledge.NewStore())

	answer, err := ask.Execute(context.Background(), map[string]string{"key": "capital_of_spain"})
	if err != nil {
		t.Fatalf("a miss is not an error: %v", err)
	}

	if answer != "I don't know that yet. Try teaching me!" {
		t.Errorf("unexpected miss phrasing: %q", answer)
	}
}

func TestClockUsesTimezone(t *testing.T) {
	c := NewClock(time.UTC)
	c.now = func() time.Time {
		return time.Date(2025, time.March, 3, 14, 30, 0, 0, time.UTC)
	}

	response, err := c.Execute(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(response, "14:30") || !strings.Contains(response, "Monday") {
		t.Errorf("unexpected time report: %q", response)
	}
}

func TestSkillIntentCoverage(t *testing.T) {
	store := knowledge.NewStore()

	tests := []struct {
		name    string
		handles string
		skill   interface{ CanHandle(string) bool }
	}{
		{"weather", intent.WeatherQuery, NewWeather()},
		{"learn", intent.LearnFact, NewLearn(store)},
		{"ask", intent.QueryFact, NewAsk(store)},
		{"status", intent.StatusQuery, NewStatus()},
		{"time", intent.TimeQuery, NewClock(nil)},
	}

	for _, tt := range tests {
		if !tt.skill.CanHandle(tt.handles) {
			t.Errorf("%s should handle %s", tt.name, tt.handles)
		}
		if tt.skill.CanHandle(intent.Unknown) {
			t.Errorf("%s should not handle unknown", tt.name)
		}
	}
}
