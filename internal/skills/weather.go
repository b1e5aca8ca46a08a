package skills

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/bowerhall/parley/internal/intent"
)

var conditions = []string{"sunny ☀️", "cloudy ☁️", "rainy 🌧️", "snowy ❄️", "partly cloudy ⛅"}

// Weather answers weather queries with simulated conditions. The report is
// deterministic per location so repeated questions get consistent answers.
type Weather struct{}

func NewWeather() *Weather {
	return &Weather{}
}

func (w *Weather) Name() string {
	return "weather"
}

func (w *Weather) CanHandle(label string) bool {
	return label == intent.WeatherQuery
}

func (w *Weather) RequiredEntities() []string {
	return []string{"location"}
}

func (w *Weather) Execute(ctx context.Context, entities map[string]string) (string, error) {
	location := entities["location"]
	if location == "" {
		return "", errors.New("weather: missing location")
	}

	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(location)))
	sum := h.Sum32()

	condition := conditions[sum%uint32(len(conditions))]
	temp := 15 + sum%16

	return fmt.Sprintf("The weather in %s is %s with a temperature of %d°C.", location, condition, temp), nil
}
