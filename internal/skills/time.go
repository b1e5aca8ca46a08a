package skills

import (
	"context"
	"fmt"
	"time"

	"github.com/bowerhall/parley/internal/intent"
)

// Clock answers time and date questions in the configured timezone.
type Clock struct {
	timezone *time.Location
	now      func() time.Time
}

func NewClock(timezone *time.Location) *Clock {
	if timezone == nil {
		timezone = time.UTC
	}

	return &Clock{timezone: timezone, now: time.Now}
}

func (c *Clock) Name() string {
	return "time"
}

func (c *Clock) CanHandle(label string) bool {
	return label == intent.TimeQuery
}

func (c *Clock) RequiredEntities() []string {
	return nil
}

func (c *Clock) Execute(ctx context.Context, entities map[string]string) (string, error) {
	now := c.now().In(c.timezone)

	return fmt.Sprintf("It's %s on %s (%s).",
		now.Format("15:04"),
		now.Format("Monday, January 2"),
		c.timezone.String(),
	), nil
}
