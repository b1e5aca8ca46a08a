package skills

import (
	"context"
	"errors"
	"fmt"

	"github.com/bowerhall/parley/internal/intent"
	"github.com/bowerhall/parley/internal/knowledge"
)

// Learn stores a fact in the knowledge base.
type Learn struct {
	store *knowledge.Store
}

func NewLearn(store *knowledge.Store) *Learn {
	return &Learn{store: store}
}

func (l *Learn) Name() string {
	return "learn"
}

func (l *Learn) CanHandle(label string) bool {
	return label == intent.LearnFact
}

func (l *Learn) RequiredEntities() []string {
	return []string{"key", "value"}
}

func (l *Learn) Execute(ctx context.Context, entities map[string]string) (string, error) {
	key := entities["key"]
	value := entities["value"]
	if key == "" || value == "" {
		return "", errors.New("learn: missing key or value")
	}

	l.store.Learn(key, value)

	return fmt.Sprintf("Learned '%s' = '%s'", key, value), nil
}

// Ask answers questions from the knowledge base. A miss is a normal outcome
// phrased for the user, not an error.
type Ask struct {
	store *knowledge.Store
}

func NewAsk(store *knowledge.Store) *Ask {
	return &Ask{store: store}
}

func (a *Ask) Name() string {
	return "ask"
}

func (a *Ask) CanHandle(label string) bool {
	return label == intent.QueryFact
}

func (a *Ask) RequiredEntities() []string {
	return []string{"key"}
}

func (a *Ask) Execute(ctx context.Context, entities map[string]string) (string, error) {
	value, err := a.store.Query(entities["key"])
	if errors.Is(err, knowledge.ErrNotFound) {
		return "I don't know that yet. Try teaching me!", nil
	}
	if err != nil {
		return "", err
	}

	return value, nil
}
