package router

import "context"

// Skill is a pluggable handler for one or more intents. Skills declare what
// they can handle and which entities they need; the router will not execute
// a skill until every required entity has a non-empty value.
type Skill interface {
	Name() string
	CanHandle(intent string) bool
	RequiredEntities() []string
	Execute(ctx context.Context, entities map[string]string) (string, error)
}
