package router

import (
	"context"
	"fmt"

	"github.com/bowerhall/parley/internal/conversation"
	"github.com/bowerhall/parley/internal/intent"
	"github.com/bowerhall/parley/internal/logger"
)

// Fixed user-facing messages. Failures surface as natural language, never
// as raw errors.
const (
	FallbackMessage = "I didn't understand. Can you rephrase?"
	ApologyMessage  = "Sorry, something went wrong on my end. Let's start over."
)

// PromptFunc phrases a follow-up question for a missing entity.
type PromptFunc func(entity string) string

// Router dispatches resolved intents to registered skills. Registration
// order is preserved; the first skill whose CanHandle accepts an intent
// wins, so at most one skill executes per turn.
type Router struct {
	skills    []Skill
	contexts  *conversation.Manager
	promptFor PromptFunc
}

func New(contexts *conversation.Manager, promptFor PromptFunc) *Router {
	if promptFor == nil {
		promptFor = func(entity string) string {
			return fmt.Sprintf("Can you please tell me the %s?", entity)
		}
	}

	return &Router{
		contexts:  contexts,
		promptFor: promptFor,
	}
}

// Register appends a skill. Skills are registered once at startup, before
// any message is routed.
func (r *Router) Register(s Skill) {
	r.skills = append(r.skills, s)
	logger.Debug("skill registered", "skill", s.Name(), "requires", s.RequiredEntities())
}

// find returns the first registered skill accepting the intent, or nil.
func (r *Router) find(intentLabel string) Skill {
	for _, s := range r.skills {
		if s.CanHandle(intentLabel) {
			return s
		}
	}

	return nil
}

// RequiredEntities reports what the handling skill needs for an intent.
// Unhandled intents require nothing.
func (r *Router) RequiredEntities(intentLabel string) []string {
	if s := r.find(intentLabel); s != nil {
		return s.RequiredEntities()
	}

	return nil
}

// Route resolves the effective intent against the user's context, then
// either executes a skill, asks for the first missing entity, or falls back.
//
// Resolution policy: an exact classification (confidence 1.0) overrides a
// pending intent, so the user can switch topics mid-flow. A pending intent
// beats an unknown or merely fuzzy classification while a follow-up is
// outstanding.
func (r *Router) Route(ctx context.Context, userID, classified string, confidence float64, entities map[string]string) string {
	conv := r.contexts.GetOrCreate(userID)

	var effective string
	switch {
	case classified != intent.Unknown && (confidence >= 1.0 || !conv.Pending()):
		effective = classified
	case conv.Pending():
		effective = conv.PendingIntent
	default:
		// unknown with no pending flow; context stays untouched
		return FallbackMessage
	}

	skill := r.find(effective)
	if skill == nil {
		logger.Warn("no skill for intent", "intent", effective)
		return FallbackMessage
	}

	merged := make(map[string]string, len(conv.Entities)+len(entities))
	for k, v := range conv.Entities {
		merged[k] = v
	}
	for k, v := range entities {
		if v != "" {
			merged[k] = v
		}
	}

	for _, name := range skill.RequiredEntities() {
		if merged[name] != "" {
			continue
		}

		// park the flow and ask for the first gap
		r.contexts.Update(userID, effective, entities)
		logger.Debug("missing entity", "intent", effective, "entity", name, "user", userID)

		return r.promptFor(name)
	}

	response, err := r.execute(ctx, skill, merged)

	// clear even on failure so the user isn't trapped in a broken flow
	r.contexts.Clear(userID)

	if err != nil {
		logger.Error("skill failed", "skill", skill.Name(), "intent", effective, "error", err)
		return ApologyMessage
	}

	logger.Debug("skill executed", "skill", skill.Name(), "intent", effective)

	return response
}

// execute runs a skill, converting panics into errors at the router
// boundary so a misbehaving skill cannot crash the orchestrator.
func (r *Router) execute(ctx context.Context, s Skill, entities map[string]string) (response string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("skill %s panicked: %v", s.Name(), rec)
		}
	}()

	return s.Execute(ctx, entities)
}
