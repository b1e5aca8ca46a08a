package bot

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bowerhall/parley/internal/conversation"
	"github.com/bowerhall/parley/internal/intent"
	"github.com/bowerhall/parley/internal/knowledge"
	"github.com/bowerhall/parley/internal/logger"
	"github.com/bowerhall/parley/internal/router"
	"github.com/bowerhall/parley/internal/skills"
)

// EmptyMessage is the reply to blank input.
const EmptyMessage = "Could you please say that again?"

type Config struct {
	// Intent overrides the built-in catalog when its Rules are non-empty.
	Intent intent.Config

	ContextTimeout time.Duration
	FuzzyThreshold float64
	Timezone       *time.Location
}

// Bot wires the conversation core: text goes through the intent engine,
// merges with stored context, and is routed to a skill or a follow-up
// prompt. One Bot serves every channel.
type Bot struct {
	engine    *intent.Engine
	contexts  *conversation.Manager
	router    *router.Router
	knowledge *knowledge.Store
}

func New(cfg Config) *Bot {
	intentCfg := cfg.Intent
	if len(intentCfg.Rules) == 0 {
		intentCfg = intent.DefaultConfig()
	}
	if cfg.FuzzyThreshold > 0 {
		intentCfg.Threshold = cfg.FuzzyThreshold
	}

	engine := intent.New(intentCfg)
	contexts := conversation.NewManager(cfg.ContextTimeout)
	facts := knowledge.NewStore()

	r := router.New(contexts, engine.PromptFor)
	r.Register(skills.NewWeather())
	r.Register(skills.NewLearn(facts))
	r.Register(skills.NewAsk(facts))
	r.Register(skills.NewStatus())
	r.Register(skills.NewClock(cfg.Timezone))

	return &Bot{
		engine:    engine,
		contexts:  contexts,
		router:    r,
		knowledge: facts,
	}
}

// Router exposes the skill registry so callers can add skills at startup.
func (b *Bot) Router() *router.Router {
	return b.router
}

// Contexts exposes the context manager, mainly for the sweeper.
func (b *Bot) Contexts() *conversation.Manager {
	return b.contexts
}

// Knowledge exposes the fact store.
func (b *Bot) Knowledge() *knowledge.Store {
	return b.knowledge
}

// ProcessMessage runs one full conversation turn: classify, merge with the
// user's context, route, respond. Turns for the same user are serialized;
// turns for different users run concurrently.
func (b *Bot) ProcessMessage(ctx context.Context, userID, text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return EmptyMessage
	}

	b.contexts.Begin(userID)
	defer b.contexts.End(userID)

	turnID := uuid.NewString()

	classified, confidence := b.engine.Classify(text)
	conv := b.contexts.GetOrCreate(userID)

	logger.Info("message received",
		"turn", turnID,
		"user", userID,
		"intent", classified,
		"confidence", confidence,
		"text", truncate(text, 50),
	)

	// the intent whose extractors apply: a pending flow keeps collecting
	// entities unless the new classification is an exact topic switch
	effective := classified
	if conv.Pending() && (classified == intent.Unknown || confidence < 1.0) {
		effective = conv.PendingIntent
	}

	var entities map[string]string
	if effective != intent.Unknown {
		entities = b.engine.Extract(text, effective)
	}

	// on a follow-up turn, a message that extraction couldn't parse is
	// taken verbatim as the answer to the first missing entity
	if conv.Pending() && effective == conv.PendingIntent {
		b.fillFirstMissing(conv, effective, entities, text)
	}

	response := b.router.Route(ctx, userID, classified, confidence, entities)

	logger.Info("reply ready", "turn", turnID, "user", userID, "chars", len(response))

	return response
}

func (b *Bot) fillFirstMissing(conv conversation.Context, intentLabel string, entities map[string]string, text string) {
	for _, name := range b.router.RequiredEntities(intentLabel) {
		if _, have := conv.Entity(name); have {
			continue
		}
		if entities[name] != "" {
			return
		}

		entities[name] = text

		return
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}

	return s[:max] + "..."
}
