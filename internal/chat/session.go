// Package chat owns the conversational state and runs one turn end to
// end: agent call, card-action parse, store mutation, snapshot. A single
// process-wide session serves all requests; turns are serialized through
// the session mutex so concurrent HTTP requests cannot interleave history
// updates or card mutations.
package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"

	"github.com/cardboard/internal/cards"
)

// Agent is the narrow Agent Client contract: run a conversational turn,
// or ask a bare side question. Both return the reply and the history
// extended by the exchange.
type Agent interface {
	Run(ctx context.Context, message string, history []llms.MessageContent) (string, []llms.MessageContent, error)
	Ask(ctx context.Context, prompt string, history []llms.MessageContent) (string, []llms.MessageContent, error)
}

// Config tunes session behavior. Zero values fall back to defaults.
type Config struct {
	FallbackColor string        // color used when classification fails
	TurnTimeout   time.Duration // bound on the primary agent call
	ColorTimeout  time.Duration // bound on the color side call
}

// Session holds the conversation history and card store for one chat.
type Session struct {
	mu            sync.Mutex
	agent         Agent
	store         *cards.Store
	history       []llms.MessageContent
	fallbackColor string
	turnTimeout   time.Duration
	colorTimeout  time.Duration
}

// NewSession creates a session around the given agent.
func NewSession(agent Agent, cfg Config) *Session {
	if cfg.FallbackColor == "" {
		cfg.FallbackColor = cards.DefaultColor
	}
	if cfg.TurnTimeout <= 0 {
		cfg.TurnTimeout = 60 * time.Second
	}
	if cfg.ColorTimeout <= 0 {
		cfg.ColorTimeout = 10 * time.Second
	}
	return &Session{
		agent:         agent,
		store:         cards.NewStore(),
		fallbackColor: cfg.FallbackColor,
		turnTimeout:   cfg.TurnTimeout,
		colorTimeout:  cfg.ColorTimeout,
	}
}

// TurnResult is what one processed turn produces for rendering. Cards is
// only populated when an action was applied; the card zone is re-rendered
// in full on every mutation and left alone otherwise.
type TurnResult struct {
	TurnID      string
	UserText    string
	DisplayText string
	Action      *cards.Action
	Cards       []cards.Card
}

// CardsChanged reports whether this turn mutated the card store.
func (r *TurnResult) CardsChanged() bool {
	return r.Action != nil
}

// Turn processes one user message. On agent failure the error is returned
// with history and cards untouched; card-level failures (bad color
// classification, remove of an unknown title) are absorbed and never
// surface here.
func (s *Session) Turn(ctx context.Context, userText string) (*TurnResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	turnID := uuid.NewString()
	logger := log.With().Str("turn_id", turnID).Logger()
	logger.Info().Int("history_len", len(s.history)).Msg("Processing turn")

	runCtx, cancel := context.WithTimeout(ctx, s.turnTimeout)
	defer cancel()

	output, newHistory, err := s.agent.Run(runCtx, userText, s.history)
	if err != nil {
		logger.Error().Err(err).Msg("Agent turn failed")
		return nil, fmt.Errorf("agent turn failed: %w", err)
	}
	s.history = newHistory

	display, action := cards.ParseAction(output)
	result := &TurnResult{
		TurnID:      turnID,
		UserText:    userText,
		DisplayText: display,
		Action:      action,
	}

	if action != nil {
		logger.Info().
			Str("verb", string(action.Verb)).
			Str("title", action.Title).
			Int("quantity", action.Quantity).
			Bool("all", action.All).
			Msg("Applying card action")
		s.store.Apply(ctx, *action, &colorResolver{session: s})
		result.Cards = s.store.Snapshot()
	}

	return result, nil
}

// Cards returns the current card snapshot.
func (s *Session) Cards() []cards.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Snapshot()
}

// colorPrompt asks the model for a Tailwind background class; the reply
// is expected to be the bare class name.
const colorPrompt = "What Tailwind CSS background color class (like bg-yellow-400, bg-red-500, bg-blue-600, etc.) best represents '%s'? Reply with ONLY the class name (e.g., bg-yellow-400)."

// colorResolver classifies a new card's color by asking the agent with
// the conversation attached. The classification exchange is appended to
// the shared history, so later turns see it. Only called from Turn, which
// already holds the session lock.
type colorResolver struct {
	session *Session
}

func (r *colorResolver) Classify(ctx context.Context, title string) (string, error) {
	s := r.session

	askCtx, cancel := context.WithTimeout(ctx, s.colorTimeout)
	defer cancel()

	reply, newHistory, err := s.agent.Ask(askCtx, fmt.Sprintf(colorPrompt, title), s.history)
	if err != nil {
		log.Warn().
			Str("title", title).
			Err(err).
			Msg("Color classification failed, using fallback")
		return s.fallbackColor, nil
	}
	s.history = newHistory

	token := strings.TrimSpace(reply)
	if !cards.ValidColor(token) {
		log.Warn().
			Str("title", title).
			Str("reply", token).
			Msg("Model returned invalid color class, using fallback")
		return s.fallbackColor, nil
	}
	return token, nil
}
