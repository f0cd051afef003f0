package cards

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Card is one product card shown in the card zone. Title doubles as the
// store key; Color is a Tailwind background class picked once at creation.
type Card struct {
	Title    string
	Color    string
	Quantity int
}

// ColorResolver picks a background color class for a newly created card.
type ColorResolver interface {
	Classify(ctx context.Context, title string) (string, error)
}

// DefaultColor is used whenever color classification fails or returns
// something that is not a Tailwind background class.
const DefaultColor = "bg-blue-500"

// ValidColor reports whether token looks like a Tailwind background color
// class (bg-<name>-<shade>).
func ValidColor(token string) bool {
	if len(token) <= 3 || token[:3] != "bg-" {
		return false
	}
	for i := 3; i < len(token); i++ {
		if token[i] == '-' {
			return true
		}
	}
	return false
}

// Store holds the cards keyed by title, preserving insertion order for
// rendering. Titles are matched case-sensitively, exactly as extracted
// from the action tag; the system prompt asks the model for Title Case,
// and normalizing here would merge titles the model meant to distinguish.
//
// The store is not safe for concurrent use. Turn processing is serialized
// by the owning session, which is the only mutator.
type Store struct {
	cards map[string]*Card
	order []string
}

// NewStore creates an empty card store.
func NewStore() *Store {
	return &Store{cards: make(map[string]*Card)}
}

// Len returns the number of distinct cards in the store.
func (s *Store) Len() int {
	return len(s.order)
}

// Snapshot returns a copy of all cards in insertion order.
func (s *Store) Snapshot() []Card {
	out := make([]Card, 0, len(s.order))
	for _, title := range s.order {
		out = append(out, *s.cards[title])
	}
	return out
}

// Apply executes a parsed card action against the store. ADD on an unseen
// title consults the resolver for a color; every other mutation leaves the
// card's color untouched. A REMOVE for an unknown title is a no-op, and a
// quantity dropping to zero or below deletes the card entirely, so every
// stored card always has quantity > 0.
//
// Apply never fails: a broken resolver degrades to DefaultColor.
func (s *Store) Apply(ctx context.Context, action Action, resolver ColorResolver) {
	switch action.Verb {
	case VerbAdd:
		s.add(ctx, action, resolver)
	case VerbRemove:
		s.remove(action)
	}
}

func (s *Store) add(ctx context.Context, action Action, resolver ColorResolver) {
	if card, ok := s.cards[action.Title]; ok {
		card.Quantity += action.Quantity
		log.Info().
			Str("title", action.Title).
			Int("by", action.Quantity).
			Int("quantity", card.Quantity).
			Msg("Incremented card quantity")
		return
	}

	// The grammar admits QUANTITY:0; creating such a card would break the
	// quantity > 0 invariant, so it is dropped here instead.
	if action.Quantity <= 0 {
		log.Debug().Str("title", action.Title).Msg("Add with zero quantity, ignoring")
		return
	}

	color := DefaultColor
	if resolver != nil {
		token, err := resolver.Classify(ctx, action.Title)
		if err == nil && ValidColor(token) {
			color = token
		} else if err != nil {
			log.Warn().Err(err).
				Str("title", action.Title).
				Msg("Color classification failed, using fallback")
		}
	}

	s.cards[action.Title] = &Card{
		Title:    action.Title,
		Color:    color,
		Quantity: action.Quantity,
	}
	s.order = append(s.order, action.Title)
	log.Info().
		Str("title", action.Title).
		Str("color", color).
		Int("quantity", action.Quantity).
		Msg("Added card")
}

func (s *Store) remove(action Action) {
	card, ok := s.cards[action.Title]
	if !ok {
		// Nothing to remove; the model referenced a card that never
		// existed or was already cleared.
		log.Debug().Str("title", action.Title).Msg("Remove for unknown card, ignoring")
		return
	}

	if !action.All && card.Quantity > action.Quantity {
		card.Quantity -= action.Quantity
		log.Info().
			Str("title", action.Title).
			Int("by", action.Quantity).
			Int("quantity", card.Quantity).
			Msg("Decremented card quantity")
		return
	}

	s.delete(action.Title)
	log.Info().Str("title", action.Title).Msg("Deleted card")
}

func (s *Store) delete(title string) {
	delete(s.cards, title)
	for i, t := range s.order {
		if t == title {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}
