package entities

import (
	"errors"

	"github.com/fadedpez/coinpurse/pkg/rng"
)

var ErrEmptyShoe = errors.New("shoe is empty")

// Suit represents a card suit
type Suit string

const (
	Hearts   Suit = "♥"
	Diamonds Suit = "♦"
	Clubs    Suit = "♣"
	Spades   Suit = "♠"
)

// Rank represents a card rank
type Rank string

const (
	Ace   Rank = "A"
	Two   Rank = "2"
	Three Rank = "3"
	Four  Rank = "4"
	Five  Rank = "5"
	Six   Rank = "6"
	Seven Rank = "7"
	Eight Rank = "8"
	Nine  Rank = "9"
	Ten   Rank = "10"
	Jack  Rank = "J"
	Queen Rank = "Q"
	King  Rank = "K"
)

var (
	suits = []Suit{Hearts, Diamonds, Clubs, Spades}
	ranks = []Rank{Ace, Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King}
)

type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

// String renders the card as rank and suit, e.g. "10♦"
func (c Card) String() string {
	return string(c.Rank) + string(c.Suit)
}

// Shoe is one or more decks drawn from the top
type Shoe struct {
	Cards []Card
}

// NewShoe creates decks*52 cards in suit order
func NewShoe(decks int) *Shoe {
	cards := make([]Card, 0, 52*decks)
	for d := 0; d < decks; d++ {
		for _, suit := range suits {
			for _, rank := range ranks {
				cards = append(cards, Card{Suit: suit, Rank: rank})
			}
		}
	}
	return &Shoe{Cards: cards}
}

// NewStackedShoe creates a shoe that deals cards in the given order
func NewStackedShoe(cards ...Card) *Shoe {
	return &Shoe{Cards: append([]Card(nil), cards...)}
}

func (s *Shoe) Shuffle(src rng.Source) {
	src.Shuffle(len(s.Cards), func(i, j int) {
		s.Cards[i], s.Cards[j] = s.Cards[j], s.Cards[i]
	})
}

// Draw removes and returns the top card
func (s *Shoe) Draw() (Card, error) {
	if len(s.Cards) == 0 {
		return Card{}, ErrEmptyShoe
	}
	card := s.Cards[0]
	s.Cards = s.Cards[1:]
	return card, nil
}

func (s *Shoe) Remaining() int {
	return len(s.Cards)
}
