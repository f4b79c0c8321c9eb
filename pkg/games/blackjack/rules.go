package blackjack

import (
	"strconv"
	"strings"

	"github.com/fadedpez/coinpurse/pkg/entities"
)

const (
	StandardDecks = 6  // Standard number of decks in the shoe
	DealerStand   = 17 // Dealer draws until reaching this score
	Target        = 21
)

// Hand is a list of dealt cards
type Hand []entities.Card

func CardValue(card entities.Card) int {
	switch card.Rank {
	case entities.Ace:
		return 11
	case entities.Jack, entities.Queen, entities.King:
		return 10
	default:
		val, _ := strconv.Atoi(string(card.Rank))
		return val
	}
}

// Score returns the best total, counting aces as 11 while that does not bust
func (h Hand) Score() int {
	score := 0
	aces := 0

	for _, card := range h {
		if card.Rank == entities.Ace {
			aces++
		} else {
			score += CardValue(card)
		}
	}

	for i := 0; i < aces; i++ {
		if score+11 <= Target {
			score += 11
		} else {
			score++
		}
	}

	return score
}

func (h Hand) IsBlackjack() bool {
	return len(h) == 2 && h.Score() == Target
}

// IsBust checks if a hand exceeds 21
func (h Hand) IsBust() bool {
	return h.Score() > Target
}

func (h Hand) String() string {
	parts := make([]string, len(h))
	for i, card := range h {
		parts[i] = card.String()
	}
	return strings.Join(parts, " ")
}

// CompareHands compares two finished hands and returns:
// 1 if hand1 wins
// -1 if hand2 wins
// 0 if push (tie)
func CompareHands(hand1, hand2 Hand) int {
	bust1 := hand1.IsBust()
	bust2 := hand2.IsBust()
	if bust1 && !bust2 {
		return -1
	} else if !bust1 && bust2 {
		return 1
	} else if bust1 && bust2 {
		return 0
	}

	score1 := hand1.Score()
	score2 := hand2.Score()
	if score1 > score2 {
		return 1
	} else if score1 < score2 {
		return -1
	}
	return 0
}

// ShouldDealerHit reports whether the dealer must draw another card
func ShouldDealerHit(dealer Hand) bool {
	return dealer.Score() < DealerStand
}
