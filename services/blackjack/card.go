package blackjack

import (
	"fmt"
	"strconv"
)

// Cards A, 2, 3, 4, 5, 6, 7, 8, 9, 10, J, Q, K plus the wild JOKER
// Suit s (spades), c (clubs), d (diamonds), h (hearts). Jokers have no suit.
const JokerRank = "JOKER"

// Card is a single playing card. CurrentValue is only meaningful for jokers and
// holds the value picked by the latest ScoreHand call.
type Card struct {
	Rank         string `json:"rank"`
	Suit         string `json:"suit,omitempty"`
	IsJoker      bool   `json:"isJoker"`
	CurrentValue int    `json:"currentValue,omitempty"`
}

var Ranks = []string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}

// Regular (non-ace) ranks in deck-building order
var RegularRanks = Ranks[1:]

var Suits = []string{"h", "d", "c", "s"}

var RankMap = map[string]bool{
	"A": true, "2": true, "3": true, "4": true, "5": true,
	"6": true, "7": true, "8": true, "9": true, "10": true,
	"J": true, "Q": true, "K": true,
}

var SuitMap = map[string]bool{
	"h": true, "d": true, "c": true, "s": true,
}

func NewCard(rank, suit string) Card {
	return Card{Rank: rank, Suit: suit}
}

func NewJoker() Card {
	return Card{Rank: JokerRank, IsJoker: true}
}

func (c Card) IsAce() bool {
	return !c.IsJoker && c.Rank == "A"
}

// GetCurrentValue returns the joker's resolved value, or the fixed value of a regular card
func (c Card) GetCurrentValue() int {
	if c.IsJoker {
		return c.CurrentValue
	}
	return PointsPerCard(c)
}

func (c Card) Valid() bool {
	if c.IsJoker {
		return c.Rank == JokerRank
	}
	return RankMap[c.Rank] && SuitMap[c.Suit]
}

func (c Card) String() string {
	if c.IsJoker {
		if c.CurrentValue > 0 {
			return fmt.Sprintf("JOKER(%d)", c.CurrentValue)
		}
		return "JOKER"
	}
	return c.Rank + c.Suit
}

// PointsPerCard gives the fixed blackjack value of a regular card.
// Face cards are worth 10, aces 1 (promotion to 11 is done by ScoreHand)
// and jokers 0 since they have no fixed value.
func PointsPerCard(c Card) int {
	if c.IsJoker {
		return 0
	}
	switch c.Rank {
	case "K", "Q", "J":
		return 10
	case "A":
		return 1
	default:
		value, _ := strconv.Atoi(c.Rank)
		return value
	}
}
