package blackjack

import (
	game_constants "Soberlife/constants/game"
)

// ScoreHand returns the blackjack total of cards and resolves every joker in
// place, so cards[i].GetCurrentValue() reflects the value picked here.
//
// Regular cards are summed first with aces counted as 1. A single ace is then
// promoted to 11 if the hand can still afford one point per joker afterwards.
// Jokers are resolved last, in sequence order, each one taking the value in
// [1,11] that brings the running total closest to 21 without going over, or 1
// when the hand is already at or above 21. The per-joker choice is greedy and
// does not search combinations across several jokers.
func ScoreHand(cards []Card) int {
	total := 0
	aces := 0
	jokers := 0

	for _, card := range cards {
		switch {
		case card.IsJoker:
			jokers++
		case card.IsAce():
			aces++
			total += 1
		default:
			total += PointsPerCard(card)
		}
	}

	if aces > 0 && total+10+jokers <= game_constants.BLACKJACK {
		total += 10
	}

	for i := range cards {
		if !cards[i].IsJoker {
			continue
		}
		value := bestJokerValue(total)
		cards[i].CurrentValue = value
		total += value
	}

	return total
}

func bestJokerValue(total int) int {
	room := game_constants.BLACKJACK - total
	if room < game_constants.JOKER_MIN_VALUE {
		return game_constants.JOKER_MIN_VALUE
	}
	if room > game_constants.JOKER_MAX_VALUE {
		return game_constants.JOKER_MAX_VALUE
	}
	return room
}

func IsBust(cards []Card) bool {
	return ScoreHand(cards) > game_constants.BLACKJACK
}

// IsBlackjack reports a natural: exactly two cards totalling 21
func IsBlackjack(cards []Card) bool {
	return len(cards) == game_constants.INITIAL_HAND_SIZE && ScoreHand(cards) == game_constants.BLACKJACK
}
