package blackjack

import (
	game_constants "Soberlife/constants/game"
	"errors"
	"slices"
)

type Outcome string

const (
	OutcomePending   Outcome = ""
	OutcomeWin       Outcome = "win"
	OutcomeBlackjack Outcome = "blackjack"
	OutcomeLose      Outcome = "lose"
	OutcomePush      Outcome = "push"
)

func (o Outcome) IsWin() bool {
	return o == OutcomeWin || o == OutcomeBlackjack
}

var ErrRoundOver = errors.New("round is already over")

// Round is one hand of player versus dealer. Hands live only as long as the round.
type Round struct {
	PlayerHand  []Card  `json:"playerHand"`
	DealerHand  []Card  `json:"dealerHand"`
	PlayerScore int     `json:"playerScore"`
	DealerScore int     `json:"dealerScore"`
	Outcome     Outcome `json:"outcome"`
	deck        *Deck
}

// NewRound deals player, dealer, player, dealer and settles naturals at once
func NewRound(deck *Deck) *Round {
	r := &Round{deck: deck}
	for i := 0; i < game_constants.INITIAL_HAND_SIZE; i++ {
		r.PlayerHand = append(r.PlayerHand, deck.Draw(1)...)
		r.DealerHand = append(r.DealerHand, deck.Draw(1)...)
	}
	r.rescore()

	playerNatural := IsBlackjack(r.PlayerHand)
	dealerNatural := IsBlackjack(r.DealerHand)
	switch {
	case playerNatural && dealerNatural:
		r.finish(OutcomePush)
	case playerNatural:
		r.finish(OutcomeBlackjack)
	case dealerNatural:
		r.finish(OutcomeLose)
	}
	return r
}

// Clone copies the round with hands that share nothing with r. The copy has
// no deck and cannot be played.
func (r *Round) Clone() Round {
	c := *r
	c.PlayerHand = slices.Clone(r.PlayerHand)
	c.DealerHand = slices.Clone(r.DealerHand)
	c.deck = nil
	return c
}

func (r *Round) Over() bool {
	return r.Outcome != OutcomePending
}

func (r *Round) rescore() {
	r.PlayerScore = ScoreHand(r.PlayerHand)
	r.DealerScore = ScoreHand(r.DealerHand)
}

func (r *Round) Hit() error {
	if r.Over() {
		return ErrRoundOver
	}
	r.PlayerHand = append(r.PlayerHand, r.deck.Draw(1)...)
	r.rescore()
	if r.PlayerScore > game_constants.BLACKJACK {
		r.finish(OutcomeLose)
	}
	return nil
}

// Stand lets the dealer draw until reaching 17 and settles the round
func (r *Round) Stand() error {
	if r.Over() {
		return ErrRoundOver
	}
	for r.DealerScore < game_constants.DEALER_STANDS_ON {
		drawn := r.deck.Draw(1)
		if len(drawn) == 0 {
			break
		}
		r.DealerHand = append(r.DealerHand, drawn...)
		r.rescore()
	}

	switch {
	case r.DealerScore > game_constants.BLACKJACK:
		r.finish(OutcomeWin)
	case r.PlayerScore > r.DealerScore:
		r.finish(OutcomeWin)
	case r.PlayerScore < r.DealerScore:
		r.finish(OutcomeLose)
	default:
		r.finish(OutcomePush)
	}
	return nil
}

func (r *Round) finish(outcome Outcome) {
	r.Outcome = outcome
	r.deck.MarkAsPlayed(r.PlayerHand)
	r.deck.MarkAsPlayed(r.DealerHand)
}
