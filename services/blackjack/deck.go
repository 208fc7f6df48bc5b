package blackjack

import (
	game_constants "Soberlife/constants/game"
	"errors"
	"fmt"
	"time"

	"golang.org/x/exp/rand"
)

var ErrUnknownUpgrade = errors.New("unknown upgrade kind")
var ErrInvalidComposition = errors.New("invalid deck composition")

// DeckComposition is the persisted shape of the player's deck. It only grows
// through shop upgrades.
type DeckComposition struct {
	Jokers       int `json:"jokers"`
	Aces         int `json:"aces"`
	RegularCards int `json:"regularCards"`
	TotalCards   int `json:"totalCards"`
}

func DefaultComposition() DeckComposition {
	dc := DeckComposition{
		Jokers:       0,
		Aces:         game_constants.BASE_ACES,
		RegularCards: game_constants.BASE_REGULAR_CARDS,
	}
	dc.TotalCards = dc.Total()
	return dc
}

func (dc DeckComposition) Total() int {
	return dc.Jokers + dc.Aces + dc.RegularCards
}

func (dc DeckComposition) Validate() error {
	if dc.Jokers < 0 || dc.Aces < 0 || dc.RegularCards < 0 {
		return fmt.Errorf("%w: negative count %+v", ErrInvalidComposition, dc)
	}
	if dc.Aces+dc.RegularCards < game_constants.BASE_DECK_SIZE {
		return fmt.Errorf("%w: %d suited cards, need at least %d", ErrInvalidComposition,
			dc.Aces+dc.RegularCards, game_constants.BASE_DECK_SIZE)
	}
	return nil
}

// ApplyUpgrade returns the composition with the counter for kind incremented
func ApplyUpgrade(dc DeckComposition, kind string) (DeckComposition, error) {
	switch kind {
	case game_constants.UPGRADE_EXTRA_JOKER:
		dc.Jokers++
	case game_constants.UPGRADE_EXTRA_ACE:
		dc.Aces++
	case game_constants.UPGRADE_EXTRA_CARD:
		dc.RegularCards++
	default:
		return dc, fmt.Errorf("%w: %q", ErrUnknownUpgrade, kind)
	}
	dc.TotalCards = dc.Total()
	return dc, nil
}

func NewRNG() *rand.Rand {
	return rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
}

// BuildDeck creates the shuffled card sequence for a composition: aces cycle
// through the suits, regular cards cycle through ranks 2..K and then suits.
func BuildDeck(dc DeckComposition, rng *rand.Rand) []Card {
	cards := make([]Card, 0, dc.Total())

	for i := 0; i < dc.Aces; i++ {
		cards = append(cards, NewCard("A", Suits[i%len(Suits)]))
	}

	for i := 0; i < dc.RegularCards; i++ {
		rank := RegularRanks[i%len(RegularRanks)]
		suit := Suits[(i/len(RegularRanks))%len(Suits)]
		cards = append(cards, NewCard(rank, suit))
	}

	for i := 0; i < dc.Jokers; i++ {
		cards = append(cards, NewJoker())
	}

	shuffle(cards, rng)
	return cards
}

// Fisher-Yates
func shuffle(cards []Card, rng *rand.Rand) {
	for i := len(cards) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}

// Deck is the draw pile of a play session
type Deck struct {
	TotalCards  []Card `json:"total_cards"`
	PlayedCards []Card `json:"played_cards"`
	rng         *rand.Rand
}

func NewDeck(dc DeckComposition, rng *rand.Rand) *Deck {
	if rng == nil {
		rng = NewRNG()
	}
	return &Deck{
		TotalCards:  BuildDeck(dc, rng),
		PlayedCards: make([]Card, 0),
		rng:         rng,
	}
}

func (d *Deck) Remaining() int {
	return len(d.TotalCards)
}

func (d *Deck) MarkAsPlayed(cards []Card) {
	for _, c := range cards {
		if c.IsJoker {
			c.CurrentValue = 0
		}
		d.PlayedCards = append(d.PlayedCards, c)
	}
}

func (d *Deck) Draw(n int) []Card {
	if len(d.TotalCards) < n {
		d.reshufflePlayed()
	}

	if n > len(d.TotalCards) {
		n = len(d.TotalCards)
	}

	drawn := make([]Card, n)
	copy(drawn, d.TotalCards[:n])
	d.TotalCards = d.TotalCards[n:]

	return drawn
}

// Needed when the draw pile runs short in the middle of a round
func (d *Deck) reshufflePlayed() {
	shuffle(d.PlayedCards, d.rng)
	d.TotalCards = append(d.TotalCards, d.PlayedCards...)
	d.PlayedCards = make([]Card, 0)
}

func (d *Deck) CountJokers() int {
	return CountJokers(d.TotalCards)
}
