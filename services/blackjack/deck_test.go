package blackjack

import (
	game_constants "Soberlife/constants/game"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func seeded() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func TestBuildDeckDefault(t *testing.T) {
	cards := BuildDeck(DefaultComposition(), seeded())
	require.Len(t, cards, game_constants.BASE_DECK_SIZE)

	seen := make(map[string]int)
	for _, card := range cards {
		assert.True(t, card.Valid(), "invalid card %v", card)
		seen[card.String()]++
	}
	// A standard deck has 52 distinct cards
	assert.Len(t, seen, 52)
	assert.Equal(t, 0, CountJokers(cards))
}

func TestBuildDeckExactJokers(t *testing.T) {
	dc := DefaultComposition()
	dc.Jokers = 15

	cards := BuildDeck(dc, seeded())
	assert.Len(t, cards, 67)
	assert.Equal(t, 15, CountJokers(cards))
}

func TestBuildDeckAces(t *testing.T) {
	dc := DefaultComposition()
	dc.Aces = 7

	aces := 0
	for _, card := range BuildDeck(dc, seeded()) {
		if card.IsAce() {
			aces++
		}
	}
	assert.Equal(t, 7, aces)
}

func TestApplyUpgrade(t *testing.T) {
	dc := DefaultComposition()

	dc, err := ApplyUpgrade(dc, game_constants.UPGRADE_EXTRA_JOKER)
	require.NoError(t, err)
	dc, err = ApplyUpgrade(dc, game_constants.UPGRADE_EXTRA_ACE)
	require.NoError(t, err)
	dc, err = ApplyUpgrade(dc, game_constants.UPGRADE_EXTRA_CARD)
	require.NoError(t, err)

	assert.Equal(t, 1, dc.Jokers)
	assert.Equal(t, 5, dc.Aces)
	assert.Equal(t, 49, dc.RegularCards)
	assert.Equal(t, 55, dc.TotalCards)

	_, err = ApplyUpgrade(dc, "remove_joker")
	assert.ErrorIs(t, err, ErrUnknownUpgrade)
}

func TestCompositionValidate(t *testing.T) {
	assert.NoError(t, DefaultComposition().Validate())
	assert.ErrorIs(t, DeckComposition{Jokers: -1, Aces: 4, RegularCards: 48}.Validate(), ErrInvalidComposition)
	assert.ErrorIs(t, DeckComposition{Aces: 4, RegularCards: 10}.Validate(), ErrInvalidComposition)
}

func TestCompositionJSON(t *testing.T) {
	dc := DefaultComposition()
	dc.Jokers = 3

	got, err := CompositionFromJSON(dc.ToJSON())
	require.NoError(t, err)
	assert.Equal(t, dc, got)
	assert.JSONEq(t, `{"jokers":3,"aces":4,"regularCards":48,"totalCards":55}`, string(dc.ToJSON()))
}

func TestDeckDrawReshuffles(t *testing.T) {
	deck := NewDeck(DefaultComposition(), seeded())

	first := deck.Draw(50)
	deck.MarkAsPlayed(first)
	assert.Equal(t, 2, deck.Remaining())

	drawn := deck.Draw(5)
	assert.Len(t, drawn, 5)
	assert.Equal(t, 47, deck.Remaining())
}

// A single joker in the deck should turn up within a few rounds of dealing
func TestJokerAppearsWithinRounds(t *testing.T) {
	dc := DefaultComposition()
	dc.Jokers = 15
	deck := NewDeck(dc, seeded())

	found := false
	for i := 0; i < 20 && !found; i++ {
		round := NewRound(deck)
		found = CountJokers(round.PlayerHand)+CountJokers(round.DealerHand) > 0
		if !round.Over() {
			require.NoError(t, round.Stand())
		}
	}
	assert.True(t, found)
}
