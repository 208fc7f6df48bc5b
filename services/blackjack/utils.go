package blackjack

import (
	"encoding/json"
)

// CountJokers counts the jokers in a card sequence
func CountJokers(cards []Card) int {
	count := 0
	for _, c := range cards {
		if c.IsJoker {
			count++
		}
	}
	return count
}

// Marshal the composition for key-value storage
func (dc DeckComposition) ToJSON() json.RawMessage {
	data, _ := json.Marshal(dc)
	return data
}

func CompositionFromJSON(data json.RawMessage) (DeckComposition, error) {
	var dc DeckComposition
	if err := json.Unmarshal(data, &dc); err != nil {
		return DeckComposition{}, err
	}
	dc.TotalCards = dc.Total()
	return dc, dc.Validate()
}
