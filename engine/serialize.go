package engine

import (
	"encoding/json"
	"fmt"
)

// Serialize encodes the complete game state — every card collection, flag,
// and cumulative score — as an opaque JSON blob. A state restored from the
// blob is indistinguishable from the original for all subsequent queries.
func (g *GameState) Serialize() ([]byte, error) {
	data, err := json.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return data, nil
}

// Deserialize decodes a blob produced by Serialize.
func Deserialize(data []byte) (*GameState, error) {
	var g GameState
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	g.Rules = g.Rules.normalized()
	if err := g.validate(); err != nil {
		return nil, err
	}
	return &g, nil
}

// validate rejects blobs whose card collections are corrupt: every card id
// must be in range and the 108-card conservation invariant must hold.
func (g *GameState) validate() error {
	total := 0
	check := func(cards []Card) error {
		for _, c := range cards {
			if !c.Valid() {
				return fmt.Errorf("%w: card id %d out of range", ErrSerialization, c)
			}
		}
		total += len(cards)
		return nil
	}

	if err := check(g.Deck); err != nil {
		return err
	}
	if err := check(g.Stock); err != nil {
		return err
	}
	if err := check(g.Discard); err != nil {
		return err
	}
	for p := 0; p < NumPlayers; p++ {
		if err := check(g.Hands[p]); err != nil {
			return err
		}
	}
	for t := 0; t < NumTeams; t++ {
		if err := check(g.RedThrees[t]); err != nil {
			return err
		}
		for _, m := range g.Melds[t] {
			if err := check(m.Naturals); err != nil {
				return err
			}
			if err := check(m.Wilds); err != nil {
				return err
			}
		}
	}

	if total != NumCards {
		return fmt.Errorf("%w: %d cards in state, want %d", ErrSerialization, total, NumCards)
	}
	if g.CurrentPlayer < 0 || g.CurrentPlayer >= NumPlayers {
		return fmt.Errorf("%w: current player %d out of range", ErrSerialization, g.CurrentPlayer)
	}
	return nil
}

// Clone returns a fully independent deep copy: mutating the clone never
// affects the original and vice versa.
func (g *GameState) Clone() *GameState {
	out := *g

	out.Deck = append([]Card(nil), g.Deck...)
	out.Stock = append([]Card(nil), g.Stock...)
	out.Discard = append([]Card(nil), g.Discard...)
	out.Replacements = append([]int(nil), g.Replacements...)
	for p := 0; p < NumPlayers; p++ {
		out.Hands[p] = append([]Card(nil), g.Hands[p]...)
	}
	for t := 0; t < NumTeams; t++ {
		out.RedThrees[t] = append([]Card(nil), g.RedThrees[t]...)
		out.Melds[t] = make([]Meld, len(g.Melds[t]))
		for i, m := range g.Melds[t] {
			out.Melds[t][i] = m.clone()
		}
	}
	return &out
}
