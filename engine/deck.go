package engine

import "math/rand"

// NewDeck returns all 108 card ids in fixed order.
func NewDeck() []Card {
	deck := make([]Card, NumCards)
	for i := range deck {
		deck[i] = Card(i)
	}
	return deck
}

// Shuffle permutes the deck in place with a Fisher-Yates shuffle seeded by
// seed. The same seed always yields the same permutation, so replays and
// tests are reproducible.
func Shuffle(deck []Card, seed int64) {
	r := rand.New(rand.NewSource(seed))
	for i := len(deck) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		deck[i], deck[j] = deck[j], deck[i]
	}
}

// DealHands deals a hand of handSize cards to each of the four players from
// a shuffled deck and returns the hands, the stock, the first discard-pile
// card, and each team's red threes.
//
// The deal is player-major: the first handSize cards go to player 0, the
// next handSize to player 1, and so on — the same assignment the state
// machine produces when the chance actor always picks outcome 0. Red threes
// are then pulled from the hands in deal order and filed to the owning
// team's pile; each is replaced by the next card off the remaining deck,
// with replacement red threes re-queued until the deck runs dry. One card
// then starts the discard pile and the remainder is the stock.
func DealHands(deck []Card, handSize int) (hands [NumPlayers][]Card, stock []Card, upcard Card, redThrees [NumTeams][]Card) {
	remaining := append([]Card(nil), deck...)

	var pending []int // player indices owed a replacement, FIFO
	for p := 0; p < NumPlayers; p++ {
		hands[p] = make([]Card, 0, handSize)
		for i := 0; i < handSize; i++ {
			card := remaining[0]
			remaining = remaining[1:]
			if card.IsRedThree() {
				redThrees[p%2] = append(redThrees[p%2], card)
				pending = append(pending, p)
				continue
			}
			hands[p] = append(hands[p], card)
		}
	}

	for len(pending) > 0 && len(remaining) > 0 {
		p := pending[0]
		pending = pending[1:]
		card := remaining[0]
		remaining = remaining[1:]
		if card.IsRedThree() {
			redThrees[p%2] = append(redThrees[p%2], card)
			pending = append(pending, p)
			continue
		}
		hands[p] = append(hands[p], card)
	}

	upcard = remaining[0]
	stock = remaining[1:]
	return hands, stock, upcard, redThrees
}
