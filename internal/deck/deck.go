package deck

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"dobble/internal/models"
)

// ErrExhausted is returned by Deal when no cards remain.
var ErrExhausted = errors.New("deck exhausted")

// supportedOrders are the plane orders the generator accepts. The
// construction below requires a prime order.
var supportedOrders = map[int]bool{2: true, 3: true, 5: true, 7: true, 11: true}

// Deck is a finite shuffled sequence of cards in which any two distinct
// cards share exactly one symbol. It only shrinks: cards are dealt from
// the front and never returned.
type Deck struct {
	cards []models.Card
}

// Config for deck generation
type Config struct {
	// Order of the projective plane. Must be prime. Produces
	// Order²+Order+1 cards of Order+1 symbols each. Defaults to 3
	// (13 cards, 4 symbols per card).
	Order int

	// Optional seed for the one-time shuffle, for testing
	Seed int64

	// Limit, when positive, truncates the shuffled deck to that many
	// cards
	Limit int
}

// New generates and shuffles a deck
func New(cfg *Config) (*Deck, error) {
	order := 3
	if cfg != nil && cfg.Order != 0 {
		order = cfg.Order
	}
	if !supportedOrders[order] {
		return nil, fmt.Errorf("unsupported deck order %d", order)
	}

	var seed int64
	if cfg != nil && cfg.Seed != 0 {
		seed = cfg.Seed
	} else {
		seed = time.Now().UnixNano()
	}

	cards := generate(order)

	random := rand.New(rand.NewSource(seed))
	random.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})

	if cfg != nil && cfg.Limit > 0 && cfg.Limit < len(cards) {
		cards = cards[:cfg.Limit]
	}

	return &Deck{cards: cards}, nil
}

// NewFromCards builds a deck from an explicit card sequence. No shuffling
// is applied; cards are dealt in the given order.
func NewFromCards(cards []models.Card) *Deck {
	copied := make([]models.Card, len(cards))
	copy(copied, cards)
	return &Deck{cards: copied}
}

// Deal removes and returns the next card, or ErrExhausted.
func (d *Deck) Deal() (models.Card, error) {
	if len(d.cards) == 0 {
		return nil, ErrExhausted
	}
	card := d.cards[0]
	d.cards = d.cards[1:]
	return card, nil
}

// Remaining returns the number of cards left.
func (d *Deck) Remaining() int {
	return len(d.cards)
}

// generate builds the full projective plane of a prime order n: one line
// at infinity, n row-line cards and n² sloped-line cards. Any two lines
// of the plane meet in exactly one point, which is the pairwise
// shared-symbol invariant.
func generate(n int) []models.Card {
	total := n*n + n + 1
	cards := make([]models.Card, 0, total)

	// grid point (row, col) mapped to a symbol id after the n+1
	// infinite symbols 0..n
	grid := func(row, col int) int {
		return n + 1 + row*n + col
	}

	// line at infinity
	infinity := make(models.Card, 0, n+1)
	for s := 0; s <= n; s++ {
		infinity = append(infinity, s)
	}
	cards = append(cards, infinity)

	// lines through infinite symbol 0, one per row, covering every
	// column of that row
	for row := 0; row < n; row++ {
		card := models.Card{0}
		for col := 0; col < n; col++ {
			card = append(card, grid(row, col))
		}
		cards = append(cards, card)
	}

	// sloped lines, slope m through infinite symbol m+1
	for m := 0; m < n; m++ {
		for b := 0; b < n; b++ {
			card := models.Card{m + 1}
			for row := 0; row < n; row++ {
				card = append(card, grid(row, (m*row+b)%n))
			}
			cards = append(cards, card)
		}
	}

	return cards
}
