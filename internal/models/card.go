package models

// Card is a fixed-size set of symbol IDs. Any two distinct cards in a
// generated deck share exactly one symbol.
type Card []int

// Has reports whether the card contains the given symbol.
func (c Card) Has(symbol int) bool {
	for _, s := range c {
		if s == symbol {
			return true
		}
	}
	return false
}

// SharedSymbols returns the symbols present in both cards.
func (c Card) SharedSymbols(other Card) []int {
	var shared []int
	for _, s := range c {
		if other.Has(s) {
			shared = append(shared, s)
		}
	}
	return shared
}
