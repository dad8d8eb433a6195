package game

import (
	"dobble/internal/common/clock"
	"dobble/internal/deck"
	"dobble/internal/repositories/history"
	"dobble/internal/repositories/ranking"
)

// Config holds the dependencies of one match session
type Config struct {
	// Players is the roster, fixed for the lifetime of the match
	Players []PlayerConn

	// Deck supplies the cards for this match
	Deck *deck.Deck

	// RankingRepo records wins
	RankingRepo ranking.Repository

	// HistoryRepo records the terminal summary
	HistoryRepo history.Repository

	// Clock, optional, defaults to the system clock
	Clock clock.Clock

	// ID, optional, defaults to a generated UUID
	ID string
}
