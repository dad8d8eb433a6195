package matchmaking

import (
	"dobble/internal/common/clock"
	"dobble/internal/deck"
	"dobble/internal/repositories/history"
	"dobble/internal/repositories/ranking"
	"dobble/internal/services/game"
)

// Config holds configuration for the matchmaking coordinator
type Config struct {
	// MinLobbySize is the smallest supported roster, default 2
	MinLobbySize int

	// MaxLobbySize is the largest supported roster, default 8
	MaxLobbySize int

	// NewDeck builds a fresh deck for each match. Defaults to a full
	// generated deck.
	NewDeck func() (*deck.Deck, error)

	// Repository dependencies
	HistoryRepo history.Repository
	RankingRepo ranking.Repository

	// Clock, optional, defaults to the system clock
	Clock clock.Clock
}

// JoinWaitingListInput holds the parameters for JoinWaitingList
type JoinWaitingListInput struct {
	// Player requesting a match
	Player game.PlayerConn

	// Size is the desired roster size
	Size int
}

// JoinWaitingListOutput holds the result of JoinWaitingList
type JoinWaitingListOutput struct {
	// Started is true when this join completed a roster
	Started bool

	// Session is the match created by this join, nil unless Started
	Session *game.Session

	// AlreadyQueued is true when the join was an idempotent no-op
	AlreadyQueued bool

	// Remaining is how many more players the room needs, 0 when Started
	Remaining int
}

// RemovePlayerInput holds the parameters for RemovePlayer
type RemovePlayerInput struct {
	// Player to remove from whichever room holds it
	Player game.PlayerConn
}

// RegisterResultInput holds the parameters for RegisterResult
type RegisterResultInput struct {
	// Summary is the formatted record of one finished match
	Summary string
}

// GetHistoryInput holds the parameters for GetHistory
type GetHistoryInput struct{}

// GetHistoryOutput holds the result of GetHistory
type GetHistoryOutput struct {
	// Summaries in insertion order, oldest first
	Summaries []string
}
