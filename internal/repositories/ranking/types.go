package ranking

import (
	"dobble/internal/models"
)

// RegisterWinInput holds the parameters for RegisterWin
type RegisterWinInput struct {
	// Name is the winner's username
	Name string
}

// GetRankingInput holds the parameters for GetRanking
type GetRankingInput struct{}

// GetRankingOutput holds the result of GetRanking
type GetRankingOutput struct {
	// Entries ordered by descending win count
	Entries []models.RankingEntry
}
