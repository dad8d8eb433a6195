package ranking

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go dobble/internal/repositories/ranking Repository

import (
	"context"
)

// Repository defines the interface for the global win ledger
type Repository interface {
	// RegisterWin increments a player's win counter, creating the entry
	// on first win
	RegisterWin(ctx context.Context, input *RegisterWinInput) error

	// GetRanking retrieves all entries ordered by descending win count
	GetRanking(ctx context.Context, input *GetRankingInput) (*GetRankingOutput, error)
}
