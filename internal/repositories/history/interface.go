package history

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go dobble/internal/repositories/history Repository

import (
	"context"
)

// Repository defines the interface for the finished-match log
type Repository interface {
	// Append adds one summary to the end of the log
	Append(ctx context.Context, input *AppendInput) error

	// GetAll retrieves every stored summary in insertion order
	GetAll(ctx context.Context, input *GetAllInput) (*GetAllOutput, error)
}
