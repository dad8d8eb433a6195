package history

import (
	"context"
	"errors"
	"sync"
)

// memoryRepository implements the Repository interface in process memory.
// The log is append-only and does not survive a restart.
type memoryRepository struct {
	mu        sync.Mutex
	summaries []string
}

// NewMemory creates an in-memory history repository
func NewMemory() *memoryRepository {
	return &memoryRepository{}
}

// Append adds one summary to the end of the log
func (r *memoryRepository) Append(ctx context.Context, input *AppendInput) error {
	if input == nil || input.Summary == "" {
		return errors.New("input and summary cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.summaries = append(r.summaries, input.Summary)
	return nil
}

// GetAll retrieves every stored summary in insertion order
func (r *memoryRepository) GetAll(ctx context.Context, input *GetAllInput) (*GetAllOutput, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	summaries := make([]string, len(r.summaries))
	copy(summaries, r.summaries)

	return &GetAllOutput{Summaries: summaries}, nil
}
