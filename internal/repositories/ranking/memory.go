package ranking

import (
	"context"
	"errors"
	"sort"
	"sync"

	"dobble/internal/models"
)

// memoryRepository implements the Repository interface in process memory.
// Entries do not survive a restart. Ties on win count keep first-win
// insertion order.
type memoryRepository struct {
	mu    sync.Mutex
	wins  map[string]int
	order []string
}

// NewMemory creates an in-memory ranking repository
func NewMemory() *memoryRepository {
	return &memoryRepository{
		wins: make(map[string]int),
	}
}

// RegisterWin increments a player's win counter
func (r *memoryRepository) RegisterWin(ctx context.Context, input *RegisterWinInput) error {
	if input == nil || input.Name == "" {
		return errors.New("input and name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.wins[input.Name]; !exists {
		r.order = append(r.order, input.Name)
	}
	r.wins[input.Name]++

	return nil
}

// GetRanking returns all entries ordered by descending win count
func (r *memoryRepository) GetRanking(ctx context.Context, input *GetRankingInput) (*GetRankingOutput, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := make([]models.RankingEntry, 0, len(r.order))
	for _, name := range r.order {
		entries = append(entries, models.RankingEntry{
			Name: name,
			Wins: r.wins[name],
		})
	}

	// Stable sort keeps insertion order among equal counts
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Wins > entries[j].Wins
	})

	return &GetRankingOutput{Entries: entries}, nil
}
