package matchmaking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"dobble/internal/common/clock"
	"dobble/internal/deck"
	"dobble/internal/protocol"
	"dobble/internal/repositories/history"
	"dobble/internal/services/game"
)

// Define errors
var (
	ErrInvalidLobbySize = errors.New("lobby size out of range")
	ErrPlayerBusy       = errors.New("player already in a match")
	ErrNilHistoryRepo   = errors.New("history repository cannot be nil")
	ErrNilRankingRepo   = errors.New("ranking repository cannot be nil")
)

// waitingRoom is the pending-player queue for one lobby size. Each room
// has its own lock, so fills of different sizes never contend.
type waitingRoom struct {
	mu      sync.Mutex
	size    int
	players []game.PlayerConn
}

// Service is the matchmaking coordinator. It admits players into one
// waiting room per lobby size and, when a room fills, atomically drains
// it into a new match session.
type Service struct {
	cfg   *Config
	rooms map[int]*waitingRoom

	mu      sync.Mutex
	matches []*game.Session
}

// NewService creates a new matchmaking coordinator
func NewService(cfg *Config) (*Service, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.HistoryRepo == nil {
		return nil, ErrNilHistoryRepo
	}
	if cfg.RankingRepo == nil {
		return nil, ErrNilRankingRepo
	}

	if cfg.MinLobbySize == 0 {
		cfg.MinLobbySize = 2
	}
	if cfg.MaxLobbySize == 0 {
		cfg.MaxLobbySize = 8
	}
	if cfg.MinLobbySize < 2 || cfg.MaxLobbySize < cfg.MinLobbySize {
		return nil, fmt.Errorf("invalid lobby range %d..%d", cfg.MinLobbySize, cfg.MaxLobbySize)
	}
	if cfg.NewDeck == nil {
		cfg.NewDeck = func() (*deck.Deck, error) {
			return deck.New(&deck.Config{})
		}
	}
	if cfg.Clock == nil {
		cfg.Clock = &clock.DefaultClock{}
	}

	rooms := make(map[int]*waitingRoom)
	for size := cfg.MinLobbySize; size <= cfg.MaxLobbySize; size++ {
		rooms[size] = &waitingRoom{size: size}
	}

	return &Service{
		cfg:   cfg,
		rooms: rooms,
	}, nil
}

// JoinWaitingList admits a player into the room for the requested size.
// Joining the same room twice is a no-op; joining a different size moves
// the player, keeping it in at most one room. The append, the fill check
// and the drain happen inside the room's critical section, so one fill
// produces exactly one match.
func (s *Service) JoinWaitingList(ctx context.Context, input *JoinWaitingListInput) (*JoinWaitingListOutput, error) {
	if input == nil || input.Player == nil {
		return nil, errors.New("input and player cannot be nil")
	}

	room, ok := s.rooms[input.Size]
	if !ok {
		return nil, ErrInvalidLobbySize
	}

	if input.Player.CurrentMatch() != nil {
		return nil, ErrPlayerBusy
	}

	s.removeFromRoomsExcept(input.Player, input.Size)

	room.mu.Lock()
	defer room.mu.Unlock()

	for _, p := range room.players {
		if p == input.Player {
			return &JoinWaitingListOutput{
				AlreadyQueued: true,
				Remaining:     room.size - len(room.players),
			}, nil
		}
	}

	room.players = append(room.players, input.Player)
	log.Printf("%s se unió a sala de %d, total %d", input.Player.Name(), room.size, len(room.players))

	if len(room.players) < room.size {
		remaining := room.size - len(room.players)
		input.Player.Send(protocol.Waiting(remaining))
		return &JoinWaitingListOutput{Remaining: remaining}, nil
	}

	roster := make([]game.PlayerConn, len(room.players))
	copy(roster, room.players)
	room.players = nil

	session, err := s.startMatch(roster)
	if err != nil {
		return nil, err
	}

	return &JoinWaitingListOutput{
		Started: true,
		Session: session,
	}, nil
}

// RemovePlayer takes a still-queued player out of whichever room holds
// it. No-op when the player is not queued anywhere.
func (s *Service) RemovePlayer(ctx context.Context, input *RemovePlayerInput) error {
	if input == nil || input.Player == nil {
		return errors.New("input and player cannot be nil")
	}
	s.removeFromRoomsExcept(input.Player, 0)
	return nil
}

// RegisterResult appends one finished-match summary to the history log.
func (s *Service) RegisterResult(ctx context.Context, input *RegisterResultInput) error {
	if input == nil {
		return errors.New("input cannot be nil")
	}
	return s.cfg.HistoryRepo.Append(ctx, &history.AppendInput{Summary: input.Summary})
}

// GetHistory retrieves every stored summary in insertion order.
func (s *Service) GetHistory(ctx context.Context, input *GetHistoryInput) (*GetHistoryOutput, error) {
	output, err := s.cfg.HistoryRepo.GetAll(ctx, &history.GetAllInput{})
	if err != nil {
		return nil, err
	}
	return &GetHistoryOutput{Summaries: output.Summaries}, nil
}

// QueuedCount returns the occupancy of the room for the given size.
func (s *Service) QueuedCount(size int) int {
	room, ok := s.rooms[size]
	if !ok {
		return 0
	}
	room.mu.Lock()
	defer room.mu.Unlock()
	return len(room.players)
}

// ActiveMatches returns how many created matches have not yet reached a
// terminal state, pruning the finished ones.
func (s *Service) ActiveMatches() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	alive := s.matches[:0]
	for _, m := range s.matches {
		if !m.Status().Terminal() {
			alive = append(alive, m)
		}
	}
	s.matches = alive
	return len(s.matches)
}

func (s *Service) startMatch(roster []game.PlayerConn) (*game.Session, error) {
	matchDeck, err := s.cfg.NewDeck()
	if err != nil {
		return nil, fmt.Errorf("failed to build deck: %w", err)
	}

	log.Printf("iniciando partida con %d jugadores", len(roster))
	session, err := game.New(&game.Config{
		Players:     roster,
		Deck:        matchDeck,
		RankingRepo: s.cfg.RankingRepo,
		HistoryRepo: s.cfg.HistoryRepo,
		Clock:       s.cfg.Clock,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	s.mu.Lock()
	s.matches = append(s.matches, session)
	s.mu.Unlock()

	return session, nil
}

// removeFromRoomsExcept drops the player from every room other than the
// one for keepSize. Rooms are locked one at a time, never nested.
func (s *Service) removeFromRoomsExcept(player game.PlayerConn, keepSize int) {
	for size, room := range s.rooms {
		if size == keepSize {
			continue
		}
		room.mu.Lock()
		for i, p := range room.players {
			if p == player {
				room.players = append(room.players[:i], room.players[i+1:]...)
				break
			}
		}
		room.mu.Unlock()
	}
}
