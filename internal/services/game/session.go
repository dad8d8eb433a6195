package game

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"dobble/internal/common/clock"
	"dobble/internal/deck"
	"dobble/internal/models"
	"dobble/internal/protocol"
	"dobble/internal/repositories/history"
	"dobble/internal/repositories/ranking"
)

// Session is one active match. It owns the roster, per-player hands, the
// central card, the scoreboard, the activity map and the abandonment
// log, and drives the match from the initial deal to one of the four
// terminal states.
//
// All mutable fields are guarded by mu; every Process* call is a single
// critical section, so two simultaneous abandonments cannot both
// conclude that a sole winner remains.
type Session struct {
	id          string
	clock       clock.Clock
	rankingRepo ranking.Repository
	historyRepo history.Repository

	mu         sync.Mutex
	players    []PlayerConn
	deck       *deck.Deck
	status     models.MatchStatus
	central    models.Card
	hands      map[string]models.Card
	scores     map[string]int
	active     map[string]bool
	departures []models.Departure
	startedAt  time.Time
	endedAt    time.Time
}

// New constructs a session and performs the initial deal: one central
// card plus one hand per roster member. If the deck cannot supply them
// the session comes back in the Cancelled state with the roster already
// notified and unbound; no history entry is recorded for that case.
func New(cfg *Config) (*Session, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if len(cfg.Players) == 0 {
		return nil, ErrEmptyRoster
	}
	if cfg.Deck == nil {
		return nil, ErrNilDeck
	}
	if cfg.RankingRepo == nil {
		return nil, ErrNilRankingRepo
	}
	if cfg.HistoryRepo == nil {
		return nil, ErrNilHistoryRepo
	}

	id := cfg.ID
	if id == "" {
		id = uuid.New().String()
	}

	sessionClock := cfg.Clock
	if sessionClock == nil {
		sessionClock = &clock.DefaultClock{}
	}

	s := &Session{
		id:          id,
		clock:       sessionClock,
		rankingRepo: cfg.RankingRepo,
		historyRepo: cfg.HistoryRepo,
		players:     cfg.Players,
		deck:        cfg.Deck,
		status:      models.MatchStatusInitializing,
		hands:       make(map[string]models.Card),
		scores:      make(map[string]int),
		active:      make(map[string]bool),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.startedAt = s.clock.Now()
	for _, p := range s.players {
		s.scores[p.Name()] = 0
		s.active[p.Name()] = true
		p.BindMatch(s)
	}

	s.dealInitialLocked()
	return s, nil
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// Status returns the current match state.
func (s *Session) Status() models.MatchStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Scoreboard returns the scoreboard in roster order.
func (s *Session) Scoreboard() []models.ScoreEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scoreboardLocked()
}

// Hand returns the named player's current card.
func (s *Session) Hand(name string) models.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hands[name]
}

// CentralCard returns the current central card, nil once the match is
// terminal.
func (s *Session) CentralCard() models.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.central
}

// Departures returns the abandonment log in real time order.
func (s *Session) Departures() []models.Departure {
	s.mu.Lock()
	defer s.mu.Unlock()
	departures := make([]models.Departure, len(s.departures))
	copy(departures, s.departures)
	return departures
}

// ProcessAttempt validates one symbol guess. A correct guess scores a
// point, moves the central card into the scorer's hand and deals a new
// central card; deck exhaustion at that moment ends the match by
// points. A wrong guess only notifies the guesser.
func (s *Session) ProcessAttempt(ctx context.Context, player PlayerConn, symbol int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != models.MatchStatusActive || s.central == nil {
		player.Send(protocol.MatchOver())
		return
	}

	name := player.Name()
	hand := s.hands[name]
	if !hand.Has(symbol) || !s.central.Has(symbol) {
		player.Send(protocol.WrongGuess(symbol))
		return
	}

	s.scores[name]++
	s.broadcastLocked(protocol.Point(name, s.scores[name], s.scoreboardLocked()))

	// The central card joins the scorer's hand and the next card takes
	// its place.
	s.hands[name] = s.central

	next, err := s.deck.Deal()
	if err != nil {
		s.central = nil
		s.finishByPointsLocked(ctx)
		return
	}
	s.central = next

	for _, p := range s.players {
		if p.CurrentMatch() == s {
			p.Send(protocol.NewRound(s.hands[p.Name()], s.central, s.scoreboardLocked()))
		}
	}
}

// ProcessForfeit handles a RENDIRSE from an active player. Idempotent: a
// player who already left only gets an already-left notice.
func (s *Session) ProcessForfeit(ctx context.Context, player PlayerConn) {
	s.processAbandonment(ctx, player, models.CauseForfeit)
}

// ProcessDisconnect handles a connection going away mid-match.
// Idempotent and silent for players who already left.
func (s *Session) ProcessDisconnect(ctx context.Context, player PlayerConn) {
	s.processAbandonment(ctx, player, models.CauseDisconnect)
}

func (s *Session) processAbandonment(ctx context.Context, player PlayerConn, cause models.AbandonCause) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := player.Name()
	if s.status.Terminal() || !s.active[name] {
		if cause == models.CauseForfeit {
			player.Send(protocol.Error("Ya has abandonado la partida."))
		}
		return
	}

	// The flag flip, the log append and the remaining-count decision
	// below form one atomic unit under mu.
	s.active[name] = false
	s.departures = append(s.departures, models.Departure{Name: name, Cause: cause})
	player.ClearMatch(s)

	s.broadcastLocked(protocol.Abandon(cause, name))
	log.Printf("match %s: %s abandonó (%s)", s.id, name, cause.Label())

	if cause == models.CauseForfeit {
		player.Send(protocol.MatchEnd("Te has rendido. Volviendo al menú principal.", s.scoreboardLocked()))
	}

	var survivor PlayerConn
	remaining := 0
	for _, p := range s.players {
		if s.active[p.Name()] {
			survivor = p
			remaining++
		}
	}

	switch remaining {
	case 1:
		s.finishByAbandonmentLocked(ctx, survivor, cause)
	case 0:
		s.finishNoWinnerLocked(ctx)
	}
}

// dealInitialLocked deals the central card and one hand per player,
// announcing the match start to each player as their hand is dealt.
func (s *Session) dealInitialLocked() {
	central, err := s.deck.Deal()
	if err != nil {
		s.broadcastLocked(protocol.Error("Fallo al iniciar partida: Mazo vacío (Necesita al menos 3 cartas)."))
		s.cancelLocked()
		return
	}
	s.central = central

	for _, p := range s.players {
		hand, err := s.deck.Deal()
		if err != nil {
			p.Send(protocol.Error("No hay suficientes cartas. Partida cancelada."))
			s.broadcastLocked(protocol.Error("Partida cancelada: Mazo insuficiente."))
			s.cancelLocked()
			return
		}
		s.hands[p.Name()] = hand
		p.Send(protocol.MatchStart(hand, s.central, s.scoreboardLocked()))
	}

	s.status = models.MatchStatusActive
}

func (s *Session) cancelLocked() {
	s.status = models.MatchStatusCancelled
	s.central = nil
	s.endedAt = s.clock.Now()
	for _, p := range s.players {
		p.ClearMatch(s)
	}
	log.Printf("match %s: cancelada, mazo insuficiente", s.id)
}

// finishByPointsLocked ends the match after the deck ran out. The winner
// is the highest score among players still active; equal top scores are
// a draw and register no win.
func (s *Session) finishByPointsLocked(ctx context.Context) {
	s.status = models.MatchStatusWonByPoints
	s.endedAt = s.clock.Now()

	winners := s.topActiveLocked()
	var designation string
	switch len(winners) {
	case 0:
		designation = "Nadie"
	case 1:
		designation = winners[0]
		s.registerWin(ctx, winners[0])
	default:
		designation = "Empate entre: " + strings.Join(winners, ", ")
	}

	ranked := s.activeByScoreLocked()
	labels := make([]string, 0, len(s.players))
	for _, entry := range ranked {
		labels = append(labels, fmt.Sprintf("%s (%d puntos)", entry.Name, entry.Points))
	}
	labels = append(labels, s.departedLabelsLocked()...)

	summary := fmt.Sprintf("PARTICIPANTES: %s @ GANADOR: %s @ RESULTADO: %s @ FIN: Mazo Agotado @ ORDEN_FINAL: %s",
		s.participantsLocked(), designation,
		protocol.SerializeScores(s.scoreboardLocked()), protocol.FinalOrder(labels))
	s.recordSummary(ctx, summary)

	s.broadcastLocked(protocol.MatchEnd("Partida finalizada. Ganador: "+designation+".", s.scoreboardLocked()))
	for _, p := range s.players {
		p.ClearMatch(s)
	}
	log.Printf("match %s: finalizada por mazo agotado, ganador: %s", s.id, designation)
}

// finishByAbandonmentLocked ends the match when a single player remains.
func (s *Session) finishByAbandonmentLocked(ctx context.Context, winner PlayerConn, cause models.AbandonCause) {
	s.status = models.MatchStatusWonByAbandonment
	s.central = nil
	s.endedAt = s.clock.Now()

	name := winner.Name()
	s.registerWin(ctx, name)

	causeLabel := "Abandono (" + cause.Label() + ")"
	labels := append([]string{name + " (Ganador)"}, s.departedLabelsLocked()...)

	summary := fmt.Sprintf("PARTICIPANTES: %s @ RESULTADO: %s @ FIN: %s @ ORDEN_FINAL: %s",
		s.participantsLocked(), protocol.SerializeScores(s.scoreboardLocked()),
		causeLabel, protocol.FinalOrder(labels))
	s.recordSummary(ctx, summary)

	winner.Send(protocol.MatchEnd(
		fmt.Sprintf("¡Eres el único jugador restante! Has ganado por %s.", strings.ToLower(causeLabel)),
		s.scoreboardLocked()))
	winner.ClearMatch(s)
	log.Printf("match %s: finalizada por %s, ganador: %s", s.id, strings.ToLower(causeLabel), name)
}

// finishNoWinnerLocked ends the match after every player abandoned it.
// Everyone is already unbound and notified, so only the summary is
// recorded.
func (s *Session) finishNoWinnerLocked(ctx context.Context) {
	s.status = models.MatchStatusNoWinner
	s.central = nil
	s.endedAt = s.clock.Now()

	summary := fmt.Sprintf("PARTICIPANTES: %s @ RESULTADO: %s @ FIN: Todos se desconectaron/rindieron.",
		s.participantsLocked(), protocol.SerializeScores(s.scoreboardLocked()))
	s.recordSummary(ctx, summary)
	log.Printf("match %s: finalizada sin ganador", s.id)
}

func (s *Session) registerWin(ctx context.Context, name string) {
	if err := s.rankingRepo.RegisterWin(ctx, &ranking.RegisterWinInput{Name: name}); err != nil {
		log.Printf("match %s: fallo al registrar victoria de %s: %v", s.id, name, err)
	}
}

// summaryTimeLayout formats the match timestamps inside history entries.
const summaryTimeLayout = "2006-01-02 15:04:05"

// recordSummary prefixes the result line with the match identity and
// its start and end times before appending it to the history log.
func (s *Session) recordSummary(ctx context.Context, summary string) {
	summary = fmt.Sprintf("PARTIDA: %s @ INICIO: %s @ CIERRE: %s @ %s",
		s.id, s.startedAt.Format(summaryTimeLayout), s.endedAt.Format(summaryTimeLayout), summary)
	if err := s.historyRepo.Append(ctx, &history.AppendInput{Summary: summary}); err != nil {
		log.Printf("match %s: fallo al registrar resumen: %v", s.id, err)
	}
}

// broadcastLocked delivers a line to every roster member still bound to
// this session.
func (s *Session) broadcastLocked(line string) {
	for _, p := range s.players {
		if p.CurrentMatch() == s {
			p.Send(line)
		}
	}
}

// scoreboardLocked returns the scoreboard in roster order.
func (s *Session) scoreboardLocked() []models.ScoreEntry {
	entries := make([]models.ScoreEntry, 0, len(s.players))
	for _, p := range s.players {
		entries = append(entries, models.ScoreEntry{Name: p.Name(), Points: s.scores[p.Name()]})
	}
	return entries
}

// activeByScoreLocked returns still-active players ordered by descending
// score, roster order among equals.
func (s *Session) activeByScoreLocked() []models.ScoreEntry {
	var entries []models.ScoreEntry
	for _, p := range s.players {
		if s.active[p.Name()] {
			entries = append(entries, models.ScoreEntry{Name: p.Name(), Points: s.scores[p.Name()]})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Points > entries[j].Points
	})
	return entries
}

// topActiveLocked returns the names holding the highest score among
// still-active players.
func (s *Session) topActiveLocked() []string {
	ranked := s.activeByScoreLocked()
	if len(ranked) == 0 {
		return nil
	}
	var winners []string
	for _, entry := range ranked {
		if entry.Points == ranked[0].Points {
			winners = append(winners, entry.Name)
		}
	}
	return winners
}

// departedLabelsLocked renders the abandonment log for the final order,
// most recent departure first.
func (s *Session) departedLabelsLocked() []string {
	labels := make([]string, 0, len(s.departures))
	for i := len(s.departures) - 1; i >= 0; i-- {
		d := s.departures[i]
		labels = append(labels, d.Name+" ("+d.Cause.Label()+")")
	}
	return labels
}

func (s *Session) participantsLocked() string {
	names := make([]string, len(s.players))
	for i, p := range s.players {
		names[i] = p.Name()
	}
	return strings.Join(names, ", ")
}
