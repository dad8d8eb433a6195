package models

// MatchStatus represents the current state of a match
type MatchStatus string

const (
	// MatchStatusInitializing indicates the match is being dealt
	MatchStatusInitializing MatchStatus = "initializing"

	// MatchStatusActive indicates a match is in progress
	MatchStatusActive MatchStatus = "active"

	// MatchStatusWonByPoints indicates the deck ran out and the match was
	// decided by score
	MatchStatusWonByPoints MatchStatus = "won_by_points"

	// MatchStatusWonByAbandonment indicates a single player remained after
	// the others forfeited or disconnected
	MatchStatusWonByAbandonment MatchStatus = "won_by_abandonment"

	// MatchStatusNoWinner indicates every player abandoned the match
	MatchStatusNoWinner MatchStatus = "no_winner"

	// MatchStatusCancelled indicates the deck could not supply the initial
	// deal
	MatchStatusCancelled MatchStatus = "cancelled"
)

// Terminal reports whether the status is one of the four end states.
func (s MatchStatus) Terminal() bool {
	switch s {
	case MatchStatusWonByPoints, MatchStatusWonByAbandonment, MatchStatusNoWinner, MatchStatusCancelled:
		return true
	}
	return false
}

// AbandonCause says how a player left an active match. The values are the
// wire tokens the original protocol uses.
type AbandonCause string

const (
	// CauseForfeit indicates the player sent RENDIRSE
	CauseForfeit AbandonCause = "RENDICION"

	// CauseDisconnect indicates the player's connection went away
	CauseDisconnect AbandonCause = "DESCONEXION"
)

// Label is the human-readable form used in history summaries.
func (c AbandonCause) Label() string {
	if c == CauseForfeit {
		return "Rendición"
	}
	return "Desconexión"
}

// Departure records one player leaving an active match.
type Departure struct {
	// Name is the player's username
	Name string

	// Cause is why the player left
	Cause AbandonCause
}
