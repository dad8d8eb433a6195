package game

// SessionError is a custom error type for session construction errors
type SessionError string

// Error implements the error interface
func (e SessionError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrNilConfig      SessionError = "config cannot be nil"
	ErrEmptyRoster    SessionError = "roster cannot be empty"
	ErrNilDeck        SessionError = "deck cannot be nil"
	ErrNilRankingRepo SessionError = "ranking repository cannot be nil"
	ErrNilHistoryRepo SessionError = "history repository cannot be nil"
)
