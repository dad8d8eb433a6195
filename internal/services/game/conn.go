package game

// PlayerConn is the session's contract with the connection layer. A
// session never owns the socket: it hands lines to the connection's
// outbound queue and consults the connection's current-match reference
// when broadcasting, so a player who already left is not notified of
// later events.
//
// BindMatch and ClearMatch implement the membership token: ClearMatch
// only clears the reference while it still points at the given session,
// so a stale session can never detach a player from a newer one.
type PlayerConn interface {
	// Name returns the player's unique username
	Name() string

	// Send queues one protocol line for delivery to the player
	Send(line string)

	// CurrentMatch returns the session the player is bound to, or nil
	CurrentMatch() *Session

	// BindMatch binds the player to the given session
	BindMatch(s *Session)

	// ClearMatch unbinds the player if still bound to the given session
	ClearMatch(s *Session)
}
