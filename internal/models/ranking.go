package models

// RankingEntry is one row of the global win ranking.
type RankingEntry struct {
	// Name is the player's username
	Name string

	// Wins is the number of matches the player has won
	Wins int
}

// ScoreEntry is one row of a match scoreboard.
type ScoreEntry struct {
	// Name is the player's username
	Name string

	// Points is the player's score in the match
	Points int
}
