// Package protocol owns the line protocol shared with the clients: one
// UTF-8 text line per command or event, fields separated by '|'. The
// tokens and delimiters are fixed for wire compatibility and must not
// change.
package protocol

import (
	"fmt"
	"strconv"
	"strings"

	"dobble/internal/models"
)

// Field and list delimiters of the wire format.
const (
	FieldSep   = "|"
	ListSep    = ","
	PairSep    = ":"
	HistorySep = "###"
	OrderSep   = " -> "

	// NoData is the payload sent for an empty history or ranking.
	NoData = "NO_DATA"
)

// Commands accepted from clients.
const (
	CmdPlay       = "JUGAR"
	CmdAttempt    = "INTENTO"
	CmdForfeit    = "RENDIRSE"
	CmdHistory    = "HISTORIAL"
	CmdRanking    = "RANKING"
	CmdDisconnect = "DESCONECTAR"
)

// Command is one decoded client line.
type Command struct {
	// Name is the command token, e.g. "JUGAR"
	Name string

	// Arg is the raw text after the first separator, empty when absent
	Arg string
}

// Parse splits a raw line into a command. Lines never carry more than
// one argument field, so everything after the first separator is the
// argument.
func Parse(line string) Command {
	name, arg, _ := strings.Cut(strings.TrimRight(line, "\r\n"), FieldSep)
	return Command{Name: name, Arg: arg}
}

// IntArg parses the command argument as a number.
func (c Command) IntArg() (int, error) {
	return strconv.Atoi(strings.TrimSpace(c.Arg))
}

// SerializeCard renders a card as its symbol ids joined with commas,
// e.g. "1,8,11,12". A nil card renders empty.
func SerializeCard(card models.Card) string {
	parts := make([]string, len(card))
	for i, symbol := range card {
		parts[i] = strconv.Itoa(symbol)
	}
	return strings.Join(parts, ListSep)
}

// SerializeScores renders a scoreboard as "name:points" pairs joined
// with commas, in the given order.
func SerializeScores(scores []models.ScoreEntry) string {
	parts := make([]string, len(scores))
	for i, entry := range scores {
		parts[i] = entry.Name + PairSep + strconv.Itoa(entry.Points)
	}
	return strings.Join(parts, ListSep)
}

// LoginOK confirms a successful login.
func LoginOK() string {
	return "LOGIN_OK"
}

// Waiting tells a queued player how many more are needed.
func Waiting(remaining int) string {
	return fmt.Sprintf("ESPERA%sEsperando a %d jugadores más.", FieldSep, remaining)
}

// AlreadyBusy replies to a JUGAR sent while queued or in a match.
func AlreadyBusy() string {
	return "ESPERA" + FieldSep + "Ya estás en una sala de espera o partida activa."
}

// MatchStart announces the initial deal to one player.
func MatchStart(hand, central models.Card, scores []models.ScoreEntry) string {
	return "INICIO_PARTIDA" + FieldSep + SerializeCard(hand) + FieldSep +
		SerializeCard(central) + FieldSep + SerializeScores(scores)
}

// NewRound announces the replacement central card to one player.
func NewRound(hand, central models.Card, scores []models.ScoreEntry) string {
	return "NUEVA_RONDA" + FieldSep + SerializeCard(hand) + FieldSep +
		SerializeCard(central) + FieldSep + SerializeScores(scores)
}

// Point announces a scored point to the whole roster.
func Point(name string, points int, scores []models.ScoreEntry) string {
	return "PUNTO" + FieldSep + name + FieldSep + strconv.Itoa(points) +
		FieldSep + SerializeScores(scores)
}

// WrongGuess replies to an attempt whose symbol is not the match.
func WrongGuess(symbol int) string {
	return fmt.Sprintf("ERROR_JUEGO%sEl símbolo %d no es la coincidencia. ¡Inténtalo de nuevo!", FieldSep, symbol)
}

// MatchOver replies to an attempt sent after the match ended.
func MatchOver() string {
	return "ERROR_JUEGO" + FieldSep + "La partida ha terminado. Esperando a ser redirigido."
}

// Abandon announces a departure to the remaining roster.
func Abandon(cause models.AbandonCause, name string) string {
	return "EVENTO_ABANDONO" + FieldSep + string(cause) + FieldSep + name
}

// MatchEnd is the personal termination notice.
func MatchEnd(message string, scores []models.ScoreEntry) string {
	return "FIN_PARTIDA" + FieldSep + message + FieldSep + SerializeScores(scores)
}

// Error is the generic error notice.
func Error(message string) string {
	return "ERROR" + FieldSep + message
}

// History renders the stored summaries, oldest first.
func History(summaries []string) string {
	if len(summaries) == 0 {
		return CmdHistory + FieldSep + NoData
	}
	return CmdHistory + FieldSep + strings.Join(summaries, HistorySep)
}

// Ranking renders the win ranking as "name:wins" pairs.
func Ranking(entries []models.RankingEntry) string {
	if len(entries) == 0 {
		return CmdRanking + FieldSep + NoData
	}
	parts := make([]string, len(entries))
	for i, entry := range entries {
		parts[i] = entry.Name + PairSep + strconv.Itoa(entry.Wins)
	}
	return CmdRanking + FieldSep + strings.Join(parts, ListSep)
}

// FinalOrder joins ranked result labels, best first.
func FinalOrder(labels []string) string {
	return strings.Join(labels, OrderSep)
}
