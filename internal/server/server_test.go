package server

import (
	"bufio"
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"dobble/internal/deck"
	"dobble/internal/models"
	"dobble/internal/repositories/history"
	"dobble/internal/repositories/ranking"
	"dobble/internal/services/matchmaking"
)

// threeCardDeck covers a central card plus two hands, so the first
// correct attempt exhausts it. Symbol 1 links ana's hand to the central
// card.
func threeCardDeck() (*deck.Deck, error) {
	return deck.NewFromCards([]models.Card{
		{1, 2, 3, 4},
		{1, 5, 6, 7},
		{2, 5, 8, 9},
	}), nil
}

// testConn drives one side of a piped connection in protocol lines.
type testConn struct {
	conn   net.Conn
	reader *bufio.Reader
}

func (tc *testConn) sendLine(t *testing.T, line string) {
	t.Helper()
	tc.conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
	if _, err := tc.conn.Write([]byte(line + "\n")); err != nil {
		t.Fatalf("write %q: %v", line, err)
	}
}

func (tc *testConn) readLine(t *testing.T) string {
	t.Helper()
	tc.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	line, err := tc.reader.ReadString('\n')
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return strings.TrimRight(line, "\n")
}

type ServerTestSuite struct {
	suite.Suite
	server      *Server
	coordinator *matchmaking.Service
	ctx         context.Context
	cancel      context.CancelFunc
}

func (s *ServerTestSuite) SetupTest() {
	rankingRepo := ranking.NewMemory()
	coordinator, err := matchmaking.NewService(&matchmaking.Config{
		HistoryRepo: history.NewMemory(),
		RankingRepo: rankingRepo,
		NewDeck:     threeCardDeck,
	})
	s.Require().NoError(err)

	server, err := New(&Config{
		Coordinator: coordinator,
		RankingRepo: rankingRepo,
	})
	s.Require().NoError(err)
	s.server = server
	s.coordinator = coordinator
	s.ctx, s.cancel = context.WithCancel(context.Background())
}

func (s *ServerTestSuite) TearDownTest() {
	s.cancel()
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

// connect opens a piped connection handled by the server under test.
func (s *ServerTestSuite) connect() *testConn {
	serverSide, clientSide := net.Pipe()
	go s.server.HandleConn(s.ctx, newTCPTransport(serverSide))
	return &testConn{conn: clientSide, reader: bufio.NewReader(clientSide)}
}

// loginAs completes the login handshake.
func (s *ServerTestSuite) loginAs(tc *testConn, name string) {
	tc.sendLine(s.T(), name)
	s.Equal("LOGIN_OK", tc.readLine(s.T()))
}

func (s *ServerTestSuite) TestLoginAndWaiting() {
	tc := s.connect()
	s.loginAs(tc, "ana")

	tc.sendLine(s.T(), "JUGAR|2")
	s.Equal("ESPERA|Esperando a 1 jugadores más.", tc.readLine(s.T()))
}

func (s *ServerTestSuite) TestDuplicateNameRejected() {
	first := s.connect()
	s.loginAs(first, "ana")

	second := s.connect()
	second.sendLine(s.T(), "ANA")
	s.Contains(second.readLine(s.T()), "ya está reservado")

	second.sendLine(s.T(), "beto")
	s.Equal("LOGIN_OK", second.readLine(s.T()))
}

func (s *ServerTestSuite) TestEmptyPayloadsReportNoData() {
	tc := s.connect()
	s.loginAs(tc, "ana")

	tc.sendLine(s.T(), "HISTORIAL")
	s.Equal("HISTORIAL|NO_DATA", tc.readLine(s.T()))

	tc.sendLine(s.T(), "RANKING")
	s.Equal("RANKING|NO_DATA", tc.readLine(s.T()))
}

func (s *ServerTestSuite) TestInvalidCommands() {
	tc := s.connect()
	s.loginAs(tc, "ana")

	tc.sendLine(s.T(), "JUGAR|muchos")
	s.Equal("ERROR|Comando JUGAR inválido. Debe ser JUGAR|N.", tc.readLine(s.T()))

	tc.sendLine(s.T(), "JUGAR|9")
	s.Equal("ERROR|Número de jugadores no válido (2-8).", tc.readLine(s.T()))

	tc.sendLine(s.T(), "INTENTO|3")
	s.Equal("ERROR|No estás en una partida activa.", tc.readLine(s.T()))

	tc.sendLine(s.T(), "BAILAR")
	s.Equal("ERROR|Comando desconocido.", tc.readLine(s.T()))
}

func (s *ServerTestSuite) TestForfeitOutsideMatch() {
	tc := s.connect()
	s.loginAs(tc, "ana")

	tc.sendLine(s.T(), "RENDIRSE")
	s.Equal("ERROR|No puedes rendirte, no estás en una partida activa.", tc.readLine(s.T()))
	s.Equal("FIN_PARTIDA|Te hemos devuelto al menú principal.|", tc.readLine(s.T()))
}

func (s *ServerTestSuite) TestFullMatchToExhaustion() {
	ana := s.connect()
	s.loginAs(ana, "ana")
	beto := s.connect()
	s.loginAs(beto, "beto")

	ana.sendLine(s.T(), "JUGAR|2")
	s.Equal("ESPERA|Esperando a 1 jugadores más.", ana.readLine(s.T()))

	beto.sendLine(s.T(), "JUGAR|2")
	s.Equal("INICIO_PARTIDA|1,5,6,7|1,2,3,4|ana:0,beto:0", ana.readLine(s.T()))
	s.Equal("INICIO_PARTIDA|2,5,8,9|1,2,3,4|ana:0,beto:0", beto.readLine(s.T()))

	// Wrong guess only answers the guesser.
	ana.sendLine(s.T(), "INTENTO|5")
	s.Contains(ana.readLine(s.T()), "ERROR_JUEGO|El símbolo 5")

	// Correct guess exhausts the three-card deck and ends the match.
	ana.sendLine(s.T(), "INTENTO|1")
	s.Equal("PUNTO|ana|1|ana:1,beto:0", ana.readLine(s.T()))
	s.Equal("FIN_PARTIDA|Partida finalizada. Ganador: ana.|ana:1,beto:0", ana.readLine(s.T()))
	s.Equal("PUNTO|ana|1|ana:1,beto:0", beto.readLine(s.T()))
	s.Equal("FIN_PARTIDA|Partida finalizada. Ganador: ana.|ana:1,beto:0", beto.readLine(s.T()))

	ana.sendLine(s.T(), "HISTORIAL")
	s.Contains(ana.readLine(s.T()), "GANADOR: ana")

	beto.sendLine(s.T(), "RANKING")
	s.Equal("RANKING|ana:1", beto.readLine(s.T()))
}

func (s *ServerTestSuite) TestQueuedDisconnectLeavesRoom() {
	ana := s.connect()
	s.loginAs(ana, "ana")

	ana.sendLine(s.T(), "JUGAR|4")
	s.Equal("ESPERA|Esperando a 3 jugadores más.", ana.readLine(s.T()))

	ana.conn.Close()

	// The room drains asynchronously with the connection teardown.
	s.Eventually(func() bool {
		return s.server.ConnectedCount() == 0 && s.coordinator.QueuedCount(4) == 0
	}, 2*time.Second, 10*time.Millisecond)
	s.Equal(0, s.coordinator.ActiveMatches())
}
