package server

import (
	"context"
	"errors"
	"log"
	"net"
	"strings"
	"sync"

	"dobble/internal/protocol"
	"dobble/internal/repositories/ranking"
	"dobble/internal/services/matchmaking"
)

// Config holds the configuration for the server
type Config struct {
	// Coordinator handles matchmaking and history
	Coordinator *matchmaking.Service

	// RankingRepo serves the RANKING command
	RankingRepo ranking.Repository
}

// Server owns the connected-client set and the username reservations,
// and runs the login plus command-dispatch loop for every connection.
// All collaborators are injected; there are no process-wide singletons.
type Server struct {
	coordinator *matchmaking.Service
	rankingRepo ranking.Repository

	mu       sync.Mutex
	clients  map[*Client]struct{}
	reserved map[string]struct{}
}

// New creates a new server
func New(cfg *Config) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Coordinator == nil {
		return nil, errors.New("coordinator cannot be nil")
	}
	if cfg.RankingRepo == nil {
		return nil, errors.New("ranking repository cannot be nil")
	}

	return &Server{
		coordinator: cfg.Coordinator,
		rankingRepo: cfg.RankingRepo,
		clients:     make(map[*Client]struct{}),
		reserved:    make(map[string]struct{}),
	}, nil
}

// Serve accepts TCP connections until the listener is closed or the
// context is cancelled, one handler goroutine per connection.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		log.Printf("cliente conectado desde %s", conn.RemoteAddr())
		go s.HandleConn(ctx, newTCPTransport(conn))
	}
}

// HandleConn runs the full lifecycle of one connection: login, command
// dispatch, and cleanup when the peer goes away.
func (s *Server) HandleConn(ctx context.Context, transport lineTransport) {
	client := newClient(transport)
	go client.writeLoop()
	defer client.close()

	if !s.login(client) {
		return
	}
	defer s.cleanup(ctx, client)

	for {
		line, err := transport.ReadLine()
		if err != nil {
			log.Printf("%s ha perdido la conexión", client.Name())
			return
		}
		s.handleCommand(ctx, client, line)
	}
}

// ConnectedCount returns the number of logged-in clients.
func (s *Server) ConnectedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// login reads candidate usernames until one is free. Names are unique
// case-insensitively and stay reserved for the life of the server.
func (s *Server) login(client *Client) bool {
	for {
		name, err := client.transport.ReadLine()
		if err != nil {
			return false
		}
		name = strings.TrimSpace(name)
		if name == "" {
			client.Send(protocol.Error("El nombre de usuario no puede estar vacío."))
			continue
		}

		s.mu.Lock()
		key := strings.ToUpper(name)
		if _, taken := s.reserved[key]; taken {
			s.mu.Unlock()
			client.Send(protocol.Error("El nombre de usuario '" + name + "' ya está reservado. Por favor, prueba con otro."))
			continue
		}
		s.reserved[key] = struct{}{}
		s.clients[client] = struct{}{}
		s.mu.Unlock()

		client.setName(name)
		client.Send(protocol.LoginOK())
		log.Printf("usuario logueado: %s", name)
		return true
	}
}

// cleanup runs when a logged-in connection ends: an active match sees a
// disconnect, a queued player leaves its waiting room.
func (s *Server) cleanup(ctx context.Context, client *Client) {
	if match := client.CurrentMatch(); match != nil {
		match.ProcessDisconnect(ctx, client)
	} else if err := s.coordinator.RemovePlayer(ctx, &matchmaking.RemovePlayerInput{Player: client}); err != nil {
		log.Printf("cliente %s: error al salir de la sala: %v", client.Name(), err)
	}

	s.mu.Lock()
	delete(s.clients, client)
	remaining := len(s.clients)
	s.mu.Unlock()
	log.Printf("cliente desconectado, conexiones activas: %d", remaining)
}

func (s *Server) handleCommand(ctx context.Context, client *Client, line string) {
	cmd := protocol.Parse(line)

	switch cmd.Name {
	case protocol.CmdPlay:
		s.handlePlay(ctx, client, cmd)

	case protocol.CmdAttempt:
		match := client.CurrentMatch()
		if match == nil {
			client.Send(protocol.Error("No estás en una partida activa."))
			return
		}
		symbol, err := cmd.IntArg()
		if err != nil {
			client.Send(protocol.Error("Símbolo no válido."))
			return
		}
		match.ProcessAttempt(ctx, client, symbol)

	case protocol.CmdForfeit:
		match := client.CurrentMatch()
		if match == nil {
			client.Send(protocol.Error("No puedes rendirte, no estás en una partida activa."))
			client.Send(protocol.MatchEnd("Te hemos devuelto al menú principal.", nil))
			return
		}
		match.ProcessForfeit(ctx, client)

	case protocol.CmdHistory:
		output, err := s.coordinator.GetHistory(ctx, &matchmaking.GetHistoryInput{})
		if err != nil {
			client.Send(protocol.Error("No se pudo obtener el historial."))
			return
		}
		client.Send(protocol.History(output.Summaries))

	case protocol.CmdRanking:
		output, err := s.rankingRepo.GetRanking(ctx, &ranking.GetRankingInput{})
		if err != nil {
			client.Send(protocol.Error("No se pudo obtener el ranking."))
			return
		}
		client.Send(protocol.Ranking(output.Entries))

	case protocol.CmdDisconnect:
		client.close()

	default:
		client.Send(protocol.Error("Comando desconocido."))
	}
}

func (s *Server) handlePlay(ctx context.Context, client *Client, cmd protocol.Command) {
	if client.CurrentMatch() != nil {
		client.Send(protocol.AlreadyBusy())
		return
	}

	size, err := cmd.IntArg()
	if err != nil {
		client.Send(protocol.Error("Comando JUGAR inválido. Debe ser JUGAR|N."))
		return
	}

	_, err = s.coordinator.JoinWaitingList(ctx, &matchmaking.JoinWaitingListInput{
		Player: client,
		Size:   size,
	})
	switch {
	case errors.Is(err, matchmaking.ErrInvalidLobbySize):
		client.Send(protocol.Error("Número de jugadores no válido (2-8)."))
	case errors.Is(err, matchmaking.ErrPlayerBusy):
		client.Send(protocol.AlreadyBusy())
	case err != nil:
		log.Printf("cliente %s: error en matchmaking: %v", client.Name(), err)
		client.Send(protocol.Error("No se pudo unir a la sala."))
	}
}
