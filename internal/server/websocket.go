package server

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The line protocol carries its own identity, no origin policy.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsTransport frames the line protocol as one text message per line.
type wsTransport struct {
	conn *websocket.Conn
}

func (t *wsTransport) ReadLine() (string, error) {
	_, data, err := t.conn.ReadMessage()
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

func (t *wsTransport) WriteLine(line string) error {
	return t.conn.WriteMessage(websocket.TextMessage, []byte(line))
}

func (t *wsTransport) Close() error {
	return t.conn.Close()
}

// WebsocketHandler upgrades HTTP requests and runs the same login and
// dispatch loop the TCP listener uses.
func (s *Server) WebsocketHandler(ctx context.Context) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("fallo al actualizar a websocket: %v", err)
			return
		}
		log.Printf("cliente websocket conectado desde %s", conn.RemoteAddr())
		s.HandleConn(ctx, &wsTransport{conn: conn})
	})
}
