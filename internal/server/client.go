package server

import (
	"bufio"
	"log"
	"net"
	"strings"
	"sync"

	"dobble/internal/services/game"
)

// outboundBuffer is the per-connection queue depth. A client that stops
// draining its socket loses events rather than stalling the match that
// produced them.
const outboundBuffer = 64

// lineTransport abstracts the framing of one connection: raw TCP with
// newline-delimited lines or a websocket with one line per text message.
type lineTransport interface {
	// ReadLine blocks for the next inbound line, without the trailing
	// newline
	ReadLine() (string, error)

	// WriteLine delivers one line to the peer
	WriteLine(line string) error

	// Close tears the connection down, unblocking ReadLine
	Close() error
}

// tcpTransport frames lines over a stream socket.
type tcpTransport struct {
	conn   net.Conn
	reader *bufio.Reader
}

func newTCPTransport(conn net.Conn) *tcpTransport {
	return &tcpTransport{
		conn:   conn,
		reader: bufio.NewReader(conn),
	}
}

func (t *tcpTransport) ReadLine() (string, error) {
	line, err := t.reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (t *tcpTransport) WriteLine(line string) error {
	_, err := t.conn.Write([]byte(line + "\n"))
	return err
}

func (t *tcpTransport) Close() error {
	return t.conn.Close()
}

// Client is the per-connection actor. Its reader loop dispatches one
// command at a time; a dedicated writer goroutine drains the outbound
// queue, so sessions and the coordinator hand messages off without ever
// touching the socket.
//
// Client implements game.PlayerConn.
type Client struct {
	transport lineTransport
	outbound  chan string
	done      chan struct{}
	closeOnce sync.Once

	mu    sync.Mutex
	name  string
	match *game.Session
}

func newClient(transport lineTransport) *Client {
	return &Client{
		transport: transport,
		outbound:  make(chan string, outboundBuffer),
		done:      make(chan struct{}),
	}
}

// Name returns the username fixed at login.
func (c *Client) Name() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.name
}

func (c *Client) setName(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.name = name
}

// Send queues one line for delivery. It never blocks: when the queue is
// full the line is dropped and logged, keeping a slow client from
// stalling its match.
func (c *Client) Send(line string) {
	select {
	case c.outbound <- line:
	case <-c.done:
	default:
		log.Printf("cliente %s: cola de salida llena, mensaje descartado", c.Name())
	}
}

// CurrentMatch returns the session this client is bound to, or nil.
func (c *Client) CurrentMatch() *game.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.match
}

// BindMatch binds the client to a session.
func (c *Client) BindMatch(s *game.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.match = s
}

// ClearMatch unbinds the client only while it is still bound to the
// given session, so a finished match cannot detach the client from a
// newer one.
func (c *Client) ClearMatch(s *game.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.match == s {
		c.match = nil
	}
}

// writeLoop is the single writer on the transport.
func (c *Client) writeLoop() {
	for {
		select {
		case line := <-c.outbound:
			if err := c.transport.WriteLine(line); err != nil {
				c.close()
				return
			}
		case <-c.done:
			return
		}
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if err := c.transport.Close(); err != nil && !strings.Contains(err.Error(), "closed") {
			log.Printf("cliente %s: error al cerrar conexión: %v", c.Name(), err)
		}
	})
}
