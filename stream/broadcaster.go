package stream

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/milk9111/locomotion/controller"
	"github.com/milk9111/locomotion/physics"
	"github.com/rs/zerolog"
)

const (
	sendBuffer   = 64
	writeTimeout = 2 * time.Second
)

// PoseMessage is the JSON frame sent for every presented pose.
type PoseMessage struct {
	Type        string     `json:"type"`
	Body        int        `json:"body"`
	Position    [3]float64 `json:"position"`
	Target      [3]float64 `json:"target"`
	Orientation [4]float64 `json:"orientation"`
}

func NewPoseMessage(id physics.BodyID, p controller.Pose) PoseMessage {
	q := p.Orientation
	return PoseMessage{
		Type:        "pose",
		Body:        int(id),
		Position:    p.Position,
		Target:      p.Target,
		Orientation: [4]float64{q.W, q.V.X(), q.V.Y(), q.V.Z()},
	}
}

// safeWriter serialises writes to one connection.
type safeWriter struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (w *safeWriter) WriteJSON(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return w.conn.WriteJSON(v)
}

func (w *safeWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.Close()
}

type client struct {
	w    *safeWriter
	send chan PoseMessage
	done chan struct{}
	once sync.Once
}

func (c *client) stop() {
	c.once.Do(func() {
		close(c.done)
		_ = c.w.Close()
	})
}

// Broadcaster is a controller.Sink that fans poses out to websocket clients.
// Present never blocks the simulation: a client that falls behind loses
// frames rather than stalling the step.
type Broadcaster struct {
	upgrader websocket.Upgrader
	log      zerolog.Logger

	mu      sync.RWMutex
	clients map[*client]struct{}
	closed  bool
}

var (
	_ controller.Sink = (*Broadcaster)(nil)
	_ http.Handler    = (*Broadcaster)(nil)
)

func NewBroadcaster(log zerolog.Logger) *Broadcaster {
	return &Broadcaster{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log:     log,
		clients: make(map[*client]struct{}),
	}
}

func (b *Broadcaster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.log.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("websocket upgrade failed")
		return
	}

	c := &client{
		w:    &safeWriter{conn: conn},
		send: make(chan PoseMessage, sendBuffer),
		done: make(chan struct{}),
	}
	if !b.add(c) {
		c.stop()
		return
	}
	b.log.Info().Str("remote", r.RemoteAddr).Msg("pose client connected")

	go b.writeLoop(c)

	// reads only detect the peer going away
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	b.remove(c)
	b.log.Info().Str("remote", r.RemoteAddr).Msg("pose client disconnected")
}

func (b *Broadcaster) writeLoop(c *client) {
	for {
		select {
		case msg := <-c.send:
			if err := c.w.WriteJSON(msg); err != nil {
				b.log.Debug().Err(err).Msg("pose write failed")
				b.remove(c)
				return
			}
		case <-c.done:
			return
		}
	}
}

func (b *Broadcaster) add(c *client) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return false
	}
	b.clients[c] = struct{}{}
	return true
}

func (b *Broadcaster) remove(c *client) {
	b.mu.Lock()
	delete(b.clients, c)
	b.mu.Unlock()
	c.stop()
}

func (b *Broadcaster) Present(id physics.BodyID, pose controller.Pose) {
	msg := NewPoseMessage(id, pose)
	b.mu.RLock()
	defer b.mu.RUnlock()
	for c := range b.clients {
		select {
		case c.send <- msg:
		default:
		}
	}
}

func (b *Broadcaster) Clients() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

// Close disconnects every client and refuses new ones.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	b.closed = true
	clients := make([]*client, 0, len(b.clients))
	for c := range b.clients {
		clients = append(clients, c)
	}
	b.clients = map[*client]struct{}{}
	b.mu.Unlock()

	for _, c := range clients {
		c.stop()
	}
}
