package stream

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gorilla/websocket"
	"github.com/milk9111/locomotion/controller"
	"github.com/milk9111/locomotion/physics"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestBroadcasterSendsPoses(t *testing.T) {
	b := NewBroadcaster(zerolog.Nop())
	srv := httptest.NewServer(b)
	defer srv.Close()
	defer b.Close()

	conn := dial(t, srv)
	require.Eventually(t, func() bool { return b.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	tr := physics.Transform{Position: mgl64.Vec3{1, 2, 3}, Rotation: mgl64.QuatIdent()}
	pose := controller.Follow(tr, controller.CameraConfig{FollowDistance: 4, Height: 1})
	b.Present(7, pose)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg PoseMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "pose", msg.Type)
	assert.Equal(t, 7, msg.Body)
	assert.Equal(t, [3]float64(pose.Position), msg.Position)
	assert.Equal(t, [3]float64(pose.Target), msg.Target)
	assert.Equal(t, pose.Orientation.W, msg.Orientation[0])
}

func TestBroadcasterDropsClosedClients(t *testing.T) {
	b := NewBroadcaster(zerolog.Nop())
	srv := httptest.NewServer(b)
	defer srv.Close()

	conn := dial(t, srv)
	require.Eventually(t, func() bool { return b.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return b.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)

	// no clients: presenting is a no-op
	b.Present(1, controller.Pose{})
}

func TestBroadcasterCloseRejectsNewClients(t *testing.T) {
	b := NewBroadcaster(zerolog.Nop())
	srv := httptest.NewServer(b)
	defer srv.Close()

	dial(t, srv)
	require.Eventually(t, func() bool { return b.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)
	b.Close()
	assert.Equal(t, 0, b.Clients())

	conn := dial(t, srv)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
	assert.Equal(t, 0, b.Clients())
}

func TestPresentNeverBlocks(t *testing.T) {
	b := NewBroadcaster(zerolog.Nop())
	c := &client{send: make(chan PoseMessage, 1), done: make(chan struct{})}
	b.clients[c] = struct{}{}

	for i := 0; i < 10; i++ {
		b.Present(1, controller.Pose{})
	}
	assert.Len(t, c.send, 1)
}
