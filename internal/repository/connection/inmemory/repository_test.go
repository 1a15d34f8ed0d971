package inmemory

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/primetime/server/internal/domain"
	"github.com/primetime/server/internal/repository/connection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// connPair dials a real websocket against an httptest server so writes go
// through an actual network conn.
func connPair(t *testing.T) (serverConn, clientConn *websocket.Conn) {
	t.Helper()

	upgrader := websocket.Upgrader{}
	connCh := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			connCh <- nil
			return
		}
		connCh <- c
	}))
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	clientConn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { clientConn.Close() })

	serverConn = <-connCh
	require.NotNil(t, serverConn)
	t.Cleanup(func() { serverConn.Close() })

	return serverConn, clientConn
}

func newTestRepo() *repo {
	return NewRepo(time.Second, slog.Default())
}

func TestAddAndGetSession(t *testing.T) {
	r := newTestRepo()
	serverConn, _ := connPair(t)

	require.NoError(t, r.Add(serverConn, "session-1", domain.ChannelControl))

	s, err := r.GetSession(serverConn)
	require.NoError(t, err)
	assert.Equal(t, "session-1", s.Id)
	assert.Equal(t, domain.ChannelControl, s.Channel)
	assert.False(t, s.ConnectedAt.IsZero())
}

func TestAddDuplicateFails(t *testing.T) {
	r := newTestRepo()
	serverConn, _ := connPair(t)

	require.NoError(t, r.Add(serverConn, "session-1", domain.ChannelControl))
	require.ErrorIs(t, r.Add(serverConn, "session-2", domain.ChannelControl), connection.ErrAlreadyExists)
}

func TestRemoveByConn(t *testing.T) {
	r := newTestRepo()
	serverConn, _ := connPair(t)

	require.NoError(t, r.Add(serverConn, "session-1", domain.ChannelShow))
	require.NoError(t, r.RemoveByConn(serverConn))

	_, err := r.GetSession(serverConn)
	require.ErrorIs(t, err, connection.ErrNotFound)
	require.ErrorIs(t, r.RemoveByConn(serverConn), connection.ErrNotFound)
}

func TestRemoveBySessionId(t *testing.T) {
	r := newTestRepo()
	serverConn, _ := connPair(t)

	require.NoError(t, r.Add(serverConn, "session-1", domain.ChannelShow))
	require.NoError(t, r.RemoveBySessionId("session-1"))
	require.ErrorIs(t, r.RemoveBySessionId("session-1"), connection.ErrNotFound)
}

func TestCountPerChannel(t *testing.T) {
	r := newTestRepo()
	control1, _ := connPair(t)
	control2, _ := connPair(t)
	show1, _ := connPair(t)

	require.NoError(t, r.Add(control1, "c1", domain.ChannelControl))
	require.NoError(t, r.Add(control2, "c2", domain.ChannelControl))
	require.NoError(t, r.Add(show1, "s1", domain.ChannelShow))

	assert.Equal(t, 2, r.Count(domain.ChannelControl))
	assert.Equal(t, 1, r.Count(domain.ChannelShow))

	require.NoError(t, r.RemoveByConn(control1))
	assert.Equal(t, 1, r.Count(domain.ChannelControl))
}

func TestSendToConnDeliversMessage(t *testing.T) {
	r := newTestRepo()
	serverConn, clientConn := connPair(t)

	require.NoError(t, r.Add(serverConn, "session-1", domain.ChannelShow))
	require.NoError(t, r.SendToConn(serverConn, &domain.Message{
		Type:    domain.MsgShowSetTimecode,
		Payload: map[string]any{"timecode_ms": 1500},
	}))

	var received domain.Message
	require.NoError(t, clientConn.ReadJSON(&received))
	assert.Equal(t, domain.MsgShowSetTimecode, received.Type)
}

func TestSendToUnknownSessionFails(t *testing.T) {
	r := newTestRepo()

	err := r.SendTo("no-such-session", &domain.Message{Type: domain.MsgShowPong})
	require.ErrorIs(t, err, connection.ErrNotFound)
}

func TestBroadcastReachesOnlyTargetChannel(t *testing.T) {
	r := newTestRepo()
	showServer1, showClient1 := connPair(t)
	showServer2, showClient2 := connPair(t)
	controlServer, controlClient := connPair(t)

	require.NoError(t, r.Add(showServer1, "s1", domain.ChannelShow))
	require.NoError(t, r.Add(showServer2, "s2", domain.ChannelShow))
	require.NoError(t, r.Add(controlServer, "c1", domain.ChannelControl))

	r.Broadcast(domain.ChannelShow, &domain.Message{Type: domain.MsgShowPlay})

	for _, clientConn := range []*websocket.Conn{showClient1, showClient2} {
		var received domain.Message
		require.NoError(t, clientConn.ReadJSON(&received))
		assert.Equal(t, domain.MsgShowPlay, received.Type)
	}

	controlClient.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	var received domain.Message
	err := controlClient.ReadJSON(&received)
	require.Error(t, err, "control channel must not receive show broadcasts")
}

func TestFailedSendRemovesSession(t *testing.T) {
	r := newTestRepo()
	serverConn, _ := connPair(t)

	require.NoError(t, r.Add(serverConn, "session-1", domain.ChannelShow))

	// Closing the server side makes the next write fail immediately.
	serverConn.Close()

	err := r.SendToConn(serverConn, &domain.Message{Type: domain.MsgShowPong})
	require.Error(t, err)

	_, err = r.GetSession(serverConn)
	require.ErrorIs(t, err, connection.ErrNotFound)
}
