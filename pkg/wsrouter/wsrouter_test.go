package wsrouter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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

func TestServeConnRoutesByType(t *testing.T) {
	serverConn, clientConn := connPair(t)

	router := New()
	handled := make(chan string, 1)
	router.Handle("GREET", func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
		var input struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(payload, &input); err != nil {
			return err
		}
		handled <- input.Name
		return nil
	})

	go router.ServeConn(context.Background(), serverConn)

	require.NoError(t, clientConn.WriteJSON(map[string]any{
		"type":    "GREET",
		"payload": map[string]string{"name": "operator"},
	}))

	select {
	case name := <-handled:
		assert.Equal(t, "operator", name)
	case <-time.After(2 * time.Second):
		t.Fatal("handler was not invoked")
	}
}

// Unknown types must not produce a write from the read loop: every write to a
// conn goes through the session's write lock, and a reply from ServeConn would
// race concurrent broadcasts on the same conn.
func TestUnknownTypesSkippedDuringConcurrentWrites(t *testing.T) {
	serverConn, clientConn := connPair(t)

	var writeMu sync.Mutex
	router := New()
	router.Handle("PING", func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return conn.WriteJSON(map[string]string{"type": "PONG"})
	})

	go router.ServeConn(context.Background(), serverConn)

	// Concurrent broadcaster writing to the same conn under the write lock,
	// the way the registry fans out timecode ticks.
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				writeMu.Lock()
				err := serverConn.WriteJSON(map[string]any{"type": "TICK", "payload": map[string]int64{"timecode_ms": 1}})
				writeMu.Unlock()
				if err != nil {
					return
				}
			}
		}
	}()

	for i := 0; i < 200; i++ {
		require.NoError(t, clientConn.WriteJSON(map[string]string{"type": "NO_SUCH_TYPE"}))
	}
	require.NoError(t, clientConn.WriteJSON(map[string]string{"type": "PING"}))

	// The connection must still be served: drain ticks until the pong arrives.
	clientConn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		var msg struct {
			Type string `json:"type"`
		}
		require.NoError(t, clientConn.ReadJSON(&msg))
		if msg.Type == "PONG" {
			break
		}
	}

	close(stop)
	wg.Wait()
}

func TestTypedRejectsMalformedPayload(t *testing.T) {
	handler := Typed(func(ctx context.Context, conn *websocket.Conn, input struct {
		Index int `json:"index"`
	}) error {
		return nil
	})

	err := handler(context.Background(), nil, json.RawMessage(`{"index":"not a number"}`))
	require.Error(t, err)

	require.NoError(t, handler(context.Background(), nil, json.RawMessage(`{"index":2}`)))
	require.NoError(t, handler(context.Background(), nil, nil))
}
