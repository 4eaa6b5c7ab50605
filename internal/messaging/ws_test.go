package messaging

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func TestBroadcastConcurrentWrites(t *testing.T) {
	h := &hub{orderID: "o-ws", clients: make(map[*websocket.Conn]*wsClient)}

	connCh := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err == nil {
			connCh <- ws
		}
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer client.Close()

	server := <-connCh
	defer server.Close()
	h.register(server)

	// Overlapping broadcasts must not interleave writes on one connection.
	const frames = 50
	var wg sync.WaitGroup
	wg.Add(frames)
	for i := 0; i < frames; i++ {
		go func() {
			defer wg.Done()
			h.broadcast(wsEvent{Type: "message_new", Data: "ping"})
		}()
	}

	for i := 0; i < frames; i++ {
		_, payload, err := client.ReadMessage()
		require.NoError(t, err)
		require.Contains(t, string(payload), "message_new")
	}
	wg.Wait()

	h.unregister(server)
	h.broadcast(wsEvent{Type: "presence_leave", Data: "gone"})
}
