package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCORSHeadersAlwaysPresentOnPreflightRequests ensures that CORS headers
// are properly set on OPTIONS requests from browsers
func TestCORSHeadersAlwaysPresentOnPreflightRequests(t *testing.T) {
	env := newTestEnv(t, 0)

	req := httptest.NewRequest("OPTIONS", "/api/games/g1/moves", nil)
	req.Header.Set("Origin", "http://localhost:8081")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "content-type")

	w := httptest.NewRecorder()
	env.handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

// TestConcurrentRollsOnlyOneWins fires many rolls at the same turn; exactly one may
// succeed and the roll is recorded once.
func TestConcurrentRollsOnlyOneWins(t *testing.T) {
	env := newTestEnv(t, 0)
	gameID, ann, _ := env.readyGame()
	require.Equal(t, http.StatusOK, env.do("POST", "/api/games/"+gameID+"/start", ann, nil).Code)

	const workers = 12
	codes := make(chan int, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest("POST", "/api/games/"+gameID+"/roll", nil)
			req.Header.Set("Authorization", "Bearer "+ann)
			rr := httptest.NewRecorder()
			env.handler.ServeHTTP(rr, req)
			codes <- rr.Code
		}()
	}
	wg.Wait()
	close(codes)

	counts := map[int]int{}
	for code := range codes {
		counts[code]++
	}
	assert.Equal(t, map[int]int{http.StatusOK: 1, http.StatusConflict: workers - 1}, counts)

	rr := env.do("GET", "/api/players/id-1", "", nil)
	assert.Equal(t, 1, decodeAs[PlayerView](t, rr).Stats.Rolls)
}

func TestHubDeliversAndDropsSlowClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewHub()
	go hub.Run(ctx)

	client := &Client{hub: hub, send: make(chan []byte, 1), gameID: "g1"}
	hub.register <- client
	require.Eventually(t, func() bool { return hub.ClientCount("g1") == 1 }, time.Second, 5*time.Millisecond)

	hub.BroadcastGameUpdate(GameUpdate{GameID: "g1", Type: "roll", Data: []int{3, 1}})
	select {
	case msg := <-client.send:
		var update GameUpdate
		require.NoError(t, json.Unmarshal(msg, &update))
		assert.Equal(t, "roll", update.Type)
		assert.Equal(t, "g1", update.GameID)
	case <-time.After(time.Second):
		t.Fatal("update not delivered")
	}

	// Updates for other games are not delivered
	hub.BroadcastGameUpdate(GameUpdate{GameID: "g2", Type: "roll"})

	// One update fills the buffer, the next finds it full
	hub.BroadcastGameUpdate(GameUpdate{GameID: "g1", Type: "move"})
	hub.BroadcastGameUpdate(GameUpdate{GameID: "g1", Type: "move"})
	require.Eventually(t, func() bool { return hub.ClientCount("g1") == 0 }, time.Second, 5*time.Millisecond)
}

func TestWebSocketReceivesGameUpdates(t *testing.T) {
	env := newTestEnv(t, 0)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	env.svc.hub = NewHub()
	go env.svc.hub.Run(ctx)

	router := mux.NewRouter()
	env.svc.Routes(router)
	server := httptest.NewServer(CORS(router))
	defer server.Close()
	env.handler = server.Config.Handler

	gameID, ann, _ := env.readyGame()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws?gameId=" + gameID

	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http")+"/ws?gameId=missing", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return env.svc.hub.ClientCount(gameID) == 1 }, time.Second, 5*time.Millisecond)

	require.Equal(t, http.StatusOK, env.do("POST", "/api/games/"+gameID+"/start", ann, nil).Code)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var update GameUpdate
	require.NoError(t, conn.ReadJSON(&update))
	assert.Equal(t, "started", update.Type)
	assert.Equal(t, gameID, update.GameID)

	rr := env.do("GET", "/api/games", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	listing := decodeAs[struct {
		Games []GameSummary `json:"games"`
		Total int           `json:"total"`
	}](t, rr)
	require.Equal(t, 1, listing.Total)
	assert.Equal(t, 1, listing.Games[0].SpectatorCount)
}
