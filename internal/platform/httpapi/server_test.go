package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

func newTestServer(t *testing.T, withStore bool) (*httptest.Server, *storage.Store) {
	t.Helper()

	var store *storage.Store
	if withStore {
		var err error
		store, err = storage.Open(filepath.Join(t.TempDir(), "api.db"))
		require.NoError(t, err)
		t.Cleanup(func() { store.Close() })
	}

	cfg := config.DefaultAgentConfig()
	cfg.Search.MaxDepth = 2
	cfg.Autoplay.MoveDelayMs = 0

	ts := httptest.NewServer(New(cfg, store, log.New(io.Discard)).Handler())
	t.Cleanup(ts.Close)
	return ts, store
}

func postMove(t *testing.T, ts *httptest.Server, body any) (*http.Response, map[string]any) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(ts.URL+"/api/move", "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestPing(t *testing.T) {
	ts, _ := newTestServer(t, false)

	resp, err := http.Get(ts.URL + "/api/ping")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}

func TestEvaluators(t *testing.T) {
	ts, _ := newTestServer(t, false)

	resp, err := http.Get(ts.URL + "/api/evaluators")
	require.NoError(t, err)
	defer resp.Body.Close()

	var out evaluatorsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Contains(t, out.Evaluators, "weighted")
	require.Contains(t, out.Agents, "expectimax")
	require.Contains(t, out.Presets, "hard")
	require.Equal(t, 2, out.Defaults.Search.MaxDepth)
}

func TestMovePrefersMerge(t *testing.T) {
	ts, _ := newTestServer(t, false)

	resp, out := postMove(t, ts, moveRequest{
		Board: [t2048.Size][t2048.Size]int{{2, 2}},
		Depth: 1,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, out)
	require.Equal(t, "left", out["move"])
	require.Equal(t, "score", out["evaluator"])
	require.EqualValues(t, 1, out["depth"])
	require.Len(t, out["moves"], 3)
}

func TestMoveErrors(t *testing.T) {
	ts, _ := newTestServer(t, false)

	dead := [t2048.Size][t2048.Size]int{
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{2, 4, 2, 4},
		{4, 2, 4, 2},
	}

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"game over", moveRequest{Board: dead}, http.StatusUnprocessableEntity},
		{"not a power of two", moveRequest{Board: [4][4]int{{3}}}, http.StatusBadRequest},
		{"negative score", moveRequest{Board: [4][4]int{{2}}, Score: -1}, http.StatusBadRequest},
		{"depth too deep", moveRequest{Board: [4][4]int{{2}}, Depth: MaxRequestDepth + 1}, http.StatusBadRequest},
		{"unknown evaluator", moveRequest{Board: [4][4]int{{2}}, Evaluator: "oracle"}, http.StatusBadRequest},
		{"bad json", "not an object", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, out := postMove(t, ts, tt.body)
			require.Equal(t, tt.status, resp.StatusCode)
			require.NotEmpty(t, out["error"])
		})
	}
}

func TestScoresWithoutStore(t *testing.T) {
	ts, _ := newTestServer(t, false)

	resp, err := http.Get(ts.URL + "/api/scores/2048")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestScores(t *testing.T) {
	ts, store := newTestServer(t, true)
	_, err := store.SaveScore("2048", 512, 64)
	require.NoError(t, err)

	resp, err := http.Get(ts.URL + "/api/scores/2048?limit=5")
	require.NoError(t, err)
	defer resp.Body.Close()

	var scores []storage.ScoreEntry
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&scores))
	require.Len(t, scores, 1)
	require.Equal(t, 512, scores[0].Score)

	resp2, err := http.Get(ts.URL + "/api/scores/2048?limit=many")
	require.NoError(t, err)
	resp2.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp2.StatusCode)
}

func TestAutoplayStreamsGame(t *testing.T) {
	ts, store := newTestServer(t, true)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/autoplay?agent=left_down&seed=3"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	var (
		msg    wsMessage
		start  startPayload
		result resultPayload
		steps  int
		last   stepPayload
	)
	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, "start", msg.Type)
	require.NoError(t, json.Unmarshal(msg.Payload, &start))
	require.Equal(t, "left_down", start.Agent)
	require.EqualValues(t, 3, start.Seed)

	for {
		require.NoError(t, conn.ReadJSON(&msg))
		if msg.Type == "result" {
			require.NoError(t, json.Unmarshal(msg.Payload, &result))
			break
		}
		require.Equal(t, "step", msg.Type)
		require.NoError(t, json.Unmarshal(msg.Payload, &last))
		steps++
	}

	require.Empty(t, result.Error)
	require.Equal(t, steps, result.Moves+result.Wasted)
	require.Equal(t, last.Score, result.Score)

	runs, err := store.RecentAgentRuns(1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Equal(t, "left_down", runs[0].Agent)
	require.Equal(t, result.Score, runs[0].Score)
}

func TestAutoplayRejectsBadParams(t *testing.T) {
	ts, _ := newTestServer(t, false)

	for _, q := range []string{"agent=oracle", "seed=abc", "delay_ms=-1", "depth=99"} {
		resp, err := http.Get(ts.URL + "/ws/autoplay?" + q)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode, q)
	}
}
