package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-2048/internal/agent"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

const wsWriteTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type startPayload struct {
	Agent     string `json:"agent"`
	Evaluator string `json:"evaluator,omitempty"`
	Depth     int    `json:"depth,omitempty"`
	Seed      int64  `json:"seed"`
}

type stepPayload struct {
	Turn    int                         `json:"turn"`
	Move    t2048.Direction             `json:"move"`
	Moved   bool                        `json:"moved"`
	Spawned *t2048.Placement            `json:"spawned,omitempty"`
	Score   int                         `json:"score"`
	MaxTile int                         `json:"max_tile"`
	Board   [t2048.Size][t2048.Size]int `json:"board"`
}

type resultPayload struct {
	Score      int    `json:"score"`
	MaxTile    int    `json:"max_tile"`
	Moves      int    `json:"moves"`
	Wasted     int    `json:"wasted"`
	DurationMs int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

// autoplayParams are read from the query string; zero values fall back to
// the server configuration.
type autoplayParams struct {
	agent     string
	evaluator string
	depth     int
	seed      int64
	delay     time.Duration
}

func (s *Server) parseAutoplay(r *http.Request) (autoplayParams, error) {
	q := r.URL.Query()
	p := autoplayParams{
		agent:     q.Get("agent"),
		evaluator: q.Get("evaluator"),
	}
	if p.agent == "" {
		p.agent = s.cfg.Autoplay.Agent
	}

	var err error
	if p.depth, err = queryInt(r, "depth", 0); err != nil {
		return p, err
	}
	delayMs, err := queryInt(r, "delay_ms", s.cfg.Autoplay.MoveDelayMs)
	if err != nil {
		return p, err
	}
	if delayMs < 0 {
		return p, errors.New("delay_ms must not be negative")
	}
	p.delay = time.Duration(delayMs) * time.Millisecond

	if raw := q.Get("seed"); raw != "" {
		if p.seed, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return p, fmt.Errorf("seed: %w", err)
		}
	} else {
		p.seed = agent.RandomSeed()
	}
	return p, nil
}

// handleAutoplay streams one agent game over a websocket: a start message,
// a step per turn and a final result. Closing the socket stops the game.
func (s *Server) handleAutoplay(w http.ResponseWriter, r *http.Request) {
	params, err := s.parseAutoplay(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cfg := s.cfg
	cfg.Autoplay.Agent = params.agent
	if cfg.Search, err = s.searchConfig(params.depth, params.evaluator); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rng := rand.New(rand.NewSource(params.seed))
	a, err := agent.New(params.agent, cfg, rng, s.logger)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	start := startPayload{Agent: a.Name(), Seed: params.seed}
	if params.agent == "expectimax" {
		start.Evaluator, start.Depth = cfg.Search.Evaluator, cfg.Search.MaxDepth
	}
	if err := send(conn, "start", start); err != nil {
		return
	}
	s.logger.Info("autoplay started", "agent", start.Agent, "seed", start.Seed, "remote", r.RemoteAddr)

	observer := func(st agent.Step) error {
		payload := stepPayload{
			Turn:    st.Turn,
			Move:    st.Move,
			Moved:   st.Moved,
			Score:   st.Board.Score(),
			MaxTile: st.Board.MaxTile(),
			Board:   st.Board.Values(),
		}
		if st.Moved {
			payload.Spawned = &st.Spawned
		}
		if err := send(conn, "step", payload); err != nil {
			return err
		}
		if params.delay <= 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(params.delay):
			return nil
		}
	}

	board := t2048.NewGame(nil, rng)
	res, playErr := agent.Play(ctx, a, board, rng, agent.WithObserver(observer), agent.WithPlayLogger(s.logger))

	result := resultPayload{
		Score:      res.Score,
		MaxTile:    res.MaxTile,
		Moves:      res.Moves,
		Wasted:     res.Wasted,
		DurationMs: res.Duration.Milliseconds(),
	}
	if playErr != nil {
		if ctx.Err() != nil {
			s.logger.Info("autoplay aborted by client", "agent", start.Agent, "turns", res.Moves+res.Wasted)
			return
		}
		result.Error = playErr.Error()
	}
	s.saveRun(start, res, playErr)

	if err := send(conn, "result", result); err != nil {
		return
	}
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "game over"),
		time.Now().Add(wsWriteTimeout))
}

func (s *Server) saveRun(start startPayload, res agent.Result, playErr error) {
	if s.store == nil || playErr != nil {
		return
	}
	_, err := s.store.SaveAgentRun(storage.AgentRun{
		Agent:     start.Agent,
		Evaluator: start.Evaluator,
		Depth:     start.Depth,
		Seed:      start.Seed,
		Score:     res.Score,
		MaxTile:   res.MaxTile,
		Moves:     res.Moves,
		Wasted:    res.Wasted,
		Duration:  res.Duration,
	})
	if err != nil {
		s.logger.Warn("agent run not saved", "err", err)
	}
}

func send(conn *websocket.Conn, typ string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if err := conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
		return err
	}
	return conn.WriteJSON(wsMessage{Type: typ, Payload: raw})
}
