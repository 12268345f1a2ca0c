package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vovakirdan/tui-2048/internal/agent"
	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/search"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

type evaluatorsResponse struct {
	Evaluators []string           `json:"evaluators"`
	Agents     []string           `json:"agents"`
	Presets    []string           `json:"presets"`
	Defaults   config.AgentConfig `json:"defaults"`
}

func (s *Server) handleEvaluators(w http.ResponseWriter, r *http.Request) {
	presets := make([]string, len(config.Presets))
	for i, p := range config.Presets {
		presets[i] = string(p)
	}
	writeJSON(w, http.StatusOK, evaluatorsResponse{
		Evaluators: search.EvaluatorNames(),
		Agents:     agent.Names,
		Presets:    presets,
		Defaults:   s.cfg,
	})
}

type moveRequest struct {
	Board     [t2048.Size][t2048.Size]int `json:"board"`
	Score     int                         `json:"score"`
	Depth     int                         `json:"depth,omitempty"`
	Evaluator string                      `json:"evaluator,omitempty"`
}

type moveResponse struct {
	Move      t2048.Direction    `json:"move"`
	Value     float64            `json:"value"`
	Moves     []search.MoveValue `json:"moves"`
	Depth     int                `json:"depth"`
	Evaluator string             `json:"evaluator"`
	Nodes     int64              `json:"nodes"`
	ElapsedMs int64              `json:"elapsed_ms"`
}

// searchConfig overlays the per-request depth and evaluator on the defaults.
func (s *Server) searchConfig(depth int, evaluator string) (config.SearchConfig, error) {
	cfg := s.cfg.Search
	if depth != 0 {
		if depth < 1 || depth > MaxRequestDepth {
			return cfg, fmt.Errorf("depth must be between 1 and %d", MaxRequestDepth)
		}
		cfg.MaxDepth = depth
	}
	cfg.MaxDepth = min(cfg.MaxDepth, MaxRequestDepth)
	if evaluator != "" {
		cfg.Evaluator = evaluator
	}
	return cfg, nil
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	b, err := t2048.BoardFromValues(nil, req.Board, req.Score)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	cfg, err := s.searchConfig(req.Depth, req.Evaluator)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	a, err := agent.FromConfig(cfg, s.logger)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	values, err := a.Analyze(r.Context(), b)
	switch {
	case errors.Is(err, search.ErrNoLegalMoves):
		writeError(w, http.StatusUnprocessableEntity, "game over: no legal moves")
		return
	case err != nil:
		s.logger.Error("analysis failed", "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	best := values[0]
	for _, mv := range values[1:] {
		if mv.Value > best.Value {
			best = mv
		}
	}
	writeJSON(w, http.StatusOK, moveResponse{
		Move:      best.Move,
		Value:     best.Value,
		Moves:     values,
		Depth:     a.MaxDepth(),
		Evaluator: cfg.Evaluator,
		Nodes:     a.Nodes(),
		ElapsedMs: time.Since(start).Milliseconds(),
	})
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return v, nil
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "score storage disabled")
		return
	}
	limit, err := queryInt(r, "limit", 10)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	scores, err := s.store.TopScores(chi.URLParam(r, "game"), limit)
	if err != nil {
		s.logger.Error("top scores", "err", err)
		writeError(w, http.StatusInternalServerError, "cannot load scores")
		return
	}
	if scores == nil {
		scores = []storage.ScoreEntry{}
	}
	writeJSON(w, http.StatusOK, scores)
}

func (s *Server) handleAgentRuns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "score storage disabled")
		return
	}
	summaries, err := s.store.AgentSummaries()
	if err != nil {
		s.logger.Error("agent summaries", "err", err)
		writeError(w, http.StatusInternalServerError, "cannot load agent runs")
		return
	}
	if summaries == nil {
		summaries = []storage.AgentSummary{}
	}
	writeJSON(w, http.StatusOK, summaries)
}
