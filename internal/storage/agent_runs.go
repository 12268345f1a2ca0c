package storage

import (
	"fmt"
	"time"
)

// AgentRun is one unattended game played by an agent.
type AgentRun struct {
	ID        int64         `json:"id"`
	Agent     string        `json:"agent"`
	Evaluator string        `json:"evaluator,omitempty"` // empty for agents without one
	Depth     int           `json:"depth,omitempty"`
	Seed      int64         `json:"seed"`
	Score     int           `json:"score"`
	MaxTile   int           `json:"max_tile"`
	Moves     int           `json:"moves"`
	Wasted    int           `json:"wasted"`
	Duration  time.Duration `json:"duration_ns"`
	CreatedAt time.Time     `json:"created_at"`
}

// AgentSummary aggregates runs sharing agent, evaluator and depth.
type AgentSummary struct {
	Agent     string  `json:"agent"`
	Evaluator string  `json:"evaluator"`
	Depth     int     `json:"depth"`
	Runs      int     `json:"runs"`
	BestScore int     `json:"best_score"`
	AvgScore  float64 `json:"avg_score"`
	BestTile  int     `json:"best_tile"`
}

// SaveAgentRun records a finished agent game and returns the new row ID.
func (s *Store) SaveAgentRun(r AgentRun) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO agent_runs (agent, evaluator, depth, seed, score, max_tile, moves, wasted, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Agent, r.Evaluator, r.Depth, r.Seed, r.Score, r.MaxTile, r.Moves, r.Wasted, r.Duration.Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save agent run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// RecentAgentRuns returns up to limit runs, newest first.
func (s *Store) RecentAgentRuns(limit int) ([]AgentRun, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, agent, evaluator, depth, seed, score, max_tile, moves, wasted, duration_ms, created_at
		 FROM agent_runs
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query agent runs: %w", err)
	}
	defer rows.Close()

	var runs []AgentRun
	for rows.Next() {
		var (
			r          AgentRun
			durationMs int64
			createdAt  any
		)
		if err := rows.Scan(&r.ID, &r.Agent, &r.Evaluator, &r.Depth, &r.Seed, &r.Score,
			&r.MaxTile, &r.Moves, &r.Wasted, &durationMs, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan agent run: %w", err)
		}
		r.Duration = time.Duration(durationMs) * time.Millisecond
		r.CreatedAt = parseTimestamp(createdAt)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return runs, nil
}

// AgentSummaries groups runs by agent configuration, best average first.
func (s *Store) AgentSummaries() ([]AgentSummary, error) {
	rows, err := s.db.Query(
		`SELECT agent, evaluator, depth, COUNT(*), MAX(score), AVG(score), MAX(max_tile)
		 FROM agent_runs
		 GROUP BY agent, evaluator, depth
		 ORDER BY AVG(score) DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot summarise agent runs: %w", err)
	}
	defer rows.Close()

	var out []AgentSummary
	for rows.Next() {
		var sum AgentSummary
		if err := rows.Scan(&sum.Agent, &sum.Evaluator, &sum.Depth, &sum.Runs,
			&sum.BestScore, &sum.AvgScore, &sum.BestTile); err != nil {
			return nil, fmt.Errorf("storage: cannot scan agent summary: %w", err)
		}
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}
