package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenCreatesFile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestStoreTopScores(t *testing.T) {
	store := openTestStore(t)

	for _, s := range []struct {
		game  string
		score int
		tile  int
	}{
		{"2048", 100, 64},
		{"2048", 50, 32},
		{"2048", 200, 128},
		{"2048_ai", 5000, 512},
	} {
		if _, err := store.SaveScore(s.game, s.score, s.tile); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}

	scores, err := store.TopScores("2048", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("expected 3 scores, got %d", len(scores))
	}

	want := []int{200, 100, 50}
	for i, w := range want {
		if scores[i].Score != w {
			t.Errorf("scores[%d] = %d, want %d", i, scores[i].Score, w)
		}
		if scores[i].GameID != "2048" {
			t.Errorf("scores[%d].GameID = %q", i, scores[i].GameID)
		}
	}
	if scores[0].MaxTile != 128 {
		t.Errorf("scores[0].MaxTile = %d, want 128", scores[0].MaxTile)
	}
	if scores[0].CreatedAt.IsZero() {
		t.Error("CreatedAt was not parsed")
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openTestStore(t)

	for i := range 15 {
		if _, err := store.SaveScore("2048", i*10, 4); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}

	tests := []struct {
		limit int
		want  int
	}{
		{5, 5},
		{0, 10},
		{-3, 10},
		{100, 15},
	}
	for _, tt := range tests {
		scores, err := store.TopScores("2048", tt.limit)
		if err != nil {
			t.Fatalf("TopScores(%d) failed: %v", tt.limit, err)
		}
		if len(scores) != tt.want {
			t.Errorf("TopScores(%d) returned %d rows, want %d", tt.limit, len(scores), tt.want)
		}
	}
}

func TestStoreHighScoreAndClear(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore("2048")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("empty high score = %d, want 0", high)
	}

	store.SaveScore("2048", 300, 64)
	store.SaveScore("2048", 900, 128)
	store.SaveScore("2048_ai", 40, 8)

	if high, _ = store.HighScore("2048"); high != 900 {
		t.Errorf("HighScore() = %d, want 900", high)
	}

	if err := store.ClearScores("2048"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}
	if high, _ = store.HighScore("2048"); high != 0 {
		t.Errorf("HighScore() after clear = %d, want 0", high)
	}
	if high, _ = store.HighScore("2048_ai"); high != 40 {
		t.Errorf("other game was cleared: HighScore() = %d, want 40", high)
	}
}

func TestStoreGameStats(t *testing.T) {
	store := openTestStore(t)

	stats, err := store.GameStats("2048")
	if err != nil {
		t.Fatalf("GameStats() failed: %v", err)
	}
	if stats.GamesCount != 0 || !stats.LastPlayed.IsZero() {
		t.Errorf("empty stats = %+v", stats)
	}

	store.SaveScore("2048", 100, 32)
	store.SaveScore("2048", 300, 256)

	stats, err = store.GameStats("2048")
	if err != nil {
		t.Fatalf("GameStats() failed: %v", err)
	}
	if stats.GamesCount != 2 {
		t.Errorf("GamesCount = %d, want 2", stats.GamesCount)
	}
	if stats.HighScore != 300 || stats.BestTile != 256 {
		t.Errorf("HighScore/BestTile = %d/%d, want 300/256", stats.HighScore, stats.BestTile)
	}
	if stats.AvgScore != 200 {
		t.Errorf("AvgScore = %v, want 200", stats.AvgScore)
	}
}

func TestStoreAgentRuns(t *testing.T) {
	store := openTestStore(t)

	runs := []AgentRun{
		{Agent: "expectimax", Evaluator: "score", Depth: 3, Seed: 1, Score: 8000, MaxTile: 1024, Moves: 600, Duration: 1500 * time.Millisecond},
		{Agent: "expectimax", Evaluator: "score", Depth: 3, Seed: 2, Score: 12000, MaxTile: 1024, Moves: 800},
		{Agent: "random", Seed: 3, Score: 900, MaxTile: 128, Moves: 120, Wasted: 30},
	}
	for _, r := range runs {
		if _, err := store.SaveAgentRun(r); err != nil {
			t.Fatalf("SaveAgentRun() failed: %v", err)
		}
	}

	recent, err := store.RecentAgentRuns(2)
	if err != nil {
		t.Fatalf("RecentAgentRuns() failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(recent))
	}
	if recent[0].Agent != "random" || recent[0].Wasted != 30 {
		t.Errorf("newest run = %+v", recent[0])
	}
	if recent[1].Seed != 2 {
		t.Errorf("second run seed = %d, want 2", recent[1].Seed)
	}

	all, _ := store.RecentAgentRuns(0)
	if got := all[len(all)-1].Duration; got != 1500*time.Millisecond {
		t.Errorf("Duration = %v, want 1.5s", got)
	}

	summaries, err := store.AgentSummaries()
	if err != nil {
		t.Fatalf("AgentSummaries() failed: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	top := summaries[0]
	if top.Agent != "expectimax" || top.Runs != 2 || top.BestScore != 12000 || top.AvgScore != 10000 {
		t.Errorf("top summary = %+v", top)
	}
}

func TestStoreExpandHomePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := Open("~/.t2048/test.db")
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(filepath.Join(home, ".t2048", "test.db")); err != nil {
		t.Errorf("database not created under home: %v", err)
	}
}
