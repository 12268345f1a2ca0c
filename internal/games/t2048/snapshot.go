package t2048

// Phase is the coarse state of a game.
type Phase string

const (
	PhasePlaying     Phase = "playing"
	PhasePaused      Phase = "paused"
	PhaseGameOver    Phase = "game_over"
	PhaseTooSmall    Phase = "paused_small_window"
	PhasePilotFailed Phase = "pilot_failed"
)

// Snapshot captures the game for determinism tests and streaming.
type Snapshot struct {
	Tick    uint64          `json:"tick"`
	Game    string          `json:"game"`
	Score   int             `json:"score"`
	Board   [Size][Size]int `json:"board"`
	MaxTile int             `json:"max_tile"`
	Moves   int             `json:"moves"`
	Wasted  int             `json:"wasted"`
	Phase   Phase           `json:"phase"`
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	phase := PhasePlaying
	switch {
	case g.tooSmall:
		phase = PhaseTooSmall
	case g.pilotErr != nil:
		phase = PhasePilotFailed
	case g.gameOver:
		phase = PhaseGameOver
	case g.paused:
		phase = PhasePaused
	}

	return Snapshot{
		Tick:    g.tick,
		Game:    g.id,
		Score:   g.board.Score(),
		Board:   g.board.Values(),
		MaxTile: g.board.MaxTile(),
		Moves:   g.moves,
		Wasted:  g.wasted,
		Phase:   phase,
	}
}
