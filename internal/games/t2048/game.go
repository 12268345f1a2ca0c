package t2048

import (
	"math/rand"

	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/registry"
)

// Pilot chooses moves for an unattended game.
type Pilot interface {
	NextMove(b *Board) (Direction, error)
}

// Game is the tick-driven 2048 game run by the terminal front ends.
// Without a pilot it follows keyboard input; with one it asks the pilot for
// a move every pilotEvery ticks.
type Game struct {
	id, title string

	pilot      Pilot
	pilotEvery int
	pilotErr   error

	rng   *rand.Rand
	tick  uint64
	board *Board

	moves    int
	wasted   int
	lastMove Direction
	lastOK   bool

	screenW int
	screenH int

	gameOver bool
	paused   bool
	tooSmall bool
}

// New creates a keyboard-controlled game.
func New() *Game {
	return &Game{id: "2048", title: "2048"}
}

// NewWithPilot creates a game whose moves come from p.
// every is the number of ticks between pilot moves (minimum 1).
func NewWithPilot(id, title string, p Pilot, every int) *Game {
	return &Game{id: id, title: title, pilot: p, pilotEvery: max(every, 1)}
}

func init() {
	registry.Register("2048", func() registry.Game {
		return New()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string { return g.id }

// Title returns the display name.
func (g *Game) Title() string { return g.title }

// Board exposes the live board for read-only inspection.
func (g *Game) Board() *Board { return g.board }

// PilotErr returns the error that stopped a piloted game, if any.
func (g *Game) PilotErr() error { return g.pilotErr }

// Reset starts a new game seeded from cfg.Seed.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.rng = rand.New(rand.NewSource(cfg.Seed))
	g.tick = 0
	g.board = NewGame(SharedRowTable(), g.rng)
	g.moves = 0
	g.wasted = 0
	g.lastOK = false
	g.pilotErr = nil
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.gameOver = false
	g.paused = false
	g.checkScreenSize()
}

// Resize adopts a new screen size and keeps the current board.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	g.checkScreenSize()
}

func (g *Game) checkScreenSize() {
	g.tooSmall = g.screenW < boardWidth+2 || g.screenH < boardHeight+hudHeight+2
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++

	if g.tooSmall || g.gameOver {
		return core.StepResult{State: g.State()}
	}
	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	if g.pilot != nil {
		if g.tick%uint64(g.pilotEvery) != 0 {
			return core.StepResult{State: g.State()}
		}
		dir, err := g.pilot.NextMove(g.board.Copy())
		if err != nil {
			g.pilotErr = err
			g.gameOver = true
			return core.StepResult{State: g.State()}
		}
		moved := g.processMove(dir)
		return core.StepResult{State: g.State(), Moved: moved}
	}

	dir, ok := directionFor(in)
	if !ok {
		return core.StepResult{State: g.State()}
	}
	moved := g.processMove(dir)
	return core.StepResult{State: g.State(), Moved: moved}
}

func directionFor(in core.InputFrame) (Direction, bool) {
	switch {
	case in.Has(core.ActionUp):
		return Up, true
	case in.Has(core.ActionDown):
		return Down, true
	case in.Has(core.ActionLeft):
		return Left, true
	case in.Has(core.ActionRight):
		return Right, true
	}
	return 0, false
}

// processMove applies dir; a move that changes nothing spawns nothing.
func (g *Game) processMove(dir Direction) bool {
	if !g.board.MakeMove(dir) {
		g.wasted++
		return false
	}
	g.moves++
	g.lastMove, g.lastOK = dir, true
	g.board.AddRandomTile(g.rng)
	if !g.board.HasMoves() {
		g.gameOver = true
	}
	return true
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	var score, best int
	if g.board != nil {
		score = g.board.Score()
		best = g.board.MaxTile()
	}
	return core.GameState{
		Score:    score,
		MaxTile:  best,
		GameOver: g.gameOver,
		Paused:   g.paused || g.tooSmall,
	}
}
