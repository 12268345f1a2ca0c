package t2048

import (
	"errors"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-2048/internal/core"
)

func testConfig(seed int64) core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 30, Seed: seed}
}

func frameWith(actions ...core.Action) core.InputFrame {
	f := core.NewInputFrame()
	for _, a := range actions {
		f.Set(a)
	}
	return f
}

func TestNewGameHasTwoTiles(t *testing.T) {
	g := New()
	g.Reset(testConfig(1))

	if got := Size*Size - g.Board().EmptyCount(); got != 2 {
		t.Errorf("new game has %d tiles, want 2", got)
	}
	if g.State().Score != 0 || g.State().GameOver {
		t.Errorf("unexpected initial state %+v", g.State())
	}
}

func TestDeterministicReplay(t *testing.T) {
	inputs := []core.Action{core.ActionLeft, core.ActionUp, core.ActionRight, core.ActionDown, core.ActionNone}

	play := func() Snapshot {
		g := New()
		g.Reset(testConfig(99))
		for i := range 200 {
			g.Step(frameWith(inputs[i%len(inputs)]))
		}
		return g.Snapshot()
	}

	a, b := play(), play()
	if a != b {
		t.Errorf("same seed and input diverged:\n%+v\n%+v", a, b)
	}
}

func TestNoChangeNoSpawn(t *testing.T) {
	g := New()
	g.Reset(testConfig(1))
	g.board = mustBoard(t, [Size][Size]int{{2, 4, 0, 0}})

	res := g.Step(frameWith(core.ActionLeft))
	if res.Moved {
		t.Error("illegal move reported as moved")
	}
	if g.Board().EmptyCount() != Size*Size-2 {
		t.Error("a tile was spawned after an illegal move")
	}
	if g.Snapshot().Wasted != 1 {
		t.Errorf("wasted = %d, want 1", g.Snapshot().Wasted)
	}
}

func TestMoveSpawnsOneTile(t *testing.T) {
	g := New()
	g.Reset(testConfig(1))
	g.board = mustBoard(t, [Size][Size]int{{2, 2, 0, 0}})

	res := g.Step(frameWith(core.ActionRight))
	if !res.Moved {
		t.Fatal("legal move not applied")
	}
	if got := Size*Size - g.Board().EmptyCount(); got != 2 {
		t.Errorf("tiles after merge and spawn = %d, want 2", got)
	}
	if res.State.Score != 4 {
		t.Errorf("score = %d, want 4", res.State.Score)
	}
}

func TestPauseBlocksMoves(t *testing.T) {
	g := New()
	g.Reset(testConfig(1))
	g.board = mustBoard(t, [Size][Size]int{{2, 2, 0, 0}})

	g.Step(frameWith(core.ActionPause))
	if !g.State().Paused {
		t.Fatal("game should be paused")
	}
	if g.Step(frameWith(core.ActionLeft)).Moved {
		t.Error("move applied while paused")
	}
	g.Step(frameWith(core.ActionPause))
	if !g.Step(frameWith(core.ActionLeft)).Moved {
		t.Error("move not applied after unpausing")
	}
}

type cyclePilot struct{ n int }

func (p *cyclePilot) NextMove(*Board) (Direction, error) {
	d := Directions[p.n%len(Directions)]
	p.n++
	return d, nil
}

func TestPilotPlaysToGameOver(t *testing.T) {
	g := NewWithPilot("2048_test", "Test", &cyclePilot{}, 2)
	g.Reset(testConfig(5))

	for range 1_000_000 {
		if g.Step(core.NewInputFrame()).State.GameOver {
			break
		}
	}
	if !g.State().GameOver {
		t.Fatal("piloted game never ended")
	}
	if g.Board().HasMoves() {
		t.Error("game over declared while moves remain")
	}
	if g.Snapshot().Phase != PhaseGameOver {
		t.Errorf("phase = %s, want %s", g.Snapshot().Phase, PhaseGameOver)
	}
}

func TestStepReportsStateAfterMove(t *testing.T) {
	g := NewWithPilot("2048_test", "Test", &cyclePilot{}, 1)
	g.Reset(testConfig(7))

	for range 1_000_000 {
		res := g.Step(core.NewInputFrame())
		if res.State.Score != g.Board().Score() {
			t.Fatalf("step reported score %d, board has %d", res.State.Score, g.Board().Score())
		}
		if res.State.GameOver {
			if !res.Moved {
				t.Error("game over reported a tick after the final move")
			}
			return
		}
	}
	t.Fatal("piloted game never ended")
}

type failingPilot struct{}

var errPilot = errors.New("pilot broke")

func (failingPilot) NextMove(*Board) (Direction, error) { return 0, errPilot }

func TestPilotErrorStopsGame(t *testing.T) {
	g := NewWithPilot("2048_test", "Test", failingPilot{}, 1)
	g.Reset(testConfig(5))

	g.Step(core.NewInputFrame())
	if !g.State().GameOver || !errors.Is(g.PilotErr(), errPilot) {
		t.Errorf("state %+v err %v, want game over with pilot error", g.State(), g.PilotErr())
	}
	if g.Snapshot().Phase != PhasePilotFailed {
		t.Errorf("phase = %s", g.Snapshot().Phase)
	}
}

func TestRenderShowsTilesAndScore(t *testing.T) {
	g := New()
	g.Reset(testConfig(1))
	g.board = mustBoard(t, [Size][Size]int{{2048, 0, 0, 0}})

	s := core.NewScreen(80, 24)
	g.Render(s)
	out := s.String()

	for _, want := range []string{"2048", "Score: 0", "Max: 2048", "┌"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q", want)
		}
	}
}

func TestRenderTooSmall(t *testing.T) {
	g := New()
	g.Reset(core.RuntimeConfig{ScreenW: 20, ScreenH: 8, Seed: 1})

	if !g.State().Paused {
		t.Error("tiny screen should pause the game")
	}
	s := core.NewScreen(20, 8)
	g.Render(s)
	if !strings.Contains(s.String(), "Window too small") {
		t.Error("missing too-small message")
	}
}

func TestResizeKeepsBoard(t *testing.T) {
	g := New()
	g.Reset(testConfig(5))
	before := g.Board().Values()

	g.Resize(20, 8)
	if !g.State().Paused {
		t.Error("shrinking below the board should pause")
	}
	g.Resize(80, 24)
	if g.State().Paused {
		t.Error("growing back should unpause")
	}
	if g.Board().Values() != before {
		t.Error("resize changed the board")
	}
	if g.State().MaxTile == 0 {
		t.Error("MaxTile not reported")
	}
}
