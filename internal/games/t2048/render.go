package t2048

import (
	"fmt"
	"strconv"

	"github.com/vovakirdan/tui-2048/internal/core"
)

const (
	cellWidth   = 8 // including the left border
	cellHeight  = 2 // including the top border
	boardWidth  = Size*cellWidth + 1
	boardHeight = Size*cellHeight + 1
	hudHeight   = 3
)

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		dst.DrawTextCentered(g.screenH/2, "Window too small")
		dst.DrawTextCentered(g.screenH/2+1, "Please resize terminal")
		return
	}

	boardX := (g.screenW - boardWidth) / 2
	boardY := hudHeight + 1

	g.renderHUD(dst, boardX)
	g.renderBoard(dst, boardX, boardY)
	g.renderOverlays(dst, boardX+boardWidth/2, boardY+boardHeight/2)
}

func (g *Game) renderHUD(dst *core.Screen, boardX int) {
	title := g.title
	dst.DrawTextColored(boardX+(boardWidth-len(title))/2, 0, title, core.ColorBrightYellow)

	dst.DrawText(boardX, 1, fmt.Sprintf("Score: %d", g.board.Score()))
	info := fmt.Sprintf("Max: %d", g.board.MaxTile())
	dst.DrawText(boardX+boardWidth-len(info), 1, info)

	status := fmt.Sprintf("Moves: %d", g.moves)
	if g.lastOK {
		status += "  Last: " + g.lastMove.String()
	}
	dst.DrawTextColored(boardX, 2, status, core.ColorGray)
}

func (g *Game) renderBoard(dst *core.Screen, boardX, boardY int) {
	for y := range Size + 1 {
		for x := range Size + 1 {
			px := boardX + x*cellWidth
			py := boardY + y*cellHeight
			dst.Set(px, py, junction(x, y))

			if x < Size {
				for i := 1; i < cellWidth; i++ {
					dst.Set(px+i, py, '─')
				}
			}
			if y < Size {
				for i := 1; i < cellHeight; i++ {
					dst.Set(px, py+i, '│')
				}
			}
		}
	}

	for r := range Size {
		for c := range Size {
			v, ok := g.board.CellAt(r, c)
			if !ok {
				continue
			}
			text := strconv.Itoa(v)
			pad := max((cellWidth-1-len(text))/2, 0)
			dst.DrawTextColored(boardX+c*cellWidth+1+pad, boardY+r*cellHeight+1, text,
				core.TileColor(g.board.Exponent(r, c)))
		}
	}
}

func junction(x, y int) rune {
	switch {
	case y == 0 && x == 0:
		return '┌'
	case y == 0 && x == Size:
		return '┐'
	case y == Size && x == 0:
		return '└'
	case y == Size && x == Size:
		return '┘'
	case y == 0:
		return '┬'
	case y == Size:
		return '┴'
	case x == 0:
		return '├'
	case x == Size:
		return '┤'
	default:
		return '┼'
	}
}

func (g *Game) renderOverlays(dst *core.Screen, centerX, centerY int) {
	switch {
	case g.paused:
		drawOverlay(dst, centerX, centerY, "PAUSED", "Press P to resume")
	case g.pilotErr != nil:
		drawOverlay(dst, centerX, centerY, "AUTOPILOT STOPPED", g.pilotErr.Error(), "Press R to restart")
	case g.gameOver:
		drawOverlay(dst, centerX, centerY, "GAME OVER",
			fmt.Sprintf("Max tile: %d", g.board.MaxTile()), "Press R to restart")
	}
}

func drawOverlay(dst *core.Screen, centerX, centerY int, lines ...string) {
	width := 0
	for _, line := range lines {
		width = max(width, len(line))
	}

	box := core.NewRect(centerX-(width+4)/2, centerY-(len(lines)+2)/2, width+4, len(lines)+2)
	dst.DrawRect(box, ' ')
	dst.DrawBox(box)
	for i, line := range lines {
		dst.DrawTextColored(centerX-len(line)/2, box.Y+1+i, line, core.ColorBrightWhite)
	}
}

// Controls returns the control hints for the game.
func (g *Game) Controls() string {
	if g.pilot != nil {
		return "P: Pause | R: Restart | Q: Quit"
	}
	return "Arrows/WASD: Move | P: Pause | R: Restart | Q: Quit"
}
