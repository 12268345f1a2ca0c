package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/search"
)

// AutopilotSelection is the strength chosen before watching the agent play.
type AutopilotSelection struct {
	Preset    config.DifficultyPreset
	Evaluator string // empty keeps the preset's evaluator
}

// Apply writes the selection into cfg.
func (s AutopilotSelection) Apply(cfg *config.AgentConfig) {
	config.ApplyPreset(cfg, s.Preset)
	if s.Evaluator != "" {
		cfg.Search.Evaluator = s.Evaluator
	}
}

// AutopilotMenuModel picks a difficulty preset, then optionally an evaluator.
type AutopilotMenuModel struct {
	cursor       int
	evalCursor   int
	inEvalSelect bool
	evaluators   []string
	width        int
	height       int
	keyMapper    *KeyMapper
	selection    AutopilotSelection
	choosing     bool
	quitting     bool
	back         bool
}

// NewAutopilotMenuModel creates the picker.
func NewAutopilotMenuModel(width, height int) AutopilotMenuModel {
	return AutopilotMenuModel{
		evaluators: search.EvaluatorNames(),
		width:      width,
		height:     height,
		keyMapper:  NewKeyMapper(),
		choosing:   true,
	}
}

// Init initializes the model.
func (m AutopilotMenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m AutopilotMenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		action := m.keyMapper.MapKeyToMenuAction(msg)
		if m.inEvalSelect {
			return m.handleEvalKey(action)
		}
		return m.handlePresetKey(action)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

// presetRows are the preset choices followed by "Choose evaluator...".
func presetRows() int { return len(config.Presets) + 1 }

func (m AutopilotMenuModel) handlePresetKey(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionBack:
		m.back = true
		return m, tea.Quit
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < presetRows()-1 {
			m.cursor++
		}
	case MenuActionSelect:
		if m.cursor == len(config.Presets) {
			m.inEvalSelect = true
			m.evalCursor = 0
			return m, nil
		}
		m.choosing = false
		m.selection = AutopilotSelection{Preset: config.Presets[m.cursor]}
		return m, tea.Quit
	}
	return m, nil
}

func (m AutopilotMenuModel) handleEvalKey(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionBack:
		m.inEvalSelect = false
	case MenuActionUp:
		if m.evalCursor > 0 {
			m.evalCursor--
		}
	case MenuActionDown:
		if m.evalCursor < len(m.evaluators)-1 {
			m.evalCursor++
		}
	case MenuActionSelect:
		m.choosing = false
		m.selection = AutopilotSelection{
			Preset:    config.DifficultyFixed,
			Evaluator: m.evaluators[m.evalCursor],
		}
		return m, tea.Quit
	}
	return m, nil
}

// View renders the current picker page.
func (m AutopilotMenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render("A U T O P I L O T"), m.width))
	b.WriteString("\n\n")

	if m.inEvalSelect {
		b.WriteString(centerText("Evaluator (configured depth):", m.width))
		b.WriteString("\n\n")
		for i, name := range m.evaluators {
			b.WriteString(centerText(cursorLine(i == m.evalCursor, name), m.width))
			b.WriteString("\n")
		}
	} else {
		b.WriteString(centerText("Strength:", m.width))
		b.WriteString("\n\n")
		for i, p := range config.Presets {
			var label string
			if d := config.DepthForPreset(p); d > 0 {
				label = fmt.Sprintf("%-7s depth %d", p, d)
			} else {
				label = fmt.Sprintf("%-7s from config", p)
			}
			b.WriteString(centerText(cursorLine(i == m.cursor, label), m.width))
			b.WriteString("\n")
		}
		b.WriteString(centerText(cursorLine(m.cursor == len(config.Presets), "Choose evaluator..."), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(menuHintStyle.Render("Enter: Select  |  Esc: Back  |  Q: Quit"), m.width))
	return b.String()
}

func cursorLine(active bool, text string) string {
	if active {
		return menuActiveStyle.Render("> " + text)
	}
	return "  " + text
}

// Selected returns the selection, or nil while still choosing.
func (m AutopilotMenuModel) Selected() *AutopilotSelection {
	if m.choosing {
		return nil
	}
	return &m.selection
}

// IsQuitting reports whether the user asked to quit.
func (m AutopilotMenuModel) IsQuitting() bool { return m.quitting }

// WantsBack reports whether the user backed out.
func (m AutopilotMenuModel) WantsBack() bool { return m.back }

// RunAutopilotMenu runs the picker. It returns nil when the user backs out
// or quits.
func RunAutopilotMenu(cfg core.RuntimeConfig) (*AutopilotSelection, error) {
	p := tea.NewProgram(NewAutopilotMenuModel(cfg.ScreenW, cfg.ScreenH), tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	m, ok := final.(AutopilotMenuModel)
	if !ok || m.IsQuitting() || m.WantsBack() {
		return nil, nil
	}
	return m.Selected(), nil
}
