package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-2048/internal/config"
)

func pressAll(m AutopilotMenuModel, keys ...tea.KeyType) AutopilotMenuModel {
	for _, k := range keys {
		next, _ := m.Update(tea.KeyMsg{Type: k})
		m = next.(AutopilotMenuModel)
	}
	return m
}

func TestAutopilotMenuPreset(t *testing.T) {
	m := pressAll(NewAutopilotMenuModel(80, 24), tea.KeyDown, tea.KeyDown, tea.KeyEnter)

	sel := m.Selected()
	if sel == nil {
		t.Fatal("expected a selection")
	}
	if sel.Preset != config.DifficultyHard {
		t.Errorf("preset = %q, want hard", sel.Preset)
	}

	cfg := config.DefaultAgentConfig()
	sel.Apply(&cfg)
	if cfg.Search.MaxDepth != 5 || cfg.Search.Evaluator != "weighted" {
		t.Errorf("applied search config = %+v", cfg.Search)
	}
}

func TestAutopilotMenuEvaluator(t *testing.T) {
	m := NewAutopilotMenuModel(80, 24)
	for range config.Presets {
		m = pressAll(m, tea.KeyDown)
	}
	m = pressAll(m, tea.KeyEnter)
	if !m.inEvalSelect {
		t.Fatal("last row should open the evaluator list")
	}

	m = pressAll(m, tea.KeyDown, tea.KeyEnter)
	sel := m.Selected()
	if sel == nil {
		t.Fatal("expected a selection")
	}
	if sel.Evaluator != m.evaluators[1] || sel.Preset != config.DifficultyFixed {
		t.Errorf("selection = %+v", sel)
	}

	cfg := config.DefaultAgentConfig()
	sel.Apply(&cfg)
	if cfg.Search.Evaluator != sel.Evaluator || cfg.Search.MaxDepth != config.DefaultAgentConfig().Search.MaxDepth {
		t.Errorf("applied search config = %+v", cfg.Search)
	}
}

func TestAutopilotMenuBack(t *testing.T) {
	m := pressAll(NewAutopilotMenuModel(80, 24), tea.KeyDown, tea.KeyDown, tea.KeyDown, tea.KeyDown, tea.KeyEnter, tea.KeyEsc)
	if m.inEvalSelect || m.WantsBack() {
		t.Error("esc in the evaluator list should return to presets")
	}
	m = pressAll(m, tea.KeyEsc)
	if !m.WantsBack() || m.Selected() != nil {
		t.Error("esc on presets should back out without a selection")
	}
}
