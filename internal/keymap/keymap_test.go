package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMap_Picker(t *testing.T) {
	r := For("picker")

	tests := []struct {
		key  string
		want Action
	}{
		{"k", ActionUp},
		{"down", ActionDown},
		{"G", ActionLast},
		{"enter", ActionSelect},
		{"s", ActionSkip},
		{"esc", ActionAbort},
		{"x", ""},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(tt.key))
		})
	}
}

func TestMap_ContextsDiffer(t *testing.T) {
	title := For("title")

	assert.Equal(t, ActionSkip, title.Resolve("esc"))
	assert.Equal(t, Action(""), title.Resolve("q"), "q is typed text in the title prompt")
}

func TestNewMap_LastBindingWins(t *testing.T) {
	m := NewMap([]Binding{
		{ActionSkip, []string{"esc"}, "Skip", "a"},
		{ActionAbort, []string{"esc", "ctrl+c"}, "Abort", "a"},
	})

	assert.Equal(t, ActionAbort, m.Resolve("esc"))
	assert.Equal(t, ActionAbort, m.Resolve("ctrl+c"))
}

func TestHelp(t *testing.T) {
	got := Help(ByContext("picker"), ActionSelect, ActionSkip, ActionAbort)
	assert.Equal(t, "[enter] Select   [s] Skip   [q/esc/ctrl+c] Abort run", got)
}
