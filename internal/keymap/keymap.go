// Package keymap defines the key bindings of the interactive prompts.
package keymap

import "strings"

// Action represents an operator action in a prompt.
type Action string

const (
	ActionUp     Action = "up"
	ActionDown   Action = "down"
	ActionFirst  Action = "first"
	ActionLast   Action = "last"
	ActionSelect Action = "select"
	ActionSkip   Action = "skip"
	ActionAbort  Action = "abort"
)

// Binding maps keys to an action within a context.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string // "picker", "title"
}

// All contains every prompt binding.
var All = []Binding{
	{ActionUp, []string{"up", "k"}, "Move up", "picker"},
	{ActionDown, []string{"down", "j"}, "Move down", "picker"},
	{ActionFirst, []string{"home", "g"}, "First candidate", "picker"},
	{ActionLast, []string{"end", "G"}, "Last candidate", "picker"},
	{ActionSelect, []string{"enter"}, "Select", "picker"},
	{ActionSkip, []string{"s"}, "Skip", "picker"},
	{ActionAbort, []string{"q", "esc", "ctrl+c"}, "Abort run", "picker"},

	{ActionSelect, []string{"enter"}, "Search", "title"},
	{ActionSkip, []string{"esc"}, "Skip", "title"},
	{ActionAbort, []string{"ctrl+c"}, "Abort run", "title"},
}

// ByContext returns the bindings of one context.
func ByContext(context string) []Binding {
	var result []Binding
	for _, b := range All {
		if b.Context == context {
			result = append(result, b)
		}
	}
	return result
}

// Map resolves pressed keys to actions.
type Map map[string]Action

// NewMap indexes bindings by key. A key bound twice resolves to its last
// binding.
func NewMap(bindings []Binding) Map {
	m := make(Map)
	for _, b := range bindings {
		for _, key := range b.Keys {
			m[key] = b.Action
		}
	}
	return m
}

// For returns the map of one context.
func For(context string) Map {
	return NewMap(ByContext(context))
}

// Resolve returns the action for a key, or empty string if not bound.
func (m Map) Resolve(key string) Action {
	return m[key]
}

// Help renders the bindings of the given actions as "[keys] Description"
// hints, in the order given.
func Help(bindings []Binding, actions ...Action) string {
	hints := make([]string, 0, len(actions))
	for _, a := range actions {
		for _, b := range bindings {
			if b.Action == a {
				hints = append(hints, "["+strings.Join(b.Keys, "/")+"] "+b.Description)
				break
			}
		}
	}
	return strings.Join(hints, "   ")
}
