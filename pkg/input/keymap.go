package input

import "strings"

// Action is a semantic input such as moving forward or jumping
type Action string

// Actions understood by the game
const (
	MoveForward  Action = "moveForward"
	MoveBackward Action = "moveBackward"
	MoveRight    Action = "moveRight"
	MoveLeft     Action = "moveLeft"
	Zoom         Action = "zoom"
	Sprint       Action = "sprint"
	Jump         Action = "jump"
	ToggleCamera Action = "toggleCamera"
)

// KeyMap binds each action to the physical keys that trigger it.
// Key names are lower case so shift+key does not need its own entry.
type KeyMap map[Action][]string

// DefaultKeyMap returns the stock bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		MoveForward:  {"w", "arrowup"},
		MoveBackward: {"s", "arrowdown"},
		MoveRight:    {"d", "arrowright"},
		MoveLeft:     {"a", "arrowleft"},
		Zoom:         {"z"},
		Sprint:       {"shift"},
		Jump:         {"space"},
		ToggleCamera: {"c"},
	}
}

// Clone returns a deep copy with every key lower-cased
func (m KeyMap) Clone() KeyMap {
	out := make(KeyMap, len(m))
	for action, keys := range m {
		out[action] = normalizeKeys(keys)
	}
	return out
}

func normalizeKeys(keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = strings.ToLower(k)
	}
	return out
}
