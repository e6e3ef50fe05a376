// Package input turns raw key and cursor events into semantic actions and
// per-tick mouse deltas.
package input

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrUnknownAction is returned for actions missing from the key map
var ErrUnknownAction = errors.New("not a valid key action")

// KeyEvent is the kind of a raw key event
type KeyEvent int

const (
	KeyDown KeyEvent = iota
	KeyUp
	KeyRepeat // auto-repeat while a key is held
)

// EventSource delivers raw key events. The window implements it.
type EventSource interface {
	SetKeyHandler(handler func(key string, event KeyEvent))
}

type pressObserver struct {
	action Action
	fn     func()
}

// Subscription removes a press callback again
type Subscription struct {
	km  *KeyManager
	obs *pressObserver
}

// KeyManager tracks which actions are held and fires callbacks when an
// action is pressed. It starts listening to its source on first use.
type KeyManager struct {
	source    EventSource
	keyMap    KeyMap
	listening bool
	down      map[string]struct{}
	observers []*pressObserver
}

// NewKeyManager creates a manager for keyMap. source may be nil, in which case
// events must be fed through HandleKey.
func NewKeyManager(source EventSource, keyMap KeyMap) *KeyManager {
	if keyMap == nil {
		keyMap = DefaultKeyMap()
	}
	return &KeyManager{
		source: source,
		keyMap: keyMap.Clone(),
		down:   make(map[string]struct{}),
	}
}

// ensure installs the key handler once and validates action
func (km *KeyManager) ensure(action Action) error {
	if !km.listening {
		km.listening = true
		if km.source != nil {
			km.source.SetKeyHandler(km.HandleKey)
		}
	}
	if _, ok := km.keyMap[action]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}
	return nil
}

// Listening reports whether the manager has installed its key handler
func (km *KeyManager) Listening() bool {
	return km.listening
}

// IsActionPressed reports whether any key bound to action is currently down
func (km *KeyManager) IsActionPressed(action Action) (bool, error) {
	if err := km.ensure(action); err != nil {
		return false, err
	}
	return km.held(action), nil
}

// Held is IsActionPressed for callers that only use known actions.
// Unknown actions are never held.
func (km *KeyManager) Held(action Action) bool {
	held, err := km.IsActionPressed(action)
	return err == nil && held
}

// OnPressKey calls fn each time action goes from released to held
func (km *KeyManager) OnPressKey(action Action, fn func()) (Subscription, error) {
	if err := km.ensure(action); err != nil {
		return Subscription{}, err
	}
	obs := &pressObserver{action: action, fn: fn}
	km.observers = append(km.observers, obs)
	return Subscription{km: km, obs: obs}, nil
}

// Unsubscribe removes the callback. Calling it twice is harmless.
func (s Subscription) Unsubscribe() {
	if s.km == nil {
		return
	}
	for i, obs := range s.km.observers {
		if obs == s.obs {
			s.km.observers = append(s.km.observers[:i], s.km.observers[i+1:]...)
			return
		}
	}
}

// SetAction replaces the keys bound to action
func (km *KeyManager) SetAction(action Action, keys []string) error {
	if err := km.ensure(action); err != nil {
		return err
	}
	km.keyMap[action] = normalizeKeys(keys)
	return nil
}

// KeysFromAction returns the keys currently bound to action
func (km *KeyManager) KeysFromAction(action Action) ([]string, error) {
	if err := km.ensure(action); err != nil {
		return nil, err
	}
	return slices.Clone(km.keyMap[action]), nil
}

func (km *KeyManager) held(action Action) bool {
	for _, key := range km.keyMap[action] {
		if _, ok := km.down[key]; ok {
			return true
		}
	}
	return false
}

// HandleKey ingests a raw key event
func (km *KeyManager) HandleKey(key string, event KeyEvent) {
	key = strings.ToLower(key)

	switch event {
	case KeyUp:
		delete(km.down, key)
	case KeyDown:
		if _, already := km.down[key]; already {
			return
		}

		// Find actions this key newly activates before marking it down
		var pressed []Action
		for action, keys := range km.keyMap {
			if slices.Contains(keys, key) && !km.held(action) {
				pressed = append(pressed, action)
			}
		}
		km.down[key] = struct{}{}

		observers := slices.Clone(km.observers)
		for _, obs := range observers {
			if slices.Contains(pressed, obs.action) {
				obs.fn()
			}
		}
	case KeyRepeat:
		// Held state is unchanged and press callbacks are edge triggered
	}
}

// Release marks every key as up, e.g. when the window loses focus
func (km *KeyManager) Release() {
	clear(km.down)
}
