// Package config holds the game's mutable settings and notifies observers when
// a setting changes. A Store is created by the game core and passed to whoever
// needs it; there is no package level instance.
package config

import (
	"errors"
	"fmt"
	"math"
)

// Field names a single setting
type Field string

const (
	FieldOfView    Field = "fieldOfView"
	Shadows        Field = "shadows"
	ShadowSoftness Field = "shadowSoftness"
	AntiAlias      Field = "antiAlias"
	Gravity        Field = "gravity"
)

// Fields lists every declared setting in a stable order
var Fields = []Field{FieldOfView, Shadows, ShadowSoftness, AntiAlias, Gravity}

// Shadow softness bounds
const (
	MinShadowSoftness = 0
	MaxShadowSoftness = 10
)

var (
	// ErrUnknownField is returned for names that are not declared settings
	ErrUnknownField = errors.New("not a valid member of game config")
	// ErrInvalidValue is returned when a value has the wrong type for its field
	ErrInvalidValue = errors.New("invalid configuration value")
	// ErrOutOfRange is returned when a value is outside the field's range
	ErrOutOfRange = errors.New("configuration value out of range")
)

// Configuration is the full settings record
type Configuration struct {
	FieldOfView    float32 `toml:"fieldOfView"`
	Shadows        bool    `toml:"shadows"`
	ShadowSoftness float32 `toml:"shadowSoftness"` // range between 0 and 10
	AntiAlias      bool    `toml:"antiAlias"`
	Gravity        float32 `toml:"gravity"`
}

// Defaults returns the settings a fresh store starts with
func Defaults() Configuration {
	return Configuration{
		FieldOfView:    70,
		AntiAlias:      true,
		Shadows:        true,
		ShadowSoftness: 2,
		Gravity:        -125,
	}
}

type observer struct {
	field Field
	fn    func(any)
}

// Store owns the live configuration and its observers
type Store struct {
	configuration Configuration
	observers     []*observer
}

// Subscription is returned by Observe and removes the observer again
type Subscription struct {
	store *Store
	obs   *observer
}

// New creates a store holding the default configuration
func New() *Store {
	return &Store{configuration: Defaults()}
}

// Configurations returns the live configuration record. Callers share it with
// the store; it is not a copy.
func (s *Store) Configurations() *Configuration {
	return &s.configuration
}

// Valid reports whether name is a declared setting
func Valid(name Field) bool {
	for _, f := range Fields {
		if f == name {
			return true
		}
	}
	return false
}

func checkField(name Field) error {
	if !Valid(name) {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	return nil
}

// Get returns the current value of a setting
func (s *Store) Get(name Field) (any, error) {
	if err := checkField(name); err != nil {
		return nil, err
	}

	c := &s.configuration
	switch name {
	case FieldOfView:
		return c.FieldOfView, nil
	case Shadows:
		return c.Shadows, nil
	case ShadowSoftness:
		return c.ShadowSoftness, nil
	case AntiAlias:
		return c.AntiAlias, nil
	default:
		return c.Gravity, nil
	}
}

// Set assigns a setting and notifies the observers registered for it, in
// registration order. On error the configuration is left unchanged.
func (s *Store) Set(name Field, value any) error {
	if err := checkField(name); err != nil {
		return err
	}

	normalized, err := normalize(name, value)
	if err != nil {
		return err
	}
	s.assign(name, normalized)
	s.notify(name, normalized)
	return nil
}

// normalize converts value to the field's Go type and validates its range
func normalize(name Field, value any) (any, error) {
	switch name {
	case Shadows, AntiAlias:
		b, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: %s expects a bool, got %T", ErrInvalidValue, name, value)
		}
		return b, nil
	}

	f, ok := toFloat32(value)
	if !ok {
		return nil, fmt.Errorf("%w: %s expects a number, got %T", ErrInvalidValue, name, value)
	}
	if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
		return nil, fmt.Errorf("%w: %s must be finite", ErrOutOfRange, name)
	}
	switch name {
	case ShadowSoftness:
		if f < MinShadowSoftness || f > MaxShadowSoftness {
			return nil, fmt.Errorf("%w: %s must be within [%d, %d], got %v",
				ErrOutOfRange, name, MinShadowSoftness, MaxShadowSoftness, f)
		}
	case FieldOfView:
		if f <= 0 || f >= 180 {
			return nil, fmt.Errorf("%w: %s must be within (0, 180), got %v", ErrOutOfRange, name, f)
		}
	}
	return f, nil
}

func (s *Store) assign(name Field, value any) {
	c := &s.configuration
	switch name {
	case FieldOfView:
		c.FieldOfView = value.(float32)
	case Shadows:
		c.Shadows = value.(bool)
	case ShadowSoftness:
		c.ShadowSoftness = value.(float32)
	case AntiAlias:
		c.AntiAlias = value.(bool)
	case Gravity:
		c.Gravity = value.(float32)
	}
}

func (s *Store) notify(name Field, value any) {
	// Copy so observers may unsubscribe while being notified
	observers := make([]*observer, len(s.observers))
	copy(observers, s.observers)

	for _, obs := range observers {
		if obs.field != name {
			continue
		}
		obs.fn(value)
	}
}

// Observe registers fn to run whenever name changes
func (s *Store) Observe(name Field, fn func(value any)) (Subscription, error) {
	if err := checkField(name); err != nil {
		return Subscription{}, err
	}
	obs := &observer{field: name, fn: fn}
	s.observers = append(s.observers, obs)
	return Subscription{store: s, obs: obs}, nil
}

// ObserveFloat is Observe for numeric settings
func (s *Store) ObserveFloat(name Field, fn func(float32)) (Subscription, error) {
	return s.Observe(name, func(v any) {
		if f, ok := v.(float32); ok {
			fn(f)
		}
	})
}

// ObserveBool is Observe for boolean settings
func (s *Store) ObserveBool(name Field, fn func(bool)) (Subscription, error) {
	return s.Observe(name, func(v any) {
		if b, ok := v.(bool); ok {
			fn(b)
		}
	})
}

// Unsubscribe removes the observer. Calling it more than once is harmless.
func (sub Subscription) Unsubscribe() {
	if sub.store == nil {
		return
	}
	observers := sub.store.observers
	for i, obs := range observers {
		if obs == sub.obs {
			sub.store.observers = append(observers[:i], observers[i+1:]...)
			return
		}
	}
}

// ObserverCount returns how many observers are registered for name
func (s *Store) ObserverCount(name Field) int {
	n := 0
	for _, obs := range s.observers {
		if obs.field == name {
			n++
		}
	}
	return n
}

func toFloat32(v any) (float32, bool) {
	switch n := v.(type) {
	case float32:
		return n, true
	case float64:
		return float32(n), true
	case int:
		return float32(n), true
	case int32:
		return float32(n), true
	case int64:
		return float32(n), true
	case uint:
		return float32(n), true
	case uint32:
		return float32(n), true
	case uint64:
		return float32(n), true
	}
	return 0, false
}
