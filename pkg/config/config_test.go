package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetThenGet(t *testing.T) {
	values := map[Field]any{
		FieldOfView:    float32(90),
		Shadows:        false,
		ShadowSoftness: float32(7.5),
		AntiAlias:      false,
		Gravity:        float32(-9.81),
	}
	for field, value := range values {
		s := New()
		require.NoError(t, s.Set(field, value), field)
		got, err := s.Get(field)
		require.NoError(t, err)
		assert.Equal(t, value, got, field)
	}
}

func TestConfigurationsIsLive(t *testing.T) {
	s := New()
	live := s.Configurations()
	require.NoError(t, s.Set(FieldOfView, 55))
	assert.Equal(t, float32(55), live.FieldOfView)

	live.Shadows = false
	got, _ := s.Get(Shadows)
	assert.Equal(t, false, got)
}

func TestObserverCalledOnce(t *testing.T) {
	s := New()
	var calls []any
	_, err := s.Observe(Gravity, func(v any) { calls = append(calls, v) })
	require.NoError(t, err)

	require.NoError(t, s.Set(Gravity, float32(-30)))
	require.NoError(t, s.Set(FieldOfView, float32(60)))

	assert.Equal(t, []any{float32(-30)}, calls)
}

func TestObserversRunInRegistrationOrder(t *testing.T) {
	s := New()
	var order []int
	for i := range 3 {
		_, err := s.ObserveBool(Shadows, func(bool) { order = append(order, i) })
		require.NoError(t, err)
	}
	require.NoError(t, s.Set(Shadows, false))
	assert.Equal(t, []int{0, 1, 2}, order)
}

func TestUnknownFieldLeavesConfigurationUnchanged(t *testing.T) {
	s := New()
	before := *s.Configurations()

	err := s.Set("unknownField", 1)
	require.ErrorIs(t, err, ErrUnknownField)
	assert.Equal(t, before, *s.Configurations())

	_, err = s.Observe("unknownField", func(any) {})
	assert.ErrorIs(t, err, ErrUnknownField)

	_, err = s.Get("unknownField")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestSetRejectsBadValues(t *testing.T) {
	s := New()
	before := *s.Configurations()

	assert.ErrorIs(t, s.Set(Shadows, 1), ErrInvalidValue)
	assert.ErrorIs(t, s.Set(Gravity, "down"), ErrInvalidValue)
	assert.ErrorIs(t, s.Set(ShadowSoftness, 11), ErrOutOfRange)
	assert.ErrorIs(t, s.Set(ShadowSoftness, -1), ErrOutOfRange)
	assert.ErrorIs(t, s.Set(FieldOfView, 0), ErrOutOfRange)
	assert.Equal(t, before, *s.Configurations())
}

func TestUnsubscribe(t *testing.T) {
	s := New()
	calls := 0
	sub, err := s.ObserveFloat(ShadowSoftness, func(float32) { calls++ })
	require.NoError(t, err)
	assert.Equal(t, 1, s.ObserverCount(ShadowSoftness))

	sub.Unsubscribe()
	sub.Unsubscribe()
	require.NoError(t, s.Set(ShadowSoftness, 4))

	assert.Zero(t, calls)
	assert.Zero(t, s.ObserverCount(ShadowSoftness))
}

func TestUnsubscribeDuringNotify(t *testing.T) {
	s := New()
	var second int
	var sub Subscription
	sub, _ = s.Observe(AntiAlias, func(any) { sub.Unsubscribe() })
	_, _ = s.Observe(AntiAlias, func(any) { second++ })

	require.NoError(t, s.Set(AntiAlias, false))
	require.NoError(t, s.Set(AntiAlias, true))

	assert.Equal(t, 2, second)
	assert.Equal(t, 1, s.ObserverCount(AntiAlias))
}

func TestLoad(t *testing.T) {
	s := New()
	var softness []float32
	_, _ = s.ObserveFloat(ShadowSoftness, func(v float32) { softness = append(softness, v) })

	doc := `
fieldOfView = 90
shadowSoftness = 5.5
antiAlias = false
`
	require.NoError(t, s.Load(strings.NewReader(doc)))

	c := s.Configurations()
	assert.Equal(t, float32(90), c.FieldOfView)
	assert.Equal(t, float32(5.5), c.ShadowSoftness)
	assert.False(t, c.AntiAlias)
	assert.True(t, c.Shadows)
	assert.Equal(t, []float32{5.5}, softness)
}

func TestLoadIsAllOrNothing(t *testing.T) {
	s := New()
	before := *s.Configurations()

	err := s.Load(strings.NewReader("fieldOfView = 90\nbloom = true\n"))
	require.ErrorIs(t, err, ErrUnknownField)
	assert.Equal(t, before, *s.Configurations())

	err = s.Load(strings.NewReader("fieldOfView = 90\nshadowSoftness = 20\n"))
	require.ErrorIs(t, err, ErrOutOfRange)
	assert.Equal(t, before, *s.Configurations())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	require.NoError(t, os.WriteFile(path, []byte("gravity = -50\n"), 0o644))

	s := New()
	require.NoError(t, s.LoadFile(path))
	assert.Equal(t, float32(-50), s.Configurations().Gravity)

	assert.Error(t, s.LoadFile(filepath.Join(t.TempDir(), "missing.toml")))
}
