package filter

import (
	"testing"

	"github.com/penwyp/go-saw-monitor/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionApplyAlwaysStartsFromOriginal(t *testing.T) {
	s := NewSession(dayTable())

	_, err := s.Apply(Criteria{Shift: ShiftNight})
	require.NoError(t, err)

	view, err := s.Apply(Criteria{Shift: ShiftMorning})
	require.NoError(t, err)
	assert.Equal(t, []string{"06:00:00", "09:15:00", "12:00:00"}, clocks(view))
	assert.Len(t, s.Applied(), 1)
}

func TestSessionRefineCompounds(t *testing.T) {
	s := NewSession(dayTable())

	_, err := s.Apply(Criteria{Shift: ShiftNight})
	require.NoError(t, err)
	view, err := s.Refine(Criteria{Wood: intPtr(1)})
	require.NoError(t, err)

	assert.Equal(t, []string{"05:00:00", "23:59:59"}, clocks(view))
	assert.Len(t, s.Applied(), 2)
}

func TestSessionInvalidFilterKeepsView(t *testing.T) {
	s := NewSession(dayTable())
	before, err := s.Apply(Criteria{Shift: ShiftAfternoon})
	require.NoError(t, err)

	view, err := s.Apply(Criteria{Wood: intPtr(5)})
	assert.ErrorIs(t, err, model.ErrInvalidFilter)
	assert.Same(t, before, view)
	assert.Same(t, before, s.View())

	_, err = s.Refine(Criteria{Wood: intPtr(-1)})
	assert.ErrorIs(t, err, model.ErrInvalidFilter)
	assert.Same(t, before, s.View())
}

func TestSessionReset(t *testing.T) {
	original := dayTable()
	s := NewSession(original)

	_, err := s.Apply(Criteria{Wood: intPtr(0)})
	require.NoError(t, err)
	assert.NotEqual(t, original.Len(), s.View().Len())

	view := s.Reset()
	assert.Same(t, original, view)
	assert.Same(t, original, s.Original())
	assert.Empty(t, s.Applied())
	assert.Equal(t, 8, original.Len())
}
