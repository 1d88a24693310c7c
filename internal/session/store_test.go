package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeJanitor struct {
	removed []string
}

func (f *fakeJanitor) Remove(path string) error {
	f.removed = append(f.removed, path)
	return nil
}

func TestBeginRejectsSecondSession(t *testing.T) {
	s := NewStore(nil)

	sess, err := s.Begin(1, KindAppointment)
	require.NoError(t, err)
	assert.Equal(t, StepCollectingName, sess.Step)

	_, err = s.Begin(1, KindScheduleFill)
	require.ErrorIs(t, err, ErrActive)

	// The original session is untouched.
	got, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, KindAppointment, got.Kind)
	assert.Equal(t, StepCollectingName, got.Step)
}

func TestAdvanceFollowsTransitionTable(t *testing.T) {
	s := NewStore(nil)
	_, err := s.Begin(7, KindAppointment)
	require.NoError(t, err)

	require.NoError(t, s.Advance(7, StepCollectingPhone, func(f *Fields) { f.Name = "Anna" }))
	require.NoError(t, s.Advance(7, StepCollectingDescription, func(f *Fields) { f.Phone = "+1" }))

	// Jumping ahead is rejected and leaves the session untouched.
	err = s.Advance(7, StepSelectingTime, nil)
	require.Error(t, err)
	got, ok := s.Get(7)
	require.True(t, ok)
	assert.Equal(t, StepCollectingDescription, got.Step)
	assert.Equal(t, "Anna", got.Fields.Name)
	assert.Equal(t, "+1", got.Fields.Phone)
}

func TestAdvanceAllowsReenteringSameStep(t *testing.T) {
	s := NewStore(nil)
	_, err := s.Begin(7, KindAppointment)
	require.NoError(t, err)

	require.NoError(t, s.Advance(7, StepCollectingName, nil))
}

func TestTimeSelectionCanReturnToDates(t *testing.T) {
	s := NewStore(nil)
	_, err := s.Begin(7, KindAppointment)
	require.NoError(t, err)

	require.NoError(t, s.Advance(7, StepCollectingPhone, nil))
	require.NoError(t, s.Advance(7, StepCollectingDescription, nil))
	require.NoError(t, s.Advance(7, StepOfferingPhoto, nil))
	require.NoError(t, s.Advance(7, StepSelectingDate, nil))
	require.NoError(t, s.Advance(7, StepSelectingTime, nil))
	require.NoError(t, s.Advance(7, StepSelectingDate, nil))
}

func TestAdvanceWithoutSession(t *testing.T) {
	s := NewStore(nil)
	require.ErrorIs(t, s.Advance(99, StepCollectingPhone, nil), ErrNoSession)
}

func TestEndRemovesOrphanedPhoto(t *testing.T) {
	j := &fakeJanitor{}
	s := NewStore(j)

	_, err := s.Begin(5, KindAppointment)
	require.NoError(t, err)
	require.NoError(t, s.Advance(5, StepCollectingName, func(f *Fields) {
		f.PhotoPath = "photos/5_20260901_101500.jpg"
	}))

	s.End(5)
	assert.Equal(t, []string{"photos/5_20260901_101500.jpg"}, j.removed)
	assert.False(t, s.Active(5))
}

func TestCommitKeepsPhoto(t *testing.T) {
	j := &fakeJanitor{}
	s := NewStore(j)

	_, err := s.Begin(5, KindAppointment)
	require.NoError(t, err)
	require.NoError(t, s.Advance(5, StepCollectingName, func(f *Fields) {
		f.PhotoPath = "photos/5_20260901_101500.jpg"
	}))

	s.Commit(5)
	assert.Empty(t, j.removed)
	assert.False(t, s.Active(5))
}

func TestEndWithoutSessionIsNoop(t *testing.T) {
	j := &fakeJanitor{}
	s := NewStore(j)
	s.End(42)
	assert.Empty(t, j.removed)
}

func TestScheduleFillTransitions(t *testing.T) {
	s := NewStore(nil)
	sess, err := s.Begin(2, KindScheduleFill)
	require.NoError(t, err)
	assert.Equal(t, StepFillSelectingDate, sess.Step)

	require.NoError(t, s.Advance(2, StepFillSelectingStart, nil))
	require.NoError(t, s.Advance(2, StepFillSelectingEnd, nil))

	// The end step is terminal.
	require.Error(t, s.Advance(2, StepFillSelectingDate, nil))
}
