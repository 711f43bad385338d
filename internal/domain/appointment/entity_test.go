package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laborguard/complaint-service/internal/domain/complaint"
	"github.com/laborguard/complaint-service/internal/domain/registry"
	"github.com/laborguard/complaint-service/pkg/errors"
	"github.com/laborguard/complaint-service/pkg/types/common"
)

var now = time.Date(2024, 3, 12, 10, 0, 0, 0, time.UTC)

func autoBooked() *Appointment {
	return NewAutoBooked("cmp-1", "worker-1", "officer-1",
		complaint.CategoryHarassment, registry.SpecializationHarassmentLaw,
		now.Add(24*time.Hour), now)
}

func TestNewAutoBooked(t *testing.T) {
	a := autoBooked()

	assert.Equal(t, StatusAutoBooked, a.Status)
	assert.Equal(t, MeetingOnline, a.MeetingType)
	assert.Equal(t, DefaultDurationMinutes, a.DurationMinutes)
	assert.Equal(t, "Auto-booked based on complaint category: harassment", a.Notes)
}

func TestConfirm(t *testing.T) {
	a := autoBooked()
	require.NoError(t, a.Confirm(now.Add(time.Hour)))
	assert.Equal(t, StatusConfirmed, a.Status)
	require.NotNil(t, a.ConfirmedAt)

	err := a.Confirm(now.Add(2 * time.Hour))
	assert.Equal(t, errors.ErrCodeInvalidState, errors.GetCode(err))
}

func TestMoveTo(t *testing.T) {
	a := autoBooked()
	original := a.ScheduledAt
	newDate := now.Add(72 * time.Hour)

	require.NoError(t, a.MoveTo(newDate, "admin-1", common.RoleAdmin, "officer unavailable", now))
	assert.Equal(t, newDate, a.ScheduledAt)
	require.Len(t, a.RescheduleHistory, 1)
	assert.Equal(t, original, a.RescheduleHistory[0].PreviousDate)
	assert.Equal(t, newDate, a.RescheduleHistory[0].NewDate)

	err := a.MoveTo(now.Add(-time.Hour), "admin-1", common.RoleAdmin, "", now)
	assert.Equal(t, errors.ErrCodeValidation, errors.GetCode(err))
}

func TestMoveTo_TerminalRejected(t *testing.T) {
	a := autoBooked()
	require.NoError(t, a.Cancel("no longer needed", now))

	err := a.MoveTo(now.Add(48*time.Hour), "admin-1", common.RoleAdmin, "", now)
	assert.Equal(t, errors.ErrCodeInvalidState, errors.GetCode(err))
}

func TestCancel_Idempotency(t *testing.T) {
	a := autoBooked()
	require.NoError(t, a.Cancel("duplicate filing", now))
	assert.Equal(t, StatusCancelled, a.Status)
	require.NotNil(t, a.CancelledAt)
	assert.Equal(t, "duplicate filing", a.CancellationReason)

	err := a.Cancel("again", now.Add(time.Hour))
	assert.Equal(t, errors.ErrCodeInvalidState, errors.GetCode(err))
}

func TestCancel_CompletedRejected(t *testing.T) {
	a := autoBooked()
	require.NoError(t, a.Complete(now))

	err := a.Cancel("too late", now)
	assert.Equal(t, errors.ErrCodeInvalidState, errors.GetCode(err))
}

func TestComplete_TerminalRejected(t *testing.T) {
	a := autoBooked()
	require.NoError(t, a.Complete(now))

	err := a.Complete(now)
	assert.Equal(t, errors.ErrCodeInvalidState, errors.GetCode(err))
}

func TestVisibleTo(t *testing.T) {
	a := autoBooked()
	assert.True(t, a.VisibleTo("worker-1", common.RoleWorker))
	assert.False(t, a.VisibleTo("worker-2", common.RoleWorker))
	assert.True(t, a.VisibleTo("officer-1", common.RoleLegalOfficer))
	assert.False(t, a.VisibleTo("officer-2", common.RoleLegalOfficer))
	assert.True(t, a.VisibleTo("anyone", common.RoleAdmin))
}
