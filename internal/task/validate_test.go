package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventbooking/internal/fault"
	"eventbooking/internal/reservation"
	"eventbooking/pkg/config"
)

func TestValidateScheduleRejectsPastStart(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	event := now.Add(48 * time.Hour).Format(reservation.ScheduledForLayout)

	err := ValidateSchedule(now, now.Add(-time.Hour), now.Add(time.Hour), event, config.WindowLenient)
	require.Error(t, err)
	assert.Equal(t, fault.KindValidation, fault.KindOf(err))
}

func TestValidateScheduleRejectsEndBeforeStart(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	event := now.Add(48 * time.Hour).Format(reservation.ScheduledForLayout)

	err := ValidateSchedule(now, now.Add(2*time.Hour), now.Add(time.Hour), event, config.WindowLenient)
	require.Error(t, err)
	assert.Equal(t, fault.KindValidation, fault.KindOf(err))
}

func TestValidateScheduleRejectsStartAfterEvent(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	event := now.Add(24 * time.Hour)

	err := ValidateSchedule(now, event.Add(time.Hour), event.Add(2*time.Hour),
		event.Format(reservation.ScheduledForLayout), config.WindowLenient)
	require.Error(t, err)
	assert.Equal(t, fault.KindValidation, fault.KindOf(err))
}

func TestValidateScheduleRejectsEndAfterEvent(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	event := now.Add(24 * time.Hour)

	// Starts before the event but runs past it.
	err := ValidateSchedule(now, event.Add(-time.Hour), event.Add(2*time.Hour),
		event.Format(reservation.ScheduledForLayout), config.WindowLenient)
	require.Error(t, err)
	assert.Equal(t, fault.KindValidation, fault.KindOf(err))
}

func TestValidateScheduleWindowPolicy(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	start := now.Add(time.Hour)
	end := now.Add(2 * time.Hour)

	// Lenient skips the window check when the scheduled datetime is junk.
	assert.NoError(t, ValidateSchedule(now, start, end, "mañana por la tarde", config.WindowLenient))

	err := ValidateSchedule(now, start, end, "mañana por la tarde", config.WindowStrict)
	require.Error(t, err)
	assert.Equal(t, fault.KindValidation, fault.KindOf(err))
}

func TestValidateScheduleAcceptsTaskBeforeEvent(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	event := now.Add(72 * time.Hour)

	err := ValidateSchedule(now, now.Add(time.Hour), now.Add(3*time.Hour),
		event.Format(reservation.ScheduledForLayout), config.WindowStrict)
	assert.NoError(t, err)
}
