package task

import (
	"log"
	"time"

	"eventbooking/internal/fault"
	"eventbooking/internal/reservation"
	"eventbooking/pkg/config"
)

// ValidateSchedule checks a task's window against the clock and against the
// reservation's scheduled datetime.
//
// scheduledFor is free text. When it does not parse, the lenient policy logs
// and skips the window check; the strict policy rejects the task.
func ValidateSchedule(now, start, end time.Time, scheduledFor string, policy config.WindowPolicy) error {
	if start.Before(now) {
		return fault.Validation("task cannot start in the past")
	}
	if end.Before(start) {
		return fault.Validation("task cannot end before it starts")
	}

	eventAt, err := time.Parse(reservation.ScheduledForLayout, scheduledFor)
	if err != nil {
		if policy == config.WindowStrict {
			return fault.Validation("reservation has no parseable scheduled datetime")
		}
		log.Printf("[task/validate] skipping window check, unparseable scheduledFor %q", scheduledFor)
		return nil
	}

	// Tasks prepare the event; work scheduled to begin or run past the
	// event itself is a planning error.
	if start.After(eventAt) {
		return fault.Validation("task cannot start after the event")
	}
	if end.After(eventAt) {
		return fault.Validation("task cannot end after the event")
	}
	return nil
}
