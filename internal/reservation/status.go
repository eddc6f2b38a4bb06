package reservation

import (
	"fmt"

	"eventbooking/internal/fault"
)

// Status values are wire-visible and must be preserved verbatim.
type Status string

const (
	StatusPlanning   Status = "EN_PLANEACION"
	StatusScheduled  Status = "PROGRAMADA"
	StatusInProgress Status = "ENCURSO"
	StatusFinished   Status = "FINALIZADA"
	StatusCancelled  Status = "CANCELADA"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPlanning, StatusScheduled, StatusInProgress, StatusFinished, StatusCancelled:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown status: %s", s)
	}
}

var allowedTransitions = map[Status]map[Status]bool{
	StatusPlanning:   {StatusScheduled: true, StatusCancelled: true},
	StatusScheduled:  {StatusInProgress: true, StatusCancelled: true},
	StatusInProgress: {StatusFinished: true, StatusCancelled: true},
	StatusFinished:   {},
	StatusCancelled:  {},
}

func CanTransition(from, to Status) bool {
	m, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return m[to]
}

func IsTerminal(s Status) bool {
	return s == StatusFinished || s == StatusCancelled
}

// CanPublish gates the move from planning to PROGRAMADA: the reservation must
// still be in planning and carry at least one task.
func CanPublish(s Status, taskCount int) error {
	if s != StatusPlanning {
		return fault.PreconditionFailed("reservation must be EN_PLANEACION to be published")
	}
	if taskCount == 0 {
		return fault.PreconditionFailed("reservation needs at least one task before publishing")
	}
	return nil
}
