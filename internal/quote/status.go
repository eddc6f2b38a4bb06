package quote

import "fmt"

// Status values are wire-visible and must be preserved verbatim.
type Status string

const (
	StatusPending   Status = "Pendiente"
	StatusInProcess Status = "EnProceso"
	StatusApproved  Status = "Aprobada"
	StatusRejected  Status = "Rechazada"
	StatusFinished  Status = "Finalizada"
	StatusCancelled Status = "Cancelada"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusInProcess, StatusApproved, StatusRejected, StatusFinished, StatusCancelled:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown status: %s", s)
	}
}

// CanDecide reports whether an approve/reject action is legal from s.
// The decision is one-shot: every other status is terminal for it.
func CanDecide(s Status) bool {
	return s == StatusPending || s == StatusInProcess
}

var allowedTransitions = map[Status][]Status{
	StatusPending:   {StatusInProcess, StatusApproved, StatusRejected, StatusCancelled},
	StatusInProcess: {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved:  {StatusFinished, StatusCancelled},
	StatusRejected:  {},
	StatusFinished:  {},
	StatusCancelled: {},
}

// CanTransition covers the administrative status updates. Client decisions
// go through CanDecide instead.
func CanTransition(from, to Status) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Action is the client-facing decision on a quote.
type Action string

const (
	ActionApprove Action = "APROBAR"
	ActionReject  Action = "RECHAZAR"
)

func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionApprove, ActionReject:
		return Action(s), nil
	default:
		return "", fmt.Errorf("unknown action: %s", s)
	}
}
