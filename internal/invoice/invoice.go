package invoice

import "fmt"

// Status values are wire-visible and must be preserved verbatim.
type Status string

const (
	StatusIssued Status = "Emitida"
	StatusPaid   Status = "Pagada"
	StatusVoided Status = "Anulada"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusIssued, StatusPaid, StatusVoided:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown status: %s", s)
	}
}

var allowedTransitions = map[Status][]Status{
	StatusIssued: {StatusPaid, StatusVoided},
	StatusPaid:   {},
	StatusVoided: {},
}

func CanTransition(from, to Status) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
