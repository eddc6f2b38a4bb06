package employee

import "fmt"

type Status string

const (
	StatusActive   Status = "Activo"
	StatusInactive Status = "Inactivo"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusActive, StatusInactive:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown status: %s", s)
	}
}

// ContractType distinguishes payroll employees from hourly contractors.
type ContractType string

const (
	ContractPermanent ContractType = "Permanente"
	ContractHourly    ContractType = "PorHoras"
)

func ParseContractType(s string) (ContractType, error) {
	switch ContractType(s) {
	case ContractPermanent, ContractHourly:
		return ContractType(s), nil
	default:
		return "", fmt.Errorf("unknown contract type: %s", s)
	}
}
