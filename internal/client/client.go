package client

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

type PersonType string

const (
	PersonNatural  PersonType = "Natural"
	PersonJuridica PersonType = "Juridica"
)

func ParsePersonType(s string) (PersonType, error) {
	switch PersonType(s) {
	case PersonNatural, PersonJuridica:
		return PersonType(s), nil
	default:
		return "", fmt.Errorf("unknown person type: %s", s)
	}
}
