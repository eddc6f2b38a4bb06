package quote

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusInProcess, true},
		{StatusPending, StatusCancelled, true},
		{StatusInProcess, StatusApproved, true},
		{StatusApproved, StatusFinished, true},
		{StatusApproved, StatusCancelled, true},
		{StatusApproved, StatusPending, false},
		{StatusRejected, StatusPending, false},
		{StatusFinished, StatusCancelled, false},
		{StatusCancelled, StatusInProcess, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, CanTransition(c.from, c.to), "%s -> %s", c.from, c.to)
	}
}

func TestParseAction(t *testing.T) {
	a, err := ParseAction("APROBAR")
	assert.NoError(t, err)
	assert.Equal(t, ActionApprove, a)

	_, err = ParseAction("aprobar")
	assert.Error(t, err)
}
