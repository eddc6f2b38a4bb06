package invoice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StatusIssued, StatusPaid))
	assert.True(t, CanTransition(StatusIssued, StatusVoided))
	assert.False(t, CanTransition(StatusPaid, StatusVoided))
	assert.False(t, CanTransition(StatusVoided, StatusIssued))
	assert.False(t, CanTransition(StatusPaid, StatusIssued))
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("Pagada")
	assert.NoError(t, err)
	assert.Equal(t, StatusPaid, s)

	_, err = ParseStatus("PAGADA")
	assert.Error(t, err)
}
