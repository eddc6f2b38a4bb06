package reservation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventbooking/internal/fault"
)

func TestCanPublish(t *testing.T) {
	assert.NoError(t, CanPublish(StatusPlanning, 1))
	assert.NoError(t, CanPublish(StatusPlanning, 3))

	err := CanPublish(StatusPlanning, 0)
	require.Error(t, err)
	assert.Equal(t, fault.KindPreconditionFailed, fault.KindOf(err))

	for _, s := range []Status{StatusScheduled, StatusInProgress, StatusFinished, StatusCancelled} {
		err := CanPublish(s, 2)
		require.Error(t, err, "publish from %s must fail", s)
		assert.Equal(t, fault.KindPreconditionFailed, fault.KindOf(err))
	}
}
