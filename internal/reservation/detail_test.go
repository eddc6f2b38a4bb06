package reservation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// description is nullable in the tasks table and scans into a plain string;
// dropping the COALESCE makes GET /reservations/{id} fail on any task created
// without one.
func TestDetailTasksQueryCoalescesNullableDescription(t *testing.T) {
	assert.Contains(t, detailTasksQuery, "COALESCE(t.description,'')")
	assert.NotContains(t, strings.ReplaceAll(detailTasksQuery, "COALESCE(t.description,'')", ""),
		"t.description")
}
