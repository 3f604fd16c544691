package scoring

import (
	"testing"

	"github.com/shenikar/civic_issue_tracker/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestHeatIntensity(t *testing.T) {
	tests := []struct {
		name     string
		priority models.Priority
		votes    int
		status   models.IssueStatus
		expected float64
	}{
		{"fresh low issue", models.PriorityLow, 0, models.StatusSubmitted, 2},
		{"in progress medium with votes", models.PriorityMedium, 5, models.StatusInProgress, 3.5},
		{"vote bonus is capped", models.PriorityUrgent, 100, models.StatusSubmitted, 8},
		{"resolved low floors at minimum", models.PriorityLow, 0, models.StatusResolved, 0.5},
		{"rejected keeps base", models.PriorityHigh, 2, models.StatusRejected, 3.4},
		{"unknown priority counts as low", models.Priority("bogus"), 0, models.StatusRejected, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, HeatIntensity(tt.priority, tt.votes, tt.status), 1e-9)
		})
	}
}
