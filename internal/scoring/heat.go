package scoring

import (
	"math"

	"github.com/shenikar/civic_issue_tracker/internal/models"
)

const minHeatIntensity = 0.5

// HeatIntensity вес заявки на тепловой карте: уровень приоритета, плюс до 3 за голоса
// (1 за каждые 5), плюс поправка на статус. Не меньше 0.5.
func HeatIntensity(priority models.Priority, votes int, status models.IssueStatus) float64 {
	intensity := float64(max(priority.Level(), 1))
	intensity += math.Min(float64(votes)/5, 3)

	switch status {
	case models.StatusSubmitted:
		intensity += 1
	case models.StatusInProgress:
		intensity += 0.5
	case models.StatusResolved:
		intensity -= 1
	}
	return math.Max(intensity, minHeatIntensity)
}
