package repository

import (
	"testing"
	"time"

	"github.com/shenikar/civic_issue_tracker/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestTrendBucket(t *testing.T) {
	assert.Equal(t,
		"to_char(date_trunc('day', created_at AT TIME ZONE 'UTC'), 'YYYY-MM-DD')",
		trendBucket(models.GranularityDay))
	assert.Equal(t,
		"to_char(date_trunc('week', created_at AT TIME ZONE 'UTC'), 'YYYY-MM-DD')",
		trendBucket(models.GranularityWeek))
	assert.Equal(t,
		"to_char(date_trunc('month', created_at AT TIME ZONE 'UTC'), 'YYYY-MM')",
		trendBucket(models.GranularityMonth))
}

func TestBuildHeatmapWhere_Empty(t *testing.T) {
	where, args := buildHeatmapWhere(models.HeatmapFilter{})
	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestBuildHeatmapWhere_BoundsAndFilters(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	where, args := buildHeatmapWhere(models.HeatmapFilter{
		Bounds:   &models.GeoBounds{North: 13.1, South: 12.8, East: 77.8, West: 77.4},
		Category: models.CategoryGarbage,
		Status:   models.StatusSubmitted,
		From:     &from,
	})

	assert.Equal(t,
		" WHERE ST_Intersects(location::geometry, ST_MakeEnvelope($1, $2, $3, $4, 4326))"+
			" AND category = $5 AND status = $6 AND created_at >= $7",
		where)
	assert.Equal(t, []any{77.4, 12.8, 77.8, 13.1, models.CategoryGarbage, models.StatusSubmitted, from}, args)
}
