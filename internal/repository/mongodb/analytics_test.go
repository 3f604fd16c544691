package mongodb

import (
	"testing"

	"github.com/shenikar/civic_issue_tracker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestTrendBucket_MonthFormat(t *testing.T) {
	bucket := trendBucket(models.GranularityMonth)["$dateToString"].(bson.M)
	assert.Equal(t, "%Y-%m", bucket["format"])
	trunc := bucket["date"].(bson.M)["$dateTrunc"].(bson.M)
	assert.Equal(t, "month", trunc["unit"])

	day := trendBucket(models.GranularityDay)["$dateToString"].(bson.M)
	assert.Equal(t, "%Y-%m-%d", day["format"])
}

func TestFoldCategoryTrend(t *testing.T) {
	row := func(date string, c models.IssueCategory, n int64) categoryTrendRow {
		var r categoryTrendRow
		r.Key.Date, r.Key.Category, r.Count = date, c, n
		return r
	}
	points := foldCategoryTrend([]categoryTrendRow{
		row("2024-05-01", models.CategoryPothole, 3),
		row("2024-05-01", models.CategoryWater, 1),
		row("2024-05-02", models.CategoryGarbage, 2),
	})

	require.Len(t, points, 2)
	assert.Equal(t, "2024-05-01", points[0].Date)
	assert.Equal(t, []models.CategoryCount{
		{Category: models.CategoryPothole, Count: 3},
		{Category: models.CategoryWater, Count: 1},
	}, points[0].Categories)
	assert.Equal(t, "2024-05-02", points[1].Date)
	assert.Len(t, points[1].Categories, 1)
}

func TestHeatmapQuery_ClosedPolygon(t *testing.T) {
	query := heatmapQuery(models.HeatmapFilter{
		Bounds: &models.GeoBounds{North: 13.1, South: 12.8, East: 77.8, West: 77.4},
		Status: models.StatusInProgress,
	})

	assert.Equal(t, models.StatusInProgress, query["status"])
	geometry := query["location"].(bson.M)["$geoWithin"].(bson.M)["$geometry"].(bson.M)
	assert.Equal(t, "Polygon", geometry["type"])
	ring := geometry["coordinates"].(bson.A)[0].(bson.A)
	require.Len(t, ring, 5)
	assert.Equal(t, ring[0], ring[4])
	assert.Equal(t, bson.A{77.8, 13.1}, ring[2])
}
