package mongodb

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/civic_issue_tracker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestAlertFilterQuery_NearUsesMaxDistance(t *testing.T) {
	query := alertFilterQuery(models.AlertFilter{
		Type: models.AlertEarthquake,
		Near: &models.GeoRadius{Latitude: 28.61, Longitude: 77.2, RadiusMeters: 50000},
	})

	assert.Equal(t, true, query["isActive"])
	assert.Equal(t, models.AlertEarthquake, query["type"])
	near := query["location"].(bson.M)["$near"].(bson.M)
	assert.Equal(t, 50000.0, near["$maxDistance"])
	assert.Equal(t, bson.A{77.2, 28.61}, near["$geometry"].(bson.M)["coordinates"])
}

func TestAlertFilterQuery_WithoutPoint(t *testing.T) {
	query := alertFilterQuery(models.AlertFilter{})
	assert.Equal(t, bson.M{"isActive": true}, query)
}

func TestAlertDocument_StoresSeverityRankAndGeoJSON(t *testing.T) {
	end := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)
	alert := &models.Alert{
		ID:        uuid.New(),
		Title:     "Heavy rain",
		Type:      models.AlertHeavyRain,
		Severity:  models.SeverityHigh,
		Location:  models.AlertArea{Latitude: 19.07, Longitude: 72.87, RadiusMeters: 8000},
		StartTime: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		EndTime:   &end,
		IsActive:  true,
		CreatedBy: uuid.New(),
	}

	doc := toAlertDocument(alert)
	assert.Equal(t, 3, doc.SeverityRank)
	assert.Equal(t, []float64{72.87, 19.07}, doc.Location.Coordinates)

	back, err := doc.toModel()
	require.NoError(t, err)
	assert.Equal(t, alert.Location, back.Location)
	assert.Equal(t, alert.CreatedBy, back.CreatedBy)
	require.NotNil(t, back.EndTime)
	assert.Equal(t, end, *back.EndTime)
}
