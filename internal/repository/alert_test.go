package repository

import (
	"testing"

	"github.com/shenikar/civic_issue_tracker/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestBuildAlertWhere_OnlyActive(t *testing.T) {
	where, args := buildAlertWhere(models.AlertFilter{})
	assert.Equal(t, " WHERE is_active", where)
	assert.Empty(t, args)
}

func TestBuildAlertWhere_TypeAndPoint(t *testing.T) {
	where, args := buildAlertWhere(models.AlertFilter{
		Type: models.AlertFlood,
		Near: &models.GeoRadius{Latitude: 12.97, Longitude: 77.59, RadiusMeters: 50000},
	})
	assert.Equal(t,
		" WHERE is_active AND type = $1 AND ST_DWithin(location, ST_SetSRID(ST_MakePoint($2, $3), 4326)::geography, $4)",
		where)
	assert.Equal(t, []any{models.AlertFlood, 77.59, 12.97, 50000.0}, args)
}
