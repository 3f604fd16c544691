package v1

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/civic_issue_tracker/internal/models"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func validCreateAlertRequest() CreateAlertRequest {
	return CreateAlertRequest{
		Title:       "Flood warning",
		Description: "River levels rising, move to higher ground.",
		Type:        "flood",
		Severity:    "high",
		Latitude:    floatPtr(9.93),
		Longitude:   floatPtr(76.26),
		City:        "Kochi",
	}
}

func TestCreateAlert_Success(t *testing.T) {
	_, deps, router := newTestHandler(t)
	officialID, headers := bearer(t, deps, models.RoleGovernment)

	deps.alerts.EXPECT().
		CreateAlert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, a *models.Alert) error {
			assert.Equal(t, officialID, a.CreatedBy)
			assert.Equal(t, models.AlertFlood, a.Type)
			assert.Equal(t, models.SeverityHigh, a.Severity)
			assert.Equal(t, 9.93, a.Location.Latitude)
			a.ID = uuid.New()
			a.Location.RadiusMeters = models.DefaultAlertRadius
			a.IsActive = true
			return nil
		}).Times(1)

	w := makeRequest(router, http.MethodPost, "/api/v1/alerts", jsonBody(t, validCreateAlertRequest()), headers)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"radius_meters":5000`)
	assert.Contains(t, w.Body.String(), `"is_active":true`)
}

func TestCreateAlert_RequiresGovernment(t *testing.T) {
	_, deps, router := newTestHandler(t)
	_, headers := bearer(t, deps, models.RoleCitizen)
	deps.alerts.EXPECT().CreateAlert(gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, http.MethodPost, "/api/v1/alerts", jsonBody(t, validCreateAlertRequest()), headers)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = makeRequest(router, http.MethodPost, "/api/v1/alerts", jsonBody(t, validCreateAlertRequest()))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateAlert_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *CreateAlertRequest)
	}{
		{"unknown type", func(r *CreateAlertRequest) { r.Type = "tsunami" }},
		{"unknown severity", func(r *CreateAlertRequest) { r.Severity = "extreme" }},
		{"missing latitude", func(r *CreateAlertRequest) { r.Latitude = nil }},
		{"radius too large", func(r *CreateAlertRequest) { r.RadiusMeters = 600000 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, deps, router := newTestHandler(t)
			_, headers := bearer(t, deps, models.RoleGovernment)
			deps.alerts.EXPECT().CreateAlert(gomock.Any(), gomock.Any()).Times(0)

			body := validCreateAlertRequest()
			tt.mutate(&body)
			w := makeRequest(router, http.MethodPost, "/api/v1/alerts", jsonBody(t, body), headers)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestCreateAlert_AcceptsEquatorCoordinates(t *testing.T) {
	_, deps, router := newTestHandler(t)
	_, headers := bearer(t, deps, models.RoleGovernment)

	deps.alerts.EXPECT().
		CreateAlert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, a *models.Alert) error {
			assert.Equal(t, 0.0, a.Location.Latitude)
			return nil
		}).Times(1)

	body := validCreateAlertRequest()
	body.Latitude = floatPtr(0)
	w := makeRequest(router, http.MethodPost, "/api/v1/alerts", jsonBody(t, body), headers)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestListAlerts(t *testing.T) {
	_, deps, router := newTestHandler(t)
	_, headers := bearer(t, deps, models.RoleCitizen)

	t.Run("near point with type", func(t *testing.T) {
		deps.alerts.EXPECT().
			ListNear(gomock.Any(), models.AlertFilter{
				Near: &models.GeoRadius{Latitude: 12.97, Longitude: 77.59, RadiusMeters: 20000},
				Type: models.AlertHeatwave,
			}).
			Return([]*models.Alert{{ID: uuid.New(), Title: "Heatwave", Type: models.AlertHeatwave, Severity: models.SeverityMedium, IsActive: true}}, nil).
			Times(1)

		w := makeRequest(router, http.MethodGet, "/api/v1/alerts?lat=12.97&lng=77.59&radius=20000&type=heatwave", nil, headers)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"title":"Heatwave"`)
	})

	t.Run("all active", func(t *testing.T) {
		deps.alerts.EXPECT().ListNear(gomock.Any(), models.AlertFilter{}).Return([]*models.Alert{}, nil).Times(1)

		w := makeRequest(router, http.MethodGet, "/api/v1/alerts", nil, headers)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("lat without lng", func(t *testing.T) {
		w := makeRequest(router, http.MethodGet, "/api/v1/alerts?lat=12.97", nil, headers)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("requires authentication", func(t *testing.T) {
		w := makeRequest(router, http.MethodGet, "/api/v1/alerts", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestUpdateAlertStatus(t *testing.T) {
	_, deps, router := newTestHandler(t)
	officialID, govHeaders := bearer(t, deps, models.RoleGovernment)
	_, citizenHeaders := bearer(t, deps, models.RoleCitizen)
	alertID := uuid.New()

	t.Run("deactivate", func(t *testing.T) {
		closedAt := time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)
		deps.alerts.EXPECT().
			SetActive(gomock.Any(), alertID, false, (*time.Time)(nil), officialID).
			Return(&models.Alert{ID: alertID, IsActive: false, EndTime: &closedAt}, nil).
			Times(1)

		w := makeRequest(router, http.MethodPut, "/api/v1/alerts/"+alertID.String()+"/status",
			jsonBody(t, map[string]any{"is_active": false}), govHeaders)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"is_active":false`)
		assert.Contains(t, w.Body.String(), `"end_time":"2024-06-01T18:00:00Z"`)
	})

	t.Run("is_active is required", func(t *testing.T) {
		w := makeRequest(router, http.MethodPut, "/api/v1/alerts/"+alertID.String()+"/status",
			jsonBody(t, map[string]any{}), govHeaders)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		w := makeRequest(router, http.MethodPut, "/api/v1/alerts/not-a-uuid/status",
			jsonBody(t, map[string]any{"is_active": true}), govHeaders)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "invalid alert ID")
	})

	t.Run("not found", func(t *testing.T) {
		missing := uuid.New()
		deps.alerts.EXPECT().
			SetActive(gomock.Any(), missing, true, gomock.Any(), officialID).
			Return(nil, fmt.Errorf("service: could not update alert: %w", models.ErrNotFound)).
			Times(1)

		w := makeRequest(router, http.MethodPut, "/api/v1/alerts/"+missing.String()+"/status",
			jsonBody(t, map[string]any{"is_active": true}), govHeaders)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("government only", func(t *testing.T) {
		w := makeRequest(router, http.MethodPut, "/api/v1/alerts/"+alertID.String()+"/status",
			jsonBody(t, map[string]any{"is_active": false}), citizenHeaders)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
