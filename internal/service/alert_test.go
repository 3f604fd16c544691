package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/civic_issue_tracker/internal/events"
	"github.com/shenikar/civic_issue_tracker/internal/models"
	"github.com/shenikar/civic_issue_tracker/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestAlertService(t *testing.T) (*alertService, *mocks.MockAlertRepository, *mocks.MockEventPublisher) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockAlertRepository(ctrl)
	publisher := mocks.NewMockEventPublisher(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	svc := NewAlertService(repo, publisher, logger).(*alertService)
	svc.now = func() time.Time { return fixedNow }
	return svc, repo, publisher
}

func validAlert() *models.Alert {
	return &models.Alert{
		Title:       "  Cyclone warning ",
		Description: "Stay indoors until further notice.",
		Type:        models.AlertCyclone,
		Severity:    models.SeverityCritical,
		Location:    models.AlertArea{Latitude: 13.08, Longitude: 80.27, City: "Chennai"},
		CreatedBy:   uuid.New(),
	}
}

func TestCreateAlert_Success(t *testing.T) {
	svc, repo, publisher := newTestAlertService(t)
	alert := validAlert()

	repo.EXPECT().Create(gomock.Any(), alert).Return(nil).Times(1)
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e events.Event) error {
			assert.Equal(t, events.AlertCreated, e.Name)
			assert.Equal(t, alert.CreatedBy, e.ActorID)
			require.NotNil(t, e.Alert)
			assert.Equal(t, alert.ID, e.Alert.ID)
			assert.Equal(t, models.DefaultAlertRadius, e.Alert.RadiusMeters)
			return nil
		}).Times(1)

	require.NoError(t, svc.CreateAlert(context.Background(), alert))
	assert.NotEqual(t, uuid.Nil, alert.ID)
	assert.Equal(t, "Cyclone warning", alert.Title)
	assert.Equal(t, models.DefaultAlertRadius, alert.Location.RadiusMeters)
	assert.Equal(t, models.DefaultAlertSource, alert.Source)
	assert.Equal(t, fixedNow, alert.StartTime)
	assert.True(t, alert.IsActive)
	assert.Equal(t, fixedNow, alert.CreatedAt)
}

func TestCreateAlert_KeepsExplicitWindow(t *testing.T) {
	svc, repo, publisher := newTestAlertService(t)
	alert := validAlert()
	start := fixedNow.Add(time.Hour)
	end := fixedNow.Add(6 * time.Hour)
	alert.StartTime = start
	alert.EndTime = &end
	alert.Location.RadiusMeters = 12000
	alert.Source = "IMD"

	repo.EXPECT().Create(gomock.Any(), alert).Return(nil).Times(1)
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	require.NoError(t, svc.CreateAlert(context.Background(), alert))
	assert.Equal(t, start, alert.StartTime)
	assert.Equal(t, 12000, alert.Location.RadiusMeters)
	assert.Equal(t, "IMD", alert.Source)
}

func TestCreateAlert_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(a *models.Alert)
	}{
		{"empty title", func(a *models.Alert) { a.Title = "   " }},
		{"empty description", func(a *models.Alert) { a.Description = "" }},
		{"unknown type", func(a *models.Alert) { a.Type = "tsunami" }},
		{"unknown severity", func(a *models.Alert) { a.Severity = "extreme" }},
		{"latitude out of range", func(a *models.Alert) { a.Location.Latitude = 91 }},
		{"longitude out of range", func(a *models.Alert) { a.Location.Longitude = -181 }},
		{"negative radius", func(a *models.Alert) { a.Location.RadiusMeters = -1 }},
		{"radius too large", func(a *models.Alert) { a.Location.RadiusMeters = maxAlertRadius + 1 }},
		{"end before start", func(a *models.Alert) {
			end := fixedNow.Add(-time.Minute)
			a.EndTime = &end
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, publisher := newTestAlertService(t)
			repo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
			publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)

			alert := validAlert()
			tt.mutate(alert)
			err := svc.CreateAlert(context.Background(), alert)
			assert.ErrorIs(t, err, models.ErrValidation)
		})
	}
}

func TestCreateAlert_RepositoryError(t *testing.T) {
	svc, repo, publisher := newTestAlertService(t)

	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(fmt.Errorf("insert: %w", models.ErrStorage)).Times(1)
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)

	err := svc.CreateAlert(context.Background(), validAlert())
	assert.ErrorIs(t, err, models.ErrStorage)
}

func TestCreateAlert_PublishErrorIsNotFatal(t *testing.T) {
	svc, repo, publisher := newTestAlertService(t)

	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("queue down")).Times(1)

	assert.NoError(t, svc.CreateAlert(context.Background(), validAlert()))
}

func TestListNear_DefaultsSearchRadius(t *testing.T) {
	svc, repo, _ := newTestAlertService(t)
	want := []*models.Alert{{ID: uuid.New()}}

	repo.EXPECT().ListActive(gomock.Any(), models.AlertFilter{
		Near: &models.GeoRadius{Latitude: 12.97, Longitude: 77.59, RadiusMeters: models.DefaultAlertSearchRadius},
		Type: models.AlertFlood,
	}).Return(want, nil).Times(1)

	got, err := svc.ListNear(context.Background(), models.AlertFilter{
		Near: &models.GeoRadius{Latitude: 12.97, Longitude: 77.59},
		Type: models.AlertFlood,
	})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestListNear_UnknownType(t *testing.T) {
	svc, repo, _ := newTestAlertService(t)
	repo.EXPECT().ListActive(gomock.Any(), gomock.Any()).Times(0)

	_, err := svc.ListNear(context.Background(), models.AlertFilter{Type: "meteor"})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func storedAlert() *models.Alert {
	return &models.Alert{
		ID:        uuid.New(),
		Title:     "Heatwave",
		Type:      models.AlertHeatwave,
		Severity:  models.SeverityMedium,
		Location:  models.AlertArea{Latitude: 28.61, Longitude: 77.2, RadiusMeters: 20000},
		StartTime: fixedNow.Add(-24 * time.Hour),
		IsActive:  true,
	}
}

func TestSetActive_DeactivateClosesWindow(t *testing.T) {
	svc, repo, publisher := newTestAlertService(t)
	alert := storedAlert()
	actor := uuid.New()

	repo.EXPECT().GetByID(gomock.Any(), alert.ID).Return(alert, nil).Times(1)
	repo.EXPECT().Update(gomock.Any(), alert).Return(nil).Times(1)
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e events.Event) error {
			assert.Equal(t, events.AlertStatusChanged, e.Name)
			assert.Equal(t, actor, e.ActorID)
			assert.False(t, e.Alert.IsActive)
			return nil
		}).Times(1)

	got, err := svc.SetActive(context.Background(), alert.ID, false, nil, actor)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	require.NotNil(t, got.EndTime)
	assert.Equal(t, fixedNow, *got.EndTime)
	assert.Equal(t, fixedNow, got.UpdatedAt)
}

func TestSetActive_ExplicitEndTime(t *testing.T) {
	svc, repo, publisher := newTestAlertService(t)
	alert := storedAlert()
	end := fixedNow.Add(48 * time.Hour)

	repo.EXPECT().GetByID(gomock.Any(), alert.ID).Return(alert, nil).Times(1)
	repo.EXPECT().Update(gomock.Any(), alert).Return(nil).Times(1)
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	got, err := svc.SetActive(context.Background(), alert.ID, true, &end, uuid.New())
	require.NoError(t, err)
	assert.True(t, got.IsActive)
	require.NotNil(t, got.EndTime)
	assert.Equal(t, end, *got.EndTime)
}

func TestSetActive_EndTimeBeforeStart(t *testing.T) {
	svc, repo, publisher := newTestAlertService(t)
	alert := storedAlert()
	end := alert.StartTime.Add(-time.Hour)

	repo.EXPECT().GetByID(gomock.Any(), alert.ID).Return(alert, nil).Times(1)
	repo.EXPECT().Update(gomock.Any(), gomock.Any()).Times(0)
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)

	_, err := svc.SetActive(context.Background(), alert.ID, false, &end, uuid.New())
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestSetActive_NotFound(t *testing.T) {
	svc, repo, publisher := newTestAlertService(t)
	id := uuid.New()

	repo.EXPECT().GetByID(gomock.Any(), id).Return(nil, fmt.Errorf("alert %s: %w", id, models.ErrNotFound)).Times(1)
	repo.EXPECT().Update(gomock.Any(), gomock.Any()).Times(0)
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)

	_, err := svc.SetActive(context.Background(), id, false, nil, uuid.New())
	assert.ErrorIs(t, err, models.ErrNotFound)
}
