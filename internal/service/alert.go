package service

//go:generate mockgen -source=alert.go -destination=mocks/alert_mock.go -package=mocks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/civic_issue_tracker/internal/events"
	"github.com/shenikar/civic_issue_tracker/internal/models"
	"github.com/sirupsen/logrus"
)

// maxAlertRadius ограничивает зону одного оповещения, метры
const maxAlertRadius = 500000

// AlertRepository контракт хранилища оповещений.
// ListActive возвращает только активные оповещения, самые серьезные первыми.
type AlertRepository interface {
	Create(ctx context.Context, alert *models.Alert) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Alert, error)
	Update(ctx context.Context, alert *models.Alert) error
	ListActive(ctx context.Context, filter models.AlertFilter) ([]*models.Alert, error)
}

type AlertService interface {
	CreateAlert(ctx context.Context, alert *models.Alert) error
	ListNear(ctx context.Context, filter models.AlertFilter) ([]*models.Alert, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool, endTime *time.Time, actorID uuid.UUID) (*models.Alert, error)
}

type alertService struct {
	repo      AlertRepository
	publisher EventPublisher
	logger    *logrus.Logger
	now       func() time.Time
}

func NewAlertService(repo AlertRepository, publisher EventPublisher, logger *logrus.Logger) AlertService {
	return &alertService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CreateAlert проверяет и сохраняет оповещение, затем публикует alert.created
func (s *alertService) CreateAlert(ctx context.Context, alert *models.Alert) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "alert",
		"method":  "CreateAlert",
		"actor":   alert.CreatedBy,
	})

	if err := validateNewAlert(alert); err != nil {
		log.WithError(err).Warn("Alert rejected by validation")
		return fmt.Errorf("service: could not create alert: %w", err)
	}

	now := s.now()
	alert.ID = uuid.New()
	alert.Title = strings.TrimSpace(alert.Title)
	alert.Description = strings.TrimSpace(alert.Description)
	if alert.Location.RadiusMeters == 0 {
		alert.Location.RadiusMeters = models.DefaultAlertRadius
	}
	if strings.TrimSpace(alert.Source) == "" {
		alert.Source = models.DefaultAlertSource
	}
	if alert.StartTime.IsZero() {
		alert.StartTime = now
	}
	if alert.EndTime != nil && !alert.EndTime.After(alert.StartTime) {
		return fmt.Errorf("service: could not create alert: %w: end time must be after start time", models.ErrValidation)
	}
	alert.IsActive = true
	alert.CreatedAt = now
	alert.UpdatedAt = now

	if err := s.repo.Create(ctx, alert); err != nil {
		log.WithError(err).Error("Failed to create alert in repository")
		return fmt.Errorf("service: could not create alert: %w", err)
	}
	log.WithFields(logrus.Fields{
		"alert_id": alert.ID,
		"severity": alert.Severity,
	}).Info("Alert created successfully")

	s.publish(ctx, events.NewAlertEvent(events.AlertCreated, alert, alert.CreatedBy, now))
	return nil
}

func validateNewAlert(alert *models.Alert) error {
	switch {
	case strings.TrimSpace(alert.Title) == "":
		return fmt.Errorf("%w: title is required", models.ErrValidation)
	case strings.TrimSpace(alert.Description) == "":
		return fmt.Errorf("%w: description is required", models.ErrValidation)
	case !alert.Type.Valid():
		return fmt.Errorf("%w: unknown alert type %q", models.ErrValidation, alert.Type)
	case !alert.Severity.Valid():
		return fmt.Errorf("%w: unknown severity %q", models.ErrValidation, alert.Severity)
	case alert.Location.Latitude < -90 || alert.Location.Latitude > 90,
		alert.Location.Longitude < -180 || alert.Location.Longitude > 180:
		return fmt.Errorf("%w: coordinates out of range", models.ErrValidation)
	case alert.Location.RadiusMeters < 0 || alert.Location.RadiusMeters > maxAlertRadius:
		return fmt.Errorf("%w: radius must be between 0 and %d meters", models.ErrValidation, maxAlertRadius)
	}
	return nil
}

// ListNear активные оповещения, опционально вокруг точки и по типу
func (s *alertService) ListNear(ctx context.Context, filter models.AlertFilter) ([]*models.Alert, error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, fmt.Errorf("service: could not list alerts: %w: unknown alert type %q", models.ErrValidation, filter.Type)
	}
	filter.Normalize()

	alerts, err := s.repo.ListActive(ctx, filter)
	if err != nil {
		s.logger.WithError(err).WithField("method", "ListNear").Error("Failed to list alerts")
		return nil, fmt.Errorf("service: could not list alerts: %w", err)
	}
	return alerts, nil
}

// SetActive включает или снимает оповещение. Снятое без явного endTime закрывается текущим временем.
func (s *alertService) SetActive(ctx context.Context, id uuid.UUID, active bool, endTime *time.Time, actorID uuid.UUID) (*models.Alert, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "alert",
		"method":   "SetActive",
		"alert_id": id,
		"active":   active,
	})

	alert, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to load alert")
		return nil, fmt.Errorf("service: could not update alert: %w", err)
	}

	now := s.now()
	switch {
	case endTime != nil:
		if !endTime.After(alert.StartTime) {
			return nil, fmt.Errorf("service: could not update alert: %w: end time must be after start time", models.ErrValidation)
		}
		end := endTime.UTC()
		alert.EndTime = &end
	case !active && alert.EndTime == nil:
		alert.EndTime = &now
	}
	alert.IsActive = active
	alert.UpdatedAt = now

	if err := s.repo.Update(ctx, alert); err != nil {
		log.WithError(err).Error("Failed to update alert in repository")
		return nil, fmt.Errorf("service: could not update alert: %w", err)
	}
	log.Info("Alert status updated")

	s.publish(ctx, events.NewAlertEvent(events.AlertStatusChanged, alert, actorID, now))
	return alert, nil
}

func (s *alertService) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WithError(err).WithField("event", event.Name).Warn("Event subscribers reported errors")
	}
}
