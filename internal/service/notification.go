package service

//go:generate mockgen -source=notification.go -destination=mocks/notification_mock.go -package=mocks

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

// alertAudienceLimit ограничивает рассылку одного оповещения
const alertAudienceLimit = 500

// NotificationRepository контракт хранилища уведомлений.
// Пустой ids в MarkRead/Delete означает все уведомления получателя.
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	CreateMany(ctx context.Context, notifications []*models.Notification) error
	List(ctx context.Context, recipient uuid.UUID, unreadOnly bool, page, pageSize int) ([]*models.Notification, int64, error)
	CountUnread(ctx context.Context, recipient uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, recipient uuid.UUID, ids []uuid.UUID) (int64, error)
	Delete(ctx context.Context, recipient uuid.UUID, ids []uuid.UUID) (int64, error)
}

// AlertAudience находит жителей зоны оповещения: авторов заявок внутри круга
type AlertAudience interface {
	ReportersNear(ctx context.Context, area models.GeoRadius, limit int) ([]uuid.UUID, error)
}

type NotificationService interface {
	NotifyFromEvent(ctx context.Context, event events.Event) ([]*models.Notification, error)
	Create(ctx context.Context, notification *models.Notification) error
	List(ctx context.Context, recipient uuid.UUID, unreadOnly bool, page, pageSize int) (*models.NotificationPage, error)
	MarkRead(ctx context.Context, recipient uuid.UUID, ids []uuid.UUID, all bool) (int64, error)
	Delete(ctx context.Context, recipient uuid.UUID, ids []uuid.UUID, all bool) (int64, error)
}

type notificationService struct {
	repo     NotificationRepository
	audience AlertAudience
	logger   *logrus.Logger
	now      func() time.Time
}

func NewNotificationService(repo NotificationRepository, audience AlertAudience, logger *logrus.Logger) NotificationService {
	return &notificationService{
		repo:     repo,
		audience: audience,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// notificationFromEvent строит уведомление для события; nil - событие без уведомления
func notificationFromEvent(event events.Event) *models.Notification {
	issueID := event.IssueID
	n := &models.Notification{
		Recipient:    event.ReporterID,
		RelatedIssue: &issueID,
	}

	switch event.Name {
	case events.IssueCreated:
		n.Type = models.NotificationIssueSubmission
		n.Title = "Issue Submitted"
		n.Message = fmt.Sprintf("Your issue %q has been submitted successfully and assigned to %s.", event.IssueTitle, event.Department)
	case events.IssueStatusChanged:
		n.Type = models.NotificationStatusUpdate
		if event.Status == models.StatusResolved {
			n.Title = "Issue Resolved"
			n.Message = fmt.Sprintf("Your reported issue %q has been resolved.", event.IssueTitle)
		} else {
			n.Title = "Issue Updated"
			n.Message = fmt.Sprintf("The status of your issue %q has been updated to %s.", event.IssueTitle, event.Status)
		}
	case events.IssueAssigned:
		if event.OfficialID == nil {
			return nil
		}
		n.Recipient = *event.OfficialID
		n.Type = models.NotificationAssignment
		n.Title = "New Issue Assigned"
		n.Message = fmt.Sprintf("An issue %q has been assigned to you.", event.IssueTitle)
	case events.IssueUpvoted:
		n.Type = models.NotificationUpvote
		n.Title = "Issue Upvoted"
		n.Message = fmt.Sprintf("Your reported issue %q received a new upvote.", event.IssueTitle)
	case events.IssueProofAdded:
		n.Type = models.NotificationResolution
		n.Title = "Issue Resolved with Proof"
		n.Message = fmt.Sprintf("Your reported issue %q has been resolved. Check the resolution proof.", event.IssueTitle)
	default:
		return nil
	}
	return n
}

// NotifyFromEvent сохраняет уведомления, соответствующие событию; пустой результат - событие без уведомлений
func (s *notificationService) NotifyFromEvent(ctx context.Context, event events.Event) ([]*models.Notification, error) {
	if event.Name == events.AlertCreated {
		return s.notifyAlertArea(ctx, event)
	}
	n := notificationFromEvent(event)
	if n == nil {
		return nil, nil
	}
	if err := s.Create(ctx, n); err != nil {
		return nil, err
	}
	return []*models.Notification{n}, nil
}

// notifyAlertArea рассылает оповещение жителям его зоны
func (s *notificationService) notifyAlertArea(ctx context.Context, event events.Event) ([]*models.Notification, error) {
	alert := event.Alert
	if alert == nil {
		return nil, fmt.Errorf("service: alert event %s without alert", event.ID)
	}
	log := s.logger.WithFields(logrus.Fields{
		"service":  "notification",
		"method":   "notifyAlertArea",
		"alert_id": alert.ID,
	})

	area := models.GeoRadius{Latitude: alert.Latitude, Longitude: alert.Longitude, RadiusMeters: float64(alert.RadiusMeters)}
	recipients, err := s.audience.ReportersNear(ctx, area, alertAudienceLimit)
	if err != nil {
		log.WithError(err).Error("Failed to resolve alert audience")
		return nil, fmt.Errorf("service: could not resolve alert audience: %w", err)
	}
	if len(recipients) == 0 {
		log.Debug("No residents in alert area")
		return nil, nil
	}

	now := s.now()
	alertID := alert.ID
	batch := make([]*models.Notification, 0, len(recipients))
	for _, recipient := range recipients {
		batch = append(batch, &models.Notification{
			ID:           uuid.New(),
			Recipient:    recipient,
			Title:        fmt.Sprintf("ALERT: %s", alert.Title),
			Message:      alert.Description,
			Type:         models.NotificationAlert,
			RelatedAlert: &alertID,
			CreatedAt:    now,
		})
	}
	if err := s.repo.CreateMany(ctx, batch); err != nil {
		log.WithError(err).Error("Failed to store alert notifications")
		return nil, fmt.Errorf("service: could not create alert notifications: %w", err)
	}
	log.WithField("recipients", len(batch)).Info("Alert notifications created")
	return batch, nil
}

// Create сохраняет уведомление
func (s *notificationService) Create(ctx context.Context, notification *models.Notification) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":   "notification",
		"method":    "Create",
		"recipient": notification.Recipient,
		"type":      notification.Type,
	})

	if notification.Type == "" {
		notification.Type = models.NotificationSystem
	}
	switch {
	case notification.Recipient == uuid.Nil:
		return fmt.Errorf("service: could not create notification: %w: recipient is required", models.ErrValidation)
	case strings.TrimSpace(notification.Title) == "" || strings.TrimSpace(notification.Message) == "":
		return fmt.Errorf("service: could not create notification: %w: title and message are required", models.ErrValidation)
	case !notification.Type.Valid():
		return fmt.Errorf("service: could not create notification: %w: unknown type %q", models.ErrValidation, notification.Type)
	}

	notification.ID = uuid.New()
	notification.IsRead = false
	notification.CreatedAt = s.now()

	if err := s.repo.Create(ctx, notification); err != nil {
		log.WithError(err).Error("Failed to create notification in repository")
		return fmt.Errorf("service: could not create notification: %w", err)
	}
	log.WithField("notification_id", notification.ID).Debug("Notification created")
	return nil
}

// List уведомления получателя с количеством непрочитанных
func (s *notificationService) List(ctx context.Context, recipient uuid.UUID, unreadOnly bool, page, pageSize int) (*models.NotificationPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > models.MaxPageSize {
		pageSize = models.DefaultPageSize
	}
	log := s.logger.WithFields(logrus.Fields{
		"service":   "notification",
		"method":    "List",
		"recipient": recipient,
	})

	items, total, err := s.repo.List(ctx, recipient, unreadOnly, page, pageSize)
	if err != nil {
		log.WithError(err).Error("Failed to list notifications")
		return nil, fmt.Errorf("service: could not list notifications: %w", err)
	}
	unread, err := s.repo.CountUnread(ctx, recipient)
	if err != nil {
		log.WithError(err).Error("Failed to count unread notifications")
		return nil, fmt.Errorf("service: could not count unread notifications: %w", err)
	}

	return &models.NotificationPage{
		Notifications: items,
		UnreadCount:   unread,
		Pagination:    models.NewPagination(total, page, pageSize),
	}, nil
}

// MarkRead отмечает уведомления прочитанными
func (s *notificationService) MarkRead(ctx context.Context, recipient uuid.UUID, ids []uuid.UUID, all bool) (int64, error) {
	if !all && len(ids) == 0 {
		return 0, fmt.Errorf("service: could not mark notifications: %w: ids or all is required", models.ErrValidation)
	}
	if all {
		ids = nil
	}
	n, err := s.repo.MarkRead(ctx, recipient, ids)
	if err != nil {
		s.logger.WithError(err).WithField("recipient", recipient).Error("Failed to mark notifications as read")
		return 0, fmt.Errorf("service: could not mark notifications: %w", err)
	}
	return n, nil
}

// Delete удаляет уведомления получателя
func (s *notificationService) Delete(ctx context.Context, recipient uuid.UUID, ids []uuid.UUID, all bool) (int64, error) {
	if !all && len(ids) == 0 {
		return 0, fmt.Errorf("service: could not delete notifications: %w: ids or all is required", models.ErrValidation)
	}
	if all {
		ids = nil
	}
	n, err := s.repo.Delete(ctx, recipient, ids)
	if err != nil {
		s.logger.WithError(err).WithField("recipient", recipient).Error("Failed to delete notifications")
		return 0, fmt.Errorf("service: could not delete notifications: %w", err)
	}
	return n, nil
}
