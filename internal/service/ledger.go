package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shenikar/civic_issue_tracker/internal/events"
	"github.com/shenikar/civic_issue_tracker/internal/models"
	"github.com/sirupsen/logrus"
)

// Subscriber принимает синхронные обработчики событий
type Subscriber interface {
	Subscribe(name events.Name, handler events.Handler)
}

// EngagementLedger начисляет очки и значки по событиям жизненного цикла.
// Каждое начисление идет с ключом идемпотентности, повтор события ничего не меняет.
type EngagementLedger struct {
	users  UserRepository
	issues IssueRepository
	logger *logrus.Logger
	now    func() time.Time
}

func NewEngagementLedger(users UserRepository, issues IssueRepository, logger *logrus.Logger) *EngagementLedger {
	return &EngagementLedger{
		users:  users,
		issues: issues,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Register подписывает леджер на нужные события
func (l *EngagementLedger) Register(bus Subscriber) {
	bus.Subscribe(events.IssueCreated, l.Handle)
	bus.Subscribe(events.IssueResolved, l.Handle)
	bus.Subscribe(events.IssueUpvoted, l.Handle)
}

// Handle обрабатывает одно событие
func (l *EngagementLedger) Handle(ctx context.Context, event events.Event) error {
	log := l.logger.WithFields(logrus.Fields{
		"service":  "ledger",
		"event":    event.Name,
		"issue_id": event.IssueID,
	})

	switch event.Name {
	case events.IssueCreated:
		key := fmt.Sprintf("issue.created:%s", event.IssueID)
		return l.award(ctx, log, event, key, models.PointsForReport, false)

	case events.IssueResolved:
		key := fmt.Sprintf("issue.resolved:%s", event.IssueID)
		if err := l.award(ctx, log, event, key, models.PointsForResolution, false); err != nil {
			return err
		}
		return l.checkCivicChampion(ctx, log, event)

	case events.IssueUpvoted:
		if event.VoterID == nil {
			return fmt.Errorf("ledger: upvote event %s without voter", event.ID)
		}
		key := fmt.Sprintf("issue.upvoted:%s:%s", event.IssueID, *event.VoterID)
		return l.award(ctx, log, event, key, models.PointsForUpvote, true)
	}
	return nil
}

func (l *EngagementLedger) award(ctx context.Context, log *logrus.Entry, event events.Event, key string, points int, toVoter bool) error {
	recipient := event.ReporterID
	if toVoter {
		recipient = *event.VoterID
	}

	applied, err := l.users.AddPoints(ctx, recipient, points, key)
	if err != nil {
		log.WithError(err).WithField("user_id", recipient).Error("Failed to award points")
		return fmt.Errorf("ledger: could not award points: %w", err)
	}
	log.WithFields(logrus.Fields{
		"user_id": recipient,
		"points":  points,
		"applied": applied,
	}).Info("Points award processed")
	return nil
}

func (l *EngagementLedger) checkCivicChampion(ctx context.Context, log *logrus.Entry, event events.Event) error {
	resolved, err := l.issues.CountByReporterAndStatus(ctx, event.ReporterID, models.StatusResolved)
	if err != nil {
		log.WithError(err).Error("Failed to count resolved issues")
		return fmt.Errorf("ledger: could not count resolved issues: %w", err)
	}
	if resolved < models.CivicChampionThreshold {
		return nil
	}

	awarded, err := l.users.AwardBadge(ctx, event.ReporterID, models.Badge{
		Name:        models.CivicChampionBadge,
		Description: models.CivicChampionDescription,
		AwardedOn:   l.now(),
	})
	if err != nil {
		log.WithError(err).Error("Failed to award badge")
		return fmt.Errorf("ledger: could not award badge: %w", err)
	}
	if awarded {
		log.WithField("user_id", event.ReporterID).Info("Civic Champion badge awarded")
	}
	return nil
}
