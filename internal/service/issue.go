package service

//go:generate mockgen -source=issue.go -destination=mocks/issue_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/civic_issue_tracker/internal/events"
	"github.com/shenikar/civic_issue_tracker/internal/models"
	"github.com/shenikar/civic_issue_tracker/internal/scoring"
	"github.com/sirupsen/logrus"
)

// IssueRepository определяет контракт хранилища заявок.
// Mutate выполняет fn над актуальной копией заявки в одной атомарной единице работы:
// ошибка fn откатывает изменения и возвращается как есть.
type IssueRepository interface {
	Create(ctx context.Context, issue *models.Issue) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Issue, error)
	Mutate(ctx context.Context, id uuid.UUID, fn func(issue *models.Issue) error) (*models.Issue, error)
	List(ctx context.Context, filter models.IssueFilter) ([]*models.Issue, int64, error)
	CountByReporterAndStatus(ctx context.Context, reporterID uuid.UUID, status models.IssueStatus) (int64, error)
	StatusCountsByReporter(ctx context.Context, reporterID uuid.UUID) (map[models.IssueStatus]int64, error)
}

// IssueCache кеш карточек заявок; промах - (nil, nil)
type IssueCache interface {
	GetIssueFromCache(ctx context.Context, id uuid.UUID) (*models.Issue, error)
	SetIssueCache(ctx context.Context, issue *models.Issue) error
	InvalidateIssueCache(ctx context.Context, id uuid.UUID) error
}

// EventPublisher публикует события жизненного цикла после фиксации изменений
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// IssueService определяет контракт жизненного цикла заявки
type IssueService interface {
	CreateIssue(ctx context.Context, issue *models.Issue) error
	GetIssue(ctx context.Context, id uuid.UUID) (*models.Issue, error)
	ListIssues(ctx context.Context, filter models.IssueFilter) (*models.IssuePage, error)
	ListReporterIssues(ctx context.Context, reporterID uuid.UUID, status models.IssueStatus, page, pageSize int) (*models.ReporterIssuePage, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, status models.IssueStatus, actorID uuid.UUID, comment string) (*models.Issue, error)
	AssignIssue(ctx context.Context, id uuid.UUID, department string, officialID *uuid.UUID, actorID uuid.UUID) (*models.Issue, error)
	Upvote(ctx context.Context, id uuid.UUID, voterID uuid.UUID) (*models.VoteResult, error)
	AddResolutionProof(ctx context.Context, id uuid.UUID, actorID uuid.UUID, description string, media []string) (*models.Issue, error)
	Classify(text string) (models.IssueCategory, models.Priority)
}

type issueService struct {
	repo      IssueRepository
	users     UserRepository
	cache     IssueCache
	publisher EventPublisher
	logger    *logrus.Logger
	now       func() time.Time
}

func NewIssueService(repo IssueRepository, users UserRepository, cache IssueCache, publisher EventPublisher, logger *logrus.Logger) IssueService {
	return &issueService{
		repo:      repo,
		users:     users,
		cache:     cache,
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CreateIssue проверяет и сохраняет новую заявку
func (s *issueService) CreateIssue(ctx context.Context, issue *models.Issue) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "issue",
		"method":   "CreateIssue",
		"reporter": issue.ReportedBy,
	})
	log.Info("Attempting to create a new issue")

	if err := validateNewIssue(issue); err != nil {
		log.WithError(err).Warn("Issue rejected by validation")
		return fmt.Errorf("service: could not create issue: %w", err)
	}

	now := s.now()
	issue.ID = uuid.New()
	issue.Title = strings.TrimSpace(issue.Title)
	issue.Description = strings.TrimSpace(issue.Description)
	issue.Status = models.StatusSubmitted
	issue.Priority = scoring.PriorityFor(issue.Category, 0)
	issue.AssignedTo = models.Assignment{Department: scoring.DepartmentFor(issue.Category)}
	issue.Votes = 0
	issue.Voters = []uuid.UUID{}
	issue.ResolutionDetails = nil
	issue.StatusHistory = nil
	issue.AppendHistory(models.StatusSubmitted, issue.ReportedBy, "Issue reported", now)
	issue.CreatedAt = now
	issue.UpdatedAt = now

	if err := s.repo.Create(ctx, issue); err != nil {
		log.WithError(err).Error("Failed to create issue in repository")
		return fmt.Errorf("service: could not create issue: %w", err)
	}

	log.WithFields(logrus.Fields{
		"issue_id":   issue.ID,
		"priority":   issue.Priority,
		"department": issue.AssignedTo.Department,
	}).Info("Issue created successfully")

	s.publish(ctx, events.NewIssueEvent(events.IssueCreated, issue, issue.ReportedBy, now))
	return nil
}

func validateNewIssue(issue *models.Issue) error {
	if strings.TrimSpace(issue.Title) == "" {
		return fmt.Errorf("%w: title is required", models.ErrValidation)
	}
	if strings.TrimSpace(issue.Description) == "" {
		return fmt.Errorf("%w: description is required", models.ErrValidation)
	}
	if !issue.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", models.ErrValidation, issue.Category)
	}
	if issue.ReportedBy == uuid.Nil {
		return fmt.Errorf("%w: reporter is required", models.ErrValidation)
	}
	loc := issue.Location
	if loc.Latitude < -90 || loc.Latitude > 90 || loc.Longitude < -180 || loc.Longitude > 180 {
		return fmt.Errorf("%w: coordinates out of range", models.ErrValidation)
	}
	if strings.TrimSpace(loc.Address) == "" {
		return fmt.Errorf("%w: address is required", models.ErrValidation)
	}
	if len(nonEmpty(issue.Images)) == 0 {
		return models.ErrMediaRequired
	}
	issue.Images = nonEmpty(issue.Images)
	return nil
}

func nonEmpty(refs []string) []string {
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}

// GetIssue получает заявку по ID, сначала из кеша
func (s *issueService) GetIssue(ctx context.Context, id uuid.UUID) (*models.Issue, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "issue",
		"method":   "GetIssue",
		"issue_id": id,
	})

	cached, err := s.cache.GetIssueFromCache(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to read issue from cache")
	}
	if cached != nil {
		log.Debug("Issue served from cache")
		return cached, nil
	}

	issue, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to get issue from repository")
		return nil, fmt.Errorf("service: could not get issue: %w", err)
	}

	if err := s.cache.SetIssueCache(ctx, issue); err != nil {
		log.WithError(err).Warn("Failed to cache issue")
	}
	return issue, nil
}

// ListIssues возвращает страницу заявок по фильтру
func (s *issueService) ListIssues(ctx context.Context, filter models.IssueFilter) (*models.IssuePage, error) {
	filter.Normalize()
	log := s.logger.WithFields(logrus.Fields{
		"service":   "issue",
		"method":    "ListIssues",
		"page":      filter.Page,
		"page_size": filter.PageSize,
	})

	issues, total, err := s.repo.List(ctx, filter)
	if err != nil {
		log.WithError(err).Error("Failed to list issues from repository")
		return nil, fmt.Errorf("service: could not list issues: %w", err)
	}

	log.WithField("count", len(issues)).Debug("Issues listed successfully")
	return &models.IssuePage{
		Issues:     issues,
		Pagination: models.NewPagination(total, filter.Page, filter.PageSize),
	}, nil
}

// ListReporterIssues заявки автора со счетчиками по статусам
func (s *issueService) ListReporterIssues(ctx context.Context, reporterID uuid.UUID, status models.IssueStatus, page, pageSize int) (*models.ReporterIssuePage, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("service: could not list reporter issues: %w: unknown status %q", models.ErrValidation, status)
	}
	filter := models.IssueFilter{
		Status:     status,
		ReportedBy: &reporterID,
		Page:       page,
		PageSize:   pageSize,
	}
	filter.Normalize()
	log := s.logger.WithFields(logrus.Fields{
		"service":  "issue",
		"method":   "ListReporterIssues",
		"reporter": reporterID,
	})

	issues, total, err := s.repo.List(ctx, filter)
	if err != nil {
		log.WithError(err).Error("Failed to list reporter issues")
		return nil, fmt.Errorf("service: could not list reporter issues: %w", err)
	}

	counts, err := s.repo.StatusCountsByReporter(ctx, reporterID)
	if err != nil {
		log.WithError(err).Error("Failed to count reporter issues")
		return nil, fmt.Errorf("service: could not count reporter issues: %w", err)
	}
	for _, st := range models.Statuses {
		if _, ok := counts[st]; !ok {
			counts[st] = 0
		}
	}

	return &models.ReporterIssuePage{
		Issues:     issues,
		Counts:     counts,
		Pagination: models.NewPagination(total, filter.Page, filter.PageSize),
	}, nil
}

// TransitionStatus переводит заявку в новый статус; разрешен любой переход
func (s *issueService) TransitionStatus(ctx context.Context, id uuid.UUID, status models.IssueStatus, actorID uuid.UUID, comment string) (*models.Issue, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "issue",
		"method":   "TransitionStatus",
		"issue_id": id,
		"status":   status,
	})
	log.Info("Attempting to change issue status")

	if !status.Valid() {
		return nil, fmt.Errorf("service: could not change issue status: %w: unknown status %q", models.ErrValidation, status)
	}

	comment = strings.TrimSpace(comment)
	now := s.now()
	var previous models.IssueStatus

	updated, err := s.repo.Mutate(ctx, id, func(issue *models.Issue) error {
		previous = issue.Status
		issue.Status = status
		entry := comment
		if entry == "" {
			entry = fmt.Sprintf("Status updated to %s", status)
		}
		issue.AppendHistory(status, actorID, entry, now)

		if status == models.StatusResolved {
			description := comment
			if description == "" {
				description = "Issue resolved"
			}
			var images []string
			if issue.ResolutionDetails != nil {
				images = issue.ResolutionDetails.Images
			}
			issue.ResolutionDetails = &models.ResolutionDetails{
				ResolvedBy:     actorID,
				ResolutionDate: now,
				Description:    description,
				Images:         images,
			}
		}
		issue.UpdatedAt = now
		return nil
	})
	if err != nil {
		log.WithError(err).Warn("Failed to change issue status")
		return nil, fmt.Errorf("service: could not change issue status: %w", err)
	}
	s.invalidate(ctx, id)

	log.WithField("previous", previous).Info("Issue status changed")
	s.publish(ctx, events.NewIssueEvent(events.IssueStatusChanged, updated, actorID, now))
	if status == models.StatusResolved && previous != models.StatusResolved {
		s.publish(ctx, events.NewIssueEvent(events.IssueResolved, updated, actorID, now))
	}
	return updated, nil
}

// AssignIssue назначает отдел и/или чиновника
func (s *issueService) AssignIssue(ctx context.Context, id uuid.UUID, department string, officialID *uuid.UUID, actorID uuid.UUID) (*models.Issue, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "issue",
		"method":   "AssignIssue",
		"issue_id": id,
	})
	log.Info("Attempting to assign issue")

	department = strings.TrimSpace(department)
	if department == "" && officialID == nil {
		return nil, fmt.Errorf("service: could not assign issue: %w: department or official is required", models.ErrValidation)
	}

	if officialID != nil {
		official, err := s.users.GetByID(ctx, *officialID)
		if err != nil {
			log.WithError(err).Warn("Official lookup failed")
			return nil, fmt.Errorf("service: could not assign issue: official: %w", err)
		}
		if official.Role != models.RoleGovernment {
			return nil, fmt.Errorf("service: could not assign issue: %w: user is not a government official", models.ErrValidation)
		}
	}

	now := s.now()
	updated, err := s.repo.Mutate(ctx, id, func(issue *models.Issue) error {
		if department != "" {
			issue.AssignedTo.Department = department
		}
		if officialID != nil {
			official := *officialID
			issue.AssignedTo.Official = &official
		}
		comment := fmt.Sprintf("Issue assigned to %s department", issue.AssignedTo.Department)
		if officialID != nil {
			comment += " and official"
		}
		issue.AppendHistory(issue.Status, actorID, comment, now)
		issue.UpdatedAt = now
		return nil
	})
	if err != nil {
		log.WithError(err).Warn("Failed to assign issue")
		return nil, fmt.Errorf("service: could not assign issue: %w", err)
	}
	s.invalidate(ctx, id)

	log.WithField("department", updated.AssignedTo.Department).Info("Issue assigned")
	if officialID != nil {
		s.publish(ctx, events.NewIssueEvent(events.IssueAssigned, updated, actorID, now))
	}
	return updated, nil
}

// Upvote засчитывает голос пользователя и пересчитывает приоритет
func (s *issueService) Upvote(ctx context.Context, id uuid.UUID, voterID uuid.UUID) (*models.VoteResult, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "issue",
		"method":   "Upvote",
		"issue_id": id,
		"voter":    voterID,
	})

	now := s.now()
	updated, err := s.repo.Mutate(ctx, id, func(issue *models.Issue) error {
		if issue.ReportedBy == voterID {
			return fmt.Errorf("%w: cannot upvote own issue", models.ErrValidation)
		}
		if issue.HasVoter(voterID) {
			return models.ErrDuplicateVote
		}
		issue.Voters = append(issue.Voters, voterID)
		issue.Votes = len(issue.Voters)
		issue.Priority = scoring.PriorityFor(issue.Category, issue.Votes)
		issue.UpdatedAt = now
		return nil
	})
	if err != nil {
		if errors.Is(err, models.ErrDuplicateVote) {
			log.Info("Duplicate upvote rejected")
		} else {
			log.WithError(err).Warn("Failed to upvote issue")
		}
		return nil, fmt.Errorf("service: could not upvote issue: %w", err)
	}
	s.invalidate(ctx, id)

	log.WithFields(logrus.Fields{"votes": updated.Votes, "priority": updated.Priority}).Info("Issue upvoted")
	ev := events.NewIssueEvent(events.IssueUpvoted, updated, voterID, now)
	voter := voterID
	ev.VoterID = &voter
	s.publish(ctx, ev)

	return &models.VoteResult{IssueID: updated.ID, Votes: updated.Votes, Priority: updated.Priority}, nil
}

// AddResolutionProof прикладывает подтверждение решения; при необходимости закрывает заявку
func (s *issueService) AddResolutionProof(ctx context.Context, id uuid.UUID, actorID uuid.UUID, description string, media []string) (*models.Issue, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "issue",
		"method":   "AddResolutionProof",
		"issue_id": id,
	})
	log.Info("Attempting to add resolution proof")

	media = nonEmpty(media)
	if len(media) == 0 {
		return nil, fmt.Errorf("service: could not add resolution proof: %w", models.ErrMediaRequired)
	}
	description = strings.TrimSpace(description)

	now := s.now()
	var resolvedNow bool
	updated, err := s.repo.Mutate(ctx, id, func(issue *models.Issue) error {
		resolvedNow = false
		if issue.Status != models.StatusInProgress && issue.Status != models.StatusResolved {
			return fmt.Errorf("%w: proof requires in-progress or resolved status, got %s", models.ErrInvalidState, issue.Status)
		}

		details := models.ResolutionDetails{Description: "Issue resolved"}
		if issue.ResolutionDetails != nil {
			details = *issue.ResolutionDetails
			details.Images = slices.Clone(issue.ResolutionDetails.Images)
		}
		details.Images = append(details.Images, media...)
		if description != "" {
			details.Description = description
		}
		details.ResolvedBy = actorID
		details.ResolutionDate = now
		issue.ResolutionDetails = &details

		if issue.Status != models.StatusResolved {
			comment := description
			if comment == "" {
				comment = "Issue resolved with proof"
			}
			issue.Status = models.StatusResolved
			issue.AppendHistory(models.StatusResolved, actorID, comment, now)
			resolvedNow = true
		}
		issue.UpdatedAt = now
		return nil
	})
	if err != nil {
		log.WithError(err).Warn("Failed to add resolution proof")
		return nil, fmt.Errorf("service: could not add resolution proof: %w", err)
	}
	s.invalidate(ctx, id)

	log.WithField("resolved_now", resolvedNow).Info("Resolution proof added")
	s.publish(ctx, events.NewIssueEvent(events.IssueProofAdded, updated, actorID, now))
	if resolvedNow {
		s.publish(ctx, events.NewIssueEvent(events.IssueResolved, updated, actorID, now))
	}
	return updated, nil
}

// Classify подсказывает категорию и срочность по свободному тексту
func (s *issueService) Classify(text string) (models.IssueCategory, models.Priority) {
	return scoring.Categorize(text), scoring.EstimatePriority(text)
}

func (s *issueService) invalidate(ctx context.Context, id uuid.UUID) {
	if err := s.cache.InvalidateIssueCache(ctx, id); err != nil {
		s.logger.WithError(err).WithField("issue_id", id).Warn("Failed to invalidate issue cache")
	}
}

// publish не прерывает операцию: изменения уже зафиксированы
func (s *issueService) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"event":    event.Name,
			"issue_id": event.IssueID,
		}).Warn("Event subscribers reported errors")
	}
}
