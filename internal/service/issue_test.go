package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
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

var fixedNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

type issueServiceDeps struct {
	repo      *mocks.MockIssueRepository
	users     *mocks.MockUserRepository
	cache     *mocks.MockIssueCache
	publisher *mocks.MockEventPublisher
}

// newTestIssueService вспомогательная функция для создания инстанса сервиса с моками.
func newTestIssueService(t *testing.T) (*issueService, issueServiceDeps) {
	ctrl := gomock.NewController(t)
	deps := issueServiceDeps{
		repo:      mocks.NewMockIssueRepository(ctrl),
		users:     mocks.NewMockUserRepository(ctrl),
		cache:     mocks.NewMockIssueCache(ctrl),
		publisher: mocks.NewMockEventPublisher(ctrl),
	}

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	svc := NewIssueService(deps.repo, deps.users, deps.cache, deps.publisher, logger).(*issueService)
	svc.now = func() time.Time { return fixedNow }
	return svc, deps
}

// memoryIssues - хранилище в памяти за моком Mutate; сериализует изменения как блокировка строки
type memoryIssues struct {
	mu     sync.Mutex
	issues map[uuid.UUID]*models.Issue
}

func newMemoryIssues(issues ...*models.Issue) *memoryIssues {
	m := &memoryIssues{issues: make(map[uuid.UUID]*models.Issue)}
	for _, i := range issues {
		m.issues[i.ID] = cloneIssue(i)
	}
	return m
}

func (m *memoryIssues) mutate(_ context.Context, id uuid.UUID, fn func(*models.Issue) error) (*models.Issue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.issues[id]
	if !ok {
		return nil, fmt.Errorf("issue %s: %w", id, models.ErrNotFound)
	}
	working := cloneIssue(current)
	if err := fn(working); err != nil {
		return nil, err
	}
	m.issues[id] = working
	return cloneIssue(working), nil
}

func (m *memoryIssues) get(id uuid.UUID) *models.Issue {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneIssue(m.issues[id])
}

func cloneIssue(i *models.Issue) *models.Issue {
	c := *i
	c.Images = slices.Clone(i.Images)
	c.Voters = slices.Clone(i.Voters)
	c.StatusHistory = slices.Clone(i.StatusHistory)
	if i.ResolutionDetails != nil {
		d := *i.ResolutionDetails
		d.Images = slices.Clone(i.ResolutionDetails.Images)
		c.ResolutionDetails = &d
	}
	if i.AssignedTo.Official != nil {
		o := *i.AssignedTo.Official
		c.AssignedTo.Official = &o
	}
	return &c
}

// eventLog собирает опубликованные события
type eventLog struct {
	mu     sync.Mutex
	events []events.Event
}

func (l *eventLog) publish(_ context.Context, ev events.Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
	return nil
}

func (l *eventLog) names() []events.Name {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]events.Name, 0, len(l.events))
	for _, ev := range l.events {
		out = append(out, ev.Name)
	}
	return out
}

func (l *eventLog) count(name events.Name) int {
	n := 0
	for _, got := range l.names() {
		if got == name {
			n++
		}
	}
	return n
}

func wireMemory(deps issueServiceDeps, store *memoryIssues) *eventLog {
	log := &eventLog{}
	deps.repo.EXPECT().Mutate(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(store.mutate).AnyTimes()
	deps.cache.EXPECT().InvalidateIssueCache(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	deps.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(log.publish).AnyTimes()
	return log
}

func sampleIssue(category models.IssueCategory, status models.IssueStatus) *models.Issue {
	reporter := uuid.New()
	return &models.Issue{
		ID:          uuid.New(),
		Title:       "Sample issue",
		Description: "Something is wrong",
		Category:    category,
		Location:    models.Location{Latitude: 12.97, Longitude: 77.59, Address: "MG Road"},
		Images:      []string{"https://cdn.example.com/1.jpg"},
		ReportedBy:  reporter,
		AssignedTo:  models.Assignment{Department: "Roads & Transportation"},
		Status:      status,
		Priority:    models.PriorityMedium,
		Voters:      []uuid.UUID{},
		StatusHistory: []models.StatusHistoryEntry{
			{Status: status, UpdatedBy: reporter, Comment: "seed", Timestamp: fixedNow.Add(-time.Hour)},
		},
	}
}

func newIssueInput() *models.Issue {
	return &models.Issue{
		Title:       "  Burst water main  ",
		Description: "Water flooding the street",
		Category:    models.CategoryWater,
		Location:    models.Location{Latitude: 19.07, Longitude: 72.87, Address: "Linking Road", City: "Mumbai"},
		Images:      []string{"https://cdn.example.com/a.jpg", " "},
		ReportedBy:  uuid.New(),
	}
}

func TestCreateIssue_Success(t *testing.T) {
	// Подготовка
	svc, deps := newTestIssueService(t)
	ctx := context.Background()
	input := newIssueInput()
	var published events.Event

	// Ожидания
	deps.repo.EXPECT().Create(ctx, input).Return(nil).Times(1)
	deps.publisher.EXPECT().Publish(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, ev events.Event) error {
			published = ev
			return nil
		}).Times(1)

	// Действие
	err := svc.CreateIssue(ctx, input)

	// Проверки
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, input.ID)
	assert.Equal(t, "Burst water main", input.Title)
	assert.Equal(t, models.StatusSubmitted, input.Status)
	assert.Equal(t, models.PriorityHigh, input.Priority)
	assert.Equal(t, "Water Supply", input.AssignedTo.Department)
	assert.Nil(t, input.AssignedTo.Official)
	assert.Equal(t, 0, input.Votes)
	assert.Empty(t, input.Voters)
	assert.Equal(t, []string{"https://cdn.example.com/a.jpg"}, input.Images)
	require.Len(t, input.StatusHistory, 1)
	assert.Equal(t, models.StatusHistoryEntry{
		Status:    models.StatusSubmitted,
		UpdatedBy: input.ReportedBy,
		Comment:   "Issue reported",
		Timestamp: fixedNow,
	}, input.StatusHistory[0])
	assert.Equal(t, fixedNow, input.CreatedAt)

	assert.Equal(t, events.IssueCreated, published.Name)
	assert.Equal(t, input.ID, published.IssueID)
	assert.Equal(t, input.ReportedBy, published.ReporterID)
	assert.Equal(t, "Water Supply", published.Department)
}

func TestCreateIssue_DerivesPriorityAndDepartmentPerCategory(t *testing.T) {
	tests := []struct {
		category   models.IssueCategory
		priority   models.Priority
		department string
	}{
		{models.CategoryGarbage, models.PriorityLow, "Waste Management"},
		{models.CategoryPothole, models.PriorityMedium, "Roads & Transportation"},
		{models.CategoryElectricity, models.PriorityHigh, "Electricity"},
		{models.CategoryOther, models.PriorityLow, "General Administration"},
	}
	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			svc, deps := newTestIssueService(t)
			input := newIssueInput()
			input.Category = tt.category

			deps.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil).Times(1)
			deps.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).Times(1)

			require.NoError(t, svc.CreateIssue(context.Background(), input))
			assert.Equal(t, tt.priority, input.Priority)
			assert.Equal(t, tt.department, input.AssignedTo.Department)
		})
	}
}

func TestCreateIssue_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(i *models.Issue)
		wantErr error
	}{
		{"empty title", func(i *models.Issue) { i.Title = "   " }, models.ErrValidation},
		{"empty description", func(i *models.Issue) { i.Description = "" }, models.ErrValidation},
		{"unknown category", func(i *models.Issue) { i.Category = "meteor" }, models.ErrValidation},
		{"latitude out of range", func(i *models.Issue) { i.Location.Latitude = 91 }, models.ErrValidation},
		{"missing address", func(i *models.Issue) { i.Location.Address = "" }, models.ErrValidation},
		{"missing reporter", func(i *models.Issue) { i.ReportedBy = uuid.Nil }, models.ErrValidation},
		{"no images", func(i *models.Issue) { i.Images = nil }, models.ErrMediaRequired},
		{"blank images only", func(i *models.Issue) { i.Images = []string{"", " "} }, models.ErrMediaRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, deps := newTestIssueService(t)
			input := newIssueInput()
			tt.mutate(input)

			deps.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
			deps.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)

			err := svc.CreateIssue(context.Background(), input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateIssue_RepositoryError(t *testing.T) {
	svc, deps := newTestIssueService(t)
	dbErr := fmt.Errorf("insert: %w", models.ErrStorage)

	deps.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(dbErr).Times(1)
	deps.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)

	err := svc.CreateIssue(context.Background(), newIssueInput())
	assert.ErrorIs(t, err, models.ErrStorage)
	assert.Contains(t, err.Error(), "service: could not create issue")
}

func TestCreateIssue_PublishErrorDoesNotFail(t *testing.T) {
	svc, deps := newTestIssueService(t)

	deps.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	deps.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("ledger down")).Times(1)

	assert.NoError(t, svc.CreateIssue(context.Background(), newIssueInput()))
}

func TestGetIssue_Success_FromCache(t *testing.T) {
	svc, deps := newTestIssueService(t)
	ctx := context.Background()
	issue := sampleIssue(models.CategoryPothole, models.StatusSubmitted)

	deps.cache.EXPECT().GetIssueFromCache(ctx, issue.ID).Return(issue, nil).Times(1)
	deps.repo.EXPECT().GetByID(gomock.Any(), gomock.Any()).Times(0)

	got, err := svc.GetIssue(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, issue, got)
}

func TestGetIssue_Success_FromDB(t *testing.T) {
	svc, deps := newTestIssueService(t)
	ctx := context.Background()
	issue := sampleIssue(models.CategoryPothole, models.StatusSubmitted)

	// 1. Промах кеша
	deps.cache.EXPECT().GetIssueFromCache(ctx, issue.ID).Return(nil, nil).Times(1)
	// 2. Попадание в БД
	deps.repo.EXPECT().GetByID(ctx, issue.ID).Return(issue, nil).Times(1)
	// 3. Запись в кеш
	deps.cache.EXPECT().SetIssueCache(ctx, issue).Return(nil).Times(1)

	got, err := svc.GetIssue(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, issue, got)
}

func TestGetIssue_CacheErrorFallsBackToDB(t *testing.T) {
	svc, deps := newTestIssueService(t)
	ctx := context.Background()
	issue := sampleIssue(models.CategoryPothole, models.StatusSubmitted)

	deps.cache.EXPECT().GetIssueFromCache(ctx, issue.ID).Return(nil, errors.New("redis timeout")).Times(1)
	deps.repo.EXPECT().GetByID(ctx, issue.ID).Return(issue, nil).Times(1)
	deps.cache.EXPECT().SetIssueCache(ctx, issue).Return(errors.New("redis timeout")).Times(1)

	got, err := svc.GetIssue(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, issue.ID, got.ID)
}

func TestGetIssue_NotFound(t *testing.T) {
	svc, deps := newTestIssueService(t)
	ctx := context.Background()
	id := uuid.New()

	deps.cache.EXPECT().GetIssueFromCache(ctx, id).Return(nil, nil).Times(1)
	deps.repo.EXPECT().GetByID(ctx, id).Return(nil, fmt.Errorf("issue %s: %w", id, models.ErrNotFound)).Times(1)

	_, err := svc.GetIssue(ctx, id)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestListIssues_NormalizesFilterAndPaginates(t *testing.T) {
	svc, deps := newTestIssueService(t)
	ctx := context.Background()
	issues := []*models.Issue{sampleIssue(models.CategoryWater, models.StatusSubmitted)}

	deps.repo.EXPECT().List(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, f models.IssueFilter) ([]*models.Issue, int64, error) {
			assert.Equal(t, 1, f.Page)
			assert.Equal(t, models.DefaultPageSize, f.PageSize)
			assert.Equal(t, models.SortByCreatedAt, f.SortBy)
			assert.True(t, f.SortDesc)
			assert.Equal(t, models.CategoryWater, f.Category)
			return issues, 21, nil
		}).Times(1)

	page, err := svc.ListIssues(ctx, models.IssueFilter{Category: models.CategoryWater, PageSize: 500})
	require.NoError(t, err)
	assert.Equal(t, issues, page.Issues)
	assert.Equal(t, models.Pagination{Total: 21, Page: 1, PageSize: 10, Pages: 3}, page.Pagination)
}

func TestListReporterIssues_FillsMissingCounts(t *testing.T) {
	svc, deps := newTestIssueService(t)
	ctx := context.Background()
	reporter := uuid.New()

	deps.repo.EXPECT().List(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, f models.IssueFilter) ([]*models.Issue, int64, error) {
			require.NotNil(t, f.ReportedBy)
			assert.Equal(t, reporter, *f.ReportedBy)
			assert.Equal(t, models.StatusResolved, f.Status)
			return []*models.Issue{}, 0, nil
		}).Times(1)
	deps.repo.EXPECT().StatusCountsByReporter(ctx, reporter).
		Return(map[models.IssueStatus]int64{models.StatusResolved: 3}, nil).Times(1)

	page, err := svc.ListReporterIssues(ctx, reporter, models.StatusResolved, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Counts[models.StatusResolved])
	assert.Equal(t, int64(0), page.Counts[models.StatusSubmitted])
	assert.Len(t, page.Counts, len(models.Statuses))
}

func TestListReporterIssues_UnknownStatus(t *testing.T) {
	svc, _ := newTestIssueService(t)
	_, err := svc.ListReporterIssues(context.Background(), uuid.New(), "closed", 1, 10)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestTransitionStatus_ToResolvedEmitsResolvedOnce(t *testing.T) {
	svc, deps := newTestIssueService(t)
	issue := sampleIssue(models.CategoryPothole, models.StatusInProgress)
	store := newMemoryIssues(issue)
	log := wireMemory(deps, store)
	official := uuid.New()

	updated, err := svc.TransitionStatus(context.Background(), issue.ID, models.StatusResolved, official, "")
	require.NoError(t, err)

	assert.Equal(t, models.StatusResolved, updated.Status)
	last := updated.StatusHistory[len(updated.StatusHistory)-1]
	assert.Equal(t, models.StatusHistoryEntry{
		Status:    models.StatusResolved,
		UpdatedBy: official,
		Comment:   "Status updated to resolved",
		Timestamp: fixedNow,
	}, last)
	require.NotNil(t, updated.ResolutionDetails)
	assert.Equal(t, official, updated.ResolutionDetails.ResolvedBy)
	assert.Equal(t, fixedNow, updated.ResolutionDetails.ResolutionDate)
	assert.Equal(t, "Issue resolved", updated.ResolutionDetails.Description)
	assert.Equal(t, []events.Name{events.IssueStatusChanged, events.IssueResolved}, log.names())

	// повторный перевод в resolved не дает второго issue.resolved
	_, err = svc.TransitionStatus(context.Background(), issue.ID, models.StatusResolved, official, "double check")
	require.NoError(t, err)
	assert.Equal(t, 1, log.count(events.IssueResolved))
	assert.Equal(t, 2, log.count(events.IssueStatusChanged))
	assert.Equal(t, "double check", store.get(issue.ID).ResolutionDetails.Description)
}

func TestTransitionStatus_AnyToAnyAndHistoryTail(t *testing.T) {
	svc, deps := newTestIssueService(t)
	issue := sampleIssue(models.CategoryGarbage, models.StatusResolved)
	store := newMemoryIssues(issue)
	log := wireMemory(deps, store)
	actor := uuid.New()

	steps := []models.IssueStatus{models.StatusSubmitted, models.StatusRejected, models.StatusInProgress, models.StatusSubmitted}
	for _, st := range steps {
		updated, err := svc.TransitionStatus(context.Background(), issue.ID, st, actor, "moving on")
		require.NoError(t, err)
		assert.Equal(t, st, updated.Status)
		assert.Equal(t, st, updated.StatusHistory[len(updated.StatusHistory)-1].Status)
		assert.Equal(t, "moving on", updated.StatusHistory[len(updated.StatusHistory)-1].Comment)
	}

	final := store.get(issue.ID)
	assert.Len(t, final.StatusHistory, 1+len(steps))
	assert.Equal(t, 0, log.count(events.IssueResolved))
	assert.Equal(t, len(steps), log.count(events.IssueStatusChanged))
}

func TestTransitionStatus_UnknownStatus(t *testing.T) {
	svc, deps := newTestIssueService(t)
	deps.repo.EXPECT().Mutate(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	_, err := svc.TransitionStatus(context.Background(), uuid.New(), "archived", uuid.New(), "")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestTransitionStatus_NotFound(t *testing.T) {
	svc, deps := newTestIssueService(t)
	log := wireMemory(deps, newMemoryIssues())

	_, err := svc.TransitionStatus(context.Background(), uuid.New(), models.StatusInProgress, uuid.New(), "")
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Empty(t, log.names())
}

func TestAssignIssue_RequiresDepartmentOrOfficial(t *testing.T) {
	svc, deps := newTestIssueService(t)
	deps.repo.EXPECT().Mutate(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	_, err := svc.AssignIssue(context.Background(), uuid.New(), "  ", nil, uuid.New())
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestAssignIssue_OfficialMustBeGovernment(t *testing.T) {
	svc, deps := newTestIssueService(t)
	citizen := &models.User{ID: uuid.New(), Role: models.RoleCitizen}

	deps.users.EXPECT().GetByID(gomock.Any(), citizen.ID).Return(citizen, nil).Times(1)
	deps.repo.EXPECT().Mutate(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	_, err := svc.AssignIssue(context.Background(), uuid.New(), "", &citizen.ID, uuid.New())
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestAssignIssue_UnknownOfficial(t *testing.T) {
	svc, deps := newTestIssueService(t)
	ghost := uuid.New()

	deps.users.EXPECT().GetByID(gomock.Any(), ghost).Return(nil, fmt.Errorf("user %s: %w", ghost, models.ErrNotFound)).Times(1)

	_, err := svc.AssignIssue(context.Background(), uuid.New(), "", &ghost, uuid.New())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestAssignIssue_WithOfficialEmitsAssigned(t *testing.T) {
	svc, deps := newTestIssueService(t)
	issue := sampleIssue(models.CategoryPothole, models.StatusInProgress)
	store := newMemoryIssues(issue)
	log := wireMemory(deps, store)
	official := &models.User{ID: uuid.New(), Role: models.RoleGovernment, Department: "Roads & Transportation"}
	actor := uuid.New()

	deps.users.EXPECT().GetByID(gomock.Any(), official.ID).Return(official, nil).Times(1)

	updated, err := svc.AssignIssue(context.Background(), issue.ID, "Public Works", &official.ID, actor)
	require.NoError(t, err)

	assert.Equal(t, "Public Works", updated.AssignedTo.Department)
	require.NotNil(t, updated.AssignedTo.Official)
	assert.Equal(t, official.ID, *updated.AssignedTo.Official)
	last := updated.StatusHistory[len(updated.StatusHistory)-1]
	assert.Equal(t, models.StatusInProgress, last.Status, "assignment keeps current status")
	assert.Equal(t, "Issue assigned to Public Works department and official", last.Comment)
	assert.Equal(t, actor, last.UpdatedBy)
	assert.Equal(t, []events.Name{events.IssueAssigned}, log.names())
	require.NotNil(t, log.events[0].OfficialID)
	assert.Equal(t, official.ID, *log.events[0].OfficialID)
}

func TestAssignIssue_DepartmentOnlyNoEvent(t *testing.T) {
	svc, deps := newTestIssueService(t)
	issue := sampleIssue(models.CategoryPothole, models.StatusSubmitted)
	log := wireMemory(deps, newMemoryIssues(issue))

	updated, err := svc.AssignIssue(context.Background(), issue.ID, "Sanitation", nil, uuid.New())
	require.NoError(t, err)

	assert.Equal(t, "Sanitation", updated.AssignedTo.Department)
	assert.Nil(t, updated.AssignedTo.Official)
	assert.Equal(t, "Issue assigned to Sanitation department", updated.StatusHistory[len(updated.StatusHistory)-1].Comment)
	assert.Empty(t, log.names())
}

func TestUpvote_Success(t *testing.T) {
	svc, deps := newTestIssueService(t)
	issue := sampleIssue(models.CategoryGarbage, models.StatusSubmitted)
	issue.Priority = models.PriorityLow
	store := newMemoryIssues(issue)
	log := wireMemory(deps, store)
	voter := uuid.New()

	result, err := svc.Upvote(context.Background(), issue.ID, voter)
	require.NoError(t, err)

	assert.Equal(t, &models.VoteResult{IssueID: issue.ID, Votes: 1, Priority: models.PriorityLow}, result)
	stored := store.get(issue.ID)
	assert.Equal(t, []uuid.UUID{voter}, stored.Voters)
	assert.Len(t, stored.StatusHistory, 1, "upvote does not touch history")
	require.Len(t, log.events, 1)
	assert.Equal(t, events.IssueUpvoted, log.events[0].Name)
	require.NotNil(t, log.events[0].VoterID)
	assert.Equal(t, voter, *log.events[0].VoterID)
}

func TestUpvote_DuplicateVoteRejected(t *testing.T) {
	svc, deps := newTestIssueService(t)
	voter := uuid.New()
	issue := sampleIssue(models.CategoryGarbage, models.StatusSubmitted)
	issue.Voters = []uuid.UUID{voter}
	issue.Votes = 1
	store := newMemoryIssues(issue)
	log := wireMemory(deps, store)

	_, err := svc.Upvote(context.Background(), issue.ID, voter)
	assert.ErrorIs(t, err, models.ErrDuplicateVote)
	assert.Equal(t, 1, store.get(issue.ID).Votes)
	assert.Empty(t, log.names())
}

func TestUpvote_ReporterCannotVoteOwnIssue(t *testing.T) {
	svc, deps := newTestIssueService(t)
	issue := sampleIssue(models.CategoryGarbage, models.StatusSubmitted)
	store := newMemoryIssues(issue)
	wireMemory(deps, store)

	_, err := svc.Upvote(context.Background(), issue.ID, issue.ReportedBy)
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Equal(t, 0, store.get(issue.ID).Votes)
}

func TestUpvote_PriorityEscalation(t *testing.T) {
	tests := []struct {
		name     string
		category models.IssueCategory
		votes    int
		expected models.Priority
	}{
		{"water ten votes", models.CategoryWater, 10, models.PriorityHigh},
		{"water twenty votes", models.CategoryWater, 20, models.PriorityUrgent},
		{"garbage six votes", models.CategoryGarbage, 6, models.PriorityMedium},
		{"garbage four votes", models.CategoryGarbage, 4, models.PriorityLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, deps := newTestIssueService(t)
			issue := sampleIssue(tt.category, models.StatusSubmitted)
			store := newMemoryIssues(issue)
			wireMemory(deps, store)

			var last *models.VoteResult
			for i := 0; i < tt.votes; i++ {
				res, err := svc.Upvote(context.Background(), issue.ID, uuid.New())
				require.NoError(t, err)
				if last != nil {
					assert.GreaterOrEqual(t, res.Priority.Level(), last.Priority.Level(), "priority never drops")
				}
				last = res
			}
			assert.Equal(t, tt.votes, last.Votes)
			assert.Equal(t, tt.expected, last.Priority)
			stored := store.get(issue.ID)
			assert.Equal(t, stored.Votes, len(stored.Voters))
		})
	}
}

func TestUpvote_ConcurrentDistinctVotersAllCounted(t *testing.T) {
	svc, deps := newTestIssueService(t)
	issue := sampleIssue(models.CategoryWater, models.StatusSubmitted)
	store := newMemoryIssues(issue)
	log := wireMemory(deps, store)

	const voters = 25
	var wg sync.WaitGroup
	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Upvote(context.Background(), issue.ID, uuid.New())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stored := store.get(issue.ID)
	assert.Equal(t, voters, stored.Votes)
	assert.Len(t, stored.Voters, voters)
	assert.Equal(t, models.PriorityUrgent, stored.Priority)
	assert.Equal(t, voters, log.count(events.IssueUpvoted))
}

func TestUpvote_ConcurrentSameVoterCountedOnce(t *testing.T) {
	svc, deps := newTestIssueService(t)
	issue := sampleIssue(models.CategoryWater, models.StatusSubmitted)
	store := newMemoryIssues(issue)
	wireMemory(deps, store)
	voter := uuid.New()

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		ok, denied int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Upvote(context.Background(), issue.ID, voter)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if errors.Is(err, models.ErrDuplicateVote) {
				denied++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, 9, denied)
	assert.Equal(t, 1, store.get(issue.ID).Votes)
}

func TestAddResolutionProof_RequiresMedia(t *testing.T) {
	svc, deps := newTestIssueService(t)
	deps.repo.EXPECT().Mutate(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	_, err := svc.AddResolutionProof(context.Background(), uuid.New(), uuid.New(), "done", []string{" "})
	assert.ErrorIs(t, err, models.ErrMediaRequired)
}

func TestAddResolutionProof_InvalidState(t *testing.T) {
	for _, status := range []models.IssueStatus{models.StatusSubmitted, models.StatusRejected} {
		t.Run(string(status), func(t *testing.T) {
			svc, deps := newTestIssueService(t)
			issue := sampleIssue(models.CategoryPothole, status)
			store := newMemoryIssues(issue)
			log := wireMemory(deps, store)

			_, err := svc.AddResolutionProof(context.Background(), issue.ID, uuid.New(), "done", []string{"proof.jpg"})
			assert.ErrorIs(t, err, models.ErrInvalidState)
			assert.Equal(t, status, store.get(issue.ID).Status)
			assert.Empty(t, log.names())
		})
	}
}

func TestAddResolutionProof_ResolvesInProgressIssue(t *testing.T) {
	svc, deps := newTestIssueService(t)
	issue := sampleIssue(models.CategoryPothole, models.StatusInProgress)
	store := newMemoryIssues(issue)
	log := wireMemory(deps, store)
	official := uuid.New()

	updated, err := svc.AddResolutionProof(context.Background(), issue.ID, official, "", []string{"after.jpg"})
	require.NoError(t, err)

	assert.Equal(t, models.StatusResolved, updated.Status)
	last := updated.StatusHistory[len(updated.StatusHistory)-1]
	assert.Equal(t, models.StatusResolved, last.Status)
	assert.Equal(t, "Issue resolved with proof", last.Comment)
	require.NotNil(t, updated.ResolutionDetails)
	assert.Equal(t, []string{"after.jpg"}, updated.ResolutionDetails.Images)
	assert.Equal(t, "Issue resolved", updated.ResolutionDetails.Description)
	assert.Equal(t, official, updated.ResolutionDetails.ResolvedBy)
	assert.Equal(t, []events.Name{events.IssueProofAdded, events.IssueResolved}, log.names())
}

func TestAddResolutionProof_MergesIntoResolvedIssue(t *testing.T) {
	svc, deps := newTestIssueService(t)
	issue := sampleIssue(models.CategoryPothole, models.StatusResolved)
	issue.ResolutionDetails = &models.ResolutionDetails{
		ResolvedBy:     uuid.New(),
		ResolutionDate: fixedNow.Add(-24 * time.Hour),
		Description:    "Filled with asphalt",
		Images:         []string{"before.jpg"},
	}
	store := newMemoryIssues(issue)
	log := wireMemory(deps, store)

	updated, err := svc.AddResolutionProof(context.Background(), issue.ID, uuid.New(), "", []string{"after.jpg"})
	require.NoError(t, err)

	assert.Equal(t, models.StatusResolved, updated.Status)
	assert.Len(t, updated.StatusHistory, 1, "already resolved: no new history entry")
	assert.Equal(t, []string{"before.jpg", "after.jpg"}, updated.ResolutionDetails.Images)
	assert.Equal(t, "Filled with asphalt", updated.ResolutionDetails.Description)
	assert.Equal(t, fixedNow, updated.ResolutionDetails.ResolutionDate)
	assert.Equal(t, []events.Name{events.IssueProofAdded}, log.names())
}

func TestResolve_ConcurrentCallsEmitResolvedOnce(t *testing.T) {
	svc, deps := newTestIssueService(t)
	issue := sampleIssue(models.CategoryPothole, models.StatusInProgress)
	store := newMemoryIssues(issue)
	log := wireMemory(deps, store)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_, err := svc.TransitionStatus(context.Background(), issue.ID, models.StatusResolved, uuid.New(), "")
				assert.NoError(t, err)
				return
			}
			_, err := svc.AddResolutionProof(context.Background(), issue.ID, uuid.New(), "", []string{fmt.Sprintf("p%d.jpg", i)})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, log.count(events.IssueResolved))
	stored := store.get(issue.ID)
	assert.Equal(t, models.StatusResolved, stored.Status)
	assert.Equal(t, stored.Status, stored.StatusHistory[len(stored.StatusHistory)-1].Status)
}

func TestClassify(t *testing.T) {
	svc, _ := newTestIssueService(t)

	category, priority := svc.Classify("Urgent: water pipe burst, flooding the road")
	assert.Equal(t, models.CategoryWater, category)
	assert.Equal(t, models.PriorityUrgent, priority)

	category, priority = svc.Classify("")
	assert.Equal(t, models.CategoryOther, category)
	assert.Equal(t, models.PriorityLow, priority)
}
