package service

import (
	"bytes"
	"context"
	"fmt"
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

func newTestLedger(t *testing.T) (*EngagementLedger, *mocks.MockUserRepository, *mocks.MockIssueRepository) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserRepository(ctrl)
	issues := mocks.NewMockIssueRepository(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	ledger := NewEngagementLedger(users, issues, logger)
	ledger.now = func() time.Time { return fixedNow }
	return ledger, users, issues
}

// pointsBook повторяет идемпотентное начисление хранилища
type pointsBook struct {
	mu     sync.Mutex
	points map[uuid.UUID]int
	keys   map[string]bool
	badges map[uuid.UUID][]models.Badge
}

func newPointsBook() *pointsBook {
	return &pointsBook{
		points: make(map[uuid.UUID]int),
		keys:   make(map[string]bool),
		badges: make(map[uuid.UUID][]models.Badge),
	}
}

func (b *pointsBook) addPoints(_ context.Context, userID uuid.UUID, delta int, key string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.keys[key] {
		return false, nil
	}
	b.keys[key] = true
	b.points[userID] += delta
	return true, nil
}

func (b *pointsBook) awardBadge(_ context.Context, userID uuid.UUID, badge models.Badge) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, existing := range b.badges[userID] {
		if existing.Name == badge.Name {
			return false, nil
		}
	}
	b.badges[userID] = append(b.badges[userID], badge)
	return true, nil
}

func (b *pointsBook) pointsOf(id uuid.UUID) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.points[id]
}

func issueEvent(name events.Name, issueID, reporter uuid.UUID) events.Event {
	return events.Event{ID: uuid.New(), Name: name, IssueID: issueID, ReporterID: reporter, OccurredAt: fixedNow}
}

func TestLedger_CreatedAwardsReporterOnce(t *testing.T) {
	ledger, users, _ := newTestLedger(t)
	book := newPointsBook()
	users.EXPECT().AddPoints(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(book.addPoints).Times(2)

	reporter, issueID := uuid.New(), uuid.New()
	ev := issueEvent(events.IssueCreated, issueID, reporter)

	require.NoError(t, ledger.Handle(context.Background(), ev))
	require.NoError(t, ledger.Handle(context.Background(), ev))

	assert.Equal(t, models.PointsForReport, book.pointsOf(reporter))
	assert.True(t, book.keys[fmt.Sprintf("issue.created:%s", issueID)])
}

func TestLedger_UpvoteAwardsVoterNotReporter(t *testing.T) {
	ledger, users, _ := newTestLedger(t)
	book := newPointsBook()
	users.EXPECT().AddPoints(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(book.addPoints).Times(1)

	reporter, voter := uuid.New(), uuid.New()
	ev := issueEvent(events.IssueUpvoted, uuid.New(), reporter)
	ev.VoterID = &voter

	require.NoError(t, ledger.Handle(context.Background(), ev))

	assert.Equal(t, models.PointsForUpvote, book.pointsOf(voter))
	assert.Equal(t, 0, book.pointsOf(reporter))
}

func TestLedger_UpvoteWithoutVoterFails(t *testing.T) {
	ledger, users, _ := newTestLedger(t)
	users.EXPECT().AddPoints(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	err := ledger.Handle(context.Background(), issueEvent(events.IssueUpvoted, uuid.New(), uuid.New()))
	assert.Error(t, err)
}

func TestLedger_ResolvedAwardsOncePerIssueLifetime(t *testing.T) {
	ledger, users, issues := newTestLedger(t)
	book := newPointsBook()
	reporter, issueID := uuid.New(), uuid.New()

	users.EXPECT().AddPoints(gomock.Any(), reporter, models.PointsForResolution, fmt.Sprintf("issue.resolved:%s", issueID)).
		DoAndReturn(book.addPoints).Times(2)
	issues.EXPECT().CountByReporterAndStatus(gomock.Any(), reporter, models.StatusResolved).Return(int64(1), nil).Times(2)
	users.EXPECT().AwardBadge(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	// resolved -> reopened -> resolved: второе событие не начисляет
	require.NoError(t, ledger.Handle(context.Background(), issueEvent(events.IssueResolved, issueID, reporter)))
	require.NoError(t, ledger.Handle(context.Background(), issueEvent(events.IssueResolved, issueID, reporter)))

	assert.Equal(t, models.PointsForResolution, book.pointsOf(reporter))
}

func TestLedger_CivicChampionAtFifthResolution(t *testing.T) {
	ledger, users, issues := newTestLedger(t)
	book := newPointsBook()
	reporter := uuid.New()
	resolved := int64(0)

	users.EXPECT().AddPoints(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(book.addPoints).AnyTimes()
	issues.EXPECT().CountByReporterAndStatus(gomock.Any(), reporter, models.StatusResolved).
		DoAndReturn(func(context.Context, uuid.UUID, models.IssueStatus) (int64, error) {
			resolved++
			return resolved, nil
		}).Times(6)
	users.EXPECT().AwardBadge(gomock.Any(), reporter, gomock.Any()).DoAndReturn(book.awardBadge).Times(2)

	for i := 0; i < 6; i++ {
		require.NoError(t, ledger.Handle(context.Background(), issueEvent(events.IssueResolved, uuid.New(), reporter)))
	}

	assert.Equal(t, 6*models.PointsForResolution, book.pointsOf(reporter))
	require.Len(t, book.badges[reporter], 1)
	badge := book.badges[reporter][0]
	assert.Equal(t, models.CivicChampionBadge, badge.Name)
	assert.Equal(t, models.CivicChampionDescription, badge.Description)
	assert.Equal(t, fixedNow, badge.AwardedOn)
}

func TestLedger_StorageErrorIsReturned(t *testing.T) {
	ledger, users, _ := newTestLedger(t)
	users.EXPECT().AddPoints(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(false, fmt.Errorf("update: %w", models.ErrStorage)).Times(1)

	err := ledger.Handle(context.Background(), issueEvent(events.IssueCreated, uuid.New(), uuid.New()))
	assert.ErrorIs(t, err, models.ErrStorage)
}

func TestLedger_IgnoresOtherEvents(t *testing.T) {
	ledger, _, _ := newTestLedger(t)
	for _, name := range []events.Name{events.IssueStatusChanged, events.IssueAssigned, events.IssueProofAdded} {
		assert.NoError(t, ledger.Handle(context.Background(), issueEvent(name, uuid.New(), uuid.New())))
	}
}

func TestLedger_ConcurrentDuplicateResolvedEventsCreditOnce(t *testing.T) {
	ledger, users, issues := newTestLedger(t)
	book := newPointsBook()
	reporter, issueID := uuid.New(), uuid.New()

	users.EXPECT().AddPoints(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(book.addPoints).AnyTimes()
	issues.EXPECT().CountByReporterAndStatus(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(1), nil).AnyTimes()

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, ledger.Handle(context.Background(), issueEvent(events.IssueResolved, issueID, reporter)))
		}()
	}
	wg.Wait()

	assert.Equal(t, models.PointsForResolution, book.pointsOf(reporter))
}

func TestLedger_RegisterSubscribesThroughBus(t *testing.T) {
	ledger, users, _ := newTestLedger(t)
	book := newPointsBook()
	users.EXPECT().AddPoints(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(book.addPoints).Times(1)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	bus := events.NewBus(logger, time.Second)
	ledger.Register(bus)

	reporter := uuid.New()
	require.NoError(t, bus.Publish(context.Background(), issueEvent(events.IssueCreated, uuid.New(), reporter)))
	// статус без начислений: обработчик не подписан
	require.NoError(t, bus.Publish(context.Background(), issueEvent(events.IssueStatusChanged, uuid.New(), reporter)))
	bus.Close()

	assert.Equal(t, models.PointsForReport, book.pointsOf(reporter))
}

func TestLedger_AwardSurvivesCancelledRequest(t *testing.T) {
	ledger, users, _ := newTestLedger(t)
	book := newPointsBook()
	users.EXPECT().AddPoints(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, userID uuid.UUID, delta int, key string) (bool, error) {
			if err := ctx.Err(); err != nil {
				return false, err
			}
			return book.addPoints(ctx, userID, delta, key)
		}).Times(1)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	bus := events.NewBus(logger, time.Second)
	defer bus.Close()
	ledger.Register(bus)

	reporter := uuid.New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, bus.Publish(ctx, issueEvent(events.IssueCreated, uuid.New(), reporter)))
	assert.Equal(t, models.PointsForReport, book.pointsOf(reporter))
}
