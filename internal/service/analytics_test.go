package service

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/civic_issue_tracker/internal/models"
	"github.com/shenikar/civic_issue_tracker/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestAnalyticsService(t *testing.T) (AnalyticsService, *mocks.MockAnalyticsRepository) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockAnalyticsRepository(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	svc := NewAnalyticsService(repo, logger).(*analyticsService)
	svc.now = func() time.Time { return fixedNow }
	return svc, repo
}

func TestOverview_Success(t *testing.T) {
	svc, repo := newTestAnalyticsService(t)

	repo.EXPECT().StatusCounts(gomock.Any()).Return(map[models.IssueStatus]int64{
		models.StatusSubmitted: 4,
		models.StatusResolved:  2,
	}, nil).Times(1)
	repo.EXPECT().CategoryCounts(gomock.Any()).Return([]models.CategoryCount{{Category: models.CategoryWater, Count: 6}}, nil).Times(1)
	repo.EXPECT().ResolutionTimes(gomock.Any()).Return(models.ResolutionTime{Average: 1.23456, Min: 0.5, Max: 2.0049}, nil).Times(1)
	repo.EXPECT().UserCounts(gomock.Any()).Return(models.UserCounts{Total: 3, Citizens: 2, Government: 1}, nil).Times(1)
	repo.EXPECT().TopDepartments(gomock.Any(), topDepartmentsLimit).Return([]models.DepartmentPerformance{
		{Department: "Water Supply", ResolvedCount: 2, AvgResolutionDays: 1.23456},
	}, nil).Times(1)

	overview, err := svc.Overview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(6), overview.Total)
	assert.Equal(t, int64(0), overview.StatusCounts[models.StatusRejected])
	assert.Len(t, overview.StatusCounts, len(models.Statuses))
	assert.InDelta(t, 33.33, overview.ResolutionRate, 0.001)
	assert.Equal(t, models.ResolutionTime{Average: 1.23, Min: 0.5, Max: 2.0}, overview.ResolutionTime)
	assert.Equal(t, int64(2), overview.Users.Citizens)
	require.Len(t, overview.Departments, 1)
	assert.InDelta(t, 1.23, overview.Departments[0].AvgResolutionDays, 0.001)
}

func TestOverview_EmptyStore(t *testing.T) {
	svc, repo := newTestAnalyticsService(t)

	repo.EXPECT().StatusCounts(gomock.Any()).Return(map[models.IssueStatus]int64{}, nil)
	repo.EXPECT().CategoryCounts(gomock.Any()).Return(nil, nil)
	repo.EXPECT().ResolutionTimes(gomock.Any()).Return(models.ResolutionTime{}, nil)
	repo.EXPECT().UserCounts(gomock.Any()).Return(models.UserCounts{}, nil)
	repo.EXPECT().TopDepartments(gomock.Any(), gomock.Any()).Return(nil, nil)

	overview, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), overview.Total)
	assert.Equal(t, 0.0, overview.ResolutionRate)
}

func TestOverview_AnyAggregateErrorFails(t *testing.T) {
	svc, repo := newTestAnalyticsService(t)

	repo.EXPECT().StatusCounts(gomock.Any()).Return(nil, fmt.Errorf("aggregate: %w", models.ErrStorage)).AnyTimes()
	repo.EXPECT().CategoryCounts(gomock.Any()).Return(nil, nil).AnyTimes()
	repo.EXPECT().ResolutionTimes(gomock.Any()).Return(models.ResolutionTime{}, nil).AnyTimes()
	repo.EXPECT().UserCounts(gomock.Any()).Return(models.UserCounts{}, nil).AnyTimes()
	repo.EXPECT().TopDepartments(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

	_, err := svc.Overview(context.Background())
	assert.ErrorIs(t, err, models.ErrStorage)
}

func TestDepartmentMetrics_ComputesRates(t *testing.T) {
	svc, repo := newTestAnalyticsService(t)
	avg := 3.14159
	repo.EXPECT().DepartmentStats(gomock.Any()).Return([]models.DepartmentStats{
		{Department: "Sanitation", Total: 8, Resolved: 2, InProgress: 3, Pending: 3, AvgResolutionDays: &avg},
		{Department: "Traffic Police", Total: 0},
	}, nil).Times(1)

	stats, err := svc.DepartmentMetrics(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, 25.0, stats[0].ResolutionRate)
	require.NotNil(t, stats[0].AvgResolutionDays)
	assert.Equal(t, 3.14, *stats[0].AvgResolutionDays)
	assert.Equal(t, 0.0, stats[1].ResolutionRate)
	assert.Nil(t, stats[1].AvgResolutionDays)
}

func TestLeaderboard_ClampsLimit(t *testing.T) {
	svc, repo := newTestAnalyticsService(t)
	entries := []models.LeaderboardEntry{{UserID: uuid.New(), Name: "Asha", Points: 42, Badges: 1}}

	repo.EXPECT().Leaderboard(gomock.Any(), defaultLeaderboardLimit).Return(entries, nil).Times(2)
	repo.EXPECT().Leaderboard(gomock.Any(), 3).Return(entries[:1], nil).Times(1)

	got, err := svc.Leaderboard(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, entries, got)

	_, err = svc.Leaderboard(context.Background(), 1000)
	require.NoError(t, err)

	_, err = svc.Leaderboard(context.Background(), 3)
	require.NoError(t, err)
}

func TestTrendWindow(t *testing.T) {
	day := 24 * time.Hour
	from := fixedNow.Add(-10 * day)

	tests := []struct {
		name        string
		query       models.TrendQuery
		start       time.Time
		end         time.Time
		period      string
		granularity models.TrendGranularity
	}{
		{"default is last month by day", models.TrendQuery{}, fixedNow.AddDate(0, 0, -30), fixedNow, models.TrendPeriodMonth, models.GranularityDay},
		{"week by day", models.TrendQuery{Period: "week"}, fixedNow.AddDate(0, 0, -7), fixedNow, models.TrendPeriodWeek, models.GranularityDay},
		{"quarter by week", models.TrendQuery{Period: "quarter"}, fixedNow.AddDate(0, 0, -90), fixedNow, models.TrendPeriodQuarter, models.GranularityWeek},
		{"year by month", models.TrendQuery{Period: "year"}, fixedNow.AddDate(0, -12, 0), fixedNow, models.TrendPeriodYear, models.GranularityMonth},
		{"short range by day", models.TrendQuery{From: &from, To: &fixedNow}, from, fixedNow, "custom", models.GranularityDay},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := trendWindow(tt.query, fixedNow)
			require.NoError(t, err)
			assert.Equal(t, tt.start, w.Start)
			assert.Equal(t, tt.end, w.End)
			assert.Equal(t, tt.period, w.Period)
			assert.Equal(t, tt.granularity, w.Granularity)
		})
	}
}

func TestTrendWindow_RangeGranularity(t *testing.T) {
	day := 24 * time.Hour
	granularity := func(span time.Duration) models.TrendGranularity {
		from := fixedNow.Add(-span)
		w, err := trendWindow(models.TrendQuery{From: &from, To: &fixedNow}, fixedNow)
		require.NoError(t, err)
		return w.Granularity
	}
	assert.Equal(t, models.GranularityDay, granularity(14*day))
	assert.Equal(t, models.GranularityWeek, granularity(15*day))
	assert.Equal(t, models.GranularityWeek, granularity(90*day))
	assert.Equal(t, models.GranularityMonth, granularity(91*day))
}

func TestTrendWindow_Invalid(t *testing.T) {
	earlier := fixedNow.Add(-time.Hour)
	tooEarly := fixedNow.AddDate(-3, 0, 0)
	tests := []struct {
		name  string
		query models.TrendQuery
	}{
		{"unknown period", models.TrendQuery{Period: "decade"}},
		{"from without to", models.TrendQuery{From: &earlier}},
		{"to before from", models.TrendQuery{From: &fixedNow, To: &earlier}},
		{"range too long", models.TrendQuery{From: &tooEarly, To: &fixedNow}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := trendWindow(tt.query, fixedNow)
			assert.ErrorIs(t, err, models.ErrValidation)
		})
	}
}

func TestTrends_Success(t *testing.T) {
	svc, repo := newTestAnalyticsService(t)
	window := models.TrendWindow{Start: fixedNow.AddDate(0, 0, -7), End: fixedNow, Period: "week", Granularity: models.GranularityDay}

	repo.EXPECT().IssueTrend(gomock.Any(), window).
		Return([]models.TrendPoint{{Date: "2024-05-09", Submitted: 2, Resolved: 1, Total: 3}}, nil).Times(1)
	repo.EXPECT().CategoryTrend(gomock.Any(), window).
		Return([]models.CategoryTrendPoint{{Date: "2024-05-09", Categories: []models.CategoryCount{{Category: models.CategoryPothole, Count: 3}}}}, nil).Times(1)

	trends, err := svc.Trends(context.Background(), models.TrendQuery{Period: "week"})
	require.NoError(t, err)
	assert.Equal(t, window, trends.Window)
	require.Len(t, trends.Issues, 1)
	assert.Equal(t, int64(3), trends.Issues[0].Total)
	require.Len(t, trends.Categories, 1)
}

func TestTrends_InvalidPeriodSkipsRepository(t *testing.T) {
	svc, repo := newTestAnalyticsService(t)
	repo.EXPECT().IssueTrend(gomock.Any(), gomock.Any()).Times(0)
	repo.EXPECT().CategoryTrend(gomock.Any(), gomock.Any()).Times(0)

	_, err := svc.Trends(context.Background(), models.TrendQuery{Period: "fortnight"})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestTrends_RepositoryError(t *testing.T) {
	svc, repo := newTestAnalyticsService(t)
	repo.EXPECT().IssueTrend(gomock.Any(), gomock.Any()).Return(nil, fmt.Errorf("trend: %w", models.ErrStorage)).Times(1)
	repo.EXPECT().CategoryTrend(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

	_, err := svc.Trends(context.Background(), models.TrendQuery{})
	assert.ErrorIs(t, err, models.ErrStorage)
}

func TestHeatmap_WeightsAndCounts(t *testing.T) {
	svc, repo := newTestAnalyticsService(t)
	filter := models.HeatmapFilter{Bounds: &models.GeoBounds{North: 13.1, South: 12.8, East: 77.8, West: 77.4}}

	repo.EXPECT().HeatmapIssues(gomock.Any(), filter, heatmapPointLimit).Return([]models.HeatPoint{
		{IssueID: uuid.New(), Category: models.CategoryPothole, Status: models.StatusSubmitted, Priority: models.PriorityHigh, Votes: 10},
		{IssueID: uuid.New(), Category: models.CategoryPothole, Status: models.StatusResolved, Priority: models.PriorityLow},
		{IssueID: uuid.New(), Category: models.CategoryWater, Status: models.StatusInProgress, Priority: models.PriorityMedium, Votes: 40},
	}, nil).Times(1)

	heatmap, err := svc.Heatmap(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, 3, heatmap.Total)
	for _, p := range heatmap.Points {
		assert.GreaterOrEqual(t, p.Intensity, 0.5)
	}
	assert.Greater(t, heatmap.Points[0].Intensity, heatmap.Points[1].Intensity)
	assert.Equal(t, []models.CategoryCount{
		{Category: models.CategoryPothole, Count: 2},
		{Category: models.CategoryWater, Count: 1},
	}, heatmap.CategoryCounts)
	assert.Equal(t, int64(1), heatmap.StatusCounts[models.StatusSubmitted])
	assert.Equal(t, int64(0), heatmap.StatusCounts[models.StatusRejected])
}

func TestHeatmap_InvalidBounds(t *testing.T) {
	tests := []struct {
		name   string
		bounds models.GeoBounds
	}{
		{"south above north", models.GeoBounds{North: 10, South: 11, East: 78, West: 77}},
		{"west right of east", models.GeoBounds{North: 13, South: 12, East: 77, West: 78}},
		{"latitude out of range", models.GeoBounds{North: 95, South: 12, East: 78, West: 77}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestAnalyticsService(t)
			repo.EXPECT().HeatmapIssues(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

			bounds := tt.bounds
			_, err := svc.Heatmap(context.Background(), models.HeatmapFilter{Bounds: &bounds})
			assert.ErrorIs(t, err, models.ErrValidation)
		})
	}
}
