package service

//go:generate mockgen -source=analytics.go -destination=mocks/analytics_mock.go -package=mocks

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/shenikar/civic_issue_tracker/internal/models"
	"github.com/shenikar/civic_issue_tracker/internal/scoring"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"
)

const (
	topDepartmentsLimit     = 5
	defaultLeaderboardLimit = 10
	// heatmapPointLimit ограничивает выдачу тепловой карты
	heatmapPointLimit = 5000
	// maxTrendRange самый длинный явный диапазон трендов
	maxTrendRange = 2 * 366 * 24 * time.Hour
)

// AnalyticsRepository агрегаты по заявкам и пользователям
type AnalyticsRepository interface {
	StatusCounts(ctx context.Context) (map[models.IssueStatus]int64, error)
	CategoryCounts(ctx context.Context) ([]models.CategoryCount, error)
	ResolutionTimes(ctx context.Context) (models.ResolutionTime, error)
	UserCounts(ctx context.Context) (models.UserCounts, error)
	TopDepartments(ctx context.Context, limit int) ([]models.DepartmentPerformance, error)
	DepartmentStats(ctx context.Context) ([]models.DepartmentStats, error)
	Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
	// IssueTrend и CategoryTrend группируют заявки окна по дате создания с шагом окна
	IssueTrend(ctx context.Context, window models.TrendWindow) ([]models.TrendPoint, error)
	CategoryTrend(ctx context.Context, window models.TrendWindow) ([]models.CategoryTrendPoint, error)
	// HeatmapIssues точки без интенсивности, не больше limit
	HeatmapIssues(ctx context.Context, filter models.HeatmapFilter, limit int) ([]models.HeatPoint, error)
}

type AnalyticsService interface {
	Overview(ctx context.Context) (*models.Overview, error)
	DepartmentMetrics(ctx context.Context) ([]models.DepartmentStats, error)
	Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
	Trends(ctx context.Context, query models.TrendQuery) (*models.Trends, error)
	Heatmap(ctx context.Context, filter models.HeatmapFilter) (*models.Heatmap, error)
}

type analyticsService struct {
	repo   AnalyticsRepository
	logger *logrus.Logger
	now    func() time.Time
}

func NewAnalyticsService(repo AnalyticsRepository, logger *logrus.Logger) AnalyticsService {
	return &analyticsService{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Overview собирает общую статистику; агрегаты считаются параллельно
func (s *analyticsService) Overview(ctx context.Context) (*models.Overview, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "analytics",
		"method":  "Overview",
	})

	var (
		statusCounts map[models.IssueStatus]int64
		categories   []models.CategoryCount
		resolution   models.ResolutionTime
		users        models.UserCounts
		departments  []models.DepartmentPerformance
	)

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) (err error) {
		statusCounts, err = s.repo.StatusCounts(ctx)
		return err
	})
	p.Go(func(ctx context.Context) (err error) {
		categories, err = s.repo.CategoryCounts(ctx)
		return err
	})
	p.Go(func(ctx context.Context) (err error) {
		resolution, err = s.repo.ResolutionTimes(ctx)
		return err
	})
	p.Go(func(ctx context.Context) (err error) {
		users, err = s.repo.UserCounts(ctx)
		return err
	})
	p.Go(func(ctx context.Context) (err error) {
		departments, err = s.repo.TopDepartments(ctx, topDepartmentsLimit)
		return err
	})
	if err := p.Wait(); err != nil {
		log.WithError(err).Error("Failed to build analytics overview")
		return nil, fmt.Errorf("service: could not build overview: %w", err)
	}

	counts := make(map[models.IssueStatus]int64, len(models.Statuses))
	var total int64
	for _, st := range models.Statuses {
		counts[st] = statusCounts[st]
		total += statusCounts[st]
	}

	overview := &models.Overview{
		StatusCounts:   counts,
		Total:          total,
		ResolutionRate: percent(counts[models.StatusResolved], total),
		CategoryCounts: categories,
		ResolutionTime: models.ResolutionTime{
			Average: round2(resolution.Average),
			Min:     round2(resolution.Min),
			Max:     round2(resolution.Max),
		},
		Users:       users,
		Departments: departments,
	}
	for i := range overview.Departments {
		overview.Departments[i].AvgResolutionDays = round2(overview.Departments[i].AvgResolutionDays)
	}
	return overview, nil
}

// DepartmentMetrics метрики по всем отделам
func (s *analyticsService) DepartmentMetrics(ctx context.Context) ([]models.DepartmentStats, error) {
	stats, err := s.repo.DepartmentStats(ctx)
	if err != nil {
		s.logger.WithError(err).WithField("method", "DepartmentMetrics").Error("Failed to load department stats")
		return nil, fmt.Errorf("service: could not load department metrics: %w", err)
	}
	for i := range stats {
		stats[i].ResolutionRate = percent(stats[i].Resolved, stats[i].Total)
		if stats[i].AvgResolutionDays != nil {
			v := round2(*stats[i].AvgResolutionDays)
			stats[i].AvgResolutionDays = &v
		}
	}
	return stats, nil
}

// Leaderboard рейтинг граждан по очкам
func (s *analyticsService) Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	if limit < 1 || limit > models.MaxPageSize {
		limit = defaultLeaderboardLimit
	}
	entries, err := s.repo.Leaderboard(ctx, limit)
	if err != nil {
		s.logger.WithError(err).WithField("method", "Leaderboard").Error("Failed to load leaderboard")
		return nil, fmt.Errorf("service: could not load leaderboard: %w", err)
	}
	return entries, nil
}

// Trends динамика подачи заявок по статусам и категориям
func (s *analyticsService) Trends(ctx context.Context, query models.TrendQuery) (*models.Trends, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "analytics",
		"method":  "Trends",
	})

	window, err := trendWindow(query, s.now())
	if err != nil {
		return nil, fmt.Errorf("service: could not build trends: %w", err)
	}

	var (
		issues     []models.TrendPoint
		categories []models.CategoryTrendPoint
	)
	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) (err error) {
		issues, err = s.repo.IssueTrend(ctx, window)
		return err
	})
	p.Go(func(ctx context.Context) (err error) {
		categories, err = s.repo.CategoryTrend(ctx, window)
		return err
	})
	if err := p.Wait(); err != nil {
		log.WithError(err).Error("Failed to build trends")
		return nil, fmt.Errorf("service: could not build trends: %w", err)
	}
	return &models.Trends{Window: window, Issues: issues, Categories: categories}, nil
}

// trendWindow выбирает диапазон и шаг. Явный диапазон: до 14 дней по дням, до 90 по неделям,
// дальше по месяцам. Период без диапазона отсчитывается от now, по умолчанию месяц.
func trendWindow(q models.TrendQuery, now time.Time) (models.TrendWindow, error) {
	if q.From != nil || q.To != nil {
		if q.From == nil || q.To == nil {
			return models.TrendWindow{}, fmt.Errorf("%w: from and to must be given together", models.ErrValidation)
		}
		span := q.To.Sub(*q.From)
		if span <= 0 {
			return models.TrendWindow{}, fmt.Errorf("%w: to must be after from", models.ErrValidation)
		}
		if span > maxTrendRange {
			return models.TrendWindow{}, fmt.Errorf("%w: range is limited to two years", models.ErrValidation)
		}
		w := models.TrendWindow{Start: q.From.UTC(), End: q.To.UTC(), Period: "custom", Granularity: models.GranularityMonth}
		switch days := span.Hours() / 24; {
		case days <= 14:
			w.Granularity = models.GranularityDay
		case days <= 90:
			w.Granularity = models.GranularityWeek
		}
		return w, nil
	}

	w := models.TrendWindow{End: now, Period: q.Period}
	switch q.Period {
	case models.TrendPeriodWeek:
		w.Start, w.Granularity = now.AddDate(0, 0, -7), models.GranularityDay
	case "", models.TrendPeriodMonth:
		w.Period = models.TrendPeriodMonth
		w.Start, w.Granularity = now.AddDate(0, 0, -30), models.GranularityDay
	case models.TrendPeriodQuarter:
		w.Start, w.Granularity = now.AddDate(0, 0, -90), models.GranularityWeek
	case models.TrendPeriodYear:
		w.Start, w.Granularity = now.AddDate(0, -12, 0), models.GranularityMonth
	default:
		return models.TrendWindow{}, fmt.Errorf("%w: unknown period %q", models.ErrValidation, q.Period)
	}
	return w, nil
}

// Heatmap точки заявок с весами и сводными счетчиками по выборке
func (s *analyticsService) Heatmap(ctx context.Context, filter models.HeatmapFilter) (*models.Heatmap, error) {
	if err := validateHeatmapFilter(filter); err != nil {
		return nil, fmt.Errorf("service: could not build heatmap: %w", err)
	}

	points, err := s.repo.HeatmapIssues(ctx, filter, heatmapPointLimit)
	if err != nil {
		s.logger.WithError(err).WithField("method", "Heatmap").Error("Failed to load heatmap points")
		return nil, fmt.Errorf("service: could not build heatmap: %w", err)
	}

	heatmap := &models.Heatmap{
		Points:         points,
		CategoryCounts: make([]models.CategoryCount, 0),
		StatusCounts:   make(map[models.IssueStatus]int64, len(models.Statuses)),
		Total:          len(points),
	}
	for _, st := range models.Statuses {
		heatmap.StatusCounts[st] = 0
	}
	byCategory := make(map[models.IssueCategory]int64)
	for i := range heatmap.Points {
		p := &heatmap.Points[i]
		p.Intensity = scoring.HeatIntensity(p.Priority, p.Votes, p.Status)
		heatmap.StatusCounts[p.Status]++
		byCategory[p.Category]++
	}
	for _, c := range models.Categories {
		if n := byCategory[c]; n > 0 {
			heatmap.CategoryCounts = append(heatmap.CategoryCounts, models.CategoryCount{Category: c, Count: n})
		}
	}
	return heatmap, nil
}

func validateHeatmapFilter(f models.HeatmapFilter) error {
	if b := f.Bounds; b != nil {
		switch {
		case b.North < -90 || b.North > 90 || b.South < -90 || b.South > 90:
			return fmt.Errorf("%w: latitude bounds out of range", models.ErrValidation)
		case b.East < -180 || b.East > 180 || b.West < -180 || b.West > 180:
			return fmt.Errorf("%w: longitude bounds out of range", models.ErrValidation)
		case b.South >= b.North:
			return fmt.Errorf("%w: south must be below north", models.ErrValidation)
		case b.West >= b.East:
			return fmt.Errorf("%w: west must be left of east", models.ErrValidation)
		}
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return fmt.Errorf("%w: to must not be before from", models.ErrValidation)
	}
	return nil
}

func percent(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(part) / float64(total) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
