package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/civic_issue_tracker/internal/models"
	"github.com/shenikar/civic_issue_tracker/internal/service"
)

// resolutionDays длительность решения в днях
const resolutionDays = `EXTRACT(EPOCH FROM (resolution_date - created_at)) / 86400.0`

type AnalyticsRepository struct {
	db *pgxpool.Pool
}

func NewAnalyticsRepository(db *pgxpool.Pool) service.AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

func (r *AnalyticsRepository) StatusCounts(ctx context.Context) (map[models.IssueStatus]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM issues GROUP BY status;`)
	if err != nil {
		return nil, wrapErr("failed to count statuses", err)
	}
	defer rows.Close()

	counts := make(map[models.IssueStatus]int64)
	for rows.Next() {
		var status models.IssueStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, wrapErr("failed to scan status count", err)
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("error status count iteration", err)
	}
	return counts, nil
}

func (r *AnalyticsRepository) CategoryCounts(ctx context.Context) ([]models.CategoryCount, error) {
	rows, err := r.db.Query(ctx, `
		SELECT category, COUNT(*) AS cnt
		FROM issues
		GROUP BY category
		ORDER BY cnt DESC, category;`)
	if err != nil {
		return nil, wrapErr("failed to count categories", err)
	}
	defer rows.Close()

	counts := make([]models.CategoryCount, 0)
	for rows.Next() {
		var c models.CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, wrapErr("failed to scan category count", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("error category count iteration", err)
	}
	return counts, nil
}

// ResolutionTimes среднее, минимум и максимум времени решения
func (r *AnalyticsRepository) ResolutionTimes(ctx context.Context) (models.ResolutionTime, error) {
	var rt models.ResolutionTime
	err := r.db.QueryRow(ctx, `
		SELECT
			COALESCE(AVG(`+resolutionDays+`), 0)::float8,
			COALESCE(MIN(`+resolutionDays+`), 0)::float8,
			COALESCE(MAX(`+resolutionDays+`), 0)::float8
		FROM issues
		WHERE status = 'resolved' AND resolution_date IS NOT NULL;`,
	).Scan(&rt.Average, &rt.Min, &rt.Max)
	if err != nil {
		return rt, wrapErr("failed to compute resolution times", err)
	}
	return rt, nil
}

func (r *AnalyticsRepository) UserCounts(ctx context.Context) (models.UserCounts, error) {
	var uc models.UserCounts
	err := r.db.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE role = 'citizen'),
			COUNT(*) FILTER (WHERE role = 'government')
		FROM users;`,
	).Scan(&uc.Total, &uc.Citizens, &uc.Government)
	if err != nil {
		return uc, wrapErr("failed to count users", err)
	}
	return uc, nil
}

// TopDepartments отделы с наибольшим числом решенных заявок
func (r *AnalyticsRepository) TopDepartments(ctx context.Context, limit int) ([]models.DepartmentPerformance, error) {
	rows, err := r.db.Query(ctx, `
		SELECT department, COUNT(*) AS resolved, COALESCE(AVG(`+resolutionDays+`), 0)::float8
		FROM issues
		WHERE status = 'resolved' AND department <> ''
		GROUP BY department
		ORDER BY resolved DESC, department
		LIMIT $1;`, limit)
	if err != nil {
		return nil, wrapErr("failed to rank departments", err)
	}
	defer rows.Close()

	out := make([]models.DepartmentPerformance, 0, limit)
	for rows.Next() {
		var d models.DepartmentPerformance
		if err := rows.Scan(&d.Department, &d.ResolvedCount, &d.AvgResolutionDays); err != nil {
			return nil, wrapErr("failed to scan department row", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("error department iteration", err)
	}
	return out, nil
}

func (r *AnalyticsRepository) DepartmentStats(ctx context.Context) ([]models.DepartmentStats, error) {
	rows, err := r.db.Query(ctx, `
		SELECT
			department,
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'resolved'),
			COUNT(*) FILTER (WHERE status = 'in-progress'),
			COUNT(*) FILTER (WHERE status = 'submitted'),
			(AVG(`+resolutionDays+`) FILTER (WHERE status = 'resolved'))::float8
		FROM issues
		WHERE department <> ''
		GROUP BY department
		ORDER BY department;`)
	if err != nil {
		return nil, wrapErr("failed to compute department stats", err)
	}
	defer rows.Close()

	out := make([]models.DepartmentStats, 0)
	for rows.Next() {
		var d models.DepartmentStats
		if err := rows.Scan(&d.Department, &d.Total, &d.Resolved, &d.InProgress, &d.Pending, &d.AvgResolutionDays); err != nil {
			return nil, wrapErr("failed to scan department stats", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("error department stats iteration", err)
	}
	return out, nil
}

// Leaderboard граждане по убыванию очков
func (r *AnalyticsRepository) Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT u.id, u.name, u.points, COUNT(b.name)
		FROM users u
		LEFT JOIN user_badges b ON b.user_id = u.id
		WHERE u.role = 'citizen'
		GROUP BY u.id
		ORDER BY u.points DESC, u.name
		LIMIT $1;`, limit)
	if err != nil {
		return nil, wrapErr("failed to load leaderboard", err)
	}
	defer rows.Close()

	out := make([]models.LeaderboardEntry, 0, limit)
	for rows.Next() {
		var e models.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Name, &e.Points, &e.Badges); err != nil {
			return nil, wrapErr("failed to scan leaderboard row", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("error leaderboard iteration", err)
	}
	return out, nil
}

// trendBucket подпись интервала тренда: день или неделя как YYYY-MM-DD, месяц как YYYY-MM
func trendBucket(g models.TrendGranularity) string {
	format := "YYYY-MM-DD"
	if g == models.GranularityMonth {
		format = "YYYY-MM"
	}
	return fmt.Sprintf("to_char(date_trunc('%s', created_at AT TIME ZONE 'UTC'), '%s')", g, format)
}

// IssueTrend заявки окна по интервалам и текущему статусу
func (r *AnalyticsRepository) IssueTrend(ctx context.Context, window models.TrendWindow) ([]models.TrendPoint, error) {
	rows, err := r.db.Query(ctx, `
		SELECT
			`+trendBucket(window.Granularity)+` AS bucket,
			COUNT(*) FILTER (WHERE status = 'submitted'),
			COUNT(*) FILTER (WHERE status = 'in-progress'),
			COUNT(*) FILTER (WHERE status = 'resolved'),
			COUNT(*)
		FROM issues
		WHERE created_at >= $1 AND created_at <= $2
		GROUP BY bucket
		ORDER BY bucket;`,
		window.Start, window.End,
	)
	if err != nil {
		return nil, wrapErr("failed to build issue trend", err)
	}
	defer rows.Close()

	points := make([]models.TrendPoint, 0)
	for rows.Next() {
		var p models.TrendPoint
		if err := rows.Scan(&p.Date, &p.Submitted, &p.InProgress, &p.Resolved, &p.Total); err != nil {
			return nil, wrapErr("failed to scan trend row", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("error trend iteration", err)
	}
	return points, nil
}

// CategoryTrend заявки окна по интервалам и категориям, внутри интервала по убыванию
func (r *AnalyticsRepository) CategoryTrend(ctx context.Context, window models.TrendWindow) ([]models.CategoryTrendPoint, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+trendBucket(window.Granularity)+` AS bucket, category, COUNT(*) AS cnt
		FROM issues
		WHERE created_at >= $1 AND created_at <= $2
		GROUP BY bucket, category
		ORDER BY bucket, cnt DESC, category;`,
		window.Start, window.End,
	)
	if err != nil {
		return nil, wrapErr("failed to build category trend", err)
	}
	defer rows.Close()

	points := make([]models.CategoryTrendPoint, 0)
	for rows.Next() {
		var (
			bucket string
			c      models.CategoryCount
		)
		if err := rows.Scan(&bucket, &c.Category, &c.Count); err != nil {
			return nil, wrapErr("failed to scan category trend row", err)
		}
		if n := len(points); n == 0 || points[n-1].Date != bucket {
			points = append(points, models.CategoryTrendPoint{Date: bucket})
		}
		last := &points[len(points)-1]
		last.Categories = append(last.Categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("error category trend iteration", err)
	}
	return points, nil
}

// HeatmapIssues свежие заявки выборки с координатами
func (r *AnalyticsRepository) HeatmapIssues(ctx context.Context, filter models.HeatmapFilter, limit int) ([]models.HeatPoint, error) {
	where, args := buildHeatmapWhere(filter)
	args = append(args, limit)
	rows, err := r.db.Query(ctx, fmt.Sprintf(`
		SELECT id, ST_Y(location::geometry), ST_X(location::geometry), category, status, priority, votes
		FROM issues%s
		ORDER BY created_at DESC
		LIMIT $%d;`, where, len(args)),
		args...,
	)
	if err != nil {
		return nil, wrapErr("failed to load heatmap issues", err)
	}
	defer rows.Close()

	points := make([]models.HeatPoint, 0)
	for rows.Next() {
		var p models.HeatPoint
		if err := rows.Scan(&p.IssueID, &p.Latitude, &p.Longitude, &p.Category, &p.Status, &p.Priority, &p.Votes); err != nil {
			return nil, wrapErr("failed to scan heatmap row", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("error heatmap iteration", err)
	}
	return points, nil
}

func buildHeatmapWhere(f models.HeatmapFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.Bounds != nil {
		args = append(args, f.Bounds.West, f.Bounds.South, f.Bounds.East, f.Bounds.North)
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"ST_Intersects(location::geometry, ST_MakeEnvelope($%d, $%d, $%d, $%d, 4326))", n-3, n-2, n-1, n))
	}
	if f.Category != "" {
		add("category = $%d", f.Category)
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.From != nil {
		add("created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("created_at <= $%d", *f.To)
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
