package mongodb

import (
	"context"

	"github.com/google/uuid"
	"github.com/shenikar/civic_issue_tracker/internal/models"
	"github.com/shenikar/civic_issue_tracker/internal/service"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// resolutionDays выражение: дни между созданием и решением
var resolutionDays = bson.M{
	"$divide": bson.A{
		bson.M{"$subtract": bson.A{"$resolutionDetails.resolutionDate", "$createdAt"}},
		86400000,
	},
}

var resolvedWithDate = bson.M{
	"status":                           models.StatusResolved,
	"resolutionDetails.resolutionDate": bson.M{"$exists": true},
}

type AnalyticsRepository struct {
	issues *mongo.Collection
	users  *mongo.Collection
}

func NewAnalyticsRepository(db *mongo.Database) service.AnalyticsRepository {
	return &AnalyticsRepository{
		issues: db.Collection(issuesCollection),
		users:  db.Collection(usersCollection),
	}
}

func (r *AnalyticsRepository) StatusCounts(ctx context.Context) (map[models.IssueStatus]int64, error) {
	return groupCounts(ctx, r.issues, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	})
}

func (r *AnalyticsRepository) CategoryCounts(ctx context.Context) ([]models.CategoryCount, error) {
	var rows []countRow
	err := aggregate(ctx, r.issues, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$category", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}, &rows)
	if err != nil {
		return nil, err
	}
	out := make([]models.CategoryCount, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.CategoryCount{Category: models.IssueCategory(row.Key), Count: row.Count})
	}
	return out, nil
}

func (r *AnalyticsRepository) ResolutionTimes(ctx context.Context) (models.ResolutionTime, error) {
	var rows []struct {
		Avg float64 `bson:"avg"`
		Min float64 `bson:"min"`
		Max float64 `bson:"max"`
	}
	err := aggregate(ctx, r.issues, mongo.Pipeline{
		{{Key: "$match", Value: resolvedWithDate}},
		{{Key: "$project", Value: bson.M{"days": resolutionDays}}},
		{{Key: "$group", Value: bson.M{
			"_id": nil,
			"avg": bson.M{"$avg": "$days"},
			"min": bson.M{"$min": "$days"},
			"max": bson.M{"$max": "$days"},
		}}},
	}, &rows)
	if err != nil || len(rows) == 0 {
		return models.ResolutionTime{}, err
	}
	return models.ResolutionTime{Average: rows[0].Avg, Min: rows[0].Min, Max: rows[0].Max}, nil
}

func (r *AnalyticsRepository) UserCounts(ctx context.Context) (models.UserCounts, error) {
	var rows []countRow
	err := aggregate(ctx, r.users, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$role", "count": bson.M{"$sum": 1}}}},
	}, &rows)
	if err != nil {
		return models.UserCounts{}, err
	}
	var uc models.UserCounts
	for _, row := range rows {
		uc.Total += row.Count
		switch models.Role(row.Key) {
		case models.RoleCitizen:
			uc.Citizens = row.Count
		case models.RoleGovernment:
			uc.Government = row.Count
		}
	}
	return uc, nil
}

func (r *AnalyticsRepository) TopDepartments(ctx context.Context, limit int) ([]models.DepartmentPerformance, error) {
	var rows []struct {
		Department string  `bson:"_id"`
		Resolved   int64   `bson:"resolved"`
		AvgDays    float64 `bson:"avgDays"`
	}
	match := bson.M{"status": models.StatusResolved, "assignedTo.department": bson.M{"$ne": ""}}
	err := aggregate(ctx, r.issues, mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":      "$assignedTo.department",
			"resolved": bson.M{"$sum": 1},
			"avgDays":  bson.M{"$avg": resolutionDays},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "resolved", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: limit}},
	}, &rows)
	if err != nil {
		return nil, err
	}
	out := make([]models.DepartmentPerformance, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.DepartmentPerformance{
			Department:        row.Department,
			ResolvedCount:     row.Resolved,
			AvgResolutionDays: row.AvgDays,
		})
	}
	return out, nil
}

func (r *AnalyticsRepository) DepartmentStats(ctx context.Context) ([]models.DepartmentStats, error) {
	countIf := func(status models.IssueStatus) bson.M {
		return bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$status", status}}, 1, 0}}}
	}
	var rows []struct {
		Department string   `bson:"_id"`
		Total      int64    `bson:"total"`
		Resolved   int64    `bson:"resolved"`
		InProgress int64    `bson:"inProgress"`
		Pending    int64    `bson:"pending"`
		AvgDays    *float64 `bson:"avgDays"`
	}
	err := aggregate(ctx, r.issues, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"assignedTo.department": bson.M{"$ne": ""}}}},
		{{Key: "$group", Value: bson.M{
			"_id":        "$assignedTo.department",
			"total":      bson.M{"$sum": 1},
			"resolved":   countIf(models.StatusResolved),
			"inProgress": countIf(models.StatusInProgress),
			"pending":    countIf(models.StatusSubmitted),
			"avgDays": bson.M{"$avg": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$status", models.StatusResolved}}, resolutionDays, nil,
			}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}, &rows)
	if err != nil {
		return nil, err
	}
	out := make([]models.DepartmentStats, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.DepartmentStats{
			Department:        row.Department,
			Total:             row.Total,
			Resolved:          row.Resolved,
			InProgress:        row.InProgress,
			Pending:           row.Pending,
			AvgResolutionDays: row.AvgDays,
		})
	}
	return out, nil
}

func (r *AnalyticsRepository) Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "points", Value: -1}, {Key: "name", Value: 1}}).
		SetLimit(int64(limit)).
		SetProjection(bson.M{"name": 1, "points": 1, "badges": 1})
	cursor, err := r.users.Find(ctx, bson.M{"role": models.RoleCitizen}, opts)
	if err != nil {
		return nil, wrapErr("failed to load leaderboard", err)
	}
	defer cursor.Close(ctx)

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, wrapErr("failed to decode leaderboard", err)
	}
	out := make([]models.LeaderboardEntry, 0, len(docs))
	for _, doc := range docs {
		id, err := uuid.Parse(doc.ID)
		if err != nil {
			return nil, wrapErr("failed to decode leaderboard user", err)
		}
		out = append(out, models.LeaderboardEntry{UserID: id, Name: doc.Name, Points: doc.Points, Badges: len(doc.Badges)})
	}
	return out, nil
}

func aggregate(ctx context.Context, coll *mongo.Collection, pipeline mongo.Pipeline, out any) error {
	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return wrapErr("failed to run aggregation", err)
	}
	defer cursor.Close(ctx)
	if err := cursor.All(ctx, out); err != nil {
		return wrapErr("failed to decode aggregation", err)
	}
	return nil
}

type trendRow struct {
	Date       string `bson:"_id"`
	Submitted  int64  `bson:"submitted"`
	InProgress int64  `bson:"inProgress"`
	Resolved   int64  `bson:"resolved"`
	Total      int64  `bson:"total"`
}

type categoryTrendRow struct {
	Key struct {
		Date     string               `bson:"date"`
		Category models.IssueCategory `bson:"category"`
	} `bson:"_id"`
	Count int64 `bson:"count"`
}

// trendBucket подпись интервала тренда; недели начинаются с понедельника
func trendBucket(g models.TrendGranularity) bson.M {
	format := "%Y-%m-%d"
	if g == models.GranularityMonth {
		format = "%Y-%m"
	}
	return bson.M{
		"$dateToString": bson.M{
			"format": format,
			"date": bson.M{
				"$dateTrunc": bson.M{"date": "$createdAt", "unit": string(g), "startOfWeek": "monday"},
			},
		},
	}
}

func countIf(status models.IssueStatus) bson.M {
	return bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$status", status}}, 1, 0}}}
}

func windowMatch(window models.TrendWindow) bson.D {
	return bson.D{{Key: "$match", Value: bson.M{
		"createdAt": bson.M{"$gte": window.Start, "$lte": window.End},
	}}}
}

func (r *AnalyticsRepository) IssueTrend(ctx context.Context, window models.TrendWindow) ([]models.TrendPoint, error) {
	var rows []trendRow
	err := aggregate(ctx, r.issues, mongo.Pipeline{
		windowMatch(window),
		{{Key: "$group", Value: bson.M{
			"_id":        trendBucket(window.Granularity),
			"submitted":  countIf(models.StatusSubmitted),
			"inProgress": countIf(models.StatusInProgress),
			"resolved":   countIf(models.StatusResolved),
			"total":      bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}, &rows)
	if err != nil {
		return nil, err
	}
	out := make([]models.TrendPoint, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.TrendPoint{
			Date:       row.Date,
			Submitted:  row.Submitted,
			InProgress: row.InProgress,
			Resolved:   row.Resolved,
			Total:      row.Total,
		})
	}
	return out, nil
}

func (r *AnalyticsRepository) CategoryTrend(ctx context.Context, window models.TrendWindow) ([]models.CategoryTrendPoint, error) {
	var rows []categoryTrendRow
	err := aggregate(ctx, r.issues, mongo.Pipeline{
		windowMatch(window),
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"date": trendBucket(window.Granularity), "category": "$category"},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id.date", Value: 1}, {Key: "count", Value: -1}, {Key: "_id.category", Value: 1}}}},
	}, &rows)
	if err != nil {
		return nil, err
	}
	return foldCategoryTrend(rows), nil
}

// foldCategoryTrend собирает отсортированные по дате строки в точки
func foldCategoryTrend(rows []categoryTrendRow) []models.CategoryTrendPoint {
	out := make([]models.CategoryTrendPoint, 0)
	for _, row := range rows {
		if n := len(out); n == 0 || out[n-1].Date != row.Key.Date {
			out = append(out, models.CategoryTrendPoint{Date: row.Key.Date})
		}
		last := &out[len(out)-1]
		last.Categories = append(last.Categories, models.CategoryCount{Category: row.Key.Category, Count: row.Count})
	}
	return out
}

type heatDocument struct {
	ID       string               `bson:"_id"`
	Location geoPoint             `bson:"location"`
	Category models.IssueCategory `bson:"category"`
	Status   models.IssueStatus   `bson:"status"`
	Priority models.Priority      `bson:"priority"`
	Votes    int                  `bson:"votes"`
}

func (r *AnalyticsRepository) HeatmapIssues(ctx context.Context, filter models.HeatmapFilter, limit int) ([]models.HeatPoint, error) {
	opts := options.Find().
		SetProjection(bson.M{"location": 1, "category": 1, "status": 1, "priority": 1, "votes": 1}).
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.issues.Find(ctx, heatmapQuery(filter), opts)
	if err != nil {
		return nil, wrapErr("failed to load heatmap issues", err)
	}
	defer cursor.Close(ctx)

	var docs []heatDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, wrapErr("failed to decode heatmap issues", err)
	}
	out := make([]models.HeatPoint, 0, len(docs))
	for _, d := range docs {
		id, err := uuid.Parse(d.ID)
		if err != nil || len(d.Location.Coordinates) != 2 {
			return nil, wrapErr("failed to decode heatmap issue "+d.ID, models.ErrStorage)
		}
		out = append(out, models.HeatPoint{
			IssueID:   id,
			Latitude:  d.Location.Coordinates[1],
			Longitude: d.Location.Coordinates[0],
			Category:  d.Category,
			Status:    d.Status,
			Priority:  d.Priority,
			Votes:     d.Votes,
		})
	}
	return out, nil
}

func heatmapQuery(f models.HeatmapFilter) bson.M {
	query := bson.M{}
	if b := f.Bounds; b != nil {
		query["location"] = bson.M{
			"$geoWithin": bson.M{
				"$geometry": bson.M{
					"type": "Polygon",
					"coordinates": bson.A{bson.A{
						bson.A{b.West, b.South},
						bson.A{b.East, b.South},
						bson.A{b.East, b.North},
						bson.A{b.West, b.North},
						bson.A{b.West, b.South},
					}},
				},
			},
		}
	}
	if f.Category != "" {
		query["category"] = f.Category
	}
	if f.Status != "" {
		query["status"] = f.Status
	}
	if f.From != nil || f.To != nil {
		created := bson.M{}
		if f.From != nil {
			created["$gte"] = *f.From
		}
		if f.To != nil {
			created["$lte"] = *f.To
		}
		query["createdAt"] = created
	}
	return query
}
