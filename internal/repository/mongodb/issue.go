package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"github.com/shenikar/civic_issue_tracker/internal/models"
	"github.com/shenikar/civic_issue_tracker/internal/repository/dbretry"
	"github.com/shenikar/civic_issue_tracker/internal/service"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// earthRadiusMeters для перевода радиуса в радианы ($centerSphere)
const earthRadiusMeters = 6378100.0

// wrapErr переводит ошибки драйвера в ошибки предметной области
func wrapErr(op string, err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%s: %w", op, models.ErrConflict)
	}
	return fmt.Errorf("%s: %w: %w", op, models.ErrStorage, err)
}

type IssueRepository struct {
	issues *mongo.Collection
}

func NewIssueRepository(db *mongo.Database) service.IssueRepository {
	return &IssueRepository{issues: db.Collection(issuesCollection)}
}

func (r *IssueRepository) Create(ctx context.Context, issue *models.Issue) error {
	if _, err := r.issues.InsertOne(ctx, toIssueDocument(issue, 1)); err != nil {
		return wrapErr("failed to create issue", err)
	}
	return nil
}

func (r *IssueRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Issue, error) {
	doc, err := r.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return doc.toModel()
}

func (r *IssueRepository) find(ctx context.Context, id uuid.UUID) (*issueDocument, error) {
	var doc issueDocument
	if err := r.issues.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		return nil, wrapErr(fmt.Sprintf("issue %s", id), err)
	}
	return &doc, nil
}

// Mutate применяет fn с оптимистичной блокировкой по полю version
func (r *IssueRepository) Mutate(ctx context.Context, id uuid.UUID, fn func(issue *models.Issue) error) (*models.Issue, error) {
	return dbretry.Operation(ctx, dbretry.ConflictOnly, func(ctx context.Context) (*models.Issue, error) {
		doc, err := r.find(ctx, id)
		if err != nil {
			return nil, err
		}
		issue, err := doc.toModel()
		if err != nil {
			return nil, err
		}
		historyLen, votersLen := len(issue.StatusHistory), len(issue.Voters)

		if err := fn(issue); err != nil {
			return nil, err
		}
		if len(issue.StatusHistory) < historyLen || len(issue.Voters) < votersLen {
			return nil, fmt.Errorf("%w: status history and voters are append-only", models.ErrValidation)
		}

		res, err := r.issues.ReplaceOne(ctx,
			bson.M{"_id": doc.ID, "version": doc.Version},
			toIssueDocument(issue, doc.Version+1),
		)
		if err != nil {
			return nil, wrapErr("failed to update issue", err)
		}
		if res.MatchedCount == 0 {
			return nil, fmt.Errorf("issue %s: %w", id, dbretry.ErrConflict)
		}
		return issue, nil
	})
}

func (r *IssueRepository) List(ctx context.Context, filter models.IssueFilter) ([]*models.Issue, int64, error) {
	filter.Normalize()
	query := issueFilterQuery(filter)

	total, err := r.issues.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, wrapErr("failed to count issues", err)
	}

	opts := options.Find().
		SetSort(issueSort(filter)).
		SetSkip(int64(filter.Offset())).
		SetLimit(int64(filter.PageSize))
	cursor, err := r.issues.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, wrapErr("failed to list issues", err)
	}
	defer cursor.Close(ctx)

	var docs []issueDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, wrapErr("failed to decode issues", err)
	}

	issues := make([]*models.Issue, 0, len(docs))
	for i := range docs {
		issue, err := docs[i].toModel()
		if err != nil {
			return nil, 0, err
		}
		issues = append(issues, issue)
	}
	return issues, total, nil
}

// issueFilterQuery строит фильтр Mongo по параметрам выборки
func issueFilterQuery(f models.IssueFilter) bson.M {
	query := bson.M{}
	if f.Status != "" {
		query["status"] = f.Status
	}
	if f.Category != "" {
		query["category"] = f.Category
	}
	if f.Priority != "" {
		query["priority"] = f.Priority
	}
	if f.Department != "" {
		query["assignedTo.department"] = f.Department
	}
	if f.City != "" {
		query["city"] = exactInsensitive(f.City)
	}
	if f.State != "" {
		query["state"] = exactInsensitive(f.State)
	}
	if f.ReportedBy != nil {
		query["reportedBy"] = f.ReportedBy.String()
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
	if f.Near != nil {
		query["location"] = bson.M{
			"$geoWithin": bson.M{
				"$centerSphere": bson.A{
					bson.A{f.Near.Longitude, f.Near.Latitude},
					f.Near.RadiusMeters / earthRadiusMeters,
				},
			},
		}
	}
	return query
}

func exactInsensitive(s string) bson.M {
	return bson.M{"$regex": "^" + regexp.QuoteMeta(s) + "$", "$options": "i"}
}

func issueSort(f models.IssueFilter) bson.D {
	key := "createdAt"
	switch f.SortBy {
	case models.SortByUpdatedAt:
		key = "updatedAt"
	case models.SortByVotes:
		key = "votes"
	}
	dir := 1
	if f.SortDesc {
		dir = -1
	}
	return bson.D{{Key: key, Value: dir}, {Key: "_id", Value: 1}}
}

func (r *IssueRepository) CountByReporterAndStatus(ctx context.Context, reporterID uuid.UUID, status models.IssueStatus) (int64, error) {
	count, err := r.issues.CountDocuments(ctx, bson.M{"reportedBy": reporterID.String(), "status": status})
	if err != nil {
		return 0, wrapErr("failed to count reporter issues", err)
	}
	return count, nil
}

func (r *IssueRepository) StatusCountsByReporter(ctx context.Context, reporterID uuid.UUID) (map[models.IssueStatus]int64, error) {
	return groupCounts(ctx, r.issues, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"reportedBy": reporterID.String()}}},
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	})
}

type countRow struct {
	Key   string `bson:"_id"`
	Count int64  `bson:"count"`
}

// groupCounts выполняет агрегацию вида {_id: ключ, count: n}
func groupCounts(ctx context.Context, coll *mongo.Collection, pipeline mongo.Pipeline) (map[models.IssueStatus]int64, error) {
	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, wrapErr("failed to aggregate status counts", err)
	}
	defer cursor.Close(ctx)

	var rows []countRow
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, wrapErr("failed to decode status counts", err)
	}
	counts := make(map[models.IssueStatus]int64, len(rows))
	for _, row := range rows {
		counts[models.IssueStatus(row.Key)] = row.Count
	}
	return counts, nil
}

// NewAlertAudience источник адресатов оповещений поверх коллекции заявок
func NewAlertAudience(db *mongo.Database) service.AlertAudience {
	return &IssueRepository{issues: db.Collection(issuesCollection)}
}

// ReportersNear авторы заявок внутри круга, не больше limit
func (r *IssueRepository) ReportersNear(ctx context.Context, area models.GeoRadius, limit int) ([]uuid.UUID, error) {
	values, err := r.issues.Distinct(ctx, "reportedBy", issueFilterQuery(models.IssueFilter{Near: &area}))
	if err != nil {
		return nil, wrapErr("failed to find reporters near point", err)
	}
	if len(values) > limit {
		values = values[:limit]
	}

	var p uuidParser
	reporters := make([]uuid.UUID, 0, len(values))
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		reporters = append(reporters, p.parse(s))
	}
	if p.err != nil {
		return nil, fmt.Errorf("decode reporters: %w: %w", models.ErrStorage, p.err)
	}
	return reporters, nil
}
