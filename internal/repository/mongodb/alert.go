package mongodb

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shenikar/civic_issue_tracker/internal/models"
	"github.com/shenikar/civic_issue_tracker/internal/service"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const alertListLimit = 200

type AlertRepository struct {
	alerts *mongo.Collection
}

func NewAlertRepository(db *mongo.Database) service.AlertRepository {
	return &AlertRepository{alerts: db.Collection(alertsCollection)}
}

func (r *AlertRepository) Create(ctx context.Context, alert *models.Alert) error {
	if _, err := r.alerts.InsertOne(ctx, toAlertDocument(alert)); err != nil {
		return wrapErr("failed to create alert", err)
	}
	return nil
}

func (r *AlertRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Alert, error) {
	var doc alertDocument
	if err := r.alerts.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		return nil, wrapErr(fmt.Sprintf("alert %s", id), err)
	}
	return doc.toModel()
}

func (r *AlertRepository) Update(ctx context.Context, alert *models.Alert) error {
	doc := toAlertDocument(alert)
	set := bson.M{
		"title":        doc.Title,
		"description":  doc.Description,
		"severity":     doc.Severity,
		"severityRank": doc.SeverityRank,
		"isActive":     doc.IsActive,
		"updatedAt":    doc.UpdatedAt,
	}
	update := bson.M{"$set": set}
	if doc.EndTime != nil {
		set["endTime"] = *doc.EndTime
	} else {
		update["$unset"] = bson.M{"endTime": ""}
	}

	res, err := r.alerts.UpdateOne(ctx, bson.M{"_id": doc.ID}, update)
	if err != nil {
		return wrapErr("failed to update alert", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("alert with id %s not found for update: %w", alert.ID, models.ErrNotFound)
	}
	return nil
}

// ListActive активные оповещения; с точкой фильтра ищет через $near
func (r *AlertRepository) ListActive(ctx context.Context, filter models.AlertFilter) ([]*models.Alert, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "severityRank", Value: -1}, {Key: "startTime", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(alertListLimit)
	cursor, err := r.alerts.Find(ctx, alertFilterQuery(filter), opts)
	if err != nil {
		return nil, wrapErr("failed to list active alerts", err)
	}
	defer cursor.Close(ctx)

	var docs []alertDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, wrapErr("failed to decode alerts", err)
	}
	out := make([]*models.Alert, 0, len(docs))
	for i := range docs {
		a, err := docs[i].toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func alertFilterQuery(f models.AlertFilter) bson.M {
	query := bson.M{"isActive": true}
	if f.Type != "" {
		query["type"] = f.Type
	}
	if f.Near != nil {
		query["location"] = bson.M{
			"$near": bson.M{
				"$geometry": bson.M{
					"type":        "Point",
					"coordinates": bson.A{f.Near.Longitude, f.Near.Latitude},
				},
				"$maxDistance": f.Near.RadiusMeters,
			},
		}
	}
	return query
}
