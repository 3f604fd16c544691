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

type NotificationRepository struct {
	notifications *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) service.NotificationRepository {
	return &NotificationRepository{notifications: db.Collection(notificationsCollection)}
}

func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if _, err := r.notifications.InsertOne(ctx, toNotificationDocument(n)); err != nil {
		return wrapErr("failed to create notification", err)
	}
	return nil
}

// CreateMany вставляет пачку уведомлений; порядок вставки не важен
func (r *NotificationRepository) CreateMany(ctx context.Context, notifications []*models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	docs := make([]any, 0, len(notifications))
	for _, n := range notifications {
		docs = append(docs, toNotificationDocument(n))
	}
	if _, err := r.notifications.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false)); err != nil {
		return wrapErr("failed to create notifications", err)
	}
	return nil
}

func (r *NotificationRepository) List(ctx context.Context, recipient uuid.UUID, unreadOnly bool, page, pageSize int) ([]*models.Notification, int64, error) {
	filter := bson.M{"recipient": recipient.String()}
	if unreadOnly {
		filter["isRead"] = false
	}

	total, err := r.notifications.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, wrapErr("failed to count notifications", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))
	cursor, err := r.notifications.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, wrapErr("failed to list notifications", err)
	}
	defer cursor.Close(ctx)

	var docs []notificationDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, wrapErr("failed to decode notifications", err)
	}
	out := make([]*models.Notification, 0, len(docs))
	for i := range docs {
		n, err := docs[i].toModel()
		if err != nil {
			return nil, 0, err
		}
		out = append(out, n)
	}
	return out, total, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, recipient uuid.UUID) (int64, error) {
	n, err := r.notifications.CountDocuments(ctx, bson.M{"recipient": recipient.String(), "isRead": false})
	if err != nil {
		return 0, wrapErr("failed to count unread notifications", err)
	}
	return n, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, recipient uuid.UUID, ids []uuid.UUID) (int64, error) {
	filter := recipientFilter(recipient, ids)
	filter["isRead"] = false
	res, err := r.notifications.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"isRead": true}})
	if err != nil {
		return 0, wrapErr("failed to mark notifications read", err)
	}
	return res.ModifiedCount, nil
}

func (r *NotificationRepository) Delete(ctx context.Context, recipient uuid.UUID, ids []uuid.UUID) (int64, error) {
	res, err := r.notifications.DeleteMany(ctx, recipientFilter(recipient, ids))
	if err != nil {
		return 0, wrapErr("failed to delete notifications", err)
	}
	return res.DeletedCount, nil
}

// recipientFilter пустой ids - все уведомления получателя
func recipientFilter(recipient uuid.UUID, ids []uuid.UUID) bson.M {
	filter := bson.M{"recipient": recipient.String()}
	if len(ids) > 0 {
		filter["_id"] = bson.M{"$in": uuidStrings(ids)}
	}
	return filter
}
