package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/civic_issue_tracker/internal/models"
	"github.com/shenikar/civic_issue_tracker/internal/service"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserRepository struct {
	users *mongo.Collection
	now   func() time.Time
}

func NewUserRepository(db *mongo.Database) service.UserRepository {
	return &UserRepository{
		users: db.Collection(usersCollection),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Create сохраняет пользователя; уникальные индексы email/phone дают ErrConflict
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if _, err := r.users.InsertOne(ctx, toUserDocument(user)); err != nil {
		return wrapErr("failed to create user", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id.String()}, "id")
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email}, "email")
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M, by string) (*models.User, error) {
	var doc userDocument
	if err := r.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, wrapErr(fmt.Sprintf("user by %s", by), err)
	}
	return doc.toModel()
}

// AddPoints одно обновление: ключ в pointKeys защищает от повторного начисления
func (r *UserRepository) AddPoints(ctx context.Context, userID uuid.UUID, delta int, key string) (bool, error) {
	res, err := r.users.UpdateOne(ctx,
		bson.M{"_id": userID.String(), "pointKeys": bson.M{"$ne": key}},
		bson.M{
			"$inc":  bson.M{"points": delta},
			"$push": bson.M{"pointKeys": key},
			"$set":  bson.M{"updatedAt": r.now()},
		},
	)
	if err != nil {
		return false, wrapErr("failed to add points", err)
	}
	if res.MatchedCount == 1 {
		return true, nil
	}
	return false, r.ensureExists(ctx, userID)
}

// AwardBadge добавляет значок, если значка с таким именем еще нет
func (r *UserRepository) AwardBadge(ctx context.Context, userID uuid.UUID, badge models.Badge) (bool, error) {
	res, err := r.users.UpdateOne(ctx,
		bson.M{"_id": userID.String(), "badges.name": bson.M{"$ne": badge.Name}},
		bson.M{
			"$push": bson.M{"badges": badgeDocument(badge)},
			"$set":  bson.M{"updatedAt": r.now()},
		},
	)
	if err != nil {
		return false, wrapErr("failed to award badge", err)
	}
	if res.MatchedCount == 1 {
		return true, nil
	}
	return false, r.ensureExists(ctx, userID)
}

func (r *UserRepository) ensureExists(ctx context.Context, userID uuid.UUID) error {
	n, err := r.users.CountDocuments(ctx, bson.M{"_id": userID.String()})
	if err != nil {
		return wrapErr("failed to check user", err)
	}
	if n == 0 {
		return fmt.Errorf("user %s: %w", userID, models.ErrNotFound)
	}
	return nil
}
