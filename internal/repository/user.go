package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/civic_issue_tracker/internal/models"
	"github.com/shenikar/civic_issue_tracker/internal/repository/dbretry"
	"github.com/shenikar/civic_issue_tracker/internal/service"
)

const userColumns = `id, name, email, phone, password_hash, role, department, points, created_at, updated_at`

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) service.UserRepository {
	return &UserRepository{db: db}
}

// Create сохраняет пользователя; занятый email или телефон - ErrConflict
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, name, email, phone, password_hash, role, department, points, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.db.Exec(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.Phone,
		user.PasswordHash,
		user.Role,
		user.Department,
		user.Points,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return wrapErr("failed to create user", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.getBy(ctx, "id", id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *UserRepository) getBy(ctx context.Context, column string, value any) (*models.User, error) {
	user := &models.User{}
	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s = $1;`, userColumns, column)
	err := r.db.QueryRow(ctx, query, value).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Phone,
		&user.PasswordHash,
		&user.Role,
		&user.Department,
		&user.Points,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, wrapErr(fmt.Sprintf("user by %s", column), err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT name, description, awarded_on
		FROM user_badges
		WHERE user_id = $1
		ORDER BY awarded_on, name;`, user.ID)
	if err != nil {
		return nil, wrapErr("failed to load badges", err)
	}
	defer rows.Close()

	user.Badges = []models.Badge{}
	for rows.Next() {
		var badge models.Badge
		if err := rows.Scan(&badge.Name, &badge.Description, &badge.AwardedOn); err != nil {
			return nil, wrapErr("failed to scan badge row", err)
		}
		user.Badges = append(user.Badges, badge)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("error badge iteration", err)
	}
	return user, nil
}

// AddPoints начисляет очки один раз на ключ: запись в журнал и инкремент в одной транзакции
func (r *UserRepository) AddPoints(ctx context.Context, userID uuid.UUID, delta int, key string) (bool, error) {
	return dbretry.Operation(ctx, dbretry.PostgresRetryable, func(ctx context.Context) (bool, error) {
		tx, err := r.db.Begin(ctx)
		if err != nil {
			return false, wrapErr("failed to begin transaction", err)
		}
		defer tx.Rollback(ctx) //nolint:errcheck

		tag, err := tx.Exec(ctx, `
			INSERT INTO point_awards (key, user_id, points)
			VALUES ($1, $2, $3)
			ON CONFLICT (key) DO NOTHING;`,
			key, userID, delta,
		)
		if err != nil {
			return false, wrapErr("failed to record point award", err)
		}
		if tag.RowsAffected() == 0 {
			return false, nil
		}

		tag, err = tx.Exec(ctx,
			`UPDATE users SET points = points + $1, updated_at = NOW() WHERE id = $2;`,
			delta, userID,
		)
		if err != nil {
			return false, wrapErr("failed to add points", err)
		}
		if tag.RowsAffected() == 0 {
			return false, fmt.Errorf("user %s: %w", userID, models.ErrNotFound)
		}

		if err := tx.Commit(ctx); err != nil {
			return false, wrapErr("failed to commit point award", err)
		}
		return true, nil
	})
}

// AwardBadge выдает значок, если его еще нет
func (r *UserRepository) AwardBadge(ctx context.Context, userID uuid.UUID, badge models.Badge) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO user_badges (user_id, name, description, awarded_on)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, name) DO NOTHING;`,
		userID, badge.Name, badge.Description, badge.AwardedOn,
	)
	if err != nil {
		return false, wrapErr("failed to award badge", err)
	}
	return tag.RowsAffected() == 1, nil
}
