package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/civic_issue_tracker/internal/models"
	"github.com/shenikar/civic_issue_tracker/internal/service"
)

type NotificationRepository struct {
	db *pgxpool.Pool
}

func NewNotificationRepository(db *pgxpool.Pool) service.NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notifications (id, recipient, title, message, type, related_issue, related_alert, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.db.Exec(ctx, query,
		n.ID,
		n.Recipient,
		n.Title,
		n.Message,
		n.Type,
		n.RelatedIssue,
		n.RelatedAlert,
		n.IsRead,
		n.CreatedAt,
	)
	if err != nil {
		return wrapErr("failed to create notification", err)
	}
	return nil
}

// CreateMany вставляет пачку уведомлений одним COPY
func (r *NotificationRepository) CreateMany(ctx context.Context, notifications []*models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	_, err := r.db.CopyFrom(ctx,
		pgx.Identifier{"notifications"},
		[]string{"id", "recipient", "title", "message", "type", "related_issue", "related_alert", "is_read", "created_at"},
		pgx.CopyFromSlice(len(notifications), func(i int) ([]any, error) {
			n := notifications[i]
			return []any{n.ID, n.Recipient, n.Title, n.Message, string(n.Type), n.RelatedIssue, n.RelatedAlert, n.IsRead, n.CreatedAt}, nil
		}),
	)
	if err != nil {
		return wrapErr("failed to create notifications", err)
	}
	return nil
}

// List уведомления получателя, новые первыми
func (r *NotificationRepository) List(ctx context.Context, recipient uuid.UUID, unreadOnly bool, page, pageSize int) ([]*models.Notification, int64, error) {
	cond := `recipient = $1`
	if unreadOnly {
		cond += ` AND NOT is_read`
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE `+cond, recipient).Scan(&total); err != nil {
		return nil, 0, wrapErr("failed to count notifications", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, recipient, title, message, type, related_issue, related_alert, is_read, created_at
		FROM notifications
		WHERE `+cond+`
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3;`,
		recipient, pageSize, (page-1)*pageSize,
	)
	if err != nil {
		return nil, 0, wrapErr("failed to list notifications", err)
	}
	defer rows.Close()

	notifications := make([]*models.Notification, 0, pageSize)
	for rows.Next() {
		n := &models.Notification{}
		err := rows.Scan(&n.ID, &n.Recipient, &n.Title, &n.Message, &n.Type, &n.RelatedIssue, &n.RelatedAlert, &n.IsRead, &n.CreatedAt)
		if err != nil {
			return nil, 0, wrapErr("failed to scan notification row", err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, wrapErr("error notification iteration", err)
	}
	return notifications, total, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, recipient uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE recipient = $1 AND NOT is_read;`,
		recipient,
	).Scan(&count)
	if err != nil {
		return 0, wrapErr("failed to count unread notifications", err)
	}
	return count, nil
}

// MarkRead отмечает прочитанными указанные (или все) уведомления получателя
func (r *NotificationRepository) MarkRead(ctx context.Context, recipient uuid.UUID, ids []uuid.UUID) (int64, error) {
	query := `UPDATE notifications SET is_read = TRUE WHERE recipient = $1 AND NOT is_read`
	args := []any{recipient}
	if len(ids) > 0 {
		query += ` AND id = ANY($2)`
		args = append(args, ids)
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, wrapErr("failed to mark notifications read", err)
	}
	return tag.RowsAffected(), nil
}

// Delete удаляет указанные (или все) уведомления получателя
func (r *NotificationRepository) Delete(ctx context.Context, recipient uuid.UUID, ids []uuid.UUID) (int64, error) {
	query := `DELETE FROM notifications WHERE recipient = $1`
	args := []any{recipient}
	if len(ids) > 0 {
		query += ` AND id = ANY($2)`
		args = append(args, ids)
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, wrapErr("failed to delete notifications", err)
	}
	return tag.RowsAffected(), nil
}
