package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/civic_issue_tracker/internal/models"
	"github.com/shenikar/civic_issue_tracker/internal/service"
)

// alertListLimit верхняя граница выдачи активных оповещений
const alertListLimit = 200

const alertColumns = `
	id,
	title,
	description,
	type,
	severity,
	ST_Y(location::geometry) AS latitude,
	ST_X(location::geometry) AS longitude,
	city,
	state,
	radius_meters,
	start_time,
	end_time,
	source,
	is_active,
	created_by,
	created_at,
	updated_at`

// severityRank порядок серьезности для сортировки
const severityRank = `CASE severity WHEN 'critical' THEN 4 WHEN 'high' THEN 3 WHEN 'medium' THEN 2 ELSE 1 END`

type AlertRepository struct {
	db *pgxpool.Pool
}

func NewAlertRepository(db *pgxpool.Pool) service.AlertRepository {
	return &AlertRepository{db: db}
}

// Create создает новую запись об оповещении в бд
func (r *AlertRepository) Create(ctx context.Context, alert *models.Alert) error {
	query := `
		INSERT INTO alerts (id, title, description, type, severity, location, city, state, radius_meters,
			start_time, end_time, source, is_active, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, ST_SetSRID(ST_MakePoint($6, $7), 4326), $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17);
	`
	_, err := r.db.Exec(ctx, query,
		alert.ID,
		alert.Title,
		alert.Description,
		alert.Type,
		alert.Severity,
		alert.Location.Longitude,
		alert.Location.Latitude,
		alert.Location.City,
		alert.Location.State,
		alert.Location.RadiusMeters,
		alert.StartTime,
		alert.EndTime,
		alert.Source,
		alert.IsActive,
		alert.CreatedBy,
		alert.CreatedAt,
		alert.UpdatedAt,
	)
	if err != nil {
		return wrapErr("failed to create alert", err)
	}
	return nil
}

// GetByID возвращает оповещение по его UUID
func (r *AlertRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Alert, error) {
	row := r.db.QueryRow(ctx, `SELECT `+alertColumns+` FROM alerts WHERE id = $1;`, id)
	alert, err := scanAlert(row)
	if err != nil {
		return nil, wrapErr(fmt.Sprintf("failed to get alert %s", id), err)
	}
	return alert, nil
}

func (r *AlertRepository) Update(ctx context.Context, alert *models.Alert) error {
	query := `
		UPDATE alerts SET
			title = $1,
			description = $2,
			severity = $3,
			end_time = $4,
			is_active = $5,
			updated_at = $6
		WHERE id = $7;
	`
	cmdTag, err := r.db.Exec(ctx, query,
		alert.Title,
		alert.Description,
		alert.Severity,
		alert.EndTime,
		alert.IsActive,
		alert.UpdatedAt,
		alert.ID,
	)
	if err != nil {
		return wrapErr("failed to update alert", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("alert with id %s not found for update: %w", alert.ID, models.ErrNotFound)
	}
	return nil
}

// ListActive активные оповещения, самые серьезные и свежие первыми
func (r *AlertRepository) ListActive(ctx context.Context, filter models.AlertFilter) ([]*models.Alert, error) {
	where, args := buildAlertWhere(filter)
	args = append(args, alertListLimit)
	query := fmt.Sprintf(`SELECT %s FROM alerts%s ORDER BY %s DESC, start_time DESC, id LIMIT $%d;`,
		alertColumns, where, severityRank, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("failed to list active alerts", err)
	}
	defer rows.Close()

	alerts := make([]*models.Alert, 0)
	for rows.Next() {
		alert, err := scanAlert(rows)
		if err != nil {
			return nil, wrapErr("failed to scan alert row", err)
		}
		alerts = append(alerts, alert)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("error alert iteration", err)
	}
	return alerts, nil
}

// buildAlertWhere центр оповещения не дальше радиуса поиска от точки фильтра
func buildAlertWhere(f models.AlertFilter) (string, []any) {
	conds := []string{"is_active"}
	var args []any

	if f.Type != "" {
		args = append(args, f.Type)
		conds = append(conds, fmt.Sprintf("type = $%d", len(args)))
	}
	if f.Near != nil {
		args = append(args, f.Near.Longitude, f.Near.Latitude, f.Near.RadiusMeters)
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"ST_DWithin(location, ST_SetSRID(ST_MakePoint($%d, $%d), 4326)::geography, $%d)", n-2, n-1, n))
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanAlert(row pgx.Row) (*models.Alert, error) {
	alert := &models.Alert{}
	err := row.Scan(
		&alert.ID,
		&alert.Title,
		&alert.Description,
		&alert.Type,
		&alert.Severity,
		&alert.Location.Latitude,
		&alert.Location.Longitude,
		&alert.Location.City,
		&alert.Location.State,
		&alert.Location.RadiusMeters,
		&alert.StartTime,
		&alert.EndTime,
		&alert.Source,
		&alert.IsActive,
		&alert.CreatedBy,
		&alert.CreatedAt,
		&alert.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return alert, nil
}
