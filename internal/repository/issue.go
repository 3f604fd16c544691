package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/civic_issue_tracker/internal/models"
	"github.com/shenikar/civic_issue_tracker/internal/repository/dbretry"
	"github.com/shenikar/civic_issue_tracker/internal/service"
)

const issueColumns = `
	id,
	title,
	description,
	category,
	ST_Y(location::geometry) AS latitude,
	ST_X(location::geometry) AS longitude,
	address,
	city,
	state,
	pincode,
	images,
	voice_note,
	reported_by,
	department,
	official_id,
	status,
	priority,
	votes,
	resolved_by,
	resolution_date,
	resolution_description,
	resolution_images,
	created_at,
	updated_at`

type IssueRepository struct {
	db *pgxpool.Pool
}

func NewIssueRepository(db *pgxpool.Pool) service.IssueRepository {
	return &IssueRepository{db: db}
}

// Create сохраняет заявку вместе с начальной историей
func (r *IssueRepository) Create(ctx context.Context, issue *models.Issue) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return wrapErr("failed to begin transaction", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	query := `
		INSERT INTO issues (
			id, title, description, category, location, address, city, state, pincode,
			images, voice_note, reported_by, department, official_id, status, priority, votes,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, ST_SetSRID(ST_MakePoint($5, $6), 4326), $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20);
	`
	_, err = tx.Exec(ctx, query,
		issue.ID,
		issue.Title,
		issue.Description,
		issue.Category,
		issue.Location.Longitude,
		issue.Location.Latitude,
		issue.Location.Address,
		issue.Location.City,
		issue.Location.State,
		issue.Location.Pincode,
		issue.Images,
		issue.VoiceNote,
		issue.ReportedBy,
		issue.AssignedTo.Department,
		issue.AssignedTo.Official,
		issue.Status,
		issue.Priority,
		issue.Votes,
		issue.CreatedAt,
		issue.UpdatedAt,
	)
	if err != nil {
		return wrapErr("failed to create issue", err)
	}

	if err := writeChildren(ctx, tx, issue.ID, 0, issue.StatusHistory, 0, issue.Voters); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return wrapErr("failed to commit issue", err)
	}
	return nil
}

// GetByID возвращает заявку по UUID с историей и голосами
func (r *IssueRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Issue, error) {
	return getIssue(ctx, r.db, id, false)
}

// Mutate применяет fn под блокировкой строки; конфликты повторяются
func (r *IssueRepository) Mutate(ctx context.Context, id uuid.UUID, fn func(issue *models.Issue) error) (*models.Issue, error) {
	return dbretry.Operation(ctx, dbretry.PostgresRetryable, func(ctx context.Context) (*models.Issue, error) {
		return r.mutateOnce(ctx, id, fn)
	})
}

func (r *IssueRepository) mutateOnce(ctx context.Context, id uuid.UUID, fn func(issue *models.Issue) error) (*models.Issue, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, wrapErr("failed to begin transaction", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	issue, err := getIssue(ctx, tx, id, true)
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

	query := `
		UPDATE issues SET
			department = $2,
			official_id = $3,
			status = $4,
			priority = $5,
			votes = $6,
			resolved_by = $7,
			resolution_date = $8,
			resolution_description = $9,
			resolution_images = $10,
			updated_at = $11
		WHERE id = $1;
	`
	var (
		resolvedBy       *uuid.UUID
		resolvedAt       *time.Time
		resolutionDesc   *string
		resolutionImages []string
	)
	if d := issue.ResolutionDetails; d != nil {
		resolvedBy, resolvedAt, resolutionDesc, resolutionImages = &d.ResolvedBy, &d.ResolutionDate, &d.Description, d.Images
	}
	_, err = tx.Exec(ctx, query,
		issue.ID,
		issue.AssignedTo.Department,
		issue.AssignedTo.Official,
		issue.Status,
		issue.Priority,
		issue.Votes,
		resolvedBy,
		resolvedAt,
		resolutionDesc,
		resolutionImages,
		issue.UpdatedAt,
	)
	if err != nil {
		return nil, wrapErr("failed to update issue", err)
	}

	err = writeChildren(ctx, tx, issue.ID,
		historyLen, issue.StatusHistory[historyLen:],
		votersLen, issue.Voters[votersLen:],
	)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, wrapErr("failed to commit issue update", err)
	}
	return issue, nil
}

// writeChildren дописывает хвост истории и новых голосующих одним батчем
func writeChildren(ctx context.Context, q querier, issueID uuid.UUID, historyFrom int, history []models.StatusHistoryEntry, votersFrom int, voters []uuid.UUID) error {
	if len(history) == 0 && len(voters) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for i, entry := range history {
		batch.Queue(`
			INSERT INTO issue_status_history (issue_id, seq, status, updated_by, comment, created_at)
			VALUES ($1, $2, $3, $4, $5, $6);`,
			issueID, historyFrom+i, entry.Status, entry.UpdatedBy, entry.Comment, entry.Timestamp,
		)
	}
	for i, voter := range voters {
		batch.Queue(`
			INSERT INTO issue_voters (issue_id, voter_id, seq)
			VALUES ($1, $2, $3)
			ON CONFLICT (issue_id, voter_id) DO NOTHING;`,
			issueID, voter, votersFrom+i,
		)
	}

	br := q.SendBatch(ctx, batch)
	defer br.Close()

	for range history {
		if _, err := br.Exec(); err != nil {
			return wrapErr("failed to append status history", err)
		}
	}
	for range voters {
		tag, err := br.Exec()
		if err != nil {
			return wrapErr("failed to record voter", err)
		}
		if tag.RowsAffected() == 0 {
			return models.ErrDuplicateVote
		}
	}
	return nil
}

func getIssue(ctx context.Context, q querier, id uuid.UUID, forUpdate bool) (*models.Issue, error) {
	query := `SELECT ` + issueColumns + ` FROM issues WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	issue, err := scanIssue(q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, wrapErr(fmt.Sprintf("issue %s", id), err)
	}
	if err := loadChildren(ctx, q, []*models.Issue{issue}); err != nil {
		return nil, err
	}
	return issue, nil
}

func scanIssue(row pgx.Row) (*models.Issue, error) {
	issue := &models.Issue{}
	var (
		resolvedBy       *uuid.UUID
		resolvedAt       *time.Time
		resolutionDesc   *string
		resolutionImages []string
	)
	err := row.Scan(
		&issue.ID,
		&issue.Title,
		&issue.Description,
		&issue.Category,
		&issue.Location.Latitude,
		&issue.Location.Longitude,
		&issue.Location.Address,
		&issue.Location.City,
		&issue.Location.State,
		&issue.Location.Pincode,
		&issue.Images,
		&issue.VoiceNote,
		&issue.ReportedBy,
		&issue.AssignedTo.Department,
		&issue.AssignedTo.Official,
		&issue.Status,
		&issue.Priority,
		&issue.Votes,
		&resolvedBy,
		&resolvedAt,
		&resolutionDesc,
		&resolutionImages,
		&issue.CreatedAt,
		&issue.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if resolvedBy != nil {
		details := &models.ResolutionDetails{ResolvedBy: *resolvedBy, Images: resolutionImages}
		if resolvedAt != nil {
			details.ResolutionDate = *resolvedAt
		}
		if resolutionDesc != nil {
			details.Description = *resolutionDesc
		}
		issue.ResolutionDetails = details
	}
	if issue.Images == nil {
		issue.Images = []string{}
	}
	issue.Voters = []uuid.UUID{}
	issue.StatusHistory = []models.StatusHistoryEntry{}
	return issue, nil
}

// loadChildren подгружает историю и голоса для набора заявок двумя запросами
func loadChildren(ctx context.Context, q querier, issues []*models.Issue) error {
	if len(issues) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(issues))
	byID := make(map[uuid.UUID]*models.Issue, len(issues))
	for _, issue := range issues {
		ids = append(ids, issue.ID)
		byID[issue.ID] = issue
	}

	rows, err := q.Query(ctx, `
		SELECT issue_id, status, updated_by, comment, created_at
		FROM issue_status_history
		WHERE issue_id = ANY($1)
		ORDER BY issue_id, seq;`, ids)
	if err != nil {
		return wrapErr("failed to load status history", err)
	}
	for rows.Next() {
		var issueID uuid.UUID
		var entry models.StatusHistoryEntry
		if err := rows.Scan(&issueID, &entry.Status, &entry.UpdatedBy, &entry.Comment, &entry.Timestamp); err != nil {
			rows.Close()
			return wrapErr("failed to scan status history row", err)
		}
		byID[issueID].StatusHistory = append(byID[issueID].StatusHistory, entry)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return wrapErr("error status history iteration", err)
	}

	rows, err = q.Query(ctx, `
		SELECT issue_id, voter_id
		FROM issue_voters
		WHERE issue_id = ANY($1)
		ORDER BY issue_id, seq;`, ids)
	if err != nil {
		return wrapErr("failed to load voters", err)
	}
	defer rows.Close()
	for rows.Next() {
		var issueID, voterID uuid.UUID
		if err := rows.Scan(&issueID, &voterID); err != nil {
			return wrapErr("failed to scan voter row", err)
		}
		byID[issueID].Voters = append(byID[issueID].Voters, voterID)
	}
	if err := rows.Err(); err != nil {
		return wrapErr("error voters iteration", err)
	}
	return nil
}

// List возвращает страницу заявок по фильтру и общее количество
func (r *IssueRepository) List(ctx context.Context, filter models.IssueFilter) ([]*models.Issue, int64, error) {
	filter.Normalize()
	where, args := buildIssueWhere(filter)

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM issues`+where, args...).Scan(&total); err != nil {
		return nil, 0, wrapErr("failed to count issues", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM issues%s ORDER BY %s LIMIT $%d OFFSET $%d;`,
		issueColumns, where, issueOrder(filter), len(args)+1, len(args)+2)
	rows, err := r.db.Query(ctx, query, append(args, filter.PageSize, filter.Offset())...)
	if err != nil {
		return nil, 0, wrapErr("failed to list issues", err)
	}
	defer rows.Close()

	issues := make([]*models.Issue, 0, filter.PageSize)
	for rows.Next() {
		issue, err := scanIssue(rows)
		if err != nil {
			return nil, 0, wrapErr("failed to scan issue row", err)
		}
		issues = append(issues, issue)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, wrapErr("error list iteration", err)
	}
	rows.Close()

	if err := loadChildren(ctx, r.db, issues); err != nil {
		return nil, 0, err
	}
	return issues, total, nil
}

// buildIssueWhere собирает WHERE с позиционными параметрами
func buildIssueWhere(f models.IssueFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.Category != "" {
		add("category = $%d", f.Category)
	}
	if f.Priority != "" {
		add("priority = $%d", f.Priority)
	}
	if f.Department != "" {
		add("department = $%d", f.Department)
	}
	if f.City != "" {
		add("lower(city) = lower($%d)", f.City)
	}
	if f.State != "" {
		add("lower(state) = lower($%d)", f.State)
	}
	if f.ReportedBy != nil {
		add("reported_by = $%d", *f.ReportedBy)
	}
	if f.From != nil {
		add("created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("created_at <= $%d", *f.To)
	}
	if f.Near != nil {
		args = append(args, f.Near.Longitude, f.Near.Latitude, f.Near.RadiusMeters)
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"ST_DWithin(location, ST_SetSRID(ST_MakePoint($%d, $%d), 4326)::geography, $%d)", n-2, n-1, n))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func issueOrder(f models.IssueFilter) string {
	column := "created_at"
	switch f.SortBy {
	case models.SortByUpdatedAt:
		column = "updated_at"
	case models.SortByVotes:
		column = "votes"
	}
	dir := "ASC"
	if f.SortDesc {
		dir = "DESC"
	}
	return fmt.Sprintf("%s %s, id", column, dir)
}

// CountByReporterAndStatus количество заявок автора в статусе
func (r *IssueRepository) CountByReporterAndStatus(ctx context.Context, reporterID uuid.UUID, status models.IssueStatus) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM issues WHERE reported_by = $1 AND status = $2;`,
		reporterID, status,
	).Scan(&count)
	if err != nil {
		return 0, wrapErr("failed to count reporter issues", err)
	}
	return count, nil
}

// StatusCountsByReporter счетчики заявок автора по статусам
func (r *IssueRepository) StatusCountsByReporter(ctx context.Context, reporterID uuid.UUID) (map[models.IssueStatus]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT status, COUNT(*) FROM issues WHERE reported_by = $1 GROUP BY status;`,
		reporterID,
	)
	if err != nil {
		return nil, wrapErr("failed to count reporter statuses", err)
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

// NewAlertAudience источник адресатов оповещений поверх таблицы заявок
func NewAlertAudience(db *pgxpool.Pool) service.AlertAudience {
	return &IssueRepository{db: db}
}

// ReportersNear авторы заявок внутри круга, не больше limit
func (r *IssueRepository) ReportersNear(ctx context.Context, area models.GeoRadius, limit int) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `
		SELECT DISTINCT reported_by
		FROM issues
		WHERE ST_DWithin(location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $3)
		LIMIT $4;`,
		area.Longitude, area.Latitude, area.RadiusMeters, limit,
	)
	if err != nil {
		return nil, wrapErr("failed to find reporters near point", err)
	}
	defer rows.Close()

	reporters := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, wrapErr("failed to scan reporter id", err)
		}
		reporters = append(reporters, id)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("error reporter iteration", err)
	}
	return reporters, nil
}
