package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/laborguard/complaint-service/internal/domain/complaint"
	"github.com/laborguard/complaint-service/pkg/errors"
	"github.com/laborguard/complaint-service/pkg/types/common"
)

// complaintColumns is the scan order shared by every complaint query.
const complaintColumns = `id, title, description, category, priority, status,
	worker_id, assigned_to, organization_name, location, is_anonymous,
	attachments, status_history, resolved_at, created_at, updated_at`

// ComplaintRepository is the PostgreSQL implementation of
// complaint.Repository.  The audit trail, attachments and location are
// stored as jsonb alongside the row so updates are atomic.
type ComplaintRepository struct {
	db queryExecutor
}

// NewComplaintRepository builds a ComplaintRepository over the pool.
func NewComplaintRepository(db queryExecutor) *ComplaintRepository {
	return &ComplaintRepository{db: db}
}

var _ complaint.Repository = (*ComplaintRepository)(nil)

func (r *ComplaintRepository) Create(ctx context.Context, c *complaint.Complaint) error {
	location, err := toJSONB(c.Location)
	if err != nil {
		return err
	}
	attachments, err := toJSONB(c.Attachments)
	if err != nil {
		return err
	}
	history, err := toJSONB(c.StatusHistory)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO complaints (
			id, title, description, category, priority, status,
			worker_id, assigned_to, organization_name, location, is_anonymous,
			attachments, status_history, resolved_at, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`,
		c.ID, c.Title, c.Description, c.Category, c.Priority, c.Status,
		c.WorkerID, c.AssignedTo, c.OrganizationName, location, c.IsAnonymous,
		attachments, history, c.ResolvedAt, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to insert complaint")
	}
	return nil
}

func (r *ComplaintRepository) GetByID(ctx context.Context, id common.ID) (*complaint.Complaint, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+complaintColumns+` FROM complaints WHERE id = $1`, id)

	c, err := scanComplaint(row)
	if err == sql.ErrNoRows {
		return nil, errors.New(errors.ErrCodeComplaintNotFound, "complaint not found").WithDetail("id=" + id)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *ComplaintRepository) Update(ctx context.Context, c *complaint.Complaint) error {
	location, err := toJSONB(c.Location)
	if err != nil {
		return err
	}
	attachments, err := toJSONB(c.Attachments)
	if err != nil {
		return err
	}
	history, err := toJSONB(c.StatusHistory)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE complaints SET
			title = $2, description = $3, category = $4, priority = $5,
			status = $6, assigned_to = $7, organization_name = $8,
			location = $9, is_anonymous = $10, attachments = $11,
			status_history = $12, resolved_at = $13, updated_at = $14
		WHERE id = $1`,
		c.ID, c.Title, c.Description, c.Category, c.Priority,
		c.Status, c.AssignedTo, c.OrganizationName,
		location, c.IsAnonymous, attachments,
		history, c.ResolvedAt, c.UpdatedAt,
	)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to update complaint")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.New(errors.ErrCodeComplaintNotFound, "complaint not found").WithDetail("id=" + c.ID)
	}
	return nil
}

func (r *ComplaintRepository) Delete(ctx context.Context, id common.ID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM complaints WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to delete complaint")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.New(errors.ErrCodeComplaintNotFound, "complaint not found").WithDetail("id=" + id)
	}
	return nil
}

// sortColumns is the allow-list for the sort_by parameter.
var sortColumns = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"priority":   "priority",
	"status":     "status",
}

func (r *ComplaintRepository) List(ctx context.Context, filter complaint.ListFilter) ([]*complaint.Complaint, int64, error) {
	where, args := buildComplaintWhere(filter)

	var total int64
	countQuery := `SELECT COUNT(*) FROM complaints` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to count complaints")
	}

	orderCol, ok := sortColumns[filter.SortBy]
	if !ok {
		orderCol = "created_at"
	}
	direction := "DESC"
	if filter.Order == common.SortAsc {
		direction = "ASC"
	}

	query := fmt.Sprintf(`SELECT %s FROM complaints%s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		complaintColumns, where, orderCol, direction, len(args)+1, len(args)+2)
	args = append(args, filter.Pagination.PageSize, filter.Pagination.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list complaints")
	}
	defer rows.Close()

	var out []*complaint.Complaint
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, 0, err
		}
		// List views omit the audit trail; it is only returned by GetByID.
		c.StatusHistory = nil
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate complaints")
	}
	return out, total, nil
}

func buildComplaintWhere(filter complaint.ListFilter) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	add := func(clause string, value interface{}) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if filter.Status != "" {
		add("status = $%d", filter.Status)
	}
	if filter.Category != "" {
		add("category = $%d", filter.Category)
	}
	if filter.Priority != "" {
		add("priority = $%d", filter.Priority)
	}
	if filter.WorkerID != "" {
		add("worker_id = $%d", filter.WorkerID)
	}
	if filter.AssignedTo != "" {
		add("assigned_to = $%d", filter.AssignedTo)
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		clauses = append(clauses, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d OR organization_name ILIKE $%d)", n, n, n))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (r *ComplaintRepository) Stats(ctx context.Context, recentSince time.Time) (*complaint.Stats, error) {
	stats := &complaint.Stats{
		ByStatus:     map[complaint.Status]int64{},
		ByCategory:   map[complaint.Category]int64{},
		ByPriority:   map[complaint.Priority]int64{},
		RecentWindow: "30d",
	}

	countBy := func(column string, assign func(key string, n int64)) error {
		rows, err := r.db.QueryContext(ctx,
			fmt.Sprintf(`SELECT %s, COUNT(*) FROM complaints GROUP BY %s`, column, column))
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to aggregate complaints by "+column)
		}
		defer rows.Close()
		for rows.Next() {
			var key string
			var n int64
			if err := rows.Scan(&key, &n); err != nil {
				return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan aggregate row")
			}
			assign(key, n)
		}
		return rows.Err()
	}

	if err := countBy("status", func(k string, n int64) {
		stats.ByStatus[complaint.Status(k)] = n
		stats.Total += n
	}); err != nil {
		return nil, err
	}
	if err := countBy("category", func(k string, n int64) {
		stats.ByCategory[complaint.Category(k)] = n
	}); err != nil {
		return nil, err
	}
	if err := countBy("priority", func(k string, n int64) {
		stats.ByPriority[complaint.Priority(k)] = n
	}); err != nil {
		return nil, err
	}

	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM complaints WHERE created_at >= $1`, recentSince,
	).Scan(&stats.RecentCount); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to count recent complaints")
	}
	return stats, nil
}

func scanComplaint(s scanner) (*complaint.Complaint, error) {
	var (
		c           complaint.Complaint
		location    []byte
		attachments []byte
		history     []byte
		assignedTo  sql.NullString
		resolvedAt  sql.NullTime
	)
	err := s.Scan(
		&c.ID, &c.Title, &c.Description, &c.Category, &c.Priority, &c.Status,
		&c.WorkerID, &assignedTo, &c.OrganizationName, &location, &c.IsAnonymous,
		&attachments, &history, &resolvedAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan complaint")
	}

	if assignedTo.Valid {
		c.AssignedTo = &assignedTo.String
	}
	if resolvedAt.Valid {
		t := resolvedAt.Time
		c.ResolvedAt = &t
	}
	if err := fromJSONB(location, &c.Location); err != nil {
		return nil, err
	}
	if err := fromJSONB(attachments, &c.Attachments); err != nil {
		return nil, err
	}
	if err := fromJSONB(history, &c.StatusHistory); err != nil {
		return nil, err
	}
	return &c, nil
}
