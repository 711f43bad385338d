package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/laborguard/complaint-service/internal/domain/registry"
	"github.com/laborguard/complaint-service/pkg/errors"
)

const officerColumns = `id, officer_id, name, email, specializations, is_active,
	total_assigned, active_appointment_count, last_assigned_at, created_at, updated_at`

// OfficerRepository is the PostgreSQL implementation of registry.Repository.
// Specializations are stored as a jsonb string array so membership checks can
// use the ? containment operator.
type OfficerRepository struct {
	db queryExecutor
}

// NewOfficerRepository builds an OfficerRepository over the pool.
func NewOfficerRepository(db queryExecutor) *OfficerRepository {
	return &OfficerRepository{db: db}
}

var _ registry.Repository = (*OfficerRepository)(nil)

func (r *OfficerRepository) Create(ctx context.Context, o *registry.Officer) error {
	specs, err := toJSONB(o.Specializations)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO legal_officer_registry (
			id, officer_id, name, email, specializations, is_active,
			total_assigned, active_appointment_count, last_assigned_at,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		o.ID, o.OfficerID, o.Name, o.Email, specs, o.IsActive,
		o.TotalAssigned, o.ActiveAppointmentCount, o.LastAssignedAt,
		o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return errors.New(errors.ErrCodeOfficerDuplicate, "officer already registered").
				WithDetail("officer_id=" + o.OfficerID)
		}
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to insert officer")
	}
	return nil
}

func (r *OfficerRepository) GetByOfficerID(ctx context.Context, officerID string) (*registry.Officer, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+officerColumns+` FROM legal_officer_registry WHERE officer_id = $1`, officerID)

	o, err := scanOfficer(row)
	if err == sql.ErrNoRows {
		return nil, errors.New(errors.ErrCodeOfficerNotFound, "officer not found").
			WithDetail("officer_id=" + officerID)
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *OfficerRepository) Update(ctx context.Context, o *registry.Officer) error {
	specs, err := toJSONB(o.Specializations)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE legal_officer_registry SET
			name = $2, email = $3, specializations = $4, is_active = $5,
			updated_at = $6
		WHERE officer_id = $1`,
		o.OfficerID, o.Name, o.Email, specs, o.IsActive, o.UpdatedAt,
	)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to update officer")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.New(errors.ErrCodeOfficerNotFound, "officer not found").
			WithDetail("officer_id=" + o.OfficerID)
	}
	return nil
}

func (r *OfficerRepository) List(ctx context.Context, filter registry.ListFilter) ([]*registry.Officer, int64, error) {
	where := ""
	var args []interface{}
	if filter.ActiveOnly {
		where = " WHERE is_active"
	}
	if filter.Specialization != "" {
		if where == "" {
			where = " WHERE"
		} else {
			where += " AND"
		}
		args = append(args, string(filter.Specialization))
		where += " specializations ? $1"
	}

	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM legal_officer_registry`+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to count officers")
	}

	query := fmt.Sprintf(`SELECT %s FROM legal_officer_registry%s ORDER BY name ASC LIMIT $%d OFFSET $%d`,
		officerColumns, where, len(args)+1, len(args)+2)
	args = append(args, filter.Pagination.PageSize, filter.Pagination.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list officers")
	}
	defer rows.Close()

	var out []*registry.Officer
	for rows.Next() {
		o, err := scanOfficer(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate officers")
	}
	return out, total, nil
}

func (r *OfficerRepository) Stats(ctx context.Context) (*registry.Stats, error) {
	stats := &registry.Stats{BySpecialization: map[registry.Specialization]int64{}}

	if err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE is_active)
		FROM legal_officer_registry`,
	).Scan(&stats.TotalOfficers, &stats.ActiveOfficers); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to count officers")
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT spec, COUNT(*)
		FROM legal_officer_registry,
		     jsonb_array_elements_text(specializations) AS spec
		GROUP BY spec`)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to aggregate specializations")
	}
	defer rows.Close()
	for rows.Next() {
		var spec string
		var n int64
		if err := rows.Scan(&spec, &n); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan specialization row")
		}
		stats.BySpecialization[registry.Specialization(spec)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate specialization rows")
	}
	return stats, nil
}

// AcquireLeastLoaded selects and loads the best candidate in one statement.
// The row lock taken by the inner select serializes concurrent acquisitions,
// so two bookings can never both read the same stale counters.
func (r *OfficerRepository) AcquireLeastLoaded(ctx context.Context, spec registry.Specialization) (*registry.Officer, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE legal_officer_registry SET
			total_assigned = total_assigned + 1,
			active_appointment_count = active_appointment_count + 1,
			last_assigned_at = NOW(),
			updated_at = NOW()
		WHERE id = (
			SELECT id FROM legal_officer_registry
			WHERE is_active AND specializations ? $1
			ORDER BY active_appointment_count ASC, last_assigned_at ASC NULLS FIRST
			LIMIT 1
			FOR UPDATE
		)
		RETURNING `+officerColumns,
		string(spec),
	)

	o, err := scanOfficer(row)
	if err == sql.ErrNoRows {
		return nil, errors.New(errors.ErrCodeNoOfficerAvailable,
			"no active officer available").WithDetail("specialization=" + string(spec))
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

// ReleaseActive decrements the active counter with a zero floor.  Decrementing
// an already-zero counter is a no-op rather than an error so release stays
// idempotent under retries.
func (r *OfficerRepository) ReleaseActive(ctx context.Context, officerID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE legal_officer_registry SET
			active_appointment_count = active_appointment_count - 1,
			updated_at = NOW()
		WHERE officer_id = $1 AND active_appointment_count > 0`,
		officerID,
	)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to release officer")
	}
	return nil
}

func scanOfficer(s scanner) (*registry.Officer, error) {
	var (
		o              registry.Officer
		specs          []byte
		lastAssignedAt sql.NullTime
	)
	err := s.Scan(
		&o.ID, &o.OfficerID, &o.Name, &o.Email, &specs, &o.IsActive,
		&o.TotalAssigned, &o.ActiveAppointmentCount, &lastAssignedAt,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan officer")
	}
	if lastAssignedAt.Valid {
		t := lastAssignedAt.Time
		o.LastAssignedAt = &t
	}
	if err := fromJSONB(specs, &o.Specializations); err != nil {
		return nil, err
	}
	return &o, nil
}
