package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/laborguard/complaint-service/internal/domain/appointment"
	"github.com/laborguard/complaint-service/pkg/errors"
	"github.com/laborguard/complaint-service/pkg/types/common"
)

const appointmentColumns = `id, complaint_id, worker_id, legal_officer_id,
	category, specialization, status, scheduled_at, duration_minutes,
	meeting_type, meeting_details, notes, reschedule_history,
	confirmed_at, cancelled_at, cancellation_reason, created_at, updated_at`

// appointmentComplaintUnique is the unique index enforcing one appointment
// per complaint.
const appointmentComplaintUnique = "appointments_complaint_id_key"

// AppointmentRepository is the PostgreSQL implementation of
// appointment.Repository.
type AppointmentRepository struct {
	db queryExecutor
}

// NewAppointmentRepository builds an AppointmentRepository over the pool.
func NewAppointmentRepository(db queryExecutor) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

var _ appointment.Repository = (*AppointmentRepository)(nil)

func (r *AppointmentRepository) Create(ctx context.Context, a *appointment.Appointment) error {
	history, err := toJSONB(a.RescheduleHistory)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO appointments (
			id, complaint_id, worker_id, legal_officer_id,
			category, specialization, status, scheduled_at, duration_minutes,
			meeting_type, meeting_details, notes, reschedule_history,
			confirmed_at, cancelled_at, cancellation_reason, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)`,
		a.ID, a.ComplaintID, a.WorkerID, a.LegalOfficerID,
		a.Category, a.Specialization, a.Status, a.ScheduledAt, a.DurationMinutes,
		a.MeetingType, a.MeetingDetails, a.Notes, history,
		a.ConfirmedAt, a.CancelledAt, a.CancellationReason, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, appointmentComplaintUnique) {
			return errors.New(errors.ErrCodeAppointmentExists,
				"an appointment already exists for this complaint").
				WithDetail("complaint_id=" + a.ComplaintID)
		}
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to insert appointment")
	}
	return nil
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id common.ID) (*appointment.Appointment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`, id)

	a, err := scanAppointment(row)
	if err == sql.ErrNoRows {
		return nil, errors.New(errors.ErrCodeAppointmentNotFound, "appointment not found").
			WithDetail("id=" + id)
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *AppointmentRepository) GetByComplaintID(ctx context.Context, complaintID common.ID) (*appointment.Appointment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE complaint_id = $1`, complaintID)

	a, err := scanAppointment(row)
	if err == sql.ErrNoRows {
		return nil, errors.New(errors.ErrCodeAppointmentNotFound, "appointment not found").
			WithDetail("complaint_id=" + complaintID)
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *AppointmentRepository) Update(ctx context.Context, a *appointment.Appointment) error {
	history, err := toJSONB(a.RescheduleHistory)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE appointments SET
			status = $2, scheduled_at = $3, duration_minutes = $4,
			meeting_type = $5, meeting_details = $6, notes = $7,
			reschedule_history = $8, confirmed_at = $9, cancelled_at = $10,
			cancellation_reason = $11, updated_at = $12
		WHERE id = $1`,
		a.ID, a.Status, a.ScheduledAt, a.DurationMinutes,
		a.MeetingType, a.MeetingDetails, a.Notes,
		history, a.ConfirmedAt, a.CancelledAt,
		a.CancellationReason, a.UpdatedAt,
	)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to update appointment")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.New(errors.ErrCodeAppointmentNotFound, "appointment not found").
			WithDetail("id=" + a.ID)
	}
	return nil
}

func (r *AppointmentRepository) List(ctx context.Context, filter appointment.ListFilter) ([]*appointment.Appointment, int64, error) {
	var clauses []string
	var args []interface{}
	add := func(clause string, value interface{}) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if filter.WorkerID != "" {
		add("worker_id = $%d", filter.WorkerID)
	}
	if filter.LegalOfficerID != "" {
		add("legal_officer_id = $%d", filter.LegalOfficerID)
	}
	if filter.Status != "" {
		add("status = $%d", filter.Status)
	}

	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM appointments`+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to count appointments")
	}

	query := fmt.Sprintf(`SELECT %s FROM appointments%s ORDER BY scheduled_at ASC LIMIT $%d OFFSET $%d`,
		appointmentColumns, where, len(args)+1, len(args)+2)
	args = append(args, filter.Pagination.PageSize, filter.Pagination.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list appointments")
	}
	defer rows.Close()

	var out []*appointment.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate appointments")
	}
	return out, total, nil
}

func scanAppointment(s scanner) (*appointment.Appointment, error) {
	var (
		a           appointment.Appointment
		history     []byte
		confirmedAt sql.NullTime
		cancelledAt sql.NullTime
	)
	err := s.Scan(
		&a.ID, &a.ComplaintID, &a.WorkerID, &a.LegalOfficerID,
		&a.Category, &a.Specialization, &a.Status, &a.ScheduledAt, &a.DurationMinutes,
		&a.MeetingType, &a.MeetingDetails, &a.Notes, &history,
		&confirmedAt, &cancelledAt, &a.CancellationReason, &a.CreatedAt, &a.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan appointment")
	}
	if confirmedAt.Valid {
		t := confirmedAt.Time
		a.ConfirmedAt = &t
	}
	if cancelledAt.Valid {
		t := cancelledAt.Time
		a.CancelledAt = &t
	}
	if err := fromJSONB(history, &a.RescheduleHistory); err != nil {
		return nil, err
	}
	return &a, nil
}
