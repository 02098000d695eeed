package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type appointmentStorePG struct{ pool *pgxpool.Pool }

// NewAppointmentStorePG returns the Postgres-backed AppointmentStore. The
// backing table carries a partial unique index on (scheduled_date,
// start_time) over non-cancelled rows; a violation surfaces as ErrConflict.
func NewAppointmentStorePG(pool *pgxpool.Pool) AppointmentStore {
	return &appointmentStorePG{pool: pool}
}

func (r *appointmentStorePG) conn(ctx context.Context) queryable { return r.pool }

const apptCols = `id, scheduled_date, start_time::text, end_time::text, status,
	patient_id, doctor_id, service_id, reason, notes, created_at, updated_at`

func (r *appointmentStorePG) scanAppt(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var scheduled time.Time
	err := row.Scan(&a.ID, &scheduled, &a.StartTime, &a.EndTime, &a.Status,
		&a.PatientID, &a.DoctorID, &a.ServiceID, &a.Reason, &a.Notes,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.ScheduledDate = DateOf(scheduled)
	return &a, nil
}

func (r *appointmentStorePG) List(ctx context.Context, dr DateRange) ([]*Appointment, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+apptCols+` FROM appointment
		WHERE scheduled_date BETWEEN $1 AND $2
		ORDER BY scheduled_date ASC, start_time ASC`,
		dr.Start.String(), dr.End.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Appointment
	for rows.Next() {
		a, err := r.scanAppt(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (r *appointmentStorePG) GetByID(ctx context.Context, id int64) (*Appointment, error) {
	a, err := r.scanAppt(r.conn(ctx).QueryRow(ctx, `SELECT `+apptCols+` FROM appointment WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return a, err
}

func (r *appointmentStorePG) Create(ctx context.Context, a *Appointment) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO appointment (scheduled_date, start_time, end_time, status,
			patient_id, doctor_id, service_id, reason, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id, created_at, updated_at`,
		a.ScheduledDate.String(), a.StartTime, a.EndTime, a.Status,
		a.PatientID, a.DoctorID, a.ServiceID, a.Reason, a.Notes).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	return mapUniqueViolation(err)
}

func (r *appointmentStorePG) Update(ctx context.Context, a *Appointment) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointment SET scheduled_date=$2, start_time=$3, end_time=$4,
			status=$5, doctor_id=$6, reason=$7, notes=$8, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.ScheduledDate.String(), a.StartTime, a.EndTime,
		a.Status, a.DoctorID, a.Reason, a.Notes)
	if err != nil {
		return mapUniqueViolation(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *appointmentStorePG) Delete(ctx context.Context, id int64) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM appointment WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// mapUniqueViolation turns a Postgres 23505 on the slot uniqueness index
// into ErrConflict so a lost booking race reports the same way as the
// engine's own pre-check.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: %s", ErrConflict, pgErr.ConstraintName)
	}
	return err
}
