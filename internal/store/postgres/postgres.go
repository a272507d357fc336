// Package postgres stores appointments in PostgreSQL through pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"hospital-voice-agent/internal/models"
	"hospital-voice-agent/internal/store"
)

var tracer = otel.Tracer("hospital-voice-agent/store/postgres")

const dateLayout = "2006-01-02"

// DB abstracts the pgx query interface for testing.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements store.Store over the appointments table.
type Store struct {
	db  DB
	now func() time.Time
}

// New creates a store over db, usually a *pgxpool.Pool.
func New(db DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Connect opens a pool and verifies the connection.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres: open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return pool, nil
}

func (s *Store) GenerateID(ctx context.Context) (string, error) {
	ctx, span := tracer.Start(ctx, "store.postgres.generate_id")
	defer span.End()

	var n int64
	if err := s.db.QueryRow(ctx, `SELECT nextval('appointment_number_seq')`).Scan(&n); err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("postgres: next appointment number: %w", err)
	}
	return store.FormatID(n), nil
}

func (s *Store) Save(ctx context.Context, appt models.Appointment) error {
	ctx, span := tracer.Start(ctx, "store.postgres.save", trace.WithAttributes(
		attribute.String("hospital.appointment_id", appt.ID),
	))
	defer span.End()

	if err := store.Validate(appt); err != nil {
		return err
	}
	date, err := time.Parse(dateLayout, appt.Date)
	if err != nil {
		return fmt.Errorf("postgres: parse date: %w", err)
	}
	now := s.now().UTC()
	if appt.CreatedAt.IsZero() {
		appt.CreatedAt = now
	}

	tag, err := s.db.Exec(ctx, `
		INSERT INTO appointments (id, patient_name, doctor, department, appointment_date, appointment_time, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING`,
		appt.ID, appt.PatientName, appt.Doctor, string(appt.Department),
		date, appt.Time, string(appt.Status), appt.CreatedAt, now,
	)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("postgres: insert appointment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &store.DuplicateError{ID: appt.ID}
	}
	return nil
}

func (s *Store) FindByPatientName(ctx context.Context, name string) (models.Appointment, error) {
	ctx, span := tracer.Start(ctx, "store.postgres.find_by_patient_name")
	defer span.End()

	var (
		appt             models.Appointment
		department, stat string
	)
	err := s.db.QueryRow(ctx, `
		SELECT id, patient_name, doctor, department, to_char(appointment_date, 'YYYY-MM-DD'), appointment_time, status, created_at, updated_at
		FROM appointments
		WHERE lower(patient_name) = lower(trim($1))
		ORDER BY created_at DESC, id DESC
		LIMIT 1`, name,
	).Scan(&appt.ID, &appt.PatientName, &appt.Doctor, &department, &appt.Date, &appt.Time, &stat, &appt.CreatedAt, &appt.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Appointment{}, store.ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		return models.Appointment{}, fmt.Errorf("postgres: find by patient name: %w", err)
	}
	appt.Department = models.Department(department)
	appt.Status = models.AppointmentStatus(stat)
	return appt, nil
}

func (s *Store) Update(ctx context.Context, id string, upd store.Update) error {
	ctx, span := tracer.Start(ctx, "store.postgres.update", trace.WithAttributes(
		attribute.String("hospital.appointment_id", id),
		attribute.String("hospital.status", string(upd.Status)),
	))
	defer span.End()

	if err := store.ValidateUpdate(upd); err != nil {
		return err
	}
	tag, err := s.db.Exec(ctx, `
		UPDATE appointments SET status = $1, updated_at = $2
		WHERE id = $3`, string(upd.Status), s.now().UTC(), id)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("postgres: update appointment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
