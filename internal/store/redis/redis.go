// Package redis stores appointments in Redis hashes with a per-patient index.
package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"hospital-voice-agent/internal/models"
	"hospital-voice-agent/internal/store"
)

// seqBase is added to the INCR counter so ids start at APT-100001.
const seqBase = 100000

// Store implements store.Store.
//
// Keys:
//
//	{prefix}:appointment:seq          INCR counter
//	{prefix}:appointment:{id}         hash of the record
//	{prefix}:patient:{lower(name)}    list of ids, newest first
type Store struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// New creates a Redis-backed appointment store.
func New(client *redis.Client, prefix string) *Store {
	if client == nil {
		panic("redis store: client cannot be nil")
	}
	if prefix == "" {
		prefix = "hospital"
	}
	return &Store{client: client, prefix: prefix, now: time.Now}
}

func (s *Store) seqKey() string { return s.prefix + ":appointment:seq" }

func (s *Store) appointmentKey(id string) string { return s.prefix + ":appointment:" + id }

func (s *Store) patientKey(name string) string {
	return s.prefix + ":patient:" + strings.ToLower(strings.TrimSpace(name))
}

func (s *Store) GenerateID(ctx context.Context) (string, error) {
	n, err := s.client.Incr(ctx, s.seqKey()).Result()
	if err != nil {
		return "", fmt.Errorf("redis store: next appointment number: %w", err)
	}
	return store.FormatID(seqBase + n), nil
}

func (s *Store) Save(ctx context.Context, appt models.Appointment) error {
	if err := store.Validate(appt); err != nil {
		return err
	}
	key := s.appointmentKey(appt.ID)
	created, err := s.client.HSetNX(ctx, key, "id", appt.ID).Result()
	if err != nil {
		return fmt.Errorf("redis store: reserve %s: %w", appt.ID, err)
	}
	if !created {
		return &store.DuplicateError{ID: appt.ID}
	}

	now := s.now().UTC()
	if appt.CreatedAt.IsZero() {
		appt.CreatedAt = now
	}
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, map[string]any{
		"patient_name": appt.PatientName,
		"doctor":       appt.Doctor,
		"department":   string(appt.Department),
		"date":         appt.Date,
		"time":         appt.Time,
		"status":       string(appt.Status),
		"created_at":   appt.CreatedAt.Format(time.RFC3339Nano),
		"updated_at":   now.Format(time.RFC3339Nano),
	})
	pipe.LPush(ctx, s.patientKey(appt.PatientName), appt.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis store: save %s: %w", appt.ID, err)
	}
	return nil
}

func (s *Store) FindByPatientName(ctx context.Context, name string) (models.Appointment, error) {
	ids, err := s.client.LRange(ctx, s.patientKey(name), 0, -1).Result()
	if err != nil {
		return models.Appointment{}, fmt.Errorf("redis store: patient index: %w", err)
	}
	for _, id := range ids {
		fields, err := s.client.HGetAll(ctx, s.appointmentKey(id)).Result()
		if err != nil {
			return models.Appointment{}, fmt.Errorf("redis store: load %s: %w", id, err)
		}
		if len(fields) == 0 {
			continue
		}
		return decode(fields)
	}
	return models.Appointment{}, store.ErrNotFound
}

func (s *Store) Update(ctx context.Context, id string, upd store.Update) error {
	if err := store.ValidateUpdate(upd); err != nil {
		return err
	}
	key := s.appointmentKey(id)
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("redis store: lookup %s: %w", id, err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	err = s.client.HSet(ctx, key,
		"status", string(upd.Status),
		"updated_at", s.now().UTC().Format(time.RFC3339Nano),
	).Err()
	if err != nil {
		return fmt.Errorf("redis store: update %s: %w", id, err)
	}
	return nil
}

func decode(f map[string]string) (models.Appointment, error) {
	appt := models.Appointment{
		ID:          f["id"],
		PatientName: f["patient_name"],
		Doctor:      f["doctor"],
		Department:  models.Department(f["department"]),
		Date:        f["date"],
		Time:        f["time"],
		Status:      models.AppointmentStatus(f["status"]),
	}
	var err error
	if appt.CreatedAt, err = time.Parse(time.RFC3339Nano, f["created_at"]); err != nil {
		return models.Appointment{}, fmt.Errorf("redis store: %s created_at: %w", appt.ID, err)
	}
	if appt.UpdatedAt, err = time.Parse(time.RFC3339Nano, f["updated_at"]); err != nil {
		return models.Appointment{}, fmt.Errorf("redis store: %s updated_at: %w", appt.ID, err)
	}
	return appt, nil
}
