package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/beauteq/salonbot/internal/domain"
)

// Store is the typed accessor layer over the salon schema. Enumeration order
// of masters and services is their id order; the fuzzy resolver depends on it.
type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) SaveUser(ctx context.Context, id int64, username, firstName string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO users (id, username, first_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET username = $2, first_name = $3`,
		id, username, firstName)
	if err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

// ListMasters returns active masters, optionally filtered to an exact
// specialization. Callers normalize free-text specializations first.
func (s *Store) ListMasters(ctx context.Context, specialization string) ([]domain.Master, error) {
	query := `SELECT id, name, specialization, is_active FROM masters WHERE is_active ORDER BY id`
	args := []any{}
	if specialization != "" {
		query = `SELECT id, name, specialization, is_active FROM masters
			WHERE is_active AND specialization = $1 ORDER BY id`
		args = append(args, specialization)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list masters: %w", err)
	}
	defer rows.Close()

	var masters []domain.Master
	for rows.Next() {
		var m domain.Master
		if err := rows.Scan(&m.ID, &m.Name, &m.Specialization, &m.IsActive); err != nil {
			return nil, fmt.Errorf("scan master: %w", err)
		}
		masters = append(masters, m)
	}
	return masters, rows.Err()
}

func (s *Store) ListServices(ctx context.Context, category string) ([]domain.Service, error) {
	query := `SELECT id, name, category, duration_minutes, price FROM services ORDER BY id`
	args := []any{}
	if category != "" {
		query = `SELECT id, name, category, duration_minutes, price FROM services
			WHERE category = $1 ORDER BY id`
		args = append(args, category)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	var services []domain.Service
	for rows.Next() {
		var svc domain.Service
		if err := rows.Scan(&svc.ID, &svc.Name, &svc.Category, &svc.DurationMinutes, &svc.Price); err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		services = append(services, svc)
	}
	return services, rows.Err()
}

// IsAvailable reports whether the master has no live appointment at the
// exact timestamp.
func (s *Store) IsAvailable(ctx context.Context, masterID int64, at time.Time) (bool, error) {
	var count int
	err := s.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM appointments
		WHERE master_id = $1 AND starts_at = $2 AND status <> 'cancelled'`,
		masterID, at).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check availability: %w", err)
	}
	return count == 0, nil
}

// CreateAppointment inserts a booking. A concurrent booking that won the
// same slot surfaces as domain.ErrSlotTaken via the partial unique index.
func (s *Store) CreateAppointment(ctx context.Context, userID, masterID, serviceID int64, at time.Time) (int64, error) {
	var id int64
	err := s.db.QueryRow(ctx, `
		INSERT INTO appointments (user_id, master_id, service_id, starts_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		userID, masterID, serviceID, at).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, domain.ErrSlotTaken
		}
		return 0, fmt.Errorf("create appointment: %w", err)
	}
	return id, nil
}

func (s *Store) ListAppointments(ctx context.Context, userID int64) ([]domain.Appointment, error) {
	rows, err := s.db.Query(ctx, `
		SELECT a.id, a.user_id, a.master_id, a.service_id, a.starts_at, a.status, a.created_at,
		       m.name, sv.name, sv.price
		FROM appointments a
		JOIN masters m ON a.master_id = m.id
		JOIN services sv ON a.service_id = sv.id
		WHERE a.user_id = $1
		ORDER BY a.starts_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	var appointments []domain.Appointment
	for rows.Next() {
		var a domain.Appointment
		if err := rows.Scan(&a.ID, &a.UserID, &a.MasterID, &a.ServiceID, &a.StartsAt, &a.Status,
			&a.CreatedAt, &a.MasterName, &a.ServiceName, &a.Price); err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		appointments = append(appointments, a)
	}
	return appointments, rows.Err()
}

func (s *Store) AppendConversation(ctx context.Context, userID int64, message string, isBot bool, intent string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO conversations (user_id, message, is_bot, intent)
		VALUES ($1, $2, $3, $4)`,
		userID, message, isBot, intent)
	if err != nil {
		return fmt.Errorf("append conversation: %w", err)
	}
	return nil
}

// LoadConversation returns the last limit turns in chronological order.
func (s *Store) LoadConversation(ctx context.Context, userID int64, limit int) ([]domain.ConversationTurn, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, message, is_bot, intent, created_at
		FROM (
			SELECT id, user_id, message, is_bot, intent, created_at
			FROM conversations
			WHERE user_id = $1
			ORDER BY id DESC
			LIMIT $2
		) tail
		ORDER BY id`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("load conversation: %w", err)
	}
	defer rows.Close()

	var turns []domain.ConversationTurn
	for rows.Next() {
		var t domain.ConversationTurn
		if err := rows.Scan(&t.ID, &t.UserID, &t.Message, &t.IsBot, &t.Intent, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		turns = append(turns, t)
	}
	return turns, rows.Err()
}

func (s *Store) ListKnowledge(ctx context.Context) ([]domain.KnowledgeEntry, error) {
	rows, err := s.db.Query(ctx, `SELECT id, category, keywords, content FROM knowledge ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list knowledge: %w", err)
	}
	defer rows.Close()

	var entries []domain.KnowledgeEntry
	for rows.Next() {
		var e domain.KnowledgeEntry
		if err := rows.Scan(&e.ID, &e.Category, &e.Keywords, &e.Content); err != nil {
			return nil, fmt.Errorf("scan knowledge: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	err := s.db.QueryRow(ctx, `
		SELECT id, username, first_name, phone, created_at FROM users WHERE id = $1`,
		id).Scan(&u.ID, &u.Username, &u.FirstName, &u.Phone, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}
