// Package sqlite persists tickets in a SQLite database file.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/deskhand-io/deskhand/pkg/domain"
	"github.com/deskhand-io/deskhand/pkg/ports"
)

// TicketStore implements ports.TicketStore using SQLite.
type TicketStore struct {
	db *sql.DB
}

// NewTicketStore opens (or creates) the database at path and runs migrations.
func NewTicketStore(path string) (*TicketStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("ticket store: open: %w", err)
	}

	// WAL mode for better concurrent reads.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("ticket store: wal: %w", err)
	}

	s := &TicketStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *TicketStore) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS tickets (
			id              TEXT PRIMARY KEY,
			title           TEXT NOT NULL,
			description     TEXT NOT NULL DEFAULT '',
			category        TEXT NOT NULL DEFAULT 'general',
			customer_name   TEXT NOT NULL DEFAULT '',
			customer_email  TEXT NOT NULL DEFAULT '',
			details         TEXT NOT NULL DEFAULT '[]',
			status          TEXT NOT NULL DEFAULT 'open',
			conversation_id TEXT NOT NULL DEFAULT '',
			created_at      TEXT NOT NULL,
			closed_at       TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_tickets_status ON tickets(status);
		CREATE INDEX IF NOT EXISTS idx_tickets_category ON tickets(category);
		CREATE INDEX IF NOT EXISTS idx_tickets_conversation ON tickets(conversation_id);
	`)
	if err != nil {
		return fmt.Errorf("ticket store: migrate: %w", err)
	}
	return nil
}

const ticketColumns = "id, title, description, category, customer_name, customer_email, details, status, conversation_id, created_at, closed_at"

// Save inserts or updates a ticket.
func (s *TicketStore) Save(ctx context.Context, t *domain.Ticket) error {
	details, _ := json.Marshal(t.Details)
	var closedAt *string
	if t.ClosedAt != nil {
		v := t.ClosedAt.Format(time.RFC3339)
		closedAt = &v
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tickets (`+ticketColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title=excluded.title, description=excluded.description, category=excluded.category,
			customer_name=excluded.customer_name, customer_email=excluded.customer_email,
			details=excluded.details, status=excluded.status, closed_at=excluded.closed_at
	`, t.ID, t.Title, t.Description, string(t.Category), t.CustomerName, t.CustomerEmail,
		string(details), string(t.Status), t.ConversationID, t.CreatedAt.Format(time.RFC3339), closedAt)
	if err != nil {
		return fmt.Errorf("ticket store: save: %w", err)
	}
	return nil
}

// Get retrieves a ticket by ID.
func (s *TicketStore) Get(ctx context.Context, id string) (*domain.Ticket, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id = ?`, id)
	t, err := scanTicket(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrTicketNotFound
		}
		return nil, fmt.Errorf("ticket store: get: %w", err)
	}
	return t, nil
}

// List returns tickets matching the filter, newest first.
func (s *TicketStore) List(ctx context.Context, filter ports.TicketFilter) ([]*domain.Ticket, error) {
	query := "SELECT " + ticketColumns + " FROM tickets WHERE 1=1"
	query, args := applyFilter(query, nil, filter)
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ticket store: list: %w", err)
	}
	defer rows.Close()

	var tickets []*domain.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("ticket store: list scan: %w", err)
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

// Count returns the number of tickets matching the filter.
func (s *TicketStore) Count(ctx context.Context, filter ports.TicketFilter) (int, error) {
	query, args := applyFilter("SELECT COUNT(*) FROM tickets WHERE 1=1", nil, filter)

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("ticket store: count: %w", err)
	}
	return count, nil
}

// UpdateStatus changes a ticket's status.
func (s *TicketStore) UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) error {
	result, err := s.db.ExecContext(ctx, `UPDATE tickets SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("ticket store: update status: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return domain.ErrTicketNotFound
	}
	return nil
}

// Close marks a ticket as closed and records the close time.
func (s *TicketStore) Close(ctx context.Context, id string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	result, err := s.db.ExecContext(ctx, `UPDATE tickets SET status = 'closed', closed_at = ? WHERE id = ?`, now, id)
	if err != nil {
		return fmt.Errorf("ticket store: close: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return domain.ErrTicketNotFound
	}
	return nil
}

// Shutdown closes the database handle.
func (s *TicketStore) Shutdown() error {
	return s.db.Close()
}

func applyFilter(query string, args []any, filter ports.TicketFilter) (string, []any) {
	if filter.Status != nil {
		query += " AND status = ?"
		args = append(args, string(*filter.Status))
	}
	if filter.Category != "" {
		query += " AND category = ?"
		args = append(args, string(filter.Category))
	}
	if filter.Query != "" {
		query += " AND (title LIKE ? OR description LIKE ?)"
		pattern := fmt.Sprintf("%%%s%%", filter.Query)
		args = append(args, pattern, pattern)
	}
	return query, args
}

type scannable interface {
	Scan(dest ...any) error
}

func scanTicket(row scannable) (*domain.Ticket, error) {
	var t domain.Ticket
	var detailsJSON, category, status, createdAt string
	var closedAt *string

	err := row.Scan(&t.ID, &t.Title, &t.Description, &category, &t.CustomerName,
		&t.CustomerEmail, &detailsJSON, &status, &t.ConversationID, &createdAt, &closedAt)
	if err != nil {
		return nil, err
	}

	t.Category = domain.Category(category)
	t.Status = domain.TicketStatus(status)
	json.Unmarshal([]byte(detailsJSON), &t.Details)
	t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	if closedAt != nil {
		ct, _ := time.Parse(time.RFC3339, *closedAt)
		t.ClosedAt = &ct
	}
	return &t, nil
}

var _ ports.TicketStore = (*TicketStore)(nil)
