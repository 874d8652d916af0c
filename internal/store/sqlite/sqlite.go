package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mkazancev/relaychat-server/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	first_name    TEXT NOT NULL,
	last_name     TEXT NOT NULL,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS messages (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	sender     TEXT NOT NULL,
	recipient  TEXT NOT NULL,
	body       TEXT NOT NULL,
	seen       BOOLEAN NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_messages_recipient_seen ON messages (recipient, seen);
CREATE INDEX IF NOT EXISTS idx_messages_sender_recipient ON messages (sender, recipient);
`

// SQLiteStore implements store.Store for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New opens (or creates) the database at dbPath and applies the schema.
// WAL keeps message appends O(1); seen-flips are row updates, never a
// rewrite of the whole log.
func New(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// NewWithSetup opens the database and runs a setup function instead of the
// default schema. Useful for tests.
func NewWithSetup(dbPath string, setup func(*sql.DB) error) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if setup != nil {
		if err := setup(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("setup: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ==== UserStore implementation ====

// CreateUser persists a new account.
func (s *SQLiteStore) CreateUser(ctx context.Context, u *store.User) error {
	query := `
		INSERT INTO users (id, first_name, last_name, email, password_hash)
		VALUES (?, ?, ?, ?, ?)
	`
	if _, err := s.db.ExecContext(ctx, query, u.ID, u.FirstName, u.LastName, u.Email, u.PasswordHash); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}

	created, err := s.GetUserByID(ctx, u.ID)
	if err != nil {
		return err
	}
	u.CreatedAt = created.CreatedAt
	return nil
}

// GetUserByEmail retrieves an account by email.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*store.User, error) {
	return s.getUser(ctx, "email = ?", email)
}

// GetUserByID retrieves an account by id.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*store.User, error) {
	return s.getUser(ctx, "id = ?", id)
}

func (s *SQLiteStore) getUser(ctx context.Context, where string, arg any) (*store.User, error) {
	query := `
		SELECT id, first_name, last_name, email, password_hash, created_at
		FROM users
		WHERE ` + where
	var user store.User
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}

	return &user, nil
}

// ListUsers lists all accounts ordered by creation time.
func (s *SQLiteStore) ListUsers(ctx context.Context) ([]*store.User, error) {
	query := `
		SELECT id, first_name, last_name, email, password_hash, created_at
		FROM users
		ORDER BY created_at, id
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := make([]*store.User, 0)
	for rows.Next() {
		var user store.User
		if err := rows.Scan(
			&user.ID,
			&user.FirstName,
			&user.LastName,
			&user.Email,
			&user.PasswordHash,
			&user.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, &user)
	}

	return users, rows.Err()
}

// ==== MessageStore implementation ====

// AppendMessage persists a message and fills in msg.ID.
func (s *SQLiteStore) AppendMessage(ctx context.Context, msg *store.Message) error {
	query := `
		INSERT INTO messages (sender, recipient, body, seen, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	result, err := s.db.ExecContext(ctx, query, msg.Sender, msg.Recipient, msg.Body, msg.Seen, msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	msg.ID = id

	return nil
}

// ListMessages returns the full log in creation order.
func (s *SQLiteStore) ListMessages(ctx context.Context) ([]*store.Message, error) {
	query := `
		SELECT id, sender, recipient, body, seen, created_at
		FROM messages
		ORDER BY id
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	messages := make([]*store.Message, 0)
	for rows.Next() {
		var msg store.Message
		if err := rows.Scan(
			&msg.ID,
			&msg.Sender,
			&msg.Recipient,
			&msg.Body,
			&msg.Seen,
			&msg.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, &msg)
	}

	return messages, rows.Err()
}

// MarkSeen flips seen to true for every unseen message from sender to
// recipient in one statement.
func (s *SQLiteStore) MarkSeen(ctx context.Context, sender, recipient string) (int64, error) {
	query := `
		UPDATE messages
		SET seen = 1
		WHERE sender = ? AND recipient = ? AND seen = 0
	`
	result, err := s.db.ExecContext(ctx, query, sender, recipient)
	if err != nil {
		return 0, fmt.Errorf("update seen: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}

	return affected, nil
}

// CountUnseen returns unseen message counts keyed by recipient.
func (s *SQLiteStore) CountUnseen(ctx context.Context) (map[string]int64, error) {
	query := `
		SELECT recipient, COUNT(*)
		FROM messages
		WHERE seen = 0
		GROUP BY recipient
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query unseen counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var recipient string
		var count int64
		if err := rows.Scan(&recipient, &count); err != nil {
			return nil, fmt.Errorf("scan unseen count: %w", err)
		}
		counts[recipient] = count
	}

	return counts, rows.Err()
}
