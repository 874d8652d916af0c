package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// User represents an account in the system. The ID is the stable identity
// that sessions bind to; it never changes after signup.
type User struct {
	ID           string // UUID
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Message represents a persisted chat message. The log is append-only:
// messages are never deleted, and Seen only ever flips false -> true.
type Message struct {
	ID        int64
	Sender    string
	Recipient string
	Body      string
	Seen      bool
	CreatedAt time.Time
}

// UserStore handles account persistence.
type UserStore interface {
	// CreateUser persists a new account. u.ID must be set by the caller.
	CreateUser(ctx context.Context, u *User) error

	// GetUserByEmail retrieves an account by email.
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	// GetUserByID retrieves an account by id.
	GetUserByID(ctx context.Context, id string) (*User, error)

	// ListUsers lists all accounts ordered by creation time.
	ListUsers(ctx context.Context) ([]*User, error)
}

// MessageStore handles the durable message log.
type MessageStore interface {
	// AppendMessage persists a message and fills in msg.ID.
	AppendMessage(ctx context.Context, msg *Message) error

	// ListMessages returns the full log in creation order.
	ListMessages(ctx context.Context) ([]*Message, error)

	// MarkSeen flips seen to true for every unseen message from sender to
	// recipient. Returns the number of rows updated; zero is not an error.
	MarkSeen(ctx context.Context, sender, recipient string) (int64, error)

	// CountUnseen returns unseen message counts keyed by recipient.
	CountUnseen(ctx context.Context) (map[string]int64, error)
}

// Store aggregates all storage interfaces.
type Store interface {
	UserStore
	MessageStore

	// Close closes the underlying database connection.
	Close() error
}
