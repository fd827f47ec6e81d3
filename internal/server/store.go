package server

import (
	"context"
	"errors"
	"time"

	"github.com/playperu/flashcardquiz/internal/flashquiz"
)

var ErrNotFound = errors.New("not found")

type sessionRecord struct {
	ID        string
	TokenHash string
	Snapshot  flashquiz.Snapshot
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store keeps play sessions. Update runs fn against a restored session and
// saves the result atomically; changes fn triggers are returned once the
// write has committed.
type Store interface {
	CreateSession(ctx context.Context, id, tokenHash string) (sessionRecord, error)
	GetSession(ctx context.Context, id string) (sessionRecord, error)
	Update(ctx context.Context, id string, fn func(*flashquiz.Session) error) (flashquiz.Snapshot, []flashquiz.Change, error)
}
