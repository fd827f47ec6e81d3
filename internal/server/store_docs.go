package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/playperu/flashcardquiz/internal/flashquiz"
)

const timeLayout = "2006-01-02T15:04:05.000Z"

// DocStore implements Store with one JSONB document per session.
type DocStore struct {
	db    *sql.DB
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewDocStore(db *sql.DB) *DocStore {
	return &DocStore{db: db, locks: make(map[string]*sync.Mutex)}
}

func (s *DocStore) lock(id string) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock
}

func (s *DocStore) CreateSession(ctx context.Context, id, tokenHash string) (sessionRecord, error) {
	snap := flashquiz.NewSession().Snapshot()
	data, err := json.Marshal(snap)
	if err != nil {
		return sessionRecord{}, err
	}
	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, token_hash, phase, data, created_at, updated_at)
		VALUES (?, ?, ?, jsonb(?), ?, ?)
	`, id, tokenHash, string(snap.Phase), string(data), now.Format(timeLayout), now.Format(timeLayout))
	if err != nil {
		return sessionRecord{}, fmt.Errorf("inserting session: %w", err)
	}
	return sessionRecord{ID: id, TokenHash: tokenHash, Snapshot: snap, CreatedAt: now, UpdatedAt: now}, nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getSession(ctx context.Context, q queryRower, id string) (sessionRecord, error) {
	var (
		rec                  sessionRecord
		data                 string
		createdAt, updatedAt string
	)
	err := q.QueryRowContext(ctx, `
		SELECT id, token_hash, json(data), created_at, updated_at
		FROM sessions WHERE id = ?
	`, id).Scan(&rec.ID, &rec.TokenHash, &data, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, ErrNotFound
	}
	if err != nil {
		return rec, fmt.Errorf("loading session %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(data), &rec.Snapshot); err != nil {
		return rec, fmt.Errorf("decoding session %s: %w", id, err)
	}
	rec.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	rec.UpdatedAt, _ = time.Parse(timeLayout, updatedAt)
	return rec, nil
}

func (s *DocStore) GetSession(ctx context.Context, id string) (sessionRecord, error) {
	return getSession(ctx, s.db, id)
}

func (s *DocStore) Update(ctx context.Context, id string, fn func(*flashquiz.Session) error) (flashquiz.Snapshot, []flashquiz.Change, error) {
	unlock := s.lock(id)
	defer unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return flashquiz.Snapshot{}, nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	rec, err := getSession(ctx, tx, id)
	if err != nil {
		return flashquiz.Snapshot{}, nil, err
	}
	sess, err := flashquiz.Restore(rec.Snapshot)
	if err != nil {
		return flashquiz.Snapshot{}, nil, fmt.Errorf("restoring session %s: %w", id, err)
	}

	var changes []flashquiz.Change
	sess.OnChange(func(c flashquiz.Change) { changes = append(changes, c) })

	if err := fn(sess); err != nil {
		return flashquiz.Snapshot{}, nil, err
	}
	if len(changes) == 0 {
		return sess.Snapshot(), nil, nil
	}

	snap := sess.Snapshot()
	data, err := json.Marshal(snap)
	if err != nil {
		return flashquiz.Snapshot{}, nil, err
	}
	_, err = tx.ExecContext(ctx, `
		UPDATE sessions SET phase = ?, data = jsonb(?), updated_at = ?
		WHERE id = ?
	`, string(snap.Phase), string(data), time.Now().UTC().Format(timeLayout), id)
	if err != nil {
		return flashquiz.Snapshot{}, nil, fmt.Errorf("saving session %s: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return flashquiz.Snapshot{}, nil, fmt.Errorf("committing session %s: %w", id, err)
	}
	return snap, changes, nil
}
