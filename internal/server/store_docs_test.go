package server

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/playperu/flashcardquiz/internal/flashquiz"
)

func installedStore(t *testing.T) (*DocStore, string) {
	t.Helper()
	ctx := context.Background()
	store := setupTestStore(t)
	if _, err := store.CreateSession(ctx, "s1", "hash"); err != nil {
		t.Fatalf("create session: %v", err)
	}
	quizzes, errs := checkSetup(sixCardSetup())
	if len(errs) != 0 {
		t.Fatalf("setup errors: %v", errs)
	}
	cfg := flashquiz.NewGameConfig("img", quizzes)
	_, _, err := store.Update(ctx, "s1", func(s *flashquiz.Session) error {
		if err := s.InstallConfig(cfg); err != nil {
			return err
		}
		return s.StartGame()
	})
	if err != nil {
		t.Fatalf("install config: %v", err)
	}
	return store, "s1"
}

func TestDocStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, id := installedStore(t)

	snap, changes, err := store.Update(ctx, id, func(s *flashquiz.Session) error {
		if _, err := s.ActivateCard(1); err != nil {
			return err
		}
		return s.RevealActiveCard()
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(changes) != 2 || changes[1].Op != flashquiz.OpRevealActiveCard {
		t.Errorf("changes = %+v", changes)
	}

	rec, err := store.GetSession(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.TokenHash != "hash" {
		t.Errorf("token hash = %q", rec.TokenHash)
	}
	if rec.Snapshot.Phase != flashquiz.PhasePlaying || len(rec.Snapshot.RevealedCards) != 1 || rec.Snapshot.RevealedCards[0] != 1 {
		t.Errorf("stored snapshot = %+v", rec.Snapshot)
	}
	if snap.Config == nil || rec.Snapshot.Config == nil || rec.Snapshot.Config.CardCount != snap.Config.CardCount {
		t.Errorf("config not persisted: %+v", rec.Snapshot.Config)
	}
	if _, ok := rec.Snapshot.Config.Cards[1].Quiz.(*flashquiz.Media); !ok {
		t.Errorf("card 1 quiz = %T, want *flashquiz.Media", rec.Snapshot.Config.Cards[1].Quiz)
	}
}

func TestDocStoreFailedUpdateRollsBack(t *testing.T) {
	ctx := context.Background()
	store, id := installedStore(t)
	boom := errors.New("boom")

	_, _, err := store.Update(ctx, id, func(s *flashquiz.Session) error {
		if _, err := s.ActivateCard(0); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}

	rec, err := store.GetSession(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.Snapshot.ActiveCardIndex != nil {
		t.Errorf("failed update persisted active card %d", *rec.Snapshot.ActiveCardIndex)
	}
}

func TestDocStoreNotFound(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	if _, err := store.GetSession(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetSession err = %v, want ErrNotFound", err)
	}
	_, _, err := store.Update(ctx, "missing", func(*flashquiz.Session) error { return nil })
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Update err = %v, want ErrNotFound", err)
	}
}

func TestDocStoreConcurrentRevealsAreSerialized(t *testing.T) {
	ctx := context.Background()
	store, id := installedStore(t)

	var wg sync.WaitGroup
	for i := 1; i < 6; i += 2 {
		wg.Add(1)
		go func(card int) {
			defer wg.Done()
			_, _, err := store.Update(ctx, id, func(s *flashquiz.Session) error {
				if _, err := s.ActivateCard(card); err != nil {
					return err
				}
				return s.RevealActiveCard()
			})
			if err != nil {
				t.Errorf("reveal %d: %v", card, err)
			}
		}(i)
	}
	wg.Wait()

	rec, err := store.GetSession(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(rec.Snapshot.RevealedCards) != 3 {
		t.Errorf("revealed = %v, want three cards", rec.Snapshot.RevealedCards)
	}
}
