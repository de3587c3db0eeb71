package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hammamikhairi/yojana/internal/domain"
	"github.com/hammamikhairi/yojana/internal/logger"
)

func TestMemoryStoreCRUD(t *testing.T) {
	store := NewMemoryStore(logger.New(logger.LevelOff, nil))
	ctx := context.Background()

	session := &domain.Session{
		ID:        "s-1",
		Step:      domain.StepProfile,
		Language:  domain.LangGujarati,
		UpdatedAt: time.Now(),
	}

	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.Load(ctx, "s-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.ID != session.ID || loaded.Step != domain.StepProfile {
		t.Fatalf("loaded %+v", loaded)
	}

	if _, err := store.Load(ctx, "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := store.Delete(ctx, "s-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete(ctx, "s-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestMemoryStoreCopies(t *testing.T) {
	store := NewMemoryStore(logger.New(logger.LevelOff, nil))
	ctx := context.Background()

	session := &domain.Session{
		ID:      "s-1",
		Profile: &domain.UserProfile{State: "Gujarat"},
		Result: &domain.RecommendationResult{
			Schemes: []domain.Scheme{{ID: "a", EligibilityCriteria: []string{"farmer"}}},
			Summary: "x",
		},
	}
	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("save: %v", err)
	}

	session.Profile.State = "Bihar"
	session.Result.Schemes[0].EligibilityCriteria[0] = "changed"

	loaded, _ := store.Load(ctx, "s-1")
	if loaded.Profile.State != "Gujarat" {
		t.Fatalf("profile shared with caller: %q", loaded.Profile.State)
	}
	if loaded.Result.Schemes[0].EligibilityCriteria[0] != "farmer" {
		t.Fatal("criteria shared with caller")
	}

	loaded.Step = domain.StepResults
	again, _ := store.Load(ctx, "s-1")
	if again.Step == domain.StepResults {
		t.Fatal("loaded session shared with store")
	}
}

func TestMemoryStoreListOrder(t *testing.T) {
	store := NewMemoryStore(logger.New(logger.LevelOff, nil))
	ctx := context.Background()
	now := time.Now()

	for i, id := range []string{"old", "new", "mid"} {
		offsets := []time.Duration{-time.Hour, 0, -time.Minute}
		_ = store.Save(ctx, &domain.Session{ID: id, UpdatedAt: now.Add(offsets[i])})
	}

	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 || list[0].ID != "new" || list[1].ID != "mid" || list[2].ID != "old" {
		var ids []string
		for _, s := range list {
			ids = append(ids, s.ID)
		}
		t.Fatalf("order = %v, want [new mid old]", ids)
	}
}
