package repository

import (
	"context"
	"testing"

	"github.com/infosegura/loteria-server/internal/logger"
	"github.com/infosegura/loteria-server/internal/models"
)

// newTestRepo creates a new in-memory repository for testing.
func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(":memory:", logger.New())
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func sampleRoom(host string) *models.Room {
	return &models.Room{
		Players: map[string]*models.Player{
			host: {
				Name:          host,
				IsOnline:      true,
				JoinedAt:      1000,
				LastSeen:      1000,
				MarkedIndices: []int{},
			},
		},
		GameState: models.GameState{
			Host:          host,
			Deck:          []int{},
			CalledCardIDs: []int{},
		},
	}
}

func TestSaveRoom_Roundtrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	room := sampleRoom("maria")
	room.GameState.GameMode = models.ModeCorners
	room.GameState.CalledCardIDs = []int{7, 12, 3}

	if err := repo.SaveRoom(ctx, "sala-1", room); err != nil {
		t.Fatalf("SaveRoom failed: %v", err)
	}

	got, err := repo.GetRoom(ctx, "sala-1")
	if err != nil {
		t.Fatalf("GetRoom failed: %v", err)
	}
	if got.GameState.Host != "maria" {
		t.Errorf("expected host maria, got %q", got.GameState.Host)
	}
	if got.GameState.GameMode != models.ModeCorners {
		t.Errorf("expected corners mode, got %q", got.GameState.GameMode)
	}
	if len(got.GameState.CalledCardIDs) != 3 || got.GameState.CalledCardIDs[0] != 7 {
		t.Errorf("call history not preserved: %v", got.GameState.CalledCardIDs)
	}
	if _, ok := got.Players["maria"]; !ok {
		t.Error("player roster not preserved")
	}
}

func TestSaveRoom_ReplacesExisting(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.SaveRoom(ctx, "sala-1", sampleRoom("maria")); err != nil {
		t.Fatalf("first SaveRoom failed: %v", err)
	}
	if err := repo.SaveRoom(ctx, "sala-1", sampleRoom("pedro")); err != nil {
		t.Fatalf("second SaveRoom failed: %v", err)
	}

	got, err := repo.GetRoom(ctx, "sala-1")
	if err != nil {
		t.Fatalf("GetRoom failed: %v", err)
	}
	if got.GameState.Host != "pedro" {
		t.Errorf("expected replacement host pedro, got %q", got.GameState.Host)
	}
}

func TestGetRoom_NonExistent(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetRoom(context.Background(), "missing")
	if err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetRoom_NilPlayersFixedUp(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	// A room stored without players must come back with a usable map
	if _, err := repo.db.ExecContext(ctx,
		`INSERT INTO rooms (id, data) VALUES (?, ?)`,
		"bare", `{"gameState":{"host":""}}`); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	got, err := repo.GetRoom(ctx, "bare")
	if err != nil {
		t.Fatalf("GetRoom failed: %v", err)
	}
	if got.Players == nil {
		t.Error("expected non-nil players map")
	}
}

func TestDeleteRoom_Basic(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.SaveRoom(ctx, "sala-1", sampleRoom("maria")); err != nil {
		t.Fatalf("SaveRoom failed: %v", err)
	}
	if err := repo.DeleteRoom(ctx, "sala-1"); err != nil {
		t.Fatalf("DeleteRoom failed: %v", err)
	}

	if _, err := repo.GetRoom(ctx, "sala-1"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestDeleteRoom_MissingIsNoError(t *testing.T) {
	repo := newTestRepo(t)

	if err := repo.DeleteRoom(context.Background(), "never-existed"); err != nil {
		t.Errorf("deleting a missing room should not error, got %v", err)
	}
}

func TestListRooms_Basic(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.SaveRoom(ctx, "sala-b", sampleRoom("b")); err != nil {
		t.Fatalf("SaveRoom failed: %v", err)
	}
	if err := repo.SaveRoom(ctx, "sala-a", sampleRoom("a")); err != nil {
		t.Fatalf("SaveRoom failed: %v", err)
	}

	records, err := repo.ListRooms(ctx)
	if err != nil {
		t.Fatalf("ListRooms failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 rooms, got %d", len(records))
	}
	if records[0].ID != "sala-a" || records[1].ID != "sala-b" {
		t.Errorf("expected id order, got %q then %q", records[0].ID, records[1].ID)
	}
}

func TestListRooms_SkipsCorruptRecord(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.SaveRoom(ctx, "good", sampleRoom("maria")); err != nil {
		t.Fatalf("SaveRoom failed: %v", err)
	}
	if _, err := repo.db.ExecContext(ctx,
		`INSERT INTO rooms (id, data) VALUES (?, ?)`, "bad", "{not json"); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	records, err := repo.ListRooms(ctx)
	if err != nil {
		t.Fatalf("ListRooms failed: %v", err)
	}
	if len(records) != 1 || records[0].ID != "good" {
		t.Errorf("expected only the good record, got %v", records)
	}
}

func TestDeleteAllRooms_CountsRows(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if err := repo.SaveRoom(ctx, id, sampleRoom(id)); err != nil {
			t.Fatalf("SaveRoom failed: %v", err)
		}
	}

	n, err := repo.DeleteAllRooms(ctx)
	if err != nil {
		t.Fatalf("DeleteAllRooms failed: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 rows deleted, got %d", n)
	}

	records, err := repo.ListRooms(ctx)
	if err != nil {
		t.Fatalf("ListRooms failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected empty table, got %d records", len(records))
	}
}
