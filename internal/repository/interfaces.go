package repository

import (
	"context"

	"github.com/infosegura/loteria-server/internal/models"
)

// RoomRecord pairs a room id with its decoded state, as returned by scans
type RoomRecord struct {
	ID   string
	Room *models.Room
}

// RoomRepository defines room persistence operations. Every write is a
// full-room replace; read-modify-write cycles are serialized above this
// layer by the session manager's per-room locks.
type RoomRepository interface {
	GetRoom(ctx context.Context, roomID string) (*models.Room, error)
	SaveRoom(ctx context.Context, roomID string, room *models.Room) error
	DeleteRoom(ctx context.Context, roomID string) error
	ListRooms(ctx context.Context) ([]RoomRecord, error)
	DeleteAllRooms(ctx context.Context) (int64, error)
}

// Ensure Repository implements the interface
var _ RoomRepository = (*Repository)(nil)
