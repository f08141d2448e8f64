package services

import (
	"context"
	"time"

	"github.com/infosegura/loteria-server/internal/models"
	"github.com/infosegura/loteria-server/internal/repository"
)

// Broadcaster pushes state changes to every client subscribed to a room.
// The websocket hub implements it; services hold it behind this interface
// so the dependency points outward only.
type Broadcaster interface {
	RoomUpdated(roomID string, room *models.Room)
	GameUpdated(roomID string, state *models.GameState)
	PlayerLeft(roomID, playerName string)
	RoomClosed(roomID string)
}

// SequencerControl stops a room's call loop. RoomService uses it when a
// win claim or a stop command ends the game.
type SequencerControl interface {
	Stop(roomID string) bool
}

// RoomServicer defines the session manager operations used by the gateway
// and the admin handlers
type RoomServicer interface {
	Join(ctx context.Context, roomID, playerName string, data *models.Player) (*models.Room, bool, error)
	Leave(ctx context.Context, roomID, playerName string) (*models.Room, error)
	Presence(ctx context.Context, roomID, playerName string) error
	MarkOffline(ctx context.Context, roomID, playerName string) error
	CleanupStale(ctx context.Context, offlineAfter, removeAfter time.Duration) ([]string, error)

	MarkCell(ctx context.Context, roomID, playerName string, index int) (*models.Room, error)
	UnmarkCell(ctx context.Context, roomID, playerName string, index int) (*models.Room, error)
	SetMode(ctx context.Context, roomID, actor string, mode models.GameMode) (*models.Room, error)
	RegenerateBoard(ctx context.Context, roomID, playerName string) (*models.Room, error)
	StartGame(ctx context.Context, roomID, actor string, mode models.GameMode) (*models.Room, bool, error)
	StopGame(ctx context.Context, roomID, actor string) (*models.Room, error)
	ResetGame(ctx context.Context, roomID, actor string) (*models.Room, error)
	ClaimWin(ctx context.Context, roomID, playerName string, claim models.WinClaim) (*models.Room, error)
	CallNextCard(ctx context.Context, roomID string) (*models.Room, bool, error)

	GetRoom(ctx context.Context, roomID string) (*models.Room, error)
	ListRooms(ctx context.Context) ([]repository.RoomRecord, error)
	DeleteRoom(ctx context.Context, roomID string) error
	ClearAllPlayers(ctx context.Context) (int64, error)
}

// CallerServicer drives the timed card calling for active rooms
type CallerServicer interface {
	Start(roomID string)
	Stop(roomID string) bool
	Running(roomID string) bool
}
