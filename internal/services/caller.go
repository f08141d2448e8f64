package services

import (
	"context"
	"time"

	"github.com/infosegura/loteria-server/internal/logger"
	"github.com/infosegura/loteria-server/internal/models"
	"github.com/infosegura/loteria-server/internal/scheduler"
)

// DefaultCallInterval is the cadence between card calls
const DefaultCallInterval = 3500 * time.Millisecond

// CardCaller drives the timed calling loop for active games. One loop runs
// per room; each tick asks the room service for the next card and pushes
// the result to subscribers. Loops stop on demand (win, host stop, room
// deletion) or on their own when the deck runs out.
type CardCaller struct {
	log         logger.Logger
	rooms       CardSource
	sched       *scheduler.Scheduler
	interval    time.Duration
	broadcaster Broadcaster
}

// CardSource is the slice of the room service the caller needs
type CardSource interface {
	CallNextCard(ctx context.Context, roomID string) (*models.Room, bool, error)
}

// NewCardCaller creates a CardCaller with the default call cadence
func NewCardCaller(log logger.Logger, rooms CardSource, sched *scheduler.Scheduler) *CardCaller {
	return &CardCaller{
		log:      log,
		rooms:    rooms,
		sched:    sched,
		interval: DefaultCallInterval,
	}
}

// SetBroadcaster sets the broadcaster used to push call results
func (c *CardCaller) SetBroadcaster(b Broadcaster) {
	c.broadcaster = b
}

// SetInterval overrides the call cadence, for tests
func (c *CardCaller) SetInterval(d time.Duration) {
	c.interval = d
}

// Start launches the call loop for roomID. The first card is called
// immediately, then one per interval. Starting a room whose loop already
// runs is a no-op.
func (c *CardCaller) Start(roomID string) {
	ctx, ok := c.sched.Register(roomID)
	if !ok {
		return
	}
	c.log.Info("Call loop started", "room", roomID, "interval", c.interval)
	go c.run(ctx, roomID)
}

// Stop cancels the call loop for roomID, reporting whether one was running
func (c *CardCaller) Stop(roomID string) bool {
	stopped := c.sched.Cancel(roomID)
	if stopped {
		c.log.Info("Call loop stopped", "room", roomID)
	}
	return stopped
}

// Running reports whether a call loop is registered for roomID
func (c *CardCaller) Running(roomID string) bool {
	return c.sched.Has(roomID)
}

func (c *CardCaller) run(ctx context.Context, roomID string) {
	if done := c.step(ctx, roomID); done {
		c.sched.Deregister(roomID)
		return
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if done := c.step(ctx, roomID); done {
				c.sched.Deregister(roomID)
				return
			}
		}
	}
}

// step performs one call. Errors are transient (a failed save): the tick is
// skipped and the loop keeps going. done means the loop should exit.
func (c *CardCaller) step(ctx context.Context, roomID string) bool {
	room, done, err := c.rooms.CallNextCard(ctx, roomID)
	if err != nil {
		c.log.Warn("Card call failed, skipping tick", "room", roomID, "error", err)
		return false
	}
	if room == nil {
		return done
	}

	if c.broadcaster != nil {
		c.broadcaster.GameUpdated(roomID, &room.GameState)
		if done {
			// Deck exhausted: the draw outcome changed rosters' marks too
			c.broadcaster.RoomUpdated(roomID, room)
		}
	}
	if done {
		c.log.Info("Deck exhausted, game ended in a draw", "room", roomID, "called", len(room.GameState.CalledCardIDs))
	}
	return done
}
