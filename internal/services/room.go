package services

import (
	"context"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/infosegura/loteria-server/internal/deck"
	"github.com/infosegura/loteria-server/internal/logger"
	"github.com/infosegura/loteria-server/internal/models"
	"github.com/infosegura/loteria-server/internal/repository"
	"github.com/infosegura/loteria-server/internal/wincheck"
)

// MaxPlayersPerRoom is the roster ceiling checked before every insert.
const MaxPlayersPerRoom = 100

// RoomService owns the authoritative room state machine: roster, host
// assignment, presence, the typed game commands and win validation. Every
// operation runs under a per-room lock covering its whole read-modify-write
// cycle against the store.
type RoomService struct {
	log   logger.Logger
	repo  repository.RoomRepository
	locks *roomLocks

	rngMu sync.Mutex
	rng   *rand.Rand
	now   func() time.Time

	broadcaster Broadcaster
	sequencer   SequencerControl
	maxPlayers  int
}

// NewRoomService creates a new RoomService
func NewRoomService(log logger.Logger, repo repository.RoomRepository) *RoomService {
	return &RoomService{
		log:        log,
		repo:       repo,
		locks:      newRoomLocks(),
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		now:        time.Now,
		maxPlayers: MaxPlayersPerRoom,
	}
}

// SetBroadcaster sets the broadcaster used for sweep and admin-driven updates
func (s *RoomService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// SetSequencer wires the call-loop control used when a game ends
func (s *RoomService) SetSequencer(c SequencerControl) {
	s.sequencer = c
}

// SetRandSource replaces the random source, for deterministic tests
func (s *RoomService) SetRandSource(src rand.Source) {
	s.rngMu.Lock()
	s.rng = rand.New(src)
	s.rngMu.Unlock()
}

// SetClock replaces the time source, for tests
func (s *RoomService) SetClock(now func() time.Time) {
	s.now = now
}

func (s *RoomService) nowMillis() int64 {
	return s.now().UnixMilli()
}

func (s *RoomService) newBoard() models.Board {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return deck.NewBoard(s.rng)
}

func (s *RoomService) newDeck() []int {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return deck.Shuffled(s.rng)
}

// loadRoom fetches a room, translating the repository sentinel to nil
func (s *RoomService) loadRoom(ctx context.Context, roomID string) (*models.Room, error) {
	room, err := s.repo.GetRoom(ctx, roomID)
	if err == repository.ErrNotFound {
		return nil, nil
	}
	return room, err
}

// findPlayer resolves a roster entry by case-insensitive name, returning
// the stored key
func findPlayer(room *models.Room, name string) (string, *models.Player) {
	for key, p := range room.Players {
		if strings.EqualFold(key, name) {
			return key, p
		}
	}
	return "", nil
}

// Join adds a player to a room, creating the room (with the joiner as host)
// when it does not exist. A same-name offline player is treated as a
// reconnection and refreshed in place; the second return value reports that
// case. A same-name online player yields ErrNameInUse; a full roster yields
// ErrRoomFull.
func (s *RoomService) Join(ctx context.Context, roomID, playerName string, data *models.Player) (*models.Room, bool, error) {
	s.locks.lock(roomID)
	defer s.locks.unlock(roomID)

	room, err := s.loadRoom(ctx, roomID)
	if err != nil {
		return nil, false, err
	}

	now := s.nowMillis()

	if room == nil {
		player := s.buildPlayer(playerName, data, now)
		room = &models.Room{
			Players: map[string]*models.Player{playerName: player},
			GameState: models.GameState{
				Host:          playerName,
				Winner:        nil,
				Deck:          []int{},
				CalledCardIDs: []int{},
				Timestamp:     now,
			},
		}
		if err := s.repo.SaveRoom(ctx, roomID, room); err != nil {
			return nil, false, err
		}
		s.log.Info("Room created", "room", roomID, "host", playerName)
		return room, false, nil
	}

	if key, existing := findPlayer(room, playerName); existing != nil {
		if existing.IsOnline {
			return nil, false, ErrNameInUse
		}
		// Reconnection: refresh the stored record in place, keeping the
		// original join order. The stored board survives unless the rejoin
		// payload carries a full one.
		existing.IsOnline = true
		existing.LastSeen = now
		if data != nil {
			if len(data.Board) == models.BoardSize {
				existing.Board = data.Board
			}
			if data.MarkedIndices != nil {
				existing.MarkedIndices = data.MarkedIndices
			}
		}
		room.GameState.Timestamp = now
		if err := s.repo.SaveRoom(ctx, roomID, room); err != nil {
			return nil, false, err
		}
		s.log.Info("Player reconnected", "room", roomID, "player", key)
		return room, true, nil
	}

	if len(room.Players) >= s.maxPlayers {
		return nil, false, ErrRoomFull
	}

	player := s.buildPlayer(playerName, data, now)
	room.Players[playerName] = player
	if room.GameState.Host == "" {
		room.GameState.Host = playerName
	}
	room.GameState.Timestamp = now

	if err := s.repo.SaveRoom(ctx, roomID, room); err != nil {
		return nil, false, err
	}
	s.log.Info("Player joined", "room", roomID, "player", playerName, "players", len(room.Players))
	return room, false, nil
}

// buildPlayer normalizes the join payload into a fresh roster entry
func (s *RoomService) buildPlayer(name string, data *models.Player, now int64) *models.Player {
	player := &models.Player{
		Name:          name,
		IsOnline:      true,
		LastSeen:      now,
		JoinedAt:      now,
		MarkedIndices: []int{},
	}
	if data != nil && len(data.Board) == models.BoardSize {
		player.Board = data.Board
	} else {
		player.Board = s.newBoard()
	}
	return player
}

// Leave removes the player outright, reassigning the host when needed and
// deleting the room once the last player is gone (returned room is nil in
// that case)
func (s *RoomService) Leave(ctx context.Context, roomID, playerName string) (*models.Room, error) {
	s.locks.lock(roomID)
	defer s.locks.unlock(roomID)

	room, err := s.loadRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}

	key, player := findPlayer(room, playerName)
	if player == nil {
		return nil, ErrPlayerNotFound
	}
	delete(room.Players, key)

	if len(room.Players) == 0 {
		if s.sequencer != nil {
			s.sequencer.Stop(roomID)
		}
		if err := s.repo.DeleteRoom(ctx, roomID); err != nil {
			return nil, err
		}
		s.log.Info("Room deleted, last player left", "room", roomID, "player", key)
		return nil, nil
	}

	s.reassignHost(room)
	room.GameState.Timestamp = s.nowMillis()
	if err := s.repo.SaveRoom(ctx, roomID, room); err != nil {
		return nil, err
	}
	s.log.Info("Player left", "room", roomID, "player", key, "host", room.GameState.Host)
	return room, nil
}

// reassignHost repairs a host entry pointing at a departed player. The
// remaining player with the earliest join time becomes host; an empty
// roster clears it. Never surfaced as an error.
func (s *RoomService) reassignHost(room *models.Room) {
	if _, ok := room.Players[room.GameState.Host]; ok && room.GameState.Host != "" {
		return
	}
	var next string
	var nextJoined int64
	for name, p := range room.Players {
		if next == "" || p.JoinedAt < nextJoined || (p.JoinedAt == nextJoined && name < next) {
			next = name
			nextJoined = p.JoinedAt
		}
	}
	room.GameState.Host = next
}

// Presence refreshes a player's liveness without other side effects
func (s *RoomService) Presence(ctx context.Context, roomID, playerName string) error {
	return s.setOnline(ctx, roomID, playerName, true)
}

// MarkOffline flags a player offline, keeping the record for the sweep to
// reap later
func (s *RoomService) MarkOffline(ctx context.Context, roomID, playerName string) error {
	return s.setOnline(ctx, roomID, playerName, false)
}

func (s *RoomService) setOnline(ctx context.Context, roomID, playerName string, online bool) error {
	s.locks.lock(roomID)
	defer s.locks.unlock(roomID)

	room, err := s.loadRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if room == nil {
		return ErrRoomNotFound
	}
	_, player := findPlayer(room, playerName)
	if player == nil {
		return ErrPlayerNotFound
	}
	player.IsOnline = online
	player.LastSeen = s.nowMillis()
	return s.repo.SaveRoom(ctx, roomID, room)
}

// CleanupStale sweeps every room: players whose presence has not been
// refreshed within offlineAfter are flagged offline, and offline players
// older than removeAfter are removed. Hosts are reassigned and rooms that
// end up empty are deleted. Changed rooms are broadcast and their ids
// returned. A failure on one room is logged and does not stop the sweep.
func (s *RoomService) CleanupStale(ctx context.Context, offlineAfter, removeAfter time.Duration) ([]string, error) {
	records, err := s.repo.ListRooms(ctx)
	if err != nil {
		return nil, err
	}

	var changed []string
	for _, rec := range records {
		roomChanged, err := s.sweepRoom(ctx, rec.ID, offlineAfter, removeAfter)
		if err != nil {
			s.log.Warn("Sweep failed for room", "room", rec.ID, "error", err)
			continue
		}
		if roomChanged {
			changed = append(changed, rec.ID)
		}
	}
	return changed, nil
}

func (s *RoomService) sweepRoom(ctx context.Context, roomID string, offlineAfter, removeAfter time.Duration) (bool, error) {
	s.locks.lock(roomID)
	defer s.locks.unlock(roomID)

	// Re-read under the lock; the listing snapshot may be stale
	room, err := s.loadRoom(ctx, roomID)
	if err != nil || room == nil {
		return false, err
	}

	now := s.nowMillis()
	changed := false
	var removed []string

	for name, p := range room.Players {
		age := time.Duration(now-p.LastSeen) * time.Millisecond
		if p.IsOnline && age >= offlineAfter {
			p.IsOnline = false
			changed = true
			continue
		}
		if !p.IsOnline && age >= removeAfter {
			removed = append(removed, name)
		}
	}
	for _, name := range removed {
		delete(room.Players, name)
		changed = true
	}

	if !changed {
		return false, nil
	}

	if len(room.Players) == 0 {
		if s.sequencer != nil {
			s.sequencer.Stop(roomID)
		}
		if err := s.repo.DeleteRoom(ctx, roomID); err != nil {
			return false, err
		}
		s.log.Info("Room reaped by presence sweep", "room", roomID)
		if s.broadcaster != nil {
			s.broadcaster.RoomClosed(roomID)
		}
		return true, nil
	}

	s.reassignHost(room)
	room.GameState.Timestamp = now
	if err := s.repo.SaveRoom(ctx, roomID, room); err != nil {
		return false, err
	}

	if s.broadcaster != nil {
		for _, name := range removed {
			s.broadcaster.PlayerLeft(roomID, name)
		}
		s.broadcaster.RoomUpdated(roomID, room)
		s.broadcaster.GameUpdated(roomID, &room.GameState)
	}
	if len(removed) > 0 {
		s.log.Info("Stale players reaped", "room", roomID, "removed", len(removed))
	}
	return true, nil
}

// MarkCell records a marked board cell for the player. Only allowed while a
// game is running; the index must be a valid board position.
func (s *RoomService) MarkCell(ctx context.Context, roomID, playerName string, index int) (*models.Room, error) {
	return s.updateMarks(ctx, roomID, playerName, index, true)
}

// UnmarkCell removes a previously marked cell
func (s *RoomService) UnmarkCell(ctx context.Context, roomID, playerName string, index int) (*models.Room, error) {
	return s.updateMarks(ctx, roomID, playerName, index, false)
}

func (s *RoomService) updateMarks(ctx context.Context, roomID, playerName string, index int, mark bool) (*models.Room, error) {
	if index < 0 || index >= models.BoardSize {
		return nil, ErrInvalidIndex
	}

	s.locks.lock(roomID)
	defer s.locks.unlock(roomID)

	room, err := s.loadRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	_, player := findPlayer(room, playerName)
	if player == nil {
		return nil, ErrPlayerNotFound
	}
	if !room.GameState.IsGameActive {
		return nil, ErrGameInactive
	}

	present := -1
	for i, idx := range player.MarkedIndices {
		if idx == index {
			present = i
			break
		}
	}
	if mark && present < 0 {
		player.MarkedIndices = append(player.MarkedIndices, index)
	}
	if !mark && present >= 0 {
		player.MarkedIndices = append(player.MarkedIndices[:present], player.MarkedIndices[present+1:]...)
	}

	room.GameState.Timestamp = s.nowMillis()
	if err := s.repo.SaveRoom(ctx, roomID, room); err != nil {
		return nil, err
	}
	return room, nil
}

// SetMode selects the win mode for the next game. Host only, game inactive.
func (s *RoomService) SetMode(ctx context.Context, roomID, actor string, mode models.GameMode) (*models.Room, error) {
	if !mode.Valid() {
		return nil, ErrInvalidMode
	}

	s.locks.lock(roomID)
	defer s.locks.unlock(roomID)

	room, err := s.loadRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	if err := requireHost(room, actor); err != nil {
		return nil, err
	}
	if room.GameState.IsGameActive {
		return nil, ErrGameActive
	}

	room.GameState.GameMode = mode
	room.GameState.Timestamp = s.nowMillis()
	if err := s.repo.SaveRoom(ctx, roomID, room); err != nil {
		return nil, err
	}
	return room, nil
}

// RegenerateBoard deals the player a fresh board. Only while no game runs.
func (s *RoomService) RegenerateBoard(ctx context.Context, roomID, playerName string) (*models.Room, error) {
	s.locks.lock(roomID)
	defer s.locks.unlock(roomID)

	room, err := s.loadRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	_, player := findPlayer(room, playerName)
	if player == nil {
		return nil, ErrPlayerNotFound
	}
	if room.GameState.IsGameActive {
		return nil, ErrGameActive
	}

	player.Board = s.newBoard()
	player.MarkedIndices = []int{}
	room.GameState.Timestamp = s.nowMillis()
	if err := s.repo.SaveRoom(ctx, roomID, room); err != nil {
		return nil, err
	}
	return room, nil
}

// StartGame transitions Idle → Active: fresh shuffled deck, cleared call
// history and marks, no winner. Host only; a mode must have been chosen
// (either passed here or set earlier). Starting an already active game is
// an idempotent no-op; the bool reports whether a new game actually began.
func (s *RoomService) StartGame(ctx context.Context, roomID, actor string, mode models.GameMode) (*models.Room, bool, error) {
	s.locks.lock(roomID)
	defer s.locks.unlock(roomID)

	room, err := s.loadRoom(ctx, roomID)
	if err != nil {
		return nil, false, err
	}
	if room == nil {
		return nil, false, ErrRoomNotFound
	}
	if err := requireHost(room, actor); err != nil {
		return nil, false, err
	}
	if room.GameState.IsGameActive {
		return room, false, nil
	}

	if mode == "" {
		mode = room.GameState.GameMode
	}
	if mode == "" {
		return nil, false, ErrModeRequired
	}
	if !mode.Valid() {
		return nil, false, ErrInvalidMode
	}

	gs := &room.GameState
	gs.GameMode = mode
	gs.Deck = s.newDeck()
	gs.CalledCardIDs = []int{}
	gs.Winner = nil
	gs.FinalRanking = nil
	gs.IsGameActive = true
	gs.Timestamp = s.nowMillis()
	for _, p := range room.Players {
		p.MarkedIndices = []int{}
	}

	if err := s.repo.SaveRoom(ctx, roomID, room); err != nil {
		return nil, false, err
	}
	s.log.Info("Game started", "room", roomID, "mode", mode, "players", len(room.Players))
	return room, true, nil
}

// StopGame pauses an active game: the ranking is frozen from the current
// marks, marks are cleared and the call loop stops. The call history is
// kept so a stop is a pause, not a reset. Host only; stopping an inactive
// game is a no-op.
func (s *RoomService) StopGame(ctx context.Context, roomID, actor string) (*models.Room, error) {
	s.locks.lock(roomID)
	defer s.locks.unlock(roomID)

	room, err := s.loadRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	if err := requireHost(room, actor); err != nil {
		return nil, err
	}
	if !room.GameState.IsGameActive {
		return room, nil
	}

	s.finishGame(room, nil)
	if err := s.repo.SaveRoom(ctx, roomID, room); err != nil {
		return nil, err
	}
	if s.sequencer != nil {
		s.sequencer.Stop(roomID)
	}
	s.log.Info("Game stopped by host", "room", roomID, "host", actor)
	return room, nil
}

// ResetGame transitions Finished → Idle: every player gets a new board,
// marks, call history, mode, winner and ranking are wiped. Host only, not
// allowed mid-game.
func (s *RoomService) ResetGame(ctx context.Context, roomID, actor string) (*models.Room, error) {
	s.locks.lock(roomID)
	defer s.locks.unlock(roomID)

	room, err := s.loadRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	if err := requireHost(room, actor); err != nil {
		return nil, err
	}
	if room.GameState.IsGameActive {
		return nil, ErrGameActive
	}

	for _, p := range room.Players {
		p.Board = s.newBoard()
		p.MarkedIndices = []int{}
	}
	gs := &room.GameState
	gs.Deck = []int{}
	gs.CalledCardIDs = []int{}
	gs.GameMode = ""
	gs.Winner = nil
	gs.FinalRanking = nil
	gs.IsGameActive = false
	gs.Timestamp = s.nowMillis()

	if err := s.repo.SaveRoom(ctx, roomID, room); err != nil {
		return nil, err
	}
	s.log.Info("Game reset", "room", roomID, "host", actor)
	return room, nil
}

// ClaimWin validates a win claim against the authoritative state: the
// stored board, the room's mode and the called history. Only the marked
// index values and the pivot come from the claim. The first successful
// claim wins; later claims get ErrAlreadyWinner.
func (s *RoomService) ClaimWin(ctx context.Context, roomID, playerName string, claim models.WinClaim) (*models.Room, error) {
	s.locks.lock(roomID)
	defer s.locks.unlock(roomID)

	room, err := s.loadRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	key, player := findPlayer(room, playerName)
	if player == nil {
		return nil, ErrPlayerNotFound
	}
	if room.GameState.Winner != nil {
		return nil, ErrAlreadyWinner
	}
	if !room.GameState.IsGameActive {
		return nil, ErrGameInactive
	}

	ok := wincheck.Check(player.Board, claim.MarkedIndices, room.GameState.GameMode, claim.Pivot, room.GameState.CalledCardIDs)
	if !ok {
		return nil, ErrInvalidPattern
	}

	winner := key
	s.finishGame(room, &winner)
	if err := s.repo.SaveRoom(ctx, roomID, room); err != nil {
		return nil, err
	}
	if s.sequencer != nil {
		s.sequencer.Stop(roomID)
	}
	s.log.Info("Win validated", "room", roomID, "winner", key, "mode", room.GameState.GameMode)
	return room, nil
}

// CallNextCard performs one sequencer step: append the next undrawn card of
// the deck to the call history. done reports that the loop should stop
// (room gone, game no longer running, or deck exhausted by this call). On
// exhaustion the game finishes as a draw: ranking populated, no winner.
func (s *RoomService) CallNextCard(ctx context.Context, roomID string) (*models.Room, bool, error) {
	s.locks.lock(roomID)
	defer s.locks.unlock(roomID)

	room, err := s.loadRoom(ctx, roomID)
	if err != nil {
		return nil, false, err
	}
	if room == nil {
		return nil, true, nil
	}
	gs := &room.GameState
	if !gs.IsGameActive || gs.Winner != nil {
		return nil, true, nil
	}
	if len(gs.CalledCardIDs) >= len(gs.Deck) {
		return nil, true, nil
	}

	called := make(map[int]bool, len(gs.CalledCardIDs))
	for _, id := range gs.CalledCardIDs {
		called[id] = true
	}
	next := -1
	for _, id := range gs.Deck {
		if !called[id] {
			next = id
			break
		}
	}
	if next < 0 {
		return nil, true, nil
	}

	gs.CalledCardIDs = append(gs.CalledCardIDs, next)
	gs.Timestamp = s.nowMillis()

	done := false
	if len(gs.CalledCardIDs) == len(gs.Deck) {
		// Deck exhausted with no winner: a draw
		s.finishGame(room, nil)
		done = true
	}

	if err := s.repo.SaveRoom(ctx, roomID, room); err != nil {
		return nil, false, err
	}
	return room, done, nil
}

// finishGame freezes the ranking from the current marks, then clears them
// and deactivates the game. Ranking order: marked count descending, join
// order as the tie break.
func (s *RoomService) finishGame(room *models.Room, winner *string) {
	ranking := make([]models.RankingEntry, 0, len(room.Players))
	type rankedPlayer struct {
		entry    models.RankingEntry
		joinedAt int64
	}
	ranked := make([]rankedPlayer, 0, len(room.Players))
	for name, p := range room.Players {
		ranked = append(ranked, rankedPlayer{
			entry:    models.RankingEntry{Name: name, MarkedCount: len(p.MarkedIndices)},
			joinedAt: p.JoinedAt,
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].entry.MarkedCount != ranked[j].entry.MarkedCount {
			return ranked[i].entry.MarkedCount > ranked[j].entry.MarkedCount
		}
		return ranked[i].joinedAt < ranked[j].joinedAt
	})
	for _, r := range ranked {
		ranking = append(ranking, r.entry)
	}

	for _, p := range room.Players {
		p.MarkedIndices = []int{}
	}

	gs := &room.GameState
	gs.FinalRanking = ranking
	gs.Winner = winner
	gs.IsGameActive = false
	gs.Timestamp = s.nowMillis()
}

func requireHost(room *models.Room, actor string) error {
	if !strings.EqualFold(room.GameState.Host, actor) {
		return ErrNotHost
	}
	return nil
}

// GetRoom returns a room by id for inspection
func (s *RoomService) GetRoom(ctx context.Context, roomID string) (*models.Room, error) {
	s.locks.lock(roomID)
	defer s.locks.unlock(roomID)

	room, err := s.loadRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// ListRooms returns every stored room
func (s *RoomService) ListRooms(ctx context.Context) ([]repository.RoomRecord, error) {
	return s.repo.ListRooms(ctx)
}

// DeleteRoom removes a room outright (administrative), stopping its call
// loop and notifying subscribers
func (s *RoomService) DeleteRoom(ctx context.Context, roomID string) error {
	s.locks.lock(roomID)
	defer s.locks.unlock(roomID)

	room, err := s.loadRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if room == nil {
		return ErrRoomNotFound
	}
	if s.sequencer != nil {
		s.sequencer.Stop(roomID)
	}
	if err := s.repo.DeleteRoom(ctx, roomID); err != nil {
		return err
	}
	if s.broadcaster != nil {
		s.broadcaster.RoomClosed(roomID)
	}
	s.log.Info("Room deleted by admin", "room", roomID)
	return nil
}

// ClearAllPlayers wipes every room. Run at startup to drop stale state from
// a previous process, and exposed as an administrative action.
func (s *RoomService) ClearAllPlayers(ctx context.Context) (int64, error) {
	records, err := s.repo.ListRooms(ctx)
	if err != nil {
		return 0, err
	}
	for _, rec := range records {
		if s.sequencer != nil {
			s.sequencer.Stop(rec.ID)
		}
	}

	n, err := s.repo.DeleteAllRooms(ctx)
	if err != nil {
		return 0, err
	}
	if s.broadcaster != nil {
		for _, rec := range records {
			s.broadcaster.RoomClosed(rec.ID)
		}
	}
	if n > 0 {
		s.log.Info("Cleared all rooms", "rooms", n)
	}
	return n, nil
}
