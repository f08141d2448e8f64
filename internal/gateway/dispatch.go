package gateway

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/infosegura/loteria-server/internal/models"
	"github.com/infosegura/loteria-server/internal/services"
)

// inboundMessage is the raw envelope of a client event. The payload stays
// raw until the handler for the type decodes it.
type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type joinPayload struct {
	RoomID     string         `json:"roomId"`
	PlayerName string         `json:"playerName"`
	PlayerData *models.Player `json:"playerData"`
}

type cellPayload struct {
	Index int `json:"index"`
}

type modePayload struct {
	Mode models.GameMode `json:"mode"`
}

// dispatch routes one decoded client event. Handlers run on the client's
// read goroutine; the room service serializes per room underneath.
func (h *Hub) dispatch(c *Client, msg inboundMessage) {
	switch msg.Type {
	case "joinRoom":
		h.handleJoin(c, msg.Payload)
	case "leaveRoom":
		h.handleLeave(c)
	case "presence":
		h.handlePresence(c)
	case "markCell":
		h.handleMark(c, msg.Payload, true)
	case "unmarkCell":
		h.handleMark(c, msg.Payload, false)
	case "setMode":
		h.handleSetMode(c, msg.Payload)
	case "regenerateBoard":
		h.handleRegenerateBoard(c)
	case "startGameLoop":
		h.handleStartGame(c, msg.Payload)
	case "stopGameLoop":
		h.handleStopGame(c)
	case "resetGame":
		h.handleResetGame(c)
	case "claimWin":
		h.handleClaimWin(c, msg.Payload)
	default:
		h.log.Debug("Unknown message type", "type", msg.Type)
	}
}

func (h *Hub) handleJoin(c *Client, raw json.RawMessage) {
	var p joinPayload
	if err := json.Unmarshal(raw, &p); err != nil || p.RoomID == "" || p.PlayerName == "" {
		h.sendTo(c, "joinError", map[string]interface{}{
			"code":    "server_error",
			"message": "malformed join request",
		})
		return
	}

	room, reconnected, err := h.rooms.Join(context.Background(), p.RoomID, p.PlayerName, p.PlayerData)
	if err != nil {
		h.sendTo(c, "joinError", map[string]interface{}{
			"code":    errorCode(err),
			"message": err.Error(),
		})
		return
	}

	c.bind(p.RoomID, p.PlayerName)
	h.subscribe(c, p.RoomID)

	h.sendTo(c, "roomJoined", map[string]interface{}{
		"roomId": p.RoomID,
		"room":   room,
	})
	if !reconnected {
		h.BroadcastToRoom(p.RoomID, "playerJoined", map[string]interface{}{
			"playerName": p.PlayerName,
		})
	}
	h.RoomUpdated(p.RoomID, room)
	h.GameUpdated(p.RoomID, &room.GameState)
}

func (h *Hub) handleLeave(c *Client) {
	roomID, playerName := c.binding()
	if roomID == "" {
		return
	}

	room, err := h.rooms.Leave(context.Background(), roomID, playerName)
	c.bind("", "")
	h.unsubscribe(c)
	if err != nil {
		h.log.Debug("Leave failed", "room", roomID, "player", playerName, "error", err)
		return
	}
	if room != nil {
		h.PlayerLeft(roomID, playerName)
		h.RoomUpdated(roomID, room)
		h.GameUpdated(roomID, &room.GameState)
	}
}

func (h *Hub) handlePresence(c *Client) {
	roomID, playerName := c.binding()
	if roomID == "" {
		return
	}
	if err := h.rooms.Presence(context.Background(), roomID, playerName); err != nil {
		h.log.Debug("Presence refresh failed", "room", roomID, "player", playerName, "error", err)
	}
}

func (h *Hub) handleMark(c *Client, raw json.RawMessage, mark bool) {
	roomID, playerName := c.binding()
	if roomID == "" {
		return
	}
	var p cellPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		h.sendError(c, "markCell", services.ErrInvalidIndex)
		return
	}

	var room *models.Room
	var err error
	if mark {
		room, err = h.rooms.MarkCell(context.Background(), roomID, playerName, p.Index)
	} else {
		room, err = h.rooms.UnmarkCell(context.Background(), roomID, playerName, p.Index)
	}
	if err != nil {
		h.sendError(c, "markCell", err)
		return
	}
	h.RoomUpdated(roomID, room)
}

func (h *Hub) handleSetMode(c *Client, raw json.RawMessage) {
	roomID, playerName := c.binding()
	if roomID == "" {
		return
	}
	var p modePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		h.sendError(c, "setMode", services.ErrInvalidMode)
		return
	}

	room, err := h.rooms.SetMode(context.Background(), roomID, playerName, p.Mode)
	if err != nil {
		h.sendError(c, "setMode", err)
		return
	}
	h.GameUpdated(roomID, &room.GameState)
}

func (h *Hub) handleRegenerateBoard(c *Client) {
	roomID, playerName := c.binding()
	if roomID == "" {
		return
	}
	room, err := h.rooms.RegenerateBoard(context.Background(), roomID, playerName)
	if err != nil {
		h.sendError(c, "regenerateBoard", err)
		return
	}
	h.RoomUpdated(roomID, room)
}

func (h *Hub) handleStartGame(c *Client, raw json.RawMessage) {
	roomID, playerName := c.binding()
	if roomID == "" {
		return
	}
	var p modePayload
	if len(raw) > 0 {
		// Mode is optional here; a previously selected one is reused
		if err := json.Unmarshal(raw, &p); err != nil {
			h.sendError(c, "startGameLoop", services.ErrInvalidMode)
			return
		}
	}

	room, started, err := h.rooms.StartGame(context.Background(), roomID, playerName, p.Mode)
	if err != nil {
		h.sendError(c, "startGameLoop", err)
		return
	}
	if started {
		h.caller.Start(roomID)
	}
	h.GameUpdated(roomID, &room.GameState)
	h.RoomUpdated(roomID, room)
}

func (h *Hub) handleStopGame(c *Client) {
	roomID, playerName := c.binding()
	if roomID == "" {
		return
	}
	room, err := h.rooms.StopGame(context.Background(), roomID, playerName)
	if err != nil {
		h.sendError(c, "stopGameLoop", err)
		return
	}
	h.GameUpdated(roomID, &room.GameState)
	h.RoomUpdated(roomID, room)
}

func (h *Hub) handleResetGame(c *Client) {
	roomID, playerName := c.binding()
	if roomID == "" {
		return
	}
	room, err := h.rooms.ResetGame(context.Background(), roomID, playerName)
	if err != nil {
		h.sendError(c, "resetGame", err)
		return
	}
	h.GameUpdated(roomID, &room.GameState)
	h.RoomUpdated(roomID, room)
}

func (h *Hub) handleClaimWin(c *Client, raw json.RawMessage) {
	roomID, playerName := c.binding()
	if roomID == "" {
		return
	}
	var claim models.WinClaim
	if err := json.Unmarshal(raw, &claim); err != nil {
		h.sendTo(c, "claimResult", map[string]interface{}{
			"success": false,
			"error":   services.ErrInvalidPattern.Code,
		})
		return
	}

	room, err := h.rooms.ClaimWin(context.Background(), roomID, playerName, claim)
	if err != nil {
		h.sendTo(c, "claimResult", map[string]interface{}{
			"success": false,
			"error":   errorCode(err),
		})
		return
	}

	h.sendTo(c, "claimResult", map[string]interface{}{"success": true})
	h.GameUpdated(roomID, &room.GameState)
	h.RoomUpdated(roomID, room)
}

// handleDisconnect runs when the connection drops without an explicit
// leave. Mid-game the player is removed outright; between games the seat
// is only flagged offline, so a reconnect within the presence window keeps
// their board and the sweep reaps them later.
func (h *Hub) handleDisconnect(c *Client) {
	roomID, playerName := c.binding()
	if roomID == "" {
		return
	}

	room, err := h.rooms.GetRoom(context.Background(), roomID)
	if err != nil {
		return
	}

	if room.GameState.IsGameActive {
		remaining, err := h.rooms.Leave(context.Background(), roomID, playerName)
		if err != nil {
			h.log.Debug("Leave on disconnect failed", "room", roomID, "player", playerName, "error", err)
			return
		}
		if remaining != nil {
			h.PlayerLeft(roomID, playerName)
			h.RoomUpdated(roomID, remaining)
			h.GameUpdated(roomID, &remaining.GameState)
		}
		return
	}

	if err := h.rooms.MarkOffline(context.Background(), roomID, playerName); err != nil {
		h.log.Debug("Offline flag failed on disconnect", "room", roomID, "player", playerName, "error", err)
		return
	}
	if fresh, err := h.rooms.GetRoom(context.Background(), roomID); err == nil {
		h.RoomUpdated(roomID, fresh)
	}
}

// sendError reports a failed command back to its sender only
func (h *Hub) sendError(c *Client, event string, err error) {
	h.sendTo(c, "error", map[string]interface{}{
		"event":   event,
		"error":   errorCode(err),
		"message": err.Error(),
	})
}

// errorCode maps service failures onto the wire vocabulary
func errorCode(err error) string {
	var svcErr *services.ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Code
	}
	return "server_error"
}
