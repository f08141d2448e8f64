package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/infosegura/loteria-server/internal/deck"
)

// ==================== Health ====================

func (h *Handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondOK(w, map[string]string{"status": "ok"})
}

// ==================== Catalog ====================

func (h *Handlers) handleGetCards(w http.ResponseWriter, r *http.Request) {
	respondOK(w, deck.Catalog())
}

// ==================== Rooms ====================

func (h *Handlers) handleGetRooms(w http.ResponseWriter, r *http.Request) {
	records, err := h.Rooms.ListRooms(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	summaries := make([]RoomSummary, 0, len(records))
	for _, rec := range records {
		summaries = append(summaries, RoomSummary{
			ID:            rec.ID,
			Players:       len(rec.Room.Players),
			OnlinePlayers: rec.Room.OnlineCount(),
			Host:          rec.Room.GameState.Host,
			IsGameActive:  rec.Room.GameState.IsGameActive,
			CallerRunning: h.Caller.Running(rec.ID),
			Winner:        rec.Room.GameState.Winner,
		})
	}
	respondOK(w, summaries)
}

func (h *Handlers) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	room, err := h.Rooms.GetRoom(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, RoomResponse{ID: id, Room: room})
}

func (h *Handlers) handleDeleteRoom(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Rooms.DeleteRoom(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondDeleted(w)
}

// handleGetRoomQR renders a PNG invite code pointing at the room's join URL
func (h *Handlers) handleGetRoomQR(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.Rooms.GetRoom(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}

	png, err := qrcode.Encode(h.BaseURL+"/room/"+id, qrcode.Medium, 256)
	if err != nil {
		respondError(w, InternalError(err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(png)
}

// ==================== Players ====================

func (h *Handlers) handleDeletePlayer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	name := chi.URLParam(r, "name")

	room, err := h.Rooms.Leave(r.Context(), id, name)
	if err != nil {
		respondError(w, err)
		return
	}
	if h.Hub != nil && room != nil {
		h.Hub.PlayerLeft(id, name)
		h.Hub.RoomUpdated(id, room)
	}
	if h.Hub != nil && room == nil {
		h.Hub.RoomClosed(id)
	}
	respondDeleted(w)
}

func (h *Handlers) handleClearPlayers(w http.ResponseWriter, r *http.Request) {
	n, err := h.Rooms.ClearAllPlayers(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, ClearPlayersResponse{RoomsCleared: n})
}

// ==================== Stats ====================

func (h *Handlers) handleGetStats(w http.ResponseWriter, r *http.Request) {
	records, err := h.Rooms.ListRooms(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	stats := StatsResponse{Rooms: len(records)}
	for _, rec := range records {
		stats.Players += len(rec.Room.Players)
		stats.OnlinePlayers += rec.Room.OnlineCount()
		if rec.Room.GameState.IsGameActive {
			stats.ActiveGames++
		}
	}
	respondOK(w, stats)
}
