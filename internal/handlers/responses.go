package handlers

import "github.com/infosegura/loteria-server/internal/models"

// LoginResponse carries the session token for non-browser clients; the
// same token is also set as a cookie
type LoginResponse struct {
	Token string `json:"token"`
}

// RoomSummary is one row of the admin room listing
type RoomSummary struct {
	ID            string  `json:"id"`
	Players       int     `json:"players"`
	OnlinePlayers int     `json:"online_players"`
	Host          string  `json:"host"`
	IsGameActive  bool    `json:"is_game_active"`
	CallerRunning bool    `json:"caller_running"`
	Winner        *string `json:"winner"`
}

// RoomResponse is the full state of one room
type RoomResponse struct {
	ID   string       `json:"id"`
	Room *models.Room `json:"room"`
}

// StatsResponse summarizes the whole server
type StatsResponse struct {
	Rooms         int `json:"rooms"`
	Players       int `json:"players"`
	OnlinePlayers int `json:"online_players"`
	ActiveGames   int `json:"active_games"`
}

// ClearPlayersResponse reports how many rooms were wiped
type ClearPlayersResponse struct {
	RoomsCleared int64 `json:"rooms_cleared"`
}
