package models

// BoardSize is the number of cells on a player board (4x4 grid).
const BoardSize = 16

// BoardCols is the number of columns in the grid.
const BoardCols = 4

// Card is one entry of the static Lotería catalog
type Card struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	ImageRef    string `json:"imageRef"`
	Description string `json:"description"`
}

// Board is a player's personal 4x4 grid, stored left-to-right, top-to-bottom
type Board []Card

// Cell addresses one board position by row and column
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Index returns the flat board index for the cell
func (c Cell) Index() int {
	return c.Row*BoardCols + c.Col
}

// GameMode selects which pattern of marked cells wins the round
type GameMode string

const (
	ModeFull       GameMode = "full"
	ModeHorizontal GameMode = "horizontal"
	ModeVertical   GameMode = "vertical"
	ModeDiagonal   GameMode = "diagonal"
	ModeCorners    GameMode = "corners"
	ModeSquare     GameMode = "square"
)

// Valid reports whether m is one of the supported game modes
func (m GameMode) Valid() bool {
	switch m {
	case ModeFull, ModeHorizontal, ModeVertical, ModeDiagonal, ModeCorners, ModeSquare:
		return true
	}
	return false
}

// Player is one member of a room's roster
type Player struct {
	Name          string `json:"name"`
	IsOnline      bool   `json:"isOnline"`
	LastSeen      int64  `json:"lastSeen"` // unix millis
	JoinedAt      int64  `json:"joinedAt"` // unix millis, preserved across reconnects
	Board         Board  `json:"board"`
	MarkedIndices []int  `json:"markedIndices"`
}

// RankingEntry is one row of the end-of-game ranking
type RankingEntry struct {
	Name        string `json:"name"`
	MarkedCount int    `json:"markedCount"`
}

// GameState is the per-room game machine state.
// CalledCardIDs is always a duplicate-free prefix of Deck, in deck order.
type GameState struct {
	Host          string         `json:"host"`
	IsGameActive  bool           `json:"isGameActive"`
	Winner        *string        `json:"winner"`
	GameMode      GameMode       `json:"gameMode,omitempty"`
	Deck          []int          `json:"deck"`
	CalledCardIDs []int          `json:"calledCardIds"`
	Timestamp     int64          `json:"timestamp"` // unix millis of last mutation
	FinalRanking  []RankingEntry `json:"finalRanking"`
}

// Room is the full serialized state of one game room
type Room struct {
	Players   map[string]*Player `json:"players"`
	GameState GameState          `json:"gameState"`
}

// OnlineCount returns the number of players currently flagged online
func (r *Room) OnlineCount() int {
	n := 0
	for _, p := range r.Players {
		if p.IsOnline {
			n++
		}
	}
	return n
}

// WinClaim is a player's assertion that their marks complete the active
// mode. Only the index values and the pivot are trusted; the board and the
// called history are taken from the authoritative room state.
type WinClaim struct {
	MarkedIndices []int `json:"markedIndices"`
	Pivot         *Cell `json:"firstCard"`
}

// WSMessage is the envelope for every gateway message, in and out
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
