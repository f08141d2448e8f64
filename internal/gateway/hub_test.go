package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/infosegura/loteria-server/internal/logger"
	"github.com/infosegura/loteria-server/internal/scheduler"
	"github.com/infosegura/loteria-server/internal/services"
	"github.com/infosegura/loteria-server/internal/testutil"
)

// envelope mirrors the wire message with the payload kept raw for assertions
type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// newTestGateway wires a hub over a real room service and an in-memory store
func newTestGateway(t *testing.T) (*Hub, *services.RoomService, *httptest.Server) {
	t.Helper()

	repo := testutil.NewTestRepository(t)
	log := logger.New()
	roomSvc := services.NewRoomService(log, repo)
	caller := services.NewCardCaller(log, roomSvc, scheduler.New())
	caller.SetInterval(20 * time.Millisecond)
	roomSvc.SetSequencer(caller)

	hub := New(log, roomSvc, caller)
	hub.Start()
	roomSvc.SetBroadcaster(hub)
	caller.SetBroadcaster(hub)

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	t.Cleanup(srv.Close)
	return hub, roomSvc, srv
}

func dialWs(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msgType string, payload interface{}) {
	t.Helper()
	raw, err := json.Marshal(map[string]interface{}{"type": msgType, "payload": payload})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, raw); err != nil {
		t.Fatalf("write failed: %v", err)
	}
}

// readUntil reads messages until one of the wanted type arrives. Other
// message types are skipped; room traffic interleaves freely.
func readUntil(t *testing.T, conn *websocket.Conn, msgType string) envelope {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		var msg envelope
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("waiting for %q: %v", msgType, err)
		}
		if msg.Type == msgType {
			return msg
		}
	}
}

func join(t *testing.T, conn *websocket.Conn, roomID, name string) {
	t.Helper()
	send(t, conn, "joinRoom", map[string]string{"roomId": roomID, "playerName": name})
	readUntil(t, conn, "roomJoined")
}

func TestNew_CreatesHubWithDependencies(t *testing.T) {
	hub, _, _ := newTestGateway(t)

	if hub.clients == nil {
		t.Error("expected clients map to be initialized")
	}
	if hub.byRoom == nil {
		t.Error("expected room index to be initialized")
	}
	if hub.broadcast == nil || hub.register == nil || hub.unregister == nil {
		t.Error("expected hub channels to be initialized")
	}
}

func TestJoinRoom_Flow(t *testing.T) {
	_, _, srv := newTestGateway(t)

	first := dialWs(t, srv)
	send(t, first, "joinRoom", map[string]string{"roomId": "sala-1", "playerName": "maria"})

	joined := readUntil(t, first, "roomJoined")
	var joinedPayload struct {
		RoomID string `json:"roomId"`
		Room   struct {
			GameState struct {
				Host string `json:"host"`
			} `json:"gameState"`
		} `json:"room"`
	}
	if err := json.Unmarshal(joined.Payload, &joinedPayload); err != nil {
		t.Fatalf("bad roomJoined payload: %v", err)
	}
	if joinedPayload.RoomID != "sala-1" || joinedPayload.Room.GameState.Host != "maria" {
		t.Errorf("unexpected join payload: %+v", joinedPayload)
	}

	// A second player joining is announced to the first
	second := dialWs(t, srv)
	join(t, second, "sala-1", "pedro")

	announced := readUntil(t, first, "playerJoined")
	var who struct {
		PlayerName string `json:"playerName"`
	}
	if err := json.Unmarshal(announced.Payload, &who); err != nil {
		t.Fatalf("bad playerJoined payload: %v", err)
	}
	if who.PlayerName != "pedro" {
		t.Errorf("expected pedro announced, got %q", who.PlayerName)
	}
	readUntil(t, first, "roomUpdated")
}

func TestJoinRoom_NameInUse(t *testing.T) {
	_, _, srv := newTestGateway(t)

	first := dialWs(t, srv)
	join(t, first, "sala-1", "maria")

	second := dialWs(t, srv)
	send(t, second, "joinRoom", map[string]string{"roomId": "sala-1", "playerName": "MARIA"})

	failed := readUntil(t, second, "joinError")
	var errPayload struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(failed.Payload, &errPayload); err != nil {
		t.Fatalf("bad joinError payload: %v", err)
	}
	if errPayload.Code != "name_in_use" {
		t.Errorf("expected name_in_use, got %q", errPayload.Code)
	}
	if errPayload.Message == "" {
		t.Error("expected a human-readable message alongside the code")
	}
}

func TestJoinRoom_SwitchingRoomsDropsOldSubscription(t *testing.T) {
	hub, _, srv := newTestGateway(t)

	conn := dialWs(t, srv)
	join(t, conn, "sala-1", "maria")
	join(t, conn, "sala-2", "maria")

	hub.mutex.RLock()
	stale := len(hub.byRoom["sala-1"])
	current := len(hub.byRoom["sala-2"])
	hub.mutex.RUnlock()
	if stale != 0 {
		t.Errorf("expected no subscribers left in the first room, got %d", stale)
	}
	if current != 1 {
		t.Errorf("expected one subscriber in the second room, got %d", current)
	}

	// Traffic in the first room must no longer reach the moved client
	other := dialWs(t, srv)
	join(t, other, "sala-1", "pedro")

	conn.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	for {
		var msg envelope
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		if msg.Type == "playerJoined" {
			t.Fatal("client still receives broadcasts for the room it left")
		}
	}
}

func TestStartGameLoop_CallsCards(t *testing.T) {
	_, _, srv := newTestGateway(t)

	host := dialWs(t, srv)
	join(t, host, "sala-1", "maria")

	send(t, host, "startGameLoop", map[string]string{"mode": "full"})

	// The call loop pushes gameUpdated per drawn card; wait until the
	// history is non-empty
	deadline := time.Now().Add(3 * time.Second)
	for {
		if time.Now().After(deadline) {
			t.Fatal("no card was ever called")
		}
		msg := readUntil(t, host, "gameUpdated")
		var payload struct {
			GameState struct {
				IsGameActive  bool  `json:"isGameActive"`
				CalledCardIDs []int `json:"calledCardIds"`
			} `json:"gameState"`
		}
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			t.Fatalf("bad gameUpdated payload: %v", err)
		}
		if len(payload.GameState.CalledCardIDs) > 0 {
			if !payload.GameState.IsGameActive {
				t.Error("game should still be active")
			}
			break
		}
	}

	// Host stops; the loop ends and the game goes inactive
	send(t, host, "stopGameLoop", nil)
	for {
		msg := readUntil(t, host, "gameUpdated")
		var payload struct {
			GameState struct {
				IsGameActive bool `json:"isGameActive"`
			} `json:"gameState"`
		}
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			t.Fatalf("bad gameUpdated payload: %v", err)
		}
		if !payload.GameState.IsGameActive {
			return
		}
	}
}

func TestClaimWin_RejectedWhileInactive(t *testing.T) {
	_, _, srv := newTestGateway(t)

	conn := dialWs(t, srv)
	join(t, conn, "sala-1", "maria")

	send(t, conn, "claimWin", map[string]interface{}{"markedIndices": []int{0, 3, 12, 15}})

	result := readUntil(t, conn, "claimResult")
	var payload struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(result.Payload, &payload); err != nil {
		t.Fatalf("bad claimResult payload: %v", err)
	}
	if payload.Success {
		t.Error("claim against an inactive game must be rejected")
	}
	if payload.Error != "game_inactive" {
		t.Errorf("expected game_inactive, got %q", payload.Error)
	}
}

func TestDisconnect_MarksPlayerOffline(t *testing.T) {
	_, roomSvc, srv := newTestGateway(t)

	conn := dialWs(t, srv)
	join(t, conn, "sala-1", "maria")
	conn.Close()

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		room, err := roomSvc.GetRoom(context.Background(), "sala-1")
		if err == nil && !room.Players["maria"].IsOnline {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("disconnected player was never flagged offline")
}

func TestDisconnect_DuringActiveGameRemovesPlayer(t *testing.T) {
	_, roomSvc, srv := newTestGateway(t)

	host := dialWs(t, srv)
	join(t, host, "sala-1", "maria")
	second := dialWs(t, srv)
	join(t, second, "sala-1", "pedro")

	if _, _, err := roomSvc.StartGame(context.Background(), "sala-1", "maria", "full"); err != nil {
		t.Fatalf("StartGame failed: %v", err)
	}

	second.Close()

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		room, err := roomSvc.GetRoom(context.Background(), "sala-1")
		if err == nil {
			if _, ok := room.Players["pedro"]; !ok {
				return
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("player dropped mid-game was never removed")
}

func TestLeaveRoom_RemovesPlayer(t *testing.T) {
	_, roomSvc, srv := newTestGateway(t)

	first := dialWs(t, srv)
	join(t, first, "sala-1", "maria")
	second := dialWs(t, srv)
	join(t, second, "sala-1", "pedro")

	send(t, second, "leaveRoom", nil)

	left := readUntil(t, first, "playerLeft")
	var who struct {
		PlayerName string `json:"playerName"`
	}
	if err := json.Unmarshal(left.Payload, &who); err != nil {
		t.Fatalf("bad playerLeft payload: %v", err)
	}
	if who.PlayerName != "pedro" {
		t.Errorf("expected pedro to leave, got %q", who.PlayerName)
	}

	room, err := roomSvc.GetRoom(context.Background(), "sala-1")
	if err != nil {
		t.Fatalf("GetRoom failed: %v", err)
	}
	if _, ok := room.Players["pedro"]; ok {
		t.Error("pedro should be out of the roster")
	}
}

func TestMarkCell_BroadcastsRoom(t *testing.T) {
	_, roomSvc, srv := newTestGateway(t)

	conn := dialWs(t, srv)
	join(t, conn, "sala-1", "maria")

	if _, _, err := roomSvc.StartGame(context.Background(), "sala-1", "maria", "full"); err != nil {
		t.Fatalf("StartGame failed: %v", err)
	}

	send(t, conn, "markCell", map[string]int{"index": 5})

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		room, err := roomSvc.GetRoom(context.Background(), "sala-1")
		if err == nil && len(room.Players["maria"].MarkedIndices) == 1 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("mark never reached the room state")
}
