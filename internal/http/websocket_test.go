package http

import (
	"encoding/json"
	"net"
	"testing"
	"time"

	"checkers/internal/ai"
	"checkers/internal/board"
	"checkers/internal/core"
	"checkers/internal/processor"
	"checkers/internal/service"

	"github.com/fasthttp/websocket"
)

// serveTestApp runs the app on a loopback listener and returns its address
func serveTestApp(t *testing.T) (string, *processor.Processor) {
	t.Helper()
	svc := service.New(0)
	proc := processor.New(svc, ai.NewRandom(1), 1)
	app := NewFiberApp(proc, svc, Options{RateLimit: 1000})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go app.Listener(ln)
	t.Cleanup(func() {
		app.Shutdown()
		proc.Close()
		svc.Close()
	})
	return ln.Addr().String(), proc
}

// frame is either a game state or an error
type frame struct {
	core.GameResponse
	Code  string `json:"code"`
	Error string `json:"error"`
}

func readFrame(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var f frame
	if err := json.Unmarshal(data, &f); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	return f
}

func TestStreamGame(t *testing.T) {
	addr, proc := serveTestApp(t)

	resp := proc.Execute(processor.NewCreateGameCommand(core.CreateGameRequest{
		Light: core.PlayerConfig{Type: core.PlayerHuman},
		Dark:  core.PlayerConfig{Type: core.PlayerHuman},
	}))
	if !resp.Success {
		t.Fatalf("create: %+v", resp.Error)
	}
	gameID := resp.Data.(core.GameResponse).GameID

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+addr+"/ws/games/"+gameID, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	first := readFrame(t, conn)
	if first.GameID != gameID || first.Layout != board.StartingLayout || first.Turn != "l" {
		t.Fatalf("first frame = %+v", first)
	}

	illegal := core.MoveRequest{From: &core.Square{Row: 2, Col: 1}, To: &core.Square{Row: 4, Col: 3}}
	if err := conn.WriteJSON(illegal); err != nil {
		t.Fatalf("write: %v", err)
	}
	if f := readFrame(t, conn); f.Code != core.ErrInvalidMove {
		t.Fatalf("illegal move frame = %+v", f)
	}

	if err := conn.WriteJSON(core.MoveRequest{From: &core.Square{Row: 2, Col: 1}, To: &core.Square{Row: 3, Col: 2}}); err != nil {
		t.Fatalf("write: %v", err)
	}
	next := readFrame(t, conn)
	if next.Code != "" || next.Turn != "d" || len(next.Moves) != 1 || next.Moves[0] != "2,1-3,2" {
		t.Fatalf("state after move = %+v", next)
	}
}

func TestStreamRejectsBadUpgrade(t *testing.T) {
	addr, _ := serveTestApp(t)

	if _, _, err := websocket.DefaultDialer.Dial("ws://"+addr+"/ws/games/not-a-uuid", nil); err == nil {
		t.Fatal("dial with a bad game id succeeded")
	}
}
