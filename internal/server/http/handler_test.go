package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"chesscore/internal/server/core"
	"chesscore/internal/server/game"
	"chesscore/internal/server/processor"
	"chesscore/internal/server/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/go-cmp/cmp"
)

type testServer struct {
	app *fiber.App
	svc *service.Service
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	svc := service.New(nil, service.Config{
		SeatSecret:  []byte("0123456789abcdef0123456789abcdef"),
		WaitTimeout: 3 * time.Second,
	})
	t.Cleanup(func() { svc.Shutdown(time.Second) })
	app := NewFiberApp(processor.New(svc), svc, Config{DevMode: true})
	return &testServer{app: app, svc: svc}
}

func (ts *testServer) do(t *testing.T, method, path, body, token string) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.app.Test(req, 5000)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	return v
}

func (ts *testServer) create(t *testing.T, body string) core.GameResponse {
	t.Helper()
	status, data := ts.do(t, http.MethodPost, "/api/v1/games", body, "")
	if status != fiber.StatusCreated {
		t.Fatalf("create status = %d: %s", status, data)
	}
	return decode[core.GameResponse](t, data)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	status, data := ts.do(t, http.MethodGet, "/health", "", "")
	if status != fiber.StatusOK {
		t.Fatalf("status = %d", status)
	}
	health := decode[map[string]any](t, data)
	if health["status"] != "healthy" || health["storage"] != "disabled" {
		t.Errorf("health = %v", health)
	}
}

func TestCreateGame(t *testing.T) {
	ts := newTestServer(t)

	g := ts.create(t, "")
	if g.Seats == nil || g.Seats.White == "" || g.Seats.Black == "" {
		t.Fatalf("no seat tokens in %+v", g)
	}
	if g.FEN != "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR" || g.Turn != "w" {
		t.Errorf("fen=%s turn=%s", g.FEN, g.Turn)
	}

	custom := ts.create(t, `{"fen":"4k3/8/8/8/8/8/8/4K2R","turn":"b"}`)
	if custom.Turn != "b" {
		t.Errorf("turn = %s; want b", custom.Turn)
	}

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"bad turn", `{"turn":"x"}`, fiber.StatusBadRequest, core.ErrInvalidRequest},
		{"bad characters", `{"fen":"8/8/8/8/8/8/8/8x"}`, fiber.StatusBadRequest, core.ErrInvalidRequest},
		{"bad structure", `{"fen":"8/8/8"}`, fiber.StatusBadRequest, core.ErrInvalidFEN},
		{"malformed json", `{"fen":`, fiber.StatusBadRequest, core.ErrInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, data := ts.do(t, http.MethodPost, "/api/v1/games", tt.body, "")
			if status != tt.status {
				t.Fatalf("status = %d; want %d (%s)", status, tt.status, data)
			}
			if e := decode[core.ErrorResponse](t, data); e.Code != tt.code {
				t.Errorf("code = %s; want %s", e.Code, tt.code)
			}
		})
	}
}

func TestContentType(t *testing.T) {
	ts := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/games", strings.NewReader("x"))
	req.Header.Set("Content-Type", "text/plain")
	resp, err := ts.app.Test(req)
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnsupportedMediaType {
		t.Errorf("status = %d; want 415", resp.StatusCode)
	}
}

func TestSelectTargetFlow(t *testing.T) {
	ts := newTestServer(t)
	g := ts.create(t, "")
	base := "/api/v1/games/" + g.GameID

	status, data := ts.do(t, http.MethodPost, base+"/select", `{"square":"b1"}`, g.Seats.White)
	if status != fiber.StatusOK {
		t.Fatalf("select status = %d: %s", status, data)
	}
	sel := decode[core.SelectResponse](t, data)
	if diff := cmp.Diff([]string{"a3", "c3"}, sel.Destinations); diff != "" {
		t.Errorf("destinations mismatch (-want +got):\n%s", diff)
	}

	status, data = ts.do(t, http.MethodGet, base+"/board", "", "")
	if status != fiber.StatusOK {
		t.Fatalf("board status = %d", status)
	}
	if b := decode[core.BoardResponse](t, data); !strings.Contains(b.Board, "1 R N<B") {
		t.Errorf("board does not mark selection:\n%s", b.Board)
	}

	status, data = ts.do(t, http.MethodPost, base+"/target", `{"square":"c3"}`, g.Seats.White)
	if status != fiber.StatusOK {
		t.Fatalf("target status = %d: %s", status, data)
	}
	after := decode[core.GameResponse](t, data)
	if after.Turn != "b" || after.MoveCount != 1 || after.LastMove == nil || after.LastMove.To != "c3" {
		t.Errorf("after target: %+v", after)
	}

	// White's seat cannot move for black
	status, data = ts.do(t, http.MethodPost, base+"/moves", `{"from":"b8","to":"c6"}`, g.Seats.White)
	if status != fiber.StatusForbidden {
		t.Errorf("wrong seat status = %d; want 403 (%s)", status, data)
	}

	status, _ = ts.do(t, http.MethodPost, base+"/moves", `{"from":"b8","to":"c6"}`, g.Seats.Black)
	if status != fiber.StatusOK {
		t.Errorf("black move status = %d; want 200", status)
	}
}

func TestClickFlow(t *testing.T) {
	ts := newTestServer(t)
	g := ts.create(t, "")
	base := "/api/v1/games/" + g.GameID

	click := func(sq string) (int, []byte) {
		return ts.do(t, http.MethodPost, base+"/click", `{"square":"`+sq+`"}`, g.Seats.White)
	}

	// An empty square does nothing while idle
	status, data := click("e4")
	if status != fiber.StatusBadRequest {
		t.Fatalf("idle click on empty square status = %d (%s)", status, data)
	}
	if e := decode[core.ErrorResponse](t, data); e.Code != core.ErrNotSelectable {
		t.Errorf("code = %s; want %s", e.Code, core.ErrNotSelectable)
	}

	status, data = click("g1")
	if status != fiber.StatusOK {
		t.Fatalf("select click status = %d: %s", status, data)
	}
	sel := decode[core.SelectResponse](t, data)
	if sel.Selected != "g1" || sel.Game.Phase != "selected" {
		t.Errorf("after first click: %+v", sel)
	}

	status, data = ts.do(t, http.MethodPost, base+"/deselect", "", g.Seats.White)
	if status != fiber.StatusOK {
		t.Fatalf("deselect status = %d: %s", status, data)
	}
	if got := decode[core.GameResponse](t, data); got.Phase != "idle" || got.Selected != "" {
		t.Errorf("after deselect: phase=%s selected=%q", got.Phase, got.Selected)
	}

	click("g1")
	status, data = click("f3")
	if status != fiber.StatusOK {
		t.Fatalf("move click status = %d: %s", status, data)
	}
	moved := decode[core.SelectResponse](t, data)
	if moved.Selected != "" || moved.Game.Turn != "b" || moved.Game.LastMove == nil || moved.Game.LastMove.To != "f3" {
		t.Errorf("after second click: %+v", moved)
	}
}

func TestSeatTokenRequired(t *testing.T) {
	ts := newTestServer(t)
	g := ts.create(t, "")
	other := ts.create(t, "")
	path := "/api/v1/games/" + g.GameID + "/moves"
	body := `{"from":"e2","to":"e4"}`

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{"missing", "", fiber.StatusUnauthorized},
		{"garbage", "abc", fiber.StatusUnauthorized},
		{"other game", other.Seats.White, fiber.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, data := ts.do(t, http.MethodPost, path, body, tt.token)
			if status != tt.status {
				t.Fatalf("status = %d; want %d (%s)", status, tt.status, data)
			}
			if e := decode[core.ErrorResponse](t, data); e.Code != core.ErrUnauthorized {
				t.Errorf("code = %s; want %s", e.Code, core.ErrUnauthorized)
			}
		})
	}
}

func TestMoveErrors(t *testing.T) {
	ts := newTestServer(t)
	g := ts.create(t, `{"fen":"3k4/8/8/8/8/8/8/3Q4"}`)
	path := "/api/v1/games/" + g.GameID + "/moves"

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"king capture", `{"from":"d1","to":"d8"}`, fiber.StatusBadRequest, core.ErrKingCapture},
		{"illegal", `{"from":"d1","to":"e3"}`, fiber.StatusBadRequest, core.ErrInvalidMove},
		{"off board", `{"from":"d1","to":"d9"}`, fiber.StatusBadRequest, core.ErrInvalidRequest},
		{"missing field", `{"from":"d1"}`, fiber.StatusBadRequest, core.ErrInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, data := ts.do(t, http.MethodPost, path, tt.body, g.Seats.White)
			if status != tt.status {
				t.Fatalf("status = %d; want %d (%s)", status, tt.status, data)
			}
			if e := decode[core.ErrorResponse](t, data); e.Code != tt.code {
				t.Errorf("code = %s; want %s", e.Code, tt.code)
			}
		})
	}

	status, data := ts.do(t, http.MethodGet, "/api/v1/games/"+g.GameID+"/check", "", "")
	if status != fiber.StatusOK {
		t.Fatalf("check status = %d", status)
	}
	if diff := cmp.Diff(core.CheckResponse{Black: true}, decode[core.CheckResponse](t, data)); diff != "" {
		t.Errorf("check mismatch (-want +got):\n%s", diff)
	}
}

func TestSquareQueries(t *testing.T) {
	ts := newTestServer(t)
	g := ts.create(t, "")
	base := "/api/v1/games/" + g.GameID + "/squares/"

	status, data := ts.do(t, http.MethodGet, base+"e1", "", "")
	if status != fiber.StatusOK {
		t.Fatalf("square status = %d", status)
	}
	want := core.SquareResponse{Square: "e1", Color: "w", Piece: "king"}
	if diff := cmp.Diff(want, decode[core.SquareResponse](t, data)); diff != "" {
		t.Errorf("square mismatch (-want +got):\n%s", diff)
	}

	status, data = ts.do(t, http.MethodGet, base+"e3", "", "")
	if status != fiber.StatusOK {
		t.Fatalf("square status = %d", status)
	}
	want = core.SquareResponse{Square: "e3", Empty: true, AttackedBy: []string{"w"}}
	if diff := cmp.Diff(want, decode[core.SquareResponse](t, data)); diff != "" {
		t.Errorf("e3 mismatch (-want +got):\n%s", diff)
	}

	status, data = ts.do(t, http.MethodGet, base+"g8/destinations", "", "")
	if status != fiber.StatusOK {
		t.Fatalf("destinations status = %d", status)
	}
	dests := decode[core.DestinationsResponse](t, data)
	if diff := cmp.Diff([]string{"f6", "h6"}, dests.Destinations); diff != "" {
		t.Errorf("destinations mismatch (-want +got):\n%s", diff)
	}

	status, data = ts.do(t, http.MethodGet, base+"k9", "", "")
	if status != fiber.StatusBadRequest {
		t.Errorf("bad square status = %d; want 400", status)
	}
	if e := decode[core.ErrorResponse](t, data); e.Code != core.ErrInvalidSquareCode {
		t.Errorf("code = %s; want %s", e.Code, core.ErrInvalidSquareCode)
	}
}

func TestGameLifecycle(t *testing.T) {
	ts := newTestServer(t)
	g := ts.create(t, "")
	path := "/api/v1/games/" + g.GameID

	if status, _ := ts.do(t, http.MethodGet, "/api/v1/games/not-a-uuid", "", ""); status != fiber.StatusBadRequest {
		t.Errorf("bad id status = %d; want 400", status)
	}
	if status, _ := ts.do(t, http.MethodGet, path, "", ""); status != fiber.StatusOK {
		t.Errorf("get status = %d; want 200", status)
	}
	if status, _ := ts.do(t, http.MethodDelete, path, "", ""); status != fiber.StatusNoContent {
		t.Errorf("delete status = %d; want 204", status)
	}
	if status, _ := ts.do(t, http.MethodGet, path, "", ""); status != fiber.StatusNotFound {
		t.Errorf("get after delete status = %d; want 404", status)
	}
	if status, _ := ts.do(t, http.MethodPost, path+"/moves", `{"from":"e2","to":"e4"}`, g.Seats.White); status != fiber.StatusNotFound {
		t.Errorf("move after delete status = %d; want 404", status)
	}
}

func TestLongPoll(t *testing.T) {
	ts := newTestServer(t)
	g := ts.create(t, "")
	path := "/api/v1/games/" + g.GameID + "?wait=true&moveCount=0"

	go func() {
		time.Sleep(100 * time.Millisecond)
		ts.svc.Do(g.GameID, func(gm *game.Game) error {
			p, _, _ := gm.PieceAt(core.Sq(4, 1))
			_, err := gm.AttemptMove(p, core.Sq(4, 3))
			return err
		})
	}()

	start := time.Now()
	status, data := ts.do(t, http.MethodGet, path, "", "")
	if status != fiber.StatusOK {
		t.Fatalf("status = %d: %s", status, data)
	}
	if got := decode[core.GameResponse](t, data); got.MoveCount != 1 {
		t.Errorf("moveCount = %d; want 1", got.MoveCount)
	}
	if time.Since(start) > 2*time.Second {
		t.Errorf("long poll returned after %s; want wake on move", time.Since(start))
	}

	// A stale count returns at once
	status, data = ts.do(t, http.MethodGet, "/api/v1/games/"+g.GameID+"?wait=true&moveCount=0", "", "")
	if status != fiber.StatusOK || decode[core.GameResponse](t, data).MoveCount != 1 {
		t.Errorf("stale poll status=%d body=%s", status, data)
	}
}
