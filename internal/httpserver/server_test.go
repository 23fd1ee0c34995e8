package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/robalobadob/wordhunt/internal/config"
	"github.com/robalobadob/wordhunt/internal/game"
	"github.com/robalobadob/wordhunt/internal/grid"
	"github.com/robalobadob/wordhunt/internal/results"
	"github.com/robalobadob/wordhunt/internal/store"
	"github.com/robalobadob/wordhunt/internal/words"
)

var testNow = time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

type testServer struct {
	t   *testing.T
	srv *Server
	res *results.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	pools, err := words.Load("", "")
	if err != nil {
		t.Fatal(err)
	}
	res, err := results.Open(results.MemoryDSN)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { res.Close() })

	cfg := config.Load()
	cfg.Game.TickInterval = 0 // tests drive no clock
	cfg.Game.DailySalt = "test_salt"

	return &testServer{t: t, res: res, srv: New(Deps{
		Config:   cfg,
		Store:    store.NewMemoryStore(res.Purge),
		Words:    pools,
		Recorder: res,
		History:  res,
		Now:      func() time.Time { return testNow },
	})}
}

// do sends a request with an optional JSON body and bearer token and
// decodes the response into out when out is non-nil.
func (ts *testServer) do(method, path, token string, body, out any) *httptest.ResponseRecorder {
	ts.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			ts.t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.srv.Router().ServeHTTP(rec, req)
	if out != nil && rec.Code < 300 {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			ts.t.Fatalf("%s %s: decode %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec
}

func (ts *testServer) session() string {
	ts.t.Helper()
	var res sessionRes
	rec := ts.do(http.MethodPost, "/api/session", "", nil, &res)
	if rec.Code != http.StatusCreated || res.Token == "" {
		ts.t.Fatalf("create session: %d %s", rec.Code, rec.Body.String())
	}
	return res.Token
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	var body map[string]any
	rec := ts.do(http.MethodGet, "/health", "", nil, &body)
	if rec.Code != http.StatusOK || body["ok"] != true || body["db"] != "up" {
		t.Fatalf("health = %d %v", rec.Code, body)
	}
	if body["primaryWords"].(float64) == 0 {
		t.Fatal("no primary words reported")
	}
}

func TestLevels(t *testing.T) {
	ts := newTestServer(t)
	var lv []map[string]any
	ts.do(http.MethodGet, "/api/levels", "", nil, &lv)
	if len(lv) != 8 || lv[0]["level"].(float64) != 1 {
		t.Fatalf("levels = %v", lv)
	}
}

func TestDaily(t *testing.T) {
	ts := newTestServer(t)
	var d dailyRes
	ts.do(http.MethodGet, "/api/daily", "", nil, &d)
	if d.Date != "2026-03-14" || !d.ResetsAt.Equal(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("daily = %+v", d)
	}
}

func TestNotFoundIsJSON(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(http.MethodGet, "/nope", "", nil, nil)
	if rec.Code != http.StatusNotFound || !bytes.Contains(rec.Body.Bytes(), []byte(`"not_found"`)) {
		t.Fatalf("404 = %d %s", rec.Code, rec.Body.String())
	}
}

func TestSessionRequired(t *testing.T) {
	ts := newTestServer(t)
	for _, path := range []string{"/api/session", "/api/attempts/current", "/api/session/history"} {
		if rec := ts.do(http.MethodGet, path, "", nil, nil); rec.Code != http.StatusUnauthorized {
			t.Errorf("%s without token = %d", path, rec.Code)
		}
	}
	if rec := ts.do(http.MethodGet, "/api/session", "garbage", nil, nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("bad token = %d", rec.Code)
	}
}

func TestSessionCookie(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(http.MethodPost, "/api/session", "", nil, nil)
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != cookieName || !cookies[0].HttpOnly {
		t.Fatalf("cookies = %+v", cookies)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	ts.srv.Router().ServeHTTP(rec, req)
	var info game.Info
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil || rec.Code != http.StatusOK {
		t.Fatalf("info via cookie = %d %s", rec.Code, rec.Body.String())
	}
	if info.HighestPassed != 0 || info.Playing {
		t.Fatalf("info = %+v", info)
	}
}

func TestNewSessionReplacesOld(t *testing.T) {
	ts := newTestServer(t)
	old := ts.session()

	var res sessionRes
	ts.do(http.MethodPost, "/api/session", old, nil, &res)
	if res.Token == old {
		t.Fatal("token reused")
	}
	if rec := ts.do(http.MethodGet, "/api/session", old, nil, nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("old session still valid: %d", rec.Code)
	}
}

func TestStartAttempt(t *testing.T) {
	ts := newTestServer(t)
	tok := ts.session()

	if rec := ts.do(http.MethodPost, "/api/attempts", tok, startReq{Level: 42}, nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown level = %d", rec.Code)
	}
	if rec := ts.do(http.MethodGet, "/api/attempts/current", tok, nil, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("snapshot before start = %d", rec.Code)
	}

	var snap game.Snapshot
	rec := ts.do(http.MethodPost, "/api/attempts", tok, startReq{Level: 1}, &snap)
	if rec.Code != http.StatusCreated {
		t.Fatalf("start = %d %s", rec.Code, rec.Body.String())
	}
	if len(snap.Rows) != 10 || snap.Outcome != game.Playing || snap.Remaining != 240 || len(snap.Words) == 0 {
		t.Fatalf("snapshot = %+v", snap)
	}
	for _, w := range snap.Words {
		if w.Found || w.Path != nil {
			t.Fatalf("unfound word exposes its path: %+v", w)
		}
	}

	// Every level is open, not just the first.
	rec = ts.do(http.MethodPost, "/api/attempts", tok, startReq{Level: 6}, &snap)
	if rec.Code != http.StatusCreated || snap.Level.Number != 6 {
		t.Fatalf("start level 6 = %d %s", rec.Code, rec.Body.String())
	}
}

func TestDailyAttemptIsShared(t *testing.T) {
	ts := newTestServer(t)
	var a, b game.Snapshot
	ts.do(http.MethodPost, "/api/attempts", ts.session(), startReq{Level: 1, Daily: true}, &a)
	ts.do(http.MethodPost, "/api/attempts", ts.session(), startReq{Level: 1, Daily: true}, &b)
	if !a.Daily || len(a.Rows) == 0 {
		t.Fatalf("daily snapshot = %+v", a)
	}
	for i := range a.Rows {
		if a.Rows[i] != b.Rows[i] {
			t.Fatalf("row %d differs between players", i)
		}
	}
}

func TestPointerFlow(t *testing.T) {
	ts := newTestServer(t)
	tok := ts.session()
	ts.do(http.MethodPost, "/api/attempts", tok, startReq{Level: 1}, nil)

	var pr pointerRes
	ts.do(http.MethodPost, "/api/attempts/current/pointer", tok, pointerReq{Type: "down", Row: 0, Col: 0}, &pr)
	if !pr.Changed {
		t.Fatal("down did not start tracking")
	}
	ts.do(http.MethodPost, "/api/attempts/current/pointer", tok, pointerReq{Type: "move", Row: 0, Col: 1}, &pr)
	if !pr.Changed {
		t.Fatal("move to neighbor ignored")
	}

	var snap game.Snapshot
	ts.do(http.MethodGet, "/api/attempts/current", tok, nil, &snap)
	if len(snap.Selecting) != 2 {
		t.Fatalf("selecting = %v", snap.Selecting)
	}

	ts.do(http.MethodPost, "/api/attempts/current/pointer", tok, pointerReq{Type: "up"}, &pr)
	if pr.Play == nil || pr.Play.Selected {
		t.Fatalf("two-letter gesture = %+v", pr.Play)
	}

	if rec := ts.do(http.MethodPost, "/api/attempts/current/pointer", tok, pointerReq{Type: "wiggle"}, nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad pointer type = %d", rec.Code)
	}
}

func TestAbandonRevealsAndRetryReplays(t *testing.T) {
	ts := newTestServer(t)
	tok := ts.session()
	ts.do(http.MethodPost, "/api/attempts", tok, startReq{Level: 1, Daily: true}, nil)

	var ended game.Snapshot
	ts.do(http.MethodPost, "/api/attempts/current/abandon", tok, nil, &ended)
	if ended.Outcome != game.Abandoned || len(ended.Words) == 0 {
		t.Fatalf("abandoned snapshot = %+v", ended)
	}
	if rec := ts.do(http.MethodPost, "/api/attempts/current/hint", tok, nil, nil); rec.Code != http.StatusConflict {
		t.Fatalf("hint after end = %d", rec.Code)
	}

	var retry game.Snapshot
	ts.do(http.MethodPost, "/api/attempts/retry", tok, nil, &retry)
	if retry.Outcome != game.Playing || retry.Rows[0] != ended.Rows[0] {
		t.Fatalf("daily retry changed board: %+v", retry)
	}

	target := ended.Words[0]
	var play game.Play
	ts.do(http.MethodPost, "/api/attempts/current/trace", tok, traceReq{Path: target.Path}, &play)
	if !play.Result.Valid || play.Result.Word.Text != target.Text || play.Score != target.Points {
		t.Fatalf("trace %s = %+v", target.Text, play)
	}

	var hist []results.Result
	ts.do(http.MethodGet, "/api/session/history", tok, nil, &hist)
	if len(hist) != 1 || hist[0].Outcome != string(game.Abandoned) || !hist[0].Daily {
		t.Fatalf("history = %+v", hist)
	}
}

func TestHintAndDictionary(t *testing.T) {
	ts := newTestServer(t)
	tok := ts.session()
	ts.do(http.MethodPost, "/api/attempts", tok, startReq{Level: 1}, nil)

	var h game.Hint
	rec := ts.do(http.MethodPost, "/api/attempts/current/hint", tok, nil, &h)
	if rec.Code != http.StatusOK || h.Remaining != 7 || h.Length < 3 {
		t.Fatalf("hint = %d %+v", rec.Code, h)
	}

	var snap game.Snapshot
	ts.do(http.MethodPost, "/api/attempts/current/dictionary/open", tok, nil, &snap)
	if !snap.DictionaryOpen || snap.Clock != game.ClockPaused {
		t.Fatalf("open = %+v", snap)
	}
	ts.do(http.MethodPost, "/api/attempts/current/dictionary/close", tok, nil, &snap)
	if snap.DictionaryOpen || snap.Clock != game.ClockRunning {
		t.Fatalf("close = %+v", snap)
	}
	if rec := ts.do(http.MethodPost, "/api/attempts/current/dictionary/slam", tok, nil, nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad action = %d", rec.Code)
	}
}

func TestDefineUnavailable(t *testing.T) {
	ts := newTestServer(t)
	if rec := ts.do(http.MethodPost, "/api/define", "", defineReq{Word: "chain"}, nil); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("unconfigured define = %d", rec.Code)
	}
	if rec := ts.do(http.MethodPost, "/api/define", "", defineReq{Word: "  "}, nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("empty word = %d", rec.Code)
	}
}

type stubDefiner struct{}

func (stubDefiner) Define(_ context.Context, word string) (string, error) {
	return "a test definition", nil
}

func TestDefine(t *testing.T) {
	ts := newTestServer(t)
	ts.srv.deps.Definer = stubDefiner{}
	var res defineRes
	ts.do(http.MethodPost, "/api/define", "", defineReq{Word: " zzzq "}, &res)
	if !res.Success || res.Word != "ZZZQ" || res.Definition != "a test definition" || res.Themed {
		t.Fatalf("define = %+v", res)
	}

	themed := strings.ToLower(ts.srv.deps.Words.Primary[0].Word)
	ts.do(http.MethodPost, "/api/define", "", defineReq{Word: themed}, &res)
	if !res.Themed {
		t.Fatalf("%s from the primary pool not marked themed: %+v", themed, res)
	}
}

// wsFrame is the union of event frames and reply frames.
type wsFrame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func dialWS(t *testing.T, ts *testServer, tok string) (*websocket.Conn, func() wsFrame) {
	t.Helper()
	hs := httptest.NewServer(ts.srv.Router())
	t.Cleanup(hs.Close)

	url := "ws" + strings.TrimPrefix(hs.URL, "http") + "/ws?token=" + tok
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v (%v)", err, resp)
	}
	t.Cleanup(func() { conn.Close() })

	read := func() wsFrame {
		t.Helper()
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var f wsFrame
		if err := conn.ReadJSON(&f); err != nil {
			t.Fatalf("read frame: %v", err)
		}
		return f
	}
	return conn, read
}

// await reads frames until one of type typ arrives.
func await(t *testing.T, read func() wsFrame, typ string) wsFrame {
	t.Helper()
	for i := 0; i < 50; i++ {
		if f := read(); f.Type == typ {
			return f
		}
	}
	t.Fatalf("no %s frame", typ)
	return wsFrame{}
}

func TestWebSocketRejectsMissingToken(t *testing.T) {
	ts := newTestServer(t)
	hs := httptest.NewServer(ts.srv.Router())
	defer hs.Close()

	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(hs.URL, "http")+"/ws", nil)
	if err == nil || resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("dial without token: err=%v resp=%v", err, resp)
	}
}

func TestWebSocketGestures(t *testing.T) {
	ts := newTestServer(t)
	tok := ts.session()

	// Learn a word's position from an abandoned daily board, then replay it.
	ts.do(http.MethodPost, "/api/attempts", tok, startReq{Level: 1, Daily: true}, nil)
	var ended game.Snapshot
	ts.do(http.MethodPost, "/api/attempts/current/abandon", tok, nil, &ended)
	target := ended.Words[0]

	conn, read := dialWS(t, ts, tok)
	send := func(v any) {
		t.Helper()
		if err := conn.WriteJSON(v); err != nil {
			t.Fatal(err)
		}
	}

	send(map[string]string{"type": "ping"})
	await(t, read, "pong")

	send(map[string]string{"type": "nonsense"})
	var ep errorPayload
	json.Unmarshal(await(t, read, "error").Payload, &ep)
	if ep.Code != "invalid_message" {
		t.Fatalf("unknown frame error = %+v", ep)
	}

	ts.do(http.MethodPost, "/api/attempts/retry", tok, nil, nil)
	await(t, read, string(game.EventAttemptStarted))

	pointer := func(typ string, c grid.Coord) {
		send(map[string]any{"type": "pointer", "payload": pointerReq{Type: typ, Row: c.Row, Col: c.Col}})
	}
	pointer("down", target.Path[0])
	for _, c := range target.Path[1:] {
		pointer("move", c)
	}
	pointer("up", grid.Coord{})

	var play game.Play
	json.Unmarshal(await(t, read, "play").Payload, &play)
	if !play.Result.Valid || play.Result.Word.Text != target.Text {
		t.Fatalf("play = %+v", play)
	}
	// The event may arrive before or after the reply; await scans both.
	var found game.WordFoundPayload
	json.Unmarshal(await(t, read, string(game.EventWordFound)).Payload, &found)
	if found.Word != target.Text || found.Points != target.Points {
		t.Fatalf("word_found = %+v", found)
	}

	send(map[string]string{"type": "dictionary_open"})
	var snap game.Snapshot
	json.Unmarshal(await(t, read, "snapshot").Payload, &snap)
	if !snap.DictionaryOpen || snap.Clock != game.ClockPaused {
		t.Fatalf("dictionary_open snapshot = %+v", snap)
	}
	send(map[string]string{"type": "dictionary_close"})
	json.Unmarshal(await(t, read, "snapshot").Payload, &snap)
	if snap.DictionaryOpen || snap.Clock != game.ClockRunning {
		t.Fatalf("dictionary_close snapshot = %+v", snap)
	}

	ts.do(http.MethodPost, "/api/attempts/current/abandon", tok, nil, nil)
	var endedEv game.EndedPayload
	json.Unmarshal(await(t, read, string(game.EventAttemptEnded)).Payload, &endedEv)
	if endedEv.Outcome != game.Abandoned || endedEv.Score != target.Points {
		t.Fatalf("attempt_ended = %+v", endedEv)
	}
}
