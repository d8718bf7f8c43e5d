package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/oklog/ulid/v2"

	"github.com/SvenDH/go-card-prototype/loader"
	"github.com/SvenDH/go-card-prototype/scene"
)

func openRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := OpenDB(":memory:")
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := GeneratePassword("hunter2")
	if err != nil {
		t.Fatalf("GeneratePassword: %v", err)
	}
	if ok, err := ValidatePassword("hunter2", hash); err != nil || !ok {
		t.Fatalf("Valid password rejected: %v", err)
	}
	if ok, _ := ValidatePassword("hunter3", hash); ok {
		t.Fatalf("Wrong password accepted")
	}
	if _, err := ValidatePassword("x", "not-a-hash"); err == nil {
		t.Fatalf("Malformed hash accepted")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	auth := NewAuth("secret")
	tok, err := auth.CreateJWTToken(&User{Name: "ana"})
	if err != nil {
		t.Fatalf("CreateJWTToken: %v", err)
	}
	claims, err := auth.ValidateToken(tok.AccessToken)
	if err != nil || claims.Name != "ana" {
		t.Fatalf("ValidateToken = %v, %v", claims, err)
	}
	if _, err := NewAuth("other").ValidateToken(tok.AccessToken); err == nil {
		t.Fatalf("Token accepted with the wrong secret")
	}
}

func TestRepositorySequences(t *testing.T) {
	repo := openRepo(t)
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := repo.BeginSequence("a", "Table", start); err != nil {
		t.Fatalf("BeginSequence: %v", err)
	}
	for i, status := range []string{"load-started", "entry-fade"} {
		e := &LoadEvent{Sequence: "a", Status: status, Phase: "init", Scene: "Table", Elapsed: float64(i), At: start}
		if err := repo.RecordEvent(e); err != nil {
			t.Fatalf("RecordEvent: %v", err)
		}
	}
	if err := repo.BeginSequence("b", "Title", start.Add(time.Minute)); err != nil {
		t.Fatalf("BeginSequence: %v", err)
	}
	if err := repo.FinishSequence("a", start.Add(time.Second)); err != nil {
		t.Fatalf("FinishSequence: %v", err)
	}

	seqs, err := repo.ListSequences(0)
	if err != nil {
		t.Fatalf("ListSequences: %v", err)
	}
	if len(seqs) != 2 || seqs[0].ID != "b" || seqs[1].ID != "a" {
		t.Fatalf("Sequences = %+v", seqs)
	}
	if seqs[1].Events != 2 || seqs[1].Finished == nil || !seqs[1].Finished.Equal(start.Add(time.Second)) {
		t.Fatalf("Sequence a = %+v", seqs[1])
	}
	if seqs[0].Finished != nil {
		t.Fatalf("Unfinished sequence has a finish time")
	}

	events, err := repo.SequenceEvents("a")
	if err != nil {
		t.Fatalf("SequenceEvents: %v", err)
	}
	if len(events) != 2 || events[0].Status != "load-started" || events[1].Elapsed != 1 {
		t.Fatalf("Events = %+v", events)
	}
}

func TestRepositoryUsers(t *testing.T) {
	repo := openRepo(t)
	if u, err := repo.FindUserByName("nobody"); err != nil || u != nil {
		t.Fatalf("FindUserByName(nobody) = %v, %v", u, err)
	}
	u, err := repo.AddUser("ana")
	if err != nil {
		t.Fatalf("AddUser: %v", err)
	}
	if err := repo.SetPassword(u, "hash"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	found, err := repo.FindUserByName("ana")
	if err != nil || found == nil || found.Password.String != "hash" {
		t.Fatalf("FindUserByName = %+v, %v", found, err)
	}
	if _, err := repo.AddUser("ana"); err == nil {
		t.Fatalf("Duplicate user accepted")
	}
}

func post(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, _ := json.Marshal(body)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data)))
	return w
}

func TestRegisterAndLogin(t *testing.T) {
	repo := openRepo(t)
	ws := NewWebsocketServer(NewMemoryBroker(), nil)
	h := NewRouter(":0", repo, NewAuth("secret"), ws, "").Handler()

	w := post(t, h, "/register", LoginUser{"ana", "pw"})
	if w.Code != http.StatusCreated {
		t.Fatalf("Register status %d: %s", w.Code, w.Body)
	}
	var tok TokenResponse
	if err := json.NewDecoder(w.Body).Decode(&tok); err != nil || tok.AccessToken == "" {
		t.Fatalf("No token in register response: %v", err)
	}
	if w := post(t, h, "/register", LoginUser{"ana", "pw"}); w.Code != http.StatusConflict {
		t.Fatalf("Second register status %d", w.Code)
	}
	if w := post(t, h, "/login", LoginUser{"ana", "pw"}); w.Code != http.StatusOK {
		t.Fatalf("Login status %d", w.Code)
	}
	if w := post(t, h, "/login", LoginUser{"ana", "nope"}); w.Code != http.StatusUnauthorized {
		t.Fatalf("Bad login status %d", w.Code)
	}
	if w := post(t, h, "/login", LoginUser{"", ""}); w.Code != http.StatusBadRequest {
		t.Fatalf("Empty login status %d", w.Code)
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/loads", nil))
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "[]" {
		t.Fatalf("List loads = %d %s", w.Code, w.Body)
	}
	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/loads/missing", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("Missing load status %d", w.Code)
	}
	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ws", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Unauthenticated ws status %d", w.Code)
	}
}

func receive(t *testing.T, sub *Subscriber) Message {
	t.Helper()
	select {
	case data := <-sub.Channel:
		var m Message
		if err := json.Unmarshal(data, &m); err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}
		return m
	case <-time.After(5 * time.Second):
		t.Fatalf("Nothing published")
	}
	return Message{}
}

func TestRecorder(t *testing.T) {
	repo := openRepo(t)
	broker := NewMemoryBroker()
	sub := broker.Subscribe(context.Background(), LoadsTopic)
	rec := NewRecorder(repo, broker)
	rec.Logger = log.New(io.Discard, "", 0)
	bus := loader.NewBus()
	rec.Attach(bus)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go rec.Run(ctx)

	id := ulid.Make()
	origin := scene.Ref{ID: ulid.Make(), Name: "Title"}
	bus.Emit(&loader.Event{Status: loader.StatusLoadStarted, Phase: loader.PhaseInit, Scene: "Table", Sequence: id})
	bus.Emit(&loader.Event{Status: loader.StatusUnloadOriginScene, Phase: loader.PhaseUnloadOriginScenes, Scene: "Table", Sequence: id, Origin: origin})
	rec.Progress(1, 1)
	bus.Emit(&loader.Event{Status: loader.StatusUnloadSceneLoader, Phase: loader.PhaseUnloadSequencer, Scene: "Table", Sequence: id})

	want := []string{LoadEventAction, LoadEventAction, LoadProgressAction, LoadEventAction}
	for i, typ := range want {
		if m := receive(t, sub); m.Type != typ {
			t.Fatalf("Message %d is %q, want %q", i, m.Type, typ)
		}
	}

	seqs, err := repo.ListSequences(10)
	if err != nil {
		t.Fatalf("ListSequences: %v", err)
	}
	if len(seqs) != 1 || seqs[0].ID != id.String() || seqs[0].Events != 3 || seqs[0].Finished == nil {
		t.Fatalf("Sequences = %+v", seqs)
	}
	events, _ := repo.SequenceEvents(id.String())
	if events[1].Origin != "Title" {
		t.Fatalf("Origin not recorded: %+v", events[1])
	}
}

type fakeController struct {
	mu    sync.Mutex
	holds map[loader.HoldPoint]bool
	loads []string
}

func (c *fakeController) SetHold(point loader.HoldPoint, on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.holds[point] = on
}

func (c *fakeController) ClearHolds() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.holds = map[loader.HoldPoint]bool{}
}

func (c *fakeController) RequestLoad(dest string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loads = append(c.loads, dest)
	return nil
}

func (c *fakeController) held(point loader.HoldPoint) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.holds[point]
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("Timed out waiting for %s", what)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestWebsocketControl(t *testing.T) {
	repo := openRepo(t)
	broker := NewMemoryBroker()
	ctrl := &fakeController{holds: map[loader.HoldPoint]bool{}}
	ws := NewWebsocketServer(broker, ctrl)
	auth := NewAuth("secret")
	router := NewRouter(":0", repo, auth, ws, "")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ws.Run(ctx)
	srv := httptest.NewServer(router.Handler())
	defer srv.Close()

	tok, err := auth.CreateJWTToken(&User{Name: "ana"})
	if err != nil {
		t.Fatalf("CreateJWTToken: %v", err)
	}
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + tok.AccessToken
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()
	waitFor(t, "client registration", func() bool { return ws.Clients() == 1 })

	if err := conn.WriteJSON(Command{Type: HoldSetAction, Point: loader.HoldBeforeExitFade.String(), On: true}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	waitFor(t, "hold", func() bool { return ctrl.held(loader.HoldBeforeExitFade) })

	if err := conn.WriteJSON(Command{Type: HoldSetAction, Point: "nowhere", On: true}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	var reply Message
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&reply); err != nil || reply.Type != ErrorAction {
		t.Fatalf("Reply to a bad hold point = %+v, %v", reply, err)
	}

	m := Message{Type: LoadEventAction, Data: LoadEvent{Status: "exit-fade"}}
	if err := broker.Publish(ctx, LoadsTopic, m.encode()); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := conn.ReadJSON(&reply); err != nil || reply.Type != LoadEventAction {
		t.Fatalf("Streamed message = %+v, %v", reply, err)
	}
}

func TestRemote(t *testing.T) {
	repo := openRepo(t)
	broker := NewMemoryBroker()
	ctrl := &fakeController{holds: map[loader.HoldPoint]bool{}}
	ws := NewWebsocketServer(broker, ctrl)
	router := NewRouter(":0", repo, NewAuth("secret"), ws, "")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ws.Run(ctx)
	srv := httptest.NewServer(router.Handler())
	defer srv.Close()

	if _, err := Login(ctx, srv.URL, "ana", "pw", false); err == nil {
		t.Fatalf("Login of an unknown user succeeded")
	}
	tok, err := Login(ctx, srv.URL, "ana", "pw", true)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if tok, err = Login(ctx, srv.URL, "ana", "pw", false); err != nil {
		t.Fatalf("Login: %v", err)
	}

	remote, err := Dial(ctx, srv.URL, tok.AccessToken)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer remote.Close()
	waitFor(t, "client registration", func() bool { return ws.Clients() == 1 })

	if err := remote.Send(Command{Type: LoadRequestAction, Scene: "Table"}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	waitFor(t, "load request", func() bool {
		ctrl.mu.Lock()
		defer ctrl.mu.Unlock()
		return len(ctrl.loads) == 1 && ctrl.loads[0] == "Table"
	})

	m := Message{Type: LoadProgressAction, Data: Progress{Display: 0.5}}
	if err := broker.Publish(ctx, LoadsTopic, m.encode()); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	select {
	case got := <-remote.Messages:
		if got.Type != LoadProgressAction {
			t.Fatalf("Received %+v", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("No message streamed")
	}
}

func TestParseCommand(t *testing.T) {
	c, quit, err := ParseCommand("hold before-exit-fade off")
	if err != nil || quit || c.Type != HoldSetAction || c.Point != "before-exit-fade" || c.On {
		t.Fatalf("hold off = %+v, %v, %v", c, quit, err)
	}
	c, _, _ = ParseCommand("hold after-entry-fade")
	if !c.On {
		t.Fatalf("Hold without a state should set the hold")
	}
	c, _, _ = ParseCommand("  load   Table ")
	if c.Type != LoadRequestAction || c.Scene != "Table" {
		t.Fatalf("load = %+v", c)
	}
	if _, quit, _ := ParseCommand("quit"); !quit {
		t.Fatalf("quit not recognised")
	}
	if c, _, err := ParseCommand(""); c != nil || err != nil {
		t.Fatalf("Empty line = %+v, %v", c, err)
	}
	if _, _, err := ParseCommand("shuffle"); err == nil {
		t.Fatalf("Unknown command accepted")
	}
}
