package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
)

// Remote is a telemetry client. It logs in over HTTP and then streams
// messages over the websocket.
type Remote struct {
	// Messages receives everything the server sends. It is closed when the
	// connection ends.
	Messages chan Message

	conn *websocket.Conn
	mu   sync.Mutex
}

// Login posts the credentials to base and returns the token. With register
// the user is created first.
func Login(ctx context.Context, base, name, password string, register bool) (*TokenResponse, error) {
	path := "/login"
	if register {
		path = "/register"
	}
	body, err := json.Marshal(LoginUser{Username: name, Password: password})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimSuffix(base, "/")+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var e ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return nil, fmt.Errorf("%s: %s %s", path, resp.Status, e.Message)
	}
	var tok TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return nil, err
	}
	return &tok, nil
}

// Dial opens the websocket of the server at base with token.
func Dial(ctx context.Context, base, token string) (*Remote, error) {
	u, err := url.Parse(strings.TrimSuffix(base, "/") + "/ws")
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.RawQuery = url.Values{"token": {token}}.Encode()
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, err
	}
	r := &Remote{Messages: make(chan Message, 64), conn: conn}
	go r.read()
	return r, nil
}

func (r *Remote) read() {
	defer close(r.Messages)
	for {
		var m Message
		if err := r.conn.ReadJSON(&m); err != nil {
			return
		}
		r.Messages <- m
	}
}

func (r *Remote) Send(cmd Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.conn.WriteJSON(cmd)
}

func (r *Remote) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_ = r.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return r.conn.Close()
}

// ParseCommand reads one command line of the remote client. quit is set for
// "quit" or "exit"; an empty line returns a nil command.
func ParseCommand(line string) (cmd *Command, quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, false, nil
	}
	switch fields[0] {
	case "quit", "exit":
		return nil, true, nil
	case "clear":
		return &Command{Type: HoldClearAction}, false, nil
	case "load":
		if len(fields) != 2 {
			return nil, false, fmt.Errorf("usage: load <scene>")
		}
		return &Command{Type: LoadRequestAction, Scene: fields[1]}, false, nil
	case "hold":
		if len(fields) < 2 || len(fields) > 3 {
			return nil, false, fmt.Errorf("usage: hold <point> [on|off]")
		}
		on := len(fields) == 2 || fields[2] == "on"
		return &Command{Type: HoldSetAction, Point: fields[1], On: on}, false, nil
	}
	return nil, false, fmt.Errorf("unknown command %q", fields[0])
}
