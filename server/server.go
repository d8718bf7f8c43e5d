package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/SvenDH/go-card-prototype/loader"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512

	// LoadsTopic is the broker channel load telemetry is published on.
	LoadsTopic = "loads"

	LoadEventAction    = "load.event"
	LoadProgressAction = "load.progress"
	HoldSetAction      = "hold.set"
	HoldClearAction    = "hold.clear"
	LoadRequestAction  = "load.request"
	ErrorAction        = "error"
)

type Message struct {
	Type   string `json:"type"`
	Data   any    `json:"data,omitempty"`
	Sender string `json:"sender,omitempty"`
}

func (message *Message) encode() []byte {
	data, _ := json.Marshal(message)
	return data
}

// Command is a message sent by a client to steer the running load.
type Command struct {
	Type  string `json:"type"`
	Point string `json:"point,omitempty"`
	On    bool   `json:"on,omitempty"`
	Scene string `json:"scene,omitempty"`
}

// Controller is what remote clients may do to the game's loader.
// Implementations must be safe to call from any goroutine.
type Controller interface {
	SetHold(point loader.HoldPoint, on bool)
	ClearHolds()
	RequestLoad(destination string) error
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type Client struct {
	Name   string
	conn   *websocket.Conn
	server *Server
	send   chan []byte
}

func newClient(conn *websocket.Conn, server *Server, name string) *Client {
	return &Client{
		Name:   name,
		conn:   conn,
		server: server,
		send:   make(chan []byte, 256),
	}
}

func (client *Client) readPump() {
	defer func() {
		client.disconnect()
	}()
	client.conn.SetReadLimit(maxMessageSize)
	client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error { client.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, jsonMessage, err := client.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("unexpected close error: %v", err)
			}
			break
		}
		client.handleNewMessage(jsonMessage)
	}
}

func (client *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.conn.Close()
	}()
	for {
		select {
		case message, ok := <-client.send:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (client *Client) disconnect() {
	select {
	case client.server.unregister <- client:
	case <-client.server.done:
	}
	client.conn.Close()
}

func (client *Client) reply(m Message) {
	client.server.mutex.Lock()
	defer client.server.mutex.Unlock()
	if !client.server.clients[client] {
		return
	}
	select {
	case client.send <- m.encode():
	default:
	}
}

func (client *Client) handleNewMessage(jsonMessage []byte) {
	var cmd Command
	if err := json.Unmarshal(jsonMessage, &cmd); err != nil {
		log.Printf("Error on unmarshal JSON message %s", err)
		return
	}
	ctrl := client.server.controller
	if ctrl == nil {
		client.reply(Message{Type: ErrorAction, Data: "no game attached"})
		return
	}
	switch cmd.Type {
	case HoldSetAction:
		point, ok := loader.ParseHoldPoint(cmd.Point)
		if !ok {
			client.reply(Message{Type: ErrorAction, Data: "unknown hold point " + cmd.Point})
			return
		}
		log.Printf("%s set hold %s to %v", client.Name, point, cmd.On)
		ctrl.SetHold(point, cmd.On)
	case HoldClearAction:
		log.Printf("%s cleared all holds", client.Name)
		ctrl.ClearHolds()
	case LoadRequestAction:
		if err := ctrl.RequestLoad(cmd.Scene); err != nil {
			client.reply(Message{Type: ErrorAction, Data: err.Error()})
		}
	default:
		client.reply(Message{Type: ErrorAction, Data: "unknown command " + cmd.Type})
	}
}

func (server *Server) ServeWs(w http.ResponseWriter, r *http.Request) {
	userCtxValue := r.Context().Value(UserContextKey)
	if userCtxValue == nil {
		log.Println("Not authenticated")
		return
	}
	user := userCtxValue.(string)
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println(err)
		return
	}
	client := newClient(conn, server, user)
	select {
	case server.register <- client:
	case <-server.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// Server keeps the connected websocket clients and forwards everything
// published on LoadsTopic to them.
type Server struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broker     Broker
	controller Controller
	done       chan struct{}
	mutex      sync.Mutex
}

// NewWebsocketServer returns a server; controller may be nil when no game
// runs in this process.
func NewWebsocketServer(broker Broker, controller Controller) *Server {
	return &Server{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broker:     broker,
		controller: controller,
		done:       make(chan struct{}),
	}
}

func (server *Server) Run(ctx context.Context) {
	sub := server.broker.Subscribe(ctx, LoadsTopic)
	defer server.broker.Unsubscribe(context.Background(), sub, LoadsTopic)
	defer close(server.done)
	for {
		select {
		case client := <-server.register:
			server.registerClient(client)
		case client := <-server.unregister:
			server.unregisterClient(client)
		case msg, ok := <-sub.Channel:
			if !ok {
				return
			}
			server.broadcast(msg)
		case <-ctx.Done():
			server.mutex.Lock()
			for client := range server.clients {
				delete(server.clients, client)
				close(client.send)
			}
			server.mutex.Unlock()
			return
		}
	}
}

// Clients returns how many clients are connected.
func (server *Server) Clients() int {
	server.mutex.Lock()
	defer server.mutex.Unlock()
	return len(server.clients)
}

func (server *Server) registerClient(client *Client) {
	server.mutex.Lock()
	defer server.mutex.Unlock()
	server.clients[client] = true
}

func (server *Server) unregisterClient(client *Client) {
	server.mutex.Lock()
	defer server.mutex.Unlock()
	if server.clients[client] {
		delete(server.clients, client)
		close(client.send)
	}
}

func (server *Server) broadcast(msg []byte) {
	server.mutex.Lock()
	defer server.mutex.Unlock()
	for client := range server.clients {
		select {
		case client.send <- msg:
		default:
			log.Printf("client %s too slow, dropping it", client.Name)
			delete(server.clients, client)
			close(client.send)
		}
	}
}
