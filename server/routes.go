package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"
)

type LoginUser struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func respondWithError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
	if err != nil {
		log.Printf("Error encoding error response: %v", err)
	}
}

func respondWithJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

type Cors struct {
	handler http.Handler
}

func (c *Cors) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	c.handler.ServeHTTP(w, r)
}

type Logger struct {
	handler http.Handler
	logger  *log.Logger
}

func (l *Logger) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	l.handler.ServeHTTP(w, r)
	l.logger.Printf("%s %s %v", r.Method, r.URL.Path, time.Since(start))
}

type Router struct {
	addr     string
	repo     *Repository
	auth     *Auth
	wsServer *Server
	mux      http.Handler
}

// NewRouter wires the telemetry routes. static is the directory served at
// "/"; an empty string disables it.
func NewRouter(addr string, repo *Repository, auth *Auth, wsServer *Server, static string) *Router {
	r := &Router{addr: addr, repo: repo, auth: auth, wsServer: wsServer}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", auth.Middleware(wsServer.ServeWs))
	mux.HandleFunc("POST /login", r.login)
	mux.HandleFunc("POST /register", r.register)
	mux.HandleFunc("GET /api/loads", r.listLoads)
	mux.HandleFunc("GET /api/loads/{id}", r.loadEvents)
	if static != "" {
		mux.Handle("/", http.FileServer(http.Dir(static)))
	}
	logger := log.New(os.Stderr, "[http]: ", log.LstdFlags)
	r.mux = &Logger{&Cors{mux}, logger}
	return r
}

func (r *Router) Handler() http.Handler { return r.mux }

func (r *Router) login(w http.ResponseWriter, req *http.Request) {
	var loginUser LoginUser
	if err := json.NewDecoder(req.Body).Decode(&loginUser); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if loginUser.Username == "" || loginUser.Password == "" {
		respondWithError(w, http.StatusBadRequest, "Username and password are required")
		return
	}
	user, err := r.repo.FindUserByName(loginUser.Username)
	if err != nil {
		log.Println(err)
		respondWithError(w, http.StatusInternalServerError, "")
		return
	}
	if user == nil || !user.Password.Valid {
		respondWithError(w, http.StatusUnauthorized, "Unknown user or wrong password")
		return
	}
	ok, err := ValidatePassword(loginUser.Password, user.Password.String)
	if err != nil || !ok {
		respondWithError(w, http.StatusUnauthorized, "Unknown user or wrong password")
		return
	}
	r.respondWithToken(w, http.StatusOK, user)
}

func (r *Router) register(w http.ResponseWriter, req *http.Request) {
	var newUser LoginUser
	if err := json.NewDecoder(req.Body).Decode(&newUser); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if newUser.Username == "" || newUser.Password == "" {
		respondWithError(w, http.StatusBadRequest, "Username and password are required")
		return
	}
	existing, err := r.repo.FindUserByName(newUser.Username)
	if err != nil {
		log.Println(err)
		respondWithError(w, http.StatusInternalServerError, "")
		return
	}
	if existing != nil {
		respondWithError(w, http.StatusConflict, "Username is taken")
		return
	}
	hash, err := GeneratePassword(newUser.Password)
	if err != nil {
		log.Println(err)
		respondWithError(w, http.StatusInternalServerError, "")
		return
	}
	user, err := r.repo.AddUser(newUser.Username)
	if err == nil {
		err = r.repo.SetPassword(user, hash)
	}
	if err != nil {
		log.Println(err)
		respondWithError(w, http.StatusInternalServerError, "")
		return
	}
	r.respondWithToken(w, http.StatusCreated, user)
}

func (r *Router) respondWithToken(w http.ResponseWriter, status int, user *User) {
	token, err := r.auth.CreateJWTToken(user)
	if err != nil {
		log.Println(err)
		respondWithError(w, http.StatusInternalServerError, "")
		return
	}
	respondWithJSON(w, status, token)
}

func (r *Router) listLoads(w http.ResponseWriter, req *http.Request) {
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	seqs, err := r.repo.ListSequences(limit)
	if err != nil {
		log.Println(err)
		respondWithError(w, http.StatusInternalServerError, "")
		return
	}
	respondWithJSON(w, http.StatusOK, seqs)
}

func (r *Router) loadEvents(w http.ResponseWriter, req *http.Request) {
	events, err := r.repo.SequenceEvents(req.PathValue("id"))
	if err != nil {
		log.Println(err)
		respondWithError(w, http.StatusInternalServerError, "")
		return
	}
	if len(events) == 0 {
		respondWithError(w, http.StatusNotFound, "No such load")
		return
	}
	respondWithJSON(w, http.StatusOK, events)
}

// Run serves until ctx is done.
func (r *Router) Run(ctx context.Context) error {
	go r.wsServer.Run(ctx)
	srv := &http.Server{Addr: r.addr, Handler: r.mux}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdown)
	}()
	log.Printf("http server started on %s", r.addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
