// Package web serves a browser monitor for a running editor session.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
)

//go:embed static/*
var staticFS embed.FS

// State is a snapshot of the editor session.
type State struct {
	Content       string `json:"content"`
	Mode          string `json:"mode"`
	Template      int    `json:"template"`
	TemplateTitle string `json:"templateTitle"`
	Title         string `json:"title"`
	Dirty         bool   `json:"dirty"`
}

// EditorState provides access to the editor session. Mutating methods must
// be safe to call from server goroutines.
type EditorState interface {
	Snapshot() State
	SetContent(text string) error
	NextTemplate() error
	ToggleMode() error
}

// Server provides the monitor HTTP + WebSocket server.
type Server struct {
	state    EditorState
	logger   *slog.Logger
	upgrader websocket.Upgrader
	handler  http.Handler
	notify   chan notification
	mu       sync.Mutex
	clients  []*wsClient
}

type notification struct {
	method string
	params any
}

type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

type rpcRequest struct {
	ID     any             `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

type rpcResponse struct {
	ID     any       `json:"id"`
	Result any       `json:"result,omitempty"`
	Error  *rpcError `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewServer creates a monitor backed by the given editor state. An empty
// allowedOrigins accepts any origin.
func NewServer(state EditorState, allowedOrigins []string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		state:  state,
		logger: logger,
		notify: make(chan notification, 64),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}

	r := mux.NewRouter()
	r.HandleFunc("/ws", s.handleWebSocket)
	r.HandleFunc("/api/state", s.handleState).Methods(http.MethodGet)
	sub, err := fs.Sub(staticFS, "static")
	if err == nil {
		r.PathPrefix("/").Handler(http.FileServer(http.FS(sub)))
	}

	if len(allowedOrigins) == 0 {
		s.handler = cors.AllowAll().Handler(r)
	} else {
		c := cors.New(cors.Options{AllowedOrigins: allowedOrigins})
		s.handler = c.Handler(r)
		s.upgrader.CheckOrigin = func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || c.OriginAllowed(r)
		}
	}
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{Addr: addr, Handler: s, ReadHeaderTimeout: 10 * time.Second}
	go s.pump(ctx)
	go func() {
		<-ctx.Done()
		server.Close()
	}()
	s.logger.Info("monitor listening", "addr", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.state.Snapshot())
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade", "err", err)
		return
	}
	client := &wsClient{conn: conn}
	s.mu.Lock()
	s.clients = append(s.clients, client)
	s.mu.Unlock()

	defer func() {
		conn.Close()
		s.mu.Lock()
		for i, c := range s.clients {
			if c == client {
				s.clients = append(s.clients[:i], s.clients[i+1:]...)
				break
			}
		}
		s.mu.Unlock()
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var req rpcRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			continue
		}
		resp := s.handleRPC(req)
		data, _ := json.Marshal(resp)
		client.mu.Lock()
		_ = conn.WriteMessage(websocket.TextMessage, data)
		client.mu.Unlock()
	}
}

func (s *Server) handleRPC(req rpcRequest) rpcResponse {
	switch req.Method {
	case "getState":
		return rpcResponse{ID: req.ID, Result: s.state.Snapshot()}
	case "setContent":
		return s.rpcSetContent(req)
	case "nextTemplate":
		return s.rpcCall(req, s.state.NextTemplate)
	case "toggleMode":
		return s.rpcCall(req, s.state.ToggleMode)
	default:
		return rpcResponse{
			ID:    req.ID,
			Error: &rpcError{Code: -32601, Message: fmt.Sprintf("unknown method: %s", req.Method)},
		}
	}
}

func (s *Server) rpcSetContent(req rpcRequest) rpcResponse {
	var p struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(req.Params, &p); err != nil {
		return rpcResponse{ID: req.ID, Error: &rpcError{Code: -32602, Message: err.Error()}}
	}
	return s.rpcCall(req, func() error { return s.state.SetContent(p.Text) })
}

func (s *Server) rpcCall(req rpcRequest, fn func() error) rpcResponse {
	if err := fn(); err != nil {
		return rpcResponse{ID: req.ID, Error: &rpcError{Code: -32000, Message: err.Error()}}
	}
	return rpcResponse{ID: req.ID, Result: map[string]string{"status": "ok"}}
}

// Broadcast sends a notification to all connected WebSocket clients.
func (s *Server) Broadcast(method string, params any) {
	msg, err := json.Marshal(map[string]any{
		"method": method,
		"params": params,
	})
	if err != nil {
		return
	}
	s.mu.Lock()
	clients := append([]*wsClient(nil), s.clients...)
	s.mu.Unlock()

	for _, c := range clients {
		c.mu.Lock()
		_ = c.conn.WriteMessage(websocket.TextMessage, msg)
		c.mu.Unlock()
	}
}

// Publish queues a notification for all clients without blocking. It is
// dropped when the queue is full. Notifications are delivered in order once
// ListenAndServe is running.
func (s *Server) Publish(method string, params any) {
	select {
	case s.notify <- notification{method: method, params: params}:
	default:
		s.logger.Debug("monitor queue full, dropping notification", "method", method)
	}
}

func (s *Server) pump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case n := <-s.notify:
			s.Broadcast(n.method, n.params)
		}
	}
}

// ClientCount returns the number of connected WebSocket clients.
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}
