package rpal

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// TraceServer fans out trace events to any number of connected WebSocket
// clients (§4.7) — grounded on the teacher's HTTP-upgrade pattern in
// scm/network.go, here serving interpreter step traces instead of query
// results. It is explicitly not a REPL: the only traffic is the server
// pushing trace events out; the machine's Control/Stack/Environment are
// never driven by anything a client sends.
type TraceServer struct {
	upgrader websocket.Upgrader
	mu       sync.Mutex
	clients  map[*websocket.Conn]bool
}

func NewTraceServer() *TraceServer {
	return &TraceServer{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]bool),
	}
}

func (s *TraceServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("trace stream upgrade failed:", err)
		return
	}
	s.mu.Lock()
	s.clients[conn] = true
	s.mu.Unlock()

	go func() {
		defer s.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *TraceServer) drop(conn *websocket.Conn) {
	s.mu.Lock()
	delete(s.clients, conn)
	s.mu.Unlock()
	conn.Close()
}

// Broadcast pushes one JSON-encoded trace line to every connected viewer,
// dropping (and closing) any connection that can't keep up.
func (s *TraceServer) Broadcast(payload []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			delete(s.clients, conn)
			conn.Close()
		}
	}
}

// Serve starts the HTTP server on addr; it blocks until the server errors.
// It exposes no handle for shutting the server down.
func (s *TraceServer) Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/trace", s)
	return http.ListenAndServe(addr, mux)
}
