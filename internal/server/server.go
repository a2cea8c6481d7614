// Package server exposes the engine's actions over a local WebSocket so an
// external UI can drive it. The UI sends named actions with explicit
// arguments; translating clicks or modifier keys into actions is the UI's
// job, never the engine's.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/danbi/ebbing/internal/applog"
	"github.com/danbi/ebbing/internal/extract"
	"github.com/danbi/ebbing/internal/syncer"
	"nhooyr.io/websocket"
)

// ActionMsg is a request from the UI.
type ActionMsg struct {
	ID     string `json:"id,omitempty"`
	Action string `json:"action"`

	BookID  string `json:"bookId,omitempty"`
	Name    string `json:"name,omitempty"`
	Subject int    `json:"subject"` // index into the active book
	Num     int    `json:"num,omitempty"`
	Start   int    `json:"start,omitempty"`
	End     int    `json:"end,omitempty"`
	DaysAgo int    `json:"daysAgo,omitempty"`
	Max     int    `json:"max,omitempty"`
	Color   string `json:"color,omitempty"`
	Topic   string `json:"topic,omitempty"`
	Index   int    `json:"index,omitempty"`
	Token   string `json:"token,omitempty"`
}

// ReplyMsg is the structured response. OK=false carries the rejection
// reason; the engine never closes the connection over a bad action.
type ReplyMsg struct {
	ID    string          `json:"id,omitempty"`
	OK    bool            `json:"ok"`
	Error string          `json:"error,omitempty"`
	State json.RawMessage `json:"state,omitempty"`
	Picks []extract.Pick  `json:"picks,omitempty"`
	Token string          `json:"token,omitempty"`
}

// Server owns one UI connection at a time; a reconnect replaces it.
type Server struct {
	port   int
	sync   *syncer.Syncer
	engine *extract.Engine

	mu   sync.Mutex
	conn *websocket.Conn
}

// New creates a Server bound to a syncer and extraction engine.
func New(port int, sy *syncer.Syncer, engine *extract.Engine) *Server {
	return &Server{port: port, sync: sy, engine: engine}
}

// Handler returns an http.Handler that accepts WebSocket upgrades.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			applog.Error("ws.accept", err)
			return
		}

		conn.SetReadLimit(4 << 20) // import tokens for large states

		ctx := r.Context()
		s.mu.Lock()
		if s.conn != nil {
			applog.Info("ws.replaced")
			s.conn.CloseNow()
		}
		s.conn = conn
		s.mu.Unlock()

		applog.Info("ws.connected", "remote", r.RemoteAddr)

		defer func() {
			s.mu.Lock()
			if s.conn == conn {
				s.conn = nil
			}
			s.mu.Unlock()
			conn.CloseNow()
			applog.Info("ws.disconnected")
		}()

		for {
			_, data, err := conn.Read(ctx)
			if err != nil {
				return
			}
			var msg ActionMsg
			if err := json.Unmarshal(data, &msg); err != nil {
				applog.Error("ws.parse", err)
				continue
			}
			applog.Info("ws.action", "action", msg.Action, "id", msg.ID)

			reply := s.Dispatch(msg)
			out, err := json.Marshal(reply)
			if err != nil {
				applog.Error("ws.encode", err, "action", msg.Action)
				continue
			}
			if err := conn.Write(ctx, websocket.MessageText, out); err != nil {
				applog.Error("ws.send", err, "action", msg.Action)
				return
			}
		}
	})
}

// ListenAndServe starts the WebSocket server on the configured port.
func (s *Server) ListenAndServe(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/", s.Handler())

	addr := fmt.Sprintf("127.0.0.1:%d", s.port)
	applog.Info("server.start", "addr", addr)
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	return srv.ListenAndServe()
}
