package site

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"CrazyCarl/internal/display"
	"CrazyCarl/internal/model"
	"CrazyCarl/internal/recorder"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
	writeWait           = 5 * time.Second
)

type pageData struct {
	Meta  Meta
	View  display.View
	Links []model.SocialLink
	Year  int
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	data := pageData{
		Meta:  s.opts.Meta,
		View:  s.view(),
		Links: s.opts.Links,
		Year:  time.Now().Year(),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, data); err != nil {
		s.opts.Logger.Error("render page", zap.Error(err))
	}
}

func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.view())
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	ticks, err := s.opts.Recorder.RecentTicks(limit)
	if err != nil {
		s.opts.Logger.Error("load history", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "history unavailable"})
		return
	}
	if ticks == nil {
		ticks = []recorder.TickRecord{}
	}
	writeJSON(w, http.StatusOK, ticks)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"tick":   s.opts.Sim.Snapshot().Tick,
	})
}

// handleWebSocket sends the current view, then one view per simulator tick
// until the client goes away or the server shuts down.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	updates, cancel := s.opts.Sim.Subscribe()
	defer cancel()

	// Reader loop: we only care about the close.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := s.push(conn, s.view()); err != nil {
		return
	}
	for {
		select {
		case <-s.done:
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
				time.Now().Add(writeWait))
			return
		case <-gone:
			return
		case snap, ok := <-updates:
			if !ok {
				return
			}
			v := display.Build(snap, len(s.opts.Sim.Milestones()), s.opts.Supply, s.opts.Meta.Ticker, s.opts.Meter.Level())
			if err := s.push(conn, v); err != nil {
				s.opts.Logger.Debug("websocket write", zap.Error(err))
				return
			}
		}
	}
}

func (s *Server) push(conn *websocket.Conn, v display.View) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
