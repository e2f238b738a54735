// Package site serves the landing page and pushes simulator snapshots to browsers.
package site

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"CrazyCarl/internal/display"
	"CrazyCarl/internal/model"
	"CrazyCarl/internal/recorder"
	"CrazyCarl/internal/simulator"
)

//go:embed templates/*.html static/*
var assets embed.FS

// Meta is the static page metadata.
type Meta struct {
	Title       string
	Description string
	Ticker      string
}

// Options configures a Server.
type Options struct {
	Meta     Meta
	Links    []model.SocialLink
	Supply   float64
	Sim      *simulator.Simulator
	Meter    *simulator.Meter
	Recorder recorder.Recorder
	Logger   *zap.Logger
}

// Server is the HTTP front of the site.
type Server struct {
	opts     Options
	page     *template.Template
	router   *mux.Router
	upgrader websocket.Upgrader

	httpServer *http.Server
	listener   net.Listener
	done       chan struct{}
}

// New builds the router and parses the page template.
func New(opts Options) (*Server, error) {
	page, err := template.New("index.html").Funcs(template.FuncMap{
		"upClass": func(up bool) string {
			if up {
				return "up"
			}
			return "down"
		},
		"arrow": func(up bool) string {
			if up {
				return "↑"
			}
			return "↓"
		},
	}).ParseFS(assets, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}

	static, err := fs.Sub(assets, "static")
	if err != nil {
		return nil, fmt.Errorf("static assets: %w", err)
	}

	s := &Server{
		opts: opts,
		page: page,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(_ *http.Request) bool { return true },
		},
		done: make(chan struct{}),
	}

	router := mux.NewRouter()
	router.HandleFunc("/", s.handleIndex).Methods("GET")
	router.HandleFunc("/api/snapshot", s.handleSnapshot).Methods("GET")
	router.HandleFunc("/api/history", s.handleHistory).Methods("GET")
	router.HandleFunc("/healthz", s.handleHealth).Methods("GET")
	router.HandleFunc("/ws", s.handleWebSocket)
	router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	s.router = router

	return s, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Start listens on address and serves in the background.
// An empty address or ":0" picks a free port.
func (s *Server) Start(address string) error {
	if address == "" {
		address = ":0"
	}
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("listen %s: %w", address, err)
	}
	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.opts.Logger.Error("http server", zap.Error(err))
		}
	}()
	s.opts.Logger.Info("site listening", zap.String("addr", listener.Addr().String()))
	return nil
}

// Address returns the address the server is listening on.
func (s *Server) Address() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown closes websocket streams and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// view renders the latest snapshot with the current meter level.
func (s *Server) view() display.View {
	snap := s.opts.Sim.Snapshot()
	return display.Build(snap, len(s.opts.Sim.Milestones()), s.opts.Supply, s.opts.Meta.Ticker, s.opts.Meter.Level())
}
