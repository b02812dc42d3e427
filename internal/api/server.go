// Package api serves a rendered archive over HTTP, optionally re-rendering
// it when the input files change.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/commlog/internal/corpus"
	"github.com/MikeSquared-Agency/commlog/internal/record"
	"github.com/MikeSquared-Agency/commlog/internal/render"
)

// Options configures the archive server.
type Options struct {
	Inputs  []string
	Style   string // stylesheet path, empty for the embedded default
	Collate bool
	Addr    string
	Watch   bool
}

type Server struct {
	opts   Options
	router *chi.Mux
	logger *slog.Logger

	mu         sync.RWMutex
	page       []byte
	generation string
	renderedAt time.Time
	messages   int
	groups     int
}

// NewServer builds the router and performs the initial render. A parse
// failure here aborts the run, same as the one-shot path.
func NewServer(opts Options, logger *slog.Logger) (*Server, error) {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		opts:   opts,
		router: router,
		logger: logger,
	}

	router.Get("/", s.archive)
	router.Get("/health", s.health)
	router.Get("/api/v1/commlog/status", s.status)

	if err := s.rebuild(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) Start() error {
	if s.opts.Watch {
		if err := s.startWatcher(); err != nil {
			return err
		}
	}
	s.logger.Info("archive server starting", "addr", s.opts.Addr)
	return http.ListenAndServe(s.opts.Addr, s.router)
}

// rebuild reparses every input with a fresh registry, so ids stay
// deterministic for a given file order across re-renders.
func (s *Server) rebuild() error {
	users := record.NewUsers()
	msgs, err := corpus.ProcessFiles(s.opts.Inputs, users)
	if err != nil {
		return err
	}
	view := corpus.BuildView(msgs, s.opts.Inputs, s.opts.Collate)

	css, err := render.LoadStyle(s.opts.Style)
	if err != nil {
		return err
	}
	page, err := render.HTML(view, css)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.page = page
	s.generation = uuid.NewString()
	s.renderedAt = time.Now().UTC()
	s.messages = len(msgs)
	s.groups = len(view.Groups)
	s.mu.Unlock()

	s.logger.Info("archive rendered", "messages", len(msgs), "groups", len(view.Groups))
	return nil
}

// startWatcher watches the parent directories of the inputs and stylesheet
// (editors replace files by rename, which drops file-level watches) and
// re-renders on any change to a watched file. A failing re-render keeps the
// previous page serving.
func (s *Server) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	watched := make(map[string]bool, len(s.opts.Inputs)+1)
	dirs := make(map[string]bool)
	for _, p := range s.opts.Inputs {
		watched[filepath.Clean(p)] = true
		dirs[filepath.Dir(p)] = true
	}
	if s.opts.Style != "" {
		watched[filepath.Clean(s.opts.Style)] = true
		dirs[filepath.Dir(s.opts.Style)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return err
		}
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !watched[filepath.Clean(ev.Name)] {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				s.logger.Info("input changed, re-rendering", "path", ev.Name)
				if err := s.rebuild(); err != nil {
					s.logger.Error("re-render failed, keeping previous page", "error", err)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Warn("watch error", "error", err)
			}
		}
	}()

	s.logger.Info("watching for changes", "files", len(watched))
	return nil
}

func (s *Server) archive(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	page := s.page
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(page)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	resp := map[string]any{
		"generation":  s.generation,
		"messages":    s.messages,
		"groups":      s.groups,
		"rendered_at": s.renderedAt.Format(time.RFC3339),
	}
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}
