package site

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/playbookhq/playbook/internal/loader"
	"github.com/playbookhq/playbook/internal/logging"
	"github.com/playbookhq/playbook/internal/segment"
)

// Config holds dev server configuration.
type Config struct {
	Root         string // site directory served as-is
	Manifest     string // relative to Root
	SectionsFile string // relative to Root
	Port         int
	AllowAll     bool // allow all CORS origins
	LiveReload   bool
	Sectionizer  *Sectionizer // builds sections when SectionsFile is absent
}

// Server serves a playbook site for local reading.
type Server struct {
	cfg        Config
	log        *zap.Logger
	hub        *Hub
	router     chi.Router
	httpServer *http.Server
}

// NewServer creates a server for cfg.
func NewServer(cfg Config, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Root == "" {
		cfg.Root = "."
	}
	if cfg.SectionsFile == "" {
		cfg.SectionsFile = "data/sections.json"
	}
	if cfg.Sectionizer == nil {
		cfg.Sectionizer = NewSectionizer(cfg.Root, cfg.Manifest, nil, segment.Segmenter{})
	}
	s := &Server{cfg: cfg, log: log, hub: NewHub(log)}
	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(s.log))
	r.Use(middleware.Recoverer)

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/"+strings.TrimPrefix(filepath.ToSlash(s.cfg.SectionsFile), "/"), s.handleSections)

	if s.cfg.LiveReload {
		r.Handle("/livereload", s.hub)
		r.Get("/livereload.js", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
			w.Write([]byte(liveReloadScript))
		})
	}

	r.NotFound(s.handleStatic)
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Hub returns the live-reload hub.
func (s *Server) Hub() *Hub { return s.hub }

// Start listens on the configured port until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if s.cfg.LiveReload {
		for _, p := range []string{s.cfg.Manifest, s.cfg.SectionsFile} {
			full := filepath.Join(s.cfg.Root, filepath.FromSlash(p))
			if _, err := os.Stat(full); err != nil {
				continue
			}
			if err := s.hub.Watch(full); err != nil {
				s.log.Warn("livereload: cannot watch", zap.String("path", full), zap.Error(err))
			}
		}
		defer s.hub.Close()
	}

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("serving playbook", zap.String("root", s.cfg.Root), zap.Int("port", s.cfg.Port))
		errc <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

// handleSections serves the precomputed sections file, generating it from
// the export when the file is absent. Anything the reader should treat as
// "no sections" is a 404.
func (s *Server) handleSections(w http.ResponseWriter, r *http.Request) {
	full := filepath.Join(s.cfg.Root, filepath.FromSlash(s.cfg.SectionsFile))
	if _, err := os.Stat(full); err == nil {
		http.ServeFile(w, r, full)
		return
	}

	data, err := s.cfg.Sectionizer.Encode(r.Context(), time.Now())
	if err != nil {
		log := logging.FromContext(r.Context())
		var me *loader.ManifestError
		var fe *loader.FetchError
		if errors.As(err, &me) || errors.As(err, &fe) {
			log.Warn("sections unavailable", zap.Error(err))
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		log.Error("generating sections", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// handleStatic serves files below Root. Pages get the live-reload client
// injected when live reload is on.
func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	if name == "" || strings.HasSuffix(r.URL.Path, "/") {
		name = path.Join(name, "index.html")
	}
	if !s.cfg.LiveReload || path.Ext(name) != ".html" {
		http.FileServer(http.Dir(s.cfg.Root)).ServeHTTP(w, r)
		return
	}

	data, err := fs.ReadFile(os.DirFS(s.cfg.Root), name)
	if errors.Is(err, fs.ErrNotExist) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(injectLiveReload(data))
}

func injectLiveReload(page []byte) []byte {
	i := bytes.LastIndex(bytes.ToLower(page), []byte("</body>"))
	if i < 0 {
		return append(page, []byte(liveReloadTag)...)
	}
	out := make([]byte, 0, len(page)+len(liveReloadTag))
	out = append(out, page[:i]...)
	out = append(out, liveReloadTag...)
	return append(out, page[i:]...)
}

// OpenBrowser opens the given URL in the default browser.
func OpenBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	_ = cmd.Start()
}
