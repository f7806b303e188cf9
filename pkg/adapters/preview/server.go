// Package preview publishes produced videos over a local HTTP server so they
// can be played in a browser or downloaded.
package preview

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/user/slideshow/pkg/ports"
)

const artifactsPath = "/artifacts/"

type artifact struct {
	filename string
	mimeType string
	data     []byte
	created  time.Time
}

// Server is an in-memory artifact registry served over HTTP.
// It implements ports.Publisher.
type Server struct {
	baseURL string
	logger  ports.Logger
	router  *mux.Router

	mu        sync.RWMutex
	artifacts map[string]artifact
	latest    string
}

// New creates a Server whose URLs start with baseURL (e.g. "http://127.0.0.1:8080").
// When gatherer is non-nil its metrics are exposed on /metrics.
func New(baseURL string, gatherer prometheus.Gatherer, logger ports.Logger) *Server {
	s := &Server{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		logger:    logger.WithComponent("preview"),
		artifacts: make(map[string]artifact),
	}

	r := mux.NewRouter()
	r.HandleFunc("/", s.handleIndex).Methods("GET")
	r.HandleFunc(artifactsPath+"{id}", s.handleArtifact).Methods("GET", "HEAD")
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods("GET")
	}
	s.router = r
	return s
}

// Publish registers data and returns its URL.
func (s *Server) Publish(filename, mimeType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("preview: empty artifact")
	}
	id := uuid.NewString()

	s.mu.Lock()
	s.artifacts[id] = artifact{filename: filename, mimeType: mimeType, data: data, created: time.Now()}
	s.latest = id
	s.mu.Unlock()

	url := s.baseURL + artifactsPath + id
	s.logger.Debug("Published %s as %s", filename, url)
	return url, nil
}

// Revoke removes the artifact behind url. Unknown URLs are ignored.
func (s *Server) Revoke(url string) {
	id, ok := strings.CutPrefix(url, s.baseURL+artifactsPath)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.artifacts[id]; !exists {
		return
	}
	delete(s.artifacts, id)
	if s.latest == id {
		s.latest = ""
	}
	s.logger.Debug("Revoked %s", url)
}

// Len returns the number of published artifacts.
func (s *Server) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.artifacts)
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.logger.Info("Preview available at %s", s.baseURL)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown preview server: %w", err)
	}
	return nil
}

func (s *Server) handleArtifact(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.RLock()
	a, ok := s.artifacts[id]
	s.mu.RUnlock()
	if !ok {
		http.Error(w, "artifact not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", a.mimeType)
	if r.URL.Query().Get("download") != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", a.filename))
	}
	http.ServeContent(w, r, a.filename, a.created, bytes.NewReader(a.data))
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Filename}}</title></head>
<body style="background:#111;color:#eee;font-family:sans-serif;text-align:center">
{{if .URL}}
<video src="{{.URL}}" controls autoplay style="max-width:100%"></video>
<p><a href="{{.URL}}?download=1" style="color:#4ade80">{{.Filename}}</a></p>
{{else}}
<p>No video yet.</p>
{{end}}
</body>
</html>
`))

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	id := s.latest
	a := s.artifacts[id]
	s.mu.RUnlock()

	data := struct{ URL, Filename string }{}
	if id != "" {
		data.URL = artifactsPath + id
		data.Filename = a.filename
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		s.logger.Warn("Failed to render preview page: %s", err)
	}
}

var _ ports.Publisher = (*Server)(nil)
