package web

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"tripgen/internal/config"
	"tripgen/internal/itinerary"
	appLog "tripgen/internal/log"
	"tripgen/internal/trip"
)

// maxUploadBytes bounds the multipart form size for one request.
const maxUploadBytes = 32 << 20

// Server provides the upload UI: a form that accepts a trip export
// plus an optional template, generates the itinerary and returns the
// artifact as a download.
type Server struct {
	cfg *config.Config
	mux *http.ServeMux
}

// NewServer constructs a new Server.
func NewServer(cfg *config.Config) *Server {
	s := &Server{
		cfg: cfg,
		mux: http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	// Empty username or password counts as disabled.
	return s.cfg.BasicAuth.Username != "" && s.cfg.BasicAuth.Password != ""
}

// basicAuthMiddleware wraps all handlers except /health.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="tripgen", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// StartServer runs the upload UI on cfg.Listen together with the
// artifact cleanup schedule, until ctx is canceled.
func StartServer(ctx context.Context, cfg *config.Config) error {
	s := NewServer(cfg)

	if err := os.MkdirAll(cfg.ArtifactDir, 0o700); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}

	c := cron.New()
	if _, err := c.AddFunc(cfg.CleanupCron, s.cleanupArtifacts); err != nil {
		return fmt.Errorf("invalid cleanup schedule %q: %w", cfg.CleanupCron, err)
	}
	c.Start()
	defer c.Stop()

	srv := &http.Server{
		Addr:    cfg.Listen,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	appLog.Info("starting HTTP server", "listen", "http://"+cfg.Listen)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/timezones", s.handleTimezones)
	s.mux.HandleFunc("/", s.handleIndex)
}

// handleTimezones exposes the common-timezone list for UI clients.
func (s *Server) handleTimezones(w http.ResponseWriter, _ *http.Request) {
	type tzResponse struct {
		Timezones []string `json:"timezones"`
		Default   string   `json:"default,omitempty"`
	}
	writeJSON(w, http.StatusOK, tzResponse{
		Timezones: trip.CommonTimezones(),
		Default:   s.cfg.Timezone,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// formTemplate is the upload form. Kept inline: it is the only UI page.
var formTemplate = template.Must(template.New("form").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>tripgen</title></head>
<body>
  <h1>Itinerary Generator</h1>
  <form method="post" enctype="multipart/form-data">
    <p><label>Trip export (trip.json): <input type="file" name="trip_json" required></label></p>
    <p><label>Template (optional): <input type="file" name="template_html"></label></p>
    <p><label>Display timezone:
      <select name="timezone">
        <option value="auto">Auto-detect from trip</option>
        {{range .Timezones}}<option value="{{.}}">{{.}}</option>
        {{end}}
      </select></label></p>
    <p><label><input type="checkbox" name="generate_pdf"> Also convert to PDF</label></p>
    <p><button type="submit">Generate</button></p>
  </form>
</body>
</html>
`))

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.renderForm(w)
	case http.MethodPost:
		s.handleGenerate(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) renderForm(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := struct{ Timezones []string }{Timezones: trip.CommonTimezones()}
	if err := formTemplate.Execute(w, data); err != nil {
		appLog.Error("form render failed", err)
	}
}

// handleGenerate accepts the multipart upload, runs one generation and
// returns the produced artifact as a download.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	tripFile, _, err := r.FormFile("trip_json")
	if err != nil {
		http.Error(w, "Missing trip.json file", http.StatusBadRequest)
		return
	}
	defer tripFile.Close()

	generatePDF := r.FormValue("generate_pdf") == "on"
	userTZ := r.FormValue("timezone")
	if userTZ == "auto" {
		// Let resolution fall through to the trip's own destination.
		userTZ = ""
	}

	runID := uuid.NewString()
	inputPath := filepath.Join(s.cfg.ArtifactDir, runID+"-trip.json")
	if err := saveUpload(tripFile, inputPath); err != nil {
		appLog.Error("upload save failed", err, "path", inputPath)
		http.Error(w, "failed to store upload", http.StatusInternalServerError)
		return
	}

	templatePath := s.cfg.TemplatePath
	if f, _, err := r.FormFile("template_html"); err == nil {
		defer f.Close()
		templatePath = filepath.Join(s.cfg.ArtifactDir, runID+"-template.html")
		if err := saveUpload(f, templatePath); err != nil {
			appLog.Error("template save failed", err, "path", templatePath)
			http.Error(w, "failed to store template", http.StatusInternalServerError)
			return
		}
	}

	opts := itinerary.Options{
		InputPath:    inputPath,
		TemplatePath: templatePath,
		OutputHTML:   filepath.Join(s.cfg.ArtifactDir, runID+".html"),
		GotenbergURL: s.cfg.GotenbergURL,
		UserTimezone: userTZ,
		EnvTimezone:  s.cfg.Timezone,
	}
	if generatePDF {
		opts.OutputPDF = filepath.Join(s.cfg.ArtifactDir, runID+".pdf")
	}

	res, err := itinerary.Generate(r.Context(), opts)
	if err != nil {
		appLog.Error("itinerary generation failed", err, "run_id", runID)
		http.Error(w, "An internal error occurred while generating the itinerary.", http.StatusInternalServerError)
		return
	}

	// Prefer the PDF when requested and produced; a failed conversion
	// still yields the HTML artifact.
	servePath, name := res.HTMLPath, "itinerary.html"
	if generatePDF && res.PDFPath != "" {
		servePath, name = res.PDFPath, "itinerary.pdf"
	}
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	http.ServeFile(w, r, servePath)
}

func saveUpload(src multipart.File, dst string) error {
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, src)
	return err
}

// cleanupArtifacts removes artifact files older than the configured
// TTL. Runs on the cleanup cron schedule.
func (s *Server) cleanupArtifacts() {
	ttl := time.Duration(s.cfg.ArtifactTTLMinutes) * time.Minute
	cutoff := time.Now().Add(-ttl)

	entries, err := os.ReadDir(s.cfg.ArtifactDir)
	if err != nil {
		appLog.Error("artifact cleanup: read dir failed", err, "dir", s.cfg.ArtifactDir)
		return
	}

	removed := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(s.cfg.ArtifactDir, e.Name())); err == nil {
				removed++
			}
		}
	}
	if removed > 0 {
		appLog.Info("artifact cleanup completed", "removed", removed, "dir", s.cfg.ArtifactDir)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}
