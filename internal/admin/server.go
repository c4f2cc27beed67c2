package admin

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"skysurvey-sim/internal/astro"
	"skysurvey-sim/internal/metrics"
	"skysurvey-sim/internal/observatory"
	"skysurvey-sim/internal/program"
	"skysurvey-sim/internal/survey"
)

// Server exposes the running survey over HTTP: a status page, JSON
// endpoints for dashboards, and the Prometheus scrape target.
type Server struct {
	Runner *survey.Runner
	prog   *program.Program
	opts   observatory.Options
	tpl    *template.Template
}

//go:embed templates/index.html
var content embed.FS

func NewServer(runner *survey.Runner, prog *program.Program, opts observatory.Options) *Server {
	tpl := template.Must(template.New("index.html").ParseFS(content, "templates/index.html"))
	return &Server{Runner: runner, prog: prog, opts: opts, tpl: tpl}
}

func (s *Server) routes() {
	http.HandleFunc("/", s.handleIndex)
	http.Handle("/status", metrics.Middleware(http.HandlerFunc(s.handleStatus)))
	http.Handle("/progress", metrics.Middleware(http.HandlerFunc(s.handleProgress)))
	http.Handle("/events", metrics.Middleware(http.HandlerFunc(s.handleEvents)))
	http.Handle("/config", metrics.Middleware(http.HandlerFunc(s.handleConfig)))
	http.HandleFunc("/healthz", s.handleHealthz)
	http.Handle("/metrics", metrics.Handler())
}

func (s *Server) Start(addr string) error {
	s.routes()
	return http.ListenAndServe(addr, nil)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := struct {
		RunID   string
		Program string
		Blocks  []program.Block
		Site    string
		Filters string
	}{
		RunID:   s.Runner.RunID(),
		Program: s.prog.Name,
		Blocks:  s.prog.Blocks,
		Site:    fmt.Sprintf("lat %.3f lon %.3f", astro.Degrees(s.opts.Site.Latitude), astro.Degrees(s.opts.Site.Longitude)),
		Filters: strings.Join(s.opts.Filters, ""),
	}
	s.tpl.Execute(w, data)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.Runner.StatusRow())
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.Runner.Progress())
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.Runner.Events())
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"run_id":  s.Runner.RunID(),
		"program": s.prog,
		"options": s.opts,
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "ok")
}
