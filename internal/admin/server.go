// Admin panel for triggering runs and inspecting results
package admin

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"

	"clocksync-sim/internal/config"
	"clocksync-sim/internal/protocol"
	"clocksync-sim/internal/sim"
)

type Server struct {
	Runner *sim.Runner
	cfg    *config.SimulationConfig
	tpl    *template.Template
}

//go:embed templates/index.html
var content embed.FS

func NewServer(runner *sim.Runner, cfg *config.SimulationConfig) *Server {
	tpl := template.Must(template.New("index.html").ParseFS(content, "templates/index.html"))
	return &Server{Runner: runner, cfg: cfg, tpl: tpl}
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/run", s.handleRun)
	mux.HandleFunc("/results", s.handleResults)
	mux.HandleFunc("/scenarios", s.handleScenarios)
	mux.HandleFunc("/healthz", s.handleHealthz)
}

// Start serves the panel until ctx is done.
func (s *Server) Start(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	s.routes(mux)
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()
	return srv.ListenAndServe()
}

// runResponse is the JSON envelope for a completed run.
type runResponse struct {
	Run   sim.RunRow    `json:"run"`
	Nodes []sim.NodeRow `json:"nodes"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Scenarios []config.Scenario
		Last      *sim.Result
	}{
		Scenarios: s.cfg.Scenarios,
		Last:      s.Runner.LastResult(),
	}
	s.tpl.Execute(w, data)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("scenario")
	var scn *config.Scenario
	for i := range s.cfg.Scenarios {
		if s.cfg.Scenarios[i].Name == name {
			scn = &s.cfg.Scenarios[i]
			break
		}
	}
	if scn == nil {
		http.Error(w, "unknown scenario", http.StatusNotFound)
		return
	}
	res, err := s.Runner.Run(r.Context(), *scn)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, protocol.ErrInvalidInput) || errors.Is(err, protocol.ErrConfiguration) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(runResponse{Run: res.RunRow(), Nodes: res.NodeRows()})
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	res := s.Runner.LastResult()
	if res == nil {
		http.Error(w, "no runs yet", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(runResponse{Run: res.RunRow(), Nodes: res.NodeRows()})
}

func (s *Server) handleScenarios(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.cfg.Scenarios)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
