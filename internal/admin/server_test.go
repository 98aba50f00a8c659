package admin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"clocksync-sim/internal/config"
	"clocksync-sim/internal/sim"
)

func testServer() *Server {
	cfg := &config.SimulationConfig{
		Scenarios: []config.Scenario{{
			Name:        "baseline",
			Algorithm:   "berkeley",
			FaultType:   "none",
			InitMode:    config.InitManual,
			NodeCount:   5,
			BaseTime:    1000,
			ManualTimes: []float64{1000, 1002, 998, 1005, 999},
		}},
	}
	runner := sim.NewRunner(nil, nil, 1)
	return NewServer(runner, cfg)
}

func TestHandleRun(t *testing.T) {
	server := testServer()

	req := httptest.NewRequest(http.MethodPost, "/run?scenario=baseline", nil)
	w := httptest.NewRecorder()
	server.handleRun(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status OK, got %v", resp.StatusCode)
	}
	var body struct {
		Run   sim.RunRow    `json:"run"`
		Nodes []sim.NodeRow `json:"nodes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !body.Run.Synchronized {
		t.Errorf("expected synchronized run, got %+v", body.Run)
	}
	if len(body.Nodes) != 5 {
		t.Errorf("expected 5 node rows, got %d", len(body.Nodes))
	}
}

func TestHandleRun_UnknownScenario(t *testing.T) {
	server := testServer()
	req := httptest.NewRequest(http.MethodPost, "/run?scenario=missing", nil)
	w := httptest.NewRecorder()
	server.handleRun(w, req)
	if w.Result().StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %v", w.Result().StatusCode)
	}
}

func TestHandleResults(t *testing.T) {
	server := testServer()

	// No runs yet.
	w := httptest.NewRecorder()
	server.handleResults(w, httptest.NewRequest(http.MethodGet, "/results", nil))
	if w.Result().StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 before any run, got %v", w.Result().StatusCode)
	}

	// Trigger a run, then fetch it.
	server.handleRun(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/run?scenario=baseline", nil))
	w = httptest.NewRecorder()
	server.handleResults(w, httptest.NewRequest(http.MethodGet, "/results", nil))
	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("expected 200 after a run, got %v", w.Result().StatusCode)
	}
}

func TestHandleIndex(t *testing.T) {
	server := testServer()
	w := httptest.NewRecorder()
	server.handleIndex(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %v", w.Result().StatusCode)
	}
	if body := w.Body.String(); body == "" || !containsAll(body, "baseline", "No runs yet") {
		t.Errorf("index missing scenario list or empty state: %q", body)
	}
}

func TestHandleScenarios(t *testing.T) {
	server := testServer()
	w := httptest.NewRecorder()
	server.handleScenarios(w, httptest.NewRequest(http.MethodGet, "/scenarios", nil))
	var scns []config.Scenario
	if err := json.NewDecoder(w.Result().Body).Decode(&scns); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(scns) != 1 || scns[0].Name != "baseline" {
		t.Errorf("unexpected scenarios: %+v", scns)
	}
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}
