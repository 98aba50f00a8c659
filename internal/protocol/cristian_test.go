package protocol

import (
	"errors"
	"math"
	"testing"

	"clocksync-sim/internal/clocknode"
)

func TestCristianClientsConvergeToServer(t *testing.T) {
	server := &clocknode.Node{ID: 0, Drift: 1.0, Offset: 3}
	clients := []*clocknode.Node{
		{ID: 1, Drift: 0.99},
		{ID: 2, Drift: 1.01, Offset: -5},
		{ID: 3, Drift: 1.0, Offset: 40},
	}
	if err := RunCristian(server, clients, 1000); err != nil {
		t.Fatalf("RunCristian: %v", err)
	}
	want := server.ReportedTime(1000)
	for _, c := range clients {
		if got := c.ReportedTime(1000); math.Abs(got-want) > tol {
			t.Errorf("client %d = %v, want %v regardless of drift", c.ID, got, want)
		}
	}
}

func TestCristianByzantineServerCompoundsBias(t *testing.T) {
	// The server's reading already includes +30; the read path adds another
	// +30, so clients land a full 60 above true time. Inter-client skew looks
	// perfectly synchronized while every clock is wrong.
	server := &clocknode.Node{ID: 0, Drift: 1.0, Byzantine: true}
	clients := []*clocknode.Node{
		{ID: 1, Drift: 1.0, Offset: 2},
		{ID: 2, Drift: 1.0, Offset: -2},
	}
	if err := RunCristian(server, clients, 1000); err != nil {
		t.Fatalf("RunCristian: %v", err)
	}
	readings := clocknode.Readings(clients, 1000)
	if skew := clocknode.Skew(readings); skew > tol {
		t.Errorf("inter-client skew = %v, want 0", skew)
	}
	for _, r := range readings {
		if math.Abs(r-1060) > tol {
			t.Errorf("client reading = %v, want 1060 (true time + doubled bias)", r)
		}
	}
}

func TestCristianServerUntouched(t *testing.T) {
	server := &clocknode.Node{ID: 0, Drift: 1.0, Offset: 1}
	clients := []*clocknode.Node{{ID: 1, Drift: 1.0}}
	if err := RunCristian(server, clients, 1000); err != nil {
		t.Fatalf("RunCristian: %v", err)
	}
	if server.Offset != 1 {
		t.Errorf("server offset mutated: %v", server.Offset)
	}
}

func TestCristianNoClients(t *testing.T) {
	server := &clocknode.Node{ID: 0, Drift: 1.0}
	if err := RunCristian(server, nil, 1000); err != nil {
		t.Fatalf("no clients should be a no-op, got %v", err)
	}
}

func TestCristianNilServerFails(t *testing.T) {
	err := RunCristian(nil, []*clocknode.Node{{ID: 1, Drift: 1.0}}, 1000)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
