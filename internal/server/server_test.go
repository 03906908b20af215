package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danmuck/arplace/internal/placement"
	"github.com/danmuck/arplace/internal/spatial"
	"github.com/danmuck/arplace/internal/testutil/testlog"
)

type fixedStatus struct {
	st placement.Status
}

func (f fixedStatus) Status() placement.Status { return f.st }

func get(t *testing.T, a *Admin, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	a.Router().ServeHTTP(rr, req)
	return rr
}

func TestStatusRouteReturnsSnapshot(t *testing.T) {
	testlog.Start(t)
	a := New("arplace-test", fixedStatus{st: placement.Status{
		State:          placement.StateActive,
		SessionID:      "s-1",
		ReferenceSpace: spatial.SpaceLocalFloor,
		HitTestReady:   true,
		Placed:         true,
		Frames:         42,
	}}, nil)

	rr := get(t, a, "/status")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["state"] != "active" || body["reference_space"] != "local-floor" || body["placed"] != true {
		t.Fatalf("unexpected response body: %#v", body)
	}
	if body["frames"] != float64(42) {
		t.Fatalf("unexpected frame count: %#v", body["frames"])
	}
}

func TestReadyReflectsTracking(t *testing.T) {
	testlog.Start(t)
	idle := New("arplace-test", fixedStatus{st: placement.Status{State: placement.StateIdle}}, nil)
	if rr := get(t, idle, "/ready"); rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 while idle, got %d", rr.Code)
	}

	tracking := New("arplace-test", fixedStatus{st: placement.Status{State: placement.StateActive, HitTestReady: true}}, nil)
	if rr := get(t, tracking, "/ready"); rr.Code != http.StatusOK {
		t.Fatalf("expected 200 while tracking, got %d", rr.Code)
	}
}

func TestHealthAndMetricsRoutes(t *testing.T) {
	testlog.Start(t)
	a := New("arplace-test", fixedStatus{}, []string{" http://localhost:3000 ", ""})

	if rr := get(t, a, "/health"); rr.Code != http.StatusOK {
		t.Fatalf("expected health 200, got %d", rr.Code)
	}
	rr := get(t, a, "/metrics")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected metrics 200, got %d", rr.Code)
	}
	if len(rr.Body.Bytes()) == 0 {
		t.Fatalf("expected metrics body")
	}
	if rr := get(t, a, "/missing"); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	testlog.Start(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("listener unavailable: %v", err)
	}
	a := New("arplace-test", fixedStatus{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	if err != nil {
		cancel()
		t.Fatalf("get health: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("serve did not stop")
	}
}
