package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name            string
		timeout         time.Duration
		expectedTimeout time.Duration
	}{
		{"default timeout", 0, 5 * time.Second},
		{"custom timeout", 10 * time.Second, 10 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := New(tt.timeout)
			if checker.checkTimeout != tt.expectedTimeout {
				t.Errorf("expected timeout %v, got %v", tt.expectedTimeout, checker.checkTimeout)
			}
			if len(checker.ListChecks()) != 0 {
				t.Errorf("expected no checks, got %v", checker.ListChecks())
			}
		})
	}
}

func TestRegisterCheck(t *testing.T) {
	checker := New(time.Second)
	checker.RegisterCheck("store", func(context.Context) error { return nil })
	checker.RegisterCheck("last_run", func(context.Context) error { return nil })
	checker.RegisterCheck("store", func(context.Context) error { return errors.New("replaced") })

	names := checker.ListChecks()
	if len(names) != 2 || names[0] != "last_run" || names[1] != "store" {
		t.Errorf("ListChecks() = %v, want [last_run store]", names)
	}

	status := checker.CheckReadiness(context.Background())
	if status.Checks["store"].Message != "replaced" {
		t.Errorf("store check was not replaced: %+v", status.Checks["store"])
	}
}

func TestCheckLiveness(t *testing.T) {
	status := New(0).CheckLiveness(context.Background())
	if status.Status != StatusOK {
		t.Errorf("expected status %q, got %q", StatusOK, status.Status)
	}
	if status.Timestamp.IsZero() {
		t.Error("expected a timestamp")
	}
}

func TestCheckReadiness_NoChecks(t *testing.T) {
	status := New(0).CheckReadiness(context.Background())
	if status.Status != StatusReady {
		t.Errorf("expected status %q, got %q", StatusReady, status.Status)
	}
}

func TestCheckReadiness_Unhealthy(t *testing.T) {
	checker := New(time.Second)
	checker.RegisterCheck("store", func(context.Context) error { return nil })
	checker.RegisterCheck("last_run", func(context.Context) error { return errors.New("2 export(s) failed") })

	status := checker.CheckReadiness(context.Background())
	if status.Status != StatusDegraded {
		t.Errorf("expected status %q, got %q", StatusDegraded, status.Status)
	}
	if status.Checks["store"].Status != StatusOK {
		t.Errorf("store check = %+v", status.Checks["store"])
	}
	if got := status.Checks["last_run"]; got.Status != StatusUnhealthy || got.Message != "2 export(s) failed" {
		t.Errorf("last_run check = %+v", got)
	}
}

func TestCheckReadiness_Timeout(t *testing.T) {
	checker := New(20 * time.Millisecond)
	checker.RegisterCheck("store", func(ctx context.Context) error {
		select {
		case <-time.After(time.Second):
		case <-ctx.Done():
		}
		return nil
	})

	start := time.Now()
	status := checker.CheckReadiness(context.Background())
	if time.Since(start) > 500*time.Millisecond {
		t.Error("readiness should not wait for a stuck check")
	}
	if got := status.Checks["store"]; got.Status != StatusUnhealthy || got.Message != ErrCheckTimeout.Error() {
		t.Errorf("store check = %+v, want a timeout", got)
	}
}

func TestRunTracker(t *testing.T) {
	tracker := NewRunTracker()

	if err := tracker.Check(context.Background()); err != nil {
		t.Errorf("Check() before any run = %v, want nil", err)
	}
	if last, _ := tracker.LastRun(); !last.IsZero() {
		t.Errorf("LastRun() = %v, want zero time", last)
	}

	failure := errors.New("1 export(s) failed")
	tracker.Record(failure)
	if err := tracker.Check(context.Background()); !errors.Is(err, failure) {
		t.Errorf("Check() after a failed run = %v, want %v", err, failure)
	}

	tracker.Record(nil)
	if err := tracker.Check(context.Background()); err != nil {
		t.Errorf("Check() after a successful run = %v, want nil", err)
	}
	if last, _ := tracker.LastRun(); last.IsZero() {
		t.Error("LastRun() should be set after Record")
	}
}

func TestHandlers(t *testing.T) {
	checker := New(time.Second)
	tracker := NewRunTracker()
	checker.RegisterCheck("last_run", tracker.Check)

	mux := http.NewServeMux()
	Register(mux, checker, "1.2.3", "abc123", "2026-01-01")

	tests := []struct {
		name     string
		method   string
		path     string
		failRun  bool
		wantCode int
	}{
		{"liveness", http.MethodGet, "/healthz", false, http.StatusOK},
		{"liveness head", http.MethodHead, "/healthz", false, http.StatusOK},
		{"liveness post", http.MethodPost, "/healthz", false, http.StatusMethodNotAllowed},
		{"ready", http.MethodGet, "/readyz", false, http.StatusOK},
		{"not ready after failed run", http.MethodGet, "/readyz", true, http.StatusServiceUnavailable},
		{"version", http.MethodGet, "/version", false, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.failRun {
				tracker.Record(errors.New("boom"))
			} else {
				tracker.Record(nil)
			}

			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != tt.wantCode {
				t.Errorf("status code = %d, want %d", rec.Code, tt.wantCode)
			}
			if tt.method == http.MethodHead && rec.Body.Len() != 0 {
				t.Error("HEAD response should have no body")
			}
		})
	}
}

func TestVersionHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	VersionHandler("1.2.3", "abc123", "2026-01-01")(rec, httptest.NewRequest(http.MethodGet, "/version", nil))

	var info VersionInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if info.Version != "1.2.3" || info.Commit != "abc123" || info.GoVersion == "" {
		t.Errorf("unexpected version info %+v", info)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
}
