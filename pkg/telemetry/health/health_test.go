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

func TestChecker_CheckReadiness(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]CheckFunc
		wantStatus string
	}{
		{
			name:       "no checks",
			checks:     nil,
			wantStatus: StatusReady,
		},
		{
			name: "all pass",
			checks: map[string]CheckFunc{
				"a": func(ctx context.Context) error { return nil },
				"b": func(ctx context.Context) error { return nil },
			},
			wantStatus: StatusReady,
		},
		{
			name: "one fails",
			checks: map[string]CheckFunc{
				"a": func(ctx context.Context) error { return nil },
				"b": func(ctx context.Context) error { return errors.New("store closed") },
			},
			wantStatus: StatusNotReady,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := New(time.Second)
			for name, check := range tt.checks {
				checker.RegisterCheck(name, check)
			}

			status := checker.CheckReadiness(context.Background())
			if status.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", status.Status, tt.wantStatus)
			}
			if len(status.Checks) != len(tt.checks) {
				t.Errorf("len(Checks) = %d, want %d", len(status.Checks), len(tt.checks))
			}
		})
	}
}

func TestChecker_Timeout(t *testing.T) {
	checker := New(20 * time.Millisecond)
	checker.RegisterCheck("slow", func(ctx context.Context) error {
		<-ctx.Done()
		time.Sleep(50 * time.Millisecond)
		return nil
	})

	status := checker.CheckReadiness(context.Background())
	result := status.Checks["slow"]
	if result.Status != StatusUnhealthy || result.Message != ErrCheckTimeout.Error() {
		t.Errorf("slow = %+v, want timeout", result)
	}
}

func TestChecker_Checks(t *testing.T) {
	checker := New(0)
	checker.RegisterCheck("store", func(ctx context.Context) error { return nil })
	checker.RegisterCheck("last_import", func(ctx context.Context) error { return nil })

	got := checker.Checks()
	if len(got) != 2 || got[0] != "last_import" || got[1] != "store" {
		t.Errorf("Checks() = %v, want sorted names", got)
	}
}

func TestRunTracker_Check(t *testing.T) {
	tracker := NewRunTracker()
	if err := tracker.Check(context.Background()); err == nil {
		t.Error("tracker with no batch should not pass")
	}

	tracker.Observe("completed", time.Now(), nil)
	if err := tracker.Check(context.Background()); err != nil {
		t.Errorf("completed batch: Check() = %v, want nil", err)
	}

	tracker.Observe("aborted", time.Now(), nil)
	if err := tracker.Check(context.Background()); err == nil {
		t.Error("aborted batch should not pass")
	}

	scanErr := errors.New("directory missing")
	tracker.Observe("", time.Now(), scanErr)
	if err := tracker.Check(context.Background()); !errors.Is(err, scanErr) {
		t.Errorf("Check() = %v, want wrapped %v", err, scanErr)
	}
}

func TestHandlers(t *testing.T) {
	checker := New(time.Second)
	tracker := NewRunTracker()
	checker.RegisterCheck("last_import", tracker.Check)

	mux := http.NewServeMux()
	Register(mux, checker, "1.2.3", "abc123", "2026-10-17")

	tests := []struct {
		name     string
		method   string
		path     string
		before   func()
		wantCode int
	}{
		{name: "liveness", method: http.MethodGet, path: "/health", wantCode: http.StatusOK},
		{name: "not ready before first import", method: http.MethodGet, path: "/ready", wantCode: http.StatusServiceUnavailable},
		{
			name:     "ready after completed import",
			method:   http.MethodGet,
			path:     "/ready",
			before:   func() { tracker.Observe("completed", time.Now(), nil) },
			wantCode: http.StatusOK,
		},
		{name: "version", method: http.MethodGet, path: "/version", wantCode: http.StatusOK},
		{name: "head allowed", method: http.MethodHead, path: "/health", wantCode: http.StatusOK},
		{name: "post rejected", method: http.MethodPost, path: "/ready", wantCode: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.before != nil {
				tt.before()
			}
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != tt.wantCode {
				t.Errorf("%s %s = %d, want %d", tt.method, tt.path, rec.Code, tt.wantCode)
			}
		})
	}
}

func TestVersionHandler_Body(t *testing.T) {
	rec := httptest.NewRecorder()
	VersionHandler("1.2.3", "abc123", "2026-10-17")(rec, httptest.NewRequest(http.MethodGet, "/version", nil))

	var info VersionInfo
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if info.Version != "1.2.3" || info.Commit != "abc123" || info.GoVersion == "" {
		t.Errorf("info = %+v", info)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
}
