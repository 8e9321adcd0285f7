package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/atinyakov/ImpactMatch/internal/models"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func statusHandler(code int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if code == http.StatusOK {
			_, _ = w.Write([]byte("ok"))
			return
		}
		http.Error(w, "nope", code)
	})
}

func TestWithRequestLogging_Levels(t *testing.T) {
	tests := []struct {
		code  int
		level zapcore.Level
	}{
		{http.StatusOK, zapcore.InfoLevel},
		{http.StatusConflict, zapcore.WarnLevel},
		{http.StatusInternalServerError, zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.code), func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			h := WithRequestLogging(zap.New(core))(statusHandler(tt.code))

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest("GET", "/api/projects", nil))

			entries := logs.All()
			if len(entries) != 1 {
				t.Fatalf("expected 1 log entry, got %d", len(entries))
			}
			e := entries[0]
			if e.Level != tt.level {
				t.Errorf("level = %v; want %v", e.Level, tt.level)
			}
			fields := e.ContextMap()
			if fields["status"] != int64(tt.code) {
				t.Errorf("status field = %v; want %d", fields["status"], tt.code)
			}
			if fields["path"] != "/api/projects" || fields["method"] != "GET" {
				t.Errorf("unexpected fields: %v", fields)
			}
		})
	}
}

func TestWithRequestLogging_UserID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	u := &models.User{ID: "u42", Role: models.RoleNGO}
	h := SessionAuth(session(u))(WithRequestLogging(zap.New(core))(statusHandler(http.StatusOK)))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/stats", nil))

	if got := logs.All()[0].ContextMap()["user_id"]; got != "u42" {
		t.Errorf("user_id = %v; want u42", got)
	}
}

type fakeHTTPRecorder struct {
	method string
	status int
	calls  int
}

func (f *fakeHTTPRecorder) RecordHTTPRequest(method string, status int, d time.Duration) {
	f.method, f.status = method, status
	f.calls++
}

func TestWithMetrics(t *testing.T) {
	rec := &fakeHTTPRecorder{}
	core, logs := observer.New(zapcore.InfoLevel)
	h := WithMetrics(rec)(WithRequestLogging(zap.New(core))(statusHandler(http.StatusForbidden)))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("PATCH", "/api/applications/a1", nil))

	if rec.calls != 1 || rec.method != "PATCH" || rec.status != http.StatusForbidden {
		t.Errorf("recorded %+v", rec)
	}
	if logs.Len() != 1 {
		t.Errorf("expected the shared recorder to still log once, got %d", logs.Len())
	}
}

func TestStatusRecorder_DefaultsTo200(t *testing.T) {
	sr := record(httptest.NewRecorder())
	_, _ = sr.Write([]byte("x"))
	sr.WriteHeader(http.StatusTeapot)
	if sr.statusCode != http.StatusOK {
		t.Errorf("statusCode = %d; want 200", sr.statusCode)
	}
}
