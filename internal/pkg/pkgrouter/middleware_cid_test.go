package pkgrouter

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shandysiswandi/godash/internal/pkg/pkglog"
)

type staticGenerator struct {
	value string
	calls int
}

func (g *staticGenerator) Generate() string {
	g.calls++
	return g.value
}

func TestMiddlewareCorrelationID(t *testing.T) {
	long := strings.Repeat("c", maxCIDLen+40)

	tests := []struct {
		name      string
		headers   map[string]string
		want      string
		generated bool
	}{
		{name: "correlation header", headers: map[string]string{HeaderCorrelationID: "header-cid"}, want: "header-cid"},
		{name: "request id fallback", headers: map[string]string{HeaderRequestID: "req-1"}, want: "req-1"},
		{
			name:    "correlation header wins",
			headers: map[string]string{HeaderCorrelationID: "cid-1", HeaderRequestID: "req-1"},
			want:    "cid-1",
		},
		{name: "trimmed", headers: map[string]string{HeaderCorrelationID: "  padded  "}, want: "padded"},
		{name: "cut to limit", headers: map[string]string{HeaderCorrelationID: long}, want: long[:maxCIDLen]},
		{name: "missing", want: "generated", generated: true},
		{name: "inner space", headers: map[string]string{HeaderCorrelationID: "a b"}, want: "generated", generated: true},
		{
			name:    "non ascii falls back to request id",
			headers: map[string]string{HeaderCorrelationID: "café", HeaderRequestID: "req-2"},
			want:    "req-2",
		},
		{name: "control char", headers: map[string]string{HeaderRequestID: "id\x7f"}, want: "generated", generated: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &staticGenerator{value: "generated"}

			var gotCID string
			h := middlewareCorrelationID(gen)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotCID = pkglog.GetCorrelationID(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/dashboard?sample=sales.csv", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if got := rec.Header().Get(HeaderCorrelationID); got != tt.want {
				t.Fatalf("response %s = %q, want %q", HeaderCorrelationID, got, tt.want)
			}
			if gotCID != tt.want {
				t.Fatalf("context cid = %q, want %q", gotCID, tt.want)
			}
			wantCalls := 0
			if tt.generated {
				wantCalls = 1
			}
			if gen.calls != wantCalls {
				t.Fatalf("generator calls = %d, want %d", gen.calls, wantCalls)
			}
		})
	}
}

func TestMiddlewareCorrelationIDWithoutGenerator(t *testing.T) {
	var gotCID string
	h := middlewareCorrelationID(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCID = pkglog.GetCorrelationID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if got := rec.Header().Get(HeaderCorrelationID); got != "" {
		t.Fatalf("response %s = %q, want empty", HeaderCorrelationID, got)
	}
	if gotCID != pkglog.GetCorrelationID(t.Context()) {
		t.Fatalf("context cid = %q, want the unset marker", gotCID)
	}
}
