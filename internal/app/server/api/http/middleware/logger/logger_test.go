package logger

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/slog"
)

func TestLogger_Middleware(t *testing.T) {
	tests := []struct {
		name      string
		requestID string
		status    int
		wantLevel string
	}{
		{name: "keeps request id", requestID: "req-1", status: http.StatusOK, wantLevel: "INFO"},
		{name: "generates request id", status: http.StatusOK, wantLevel: "INFO"},
		{name: "server error", requestID: "req-2", status: http.StatusInternalServerError, wantLevel: "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := New(slog.New(slog.NewTextHandler(&buf, nil)))

			r := httptest.NewRequest(http.MethodPost, "/api/v1/steps/submit-steps", nil)
			if tt.requestID != "" {
				r.Header.Set(RequestIDHeader, tt.requestID)
			}
			w := httptest.NewRecorder()
			ctx := humatest.NewContext(&huma.Operation{}, r, w)

			called := false
			l.Middleware()(ctx, func(next huma.Context) {
				called = true
				next.SetStatus(tt.status)
			})

			assert.True(t, called)
			got := w.Header().Get(RequestIDHeader)
			assert.NotEmpty(t, got)
			if tt.requestID != "" {
				assert.Equal(t, tt.requestID, got)
			}
			out := buf.String()
			assert.Contains(t, out, "level="+tt.wantLevel)
			assert.Contains(t, out, "path=/api/v1/steps/submit-steps")
			assert.Contains(t, out, "request_id="+got)
		})
	}
}
