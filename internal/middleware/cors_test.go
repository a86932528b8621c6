package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCORSMiddleware(t *testing.T) {
	const origin = "https://app.example.com"

	tests := []struct {
		name        string
		method      string
		reqHeaders  map[string]string
		wantStatus  int
		wantNextRun bool
	}{
		{
			name:        "GETは後続に渡す",
			method:      http.MethodGet,
			wantStatus:  http.StatusOK,
			wantNextRun: true,
		},
		{
			name:   "Authorizationを要求するプリフライトは204",
			method: http.MethodOptions,
			reqHeaders: map[string]string{
				"Origin":                         origin,
				"Access-Control-Request-Method":  http.MethodPatch,
				"Access-Control-Request-Headers": "authorization, content-type",
			},
			wantStatus:  http.StatusNoContent,
			wantNextRun: false,
		},
		{
			name:        "Bearerトークン付きのPOSTは後続に渡す",
			method:      http.MethodPost,
			reqHeaders:  map[string]string{"Origin": origin, "Authorization": "Bearer signed-token"},
			wantStatus:  http.StatusOK,
			wantNextRun: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotAuth string
			nextRun := false
			handler := NewCORSMiddleware(origin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextRun = true
				gotAuth = r.Header.Get("Authorization")
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(tt.method, "/api/jobs/j1", nil)
			for k, v := range tt.reqHeaders {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if nextRun != tt.wantNextRun {
				t.Errorf("next handler called = %v, want %v", nextRun, tt.wantNextRun)
			}
			if want := tt.reqHeaders["Authorization"]; nextRun && gotAuth != want {
				t.Errorf("Authorization = %q, want %q", gotAuth, want)
			}

			h := w.Header()
			if got := h.Get("Access-Control-Allow-Origin"); got != origin {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, origin)
			}
			if got := h.Get("Access-Control-Allow-Headers"); !strings.Contains(got, "Authorization") {
				t.Errorf("Access-Control-Allow-Headers = %q, want Authorization", got)
			}
			if got := h.Get("Access-Control-Allow-Methods"); !strings.Contains(got, http.MethodPatch) {
				t.Errorf("Access-Control-Allow-Methods = %q, want PATCH", got)
			}
			if got := h.Get("Access-Control-Expose-Headers"); got != "Retry-After" {
				t.Errorf("Access-Control-Expose-Headers = %q, want Retry-After", got)
			}
			// トークンはヘッダーで送るためCookieの送信は許可しない
			if got := h.Get("Access-Control-Allow-Credentials"); got != "" {
				t.Errorf("Access-Control-Allow-Credentials = %q, want empty", got)
			}
		})
	}
}
