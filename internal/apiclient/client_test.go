package apiclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/laundrypro/internal/apperr"
	"github.com/example/laundrypro/internal/metrics"
	"github.com/example/laundrypro/internal/models"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func newTestClient(t *testing.T, url string, store CookieStore) (*Client, *metrics.Metrics) {
	t.Helper()
	m := metrics.New(prometheus.NewRegistry())
	c, err := New(Options{BaseURL: url, Timeout: 2 * time.Second, Cookies: store, Metrics: m})
	require.NoError(t, err)
	return c, m
}

func TestNew_RejectsRelativeBaseURL(t *testing.T) {
	_, err := New(Options{BaseURL: "laundry.local"})
	require.Error(t, err)
}

func TestDo_DecodesEnvelopeData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/services/s1", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]any{"_id": "s1", "name": "Wash & Fold", "price": 25000},
		})
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv.URL, nil)

	var svc models.Service
	require.NoError(t, c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/services/s1"}, &svc))
	assert.Equal(t, "s1", svc.ID)
	assert.Equal(t, "Wash & Fold", svc.Name)
	assert.InDelta(t, 25000, svc.Price, 0.001)
}

func TestDo_ClassifiesErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    any
		kind    apperr.Kind
		message string
	}{
		{"unauthenticated", http.StatusUnauthorized, map[string]any{"success": false, "message": "Invalid credentials"}, apperr.KindUnauthenticated, "Invalid credentials"},
		{"forbidden", http.StatusForbidden, map[string]any{"success": false, "message": "Account suspended"}, apperr.KindForbidden, "Account suspended"},
		{"domain", http.StatusBadRequest, map[string]any{"success": false, "message": "Phone already exists"}, apperr.KindDomain, "Phone already exists"},
		{"server", http.StatusInternalServerError, map[string]any{"success": false, "message": "boom"}, apperr.KindUnexpected, "boom"},
		{"success false on 200", http.StatusOK, map[string]any{"success": false, "message": "Not allowed"}, apperr.KindDomain, "Not allowed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			}))
			defer srv.Close()

			c, _ := newTestClient(t, srv.URL, nil)
			err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/orders"}, nil)

			var ae *apperr.Error
			require.ErrorAs(t, err, &ae)
			assert.Equal(t, tt.kind, ae.Kind)
			assert.Equal(t, tt.message, ae.Message)
		})
	}
}

func TestDo_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, m := newTestClient(t, url, nil)
	err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/orders"}, nil)

	require.True(t, apperr.Is(err, apperr.KindTransport))
	assert.Equal(t, apperr.TransportMessage, apperr.Message(err, "fallback"))
	assert.Equal(t, 1.0, counterValue(t, m.Requests.WithLabelValues(http.MethodGet, "error")))
}

func TestDo_MalformedDataIsUnexpected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": "not an object"})
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv.URL, nil)
	var svc models.Service
	err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/services/1"}, &svc)
	assert.True(t, apperr.Is(err, apperr.KindUnexpected))
}

// expiringAPI answers 410 to /orders until a refresh has been made.
type expiringAPI struct {
	refreshStatus int
	refreshes     atomic.Int32
	orderCalls    atomic.Int32
}

func (a *expiringAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/v1/users/refresh-token":
		a.refreshes.Add(1)
		if a.refreshStatus != http.StatusOK {
			writeJSON(w, a.refreshStatus, map[string]any{"success": false, "message": "Refresh token expired"})
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "accessToken", Value: "fresh", Path: "/"})
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	case "/v1/orders":
		a.orderCalls.Add(1)
		if ck, err := r.Cookie("accessToken"); err != nil || ck.Value != "fresh" {
			writeJSON(w, http.StatusGone, map[string]any{"success": false, "message": "Access token expired"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{"ok": true}})
	default:
		http.NotFound(w, r)
	}
}

func TestDo_RefreshesAndReplaysOnce(t *testing.T) {
	api := &expiringAPI{refreshStatus: http.StatusOK}
	srv := httptest.NewServer(api)
	defer srv.Close()

	c, m := newTestClient(t, srv.URL, nil)

	var out struct{ OK bool }
	require.NoError(t, c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/orders"}, &out))
	assert.True(t, out.OK)
	assert.EqualValues(t, 1, api.refreshes.Load())
	assert.EqualValues(t, 2, api.orderCalls.Load())
	assert.Equal(t, 1.0, counterValue(t, m.Refreshes.WithLabelValues("ok")))

	tok, ok := c.Cookie("accessToken")
	require.True(t, ok)
	assert.Equal(t, "fresh", tok)
}

func TestDo_RefreshFailureIsReturnedWithoutReplay(t *testing.T) {
	api := &expiringAPI{refreshStatus: http.StatusUnauthorized}
	srv := httptest.NewServer(api)
	defer srv.Close()

	c, m := newTestClient(t, srv.URL, nil)

	err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/orders"}, nil)
	require.True(t, apperr.Is(err, apperr.KindUnauthenticated))
	assert.Equal(t, "Refresh token expired", apperr.Message(err, ""))
	assert.EqualValues(t, 1, api.refreshes.Load())
	assert.EqualValues(t, 1, api.orderCalls.Load())
	assert.Equal(t, 1.0, counterValue(t, m.Refreshes.WithLabelValues("failed")))
}

func TestDo_ReplayStillExpiredIsNotRetriedAgain(t *testing.T) {
	var refreshes, calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/users/refresh-token" {
			refreshes.Add(1)
			writeJSON(w, http.StatusOK, map[string]any{"success": true})
			return
		}
		calls.Add(1)
		writeJSON(w, http.StatusGone, map[string]any{"success": false, "message": "Access token expired"})
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv.URL, nil)
	err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/orders"}, nil)

	assert.True(t, apperr.Is(err, apperr.KindSessionExpired))
	assert.EqualValues(t, 1, refreshes.Load())
	assert.EqualValues(t, 2, calls.Load())
}

func TestDo_MultipartIsReplayedWithSameParts(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	var refreshed atomic.Bool

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/users/refresh-token" {
			refreshed.Store(true)
			writeJSON(w, http.StatusOK, map[string]any{"success": true})
			return
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": err.Error()})
			return
		}
		f, _, err := r.FormFile("avatar")
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "no avatar"})
			return
		}
		data, _ := io.ReadAll(f)
		f.Close()

		mu.Lock()
		seen = append(seen, r.FormValue("name")+"|"+string(data))
		mu.Unlock()

		if !refreshed.Load() {
			writeJSON(w, http.StatusGone, map[string]any{"success": false})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv.URL, nil)
	name := "Lan"
	form := NewForm().
		SetString("name", &name).
		SetString("email", nil).
		Attach(&models.Upload{FieldName: "avatar", FileName: "avatar.jpg", ContentType: "image/jpeg", Data: []byte("jpeg")})
	assert.Equal(t, 2, form.Len())

	require.NoError(t, c.Do(context.Background(), Request{Method: http.MethodPut, Path: "/users/profile", Form: form}, nil))
	assert.Equal(t, []string{"Lan|jpeg", "Lan|jpeg"}, seen)
}

func TestClearSession_DropsCookies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "accessToken", Value: "abc", Path: "/"})
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv.URL, nil)
	require.NoError(t, c.Do(context.Background(), Request{Method: http.MethodPost, Path: "/users/login-password"}, nil))

	_, ok := c.Cookie("accessToken")
	require.True(t, ok)

	require.NoError(t, c.ClearSession(context.Background()))
	_, ok = c.Cookie("accessToken")
	assert.False(t, ok)
}
