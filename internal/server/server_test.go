package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"studentdir/internal/config"
	"studentdir/internal/handler"
	"studentdir/internal/service"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testServerConfig(profile string) config.ServerConfig {
	return config.ServerConfig{
		Profile:           profile,
		Address:           "127.0.0.1:0",
		ReadTimeout:       time.Second,
		ReadHeaderTimeout: time.Second,
		WriteTimeout:      time.Second,
		IdleTimeout:       time.Second,
		AllowedOrigins:    []string{"http://localhost:3000"},
		Header:            http.Header{"X-Service": []string{"studentdir"}},
	}
}

type pingRoutes struct{}

func (pingRoutes) Register(r *mux.Router) {
	r.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "pong")
	}).Methods("GET")
	r.HandleFunc("/panic", func(http.ResponseWriter, *http.Request) {
		panic("handler blew up")
	})
}

func TestNewRoutes(t *testing.T) {
	studentService := service.NewStudentService(nil, "directory")

	tests := []struct {
		profile  string
		expected interface{}
	}{
		{config.ProfileDirectory, &handler.StudentHandler{}},
		{config.ProfileLookup, &handler.LookupHandler{}},
		{config.ProfileGreeting, &handler.GreetingHandler{}},
	}

	for _, tt := range tests {
		t.Run(tt.profile, func(t *testing.T) {
			routes, err := NewRoutes(testServerConfig(tt.profile), studentService, zap.NewNop())
			require.NoError(t, err)
			assert.IsType(t, tt.expected, routes)
		})
	}

	_, err := NewRoutes(testServerConfig("admin"), studentService, zap.NewNop())
	assert.Error(t, err)
}

func TestHandlerMiddleware(t *testing.T) {
	cfg := testServerConfig(config.ProfileDirectory)
	h := NewHandler(cfg, NewRouter(pingRoutes{}, zap.NewNop()), zap.NewNop())

	t.Run("request id assigned", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest("GET", "/ping", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "pong", w.Body.String())
		assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
		assert.Equal(t, "studentdir", w.Header().Get("X-Service"))
	})

	t.Run("request id kept", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/ping", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
	})

	t.Run("cors allowed origin", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/ping", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("cors other origin", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/ping", nil)
		req.Header.Set("Origin", "http://evil.example")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("panic recovered", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest("GET", "/panic", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest("GET", "/nothing", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"detail":"Not Found"}`, w.Body.String())
	})
}

func TestStaticHeaders(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	t.Run("configured headers set", func(t *testing.T) {
		// keys come out of viper lower cased
		h := StaticHeaders(http.Header{"x-service": {"studentdir"}, "X-Tags": {"a", "b"}})(next)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "studentdir", w.Header().Get("X-Service"))
		assert.Equal(t, []string{"a", "b"}, w.Header().Values("X-Tags"))
	})

	t.Run("no headers", func(t *testing.T) {
		w := httptest.NewRecorder()
		StaticHeaders(nil)(next).ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Header())
	})
}

func TestRequestIDEmptyContext(t *testing.T) {
	assert.Empty(t, RequestID(context.Background()))
}

func TestServerStartStop(t *testing.T) {
	cfg := testServerConfig(config.ProfileDirectory)
	s := New(cfg, NewHandler(cfg, NewRouter(pingRoutes{}, zap.NewNop()), zap.NewNop()), zap.NewNop())
	assert.Nil(t, s.Addr())

	require.NoError(t, s.Start(context.Background()))
	require.NotNil(t, s.Addr())

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Get("http://" + s.Addr().String() + "/ping")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, "pong", string(body))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(ctx))
}

func TestServerStopBeforeStart(t *testing.T) {
	s := New(testServerConfig(config.ProfileDirectory), http.NotFoundHandler(), zap.NewNop())
	assert.ErrorIs(t, s.Stop(context.Background()), ErrNotStarted)
}

func TestServerStartBadAddress(t *testing.T) {
	cfg := testServerConfig(config.ProfileDirectory)
	cfg.Address = "256.0.0.1:bad"
	s := New(cfg, http.NotFoundHandler(), zap.NewNop())
	assert.Error(t, s.Start(context.Background()))
}
