package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newBackend(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, url string, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{WithBackoff(time.Millisecond)}, opts...)
	c := New(url, opts...)
	t.Cleanup(c.Close)
	return c
}

func TestClient_FetchProjects(t *testing.T) {
	srv := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/projects":
			w.Write([]byte(`{"data":[{"_id":"p1","code":"RND0001","name":"Tin","stage":"prototype","companyId":"c1"}]}`))
		case "/companies":
			w.Write([]byte(`[{"_id":"c1","name":"Acme"}]`))
		case "/brands":
			w.Write([]byte(`[]`))
		default:
			http.NotFound(w, r)
		}
	})

	c := newTestClient(t, srv.URL+"/", WithToken("tok"))
	projects, err := c.FetchProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 1)
	require.Equal(t, "Acme", projects[0].CompanyName)
}

func TestClient_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/projects" {
			w.Write([]byte(`[]`))
			return
		}
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`[{"id":"p1","name":"Tin"}]`))
	})

	c := newTestClient(t, srv.URL, WithMaxRetries(3))
	projects, err := c.FetchProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 1)
	require.Equal(t, int32(3), calls.Load())
}

func TestClient_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	srv := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/projects" {
			calls.Add(1)
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`[]`))
	})

	c := newTestClient(t, srv.URL, WithMaxRetries(2))
	_, err := c.FetchProjects(context.Background())
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)
	require.Equal(t, int32(3), calls.Load())
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/projects" {
			calls.Add(1)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`[]`))
	})

	c := newTestClient(t, srv.URL)
	_, err := c.FetchProjects(context.Background())
	require.ErrorContains(t, err, "401")
	require.Equal(t, int32(1), calls.Load())
}

func TestClient_RejectsOversizedBody(t *testing.T) {
	var calls atomic.Int32
	srv := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/projects" {
			calls.Add(1)
			w.Write([]byte(`{"data":[{"_id":"p1","code":"RND0001","name":"Tin"}]}`))
			return
		}
		w.Write([]byte(`[]`))
	})

	c := newTestClient(t, srv.URL)
	c.maxBody = 16
	_, err := c.FetchProjects(context.Background())
	require.ErrorIs(t, err, ErrBodyTooLarge)
	require.Equal(t, int32(1), calls.Load())
}

func TestClient_AcceptsBodyAtLimit(t *testing.T) {
	const body = `{"data":[]}`
	srv := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/projects" {
			w.Write([]byte(body))
			return
		}
		w.Write([]byte(`[]`))
	})

	c := newTestClient(t, srv.URL)
	c.maxBody = int64(len(body))
	projects, err := c.FetchProjects(context.Background())
	require.NoError(t, err)
	require.Empty(t, projects)
}

func TestClient_NotConfigured(t *testing.T) {
	_, err := New("").FetchProjects(context.Background())
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestClient_ContextCanceled(t *testing.T) {
	srv := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := newTestClient(t, srv.URL)
	_, err := c.FetchProjects(ctx)
	require.Error(t, err)
}
