package edge_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcschoo/Sparrow"
	"github.com/mcschoo/Sparrow/coordinator"
	"github.com/mcschoo/Sparrow/edge"
	"github.com/mcschoo/Sparrow/forwarder"
	"github.com/mcschoo/Sparrow/health"
)

func init() { gin.SetMode(gin.TestMode) }

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func edgeConfig(coordinatorURL string) sparrow.EdgeConfig {
	cfg := sparrow.DefaultEdgeConfig()
	cfg.CoordinatorBaseURL = coordinatorURL
	return cfg
}

func newGateway(t *testing.T, cfg sparrow.EdgeConfig, opts ...forwarder.Option) http.Handler {
	t.Helper()
	opts = append([]forwarder.Option{forwarder.WithLogger(discard)}, opts...)
	g, err := edge.New(cfg, forwarder.New(cfg.CoordinatorBaseURL, opts...), edge.WithLogger(discard))
	require.NoError(t, err)
	return g.Handler()
}

func startCoordinator(t *testing.T) *httptest.Server {
	t.Helper()
	c := coordinator.New(sparrow.DefaultCoordinatorConfig(), coordinator.WithLogger(discard))
	srv := httptest.NewServer(c.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func dispatch(h http.Handler, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/dispatch", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func detailOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["detail"]
}

func closedAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return "http://" + addr
}

func TestDispatch_RelaysThroughCoordinator(t *testing.T) {
	coord := startCoordinator(t)
	h := newGateway(t, edgeConfig(coord.URL))

	rec := dispatch(h, `{"job":"x"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"job":"x"}`, rec.Body.String())
}

func TestDispatch_PreservesArbitraryObjects(t *testing.T) {
	coord := startCoordinator(t)
	h := newGateway(t, edgeConfig(coord.URL))

	body := `{"a":[1,{"b":null}],"c":"é","d":1e10,"e":{}}`
	rec := dispatch(h, body)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, body, rec.Body.String())
}

func TestDispatch_CoordinatorUnreachable(t *testing.T) {
	h := newGateway(t, edgeConfig(closedAddr(t)))

	rec := dispatch(h, `{"job":"x"}`)

	require.Equal(t, http.StatusBadGateway, rec.Code)
	d := detailOf(t, rec)
	assert.True(t, strings.HasPrefix(d, edge.DetailPrefix), d)
	assert.Contains(t, d, "connection refused")
}

func TestDispatch_CoordinatorTimeout(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(slow.Close)

	h := newGateway(t, edgeConfig(slow.URL), forwarder.WithTimeout(50*time.Millisecond))

	start := time.Now()
	rec := dispatch(h, `{"job":"x"}`)

	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Less(t, time.Since(start), time.Second)
	assert.True(t, strings.HasPrefix(detailOf(t, rec), edge.DetailPrefix))
}

func TestDispatch_CoordinatorErrorStatus(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"detail":"boom"}`)
	}))
	t.Cleanup(failing.Close)

	h := newGateway(t, edgeConfig(failing.URL))
	rec := dispatch(h, `{"job":"x"}`)

	require.Equal(t, http.StatusBadGateway, rec.Code)
	d := detailOf(t, rec)
	assert.True(t, strings.HasPrefix(d, edge.DetailPrefix), d)
	assert.Contains(t, d, "500")
}

func TestDispatch_OneCallPerRequest(t *testing.T) {
	var hits atomic.Int32
	counting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(counting.Close)

	h := newGateway(t, edgeConfig(counting.URL))
	rec := dispatch(h, `{"job":"x"}`)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, int32(1), hits.Load())
}

func TestDispatch_RejectsNonObjectBeforeForwarding(t *testing.T) {
	called := false
	fwd := forwardFunc(func(context.Context, sparrow.Payload) (sparrow.Payload, error) {
		called = true
		return nil, nil
	})
	g, err := edge.New(sparrow.DefaultEdgeConfig(), fwd, edge.WithLogger(discard))
	require.NoError(t, err)

	for _, body := range []string{``, `[]`, `"x"`, `{"job":`} {
		rec := dispatch(g.Handler(), body)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, body)
	}
	assert.False(t, called)
}

func TestDispatch_ForwarderErrorDetail(t *testing.T) {
	fwd := forwardFunc(func(context.Context, sparrow.Payload) (sparrow.Payload, error) {
		return nil, &sparrow.UpstreamError{Kind: sparrow.KindUnavailable, Err: errors.New("no route to host")}
	})
	g, err := edge.New(sparrow.DefaultEdgeConfig(), fwd, edge.WithLogger(discard))
	require.NoError(t, err)

	rec := dispatch(g.Handler(), `{"job":"x"}`)

	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "Coordinator dispatch failed: coordinator unreachable: no route to host", detailOf(t, rec))
}

func TestHealth_IndependentOfCoordinator(t *testing.T) {
	h := newGateway(t, edgeConfig(closedAddr(t)))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got health.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, health.New(sparrow.EdgeServiceName), got)
}

func TestCORS_AllowedOrigin(t *testing.T) {
	coord := startCoordinator(t)
	h := newGateway(t, edgeConfig(coord.URL))

	rec := dispatch(h, `{"job":"x"}`, "Origin", "http://localhost:3010")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:3010", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_DisallowedOrigin(t *testing.T) {
	coord := startCoordinator(t)
	h := newGateway(t, edgeConfig(coord.URL))

	rec := dispatch(h, `{"job":"x"}`, "Origin", "http://evil.test")

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_Preflight(t *testing.T) {
	h := newGateway(t, edgeConfig(closedAddr(t)))

	req := httptest.NewRequest(http.MethodOptions, "/dispatch", nil)
	req.Header.Set("Origin", "http://localhost:3010")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3010", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
}

func TestCORS_EmptyAllowList(t *testing.T) {
	coord := startCoordinator(t)
	cfg := edgeConfig(coord.URL)
	cfg.AllowedOrigins = nil
	h := newGateway(t, cfg)

	assert.Equal(t, http.StatusForbidden, dispatch(h, `{}`, "Origin", "http://localhost:3010").Code)
	assert.Equal(t, http.StatusOK, dispatch(h, `{}`).Code)
}

func TestCORS_MultipleOrigins(t *testing.T) {
	coord := startCoordinator(t)
	cfg := edgeConfig(coord.URL)
	cfg.AllowedOrigins = sparrow.ParseOrigins(" http://a.test , ,http://b.test")
	h := newGateway(t, cfg)

	for _, origin := range []string{"http://a.test", "http://b.test"} {
		rec := dispatch(h, `{}`, "Origin", origin)
		assert.Equal(t, http.StatusOK, rec.Code, origin)
		assert.Equal(t, origin, rec.Header().Get("Access-Control-Allow-Origin"))
	}
}

func TestNew_RejectsBadOrigin(t *testing.T) {
	cfg := sparrow.DefaultEdgeConfig()
	cfg.AllowedOrigins = []string{"localhost:3010"}

	_, err := edge.New(cfg, forwarder.New(cfg.CoordinatorBaseURL))
	require.Error(t, err)
	assert.ErrorIs(t, err, sparrow.ErrInvalidConfig)
}

func TestNewFromConfig(t *testing.T) {
	coord := startCoordinator(t)
	g, err := edge.NewFromConfig(edgeConfig(coord.URL), discard)
	require.NoError(t, err)

	rec := dispatch(g.Handler(), `{"job":"x"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

type forwardFunc func(context.Context, sparrow.Payload) (sparrow.Payload, error)

func (f forwardFunc) Forward(ctx context.Context, p sparrow.Payload) (sparrow.Payload, error) {
	return f(ctx, p)
}

type shutdownCounter struct{ n int }

func (s *shutdownCounter) Name() string { return "shutdown-counter" }

func (s *shutdownCounter) OnShutdown(context.Context) error {
	s.n++
	return nil
}

func TestNewFromConfig_ForwarderOptions(t *testing.T) {
	coord := startCoordinator(t)
	counter := &shutdownCounter{}

	g, err := edge.NewFromConfig(edgeConfig(coord.URL), discard,
		edge.WithForwarderOptions(forwarder.WithExtensions(counter)),
	)
	require.NoError(t, err)

	rec := dispatch(g.Handler(), `{"job":"x"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	g.Shutdown(context.Background())
	assert.Equal(t, 1, counter.n)
}
