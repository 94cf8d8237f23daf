package forwarder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/mcschoo/Sparrow"
	"github.com/mcschoo/Sparrow/call"
	"github.com/mcschoo/Sparrow/ext"
	"github.com/mcschoo/Sparrow/middleware"
)

// HeaderDispatchID carries the call's TypeID to the coordinator.
const HeaderDispatchID = "X-Dispatch-ID"

// DispatchPath is appended to the coordinator base URL.
const DispatchPath = "/dispatch"

// maxErrorBody caps how much of a non-2xx body is quoted in the error.
const maxErrorBody = 512

// Forwarder relays payloads to the coordinator's dispatch endpoint.
// It is safe for concurrent use; it holds no per-call state.
type Forwarder struct {
	target    string
	service   string
	timeout   time.Duration
	keepAlive bool
	client    *http.Client
	logger    *slog.Logger
	extra     []middleware.Middleware
	exts      []ext.Extension
	registry  *ext.Registry
	mw        middleware.Middleware
}

// New creates a Forwarder for the coordinator at baseURL. The address is not
// validated: a malformed value makes every call fail as unavailable.
func New(baseURL string, opts ...Option) *Forwarder {
	f := &Forwarder{
		target:  JoinPath(baseURL, DispatchPath),
		service: sparrow.EdgeServiceName,
		timeout: sparrow.DefaultDispatchTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.client == nil {
		f.client = &http.Client{Transport: newTransport(f.keepAlive)}
	}
	f.client = withoutRedirects(f.client)

	mws := []middleware.Middleware{
		middleware.Logging(f.logger),
		middleware.Tracing(),
		middleware.Metrics(),
	}
	f.registry = ext.NewRegistry(f.logger)
	for _, e := range f.exts {
		f.registry.Register(e)
	}
	if len(f.exts) > 0 {
		mws = append(mws, f.registry.Middleware())
	}
	mws = append(mws, middleware.Recover(f.logger))
	mws = append(mws, f.extra...)
	mws = append(mws, middleware.Timeout(f.logger))
	f.mw = middleware.Chain(mws...)

	return f
}

// Target returns the full coordinator dispatch URL.
func (f *Forwarder) Target() string { return f.target }

// Timeout returns the per-call deadline.
func (f *Forwarder) Timeout() time.Duration { return f.timeout }

// Shutdown notifies extensions that the forwarder is stopping and closes
// idle keep-alive connections.
func (f *Forwarder) Shutdown(ctx context.Context) {
	f.registry.EmitShutdown(ctx)
	f.client.CloseIdleConnections()
}

// Forward sends payload to the coordinator and returns its JSON response
// body unchanged. Any failure is returned as a *sparrow.UpstreamError.
func (f *Forwarder) Forward(ctx context.Context, payload sparrow.Payload) (sparrow.Payload, error) {
	c := call.New(f.service, f.target, payload)
	c.Timeout = f.timeout

	out, err := f.mw(ctx, c, func(ctx context.Context) (sparrow.Payload, error) {
		return f.do(ctx, c)
	})
	if err != nil {
		var ue *sparrow.UpstreamError
		if !errors.As(err, &ue) {
			err = &sparrow.UpstreamError{Kind: sparrow.KindUnavailable, Err: err}
		}
		if !c.State.Terminal() {
			c.State = call.StateFor(err)
		}

		return nil, err
	}

	return out, nil
}

// do performs the single HTTP exchange for c. The response body is always
// drained and closed before it returns.
func (f *Forwarder) do(ctx context.Context, c *call.Call) (sparrow.Payload, error) {
	c.State = call.StateConnecting

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Target, bytes.NewReader(c.Payload))
	if err != nil {
		return nil, f.fail(ctx, c, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderDispatchID, c.ID.String())
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, f.fail(ctx, c, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	c.State = call.StateWaitingForResponse

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.State = call.StateUpstreamErrorCode
		ue := &sparrow.UpstreamError{Kind: sparrow.KindStatus, StatusCode: resp.StatusCode}
		if msg := strings.TrimSpace(string(snippet)); msg != "" {
			ue.Err = errors.New(msg)
		}

		return nil, ue
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, f.fail(ctx, c, fmt.Errorf("read response: %w", err))
	}

	out, err := sparrow.ParseValue(body)
	if err != nil {
		c.State = call.StateInvalidResponse

		return nil, &sparrow.UpstreamError{Kind: sparrow.KindInvalidResponse, Err: err}
	}

	c.State = call.StateSucceeded

	return out, nil
}

// fail classifies a transport-level error and records the terminal state.
func (f *Forwarder) fail(ctx context.Context, c *call.Call, err error) error {
	kind := sparrow.KindUnavailable
	if isTimeout(ctx, err) {
		kind = sparrow.KindTimeout
	}
	ue := &sparrow.UpstreamError{Kind: kind, Err: err}
	c.State = call.StateFor(ue)

	return ue
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var ne net.Error

	return errors.As(err, &ne) && ne.Timeout()
}

// withoutRedirects returns a copy of c that hands 3xx responses back to the
// caller instead of following them. The caller's client is left untouched.
func withoutRedirects(c *http.Client) *http.Client {
	cp := *c
	cp.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	return &cp
}

func newTransport(keepAlive bool) *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   sparrow.DefaultDispatchTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		DisableKeepAlives:     !keepAlive,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   sparrow.DefaultDispatchTimeout,
		ExpectContinueTimeout: time.Second,
	}
}

// JoinPath appends path to base, collapsing the slash between them.
func JoinPath(base, path string) string {
	return strings.TrimRight(strings.TrimSpace(base), "/") + path
}
