package restclient

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/http2"

	"github.com/kbukum/pusherrest/logger"
	"github.com/kbukum/pusherrest/observability"
	"github.com/kbukum/pusherrest/util"
	"github.com/kbukum/pusherrest/version"
)

// Headers sent with every request.
const (
	HeaderLibraryName    = "Pusher-Library-Name"
	HeaderLibraryVersion = "Pusher-Library-Version"

	contentTypeJSON = "application/json"
)

// redactedParams are query parameters masked in logs and spans.
var redactedParams = []string{"auth_signature"}

// Execution modes, reported in logs, spans and metrics.
const (
	ModeBlocking = "blocking"
	ModeAsync    = "async"
)

// Client executes Pusher REST requests against one base URL. Blocking and
// asynchronous calls use separate http.Client handles over one shared
// transport; only the blocking handle carries Config.Timeout.
// A Client is safe for concurrent use.
type Client struct {
	config   Config
	baseURL  string
	headers  http.Header
	blocking *http.Client
	async    *http.Client

	transport http.RoundTripper
	log       *logger.Logger
	tracer    trace.Tracer
	tp        trace.TracerProvider
	metrics   *observability.RESTMetrics
}

// Option customizes a Client.
type Option func(*Client)

// WithLogger sets the logger. Defaults to the "restclient" registry logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithMetrics records every call on m.
func WithMetrics(m *observability.RESTMetrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithTracerProvider sets the provider spans are started from. Defaults to
// the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) { c.tp = tp }
}

// WithTransport replaces the transport shared by both handles. TLS and
// HTTP2 settings from Config are not applied to a supplied transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.transport = rt }
}

// New creates a client for cfg.BaseURL.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	libVersion, err := version.Parse(cfg.LibraryVersion)
	if err != nil {
		return nil, fmt.Errorf("restclient: library version: %w", err)
	}

	c := &Client{
		config:  cfg,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		headers: http.Header{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.Get("restclient")
	}
	c.log = c.log.WithFields(map[string]interface{}{
		logger.FieldBaseURL: c.baseURL,
	})
	c.tracer = observability.Tracer(c.tp)

	if c.transport == nil {
		t, err := newTransport(cfg)
		if err != nil {
			return nil, err
		}
		c.transport = t
	}

	c.headers.Set("Accept", contentTypeJSON)
	c.headers.Set(HeaderLibraryName, cfg.LibraryName)
	c.headers.Set(HeaderLibraryVersion, libVersion.String())

	c.blocking = &http.Client{
		Transport: c.transport,
		Timeout:   cfg.Timeout,
	}
	// Async calls are bounded by their context only.
	c.async = &http.Client{
		Transport: c.transport,
	}
	return c, nil
}

func newTransport(cfg Config) (*http.Transport, error) {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ForceAttemptHTTP2:     !cfg.HTTP2,
	}

	if cfg.TLS != nil {
		tlsCfg, err := cfg.TLS.Build()
		if err != nil {
			return nil, err
		}
		if tlsCfg != nil {
			t.TLSClientConfig = tlsCfg
		}
	}

	if cfg.HTTP2 {
		t2, err := http2.ConfigureTransports(t)
		if err != nil {
			return nil, fmt.Errorf("restclient: configure http2: %w", err)
		}
		t2.ReadIdleTimeout = 30 * time.Second
		t2.PingTimeout = 15 * time.Second
	}
	return t, nil
}

// BaseURL returns the base URL requests are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Config returns the effective configuration.
func (c *Client) Config() Config {
	return c.config
}

// Close releases idle connections. In-flight calls are not interrupted.
func (c *Client) Close(_ context.Context) error {
	c.blocking.CloseIdleConnections()
	return nil
}

// ExecuteGet performs a blocking GET and decodes the body as T on access.
//
// A non-2xx response returns the Result together with a classified *Error.
// A transport failure, timeout or cancellation returns only the error.
// A POST request returns a method mismatch error without any network call.
func ExecuteGet[T any](ctx context.Context, c *Client, req Request) (*Result[T], error) {
	if err := checkMethod("ExecuteGet", MethodGET, req); err != nil {
		return nil, err
	}
	raw, err := c.execute(ctx, "ExecuteGet", ModeBlocking, req)
	if raw == nil {
		return nil, err
	}
	return newResult[T](raw), err
}

// ExecuteGetAsync starts a GET and returns immediately. The Pending resolves
// with the same values ExecuteGet would return. Cancelling ctx aborts the
// round trip; the Pending then resolves with a timeout error and no result.
func ExecuteGetAsync[T any](ctx context.Context, c *Client, req Request) *Pending[*Result[T]] {
	if err := checkMethod("ExecuteGetAsync", MethodGET, req); err != nil {
		return resolvedPending[*Result[T]](nil, err)
	}
	return startPending(func() (*Result[T], error) {
		raw, err := c.execute(ctx, "ExecuteGetAsync", ModeAsync, req)
		if raw == nil {
			return nil, err
		}
		return newResult[T](raw), err
	})
}

// ExecutePost performs a blocking POST of the request's JSON body.
//
// Error behavior matches ExecuteGet. A GET request returns a method
// mismatch error without any network call.
func (c *Client) ExecutePost(ctx context.Context, req Request) (*TriggerResult, error) {
	if err := checkMethod("ExecutePost", MethodPOST, req); err != nil {
		return nil, err
	}
	raw, err := c.execute(ctx, "ExecutePost", ModeBlocking, req)
	if raw == nil {
		return nil, err
	}
	return newTriggerResult(raw), err
}

// ExecutePostAsync starts a POST and returns immediately. The Pending
// resolves with the same values ExecutePost would return.
func (c *Client) ExecutePostAsync(ctx context.Context, req Request) *Pending[*TriggerResult] {
	if err := checkMethod("ExecutePostAsync", MethodPOST, req); err != nil {
		return resolvedPending[*TriggerResult](nil, err)
	}
	return startPending(func() (*TriggerResult, error) {
		raw, err := c.execute(ctx, "ExecutePostAsync", ModeAsync, req)
		if raw == nil {
			return nil, err
		}
		return newTriggerResult(raw), err
	})
}

func checkMethod(op string, want Method, req Request) error {
	if req.Method() != want {
		return NewMethodMismatchError(op, want, req.Method())
	}
	return nil
}

// execute performs one round trip on the handle for mode, with tracing,
// metrics and logging. It returns a nil response when no HTTP response was
// received.
func (c *Client) execute(ctx context.Context, op, mode string, req Request) (*response, error) {
	hc := c.blocking
	if mode == ModeAsync {
		hc = c.async
	}
	url := c.resolveURL(req.ResourceURI())
	logURL := util.RedactQuery(url, redactedParams...)
	method := string(req.Method())
	requestID := uuid.NewString()

	ctx, span := c.tracer.Start(ctx, observability.SpanRESTPrefix+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(observability.RESTSpanAttributes(method, logURL, mode, requestID)...),
	)
	defer span.End()

	if c.metrics != nil {
		c.metrics.RecordRequestStart(ctx)
	}
	start := time.Now()

	raw, err := c.roundTrip(ctx, hc, url, req)

	elapsed := time.Since(start)
	status := 0
	if raw != nil {
		status = raw.statusCode
		span.SetAttributes(attribute.Int(observability.AttrHTTPStatusCode, status))
	}
	if c.metrics != nil {
		c.metrics.RecordRequestEnd(ctx, method, mode, status, elapsed)
	}

	fields := logger.DurationFields(op, elapsed)
	fields[logger.FieldRequestID] = requestID
	fields[logger.FieldMethod] = method
	fields[logger.FieldURL] = logURL
	fields[logger.FieldMode] = mode
	fields[logger.FieldStatus] = status

	if err != nil {
		code, _ := CodeOf(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String(observability.AttrErrorCode, code.String()))
		if c.metrics != nil {
			c.metrics.RecordError(ctx, code.String())
		}
		c.log.WithError(err).Warn("rest call failed", fields)
		return raw, err
	}

	span.SetStatus(codes.Ok, "")
	c.log.Debug("rest call completed", fields)
	return raw, nil
}

// roundTrip builds the request, sends it and reads the whole body.
func (c *Client) roundTrip(ctx context.Context, hc *http.Client, url string, req Request) (*response, error) {
	httpReq, err := c.buildRequest(ctx, url, req)
	if err != nil {
		return nil, err
	}

	resp, err := hc.Do(httpReq)
	if err != nil {
		return nil, classifyTransportError(ctx.Err(), err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransportError(ctx.Err(), fmt.Errorf("read response body: %w", err))
	}

	raw := &response{
		statusCode: resp.StatusCode,
		headers:    flattenHeaders(resp.Header),
		body:       string(body),
	}
	if classErr := ClassifyStatusCode(resp.StatusCode, raw.body); classErr != nil {
		return raw, classErr
	}
	return raw, nil
}

// buildRequest constructs an *http.Request with the default headers and,
// for POST, the JSON body.
func (c *Client) buildRequest(ctx context.Context, url string, req Request) (*http.Request, error) {
	var body io.Reader
	if req.Method() == MethodPOST {
		content, err := req.ContentAsJSON()
		if err != nil {
			return nil, NewValidationError(fmt.Sprintf("encode body: %v", err))
		}
		body = strings.NewReader(content)
	}

	httpReq, err := http.NewRequestWithContext(ctx, string(req.Method()), url, body)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("create request: %v", err))
	}

	httpReq.Header = c.headers.Clone()
	if body != nil {
		httpReq.Header.Set("Content-Type", contentTypeJSON)
	}
	return httpReq, nil
}

// resolveURL joins the base URL and a resource path. Absolute http(s)
// URLs are used as given.
func (c *Client) resolveURL(resource string) string {
	if strings.HasPrefix(resource, "http://") || strings.HasPrefix(resource, "https://") {
		return resource
	}
	return c.baseURL + "/" + strings.TrimLeft(resource, "/")
}
