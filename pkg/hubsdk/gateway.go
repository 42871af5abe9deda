package hubsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aussiebroadwan/campus/pkg/idx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// AuthScheme prefixes the launch payload in the Authorization header.
const AuthScheme = "tma"

// RequestOptions describes one outbound call. The zero value is a GET with no
// body and no extra headers.
type RequestOptions struct {
	// Method defaults to GET.
	Method string

	// Body is sent as is. Callers serialise it themselves; see JSONBody.
	Body []byte

	// Headers overlay the defaults. Authorization is always decided by the
	// client's credential retriever.
	Headers map[string]string
}

// JSONBody serialises v for RequestOptions.Body.
func JSONBody(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, &Error{Kind: KindRequest, Message: fmt.Sprintf("encode request body: %v", err), Err: err}
	}
	return b, nil
}

// Do sends one request to path (relative to BaseURL) and returns the raw JSON
// body of a 2xx response. An empty 2xx body yields a nil RawMessage.
//
// The launch payload is read from Credentials on every call. When present it
// is sent as "Authorization: tma <payload>"; when absent the header is left
// out and the request goes ahead anyway, so public endpoints keep working
// outside the messenger.
//
// Every failure is an *Error. Do never retries.
func (c *Client) Do(ctx context.Context, path string, opts RequestOptions) (json.RawMessage, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	header := c.headers(ctx, opts.Headers)
	reqID := header.Get("X-Request-ID")
	log := c.Logger.With("method", method, "path", path, "req_id", reqID)

	ctx, span := c.tracer.Start(ctx, "hubsdk "+method+" "+path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
			attribute.Bool("campus.authenticated", header.Get("Authorization") != ""),
		),
	)
	defer span.End()

	start := time.Now()
	status, raw, err := c.send(ctx, method, path, header, opts.Body)
	took := time.Since(start)

	c.metrics.observe(method, status, took, err)
	if status != 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", status))
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, Message(err))
		log.Debug("api call failed", "status", status, "duration_ms", took.Milliseconds(), "err", err)
		return nil, err
	}

	log.Debug("api call", "status", status, "duration_ms", took.Milliseconds())
	return raw, nil
}

// Request sends a request through c and decodes a 2xx body into T. The body is
// not validated beyond being JSON that fits T; an empty body yields T's zero
// value.
func Request[T any](ctx context.Context, c *Client, path string, opts RequestOptions) (T, error) {
	var out T

	raw, err := c.Do(ctx, path, opts)
	if err != nil {
		return out, err
	}
	if len(raw) == 0 {
		return out, nil
	}

	if err := json.Unmarshal(raw, &out); err != nil {
		return out, &Error{Kind: KindDecode, Message: fmt.Sprintf("decode response: %v", err), Err: err}
	}
	return out, nil
}

// headers builds the outbound header set: JSON defaults, then the caller's
// overlay, then the credential.
func (c *Client) headers(ctx context.Context, overlay map[string]string) http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set("Accept", "application/json")
	h.Set("X-Request-ID", idx.New().String())

	for k, v := range overlay {
		h.Set(k, v)
	}

	if payload, ok := c.Credentials.Retrieve(ctx); ok {
		h.Set("Authorization", AuthScheme+" "+payload)
	} else {
		h.Del("Authorization")
	}

	return h
}

func (c *Client) send(
	ctx context.Context,
	method, path string,
	header http.Header,
	body []byte,
) (int, json.RawMessage, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return 0, nil, transportError(err)
		}
	}

	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), reader)
	if err != nil {
		return 0, nil, &Error{Kind: KindRequest, Message: fmt.Sprintf("create request: %v", err), Err: err}
	}
	req.Header = header

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, nil, transportError(err)
	}
	defer resp.Body.Close()

	// Read once for both error parsing and success decoding.
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, transportError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, nil, statusError(resp.StatusCode, data)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return resp.StatusCode, nil, nil
	}
	if !json.Valid(data) {
		return resp.StatusCode, nil, &Error{Kind: KindDecode, Message: "decode response: body is not valid JSON"}
	}

	return resp.StatusCode, json.RawMessage(data), nil
}
