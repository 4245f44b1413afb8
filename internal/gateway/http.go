// internal/gateway/http.go
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"mining-storefront/internal/pkg/query"
)

// HeaderRequestID carries the correlation id on every backend call.
const HeaderRequestID = "X-Request-ID"

const (
	headerAuthorization = "Authorization"
	headerContentType   = "Content-Type"
	headerAccept        = "Accept"
	headerUserAgent     = "User-Agent"
	contentTypeJSON     = "application/json"

	maxResponseBytes = 32 << 20
)

// Blob is a binary download such as an invoice PDF or the CSV template.
type Blob struct {
	ContentType string
	Filename    string
	Data        []byte
}

// call describes one backend request. route is the path template used as
// the metrics label; path is the concrete path.
type call struct {
	method string
	route  string
	path   string
	query  query.Params
	token  string
	body   any
	form   *Form
}

// newCall fills the %s verbs of route with path-escaped args.
func newCall(method, route string, args ...string) *call {
	path := route
	if len(args) > 0 {
		escaped := make([]any, len(args))
		for i, a := range args {
			escaped[i] = url.PathEscape(a)
		}
		path = fmt.Sprintf(route, escaped...)
	}
	return &call{
		method: method,
		route:  strings.ReplaceAll(route, "%s", ":param"),
		path:   path,
	}
}

func (cl *call) withToken(token string) *call {
	cl.token = token
	return cl
}

func (cl *call) withQuery(q query.Params) *call {
	cl.query = q
	return cl
}

func (cl *call) withJSON(body any) *call {
	cl.body = body
	return cl
}

func (cl *call) withForm(form *Form) *call {
	cl.form = form
	return cl
}

// do performs the call and decodes the JSON response into out.
func (c *Client) do(ctx context.Context, cl *call, out any) error {
	status, _, body, err := c.send(ctx, cl)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return decodeError(status, fmt.Errorf("failed to parse response: %w", err))
	}
	return nil
}

// download performs the call and returns the raw body.
func (c *Client) download(ctx context.Context, cl *call) (*Blob, error) {
	_, header, body, err := c.send(ctx, cl)
	if err != nil {
		return nil, err
	}
	blob := &Blob{ContentType: header.Get(headerContentType), Data: body}
	if cd := header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			blob.Filename = params["filename"]
		}
	}
	return blob, nil
}

func (c *Client) send(ctx context.Context, cl *call) (status int, header http.Header, body []byte, err error) {
	start := time.Now()
	defer func() {
		backendRequestsTotal.WithLabelValues(cl.method, cl.route, outcome(err)).Inc()
		backendRequestDuration.WithLabelValues(cl.method, cl.route).Observe(time.Since(start).Seconds())
	}()

	reqURL := c.baseURL + cl.path
	if len(cl.query) > 0 {
		reqURL += "?" + cl.query.Encode()
	}

	var bodyReader io.Reader
	contentType := ""
	switch {
	case cl.form != nil:
		buf, ct, ferr := cl.form.encode()
		if ferr != nil {
			return 0, nil, nil, &Error{Kind: KindInvalid, Message: ferr.Error(), Err: ferr}
		}
		bodyReader, contentType = buf, ct
	case cl.body != nil:
		raw, merr := json.Marshal(cl.body)
		if merr != nil {
			return 0, nil, nil, &Error{Kind: KindInvalid, Message: merr.Error(), Err: merr}
		}
		bodyReader, contentType = bytes.NewReader(raw), contentTypeJSON
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, reqURL, bodyReader)
	if err != nil {
		return 0, nil, nil, &Error{Kind: KindInvalid, Message: err.Error(), Err: err}
	}

	requestID := RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = ulid.Make().String()
	}
	req.Header.Set(headerAccept, contentTypeJSON)
	req.Header.Set(headerUserAgent, c.userAgent)
	req.Header.Set(HeaderRequestID, requestID)
	if contentType != "" {
		req.Header.Set(headerContentType, contentType)
	}
	if cl.token != "" {
		req.Header.Set(headerAuthorization, "Bearer "+cl.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("backend call failed",
			zap.String("method", cl.method),
			zap.String("route", cl.route),
			zap.String("request_id", requestID),
			zap.Error(err))
		return 0, nil, nil, networkError(err)
	}
	defer resp.Body.Close()

	body, err = io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, nil, nil, networkError(fmt.Errorf("failed to read response body: %w", err))
	}

	c.logger.Debug("backend call",
		zap.String("method", cl.method),
		zap.String("route", cl.route),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", requestID),
		zap.Duration("latency", time.Since(start)))

	if resp.StatusCode >= 400 {
		return resp.StatusCode, resp.Header, nil, parseError(resp.StatusCode, body)
	}
	return resp.StatusCode, resp.Header, body, nil
}

type requestIDKey struct{}

// WithRequestID makes calls under ctx reuse the inbound request id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the id set by WithRequestID.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// fetch performs cl and decodes the body into a new T.
func fetch[T any](ctx context.Context, c *Client, cl *call) (*T, error) {
	var out T
	if err := c.do(ctx, cl, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
