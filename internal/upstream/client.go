package upstream

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

// Config configures the marketplace API client
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	RetryCount int
	UserAgent  string
}

// Client talks to the marketplace REST API on behalf of the caller whose
// bearer token is carried in the request context.
type Client struct {
	http *resty.Client
	name string
}

// New creates a client with retry on transport failures, 408, 429 and 5xx for reads
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "FashionMart-BFF/1.0"
	}

	rc := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", cfg.UserAgent).
		SetRetryCount(max(cfg.RetryCount, 0)).
		SetRetryWaitTime(100 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second)
	rc.AddRetryCondition(retryCondition)

	return &Client{http: rc, name: "marketplace"}
}

// retryCondition retries reads only; mutations are never repeated
func retryCondition(r *resty.Response, err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if r == nil || r.Request == nil {
		return err != nil
	}
	if r.Request.Method != http.MethodGet {
		return false
	}
	if err != nil {
		return true
	}
	code := r.StatusCode()
	return code >= 500 || code == http.StatusTooManyRequests || code == http.StatusRequestTimeout
}

// List fetches one page of a collection and returns the raw response body
func (c *Client) List(ctx context.Context, resource string, q Query) ([]byte, error) {
	req := c.request(ctx).SetQueryParamsFromValues(q.Values())
	resp, err := c.do(req, "list "+resource, http.MethodGet, "/"+url.PathEscape(resource))
	if err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

// Action posts to /<resource>/<id>/<action> and returns the updated entity body
func (c *Client) Action(ctx context.Context, resource, id, action string, body any) ([]byte, error) {
	req := c.request(ctx)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	path := fmt.Sprintf("/%s/%s/%s", url.PathEscape(resource), url.PathEscape(id), url.PathEscape(action))
	resp, err := c.do(req, action+" "+resource, http.MethodPost, path)
	if err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

// Delete removes one entity
func (c *Client) Delete(ctx context.Context, resource, id string) error {
	path := fmt.Sprintf("/%s/%s", url.PathEscape(resource), url.PathEscape(id))
	_, err := c.do(c.request(ctx), "delete "+resource, http.MethodDelete, path)
	return err
}

// Blob is a binary export
type Blob struct {
	Data        []byte
	ContentType string
	Filename    string
}

// Export downloads /<resource>/export?format=<format>
func (c *Client) Export(ctx context.Context, resource, format string, q Query) (*Blob, error) {
	params := q.Values()
	params.Set("format", format)
	req := c.request(ctx).SetQueryParamsFromValues(params).SetHeader("Accept", "*/*")
	resp, err := c.do(req, "export "+resource, http.MethodGet, "/"+url.PathEscape(resource)+"/export")
	if err != nil {
		return nil, err
	}

	blob := &Blob{
		Data:        resp.Body(),
		ContentType: resp.Header().Get("Content-Type"),
		Filename:    resource + "." + extension(format),
	}
	if _, params, err := mime.ParseMediaType(resp.Header().Get("Content-Disposition")); err == nil && params["filename"] != "" {
		blob.Filename = params["filename"]
	}
	if blob.ContentType == "" {
		blob.ContentType = "application/octet-stream"
	}
	return blob, nil
}

func (c *Client) request(ctx context.Context) *resty.Request {
	req := c.http.R().SetContext(ctx)
	if tok := TokenFrom(ctx); tok != "" {
		req.SetAuthToken(tok)
	}
	if id := RequestIDFrom(ctx); id != "" {
		req.SetHeader("X-Request-ID", id)
	}
	return req
}

func (c *Client) do(req *resty.Request, op, method, path string) (*resty.Response, error) {
	log.Debug().
		Str("upstream", c.name).
		Str("method", method).
		Str("path", path).
		Msg("making upstream request")

	resp, err := req.Execute(method, path)
	if err != nil {
		log.Error().
			Str("upstream", c.name).
			Str("path", path).
			Err(err).
			Msg("upstream request failed")
		return nil, &Error{Op: op, Kind: KindTransport, Message: err.Error(), Err: err}
	}

	log.Debug().
		Str("upstream", c.name).
		Int("status_code", resp.StatusCode()).
		Int("body_length", len(resp.Body())).
		Dur("duration", resp.Time()).
		Msg("received upstream response")

	if !resp.IsSuccess() {
		return nil, statusError(op, resp.StatusCode(), resp.Body())
	}
	return resp, nil
}

func extension(format string) string {
	if format == "excel" {
		return "xlsx"
	}
	return format
}
