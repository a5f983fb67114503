// Package client sends scenario requests to the API under test and reports what came back.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/r2r-testing/api-contract-tests/framework"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// Config holds the settings that come from the API definition.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
}

// Outcome is what one logical call produced. StatusCode is 0 if no response was ever received,
// in which case Error describes the last failure.
type Outcome struct {
	URL        string
	Method     Method
	StatusCode int
	Elapsed    time.Duration
	Body       Body
	Error      string
	Attempts   int
}

// TransportFailed is true if every attempt failed without a response.
func (o Outcome) TransportFailed() bool {
	return o.StatusCode == 0
}

// Client performs logical calls against one base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retry      RetryPolicy
	sleep      Sleeper
	logger     framework.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default *http.Client, whose timeout comes from Config.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithSleeper replaces the function that waits between retries.
func WithSleeper(s Sleeper) Option {
	return func(c *Client) { c.sleep = s }
}

func New(cfg Config, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		retry:      DefaultRetryPolicy(cfg.MaxRetries),
		sleep:      sleepContext,
		logger:     framework.NullLogger(),
	}
	for _, o := range opts {
		o(c)
	}
	if c.logger == nil {
		c.logger = framework.NullLogger()
	}
	return c
}

// WithDebugLogger returns a copy of the client that writes its debug output to l.
func (c *Client) WithDebugLogger(l framework.Logger) *Client {
	c1 := *c
	if l == nil {
		l = framework.NullLogger()
	}
	c1.logger = l
	return &c1
}

// URL returns the absolute URL that spec resolves to.
func (c *Client) URL(spec RequestSpec) string {
	target := c.baseURL + spec.Path()
	if q := spec.Query(); len(q) > 0 {
		target += "?" + q.Encode()
	}
	return target
}

// Do performs one logical call. Transport failures are retried with exponential backoff up to
// the policy's limit; any HTTP response, whatever its status, ends the call. Do never returns
// an error: failures are described in the Outcome.
func (c *Client) Do(ctx context.Context, spec RequestSpec, token string) Outcome {
	target := c.URL(spec)
	out := Outcome{URL: target, Method: spec.Method()}

	var lastErr error
	for attempt := 0; attempt <= c.retry.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := c.retry.Backoff(attempt - 1)
			c.logger.Printf("Request failed (%s), retry %d/%d in %s", lastErr, attempt, c.retry.MaxRetries, delay)
			if err := c.sleep(ctx, delay); err != nil {
				lastErr = err
				break
			}
		}

		out.Attempts = attempt + 1
		req, err := c.newHTTPRequest(ctx, spec, target, token)
		if err != nil {
			lastErr = err
			break
		}
		c.logger.Printf("%s", curlCommand(spec.Method(), target, req.Header, spec))

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}
		data, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		elapsed := time.Since(start)
		if err != nil {
			lastErr = fmt.Errorf("reading response body: %w", err)
			if ctx.Err() != nil {
				break
			}
			continue
		}

		c.logger.Printf("Response status %d after %s (%d bytes)", resp.StatusCode, elapsed, len(data))
		out.StatusCode = resp.StatusCode
		out.Elapsed = elapsed
		out.Body = parseBody(resp.Header.Get("Content-Type"), data)
		return out
	}

	if lastErr != nil {
		out.Error = lastErr.Error()
	}
	c.logger.Printf("Request gave up after %d attempt(s): %s", out.Attempts, out.Error)
	return out
}

func (c *Client) newHTTPRequest(ctx context.Context, spec RequestSpec, target, token string) (*http.Request, error) {
	var body io.Reader
	contentType := "application/json"

	if file, ok := spec.File(); ok {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		for _, field := range formFields(spec.Body()) {
			if err := w.WriteField(field.name, field.value); err != nil {
				return nil, err
			}
		}
		part, err := w.CreateFormFile(file.FieldName, file.FileName)
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(file.Content); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		body = &buf
		contentType = w.FormDataContentType()
	} else if !spec.Body().IsNull() {
		body = strings.NewReader(spec.Body().JSONString())
	}

	req, err := http.NewRequestWithContext(ctx, string(spec.Method()), target, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for name, value := range spec.Headers() {
		req.Header.Set(name, value)
	}
	if spec.HasFile() {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

type formField struct {
	name  string
	value string
}

// formFields flattens the top-level members of an object body into form fields, in key order.
// Strings are sent as-is and other values as JSON.
func formFields(body ldvalue.Value) []formField {
	if body.Type() != ldvalue.ObjectType {
		return nil
	}
	keys := body.Keys()
	sort.Strings(keys)
	fields := make([]formField, 0, len(keys))
	for _, k := range keys {
		v := body.GetByKey(k)
		value := v.JSONString()
		if v.IsString() {
			value = v.StringValue()
		}
		fields = append(fields, formField{name: k, value: value})
	}
	return fields
}
