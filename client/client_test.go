package client

import (
	"bytes"
	"context"
	"errors"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/r2r-testing/api-contract-tests/framework"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyTransport fails the first failures round trips and then delegates to the default transport.
type flakyTransport struct {
	failures int32
	calls    int32
}

func (f *flakyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	n := atomic.AddInt32(&f.calls, 1)
	if n <= f.failures {
		return nil, errors.New("connection refused")
	}
	return http.DefaultTransport.RoundTrip(req)
}

type recordingSleeper struct {
	delays []time.Duration
}

func (s *recordingSleeper) sleep(ctx context.Context, d time.Duration) error {
	s.delays = append(s.delays, d)
	return ctx.Err()
}

func mustSpec(t *testing.T, method Method, path string, opts ...RequestOption) RequestSpec {
	spec, err := NewRequestSpec(method, path, opts...)
	require.NoError(t, err)
	return spec
}

func TestDefaultHeadersAndBearerToken(t *testing.T) {
	handler, requests := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(200))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		c := New(Config{BaseURL: server.URL + "/", Timeout: time.Second})
		body := ldvalue.ObjectBuild().Set("name", ldvalue.String("docs")).Build()

		out := c.Do(context.Background(), mustSpec(t, MethodPost, "/v3/collections", WithBody(body)), "secret")

		assert.Equal(t, 200, out.StatusCode)
		assert.Equal(t, MethodPost, out.Method)
		assert.Equal(t, server.URL+"/v3/collections", out.URL)
		assert.Equal(t, 1, out.Attempts)
		assert.Empty(t, out.Error)

		req := <-requests
		assert.Equal(t, "POST", req.Request.Method)
		assert.Equal(t, "/v3/collections", req.Request.URL.Path)
		assert.Equal(t, "application/json", req.Request.Header.Get("Content-Type"))
		assert.Equal(t, "application/json", req.Request.Header.Get("Accept"))
		assert.Equal(t, "Bearer secret", req.Request.Header.Get("Authorization"))
		assert.JSONEq(t, `{"name":"docs"}`, string(req.Body))
	})
}

func TestNoTokenMeansNoAuthorizationHeader(t *testing.T) {
	handler, requests := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(401))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		c := New(Config{BaseURL: server.URL, Timeout: time.Second})
		out := c.Do(context.Background(), mustSpec(t, MethodGet, "/v3/users/me"), "")

		assert.Equal(t, 401, out.StatusCode)
		req := <-requests
		assert.Empty(t, req.Request.Header.Get("Authorization"))
		assert.Empty(t, req.Body)
	})
}

func TestHeaderOverridesAndQuery(t *testing.T) {
	handler, requests := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(200))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		c := New(Config{BaseURL: server.URL, Timeout: time.Second})
		spec := mustSpec(t, MethodGet, "/v3/documents",
			WithQuery("offset", "0"), WithQuery("limit", "10"),
			WithHeader("Accept", "text/plain"), WithHeader("X-Trace", "abc"))

		out := c.Do(context.Background(), spec, "")

		assert.Equal(t, server.URL+"/v3/documents?limit=10&offset=0", out.URL)
		req := <-requests
		assert.Equal(t, "10", req.Request.URL.Query().Get("limit"))
		assert.Equal(t, "0", req.Request.URL.Query().Get("offset"))
		assert.Equal(t, "text/plain", req.Request.Header.Get("Accept"))
		assert.Equal(t, "abc", req.Request.Header.Get("X-Trace"))
	})
}

func TestFileUploadIsMultipart(t *testing.T) {
	handler, requests := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(202))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		c := New(Config{BaseURL: server.URL, Timeout: time.Second})
		body := ldvalue.ObjectBuild().
			Set("metadata", ldvalue.ObjectBuild().Set("title", ldvalue.String("t")).Build()).
			Set("ingestion_mode", ldvalue.String("fast")).
			Build()
		spec := mustSpec(t, MethodPost, "/v3/documents",
			WithBody(body), WithFile("file", "doc.txt", []byte("hello world")))

		out := c.Do(context.Background(), spec, "tok")
		assert.Equal(t, 202, out.StatusCode)

		req := <-requests
		mediaType, params, err := mime.ParseMediaType(req.Request.Header.Get("Content-Type"))
		require.NoError(t, err)
		assert.Equal(t, "multipart/form-data", mediaType)
		assert.Equal(t, "Bearer tok", req.Request.Header.Get("Authorization"))

		form, err := multipart.NewReader(bytes.NewReader(req.Body), params["boundary"]).ReadForm(1 << 20)
		require.NoError(t, err)
		assert.Equal(t, []string{"fast"}, form.Value["ingestion_mode"])
		assert.Equal(t, []string{`{"title":"t"}`}, form.Value["metadata"])
		require.Len(t, form.File["file"], 1)
		assert.Equal(t, "doc.txt", form.File["file"][0].Filename)
		assert.Equal(t, int64(len("hello world")), form.File["file"][0].Size)
	})
}

func TestErrorStatusIsNotRetried(t *testing.T) {
	handler, requests := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(500))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		sleeper := &recordingSleeper{}
		c := New(Config{BaseURL: server.URL, Timeout: time.Second, MaxRetries: 3}, WithSleeper(sleeper.sleep))

		out := c.Do(context.Background(), mustSpec(t, MethodGet, "/x"), "")

		assert.Equal(t, 500, out.StatusCode)
		assert.Equal(t, 1, out.Attempts)
		assert.Len(t, requests, 1)
		assert.Empty(t, sleeper.delays)
	})
}

func TestTransportFailureExhaustsRetries(t *testing.T) {
	transport := &flakyTransport{failures: 100}
	sleeper := &recordingSleeper{}
	c := New(Config{BaseURL: "http://api.invalid", Timeout: time.Second, MaxRetries: 3},
		WithHTTPClient(&http.Client{Transport: transport}),
		WithSleeper(sleeper.sleep))

	out := c.Do(context.Background(), mustSpec(t, MethodGet, "/v3/health"), "")

	assert.Equal(t, 0, out.StatusCode)
	assert.True(t, out.TransportFailed())
	assert.Equal(t, 4, out.Attempts)
	assert.Equal(t, int32(4), atomic.LoadInt32(&transport.calls))
	assert.Equal(t, time.Duration(0), out.Elapsed)
	assert.Contains(t, out.Error, "connection refused")
	assert.Equal(t, BodyNone, out.Body.Kind())
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, sleeper.delays)
}

func TestZeroRetriesMeansOneAttempt(t *testing.T) {
	transport := &flakyTransport{failures: 100}
	sleeper := &recordingSleeper{}
	c := New(Config{BaseURL: "http://api.invalid", Timeout: time.Second},
		WithHTTPClient(&http.Client{Transport: transport}),
		WithSleeper(sleeper.sleep))

	out := c.Do(context.Background(), mustSpec(t, MethodGet, "/"), "")

	assert.Equal(t, 1, out.Attempts)
	assert.Equal(t, 0, out.StatusCode)
	assert.Empty(t, sleeper.delays)
}

func TestNegativeRetriesStillMakeOneAttempt(t *testing.T) {
	transport := &flakyTransport{failures: 100}
	sleeper := &recordingSleeper{}
	c := New(Config{BaseURL: "http://api.invalid", Timeout: time.Second, MaxRetries: -2},
		WithHTTPClient(&http.Client{Transport: transport}),
		WithSleeper(sleeper.sleep))

	out := c.Do(context.Background(), mustSpec(t, MethodGet, "/"), "")

	assert.Equal(t, 1, out.Attempts)
	assert.Equal(t, int32(1), atomic.LoadInt32(&transport.calls))
	assert.Contains(t, out.Error, "connection refused")
	assert.Empty(t, sleeper.delays)
}

func TestTransientFailureRecovers(t *testing.T) {
	httphelpers.WithServer(httphelpers.HandlerWithJSONResponse(map[string]string{"status": "ok"}, nil), func(server *httptest.Server) {
		transport := &flakyTransport{failures: 2}
		sleeper := &recordingSleeper{}
		c := New(Config{BaseURL: server.URL, Timeout: time.Second, MaxRetries: 3},
			WithHTTPClient(&http.Client{Transport: transport}),
			WithSleeper(sleeper.sleep))

		out := c.Do(context.Background(), mustSpec(t, MethodGet, "/v3/health"), "")

		assert.Equal(t, 200, out.StatusCode)
		assert.Equal(t, 3, out.Attempts)
		assert.Empty(t, out.Error)
		assert.Equal(t, "ok", out.Body.Lookup("status").StringValue())
		assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, sleeper.delays)
	})
}

func TestCancelledContextStopsRetrying(t *testing.T) {
	transport := &flakyTransport{failures: 100}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := New(Config{BaseURL: "http://api.invalid", Timeout: time.Second, MaxRetries: 5},
		WithHTTPClient(&http.Client{Transport: transport}))

	out := c.Do(ctx, mustSpec(t, MethodGet, "/"), "")

	assert.Equal(t, 0, out.StatusCode)
	assert.Equal(t, 1, out.Attempts)
	assert.NotEmpty(t, out.Error)
}

func TestResponseBodyParsing(t *testing.T) {
	jsonHeaders := http.Header{"Content-Type": []string{"application/json"}}
	textHeaders := http.Header{"Content-Type": []string{"text/plain; charset=utf-8"}}

	for name, tc := range map[string]struct {
		handler http.Handler
		kind    BodyKind
		text    string
	}{
		"JSON object": {httphelpers.HandlerWithResponse(200, jsonHeaders, []byte(`{"a":[1,2]}`)), BodyStructured, `{"a":[1,2]}`},
		"problem JSON": {httphelpers.HandlerWithResponse(400,
			http.Header{"Content-Type": []string{"application/problem+json"}}, []byte(`{"detail":"bad"}`)), BodyStructured, `{"detail":"bad"}`},
		"invalid JSON": {httphelpers.HandlerWithResponse(500, jsonHeaders, []byte(`{oops`)), BodyRaw, `{oops`},
		"plain text":   {httphelpers.HandlerWithResponse(200, textHeaders, []byte(`{"a":1}`)), BodyRaw, `{"a":1}`},
		"empty":        {httphelpers.HandlerWithStatus(204), BodyRaw, ""},
		"HTML error":   {httphelpers.HandlerWithResponse(502, http.Header{"Content-Type": []string{"text/html"}}, []byte("<h1>Bad Gateway</h1>")), BodyRaw, "<h1>Bad Gateway</h1>"},
	} {
		t.Run(name, func(t *testing.T) {
			httphelpers.WithServer(tc.handler, func(server *httptest.Server) {
				c := New(Config{BaseURL: server.URL, Timeout: time.Second})
				out := c.Do(context.Background(), mustSpec(t, MethodGet, "/"), "")
				assert.Equal(t, tc.kind, out.Body.Kind())
				assert.Equal(t, tc.text, out.Body.String())
			})
		})
	}
}

func TestEachAttemptIsLoggedAsCurl(t *testing.T) {
	handler, _ := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(200))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		var logger framework.CapturingLogger
		c := New(Config{BaseURL: server.URL, Timeout: time.Second}).WithDebugLogger(&logger)
		body := ldvalue.ObjectBuild().Set("query", ldvalue.String("what's new?")).Build()

		c.Do(context.Background(), mustSpec(t, MethodPost, "/v3/retrieval/search", WithBody(body)), "top-secret")

		output := logger.Output()
		require.NotEmpty(t, output)
		line := output[0].Message
		assert.Contains(t, line, "curl -X POST")
		assert.Contains(t, line, "'Authorization: Bearer ***'")
		assert.NotContains(t, line, "top-secret")
		assert.Contains(t, line, server.URL+"/v3/retrieval/search")
	})
}
