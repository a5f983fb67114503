package client

import (
	"fmt"
	"net/url"
	"strings"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// Method is one of the HTTP methods that a scenario may use.
type Method string

const (
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodPut    Method = "PUT"
	MethodDelete Method = "DELETE"
)

// ParseMethod accepts a method name in any case. Methods other than GET, POST, PUT, and DELETE
// are rejected.
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToUpper(s))
	switch m {
	case MethodGet, MethodPost, MethodPut, MethodDelete:
		return m, nil
	}
	return "", fmt.Errorf("unsupported HTTP method %q", s)
}

// FileAttachment is a file sent as one part of a multipart form.
type FileAttachment struct {
	FieldName string
	FileName  string
	Content   []byte
}

// RequestSpec describes one logical API call. It is built with NewRequestSpec and does not
// change afterward.
type RequestSpec struct {
	method  Method
	path    string
	body    ldvalue.Value
	query   url.Values
	headers map[string]string
	file    *FileAttachment
}

// RequestOption customizes a RequestSpec under construction.
type RequestOption func(*RequestSpec)

// WithBody sets the JSON body. For file uploads, the top-level members of an object body are
// sent as form fields instead.
func WithBody(body ldvalue.Value) RequestOption {
	return func(r *RequestSpec) { r.body = body }
}

// WithQuery adds a query parameter.
func WithQuery(key, value string) RequestOption {
	return func(r *RequestSpec) { r.query.Add(key, value) }
}

// WithHeader overrides or adds a header. Overrides are applied after the default headers.
func WithHeader(name, value string) RequestOption {
	return func(r *RequestSpec) { r.headers[name] = value }
}

// WithFile attaches a file, which turns the request into a multipart form upload.
func WithFile(fieldName, fileName string, content []byte) RequestOption {
	return func(r *RequestSpec) {
		r.file = &FileAttachment{
			FieldName: fieldName,
			FileName:  fileName,
			Content:   append([]byte(nil), content...),
		}
	}
}

// NewRequestSpec validates the method and applies the options.
func NewRequestSpec(method Method, path string, opts ...RequestOption) (RequestSpec, error) {
	m, err := ParseMethod(string(method))
	if err != nil {
		return RequestSpec{}, err
	}
	r := RequestSpec{
		method:  m,
		path:    path,
		body:    ldvalue.Null(),
		query:   make(url.Values),
		headers: make(map[string]string),
	}
	for _, o := range opts {
		o(&r)
	}
	if r.file != nil && r.file.FieldName == "" {
		return RequestSpec{}, fmt.Errorf("file attachment %q has no form field name", r.file.FileName)
	}
	return r, nil
}

func (r RequestSpec) Method() Method { return r.method }

func (r RequestSpec) Path() string { return r.path }

// Body returns the JSON body, or ldvalue.Null() if there is none.
func (r RequestSpec) Body() ldvalue.Value { return r.body }

// Query returns a copy of the query parameters.
func (r RequestSpec) Query() url.Values {
	ret := make(url.Values, len(r.query))
	for k, vv := range r.query {
		ret[k] = append([]string(nil), vv...)
	}
	return ret
}

// Headers returns a copy of the header overrides.
func (r RequestSpec) Headers() map[string]string {
	ret := make(map[string]string, len(r.headers))
	for k, v := range r.headers {
		ret[k] = v
	}
	return ret
}

// File returns the attached file, if any.
func (r RequestSpec) File() (FileAttachment, bool) {
	if r.file == nil {
		return FileAttachment{}, false
	}
	f := *r.file
	f.Content = append([]byte(nil), r.file.Content...)
	return f, true
}

func (r RequestSpec) HasFile() bool { return r.file != nil }
