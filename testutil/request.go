// Package testutil builds requests against an in-process gin engine
package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
)

// RequestBuilder fluent request builder
type RequestBuilder struct {
	method  string
	path    string
	body    interface{}
	headers http.Header
	query   url.Values
}

// NewRequest creates a builder
func NewRequest(method, path string) *RequestBuilder {
	return &RequestBuilder{
		method:  method,
		path:    path,
		headers: make(http.Header),
		query:   make(url.Values),
	}
}

// WithJSON sets a body marshaled as JSON
func (rb *RequestBuilder) WithJSON(body interface{}) *RequestBuilder {
	rb.body = body
	return rb
}

// WithHeader sets a header
func (rb *RequestBuilder) WithHeader(key, value string) *RequestBuilder {
	rb.headers.Set(key, value)
	return rb
}

// WithQuery adds a query parameter
func (rb *RequestBuilder) WithQuery(key, value string) *RequestBuilder {
	rb.query.Add(key, value)
	return rb
}

// WithTraceID sets the X-Trace-ID header
func (rb *RequestBuilder) WithTraceID(traceID string) *RequestBuilder {
	return rb.WithHeader("X-Trace-ID", traceID)
}

// Build returns the *http.Request
func (rb *RequestBuilder) Build() *http.Request {
	target := rb.path
	if len(rb.query) > 0 {
		target += "?" + rb.query.Encode()
	}

	var payload []byte
	if rb.body != nil {
		payload, _ = json.Marshal(rb.body)
	}

	req := httptest.NewRequest(rb.method, target, bytes.NewReader(payload))
	for k, values := range rb.headers {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	if rb.body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

// Do serves the request on handler, usually a *gin.Engine
func (rb *RequestBuilder) Do(handler http.Handler) *ResponseHelper {
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, rb.Build())
	return &ResponseHelper{Recorder: w}
}

// ResponseHelper wraps the recorded response
type ResponseHelper struct {
	Recorder *httptest.ResponseRecorder
}

// Status status code
func (rh *ResponseHelper) Status() int {
	return rh.Recorder.Code
}

// Body raw body
func (rh *ResponseHelper) Body() string {
	return rh.Recorder.Body.String()
}

// JSON decodes the body into v
func (rh *ResponseHelper) JSON(v interface{}) error {
	return json.Unmarshal(rh.Recorder.Body.Bytes(), v)
}

// Header response header value
func (rh *ResponseHelper) Header(key string) string {
	return rh.Recorder.Header().Get(key)
}

// GET builds a GET request
func GET(path string) *RequestBuilder {
	return NewRequest(http.MethodGet, path)
}

// POST builds a POST request
func POST(path string) *RequestBuilder {
	return NewRequest(http.MethodPost, path)
}

// PUT builds a PUT request
func PUT(path string) *RequestBuilder {
	return NewRequest(http.MethodPut, path)
}

// DELETE builds a DELETE request
func DELETE(path string) *RequestBuilder {
	return NewRequest(http.MethodDelete, path)
}
