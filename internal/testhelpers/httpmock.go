package testhelpers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
)

// Expectation is one stubbed request/response pair.
type Expectation struct {
	Method string
	URL    *url.URL

	StatusCode int
	RespBody   []byte
	Headers    http.Header

	isMatched      bool
	mismatchReason string
}

// MockTransport answers requests from registered expectations instead of
// hitting the network.
type MockTransport struct {
	expectations []*Expectation
	mutex        sync.Mutex
}

var (
	DefaultTransport                           = &MockTransport{}
	originalDefaultTransport http.RoundTripper = http.DefaultTransport
)

// New registers an expectation for the given base URL.
func New(baseURL string) *Expectation {
	u, err := url.Parse(baseURL)
	if err != nil {
		panic(fmt.Sprintf("httpmock: invalid base URL: %v", err))
	}

	if u.Scheme == "" || u.Host == "" {
		panic(fmt.Sprintf("httpmock: base URL must include scheme and host, got %q", baseURL))
	}

	exp := &Expectation{
		URL:     u,
		Headers: make(http.Header),
	}

	DefaultTransport.mutex.Lock()
	defer DefaultTransport.mutex.Unlock()
	DefaultTransport.expectations = append(DefaultTransport.expectations, exp)
	return exp
}

func (e *Expectation) Get(path string) *Expectation {
	e.Method = http.MethodGet

	u, err := url.Parse(path)
	if err != nil {
		panic(fmt.Sprintf("httpmock: invalid path: %v", err))
	}

	e.URL.Path = u.Path
	e.URL.RawQuery = u.RawQuery
	return e
}

func (e *Expectation) Post(path string) *Expectation {
	e.Method = http.MethodPost
	e.URL.Path = path
	return e
}

func (e *Expectation) Reply(statusCode int) *Expectation {
	e.StatusCode = statusCode
	return e
}

func (e *Expectation) BodyString(body string) *Expectation {
	e.RespBody = []byte(body)
	return e
}

func (e *Expectation) Header(key, value string) *Expectation {
	e.Headers.Set(key, value)
	return e
}

// IsDone reports whether every registered expectation was hit.
func IsDone() bool {
	DefaultTransport.mutex.Lock()
	defer DefaultTransport.mutex.Unlock()

	for _, exp := range DefaultTransport.expectations {
		if !exp.isMatched {
			return false
		}
	}
	return true
}

// Activate routes http.DefaultClient through the mock transport.
func Activate() {
	if http.DefaultClient.Transport == DefaultTransport {
		return
	}

	if http.DefaultClient.Transport != nil {
		originalDefaultTransport = http.DefaultClient.Transport
	} else {
		originalDefaultTransport = http.DefaultTransport
	}

	http.DefaultClient.Transport = DefaultTransport
}

// Deactivate restores the original transport and clears all expectations.
func Deactivate() {
	http.DefaultClient.Transport = originalDefaultTransport

	DefaultTransport.mutex.Lock()
	defer DefaultTransport.mutex.Unlock()
	DefaultTransport.expectations = nil
}

func (t *MockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	for _, exp := range t.expectations {
		if !exp.isMatched && exp.matches(req) {
			exp.isMatched = true
			return exp.buildResponse(req), nil
		}
	}

	var reasons []string
	for _, exp := range t.expectations {
		if exp.mismatchReason != "" {
			reasons = append(reasons, exp.mismatchReason)
		}
	}

	extra := ""
	if len(reasons) > 0 {
		extra = " (" + strings.Join(reasons, "; ") + ")"
	}

	return nil, fmt.Errorf("httpmock: no match for %s %s%s", req.Method, req.URL, extra)
}

func (e *Expectation) matches(req *http.Request) bool {
	e.mismatchReason = ""

	if e.Method != "" && e.Method != req.Method {
		e.mismatchReason = fmt.Sprintf("method mismatch: expected %s got %s", e.Method, req.Method)
		return false
	}

	if e.URL.Scheme != req.URL.Scheme || e.URL.Host != req.URL.Host || e.URL.Path != req.URL.Path {
		e.mismatchReason = fmt.Sprintf("url mismatch: expected %s got %s", e.URL, req.URL)
		return false
	}

	expectedQuery := e.URL.Query()
	actualQuery := req.URL.Query()

	for key, values := range expectedQuery {
		actualValues, ok := actualQuery[key]
		if !ok {
			e.mismatchReason = fmt.Sprintf("missing query key %s", key)
			return false
		}

		if len(actualValues) != len(values) {
			e.mismatchReason = fmt.Sprintf("query value count mismatch for %s: expected %v got %v", key, values, actualValues)
			return false
		}

		for i, value := range values {
			if actualValues[i] != value {
				e.mismatchReason = fmt.Sprintf("query mismatch for %s: expected %s got %s", key, value, actualValues[i])
				return false
			}
		}
	}

	return true
}

func (e *Expectation) buildResponse(req *http.Request) *http.Response {
	statusCode := e.StatusCode
	if statusCode == 0 {
		statusCode = http.StatusOK
	}

	return &http.Response{
		StatusCode:    statusCode,
		Body:          io.NopCloser(bytes.NewReader(e.RespBody)),
		Header:        e.Headers,
		Request:       req,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		ContentLength: int64(len(e.RespBody)),
	}
}
