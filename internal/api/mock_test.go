package api

import (
	"io"
	"net/url"
	"sync"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/bogdanfinn/tls-client/bandwidth"
)

// MockResponseBody is a ReadCloser that simulates reading response data
type MockResponseBody struct {
	data   []byte
	pos    int
	closed bool
}

// NewMockResponseBody creates a new MockResponseBody with the given data
func NewMockResponseBody(data []byte) *MockResponseBody {
	return &MockResponseBody{data: data, pos: 0}
}

// Read implements the io.Reader interface
func (m *MockResponseBody) Read(p []byte) (n int, err error) {
	if m.pos >= len(m.data) {
		return 0, io.EOF
	}
	n = copy(p, m.data[m.pos:])
	m.pos += n
	return n, nil
}

// Close implements the io.Closer interface
func (m *MockResponseBody) Close() error {
	m.closed = true
	return nil
}

// chunkedBody returns one chunk per Read, like a network stream delivering
// frames in arbitrary pieces. An optional error replaces the final io.EOF.
type chunkedBody struct {
	mu     sync.Mutex
	chunks []string
	err    error
	closed bool
}

func newChunkedBody(chunks ...string) *chunkedBody {
	return &chunkedBody{chunks: chunks}
}

func (b *chunkedBody) Read(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.chunks) == 0 {
		if b.err != nil {
			return 0, b.err
		}
		return 0, io.EOF
	}
	n := copy(p, b.chunks[0])
	if n < len(b.chunks[0]) {
		b.chunks[0] = b.chunks[0][n:]
	} else {
		b.chunks = b.chunks[1:]
	}
	return n, nil
}

func (b *chunkedBody) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

func (b *chunkedBody) isClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

// mockHTTPClient implements tls_client.HttpClient for testing
type mockHTTPClient struct {
	doFunc    func(req *fhttp.Request) (*fhttp.Response, error)
	idleCalls int
}

func (m *mockHTTPClient) GetCookies(u *url.URL) []*fhttp.Cookie          { return nil }
func (m *mockHTTPClient) SetCookies(u *url.URL, cookies []*fhttp.Cookie) {}
func (m *mockHTTPClient) SetCookieJar(jar fhttp.CookieJar)               {}
func (m *mockHTTPClient) GetCookieJar() fhttp.CookieJar                  { return nil }
func (m *mockHTTPClient) SetProxy(proxyUrl string) error                 { return nil }
func (m *mockHTTPClient) GetProxy() string                               { return "" }
func (m *mockHTTPClient) SetFollowRedirect(followRedirect bool)          {}
func (m *mockHTTPClient) GetFollowRedirect() bool                        { return false }
func (m *mockHTTPClient) CloseIdleConnections()                          { m.idleCalls++ }
func (m *mockHTTPClient) Get(url string) (*fhttp.Response, error)        { return nil, nil }
func (m *mockHTTPClient) Head(url string) (*fhttp.Response, error)       { return nil, nil }
func (m *mockHTTPClient) Post(url, contentType string, body io.Reader) (*fhttp.Response, error) {
	return nil, nil
}
func (m *mockHTTPClient) GetBandwidthTracker() bandwidth.BandwidthTracker { return nil }

func (m *mockHTTPClient) Do(req *fhttp.Request) (*fhttp.Response, error) {
	if m.doFunc != nil {
		return m.doFunc(req)
	}
	return nil, nil
}

// respondWith returns a mock client answering every request with body
func respondWith(status int, body io.ReadCloser) *mockHTTPClient {
	return &mockHTTPClient{
		doFunc: func(req *fhttp.Request) (*fhttp.Response, error) {
			return &fhttp.Response{
				StatusCode: status,
				Body:       body,
				Header:     make(fhttp.Header),
			}, nil
		},
	}
}

// newTestClient builds a Client around a mock transport with fixed request IDs
func newTestClient(httpClient *mockHTTPClient, opts ...ClientOption) *Client {
	opts = append([]ClientOption{WithHTTPClient(httpClient)}, opts...)
	c, err := NewClient(opts...)
	if err != nil {
		panic(err)
	}
	c.newID = func() string { return "req-test" }
	return c
}
