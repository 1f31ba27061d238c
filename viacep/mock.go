package viacep

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"
)

// MockTransport is a test implementation of Transport. It records every
// requested URL.
type MockTransport struct {
	GetFunc func(ctx context.Context, url string) (io.ReadCloser, error)

	mu   sync.Mutex
	urls []string
}

// NewMockTransport returns a MockTransport that answers every request with
// body.
func NewMockTransport(body string) *MockTransport {
	return &MockTransport{
		GetFunc: func(ctx context.Context, url string) (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(body)), nil
		},
	}
}

// Get records url and delegates to GetFunc.
func (m *MockTransport) Get(ctx context.Context, url string) (io.ReadCloser, error) {
	m.mu.Lock()
	m.urls = append(m.urls, url)
	m.mu.Unlock()

	return m.GetFunc(ctx, url)
}

// URLs returns the requested URLs in call order.
func (m *MockTransport) URLs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.urls...)
}

// Calls returns how many requests were made.
func (m *MockTransport) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.urls)
}

// MockDecoder is a test implementation of Decoder.
type MockDecoder struct {
	DecodeFunc func(r io.Reader, v any) error
}

// Decode delegates to DecodeFunc, or to StdDecoder when it is nil.
func (m *MockDecoder) Decode(r io.Reader, v any) error {
	if m.DecodeFunc == nil {
		return StdDecoder{}.Decode(r, v)
	}
	return m.DecodeFunc(r, v)
}

// MockStore is an in-memory Store. GetErr and SetErr, when set, are
// returned instead of touching the map. The zero value is ready to use.
type MockStore struct {
	GetErr error
	SetErr error

	mu   sync.Mutex
	data map[string][]byte
}

func NewMockStore() *MockStore {
	return &MockStore{data: make(map[string][]byte)}
}

func (m *MockStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	return v, nil
}

func (m *MockStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.SetErr != nil {
		return m.SetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = make(map[string][]byte)
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}

// Len returns the number of cached entries.
func (m *MockStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}
