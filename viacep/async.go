package viacep

import (
	"context"
)

// Callback receives the outcome of an asynchronous lookup. Exactly one of
// OnSuccess or OnFailure is called, exactly once. Nil funcs are skipped.
type Callback[T any] struct {
	OnSuccess func(T)
	OnFailure func(error)
}

func (cb Callback[T]) success(v T) {
	if cb.OnSuccess != nil {
		cb.OnSuccess(v)
	}
}

func (cb Callback[T]) failure(err error) {
	if cb.OnFailure != nil {
		cb.OnFailure(err)
	}
}

// AsyncClient performs lookups without blocking the caller. Input is
// validated before the call returns; a rejected input is reported to
// OnFailure synchronously and no request is made. Everything else is
// reported from a separate goroutine.
type AsyncClient struct {
	client *Client
}

// NewAsync builds an AsyncClient from cfg with the same defaults as New.
func NewAsync(cfg Config) *AsyncClient {
	return New(cfg).Async()
}

// Client returns the underlying synchronous client and its configuration.
func (a *AsyncClient) Client() *Client {
	return a.client
}

// Address looks up cep and reports the record, or nil for an unknown CEP,
// to cb.
func (a *AsyncClient) Address(ctx context.Context, cep string, cb Callback[*Address]) {
	q, err := NewCEPQuery(cep)
	if err != nil {
		a.client.reject(ctx, opAddress, err)
		cb.failure(err)
		return
	}
	dispatch(cb, func() (*Address, error) {
		return a.client.address(ctx, q)
	})
}

// Search lists matching addresses and reports them to cb.
func (a *AsyncClient) Search(ctx context.Context, uf, localidade, logradouro string, cb Callback[[]Address]) {
	q, err := NewSearchQuery(uf, localidade, logradouro)
	if err != nil {
		a.client.reject(ctx, opSearch, err)
		cb.failure(err)
		return
	}
	dispatch(cb, func() ([]Address, error) {
		return a.client.search(ctx, q)
	})
}

// AddressFuture is Address with the outcome delivered to a Future.
func (a *AsyncClient) AddressFuture(ctx context.Context, cep string) *Future[*Address] {
	f, cb := newFuture[*Address]()
	a.Address(ctx, cep, cb)
	return f
}

// SearchFuture is Search with the outcome delivered to a Future.
func (a *AsyncClient) SearchFuture(ctx context.Context, uf, localidade, logradouro string) *Future[[]Address] {
	f, cb := newFuture[[]Address]()
	a.Search(ctx, uf, localidade, logradouro, cb)
	return f
}

func dispatch[T any](cb Callback[T], fn func() (T, error)) {
	go func() {
		v, err := fn()
		if err != nil {
			cb.failure(err)
			return
		}
		cb.success(v)
	}()
}

// Future holds the outcome of one asynchronous lookup.
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

func newFuture[T any]() (*Future[T], Callback[T]) {
	f := &Future[T]{done: make(chan struct{})}
	cb := Callback[T]{
		OnSuccess: func(v T) {
			f.val = v
			close(f.done)
		},
		OnFailure: func(err error) {
			f.err = err
			close(f.done)
		},
	}
	return f, cb
}

// Done is closed once the outcome is available.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the outcome is available or ctx is done.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
