package bridge

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/kbukum/bridge/dispatch"
	"github.com/kbukum/bridge/logger"
	"github.com/kbukum/bridge/transport"
)

type post struct {
	ID    int
	Title string
}

func (p *post) ParseRaw(raw any) error {
	f, err := Fields(raw)
	if err != nil {
		return err
	}
	if p.ID, err = Int(f, "id"); err != nil {
		return err
	}
	p.Title, err = String(f, "title")
	return err
}

func newTestClient(t *testing.T, tr transport.Transport, opts ...Option) *Client {
	t.Helper()
	q := dispatch.NewQueue()
	t.Cleanup(func() { _ = q.Close(context.Background()) })

	base := []Option{WithTransport(tr), WithExecutor(q), WithLogger(logger.Nop())}
	c, err := New(Config{BaseURL: "http://x/"}, append(base, opts...)...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c
}

// outcome is what the callbacks of one call observed.
type outcome[T any] struct {
	value   T
	err     error
	body    []byte
	req     *http.Request
	resp    *http.Response
	success bool
}

// recorder collects callbacks and counts them.
type recorder[T any] struct {
	mu    sync.Mutex
	calls int
	ch    chan outcome[T]
}

func newRecorder[T any]() *recorder[T] {
	return &recorder[T]{ch: make(chan outcome[T], 8)}
}

func (r *recorder[T]) success(v T) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	r.ch <- outcome[T]{value: v, success: true}
}

func (r *recorder[T]) failure(err error, body []byte, req *http.Request, resp *http.Response) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	r.ch <- outcome[T]{err: err, body: body, req: req, resp: resp}
}

func (r *recorder[T]) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func (r *recorder[T]) wait(t *testing.T) outcome[T] {
	t.Helper()
	select {
	case o := <-r.ch:
		return o
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for callback")
		return outcome[T]{}
	}
}

// expectNone asserts that no callback fires within a short window.
func (r *recorder[T]) expectNone(t *testing.T) {
	t.Helper()
	select {
	case o := <-r.ch:
		t.Fatalf("expected no callback, got %+v", o)
	case <-time.After(100 * time.Millisecond):
	}
}

// execute runs e and waits for its single callback.
func execute[T any](t *testing.T, e *Endpoint[T], opts ...CallOption) outcome[T] {
	t.Helper()
	rec := newRecorder[T]()
	e.Execute(context.Background(), rec.success, append(opts, OnFailure(rec.failure))...)
	return rec.wait(t)
}

// manualExecutor holds posted functions until Run is called.
type manualExecutor struct {
	mu  sync.Mutex
	fns []func()
}

func (m *manualExecutor) Post(fn func()) error {
	m.mu.Lock()
	m.fns = append(m.fns, fn)
	m.mu.Unlock()
	return nil
}

func (m *manualExecutor) Run() int {
	m.mu.Lock()
	fns := m.fns
	m.fns = nil
	m.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
	return len(fns)
}

// syncBuffer is a log sink safe for concurrent writers.
type syncBuffer struct {
	mu  sync.Mutex
	buf []byte
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf = append(b.buf, p...)
	return len(p), nil
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.buf)
}
