// Package transporttest provides an in-memory Transport for tests.
//
// A Fake answers every request with its Handler. Held fakes park started
// tasks until Release is called, which lets tests cancel calls that are
// still in flight.
package transporttest

import (
	"bytes"
	"io"
	"net/http"
	"sync"
	"sync/atomic"

	gojson "github.com/goccy/go-json"

	"github.com/kbukum/bridge/transport"
)

// Handler produces the result for a request.
type Handler func(req *http.Request) transport.Result

// Fake is a scripted Transport.
type Fake struct {
	handler Handler
	nextID  atomic.Uint64

	mu       sync.Mutex
	hold     bool
	requests []*http.Request
	bodies   [][]byte
	waiting  map[uint64]*task
	release  chan struct{}
}

var _ transport.Transport = (*Fake)(nil)

// New creates a Fake answering with h.
func New(h Handler) *Fake {
	return &Fake{
		handler: h,
		waiting: make(map[uint64]*task),
		release: make(chan struct{}),
	}
}

// Respond answers every request with status and body.
func Respond(status int, body string) *Fake {
	return New(func(req *http.Request) transport.Result {
		return Response(req, status, body)
	})
}

// JSON answers every request with status and v marshalled as JSON.
func JSON(status int, v any) *Fake {
	data, err := gojson.Marshal(v)
	if err != nil {
		panic(err)
	}
	return Respond(status, string(data))
}

// Fail answers every request with err.
func Fail(err error) *Fake {
	return New(func(*http.Request) transport.Result {
		return transport.Result{Err: err}
	})
}

// Response builds a result carrying an *http.Response for req.
func Response(req *http.Request, status int, body string) transport.Result {
	data := []byte(body)
	return transport.Result{
		Body: data,
		Response: &http.Response{
			StatusCode:    status,
			Status:        http.StatusText(status),
			Header:        http.Header{"Content-Type": []string{"application/json"}},
			Body:          io.NopCloser(bytes.NewReader(data)),
			ContentLength: int64(len(data)),
			Request:       req,
			Proto:         "HTTP/1.1",
			ProtoMajor:    1,
			ProtoMinor:    1,
		},
	}
}

// Hold parks started tasks until Release is called.
func (f *Fake) Hold() *Fake {
	f.mu.Lock()
	f.hold = true
	f.mu.Unlock()
	return f
}

// Release lets every parked and future task complete.
func (f *Fake) Release() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.hold {
		f.hold = false
		close(f.release)
	}
}

// Requests returns the requests started so far.
func (f *Fake) Requests() []*http.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*http.Request, len(f.requests))
	copy(out, f.requests)
	return out
}

// Bodies returns the request bodies sent so far, in start order.
func (f *Fake) Bodies() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]byte, len(f.bodies))
	copy(out, f.bodies)
	return out
}

// Count returns the number of started requests.
func (f *Fake) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// InFlight returns the number of started tasks that have not completed.
func (f *Fake) InFlight() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.waiting)
}

// Prepare implements transport.Transport.
func (f *Fake) Prepare(req *http.Request, done func(transport.Result)) transport.Task {
	return &task{
		id:     f.nextID.Add(1),
		fake:   f,
		req:    req,
		done:   done,
		cancel: make(chan struct{}),
	}
}

func (f *Fake) record(k *task) <-chan struct{} {
	var body []byte
	if k.req.Body != nil {
		body, _ = io.ReadAll(k.req.Body)
		_ = k.req.Body.Close()
		k.req.Body = io.NopCloser(bytes.NewReader(body))
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, k.req)
	f.bodies = append(f.bodies, body)
	f.waiting[k.id] = k
	if !f.hold {
		return nil
	}
	return f.release
}

func (f *Fake) forget(id uint64) {
	f.mu.Lock()
	delete(f.waiting, id)
	f.mu.Unlock()
}

type task struct {
	id       uint64
	fake     *Fake
	req      *http.Request
	done     func(transport.Result)
	once     sync.Once
	started  atomic.Bool
	cancel   chan struct{}
	cancelMu sync.Once
}

func (k *task) ID() uint64 { return k.id }

func (k *task) Start() {
	if !k.started.CompareAndSwap(false, true) {
		return
	}
	release := k.fake.record(k)
	go func() {
		defer k.fake.forget(k.id)
		if release != nil {
			select {
			case <-release:
			case <-k.cancel:
				k.finish(transport.Result{Err: transport.ErrCancelled})
				return
			}
		}
		select {
		case <-k.cancel:
			k.finish(transport.Result{Err: transport.ErrCancelled})
			return
		default:
		}
		k.finish(k.fake.handler(k.req))
	}()
}

func (k *task) Cancel() {
	k.cancelMu.Do(func() { close(k.cancel) })
	if !k.started.Load() {
		go k.finish(transport.Result{Err: transport.ErrCancelled})
	}
}

func (k *task) finish(res transport.Result) {
	k.once.Do(func() { k.done(res) })
}
