package transporttest

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/bridge/transport"
)

func start(t *testing.T, f *Fake, req *http.Request) (transport.Task, <-chan transport.Result) {
	t.Helper()
	ch := make(chan transport.Result, 2)
	task := f.Prepare(req, func(res transport.Result) { ch <- res })
	task.Start()
	return task, ch
}

func wait(t *testing.T, ch <-chan transport.Result) transport.Result {
	t.Helper()
	select {
	case res := <-ch:
		return res
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for result")
		return transport.Result{}
	}
}

func TestJSON(t *testing.T) {
	f := JSON(http.StatusCreated, map[string]int{"id": 1})
	req, _ := http.NewRequest(http.MethodPost, "http://x/items", strings.NewReader(`{"a":1}`))
	_, ch := start(t, f, req)

	res := wait(t, ch)
	if res.Response.StatusCode != http.StatusCreated || string(res.Body) != `{"id":1}` {
		t.Errorf("unexpected result %d %s", res.Response.StatusCode, res.Body)
	}
	if got := string(f.Bodies()[0]); got != `{"a":1}` {
		t.Errorf("expected recorded body, got %s", got)
	}
	if f.Count() != 1 || f.Requests()[0].URL.Path != "/items" {
		t.Error("expected the request to be recorded")
	}
}

func TestFail(t *testing.T) {
	boom := errors.New("boom")
	req, _ := http.NewRequest(http.MethodGet, "http://x/", nil)
	_, ch := start(t, Fail(boom), req)
	if res := wait(t, ch); res.Err != boom {
		t.Errorf("expected boom, got %v", res.Err)
	}
}

func TestHoldCancelRelease(t *testing.T) {
	f := Respond(http.StatusOK, `{}`).Hold()
	req, _ := http.NewRequest(http.MethodGet, "http://x/", nil)

	held, heldCh := start(t, f, req)
	_, okCh := start(t, f, req)
	if f.InFlight() != 2 {
		t.Fatalf("expected 2 in flight, got %d", f.InFlight())
	}

	held.Cancel()
	held.Cancel()
	if res := wait(t, heldCh); !errors.Is(res.Err, transport.ErrCancelled) {
		t.Errorf("expected cancellation, got %v", res.Err)
	}

	f.Release()
	if res := wait(t, okCh); res.Err != nil {
		t.Errorf("expected release to complete the task, got %v", res.Err)
	}
	select {
	case res := <-heldCh:
		t.Errorf("cancelled task delivered twice: %+v", res)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCancelBeforeStart(t *testing.T) {
	f := Respond(http.StatusOK, `{}`)
	req, _ := http.NewRequest(http.MethodGet, "http://x/", nil)
	ch := make(chan transport.Result, 2)
	task := f.Prepare(req, func(res transport.Result) { ch <- res })
	task.Cancel()
	task.Start()

	if res := wait(t, ch); !errors.Is(res.Err, transport.ErrCancelled) {
		t.Errorf("expected cancellation, got %v", res.Err)
	}
	select {
	case <-ch:
		t.Error("expected a single result")
	case <-time.After(50 * time.Millisecond):
	}
}
