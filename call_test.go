package bridge

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/kbukum/bridge/codec"
	"github.com/kbukum/bridge/transport/transporttest"
)

func TestCall_Record(t *testing.T) {
	c := newTestClient(t, transporttest.Respond(http.StatusOK, `{}`))
	ep := Get[Dict](c, "users/#", Named("user"), Property("cache", "none"))

	params := codec.Params{"page": 1}
	rec := newRecorder[Dict]()
	call := ep.Execute(context.Background(), rec.success, Args("u1"), WithParams(params), Tag("Profile"), OnFailure(rec.failure))
	rec.wait(t)

	if _, err := uuid.Parse(call.ID()); err != nil {
		t.Errorf("expected UUID call id, got %q", call.ID())
	}
	if call.Method() != http.MethodGet || call.Route() != "users/#" || call.Path() != "users/u1" {
		t.Errorf("unexpected call %s", call)
	}
	if call.URL() != "http://x/users/u1" {
		t.Errorf("unexpected URL %q", call.URL())
	}
	if call.Context() == nil || call.CreatedAt().IsZero() {
		t.Error("expected context and creation time")
	}
	if args := call.Args(); len(args) != 1 || args[0] != "u1" {
		t.Errorf("unexpected args %v", args)
	}

	// The record holds its own copy of the parameters.
	params["page"] = 99
	call.Params()["page"] = 42
	if v, _ := call.Param("page"); v != 1 {
		t.Errorf("expected page=1, got %v", v)
	}
	if v, _ := call.Property("cache"); v != "none" {
		t.Errorf("expected property, got %v", v)
	}
}

func TestCall_DistinctPerExecution(t *testing.T) {
	c := newTestClient(t, transporttest.Respond(http.StatusOK, `{}`))
	ep := Get[Dict](c, "a")
	r1, r2 := newRecorder[Dict](), newRecorder[Dict]()
	first := ep.Execute(context.Background(), r1.success, Tag("one"))
	second := ep.Execute(context.Background(), r2.success, Tag("two"))
	r1.wait(t)
	r2.wait(t)

	if first.ID() == second.ID() {
		t.Error("expected fresh identifiers per call")
	}
	if first.Tag() != "one" || second.Tag() != "two" {
		t.Errorf("tags leaked between calls: %q %q", first.Tag(), second.Tag())
	}
}

func TestCall_String(t *testing.T) {
	c := newTestClient(t, transporttest.Respond(http.StatusOK, `{}`))
	rec := newRecorder[Dict]()
	call := Post[Dict](c, "items", Property("v", 2)).Execute(context.Background(), rec.success, Param("a", 1), Tag("T"))
	rec.wait(t)

	s := call.String()
	for _, want := range []string{"POST http://x/items", "params: map[a:1]", "properties: map[v:2]", "tag: T"} {
		if !strings.Contains(s, want) {
			t.Errorf("expected %q in %q", want, s)
		}
	}
}

func TestEndpoint_WithPropertyIsCopy(t *testing.T) {
	base := Get[Dict](nil, "a", Property("k", 1))
	derived := base.WithProperty("k", 2).WithProperty("extra", true)

	if v, _ := base.Property("k"); v != 1 {
		t.Errorf("base changed to %v", v)
	}
	if _, ok := base.Property("extra"); ok {
		t.Error("base gained a property")
	}
	if v, _ := derived.Property("k"); v != 2 {
		t.Errorf("expected derived k=2, got %v", v)
	}
	if derived.Method() != http.MethodGet || derived.Route() != "a" {
		t.Error("derived endpoint lost its definition")
	}
	if base.Client() != Default() {
		t.Error("nil client should fall back to Default")
	}
}
