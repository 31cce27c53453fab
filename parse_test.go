package bridge

import (
	stderrors "errors"
	"math"
	"strings"
	"testing"

	"github.com/kbukum/bridge/errors"
)

type user struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

func TestParseModel(t *testing.T) {
	p, err := ParseModel[post](map[string]any{"id": float64(4), "title": "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID != 4 || p.Title != "x" {
		t.Errorf("unexpected post %+v", p)
	}

	if _, err := ParseModel[post]([]any{}); !errors.IsParsing(err) {
		t.Errorf("expected parsing error, got %v", err)
	}
}

type failing struct{}

func (*failing) ParseRaw(any) error { return stderrors.New("plain failure") }

func TestParseModel_WrapsPlainErrors(t *testing.T) {
	_, err := ParseModel[failing](map[string]any{})
	if !errors.IsParsing(err) {
		t.Fatalf("expected parsing error, got %v", err)
	}
	if !strings.Contains(err.Error(), "plain failure") {
		t.Errorf("expected cause in message, got %v", err)
	}
}

func TestDictAndList(t *testing.T) {
	d, err := ParseModel[Dict](map[string]any{"a": 1})
	if err != nil || d["a"] != 1 {
		t.Errorf("unexpected dict %v (%v)", d, err)
	}
	if _, err := ParseModel[Dict]([]any{1}); !errors.IsParsing(err) {
		t.Errorf("expected parsing error for array, got %v", err)
	}

	l, err := ParseModel[List]([]any{"a", "b"})
	if err != nil || len(l) != 2 {
		t.Errorf("unexpected list %v (%v)", l, err)
	}
	if _, err := ParseModel[List](map[string]any{}); !errors.IsParsing(err) {
		t.Errorf("expected parsing error for object, got %v", err)
	}
}

func TestSlice(t *testing.T) {
	raw := []any{
		map[string]any{"id": float64(1), "title": "a"},
		map[string]any{"id": float64(2), "title": "b"},
	}
	posts, err := ParseModel[Slice[post, *post]](raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(posts) != 2 || posts[1].Title != "b" {
		t.Errorf("unexpected posts %+v", posts)
	}

	raw = append(raw, map[string]any{"id": "three"})
	_, err = ParseModel[Slice[post, *post]](raw)
	if !errors.IsParsing(err) {
		t.Fatalf("expected parsing error, got %v", err)
	}
	if !strings.Contains(err.Error(), "element 2") {
		t.Errorf("expected failing index in message, got %v", err)
	}

	if _, err := ParseModel[Slice[post, *post]](map[string]any{}); !errors.IsParsing(err) {
		t.Errorf("expected parsing error for object, got %v", err)
	}
}

func TestParseJSON(t *testing.T) {
	u, err := ParseJSON[user](map[string]any{"name": "Bob", "age": float64(42)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Name != "Bob" || u.Age != 42 {
		t.Errorf("unexpected user %+v", u)
	}

	users, err := ParseJSON[[]user]([]any{map[string]any{"name": "A"}})
	if err != nil || len(users) != 1 || users[0].Name != "A" {
		t.Errorf("unexpected users %+v (%v)", users, err)
	}

	if _, err := ParseJSON[user]([]any{1}); !errors.IsParsing(err) {
		t.Errorf("expected parsing error, got %v", err)
	}
}

func TestParseString(t *testing.T) {
	s, err := ParseString(map[string]any{"b": 1, "a": []any{true}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != `{"a":[true],"b":1}` {
		t.Errorf("unexpected text %s", s)
	}
}

func TestFieldHelpers(t *testing.T) {
	f := map[string]any{"n": float64(3), "f": 1.5, "s": "x"}
	if n, err := Int(f, "n"); err != nil || n != 3 {
		t.Errorf("expected 3, got %d (%v)", n, err)
	}
	if _, err := Int(f, "f"); !errors.IsParsing(err) {
		t.Errorf("expected non-integral number to fail, got %v", err)
	}
	for _, v := range []float64{1e300, -1e300, -float64(math.MinInt), math.Inf(1)} {
		if _, err := Int(map[string]any{"n": v}, "n"); !errors.IsParsing(err) {
			t.Errorf("expected %g to be out of range, got %v", v, err)
		}
	}
	if n, err := Int(map[string]any{"n": float64(math.MinInt)}, "n"); err != nil || n != math.MinInt {
		t.Errorf("expected MinInt to parse, got %d (%v)", n, err)
	}
	if _, err := String(f, "missing"); !errors.IsParsing(err) {
		t.Errorf("expected missing field to fail, got %v", err)
	}
	if _, err := Fields("scalar"); !errors.IsParsing(err) {
		t.Errorf("expected scalar to fail, got %v", err)
	}
}
