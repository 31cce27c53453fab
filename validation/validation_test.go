package validation

import (
	"strings"
	"testing"
)

type sample struct {
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
	Format  string `mapstructure:"format" validate:"required,oneof=json console"`
	Retries int    `validate:"gte=0,lte=5"`
}

func TestValidate_Struct(t *testing.T) {
	if err := Validate(sample{BaseURL: "http://x/", Format: "json"}); err != nil {
		t.Fatalf("expected valid struct, got %v", err)
	}

	err := Validate(sample{BaseURL: "not a url", Format: "xml", Retries: 9})
	if err == nil {
		t.Fatal("expected validation error")
	}
	verr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	for _, field := range []string{"base_url", "format", "retries"} {
		if !verr.Has(field) {
			t.Errorf("expected error for %s, got %v", field, verr.Fields)
		}
	}
	if !strings.Contains(err.Error(), "base_url: must be a valid URL") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestValidator_Builder(t *testing.T) {
	err := New().
		Required("route", "posts/#").
		OneOf("method", "GET", []string{"GET", "POST"}).
		Range("status", 200, 100, 599).
		Err()
	if err != nil {
		t.Fatalf("expected no errors, got %v", err)
	}

	v := New().
		Required("route", "  ").
		OneOf("method", "PATCH", []string{"GET", "POST"}).
		Range("status", 42, 100, 599).
		Custom(false, "args", "count mismatch")
	if len(v.Errors()) != 4 {
		t.Fatalf("expected 4 errors, got %v", v.Errors())
	}
	if !strings.Contains(v.Err().Error(), "method: must be one of: GET, POST") {
		t.Errorf("unexpected message %q", v.Err().Error())
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{"BaseURL": "base_u_r_l", "Retries": "retries", "maxBody": "max_body"}
	for in, want := range tests {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
