package validation

import (
	"testing"
	"unicode/utf8"
)

func TestNormalizeEmail(t *testing.T) {
	cases := map[string]string{
		"Alice@Example.COM":  "alice@example.com",
		"  bob@example.com ": "bob@example.com",
		"carol@example.com":  "carol@example.com",
	}
	for in, want := range cases {
		if got := NormalizeEmail(in); got != want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTrimAndLimit(t *testing.T) {
	if got := TrimAndLimit("  hello  ", 0); got != "hello" {
		t.Errorf("got %q", got)
	}
	if got := TrimAndLimit("hello world", 5); got != "hello" {
		t.Errorf("got %q", got)
	}
	if got := TrimAndLimit("hi", 5); got != "hi" {
		t.Errorf("got %q", got)
	}
}

func TestTrimAndLimitRuneBoundary(t *testing.T) {
	// "héllo": é is 2 bytes, so a 3-byte cap lands mid-rune.
	got := TrimAndLimit("héllo", 3)
	if !utf8.ValidString(got) {
		t.Errorf("truncation produced invalid UTF-8: %q", got)
	}
	if got != "hé" {
		t.Errorf("got %q, want %q", got, "hé")
	}

	// A cap inside a 4-byte rune backs off to the previous boundary.
	got = TrimAndLimit("a\U0001F30D", 3)
	if !utf8.ValidString(got) {
		t.Errorf("truncation produced invalid UTF-8: %q", got)
	}
	if got != "a" {
		t.Errorf("got %q, want %q", got, "a")
	}
}

func TestValidateStructTags(t *testing.T) {
	type payload struct {
		Name  string `validate:"required,min=2"`
		Email string `validate:"required,email"`
	}

	if err := Validate.Struct(payload{Name: "Alice", Email: "alice@example.com"}); err != nil {
		t.Errorf("valid payload rejected: %v", err)
	}
	if err := Validate.Struct(payload{Name: "A", Email: "alice@example.com"}); err == nil {
		t.Error("short name should fail validation")
	}
	if err := Validate.Struct(payload{Name: "Alice", Email: "nope"}); err == nil {
		t.Error("bad email should fail validation")
	}
}
