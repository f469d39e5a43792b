// Package mdfile tests.
package mdfile

import (
	"path/filepath"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// Parse tests
// ---------------------------------------------------------------------------

func TestParse_PlainBody(t *testing.T) {
	f, err := Parse([]byte("Hello world\n\nThis is a paragraph.\n"))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if f.HasFrontMatter() {
		t.Fatal("unexpected front matter")
	}
	entries := f.Entries()
	if len(entries) != 1 || entries[0].Key != BodyKey {
		t.Fatalf("entries = %+v", entries)
	}
	assertEntry(t, f, BodyKey, "Hello world\n\nThis is a paragraph.\n")
}

func TestParse_FrontMatter(t *testing.T) {
	data := []byte(`---
title: Staking 101
tags: [earn, defi]
minutes: 5
---

Body text.
`)
	f, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if !f.HasFrontMatter() {
		t.Fatal("expected front matter")
	}

	var keys []string
	for _, e := range f.Entries() {
		keys = append(keys, e.Key)
	}
	want := "fm:title fm:tags[0] fm:tags[1] body"
	if got := strings.Join(keys, " "); got != want {
		t.Fatalf("keys = %q, want %q", got, want)
	}
	assertEntry(t, f, "fm:title", "Staking 101")
	assertEntry(t, f, BodyKey, "Body text.\n")
}

func TestParse_FrontMatterOnly(t *testing.T) {
	f, err := Parse([]byte("---\ntitle: Hello\n---\n"))
	if err != nil {
		t.Fatal(err)
	}
	entries := f.Entries()
	if len(entries) != 1 || entries[0].Key != "fm:title" {
		t.Fatalf("entries = %+v", entries)
	}
	if _, ok := f.Get(BodyKey); ok {
		t.Fatal("empty body should not be an entry")
	}
}

func TestParse_InvalidFrontMatter(t *testing.T) {
	if _, err := Parse([]byte("---\ntitle: [unclosed\n---\nBody\n")); err == nil {
		t.Fatal("expected front matter error")
	}
}

// ---------------------------------------------------------------------------
// Localize / Marshal
// ---------------------------------------------------------------------------

func TestLocalize_AndMarshal(t *testing.T) {
	data := []byte("---\ntitle: Intro\nminutes: 5\n---\n\nFirst paragraph.\n")
	f, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}

	if n := f.Localize(strings.ToUpper); n != 2 {
		t.Fatalf("Localize changed %d entries, want 2", n)
	}

	out, err := f.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	want := "---\ntitle: INTRO\nminutes: 5\n---\n\nFIRST PARAGRAPH.\n"
	if string(out) != want {
		t.Fatalf("Marshal =\n%q\nwant\n%q", out, want)
	}
}

func TestMarshal_RoundTripUnchanged(t *testing.T) {
	data := "---\ntitle: Intro\n---\n\n# Heading\n\nText.\n"
	f, err := Parse([]byte(data))
	if err != nil {
		t.Fatal(err)
	}
	out, err := f.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != data {
		t.Fatalf("round trip =\n%q\nwant\n%q", out, data)
	}
}

func TestLocalize_BodyGetsTrailingNewline(t *testing.T) {
	f, err := Parse([]byte("Body [en:text=\"x\"]\n"))
	if err != nil {
		t.Fatal(err)
	}
	f.Localize(func(string) string { return "Resolved" })
	out, _ := f.Marshal()
	if string(out) != "Resolved\n" {
		t.Fatalf("Marshal = %q", out)
	}
}

func TestWriteFile(t *testing.T) {
	f, _ := Parse([]byte("---\ntitle: T\n---\nBody\n"))
	path := filepath.Join(t.TempDir(), "zh", "post.md")
	if err := f.WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	f2, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	assertEntry(t, f2, "fm:title", "T")
	assertEntry(t, f2, BodyKey, "Body\n")
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func assertEntry(t *testing.T, f *File, key, wantValue string) {
	t.Helper()
	val, ok := f.Get(key)
	if !ok {
		t.Errorf("key %q not found in file", key)
		return
	}
	if val != wantValue {
		t.Errorf("key %q: want %q, got %q", key, wantValue, val)
	}
}
