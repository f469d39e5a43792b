package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/ntx-trading/ntxlocale/localetag"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestLoadFileDefaultsAndValidation(t *testing.T) {
	t.Run("missing file returns nil", func(t *testing.T) {
		f, err := LoadFile(t.TempDir())
		if err != nil {
			t.Fatalf("LoadFile error: %v", err)
		}
		if f != nil {
			t.Fatalf("LoadFile expected nil, got %#v", f)
		}
	})

	t.Run("applies defaults and inheritance", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "languages: [en, zh]\n"+
			"targets:\n"+
			"  - name: courses\n"+
			"    input: cms/courses.json\n"+
			"    output: out/{lang}/courses.json\n"+
			"  - name: outline\n"+
			"    input: cms/outline.yml\n"+
			"    output: out/{lang}/outline.yml\n"+
			"    languages: [zh]\n")

		f, err := LoadFile(dir)
		if err != nil {
			t.Fatalf("LoadFile error: %v", err)
		}
		if f.DefaultLanguage != "en" {
			t.Fatalf("DefaultLanguage = %q, want en", f.DefaultLanguage)
		}
		if len(f.Targets) != 2 {
			t.Fatalf("expected 2 targets, got %d", len(f.Targets))
		}
		courses, outline := f.Targets[0], f.Targets[1]
		if courses.Format != FormatJSON || outline.Format != FormatYAML {
			t.Fatalf("formats = %q, %q", courses.Format, outline.Format)
		}
		if !reflect.DeepEqual(courses.Languages, []string{"en", "zh"}) {
			t.Fatalf("courses.Languages = %v, want [en zh]", courses.Languages)
		}
		if !reflect.DeepEqual(outline.Languages, []string{"zh"}) {
			t.Fatalf("outline.Languages = %v, want [zh]", outline.Languages)
		}
	})

	t.Run("default language without languages", func(t *testing.T) {
		f, err := Parse([]byte("targets: []\n"))
		if err != nil {
			t.Fatalf("Parse error: %v", err)
		}
		if f.DefaultLanguage != DefaultLanguage {
			t.Fatalf("DefaultLanguage = %q, want %q", f.DefaultLanguage, DefaultLanguage)
		}
	})

	t.Run("error names the file", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "scan_mode: fast\n")
		_, err := LoadFile(dir)
		if err == nil || !strings.Contains(err.Error(), FileName) {
			t.Fatalf("expected error naming %s, got %v", FileName, err)
		}
	})
}

func TestParseValidation(t *testing.T) {
	cases := []struct {
		name    string
		content string
		wantErr string
	}{
		{"missing name", "languages: [zh]\ntargets:\n  - input: a.json\n    output: '{lang}.json'\n", "has no name"},
		{"duplicate name", "languages: [zh]\ntargets:\n  - {name: a, input: a.json, output: '{lang}/a.json'}\n  - {name: a, input: b.json, output: '{lang}/b.json'}\n", "duplicate target"},
		{"missing input", "languages: [zh]\ntargets:\n  - name: a\n    output: '{lang}.json'\n", "has no input"},
		{"output without placeholder", "languages: [zh]\ntargets:\n  - name: a\n    input: a.json\n    output: out.json\n", "must contain {lang}"},
		{"unknown format", "languages: [zh]\ntargets:\n  - name: a\n    input: a.txt\n    output: '{lang}.txt'\n", "unknown format"},
		{"no languages", "targets:\n  - name: a\n    input: a.json\n    output: '{lang}.json'\n", "has no languages"},
		{"invalid global language", "languages: [pt-BR]\n", "invalid language code"},
		{"invalid target language", "targets:\n  - {name: a, input: a.json, output: '{lang}.json', languages: ['zh TW']}\n", "invalid language code"},
		{"bad yaml", "targets: [\n", "parsing config"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.content))
			if err == nil {
				t.Fatalf("expected error containing %q", tc.wantErr)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error = %q, want substring %q", err, tc.wantErr)
			}
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	cases := map[string]string{
		"a.json":       FormatJSON,
		"dir/B.JSON":   FormatJSON,
		"a.yaml":       FormatYAML,
		"a.yml":        FormatYAML,
		"post.md":      FormatMarkdown,
		"a.txt":        "",
		"no-extension": "",
	}
	for in, want := range cases {
		if got := FormatFromPath(in); got != want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestResolveAndOutputPath(t *testing.T) {
	dir := t.TempDir()
	f, err := Parse([]byte("languages: [zh, en]\n" +
		"targets:\n" +
		"  - name: courses\n" +
		"    input: cms/courses.json\n" +
		"    output: out/{lang}/courses.{lang}.json\n"))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	resolved, err := f.Resolve(dir)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if len(resolved) != 1 {
		t.Fatalf("expected 1 resolved target, got %d", len(resolved))
	}
	rt := resolved[0]
	if want := filepath.Join(dir, "cms", "courses.json"); rt.AbsInput != want {
		t.Fatalf("AbsInput = %q, want %q", rt.AbsInput, want)
	}
	if want := filepath.Join(dir, "out", "en", "courses.en.json"); rt.OutputPath("en") != want {
		t.Fatalf("OutputPath(en) = %q, want %q", rt.OutputPath("en"), want)
	}
}

func TestProcessor(t *testing.T) {
	f, err := Parse([]byte("scan_mode: legacy\nstrip_control_tags: true\n"))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	p := f.Processor()
	if p.Mode() != localetag.ModeLegacy {
		t.Fatalf("Mode() = %v, want legacy", p.Mode())
	}
	if !p.StripsControlTags() {
		t.Fatal("StripsControlTags() = false, want true")
	}

	f, _ = Parse([]byte("languages: [zh]\n"))
	if p := f.Processor(); p.Mode() != localetag.ModeUnified || p.StripsControlTags() {
		t.Fatalf("default processor = %v, strip=%v", p.Mode(), p.StripsControlTags())
	}
}

func TestAllLanguages(t *testing.T) {
	f, err := Parse([]byte("languages: [zh]\n" +
		"targets:\n" +
		"  - {name: a, input: a.json, output: '{lang}/a.json', languages: [ja, en]}\n" +
		"  - {name: b, input: b.json, output: '{lang}/b.json'}\n"))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if got, want := f.AllLanguages(), []string{"en", "ja", "zh"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("AllLanguages() = %v, want %v", got, want)
	}
}
