// Package mdfile reads and rewrites Markdown articles with YAML front matter.
//
// CMS articles are exported as Markdown:
//
//	---
//	title: Staking 101 [zh:text="质押入门"]
//	tags: [earn, defi]
//	---
//
//	Staking locks tokens to secure a network.
//	[zh:text="质押是锁定代币以保护网络。
//
//	收益按日发放。"]
//
// Front matter string scalars are entries keyed "fm:<path>" ("fm:title",
// "fm:tags[0]"). The body is a single entry keyed "body", so an override may
// span several paragraphs. Marshal reconstructs the front matter block and
// the body.
package mdfile

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ntx-trading/ntxlocale/yamlfile"
)

// ---------------------------------------------------------------------------
// File model
// ---------------------------------------------------------------------------

// Entry is a single translatable string.
type Entry struct {
	// Key identifies the entry (e.g. "fm:title", "body").
	Key string
	// Value is the current text.
	Value string
}

// BodyKey is the key of the Markdown body.
const BodyKey = "body"

// frontKeyPrefix marks front matter entries.
const frontKeyPrefix = "fm:"

// File represents a parsed Markdown article.
type File struct {
	// front is the parsed front matter, nil if the article has none.
	front *yamlfile.File
	// lead is the whitespace between the front matter and the body text.
	lead string
	// body is the body text without lead.
	body string
}

// ---------------------------------------------------------------------------
// Parsing
// ---------------------------------------------------------------------------

// frontmatterBlock matches a YAML front matter block at the start of the file.
var frontmatterBlock = regexp.MustCompile(`(?s)^---\r?\n(.*?)\r?\n---\r?\n?`)

// ParseFile reads and parses a Markdown article.
func ParseFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse parses Markdown data into a File.
func Parse(data []byte) (*File, error) {
	text := string(data)
	f := &File{}

	if m := frontmatterBlock.FindStringSubmatchIndex(text); m != nil {
		front, err := yamlfile.Parse([]byte(text[m[2]:m[3]]))
		if err != nil {
			return nil, fmt.Errorf("front matter: %w", err)
		}
		f.front = front
		text = text[m[1]:]
	}

	body := strings.TrimLeft(text, " \t\r\n")
	f.lead = text[:len(text)-len(body)]
	f.body = body
	return f, nil
}

// ---------------------------------------------------------------------------
// Querying
// ---------------------------------------------------------------------------

// HasFrontMatter reports whether the article starts with a front matter block.
func (f *File) HasFrontMatter() bool {
	return f.front != nil
}

// Entries returns the front matter strings followed by the body.
func (f *File) Entries() []Entry {
	var entries []Entry
	if f.front != nil {
		for _, e := range f.front.Entries() {
			entries = append(entries, Entry{Key: frontKeyPrefix + e.Path, Value: e.Value})
		}
	}
	if f.body != "" {
		entries = append(entries, Entry{Key: BodyKey, Value: f.body})
	}
	return entries
}

// Get returns the current value for the given key.
func (f *File) Get(key string) (string, bool) {
	if key == BodyKey {
		return f.body, f.body != ""
	}
	if path, ok := strings.CutPrefix(key, frontKeyPrefix); ok && f.front != nil {
		return f.front.Get(path)
	}
	return "", false
}

// Localize replaces every entry value s with fn(s) and returns how many
// values changed.
func (f *File) Localize(fn func(string) string) int {
	changed := 0
	if f.front != nil {
		changed += f.front.Localize(fn)
	}
	if f.body != "" {
		if v := fn(f.body); v != f.body {
			f.body = v
			changed++
		}
	}
	return changed
}

// ---------------------------------------------------------------------------
// Marshaling
// ---------------------------------------------------------------------------

// Marshal serialises the article back to Markdown. A non-empty body always
// ends with a newline.
func (f *File) Marshal() ([]byte, error) {
	var buf bytes.Buffer

	if f.front != nil {
		fm, err := f.front.Marshal()
		if err != nil {
			return nil, fmt.Errorf("marshaling front matter: %w", err)
		}
		buf.WriteString("---\n")
		if trimmed := strings.TrimSpace(string(fm)); trimmed != "" && trimmed != "{}" {
			buf.WriteString(trimmed)
			buf.WriteString("\n")
		}
		buf.WriteString("---\n")
	}

	if f.body != "" {
		buf.WriteString(f.lead)
		buf.WriteString(f.body)
		if !strings.HasSuffix(f.body, "\n") {
			buf.WriteByte('\n')
		}
	}
	return buf.Bytes(), nil
}

// WriteFile serialises the file and writes it to the given path.
func (f *File) WriteFile(path string) error {
	data, err := f.Marshal()
	if err != nil {
		return fmt.Errorf("marshaling Markdown: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
