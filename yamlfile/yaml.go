// Package yamlfile reads and rewrites YAML content documents.
//
// CMS exports sometimes arrive as YAML rather than JSON, for example course
// outlines:
//
//	title: Academy [zh:text="学院"]
//	lessons:
//	  - title: Wallets [zh:text="钱包"]
//	    minutes: 12
//
// Every string scalar, whether it sits in a mapping or a sequence, is an
// entry addressed by its path ("title", "lessons[0].title"). Keys, numbers,
// booleans and nulls are never entries. Marshal writes the document back
// with its original structure, key order and scalar styles.
package yamlfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// File model
// ---------------------------------------------------------------------------

// Entry is a single string scalar.
type Entry struct {
	// Path is the key path (e.g. "nav.home", "lessons[2].title").
	Path string
	// Value is the current scalar value.
	Value string
}

// File is a parsed YAML document.
type File struct {
	// node is the document node, used for round-trip writing.
	node *yaml.Node
	// scalars holds the string scalar nodes in document order.
	scalars []*yaml.Node
	// paths holds the path of each scalar, parallel to scalars.
	paths []string
	// index maps path → position in scalars.
	index map[string]int
}

// ---------------------------------------------------------------------------
// Parsing
// ---------------------------------------------------------------------------

// ParseFile reads and parses a YAML document.
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

// Parse parses YAML data into a File.
func Parse(data []byte) (*File, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	f := &File{
		node:  &doc,
		index: make(map[string]int),
	}
	// yaml.Unmarshal wraps the document in a DocumentNode.
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return f, nil
	}
	collect(doc.Content[0], "", f)
	return f, nil
}

// collect walks node depth-first and records string scalars.
func collect(node *yaml.Node, path string, f *File) {
	switch node.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i].Value
			child := key
			if path != "" {
				child = path + "." + key
			}
			collect(node.Content[i+1], child, f)
		}
	case yaml.SequenceNode:
		for i, item := range node.Content {
			collect(item, path+"["+strconv.Itoa(i)+"]", f)
		}
	case yaml.ScalarNode:
		if !isString(node) {
			return
		}
		f.index[path] = len(f.scalars)
		f.scalars = append(f.scalars, node)
		f.paths = append(f.paths, path)
	case yaml.AliasNode:
		// Visited through its anchor.
	}
}

// isString reports whether a scalar resolves to a string. Plain scalars such
// as 42, true or ~ carry their resolved tag; quoted ones are always !!str.
func isString(node *yaml.Node) bool {
	switch node.ShortTag() {
	case "!!bool", "!!int", "!!float", "!!null", "!!timestamp", "!!binary":
		return false
	}
	return true
}

// ---------------------------------------------------------------------------
// Querying
// ---------------------------------------------------------------------------

// Entries returns all string scalars in document order.
func (f *File) Entries() []Entry {
	entries := make([]Entry, len(f.scalars))
	for i, n := range f.scalars {
		entries[i] = Entry{Path: f.paths[i], Value: n.Value}
	}
	return entries
}

// Get returns the current value for the given path.
func (f *File) Get(path string) (string, bool) {
	idx, ok := f.index[path]
	if !ok {
		return "", false
	}
	return f.scalars[idx].Value, true
}

// Localize replaces every string scalar s with fn(s) and returns how many
// values changed.
func (f *File) Localize(fn func(string) string) int {
	changed := 0
	for _, n := range f.scalars {
		if v := fn(n.Value); v != n.Value {
			setScalar(n, v)
			changed++
		}
	}
	return changed
}

// setScalar stores value as a string. The encoder quotes a !!str scalar
// whose text would resolve to another type ("42", "true", ""), so only
// multi-line values need a style change.
func setScalar(n *yaml.Node, value string) {
	n.Value = value
	n.Tag = "!!str"
	if n.Style == 0 && strings.Contains(value, "\n") {
		n.Style = yaml.LiteralStyle
	}
}

// ---------------------------------------------------------------------------
// Writing
// ---------------------------------------------------------------------------

// Marshal serialises the document back to YAML.
func (f *File) Marshal() ([]byte, error) {
	if f.node == nil || f.node.Kind == 0 {
		return []byte{}, nil
	}
	return yaml.Marshal(f.node)
}

// WriteFile serialises the file and writes it to the given path.
func (f *File) WriteFile(path string) error {
	data, err := f.Marshal()
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
