package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ntx-trading/ntxlocale/audit"
	"github.com/ntx-trading/ntxlocale/config"
	"github.com/ntx-trading/ntxlocale/jsonvalue"
	"github.com/ntx-trading/ntxlocale/localetag"
	"github.com/ntx-trading/ntxlocale/mdfile"
	"github.com/ntx-trading/ntxlocale/yamlfile"
)

// document is a parsed CMS payload.
type document interface {
	// localize returns the payload with every string resolved for lang.
	// The document itself is left unchanged.
	localize(p *localetag.Processor, lang string) ([]byte, error)
	// leaves returns every string with its path.
	leaves() []audit.Leaf
	// compacted returns a copy that writes without indentation, if the
	// format has any.
	compacted() document
}

func parseDocument(data []byte, format string) (document, error) {
	switch format {
	case config.FormatJSON:
		v, err := jsonvalue.Parse(data)
		if err != nil {
			return nil, err
		}
		return jsonDocument{value: v}, nil
	case config.FormatYAML:
		f, err := yamlfile.Parse(data)
		if err != nil {
			return nil, err
		}
		return yamlDocument{data: data, file: f}, nil
	case config.FormatMarkdown:
		f, err := mdfile.Parse(data)
		if err != nil {
			return nil, err
		}
		return markdownDocument{data: data, file: f}, nil
	}
	return nil, fmt.Errorf("unknown format %q (valid: json, yaml, markdown)", format)
}

type jsonDocument struct {
	value   jsonvalue.Value
	compact bool
}

func (d jsonDocument) localize(p *localetag.Processor, lang string) ([]byte, error) {
	v := p.ProcessAPIResponse(d.value, lang)
	if !d.compact {
		return jsonvalue.MarshalIndent(v)
	}
	out, err := jsonvalue.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

func (d jsonDocument) leaves() []audit.Leaf {
	var leaves []audit.Leaf
	jsonvalue.Walk(d.value, func(path, s string) {
		leaves = append(leaves, audit.Leaf{Path: path, Text: s})
	})
	return leaves
}

func (d jsonDocument) compacted() document {
	d.compact = true
	return d
}

// yamlDocument keeps the source bytes so each language starts from a fresh
// node tree.
type yamlDocument struct {
	data []byte
	file *yamlfile.File
}

func (d yamlDocument) localize(p *localetag.Processor, lang string) ([]byte, error) {
	f, err := yamlfile.Parse(d.data)
	if err != nil {
		return nil, err
	}
	f.Localize(p.Localizer(lang))
	return f.Marshal()
}

func (d yamlDocument) leaves() []audit.Leaf {
	entries := d.file.Entries()
	leaves := make([]audit.Leaf, len(entries))
	for i, e := range entries {
		leaves[i] = audit.Leaf{Path: e.Path, Text: e.Value}
	}
	return leaves
}

func (d yamlDocument) compacted() document {
	return d
}

type markdownDocument struct {
	data []byte
	file *mdfile.File
}

func (d markdownDocument) localize(p *localetag.Processor, lang string) ([]byte, error) {
	f, err := mdfile.Parse(d.data)
	if err != nil {
		return nil, err
	}
	f.Localize(p.Localizer(lang))
	return f.Marshal()
}

func (d markdownDocument) leaves() []audit.Leaf {
	entries := d.file.Entries()
	leaves := make([]audit.Leaf, len(entries))
	for i, e := range entries {
		leaves[i] = audit.Leaf{Path: e.Key, Text: e.Value}
	}
	return leaves
}

func (d markdownDocument) compacted() document {
	return d
}

// writeOutput writes data to path, creating parent directories.
func writeOutput(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
