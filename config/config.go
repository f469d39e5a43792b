// Package config loads the .ntxlocale.yaml project configuration.
//
// The file declares which CMS exports a project localizes and where the
// per-language results go:
//
//	languages: [zh, en]
//	default_language: zh
//	scan_mode: unified
//	targets:
//	  - name: courses
//	    input: cms/courses.json
//	    output: public/i18n/{lang}/courses.json
//
// Every target must be declared explicitly; nothing is auto-detected.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ntx-trading/ntxlocale/langmeta"
	"github.com/ntx-trading/ntxlocale/localetag"
)

// ---------------------------------------------------------------------------
// YAML schema
// ---------------------------------------------------------------------------

// File is the top-level .ntxlocale.yaml structure.
type File struct {
	// Languages is the default language list for all targets.
	Languages []string `yaml:"languages,omitempty"`
	// DefaultLanguage is used when no language can be matched from the
	// environment (default: first of Languages, or "zh").
	DefaultLanguage string `yaml:"default_language,omitempty"`
	// ScanMode selects the locale-tag scanner: "unified" or "legacy".
	ScanMode string `yaml:"scan_mode,omitempty"`
	// StripControlTags also removes [Sort:n], [Link:...] and [Show] markers
	// when localizing payloads.
	StripControlTags bool `yaml:"strip_control_tags,omitempty"`
	// Targets is the list of payloads to localize.
	Targets []Target `yaml:"targets"`
}

// Target describes a single CMS export and its localized outputs.
type Target struct {
	// Name is a human-readable label shown in logs.
	Name string `yaml:"name"`
	// Input is the source payload relative to the config file.
	Input string `yaml:"input"`
	// Output is the per-language output path; must contain {lang}.
	Output string `yaml:"output"`
	// Format is "json", "yaml" or "markdown"; inferred from Input when empty.
	Format string `yaml:"format,omitempty"`
	// Languages overrides the global language list for this target.
	Languages []string `yaml:"languages,omitempty"`
}

// FormatJSON marks JSON payloads.
const FormatJSON = "json"

// FormatYAML marks YAML payloads.
const FormatYAML = "yaml"

// FormatMarkdown marks Markdown articles with YAML front matter.
const FormatMarkdown = "markdown"

// LangPlaceholder is replaced by the language code in output paths.
const LangPlaceholder = "{lang}"

// DefaultLanguage is used when neither the config nor the environment names one.
const DefaultLanguage = "zh"

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// FileName is the config file name.
const FileName = ".ntxlocale.yaml"

// LoadFile loads and validates .ntxlocale.yaml from the given directory.
// Returns nil if no config file exists.
func LoadFile(rootDir string) (*File, error) {
	path := filepath.Join(rootDir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes config data, fills in defaults and validates it.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := f.normalize(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) normalize() error {
	for _, lang := range f.Languages {
		if !langmeta.Valid(lang) {
			return fmt.Errorf("invalid language code %q", lang)
		}
	}
	if f.DefaultLanguage == "" {
		f.DefaultLanguage = DefaultLanguage
		if len(f.Languages) > 0 {
			f.DefaultLanguage = f.Languages[0]
		}
	}
	if _, ok := localetag.ParseMode(f.ScanMode); !ok {
		return fmt.Errorf("unknown scan_mode %q (valid: unified, legacy)", f.ScanMode)
	}

	seen := make(map[string]bool)
	for i := range f.Targets {
		t := &f.Targets[i]

		if t.Name == "" {
			return fmt.Errorf("target #%d has no name", i+1)
		}
		if seen[t.Name] {
			return fmt.Errorf("duplicate target name %q", t.Name)
		}
		seen[t.Name] = true

		if t.Input == "" {
			return fmt.Errorf("target %q has no input", t.Name)
		}
		if !strings.Contains(t.Output, LangPlaceholder) {
			return fmt.Errorf("target %q: output %q must contain %s", t.Name, t.Output, LangPlaceholder)
		}

		if t.Format == "" {
			t.Format = FormatFromPath(t.Input)
		}
		switch t.Format {
		case FormatJSON, FormatYAML, FormatMarkdown:
		default:
			return fmt.Errorf("target %q has unknown format %q (valid: json, yaml, markdown)", t.Name, t.Format)
		}

		// Inherit global languages if not overridden
		if len(t.Languages) == 0 {
			t.Languages = f.Languages
		}
		if len(t.Languages) == 0 {
			return fmt.Errorf("target %q has no languages", t.Name)
		}
		for _, lang := range t.Languages {
			if !langmeta.Valid(lang) {
				return fmt.Errorf("target %q: invalid language code %q", t.Name, lang)
			}
		}
	}
	return nil
}

// FormatFromPath infers the payload format from a file extension.
// Unknown extensions yield "".
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".md", ".markdown":
		return FormatMarkdown
	}
	return ""
}

// Processor builds the locale-tag processor the config asks for.
func (f *File) Processor() *localetag.Processor {
	mode, _ := localetag.ParseMode(f.ScanMode)
	opts := []localetag.Option{localetag.WithMode(mode)}
	if f.StripControlTags {
		opts = append(opts, localetag.WithControlTags())
	}
	return localetag.New(opts...)
}

// ---------------------------------------------------------------------------
// Resolving targets
// ---------------------------------------------------------------------------

// ResolvedTarget holds a target with absolute paths.
type ResolvedTarget struct {
	Target    Target
	AbsInput  string
	AbsOutput string
	Languages []string
}

// Resolve converts the config targets into ResolvedTargets with absolute
// paths relative to projectRoot.
func (f *File) Resolve(projectRoot string) ([]ResolvedTarget, error) {
	absProjectRoot, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, err
	}

	resolved := make([]ResolvedTarget, 0, len(f.Targets))
	for _, t := range f.Targets {
		resolved = append(resolved, ResolvedTarget{
			Target:    t,
			AbsInput:  absPath(absProjectRoot, t.Input),
			AbsOutput: absPath(absProjectRoot, t.Output),
			Languages: t.Languages,
		})
	}
	return resolved, nil
}

func absPath(root, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, p)
}

// OutputPath returns the output file for a language.
func (rt *ResolvedTarget) OutputPath(lang string) string {
	return ExpandOutput(rt.AbsOutput, lang)
}

// ExpandOutput substitutes lang for every {lang} in pattern.
func ExpandOutput(pattern, lang string) string {
	return strings.ReplaceAll(pattern, LangPlaceholder, lang)
}

// AllLanguages returns the deduplicated, sorted union of all target languages
// and the global list.
func (f *File) AllLanguages() []string {
	seen := make(map[string]bool)
	var all []string
	add := func(langs []string) {
		for _, lang := range langs {
			if !seen[lang] {
				seen[lang] = true
				all = append(all, lang)
			}
		}
	}
	add(f.Languages)
	for _, t := range f.Targets {
		add(t.Languages)
	}
	sort.Strings(all)
	return all
}
