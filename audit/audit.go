// Package audit checks CMS payload strings for locale-tag problems before
// they reach readers: tags that will be ignored, tags that leak into the
// page as literal text, and tagged strings lacking a language.
package audit

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"

	"github.com/ntx-trading/ntxlocale/localetag"
)

// Leaf is one string from a payload, addressed by its path.
type Leaf struct {
	Path string
	Text string
}

// Kind classifies an issue.
type Kind int

const (
	// Duplicate: a language is tagged more than once, so its override is ignored.
	Duplicate Kind = iota
	// Unterminated: an opening [xx:text=" never closes and stays in the text.
	Unterminated
	// EmptyOverride: [xx:text=""] falls back to the base text.
	EmptyOverride
	// ControlTag: [Sort:n], [Link:...] or [Show] is left in the string.
	ControlTag
	// MissingLanguage: a tagged string has no tag for a requested language.
	MissingLanguage
)

var kindNames = [...]string{
	Duplicate:       "duplicate",
	Unterminated:    "unterminated",
	EmptyOverride:   "empty-override",
	ControlTag:      "control-tag",
	MissingLanguage: "missing-language",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Issue is a single finding.
type Issue struct {
	Path string
	Kind Kind
	// Lang is the language concerned, empty for ControlTag.
	Lang string
}

// Report is the result of Check.
type Report struct {
	// Languages are the requested languages, in the order given.
	Languages []string
	// Leaves is the number of strings checked.
	Leaves int
	// Tagged is the number of strings carrying at least one locale tag.
	Tagged int
	// Covered maps language → tagged strings with a usable override.
	Covered map[string]int
	Issues  []Issue
}

// Check inspects every leaf with p's scan mode. Issues are ordered by leaf,
// then by kind.
func Check(p *localetag.Processor, leaves []Leaf, langs []string) *Report {
	r := &Report{
		Languages: append([]string(nil), langs...),
		Leaves:    len(leaves),
		Covered:   make(map[string]int, len(langs)),
	}
	for _, lang := range langs {
		r.Covered[lang] = 0
	}

	for _, leaf := range leaves {
		var issues []Issue
		set := p.Extract(leaf.Text)

		for _, lang := range set.Languages() {
			if set.IsDuplicate(lang) {
				issues = append(issues, Issue{Path: leaf.Path, Kind: Duplicate, Lang: lang})
			}
		}
		for _, tag := range p.FindTags(leaf.Text) {
			switch {
			case !tag.Closed:
				issues = append(issues, Issue{Path: leaf.Path, Kind: Unterminated, Lang: tag.Lang})
			case tag.Text == "":
				issues = append(issues, Issue{Path: leaf.Path, Kind: EmptyOverride, Lang: tag.Lang})
			}
		}
		if localetag.HasControlTags(leaf.Text) {
			issues = append(issues, Issue{Path: leaf.Path, Kind: ControlTag})
		}

		if set.Len() > 0 {
			r.Tagged++
			for _, lang := range langs {
				text, ok := set.Lookup(lang)
				if !ok {
					issues = append(issues, Issue{Path: leaf.Path, Kind: MissingLanguage, Lang: lang})
					continue
				}
				if text != "" && !set.IsDuplicate(lang) {
					r.Covered[lang]++
				}
			}
		}

		sort.SliceStable(issues, func(i, j int) bool { return issues[i].Kind < issues[j].Kind })
		r.Issues = append(r.Issues, issues...)
	}
	return r
}

// HasIssues reports whether any issue was found.
func (r *Report) HasIssues() bool {
	return len(r.Issues) > 0
}

// Count returns the number of issues of kind k.
func (r *Report) Count(k Kind) int {
	n := 0
	for _, is := range r.Issues {
		if is.Kind == k {
			n++
		}
	}
	return n
}

// Coverage returns the share of tagged strings that lang overrides, as a
// percentage. A payload without tagged strings is fully covered.
func (r *Report) Coverage(lang string) float64 {
	if r.Tagged == 0 {
		return 100
	}
	return float64(r.Covered[lang]) * 100 / float64(r.Tagged)
}

// Write prints the report in a human-readable form.
func (r *Report) Write(w io.Writer) {
	bold := color.New(color.Bold)
	warn := color.New(color.FgYellow)
	ok := color.New(color.FgGreen)

	bold.Fprintln(w, "=== LOCALE TAG AUDIT ===")
	fmt.Fprintf(w, "Strings: %d, tagged: %d\n", r.Leaves, r.Tagged)

	for _, lang := range r.Languages {
		fmt.Fprintf(w, "  %-8s %3d/%d (%.0f%%)\n", lang, r.Covered[lang], r.Tagged, r.Coverage(lang))
	}

	if !r.HasIssues() {
		ok.Fprintln(w, "Issues: None")
		return
	}
	warn.Fprintf(w, "Issues: %d\n", len(r.Issues))
	for _, is := range r.Issues {
		if is.Lang != "" {
			fmt.Fprintf(w, "  - %s: %s [%s]\n", is.Path, is.Kind, is.Lang)
		} else {
			fmt.Fprintf(w, "  - %s: %s\n", is.Path, is.Kind)
		}
	}
}
