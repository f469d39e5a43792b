// Package localetag resolves per-language overrides embedded in CMS text.
//
// Content delivered by the CMS carries two kinds of inline markup:
//
//   - control tags ([Sort:3], [Link:/academy], [Show]) used by editors and
//     never shown to readers;
//   - locale tags ([zh:text="你好"], [en:text="Hello"]) that replace the
//     whole string when the reader's language has one.
//
// ProcessText handles a single string end to end. ProcessAPIResponse applies
// locale resolution to every string of a decoded JSON payload.
//
// All functions are pure and safe for concurrent use. They never fail:
// malformed markup is left in the output as literal text.
package localetag

import (
	"strings"

	"github.com/ntx-trading/ntxlocale/jsonvalue"
)

// Processor holds the scanning options. The zero value is ready to use and
// equals New().
type Processor struct {
	mode         Mode
	stripControl bool
}

// Option configures a Processor.
type Option func(*Processor)

// WithMode selects the locale-tag scan mode.
func WithMode(m Mode) Option {
	return func(p *Processor) { p.mode = m }
}

// WithControlTags makes ProcessAPIResponse strip control tags from payload
// strings before resolving locale tags, as ProcessText does.
func WithControlTags() Option {
	return func(p *Processor) { p.stripControl = true }
}

// New returns a Processor. Without options it uses ModeUnified and leaves
// control tags in payload strings.
func New(opts ...Option) *Processor {
	p := &Processor{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Mode returns the scan mode of p.
func (p *Processor) Mode() Mode { return p.mode }

// StripsControlTags reports whether payload walks strip control tags.
func (p *Processor) StripsControlTags() bool { return p.stripControl }

// FindTags returns the locale tags of text in order of appearance, including
// openings that were never closed.
func (p *Processor) FindTags(text string) []Tag {
	if p.mode == ModeLegacy {
		if tags := scanLine(text); len(tags) > 0 {
			return tags
		}
		return scanOpenings(text, closeAtBoundary)
	}
	return scanUnified(text)
}

// Extract collects the locale overrides of text.
func (p *Processor) Extract(text string) TagSet {
	return newTagSet(p.FindTags(text))
}

// StripLocaleTags removes every closed locale tag from text and trims the
// result.
func (p *Processor) StripLocaleTags(text string) string {
	if p.mode == ModeLegacy {
		text = lineTagRe.ReplaceAllLiteralString(text, "")
		text = removeTags(text, scanOpenings(text, closeAtBoundary))
		return strings.TrimSpace(text)
	}
	return strings.TrimSpace(removeTags(text, scanUnified(text)))
}

// ProcessLocaleString returns the override of text for lang. The stripped
// text is returned instead when lang has no override, an empty one, or more
// than one. Control tags are not touched.
func (p *Processor) ProcessLocaleString(text, lang string) string {
	set := p.Extract(text)
	if set.IsDuplicate(lang) {
		return p.StripLocaleTags(text)
	}
	if v, ok := set.Lookup(lang); ok && v != "" {
		return v
	}
	return p.StripLocaleTags(text)
}

// ProcessText strips control tags from text and then resolves it for lang.
func (p *Processor) ProcessText(text, lang string) string {
	return p.ProcessLocaleString(StripControlTags(text), lang)
}

// ProcessValue resolves v for lang when it is a string and returns any other
// value unchanged.
func (p *Processor) ProcessValue(v jsonvalue.Value, lang string) jsonvalue.Value {
	s, ok := v.AsString()
	if !ok {
		return v
	}
	return jsonvalue.String(p.localize(s, lang))
}

// ProcessAPIResponse returns a copy of v with every string resolved for lang.
// Arrays keep their order, objects their keys, and other values pass through.
func (p *Processor) ProcessAPIResponse(v jsonvalue.Value, lang string) jsonvalue.Value {
	return jsonvalue.MapStrings(v, func(s string) string {
		return p.localize(s, lang)
	})
}

func (p *Processor) localize(s, lang string) string {
	if p.stripControl {
		return p.ProcessText(s, lang)
	}
	return p.ProcessLocaleString(s, lang)
}

// Localizer returns a string function bound to lang, for walking documents
// that are not JSON values.
func (p *Processor) Localizer(lang string) func(string) string {
	return func(s string) string { return p.localize(s, lang) }
}

var std = New()

// Extract collects the locale overrides of text using ModeUnified.
func Extract(text string) TagSet { return std.Extract(text) }

// FindTags returns the locale tags of text using ModeUnified.
func FindTags(text string) []Tag { return std.FindTags(text) }

// StripLocaleTags removes locale tags from text using ModeUnified.
func StripLocaleTags(text string) string { return std.StripLocaleTags(text) }

// ProcessLocaleString resolves text for lang using ModeUnified.
func ProcessLocaleString(text, lang string) string {
	return std.ProcessLocaleString(text, lang)
}

// ProcessText strips control tags and resolves text for lang.
func ProcessText(text, lang string) string { return std.ProcessText(text, lang) }

// ProcessValue resolves v for lang when it is a string.
func ProcessValue(v jsonvalue.Value, lang string) jsonvalue.Value {
	return std.ProcessValue(v, lang)
}

// ProcessAPIResponse resolves every string of v for lang. Control tags in
// payload strings are kept; use New(WithControlTags()) to strip them too.
func ProcessAPIResponse(v jsonvalue.Value, lang string) jsonvalue.Value {
	return std.ProcessAPIResponse(v, lang)
}
