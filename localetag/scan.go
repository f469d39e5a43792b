package localetag

import (
	"regexp"
	"sort"
	"strings"
)

// Locale tags embed per-language overrides in CMS text:
//
//	Hello [zh:text="你好"] [en:text="Hello"]
//
// The language code is any run of ASCII word characters. The content ends at
// a `"]` sequence. Two closing rules exist:
//
//   - line rule: the nearest `"]` on the same line as the opening quote.
//   - boundary rule: the first `"]` followed by end of text, a line break, a
//     space, a tab or `[`. Content may span lines under this rule.
//
// The boundary rule is a heuristic: content that itself contains `"] ` is
// cut short. Published CMS content depends on this exact behavior.

const closeDelim = `"]`

var (
	// openTagRe matches the opening of a locale tag up to the quote.
	openTagRe = regexp.MustCompile(`\[(\w+):text="`)
	// lineTagRe is the legacy single-line tag grammar.
	lineTagRe = regexp.MustCompile(`\[(\w+):text="([^\r\n]*?)"\]`)
)

// Mode selects how locale tags are located.
type Mode int

const (
	// ModeUnified finds both tag shapes in the same text: single-line tags
	// with the line rule and multi-line tags with the boundary rule.
	ModeUnified Mode = iota
	// ModeLegacy reproduces the two-tier scan: the line-rule regex runs
	// first and, when it finds any tag at all, its result is final; only
	// text without a single-line tag falls back to the boundary rule. A
	// multi-line tag next to a single-line tag is therefore not extracted.
	ModeLegacy
)

func (m Mode) String() string {
	switch m {
	case ModeUnified:
		return "unified"
	case ModeLegacy:
		return "legacy"
	}
	return "unknown"
}

// ParseMode converts "unified" or "legacy" into a Mode.
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "unified":
		return ModeUnified, true
	case "legacy":
		return ModeLegacy, true
	}
	return ModeUnified, false
}

// Tag is one locale tag occurrence in a text.
type Tag struct {
	// Lang is the language code.
	Lang string
	// Text is the override content. Empty when the tag is not closed.
	Text string
	// Start and End are byte offsets of the whole tag, brackets included.
	// For an unclosed tag End is the offset just past the opening quote.
	Start, End int
	// Closed is false when no acceptable closing delimiter was found.
	Closed bool
}

// TagSet is the result of extracting locale tags from one text.
type TagSet struct {
	// Tags maps language code to override text. When a code occurs more
	// than once the last occurrence is stored.
	Tags map[string]string
	// Duplicates holds the codes that occurred more than once.
	Duplicates map[string]struct{}
}

// Lookup returns the override stored for lang.
func (s TagSet) Lookup(lang string) (string, bool) {
	v, ok := s.Tags[lang]
	return v, ok
}

// IsDuplicate reports whether lang occurred more than once.
func (s TagSet) IsDuplicate(lang string) bool {
	_, ok := s.Duplicates[lang]
	return ok
}

// Languages returns the extracted language codes, sorted.
func (s TagSet) Languages() []string {
	langs := make([]string, 0, len(s.Tags))
	for l := range s.Tags {
		langs = append(langs, l)
	}
	sort.Strings(langs)
	return langs
}

// Len returns the number of distinct language codes.
func (s TagSet) Len() int { return len(s.Tags) }

func newTagSet(tags []Tag) TagSet {
	set := TagSet{
		Tags:       make(map[string]string),
		Duplicates: make(map[string]struct{}),
	}
	for _, t := range tags {
		if !t.Closed {
			continue
		}
		if _, seen := set.Tags[t.Lang]; seen {
			set.Duplicates[t.Lang] = struct{}{}
		}
		set.Tags[t.Lang] = t.Text
	}
	return set
}

// scanLine finds single-line tags with the legacy regex.
func scanLine(text string) []Tag {
	var tags []Tag
	for _, m := range lineTagRe.FindAllStringSubmatchIndex(text, -1) {
		tags = append(tags, Tag{
			Lang:   text[m[2]:m[3]],
			Text:   text[m[4]:m[5]],
			Start:  m[0],
			End:    m[1],
			Closed: true,
		})
	}
	return tags
}

// scanOpenings walks every tag opening from left to right and asks closeAt
// for the offset of the closing delimiter. Scanning resumes after a closed
// tag, or right after the opening of an unclosed one.
func scanOpenings(text string, closeAt func(text string, body int) (int, bool)) []Tag {
	var tags []Tag
	pos := 0
	for pos < len(text) {
		m := openTagRe.FindStringSubmatchIndex(text[pos:])
		if m == nil {
			break
		}
		start, body := pos+m[0], pos+m[1]
		lang := text[pos+m[2] : pos+m[3]]

		end, ok := closeAt(text, body)
		if !ok {
			tags = append(tags, Tag{Lang: lang, Start: start, End: body})
			pos = body
			continue
		}
		tags = append(tags, Tag{
			Lang:   lang,
			Text:   text[body:end],
			Start:  start,
			End:    end + len(closeDelim),
			Closed: true,
		})
		pos = end + len(closeDelim)
	}
	return tags
}

// closeAtBoundary returns the first closing delimiter followed by end of
// text, whitespace or the start of another tag.
func closeAtBoundary(text string, body int) (int, bool) {
	from := body
	for {
		idx := strings.Index(text[from:], closeDelim)
		if idx < 0 {
			return 0, false
		}
		at := from + idx
		next := at + len(closeDelim)
		if next == len(text) || isBoundary(text[next]) {
			return at, true
		}
		from = at + 1
	}
}

func isBoundary(c byte) bool {
	switch c {
	case '\n', '\r', ' ', '\t', '[':
		return true
	}
	return false
}

// scanUnified finds single-line tags with the line rule and multi-line tags
// with the boundary rule in the stretches of text between them. On text
// without multi-line tags the result equals the legacy scan.
func scanUnified(text string) []Tag {
	var tags []Tag
	last := 0
	for _, t := range scanLine(text) {
		tags = append(tags, scanGap(text, last, t.Start)...)
		tags = append(tags, t)
		last = t.End
	}
	return append(tags, scanGap(text, last, len(text))...)
}

// scanGap runs the boundary scan over text[from:to]. A gap always ends at
// end of text or right before a `[`, so the boundary check is unaffected by
// cutting the text there.
func scanGap(text string, from, to int) []Tag {
	if from >= to {
		return nil
	}
	tags := scanOpenings(text[from:to], closeAtBoundary)
	for i := range tags {
		tags[i].Start += from
		tags[i].End += from
	}
	return tags
}

// removeTags deletes the closed tags from text. tags must be ordered and
// non-overlapping, as returned by the scanners.
func removeTags(text string, tags []Tag) string {
	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, t := range tags {
		if !t.Closed {
			continue
		}
		b.WriteString(text[last:t.Start])
		last = t.End
	}
	b.WriteString(text[last:])
	return b.String()
}
