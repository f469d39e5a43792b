// Package langmeta holds display metadata for the languages NTX content is
// published in, and matches locale strings from the environment against the
// languages a project is configured for.
package langmeta

import (
	"regexp"
	"strings"

	"golang.org/x/text/language"
)

// Meta describes language display metadata.
type Meta struct {
	Name string
	Flag string
}

// Registry contains canonical language metadata.
// Locale variants are resolved in Resolve() via normalization and base fallback.
var Registry = map[string]Meta{
	"ar":    {Name: "العربية", Flag: "🇸🇦"},
	"de":    {Name: "Deutsch", Flag: "🇩🇪"},
	"en":    {Name: "English", Flag: "🇺🇸"},
	"en-GB": {Name: "English (UK)", Flag: "🇬🇧"},
	"es":    {Name: "Español", Flag: "🇪🇸"},
	"fr":    {Name: "Français", Flag: "🇫🇷"},
	"id":    {Name: "Bahasa Indonesia", Flag: "🇮🇩"},
	"ja":    {Name: "日本語", Flag: "🇯🇵"},
	"ko":    {Name: "한국어", Flag: "🇰🇷"},
	"pt":    {Name: "Português", Flag: "🇵🇹"},
	"pt-BR": {Name: "Português (Brasil)", Flag: "🇧🇷"},
	"ru":    {Name: "Русский", Flag: "🇷🇺"},
	"th":    {Name: "ไทย", Flag: "🇹🇭"},
	"tr":    {Name: "Türkçe", Flag: "🇹🇷"},
	"vi":    {Name: "Tiếng Việt", Flag: "🇻🇳"},
	"zh":    {Name: "中文", Flag: "🇨🇳"},
	"zh-CN": {Name: "简体中文", Flag: "🇨🇳"},
	"zh-TW": {Name: "繁體中文", Flag: "🇹🇼"},
}

func canonicalize(lang string) string {
	normalized := strings.ReplaceAll(strings.TrimSpace(lang), "_", "-")
	if normalized == "" {
		return ""
	}
	parts := strings.Split(normalized, "-")
	parts[0] = strings.ToLower(parts[0])
	if len(parts) >= 2 {
		parts[1] = strings.ToUpper(parts[1])
	}
	return strings.Join(parts, "-")
}

// Resolve returns best-effort language metadata for language codes,
// supporting variants like zh_TW, zh-TW, and base-language fallbacks.
func Resolve(lang string) Meta {
	if m, ok := Registry[lang]; ok {
		return m
	}
	normalized := canonicalize(lang)
	if m, ok := Registry[normalized]; ok {
		return m
	}
	if parts := strings.SplitN(normalized, "-", 2); len(parts) == 2 {
		if m, ok := Registry[parts[0]]; ok {
			return m
		}
	}
	return Meta{Name: lang, Flag: ""}
}

var codeRe = regexp.MustCompile(`^\w+$`)

// Valid reports whether code can appear in a locale tag, i.e. it is a run of
// ASCII letters, digits and underscores.
func Valid(code string) bool {
	return codeRe.MatchString(code)
}

// Match picks the entry of available that best serves requested, which may
// be a POSIX locale ("zh_CN.UTF-8"), a BCP 47 tag ("en-GB") or a plain code.
// An exact match wins. Otherwise the closest language by CLDR matching is
// chosen, and fallback is returned when nothing is close enough.
func Match(requested string, available []string, fallback string) string {
	req := cleanLocale(requested)
	if req == "" || len(available) == 0 {
		return fallback
	}
	for _, code := range available {
		if code == req {
			return code
		}
	}

	supported := make([]language.Tag, len(available))
	for i, code := range available {
		supported[i] = language.Make(strings.ReplaceAll(code, "_", "-"))
	}
	tag, err := language.Parse(strings.ReplaceAll(req, "_", "-"))
	if err != nil {
		return fallback
	}
	_, idx, conf := language.NewMatcher(supported).Match(tag)
	if conf == language.No {
		return fallback
	}
	return available[idx]
}

// cleanLocale strips the encoding and modifier of a POSIX locale and drops
// the "C" and "POSIX" locales, which carry no language.
func cleanLocale(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, ".@"); i >= 0 {
		s = s[:i]
	}
	if s == "C" || s == "POSIX" {
		return ""
	}
	return s
}
