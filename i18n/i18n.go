// Package i18n translates ntxlocale's own user-facing messages.
//
// It wraps the gotext library to provide simple T() and N() functions.
// Catalogs are embedded in the binary via //go:embed and loaded at startup
// via Init().
//
// Usage:
//
//	import "github.com/ntx-trading/ntxlocale/i18n"
//
//	func main() {
//	    i18n.Init("")  // auto-detect from LANGUAGE/LC_ALL/LC_MESSAGES/LANG
//	    fmt.Printf(i18n.T("Wrote %s")+"\n", path)
//	    fmt.Println(i18n.N("%d file written", "%d files written", count))
//	}
package i18n

import (
	"embed"
	"os"
	"strings"

	"github.com/leonelquinteros/gotext"
)

// locales embeds the .po catalogs.
// Directory structure: locales/{lang}/LC_MESSAGES/ntxlocale.po
//
//go:embed all:locales
var locales embed.FS

// domain is the gettext domain name.
const domain = "ntxlocale"

// po is the gotext locale object used for translations.
var po *gotext.Locale

// Init initializes the i18n system. If lang is empty, it auto-detects
// from the environment (see DetectLanguage).
//
// Init should be called once at program startup, before any T() or N() calls.
func Init(lang string) {
	if lang == "" {
		lang = DetectLanguage()
	}

	po = gotext.NewLocaleFSWithPath(lang, locales, "locales")
	po.AddDomain(domain)
	po.SetDomain(domain)
}

// T translates a string. If no translation is available, returns the
// original string unchanged (standard gettext passthrough behavior).
func T(msgid string) string {
	if po == nil {
		return msgid
	}
	return po.Get(msgid)
}

// N translates a string with plural forms. The singular form is used
// when n == 1, the plural form otherwise (exact rules depend on the
// target language's plural formula).
func N(singular, plural string, n int) string {
	if po == nil {
		if n == 1 {
			return singular
		}
		return plural
	}
	return po.GetN(singular, plural, n)
}

// DetectLanguage reads environment variables to determine the user's
// preferred language, following GNU gettext conventions. It returns "en"
// when none is set.
func DetectLanguage() string {
	if lang := EnvLocale(); lang != "" {
		return lang
	}
	return "en"
}

// EnvLocale returns the first usable locale from LANGUAGE, LC_ALL,
// LC_MESSAGES and LANG without its encoding and modifier ("ru_RU.UTF-8"
// becomes "ru_RU"), or "" if none is set.
func EnvLocale() string {
	// GNU gettext priority: LANGUAGE > LC_ALL > LC_MESSAGES > LANG
	for _, env := range []string{"LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"} {
		val := os.Getenv(env)
		if val == "" {
			continue
		}
		// LANGUAGE can be a colon-separated list; take the first
		if env == "LANGUAGE" {
			val, _, _ = strings.Cut(val, ":")
		}
		if idx := strings.IndexAny(val, ".@"); idx >= 0 {
			val = val[:idx]
		}
		// "C" and "POSIX" mean no translation
		if val == "C" || val == "POSIX" || val == "" {
			continue
		}
		return val
	}
	return ""
}
