package i18n

import "testing"

func clearLocaleEnv(t *testing.T) {
	t.Helper()
	t.Setenv("LANGUAGE", "")
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "")
	t.Setenv("LANG", "")
}

func TestDetectLanguagePriorityAndNormalization(t *testing.T) {
	t.Run("LANGUAGE has highest priority", func(t *testing.T) {
		clearLocaleEnv(t)
		t.Setenv("LANGUAGE", "ru_RU.UTF-8:en_US")
		t.Setenv("LC_ALL", "de_DE.UTF-8")

		if got := DetectLanguage(); got != "ru_RU" {
			t.Fatalf("DetectLanguage() = %q, want %q", got, "ru_RU")
		}
	})

	t.Run("C and POSIX are skipped", func(t *testing.T) {
		clearLocaleEnv(t)
		t.Setenv("LANGUAGE", "C")
		t.Setenv("LC_ALL", "POSIX")
		t.Setenv("LC_MESSAGES", "fr_FR.UTF-8")

		if got := DetectLanguage(); got != "fr_FR" {
			t.Fatalf("DetectLanguage() = %q, want %q", got, "fr_FR")
		}
	})

	t.Run("modifier is stripped", func(t *testing.T) {
		clearLocaleEnv(t)
		t.Setenv("LANG", "zh_TW@stroke")

		if got := DetectLanguage(); got != "zh_TW" {
			t.Fatalf("DetectLanguage() = %q, want %q", got, "zh_TW")
		}
	})

	t.Run("falls back to en", func(t *testing.T) {
		clearLocaleEnv(t)
		if got := DetectLanguage(); got != "en" {
			t.Fatalf("DetectLanguage() = %q, want %q", got, "en")
		}
		if got := EnvLocale(); got != "" {
			t.Fatalf("EnvLocale() = %q, want empty", got)
		}
	})
}

func TestTAndNFallbackWhenUninitialized(t *testing.T) {
	old := po
	po = nil
	t.Cleanup(func() { po = old })

	if got := T("Hello"); got != "Hello" {
		t.Fatalf("T fallback = %q, want %q", got, "Hello")
	}

	if got := N("file", "files", 1); got != "file" {
		t.Fatalf("N singular fallback = %q, want %q", got, "file")
	}

	if got := N("file", "files", 2); got != "files" {
		t.Fatalf("N plural fallback = %q, want %q", got, "files")
	}
}

func TestEmbeddedChineseCatalog(t *testing.T) {
	old := po
	t.Cleanup(func() { po = old })

	Init("zh")
	if got := T("Wrote %s"); got != "已写入 %s" {
		t.Fatalf("T(Wrote %%s) = %q, want %q", got, "已写入 %s")
	}
	if got := N("%d output written", "%d outputs written", 3); got != "已写入 %d 个输出" {
		t.Fatalf("N = %q", got)
	}
	if got := T("no translation for this"); got != "no translation for this" {
		t.Fatalf("T passthrough = %q", got)
	}

	Init("en")
	if got := T("Wrote %s"); got != "Wrote %s" {
		t.Fatalf("T(Wrote %%s) in en = %q", got)
	}
}
