package langmeta

import "testing"

func TestCanonicalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "zh_tw", want: "zh-TW"},
		{in: " EN-gb ", want: "en-GB"},
		{in: "zh", want: "zh"},
		{in: "", want: ""},
	}

	for _, tc := range cases {
		got := canonicalize(tc.in)
		if got != tc.want {
			t.Fatalf("canonicalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestResolve(t *testing.T) {
	t.Run("exact match", func(t *testing.T) {
		got := Resolve("zh")
		if got.Name != "中文" || got.Flag == "" {
			t.Fatalf("unexpected result: %#v", got)
		}
	})

	t.Run("normalized match", func(t *testing.T) {
		got := Resolve("zh_TW")
		if got.Name != "繁體中文" || got.Flag == "" {
			t.Fatalf("unexpected result: %#v", got)
		}
	})

	t.Run("base fallback", func(t *testing.T) {
		got := Resolve("en-AU")
		if got.Name != "English" || got.Flag != "🇺🇸" {
			t.Fatalf("unexpected fallback result: %#v", got)
		}
	})

	t.Run("unknown passthrough", func(t *testing.T) {
		got := Resolve("zz")
		if got.Name != "zz" || got.Flag != "" {
			t.Fatalf("unexpected unknown result: %#v", got)
		}
	})
}

func TestValid(t *testing.T) {
	for _, code := range []string{"zh", "en", "zh_TW", "x1"} {
		if !Valid(code) {
			t.Errorf("Valid(%q) = false, want true", code)
		}
	}
	for _, code := range []string{"", "pt-BR", "zh tw", "中文"} {
		if Valid(code) {
			t.Errorf("Valid(%q) = true, want false", code)
		}
	}
}

func TestMatch(t *testing.T) {
	available := []string{"zh", "en"}
	cases := []struct {
		name      string
		requested string
		want      string
	}{
		{"exact", "en", "en"},
		{"posix locale", "zh_CN.UTF-8", "zh"},
		{"region variant", "en-GB", "en"},
		{"modifier stripped", "en_US@euro", "en"},
		{"C locale", "C", "zh"},
		{"empty", "", "zh"},
		{"unrelated language", "fr_FR.UTF-8", "zh"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Match(tc.requested, available, "zh"); got != tc.want {
				t.Fatalf("Match(%q) = %q, want %q", tc.requested, got, tc.want)
			}
		})
	}
}

func TestMatchExactUnderscoreCode(t *testing.T) {
	if got := Match("zh_TW", []string{"zh", "zh_TW", "en"}, "en"); got != "zh_TW" {
		t.Fatalf("Match(zh_TW) = %q, want zh_TW", got)
	}
}
