package localetag

import "testing"

func TestStripControlTags(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"sort", "[Sort:12]Title", "Title"},
		{"link", "A[Link:/academy/course/1]B", "AB"},
		{"show any case", "[show]x[SHOW]y[Show]", "xy"},
		{"all kinds", "[Sort:1][Link:https://ntx.example/a?b=c][Show]Mining", "Mining"},
		{"sort needs digits", "[Sort:]x[Sort:a]", "[Sort:]x[Sort:a]"},
		{"link needs payload", "[Link:]x", "[Link:]x"},
		{"other brackets untouched", "[Note:1] [zh:text=\"你好\"]", "[Note:1] [zh:text=\"你好\"]"},
		{"exposed tag removed", "[Sor[Show]t:1]ok", "ok"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := StripControlTags(tc.in); got != tc.want {
				t.Fatalf("StripControlTags(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestStripControlTagsIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"plain",
		"[Sort:1][Sort:2]",
		"[Link:[Show]]",
		"[Sor[Show]t:1]",
		"[[Show]Show]]",
		"[Link:a][en:text=\"b\"]",
	}
	for _, in := range inputs {
		once := StripControlTags(in)
		if twice := StripControlTags(once); twice != once {
			t.Errorf("StripControlTags not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestHasControlTags(t *testing.T) {
	if !HasControlTags("a [SHOW] b") {
		t.Fatal("HasControlTags should detect [SHOW]")
	}
	if HasControlTags("a [Shows] b") {
		t.Fatal("HasControlTags matched [Shows]")
	}
}
