package localetag

import "regexp"

// controlTagRe matches the editorial annotations CMS authors put into text:
// [Sort:N] ordering hints, [Link:...] link targets and [Show] visibility
// markers.
var controlTagRe = regexp.MustCompile(`\[Sort:\d+\]|\[Link:[^\]]+\]|(?i:\[show\])`)

// StripControlTags removes every [Sort:N], [Link:...] and [Show] tag from
// text. Other bracketed text is left alone.
//
// Deletion is repeated until nothing matches, so input such as
// "[Sor[Show]t:1]" comes out clean and the function is idempotent.
func StripControlTags(text string) string {
	for controlTagRe.MatchString(text) {
		text = controlTagRe.ReplaceAllLiteralString(text, "")
	}
	return text
}

// HasControlTags reports whether text still carries a control tag.
func HasControlTags(text string) bool {
	return controlTagRe.MatchString(text)
}
