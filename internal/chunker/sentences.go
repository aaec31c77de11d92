package chunker

import (
	"regexp"
	"strings"
)

var sentenceEnd = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)

// SplitSentences splits text after every '.', '!' or '?'. Text following the
// last terminator is kept as a final sentence. Segments are trimmed and blank
// ones dropped.
func SplitSentences(text string) []string {
	var out []string
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	last := 0
	for _, loc := range sentenceEnd.FindAllStringIndex(text, -1) {
		add(text[loc[0]:loc[1]])
		last = loc[1]
	}
	add(text[last:])
	return out
}
