package textutil

import (
	"regexp"
	"strings"
)

var whitespace = regexp.MustCompile(`\s+`)

// A tagged word is the sigil followed by letters, digits or underscores.
// "##go" and "#a#b" both match, the latter twice.
var hashtag = regexp.MustCompile(`#([\p{L}\p{N}_]+)`)

// NormalizeWhitespace trims and collapses whitespace to single spaces.
func NormalizeWhitespace(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

// Hashtags returns every tagged word in text, lower-cased, in order of
// appearance. Repeats are kept.
func Hashtags(text string) []string {
	var out []string
	for _, m := range hashtag.FindAllStringSubmatch(text, -1) {
		out = append(out, strings.ToLower(m[1]))
	}
	return out
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// LikeContains builds a LIKE pattern matching s anywhere, with wildcards in s
// escaped for use with ESCAPE '\'.
func LikeContains(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
