package engine

import (
	"html"
	"regexp"
	"strings"

	"github.com/anatolykoptev/go-kit/strutil"
)

// User-Agent strings used across HTTP clients.
const (
	UserAgentBot    = "go-ytmeta/1.0"
	UserAgentChrome = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"
)

var (
	markupTagRe = regexp.MustCompile(`<[^>]+>`)
	spaceRe     = regexp.MustCompile(`\s+`)
)

// CleanMarkup strips markup tags, resolves entity references, and
// trims whitespace. Caption cues carry styling tags like <c> and
// <00:00:01.000> inline timing, both of which must go.
func CleanMarkup(s string) string {
	s = markupTagRe.ReplaceAllString(s, "")
	return strings.TrimSpace(html.UnescapeString(s))
}

// CollapseSpaces reduces any whitespace run to a single space.
func CollapseSpaces(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// TruncateAtWord truncates a string to maxLen runes at a word boundary,
// never mid-word. Unlike the strutil original, no ellipsis is appended:
// titles and transcripts must stay within their ceilings verbatim.
func TruncateAtWord(s string, maxLen int) string {
	if len([]rune(s)) <= maxLen {
		return s
	}
	return strings.TrimSpace(strings.TrimSuffix(strutil.TruncateAtWord(s, maxLen), "..."))
}

// TruncateWith caps s at limit runes, appending suffix if truncated.
// Pass suffix="" for no suffix. Safe for UTF-8.
func TruncateWith(s string, limit int, suffix string) string {
	return strutil.TruncateWith(s, limit, suffix)
}
