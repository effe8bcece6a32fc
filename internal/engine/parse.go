package engine

import (
	"regexp"
	"strings"
)

// Parsing and repair of model output. The generation service is not
// contractually obligated to follow the prompt's formatting
// instructions, so extraction is an ordered matcher list with a
// first-line fallback, and the validator repairs length and hashtag
// violations before anything leaves the pipeline.

var (
	boldTitleRe = regexp.MustCompile(`(?i)\*\*title:?\*\*:?\s*([^\n]+)`)
	boldDescRe  = regexp.MustCompile(`(?i)\*\*description:?\*\*:?\s*([^*]+)`)
	hashtagRe   = regexp.MustCompile(`#[\pL\pN_]+`)
	nonAlnumRe  = regexp.MustCompile(`[^a-z0-9]+`)
)

// stripFences removes markdown code fences from model output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```markdown")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// ParseResponse extracts title and description from the raw model text
// and repairs them to the product constraints. Fails with
// KindUnparseableResponse only when no title candidate exists at all.
func ParseResponse(videoID string, gen GenerationResult) (Metadata, error) {
	raw := stripFences(gen.RawText)

	title, desc, ok := extractFields(raw)
	if !ok {
		return Metadata{}, E(KindUnparseableResponse, "no title candidate in model response", nil)
	}

	meta := Metadata{VideoID: videoID, Title: repairTitle(title)}
	desc = strings.TrimSpace(desc)
	desc = repairHashtags(desc, meta.Title)
	desc = capWords(desc, DescMaxWords)
	// The word cut can swallow hashtags that sat mid-text; one more
	// repair round restores the count and the second cut holds the
	// trailing tags out, so both invariants end up satisfied.
	if len(hashtagRe.FindAllString(desc, -1)) != DescHashtags {
		desc = capWords(repairHashtags(desc, meta.Title), DescMaxWords)
	}
	meta.Description = desc
	return meta, nil
}

// extractFields runs the matcher list in priority order.
func extractFields(raw string) (title, desc string, ok bool) {
	lines := nonEmptyLines(raw)
	if len(lines) == 0 {
		return "", "", false
	}

	// 1. Labeled TITLE: / DESCRIPTION: fields, any casing.
	if t, d, ok := matchLabeled(lines); ok {
		return t, d, true
	}
	// 2. Bold **Title:** / **Description:** markdown labels.
	if t, d, ok := matchBold(raw); ok {
		return t, d, true
	}
	// 3. Markdown heading as title.
	if t, d, ok := matchHeading(lines); ok {
		return t, d, true
	}
	// 4. Last resort: first line is the title, the rest the description.
	// A lone DESCRIPTION: label (no TITLE: line, so matcher 1 missed)
	// must not leak into the title.
	first := lines[0]
	if strings.HasPrefix(strings.ToUpper(first), "DESCRIPTION:") {
		first = first[len("DESCRIPTION:"):]
	}
	title = cleanTitle(first)
	return title, strings.Join(lines[1:], " "), title != ""
}

func nonEmptyLines(raw string) []string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// matchLabeled handles the answer shape the prompt asks for:
// a TITLE: line and a DESCRIPTION: block running to the end.
func matchLabeled(lines []string) (title, desc string, ok bool) {
	var descParts []string
	collecting := false
	for _, line := range lines {
		upper := strings.ToUpper(line)
		switch {
		case strings.HasPrefix(upper, "TITLE:"):
			title = cleanTitle(line[len("TITLE:"):])
			collecting = false
		case strings.HasPrefix(upper, "DESCRIPTION:"):
			collecting = true
			if part := strings.TrimSpace(line[len("DESCRIPTION:"):]); part != "" {
				descParts = append(descParts, part)
			}
		case collecting:
			descParts = append(descParts, line)
		}
	}
	return title, strings.Join(descParts, " "), title != ""
}

func matchBold(raw string) (title, desc string, ok bool) {
	tm := boldTitleRe.FindStringSubmatch(raw)
	if tm == nil {
		return "", "", false
	}
	title = cleanTitle(tm[1])
	if dm := boldDescRe.FindStringSubmatch(raw); dm != nil {
		desc = strings.TrimSpace(dm[1])
	}
	return title, desc, title != ""
}

func matchHeading(lines []string) (title, desc string, ok bool) {
	if !strings.HasPrefix(lines[0], "#") {
		return "", "", false
	}
	title = cleanTitle(strings.TrimLeft(lines[0], "# "))
	return title, strings.Join(lines[1:], " "), title != ""
}

// cleanTitle drops surrounding quotes, asterisks and label leftovers.
func cleanTitle(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"'*`)
}

// repairTitle enforces the title ceiling at a word boundary, never
// mid-word. Conforming titles pass through unchanged.
func repairTitle(title string) string {
	title = strings.TrimSpace(title)
	if len([]rune(title)) <= TitleMaxChars {
		return title
	}
	return TruncateAtWord(title, TitleMaxChars)
}

// repairHashtags makes the description carry exactly DescHashtags
// tags: excess tags are dropped from the end, missing ones are
// appended from title keywords, then from cfg.FallbackHashtags.
// Idempotent: a conforming description passes through unchanged.
func repairHashtags(desc, title string) string {
	idx := hashtagRe.FindAllStringIndex(desc, -1)

	if len(idx) == DescHashtags {
		return desc
	}

	if len(idx) > DescHashtags {
		for i := len(idx) - 1; i >= DescHashtags; i-- {
			desc = desc[:idx[i][0]] + desc[idx[i][1]:]
		}
		return CollapseSpaces(desc)
	}

	have := make(map[string]bool, len(idx))
	for _, pair := range idx {
		have[strings.ToLower(desc[pair[0]:pair[1]])] = true
	}

	missing := DescHashtags - len(idx)
	var add []string
	for _, tag := range append(titleHashtags(title), cfg.FallbackHashtags...) {
		if len(add) == missing {
			break
		}
		if tag == "" || have[strings.ToLower(tag)] {
			continue
		}
		have[strings.ToLower(tag)] = true
		add = append(add, tag)
	}

	return strings.TrimSpace(desc + " " + strings.Join(add, " "))
}

// titleStopwords are connector words that make useless hashtags.
var titleStopwords = map[string]bool{
	"this": true, "that": true, "with": true, "from": true,
	"your": true, "what": true, "when": true, "will": true,
	"about": true, "into": true, "they": true, "them": true,
	"have": true, "nobody": true, "everyone": true, "tells": true,
}

// titleHashtags derives generic topical hashtags from title keywords.
func titleHashtags(title string) []string {
	var tags []string
	for _, w := range strings.Fields(strings.ToLower(title)) {
		w = nonAlnumRe.ReplaceAllString(w, "")
		if len(w) < 4 || titleStopwords[w] {
			continue
		}
		tags = append(tags, "#"+w)
	}
	return tags
}

// capWords enforces the description word ceiling. The trailing hashtag
// block is held out and re-appended after the cut so the
// exactly-DescHashtags invariant survives. Conforming descriptions
// pass through unchanged.
func capWords(desc string, max int) string {
	words := strings.Fields(desc)
	if len(words) <= max {
		return desc
	}

	var tail []string
	for len(words) > 0 && strings.HasPrefix(words[len(words)-1], "#") {
		tail = append([]string{words[len(words)-1]}, tail...)
		words = words[:len(words)-1]
	}

	keep := max - len(tail)
	if keep < 0 {
		keep = 0
	}
	if len(words) > keep {
		words = words[:keep]
	}
	return strings.Join(append(words, tail...), " ")
}
