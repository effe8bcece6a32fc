package engine

import (
	"encoding/xml"
	"regexp"
	"strings"
)

// Caption payload normalization: timedtext XML or WebVTT in, one clean
// text block out. Pure string transformation, no failure modes — an
// empty result means the track had no usable text and the caller
// treats it as captions-unavailable.

// timedText mirrors YouTube's timedtext caption XML.
type timedText struct {
	Lines []struct {
		Text string `xml:",chardata"`
	} `xml:"text"`
}

var (
	// cue timing like 00:00:01.000 or 01:02:03,500 left inline by
	// sloppy tracks
	cueTimeRe = regexp.MustCompile(`\d{1,2}:\d{2}(?::\d{2})?[.,]\d{3}`)
	// bare cue index lines in SRT-shaped payloads
	cueIndexRe = regexp.MustCompile(`^\d+$`)
)

// NormalizeCaptions converts a raw caption payload into a single
// whitespace-collapsed text block. Cue indices, timestamp lines,
// WEBVTT headers, markup and entities are stripped, and consecutive
// duplicate lines (overlap repeats) are dropped. Idempotent: already
// clean text passes through unchanged.
func NormalizeCaptions(raw string) string {
	if text, ok := normalizeTimedText(raw); ok {
		return text
	}
	return normalizeCueText(raw)
}

// normalizeTimedText handles the timedtext XML the Innertube caption
// URLs serve.
func normalizeTimedText(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "<") {
		return "", false
	}
	var tt timedText
	if err := xml.Unmarshal([]byte(trimmed), &tt); err != nil || len(tt.Lines) == 0 {
		return "", false
	}
	lines := make([]string, 0, len(tt.Lines))
	for _, l := range tt.Lines {
		lines = append(lines, l.Text)
	}
	return joinCaptionLines(lines), true
}

// normalizeCueText handles WebVTT/SRT-shaped payloads and plain text.
func normalizeCueText(raw string) string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "",
			strings.HasPrefix(line, "WEBVTT"),
			strings.HasPrefix(line, "NOTE"),
			strings.HasPrefix(line, "Kind:"),
			strings.HasPrefix(line, "Language:"),
			strings.Contains(line, "-->"),
			cueIndexRe.MatchString(line):
			continue
		}
		lines = append(lines, line)
	}
	return joinCaptionLines(lines)
}

// joinCaptionLines cleans each line, drops consecutive duplicates
// (caption tracks repeat the previous line for cue overlap), and joins
// the rest into one paragraph-free block.
func joinCaptionLines(lines []string) string {
	var parts []string
	prev := ""
	for _, line := range lines {
		line = CleanMarkup(line)
		line = cueTimeRe.ReplaceAllString(line, "")
		line = CollapseSpaces(line)
		if line == "" || line == prev {
			continue
		}
		parts = append(parts, line)
		prev = line
	}
	return strings.Join(parts, " ")
}

// NewTranscript normalizes a caption payload into a prompt-ready
// transcript. Text is truncated to cfg.MaxTranscriptChars by taking a
// word-boundary prefix — the tail of very long transcripts is dropped
// rather than summarized.
func NewTranscript(ref VideoRef, payload CaptionPayload) Transcript {
	text := NormalizeCaptions(payload.Raw)
	if max := cfg.MaxTranscriptChars; max > 0 && len(text) > max {
		text = TruncateAtWord(text, max)
	}
	return Transcript{
		VideoID:       ref.ID,
		Language:      cfg.CaptionLang,
		Text:          text,
		AutoGenerated: payload.AutoGenerated,
	}
}
