package engine

import "context"

// --- Pipeline value objects ---

// VideoRef identifies one YouTube video. SourceURL is always the
// canonical long-form watch URL, so every accepted input form for the
// same video yields the same VideoRef.
type VideoRef struct {
	ID        string `json:"video_id"`
	SourceURL string `json:"source_url"`
}

// CaptionPayload is a raw caption track as fetched from the platform,
// before any cleanup. Raw may be timedtext XML or WebVTT.
type CaptionPayload struct {
	Raw           string
	AutoGenerated bool
}

// Transcript is the cleaned, prompt-ready caption text for one video.
type Transcript struct {
	VideoID       string `json:"video_id"`
	Language      string `json:"language"`
	Text          string `json:"text"`
	AutoGenerated bool   `json:"auto_generated"`
}

// GenerationRequest is built once per pipeline run from a Transcript.
type GenerationRequest struct {
	TranscriptExcerpt string
	Model             string
	Temperature       float64
	MaxTokens         int
}

// GenerationResult is the raw model answer plus the number of outbound
// calls it took to get it. Discarded after parsing.
type GenerationResult struct {
	RawText  string
	Attempts int
}

// Metadata is the validated, repaired output of the parser. Both the
// title ceiling and the hashtag/word constraints hold by the time a
// Metadata value exists.
type Metadata struct {
	VideoID     string `json:"video_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Result is what the pipeline hands back to front ends.
type Result struct {
	VideoID     string `json:"video_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	FilePath    string `json:"file_path"`
	Attempts    int    `json:"attempts,omitempty"`
}

// --- Collaborator contracts ---

// CaptionSource retrieves the raw caption track for one video in one
// fixed language. The production implementation lives in the sources
// sub-package; tests substitute fakes.
type CaptionSource interface {
	Fetch(ctx context.Context, videoID, lang string) (CaptionPayload, error)
}

// --- MCP tool I/O ---

type GenerateInput struct {
	URL string `json:"url" jsonschema:"YouTube video URL (watch, youtu.be, embed, shorts) or bare 11-character video ID"`
}

type TranscriptInput struct {
	URL string `json:"url" jsonschema:"YouTube video URL or bare 11-character video ID"`
}

type TranscriptOutput struct {
	VideoID       string `json:"video_id"`
	Language      string `json:"language"`
	AutoGenerated bool   `json:"auto_generated"`
	Text          string `json:"text"`
}
