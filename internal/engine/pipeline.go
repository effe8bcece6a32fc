package engine

import (
	"context"
	"log/slog"
	"time"
)

// ProcessVideo runs the full pipeline for one URL: identifier
// extraction, caption retrieval, normalization, generation, parsing
// and repair, artifact write. One run is strictly sequential and
// stateless; the only retries happen inside the caption fetch and the
// generation call, and both are bounded.
func ProcessVideo(ctx context.Context, rawURL string) (Result, error) {
	IncrPipelineRuns()
	start := time.Now()

	ref, err := ParseVideoRef(rawURL)
	if err != nil {
		return Result{}, err
	}

	key := CacheKey("meta", ref.ID, cfg.CaptionLang)
	if res, ok := CacheGet(ctx, key); ok {
		slog.Info("pipeline cache hit", slog.String("video_id", ref.ID))
		return res, nil
	}

	transcript, err := retrieveTranscript(ctx, ref)
	if err != nil {
		return Result{}, err
	}

	gen, err := cfg.Generator.Generate(ctx, NewGenerationRequest(transcript))
	if err != nil {
		return Result{}, err
	}

	meta, err := ParseResponse(ref.ID, gen)
	if err != nil {
		return Result{}, err
	}

	path, err := WriteArtifact(meta)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		VideoID:     meta.VideoID,
		Title:       meta.Title,
		Description: meta.Description,
		FilePath:    path,
		Attempts:    gen.Attempts,
	}
	CacheSet(ctx, key, res)

	slog.Info("pipeline complete",
		slog.String("video_id", ref.ID),
		slog.Int("attempts", gen.Attempts),
		slog.Duration("elapsed", time.Since(start)),
	)
	return res, nil
}

// FetchTranscript runs only the retrieval and normalization stages.
// Backs the fetch_transcript MCP tool.
func FetchTranscript(ctx context.Context, rawURL string) (Transcript, error) {
	ref, err := ParseVideoRef(rawURL)
	if err != nil {
		return Transcript{}, err
	}
	return retrieveTranscript(ctx, ref)
}

// retrieveTranscript fetches and cleans the caption track for ref.
// A track that cleans down to nothing counts as unavailable.
func retrieveTranscript(ctx context.Context, ref VideoRef) (Transcript, error) {
	if cfg.Captions == nil {
		return Transcript{}, E(KindDownload, "no caption source configured", nil)
	}

	IncrCaptionFetches()
	payload, err := cfg.Captions.Fetch(ctx, ref.ID, cfg.CaptionLang)
	if err != nil {
		IncrCaptionErrors()
		return Transcript{}, err
	}

	transcript := NewTranscript(ref, payload)
	if transcript.Text == "" {
		return Transcript{}, Ef(KindCaptionsUnavailable, "caption track for %s is empty after cleanup", ref.ID)
	}
	return transcript, nil
}
