package engine

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	payload CaptionPayload
	err     error
	calls   int
}

func (f *fakeSource) Fetch(_ context.Context, _, _ string) (CaptionPayload, error) {
	f.calls++
	return f.payload, f.err
}

type fakeGen struct {
	results []GenerationResult
	errs    []error
	calls   int
}

func (f *fakeGen) Generate(_ context.Context, _ GenerationRequest) (GenerationResult, error) {
	i := f.calls
	f.calls++
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	var res GenerationResult
	if i < len(f.results) {
		res = f.results[i]
	}
	return res, err
}

func setPipelineConfig(t *testing.T, src CaptionSource, gen Generator) {
	t.Helper()
	old := cfg
	t.Cleanup(func() { cfg = old })
	cfg = Config{
		CaptionLang:        "en",
		MaxTranscriptChars: 8000,
		OutputDir:          t.TempDir(),
		FallbackHashtags:   []string{"#video", "#youtube", "#content"},
		Captions:           src,
		Generator:          gen,
	}
}

func TestProcessVideoHappyPath(t *testing.T) {
	src := &fakeSource{payload: CaptionPayload{Raw: "a talk about building pipelines in Go", AutoGenerated: true}}
	gen := &fakeGen{results: []GenerationResult{{
		RawText:  "TITLE: Building Pipelines in Go\nDESCRIPTION: A practical walkthrough of pipeline design. #golang #pipelines #backend",
		Attempts: 1,
	}}}
	setPipelineConfig(t, src, gen)

	res, err := ProcessVideo(context.Background(), "https://youtu.be/aaaaaaaaaa1")
	require.NoError(t, err)

	assert.Equal(t, "aaaaaaaaaa1", res.VideoID)
	assert.Equal(t, "Building Pipelines in Go", res.Title)
	assert.Contains(t, res.Description, "pipeline design")
	assert.Equal(t, 1, res.Attempts)
	assert.Equal(t, 1, src.calls)
	assert.Equal(t, 1, gen.calls)

	require.FileExists(t, res.FilePath)
	assert.Equal(t, filepath.Join(cfg.OutputDir, "aaaaaaaaaa1.md"), res.FilePath)
	data, err := os.ReadFile(res.FilePath)
	require.NoError(t, err)
	content := string(data)
	assert.True(t, strings.HasPrefix(content, "# Building Pipelines in Go\n\n"))
	assert.Contains(t, content, res.Description)
}

func TestProcessVideoReportsGenerationAttempts(t *testing.T) {
	src := &fakeSource{payload: CaptionPayload{Raw: "transcript text"}}
	gen := &fakeGen{results: []GenerationResult{{
		RawText:  "TITLE: Second Try\nDESCRIPTION: body #a1 #b2 #c3",
		Attempts: 3,
	}}}
	setPipelineConfig(t, src, gen)

	res, err := ProcessVideo(context.Background(), "bbbbbbbbbb2")
	require.NoError(t, err)
	assert.Equal(t, 3, res.Attempts)
}

func TestProcessVideoInvalidURL(t *testing.T) {
	src := &fakeSource{}
	gen := &fakeGen{}
	setPipelineConfig(t, src, gen)

	_, err := ProcessVideo(context.Background(), "https://example.com/not-youtube")
	require.Error(t, err)
	assert.Equal(t, KindInvalidURL, KindOf(err))
	assert.Zero(t, src.calls, "caption source must not be touched for invalid URLs")
	assert.Zero(t, gen.calls)
}

func TestProcessVideoCaptionsUnavailable(t *testing.T) {
	src := &fakeSource{err: Ef(KindCaptionsUnavailable, "no en caption track for cccccccccc3")}
	gen := &fakeGen{}
	setPipelineConfig(t, src, gen)

	_, err := ProcessVideo(context.Background(), "cccccccccc3")
	require.Error(t, err)
	assert.Equal(t, KindCaptionsUnavailable, KindOf(err))
	assert.Zero(t, gen.calls, "generation must not run without a transcript")
}

func TestProcessVideoEmptyAfterCleanup(t *testing.T) {
	// Track exists but cleans down to nothing.
	src := &fakeSource{payload: CaptionPayload{Raw: "WEBVTT\n\n00:00:01.000 --> 00:00:02.000\n"}}
	gen := &fakeGen{}
	setPipelineConfig(t, src, gen)

	_, err := ProcessVideo(context.Background(), "dddddddddd4")
	require.Error(t, err)
	assert.Equal(t, KindCaptionsUnavailable, KindOf(err))
	assert.Zero(t, gen.calls)
}

func TestProcessVideoGenerationExhausted(t *testing.T) {
	src := &fakeSource{payload: CaptionPayload{Raw: "transcript"}}
	gen := &fakeGen{errs: []error{E(KindGenerationExhausted, "generation failed after 4 attempts", nil)}}
	setPipelineConfig(t, src, gen)

	_, err := ProcessVideo(context.Background(), "eeeeeeeeee5")
	require.Error(t, err)
	assert.Equal(t, KindGenerationExhausted, KindOf(err))
	assert.NoFileExists(t, filepath.Join(cfg.OutputDir, "eeeeeeeeee5.md"),
		"no artifact may exist for a failed run")
}

func TestProcessVideoUnparseableResponse(t *testing.T) {
	src := &fakeSource{payload: CaptionPayload{Raw: "transcript"}}
	gen := &fakeGen{results: []GenerationResult{{RawText: "   \n  ", Attempts: 1}}}
	setPipelineConfig(t, src, gen)

	_, err := ProcessVideo(context.Background(), "ffffffffff6")
	require.Error(t, err)
	assert.Equal(t, KindUnparseableResponse, KindOf(err))
	assert.NoFileExists(t, filepath.Join(cfg.OutputDir, "ffffffffff6.md"))
}

func TestFetchTranscript(t *testing.T) {
	src := &fakeSource{payload: CaptionPayload{Raw: "spoken words here", AutoGenerated: true}}
	setPipelineConfig(t, src, &fakeGen{})

	tr, err := FetchTranscript(context.Background(), "https://www.youtube.com/watch?v=gggggggggg7")
	require.NoError(t, err)
	assert.Equal(t, "gggggggggg7", tr.VideoID)
	assert.Equal(t, "en", tr.Language)
	assert.Equal(t, "spoken words here", tr.Text)
	assert.True(t, tr.AutoGenerated)
}

func TestProcessVideoRerunIdentical(t *testing.T) {
	src := &fakeSource{payload: CaptionPayload{Raw: "same transcript each time"}}
	gen := &fakeGen{results: []GenerationResult{
		{RawText: "TITLE: Stable Output\nDESCRIPTION: body #a1 #b2 #c3", Attempts: 1},
		{RawText: "TITLE: Stable Output\nDESCRIPTION: body #a1 #b2 #c3", Attempts: 1},
	}}
	setPipelineConfig(t, src, gen)

	first, err := ProcessVideo(context.Background(), "hhhhhhhhhh8")
	require.NoError(t, err)
	data1, err := os.ReadFile(first.FilePath)
	require.NoError(t, err)

	second, err := ProcessVideo(context.Background(), "hhhhhhhhhh8")
	require.NoError(t, err)
	data2, err := os.ReadFile(second.FilePath)
	require.NoError(t, err)

	assert.Equal(t, first.FilePath, second.FilePath)
	assert.Equal(t, data1, data2, "re-run must replace the artifact byte-for-byte")
}
