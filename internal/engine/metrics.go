package engine

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Metrics tracks operational counters across the pipeline.
var metrics struct {
	PipelineRuns     atomic.Int64
	CaptionFetches   atomic.Int64
	CaptionErrors    atomic.Int64
	LLMCalls         atomic.Int64
	LLMErrors        atomic.Int64
	LLMRetries       atomic.Int64
	ArtifactsWritten atomic.Int64
}

// GetMetrics returns a snapshot of all metrics including cache stats.
func GetMetrics() map[string]int64 {
	hits, misses := CacheStats()
	return map[string]int64{
		"pipeline_runs":     metrics.PipelineRuns.Load(),
		"caption_fetches":   metrics.CaptionFetches.Load(),
		"caption_errors":    metrics.CaptionErrors.Load(),
		"llm_calls":         metrics.LLMCalls.Load(),
		"llm_errors":        metrics.LLMErrors.Load(),
		"llm_retries":       metrics.LLMRetries.Load(),
		"artifacts_written": metrics.ArtifactsWritten.Load(),
		"cache_hits":        hits,
		"cache_misses":      misses,
	}
}

// FormatMetrics returns metrics as a simple text format for the HTTP
// metrics endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	keys := []string{
		"pipeline_runs",
		"caption_fetches", "caption_errors",
		"llm_calls", "llm_errors", "llm_retries",
		"artifacts_written",
		"cache_hits", "cache_misses",
	}
	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

func IncrPipelineRuns()     { metrics.PipelineRuns.Add(1) }
func IncrCaptionFetches()   { metrics.CaptionFetches.Add(1) }
func IncrCaptionErrors()    { metrics.CaptionErrors.Add(1) }
func IncrLLMCalls()         { metrics.LLMCalls.Add(1) }
func IncrLLMErrors()        { metrics.LLMErrors.Add(1) }
func IncrLLMRetries()       { metrics.LLMRetries.Add(1) }
func IncrArtifactsWritten() { metrics.ArtifactsWritten.Add(1) }
