// Package sources implements the engine's external collaborators.
// Currently one: the YouTube Innertube caption source.
package sources

import (
	"context"

	"github.com/anatolykoptev/go_ytmeta/internal/engine"
)

// YouTube fetches caption tracks via the Innertube API.
type YouTube struct{}

// NewYouTube returns the production caption source.
func NewYouTube() YouTube { return YouTube{} }

// Fetch implements engine.CaptionSource.
func (YouTube) Fetch(ctx context.Context, videoID, lang string) (engine.CaptionPayload, error) {
	return fetchCaptions(ctx, videoID, lang)
}
