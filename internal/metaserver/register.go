// Package metaserver registers the MCP tools exposed by go_ytmeta:
// generate_metadata and fetch_transcript.
package metaserver

import (
	"context"
	"fmt"

	"github.com/anatolykoptev/go_ytmeta/internal/engine"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterTools registers all tools on the given MCP server.
func RegisterTools(server *mcp.Server) {
	registerGenerateMetadata(server)
	registerFetchTranscript(server)
}

func registerGenerateMetadata(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_metadata",
		Description: "Generate an SEO title and description for a YouTube video from its auto-generated captions. Returns the title (max 53 chars), the description (max 140 words, exactly 3 hashtags), the number of generation attempts, and the path of the saved markdown artifact.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, input engine.GenerateInput) (*mcp.CallToolResult, engine.Result, error) {
		if input.URL == "" {
			return nil, engine.Result{}, fmt.Errorf("url is required")
		}
		res, err := engine.ProcessVideo(ctx, input.URL)
		if err != nil {
			return nil, engine.Result{}, err
		}
		return nil, res, nil
	})
}

func registerFetchTranscript(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "fetch_transcript",
		Description: "Fetch the cleaned caption transcript of a YouTube video without generating metadata. Returns the video ID, caption language, whether the track was auto-generated, and the normalized transcript text.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input engine.TranscriptInput) (*mcp.CallToolResult, engine.TranscriptOutput, error) {
		if input.URL == "" {
			return nil, engine.TranscriptOutput{}, fmt.Errorf("url is required")
		}
		t, err := engine.FetchTranscript(ctx, input.URL)
		if err != nil {
			return nil, engine.TranscriptOutput{}, err
		}
		return nil, engine.TranscriptOutput{
			VideoID:       t.VideoID,
			Language:      t.Language,
			AutoGenerated: t.AutoGenerated,
			Text:          t.Text,
		}, nil
	})
}
