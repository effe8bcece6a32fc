// go_ytmeta — SEO metadata generator for YouTube videos.
//
// Fetches a video's auto-generated captions, asks an OpenAI-compatible
// LLM for a title and description, repairs the output to hard limits
// (53-char title, 140-word description, exactly 3 hashtags) and saves
// the result as a markdown artifact.
//
// Runs in four modes:
//
//	go_ytmeta <url>            one-shot CLI
//	go_ytmeta -batch urls.csv  batch over a CSV of URLs
//	go_ytmeta -serve           REST API (POST /meta)
//	go_ytmeta -mcp             MCP server (generate_metadata, fetch_transcript)
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-kit/strutil"
	"github.com/anatolykoptev/go-mcpserver"
	"github.com/anatolykoptev/go_ytmeta/internal/api"
	"github.com/anatolykoptev/go_ytmeta/internal/engine"
	"github.com/anatolykoptev/go_ytmeta/internal/engine/sources"
	"github.com/anatolykoptev/go_ytmeta/internal/metaserver"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var (
	version = "dev"
	apiPort = env.Str("PORT", "8000")
	mcpPort = env.Str("MCP_PORT", "8892")
)

func main() {
	serve := flag.Bool("serve", false, "run the REST API server")
	mcpMode := flag.Bool("mcp", false, "run the MCP server")
	batch := flag.String("batch", "", "process a CSV file of video URLs")
	flag.Parse()

	initEngine()

	switch {
	case *serve:
		runServe()
	case *mcpMode:
		runMCP()
	case *batch != "":
		runBatch(*batch)
	default:
		runOnce(flag.Args())
	}
}

func runOnce(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: go_ytmeta [flags] <youtube-url>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	res, err := engine.ProcessVideo(context.Background(), args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Saved to %s\n", res.FilePath)
	fmt.Printf("Title: %s\n", res.Title)
	fmt.Printf("Description: %s\n", strutil.TruncateWith(res.Description, 100, "..."))
}

func runServe() {
	if err := api.Serve(":" + apiPort); err != nil {
		slog.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func runMCP() {
	slog.Info("starting go_ytmeta",
		slog.String("port", mcpPort),
	)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_ytmeta",
		Version: version,
	}, nil)

	metaserver.RegisterTools(server)
	slog.Info("tools registered", slog.Int("count", 2))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_ytmeta",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 600 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}

func runBatch(path string) {
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: read csv: %v\n", err)
		os.Exit(1)
	}

	var urls []string
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		u := row[0]
		if u == "" || u == "url" {
			continue
		}
		urls = append(urls, u)
	}

	items := engine.ProcessBatch(context.Background(), urls)

	failed := 0
	for _, item := range items {
		if item.Err != "" {
			failed++
			fmt.Printf("FAIL %s: %s\n", item.URL, item.Err)
			continue
		}
		fmt.Printf("OK   %s -> %s\n", item.URL, item.Result.FilePath)
	}
	fmt.Printf("%d/%d succeeded\n", len(items)-failed, len(items))
	if failed > 0 {
		os.Exit(1)
	}
}

func initEngine() {
	c := engine.Config{
		LLMAPIKey:            env.Str("GROQ_API_KEY", env.Str("LLM_API_KEY", "")),
		LLMAPIBase:           env.Str("LLM_API_BASE", "https://api.groq.com/openai/v1"),
		LLMModel:             env.Str("LLM_MODEL", "llama-3.3-70b-versatile"),
		LLMTemperature:       env.Float("LLM_TEMPERATURE", 0.7),
		LLMMaxTokens:         env.Int("LLM_MAX_TOKENS", 300),
		GenMaxAttempts:       env.Int("GEN_MAX_ATTEMPTS", 4),
		GenInitialWait:       env.Duration("GEN_INITIAL_WAIT", 2*time.Second),
		GenMaxWait:           env.Duration("GEN_MAX_WAIT", 30*time.Second),
		CaptionLang:          env.Str("CAPTION_LANG", "en"),
		MaxTranscriptChars:   env.Int("MAX_TRANSCRIPT_CHARS", 8000),
		OutputDir:            env.Str("OUTPUT_DIR", "."),
		FallbackHashtags:     env.List("FALLBACK_HASHTAGS", "#video,#youtube,#content"),
		BatchDelay:           env.Duration("BATCH_DELAY", 2*time.Second),
		CacheMaxEntries:      env.Int("CACHE_MAX_ENTRIES", 1000),
		CacheCleanupInterval: env.Duration("CACHE_CLEANUP_INTERVAL", 300*time.Second),
		Captions:             sources.NewYouTube(),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     60 * time.Second,
			},
		},
	}

	if env.Str("FINGERPRINT_FETCH", "1") != "0" {
		bc, err := engine.NewBrowserClient()
		if err != nil {
			slog.Warn("browser client init failed, plain HTTP only", slog.Any("error", err))
		} else {
			c.BrowserClient = bc
		}
	}

	engine.Init(c)

	cacheTTL := env.Duration("CACHE_TTL", 15*time.Minute)
	engine.InitCache(env.Str("REDIS_URL", ""), cacheTTL, c.CacheMaxEntries, c.CacheCleanupInterval)
}
