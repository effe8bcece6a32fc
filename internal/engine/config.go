package engine

import (
	"net/http"
	"time"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	LLMAPIKey      string
	LLMAPIBase     string
	LLMModel       string
	LLMTemperature float64
	LLMMaxTokens   int

	// Generation retry policy: GenMaxAttempts bounds the total number
	// of outbound calls (including the first); waits grow exponentially
	// from GenInitialWait, capped at GenMaxWait.
	GenMaxAttempts int
	GenInitialWait time.Duration
	GenMaxWait     time.Duration

	CaptionLang        string // single fixed target language, no fallback
	MaxTranscriptChars int    // transcript prefix budget for the prompt
	OutputDir          string
	FallbackHashtags   []string // used when the title yields too few tags

	BatchDelay time.Duration // minimum spacing between batch pipeline runs

	CacheMaxEntries      int
	CacheCleanupInterval time.Duration

	HTTPClient    *http.Client
	BrowserClient *BrowserClient // nil = fingerprint fallback disabled

	Captions  CaptionSource // production source wired in main
	Generator Generator     // nil = built from the LLM* fields in Init
}

var cfg Config

// Cfg exposes the engine configuration for the sources sub-package.
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
func Init(c Config) {
	if c.Generator == nil {
		c.Generator = llmGenerator{}
	}
	if c.HTTPClient == nil {
		c.HTTPClient = http.DefaultClient
	}
	cfg = c
	Cfg = &cfg
}
