package engine

import (
	"strconv"
	"strings"
	"testing"
)

func TestBuildPrompt(t *testing.T) {
	excerpt := "we talk about profiling Go programs"
	p1 := BuildPrompt(excerpt)
	p2 := BuildPrompt(excerpt)

	if p1 != p2 {
		t.Error("prompt not deterministic for identical excerpts")
	}
	if !strings.Contains(p1, excerpt) {
		t.Error("prompt missing transcript excerpt")
	}
	for _, limit := range []int{TitleMaxChars, DescMaxWords, DescHashtags} {
		if !strings.Contains(p1, strconv.Itoa(limit)) {
			t.Errorf("prompt missing limit %d", limit)
		}
	}
}
