package engine

import "fmt"

// Metadata prompt template. Data only, no logic.

// Product constraints enforced by the validator and stated in the
// prompt. The prompt is the happy path; the parser tolerates
// deviations.
const (
	TitleMaxChars = 53
	DescMaxWords  = 140
	DescHashtags  = 3
)

// metaPrompt asks for a fixed two-field answer shape.
// Args: transcript excerpt, title char ceiling, description word
// ceiling, hashtag count.
const metaPrompt = `You are an expert YouTube SEO copywriter. Create compelling metadata that maximizes click-through rate without sounding extraordinary — natural and engaging.

VIDEO TRANSCRIPT:
%s

INSTRUCTIONS:
1. TITLE (at most %d characters):
   - Start with a strong hook: a number, a question, or an emotional trigger
   - Include the main topic naturally
   - Never use "!" in the title, avoid clickbait

2. DESCRIPTION (at most %d words):
   - First paragraph: hook plus a brief value proposition, 2-3 sentences
   - Second paragraph: key insights plus a call to action, 2-3 sentences
   - Conversational language describing what the video is about
   - End with exactly %d topical hashtags

FORMAT YOUR RESPONSE EXACTLY LIKE THIS:
TITLE: [your title here]
DESCRIPTION: [your description here, ending with the hashtags]`

// BuildPrompt renders the deterministic generation prompt for a
// transcript excerpt. Same excerpt, same prompt.
func BuildPrompt(excerpt string) string {
	return fmt.Sprintf(metaPrompt, excerpt, TitleMaxChars, DescMaxWords, DescHashtags)
}
