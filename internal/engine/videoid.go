package engine

import (
	"net/url"
	"regexp"
	"strings"
)

// videoIDRe is YouTube's 11-character video identifier grammar.
var videoIDRe = regexp.MustCompile(`^[0-9A-Za-z_-]{11}$`)

// pathIDRe matches the identifier in embed, shorts, live and /v/ paths.
var pathIDRe = regexp.MustCompile(`^/(?:embed|shorts|live|v)/([0-9A-Za-z_-]{11})(?:[/?#].*)?$`)

// watchURL renders the canonical long-form URL for an identifier.
func watchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

// ParseVideoRef extracts the canonical video identifier from a watch
// URL, a youtu.be short link, an embed/shorts/live link, or a bare
// 11-character identifier. All accepted forms for the same video
// produce the same VideoRef.
func ParseVideoRef(raw string) (VideoRef, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return VideoRef{}, E(KindInvalidURL, "empty video URL", nil)
	}

	if videoIDRe.MatchString(s) {
		return VideoRef{ID: s, SourceURL: watchURL(s)}, nil
	}

	u, err := url.Parse(s)
	if err == nil && u.Host == "" && !strings.Contains(s, "://") {
		u, err = url.Parse("https://" + s)
	}
	if err != nil || u == nil || u.Host == "" {
		return VideoRef{}, Ef(KindInvalidURL, "not a recognized YouTube URL: %q", raw)
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	switch host {
	case "youtube.com", "m.youtube.com", "music.youtube.com":
		if id := u.Query().Get("v"); videoIDRe.MatchString(id) {
			return VideoRef{ID: id, SourceURL: watchURL(id)}, nil
		}
		if m := pathIDRe.FindStringSubmatch(u.Path); m != nil {
			return VideoRef{ID: m[1], SourceURL: watchURL(m[1])}, nil
		}
	case "youtu.be":
		seg := strings.Trim(u.Path, "/")
		if i := strings.IndexByte(seg, '/'); i >= 0 {
			seg = seg[:i]
		}
		if videoIDRe.MatchString(seg) {
			return VideoRef{ID: seg, SourceURL: watchURL(seg)}, nil
		}
	}

	return VideoRef{}, Ef(KindInvalidURL, "no video identifier in %q", raw)
}
