package extractor

import (
	"net/url"
	"strings"
	"time"
)

// Platform describes, as data, how to pull images out of one social network:
// where to search, which selectors to try (in priority order), which URLs to
// accept, and how to rewrite them to their highest-known-quality variant.
// Selector lists change whenever the platforms ship a redesign; keeping them
// here means updates never touch the extraction loop.
type Platform struct {
	Name    string
	Enabled bool

	SearchURL func(query string) string
	Selectors []string

	// Accept filters candidate src values; Upgrade rewrites known
	// low-resolution markers before the URL becomes the dedup key.
	Accept  func(src string) bool
	Upgrade func(src string) string
	Kind    func(src string) string
	VideoID func(src string) string

	// Nominal dimensions used for quality scoring when the element
	// declares none.
	DefaultWidth  string
	DefaultHeight string

	// Some platforms need a longer pause for lazy-loaded content.
	ExtraScrollDelay time.Duration
}

var imageIndicators = []string{
	"i.ytimg.com", "pinimg.com", "pbs.twimg.com", "scontent",
	"fbcdn", "cdninstagram", "tiktokcdn", "image", "photo",
	"thumbnail", "avatar", "cover",
}

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".webp", ".gif", ".svg"}

// IsLikelyImageURL reports whether a URL plausibly points at an image: it
// must carry an image file extension or a known image/CDN indicator.
func IsLikelyImageURL(raw string) bool {
	if raw == "" {
		return false
	}
	lower := strings.ToLower(raw)

	clean := lower
	if i := strings.IndexAny(clean, "?#"); i >= 0 {
		clean = clean[:i]
	}
	for _, ext := range imageExtensions {
		if strings.HasSuffix(clean, ext) {
			return true
		}
	}
	for _, ind := range imageIndicators {
		if strings.Contains(lower, ind) {
			return true
		}
	}
	return false
}

func containsAny(src string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(src, sub) {
			return true
		}
	}
	return false
}

func upgradeYouTube(src string) string {
	for _, low := range []string{"/hqdefault.jpg", "/mqdefault.jpg", "/sddefault.jpg"} {
		if strings.Contains(src, low) {
			return strings.Replace(src, low, "/maxresdefault.jpg", 1)
		}
	}
	return src
}

func upgradePinterest(src string) string {
	out := src
	for _, size := range []string{"/236x/", "/474x/", "/736x/"} {
		out = strings.ReplaceAll(out, size, "/originals/")
	}
	return out
}

func upgradeTwitter(src string) string {
	if i := strings.Index(src, "&name="); i >= 0 {
		return src[:i] + "&name=orig"
	}
	if strings.Contains(src, "?format=") {
		return src + "&name=orig"
	}
	return src
}

func youtubeVideoID(src string) string {
	_, rest, ok := strings.Cut(src, "/vi/")
	if !ok {
		return ""
	}
	id, _, _ := strings.Cut(rest, "/")
	return id
}

func fixedKind(kind string) func(string) string {
	return func(string) string { return kind }
}

// platforms is the extraction order used when the caller does not pick one.
var platforms = []Platform{
	{
		Name: "instagram",
		// Direct scraping without login is blocked hard enough that the
		// extractor is disabled by policy. The platform stays registered so
		// enabling it again is a one-line change, not an interface change.
		Enabled: false,
		SearchURL: func(query string) string {
			return "https://www.instagram.com/explore/search/keyword/?q=" + url.QueryEscape(query)
		},
		Selectors: []string{
			`img[srcset]`,
			`img[data-testid="user-avatar"]`,
			`img.x5yr21d`,
			`img._aagt`,
			`div._aagv img`,
			`article img[alt]`,
			`img[crossorigin="anonymous"]`,
		},
		Accept: IsLikelyImageURL,
		Kind:   fixedKind("post_image"),
	},
	{
		Name:    "facebook",
		Enabled: true,
		SearchURL: func(query string) string {
			return "https://www.facebook.com/search/photos/?q=" + url.QueryEscape(query)
		},
		Selectors: []string{
			`img[src*="scontent"]`,
			`img[src*="fbcdn"]`,
			`img[data-src]`,
			`img.scaledImageFitWidth`,
			`img.scaledImageFitHeight`,
			`div[role="img"] img`,
			`img[referrerpolicy="origin-when-cross-origin"]`,
			`img[alt][src]`,
		},
		Accept: func(src string) bool { return containsAny(src, "scontent", "fbcdn") },
		Kind:   fixedKind("feed_image"),
	},
	{
		Name:    "youtube",
		Enabled: true,
		SearchURL: func(query string) string {
			return "https://www.youtube.com/results?search_query=" + url.QueryEscape(query)
		},
		Selectors: []string{
			`img#img`,
			`img.yt-core-image`,
			`img[src*="i.ytimg.com"]`,
			`img[src*="yt3.ggpht.com"]`,
			`ytd-thumbnail img`,
			`img.style-scope.yt-img-shadow`,
			`img[width="360"]`,
			`img[width="720"]`,
		},
		Accept:        func(src string) bool { return strings.Contains(src, "ytimg.com") },
		Upgrade:       upgradeYouTube,
		Kind:          fixedKind("video_thumbnail"),
		VideoID:       youtubeVideoID,
		DefaultWidth:  "1280",
		DefaultHeight: "720",
	},
	{
		Name:    "tiktok",
		Enabled: true,
		SearchURL: func(query string) string {
			return "https://www.tiktok.com/search?q=" + url.QueryEscape(query)
		},
		Selectors: []string{
			`img[mode="aspectFill"]`,
			`img[loading="lazy"]`,
			`img.tiktok-1zpj2q-ImgAvatar`,
			`div[data-e2e="user-post-item"] img`,
			`img[alt*="cover"]`,
			`canvas + img`,
			`div.image-card img`,
			`img[class*="DivContainer"] img`,
		},
		Accept: IsLikelyImageURL,
		Kind: func(src string) string {
			if strings.Contains(strings.ToLower(src), "cover") {
				return "video_cover"
			}
			return "profile_image"
		},
		// TikTok lazy-loads aggressively; give it an extra second per pass.
		ExtraScrollDelay: time.Second,
	},
	{
		Name:    "twitter",
		Enabled: true,
		SearchURL: func(query string) string {
			return "https://twitter.com/search?q=" + url.QueryEscape(query) + "&src=typed_query&f=image"
		},
		Selectors: []string{
			`img[alt="Image"]`,
			`img[src*="pbs.twimg.com"]`,
			`img[src*="ton.twitter.com"]`,
			`div[data-testid="tweetPhoto"] img`,
			`img[draggable="true"]`,
			`div[aria-label*="Image"] img`,
			`img.css-9pa8cd`,
			`div[data-testid="tweet"] img[alt]`,
		},
		Accept:  func(src string) bool { return strings.Contains(src, "pbs.twimg.com") },
		Upgrade: upgradeTwitter,
		Kind:    fixedKind("tweet_image"),
	},
	{
		Name:    "pinterest",
		Enabled: true,
		SearchURL: func(query string) string {
			return "https://www.pinterest.com/search/pins/?q=" + url.QueryEscape(query)
		},
		Selectors: []string{
			`img[src*="pinimg.com"]`,
			`img[loading="auto"]`,
			`div[data-test-id="pin-image"] img`,
			`img.hCL.kVc.L4E.MIw`,
			`div[role="img"] img`,
			`img[fetchpriority="auto"]`,
		},
		Accept:  func(src string) bool { return strings.Contains(src, "pinimg.com") },
		Upgrade: upgradePinterest,
		Kind:    fixedKind("pin_image"),
	},
}

// DefaultPlatformNames returns all registered platforms in extraction order.
func DefaultPlatformNames() []string {
	names := make([]string, 0, len(platforms))
	for _, p := range platforms {
		names = append(names, p.Name)
	}
	return names
}

// PlatformByName looks up a platform definition.
func PlatformByName(name string) (Platform, bool) {
	for _, p := range platforms {
		if p.Name == name {
			return p, true
		}
	}
	return Platform{}, false
}
