package extractor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/social-extractor/internal/extractor"
)

func TestDefaultPlatformNames(t *testing.T) {
	names := extractor.DefaultPlatformNames()
	assert.Equal(t, []string{"instagram", "facebook", "youtube", "tiktok", "twitter", "pinterest"}, names)
}

func TestPlatformByNameUnknown(t *testing.T) {
	_, ok := extractor.PlatformByName("myspace")
	assert.False(t, ok)
}

func TestYouTubeUpgrade(t *testing.T) {
	p, ok := extractor.PlatformByName("youtube")
	require.True(t, ok)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "hqdefault upgraded",
			in:   "https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg",
			want: "https://i.ytimg.com/vi/dQw4w9WgXcQ/maxresdefault.jpg",
		},
		{
			name: "mqdefault upgraded",
			in:   "https://i.ytimg.com/vi/dQw4w9WgXcQ/mqdefault.jpg",
			want: "https://i.ytimg.com/vi/dQw4w9WgXcQ/maxresdefault.jpg",
		},
		{
			name: "sddefault upgraded",
			in:   "https://i.ytimg.com/vi/dQw4w9WgXcQ/sddefault.jpg",
			want: "https://i.ytimg.com/vi/dQw4w9WgXcQ/maxresdefault.jpg",
		},
		{
			name: "maxresdefault untouched",
			in:   "https://i.ytimg.com/vi/dQw4w9WgXcQ/maxresdefault.jpg",
			want: "https://i.ytimg.com/vi/dQw4w9WgXcQ/maxresdefault.jpg",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Upgrade(tt.in))
		})
	}
}

func TestYouTubeVideoID(t *testing.T) {
	p, ok := extractor.PlatformByName("youtube")
	require.True(t, ok)

	assert.Equal(t, "dQw4w9WgXcQ", p.VideoID("https://i.ytimg.com/vi/dQw4w9WgXcQ/maxresdefault.jpg"))
	assert.Equal(t, "", p.VideoID("https://yt3.ggpht.com/avatar/photo.jpg"))
}

func TestPinterestUpgrade(t *testing.T) {
	p, ok := extractor.PlatformByName("pinterest")
	require.True(t, ok)

	for _, size := range []string{"236x", "474x", "736x"} {
		in := "https://i.pinimg.com/" + size + "/aa/bb/cc/photo.jpg"
		assert.Equal(t, "https://i.pinimg.com/originals/aa/bb/cc/photo.jpg", p.Upgrade(in))
	}
	assert.Equal(t,
		"https://i.pinimg.com/originals/aa/bb/cc/photo.jpg",
		p.Upgrade("https://i.pinimg.com/originals/aa/bb/cc/photo.jpg"))
}

func TestTwitterUpgrade(t *testing.T) {
	p, ok := extractor.PlatformByName("twitter")
	require.True(t, ok)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "name parameter rewritten",
			in:   "https://pbs.twimg.com/media/abc?format=jpg&name=small",
			want: "https://pbs.twimg.com/media/abc?format=jpg&name=orig",
		},
		{
			name: "format without name gets orig appended",
			in:   "https://pbs.twimg.com/media/abc?format=jpg",
			want: "https://pbs.twimg.com/media/abc?format=jpg&name=orig",
		},
		{
			name: "plain URL untouched",
			in:   "https://pbs.twimg.com/media/abc.jpg",
			want: "https://pbs.twimg.com/media/abc.jpg",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Upgrade(tt.in))
		})
	}
}

func TestUpgradedTierScoresAtLeastOriginal(t *testing.T) {
	p, _ := extractor.PlatformByName("youtube")
	low := "https://i.ytimg.com/vi/abc/mqdefault.jpg"
	upgraded := p.Upgrade(low)
	assert.GreaterOrEqual(t,
		extractor.EstimateQuality(upgraded, "", ""),
		extractor.EstimateQuality(low, "", ""))
}

func TestIsLikelyImageURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://cdn.example.com/photo.jpg", true},
		{"https://cdn.example.com/photo.PNG?x=1", true},
		{"https://i.ytimg.com/vi/abc/0", true},
		{"https://p16-sign.tiktokcdn-us.com/obj/xyz", true},
		{"https://example.com/page.html", false},
		{"", false},
		{"https://example.com/script.js", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, extractor.IsLikelyImageURL(tt.url), tt.url)
	}
}

func TestInstagramDisabledByPolicy(t *testing.T) {
	p, ok := extractor.PlatformByName("instagram")
	require.True(t, ok)
	assert.False(t, p.Enabled)
}
