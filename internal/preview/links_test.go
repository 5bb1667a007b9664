package preview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildShareLinks(t *testing.T) {
	links := BuildShareLinks("https://drive.example.com/", "/movies/my clip.mp4", "clip.mp4", "")

	assert.Equal(t, "https://drive.example.com/api/raw/?path=/movies/my clip.mp4", links.Default)
	assert.Equal(t, "https://drive.example.com/api/raw/?path=%2Fmovies%2Fmy%20clip.mp4", links.Encoded)
	assert.Equal(t, "https://drive.example.com/api/name/clip.mp4?path=/movies/my clip.mp4", links.Customised)
}

func TestBuildShareLinks_WithToken(t *testing.T) {
	links := BuildShareLinks("https://drive.example.com", "/p/a.flv", "my video.flv", "abc")

	assert.Equal(t, "https://drive.example.com/api/raw/?path=/p/a.flv&odpt=abc", links.Default)
	assert.Equal(t, "https://drive.example.com/api/raw/?path=%2Fp%2Fa.flv&odpt=abc", links.Encoded)
	assert.Equal(t, "https://drive.example.com/api/name/my%20video.flv?path=/p/a.flv&odpt=abc", links.Customised)
}
