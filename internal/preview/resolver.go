// Package preview derives the links and playback strategy for a file.
//
// Everything here is pure: the same path, name and token always yield the
// same links and strategy, and nothing can fail. Paths are inserted into
// the query verbatim, the way the index server expects them.
package preview

import (
	"strings"

	"github.com/mmcdole/vidpeek/internal/domain"
	"golang.org/x/text/cases"
)

// Endpoint and parameter names served by the index
const (
	RawEndpoint       = "/api/raw/"
	ThumbnailEndpoint = "/api/thumbnail/"
	NameEndpoint      = "/api/name/"

	TokenParam = "odpt"

	thumbnailSize     = "large"
	subtitleExtension = "vtt"
	flvExtension      = "flv"
)

// Resolve derives the links and strategy for the file at path.
// An empty token means none is stored for the route.
func Resolve(path, name, token string) (domain.ResolvedLinks, domain.PlaybackStrategy) {
	links := domain.ResolvedLinks{
		MediaURL:     RawURL(path, token),
		ThumbnailURL: ThumbnailEndpoint + "?path=" + path + "&size=" + thumbnailSize + tokenSuffix(token),
		SubtitleURL:  RawURL(SubtitlePath(path), token),
	}
	return links, Strategy(name)
}

// RawURL builds the raw-access URL for path
func RawURL(path, token string) string {
	return RawEndpoint + "?path=" + path + tokenSuffix(token)
}

// Strategy classifies the playback strategy from the extension of name.
// The comparison is case-insensitive: "clip.FLV" needs the decoder too.
func Strategy(name string) domain.PlaybackStrategy {
	if ContainerType(name) == flvExtension {
		return domain.ExtensionRequired(domain.FlvDecoderID)
	}
	return domain.StandardPlayback
}

// ContainerType returns the normalized container type of name, e.g. "flv"
func ContainerType(name string) string {
	return cases.Fold().String(Extension(name))
}

// Extension returns the text after the last dot of name, or "" if there is none
func Extension(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return ""
	}
	return name[i+1:]
}

// SubtitlePath replaces the final extension of path with the subtitle extension.
// A path without a dot has no stem, so the result is just ".vtt".
func SubtitlePath(path string) string {
	stem := ""
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		stem = path[:i]
	}
	return stem + "." + subtitleExtension
}

func tokenSuffix(token string) string {
	if token == "" {
		return ""
	}
	return "&" + TokenParam + "=" + token
}
