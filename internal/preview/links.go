package preview

import (
	"net/url"
	"strings"
)

// ShareLinks are the absolute forms of a raw link offered for sharing
type ShareLinks struct {
	Default    string // Readable path, as browsers display it
	Encoded    string // Path query-escaped, safe for strict clients
	Customised string // Served under a chosen file name
}

// BuildShareLinks derives the share links for path against the origin base.
// customName replaces the file name in the customised link.
func BuildShareLinks(base, path, customName, token string) ShareLinks {
	base = strings.TrimRight(base, "/")
	return ShareLinks{
		Default:    base + RawURL(path, token),
		Encoded:    base + RawURL(encodeComponent(path), token),
		Customised: base + NameEndpoint + url.PathEscape(customName) + "?path=" + path + tokenSuffix(token),
	}
}

// encodeComponent escapes s like a URI component: spaces become %20, not "+"
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
