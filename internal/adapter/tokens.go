package adapter

import "strings"

// RouteTokens serves stored tokens for protected routes.
// The longest configured route that prefixes the path wins.
type RouteTokens struct {
	routes []RouteConfig
}

// NewRouteTokens creates a token provider over the configured routes
func NewRouteTokens(routes []RouteConfig) *RouteTokens {
	kept := make([]RouteConfig, 0, len(routes))
	for _, r := range routes {
		if r.Path != "" && r.Token != "" {
			kept = append(kept, r)
		}
	}
	return &RouteTokens{routes: kept}
}

// Token returns the token for path, if any route covers it
func (t *RouteTokens) Token(path string) (string, bool) {
	best := -1
	for i, r := range t.routes {
		if !strings.HasPrefix(path, r.Path) {
			continue
		}
		if best < 0 || len(r.Path) > len(t.routes[best].Path) {
			best = i
		}
	}
	if best < 0 {
		return "", false
	}
	return t.routes[best].Token, true
}

// StaticBaseURL returns a fixed origin for shareable links
type StaticBaseURL string

// Current returns the origin without a trailing slash
func (b StaticBaseURL) Current() string {
	return strings.TrimRight(string(b), "/")
}
