package domain

import "context"

// TokenProvider returns the stored auth token for a route path, if any
type TokenProvider interface {
	Token(path string) (string, bool)
}

// MediaTransport fetches raw bytes for media-adjacent resources
type MediaTransport interface {
	FetchBinary(ctx context.Context, url string) ([]byte, error)
}

// BaseURLProvider returns the origin used to build shareable links
type BaseURLProvider interface {
	Current() string
}

// Notifier shows transient confirmations to the user
type Notifier interface {
	NotifySuccess(message string)
}

// Clipboard writes text to the system clipboard
type Clipboard interface {
	WriteAll(text string) error
}

// Translator maps a message key to a user-facing string
type Translator interface {
	T(key string) string
}
