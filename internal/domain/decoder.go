package domain

import "context"

// DecoderLoader lazily loads optional decoder extensions by id.
// A rejected load is reported through the returned error.
type DecoderLoader interface {
	Load(ctx context.Context, decoderID string) (DecoderModule, error)
}

// DecoderModule is a loaded decoder extension. It is owned by the preview
// that requested it for as long as that preview is shown.
type DecoderModule interface {
	ID() string

	// CreateSession builds a playback session bound to a media URL
	CreateSession(cfg SessionConfig) (DecoderSession, error)
}

// SessionConfig describes the media a decoder session feeds
type SessionConfig struct {
	Type string // Container type, e.g. "flv"
	URL  string // Absolute media URL
}

// DecoderSession demuxes a container and feeds a media element.
type DecoderSession interface {
	// AttachMediaElement binds the session output to el. If el is already
	// consuming a source, the session takes over.
	AttachMediaElement(el MediaElement) error

	// Load starts feeding the attached element
	Load() error

	// Destroy releases the session and any process it started
	Destroy() error
}

// MediaElement is the rendering element a player surface controls
type MediaElement interface {
	Source() string
	SetSource(src string)
}
