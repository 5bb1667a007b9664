package tui

import (
	"fmt"

	"github.com/mmcdole/vidpeek/internal/domain"
)

// CaptionTrack is the single caption slot of a player surface
type CaptionTrack struct {
	Kind  string
	Label string
	Src   string // Local object reference, empty until a subtitle arrives
}

// surfaceKey is the dependency identity of a player surface
type surfaceKey struct {
	MediaURL    string
	SubtitleURL string
	Strategy    domain.PlaybackStrategy
	WithDecoder bool
}

// PlayerSurface is the passive, controllable media element of a preview.
// It implements domain.MediaElement so a decoder session can feed it.
type PlayerSurface struct {
	key surfaceKey

	src       string
	Poster    string
	Controls  bool
	Track     CaptionTrack
	MediaURL  string
	NeedsFeed bool // Strategy required a decoder

	session domain.DecoderSession
}

// NewPlayerSurface builds a surface for links. When a decoder is required
// the element starts without a source: only the decoder session feeds it.
func NewPlayerSurface(links domain.ResolvedLinks, strategy domain.PlaybackStrategy, captionLabel string) *PlayerSurface {
	p := &PlayerSurface{
		key: surfaceKey{
			MediaURL:    links.MediaURL,
			SubtitleURL: links.SubtitleURL,
			Strategy:    strategy,
		},
		Poster:    links.ThumbnailURL,
		Controls:  true,
		Track:     CaptionTrack{Kind: "captions", Label: captionLabel},
		MediaURL:  links.MediaURL,
		NeedsFeed: strategy.RequiresDecoder(),
	}
	if !p.NeedsFeed {
		p.src = links.MediaURL
	}
	return p
}

// Source returns what the element currently plays
func (p *PlayerSurface) Source() string { return p.src }

// SetSource replaces what the element plays
func (p *PlayerSurface) SetSource(src string) { p.src = src }

// SetCaptionSource assigns the caption track's source after the fact
func (p *PlayerSurface) SetCaptionSource(ref string) { p.Track.Src = ref }

// CaptionSource returns the caption track's source
func (p *PlayerSurface) CaptionSource() string { return p.Track.Src }

// Session returns the attached decoder session, if any
func (p *PlayerSurface) Session() domain.DecoderSession { return p.session }

// AttachDecoder creates a session on mod bound to the absolute media URL and
// attaches it to the element. On failure the element falls back to the raw URL.
func (p *PlayerSurface) AttachDecoder(mod domain.DecoderModule, cfg domain.SessionConfig) error {
	p.key.WithDecoder = true

	session, err := mod.CreateSession(cfg)
	if err != nil {
		p.src = p.MediaURL
		return fmt.Errorf("failed to create %s session: %w", mod.ID(), err)
	}
	if err := session.AttachMediaElement(p); err != nil {
		session.Destroy()
		p.src = p.MediaURL
		return fmt.Errorf("failed to attach %s session: %w", mod.ID(), err)
	}
	p.session = session
	return nil
}

// Destroy releases the decoder session
func (p *PlayerSurface) Destroy() error {
	if p.session == nil {
		return nil
	}
	err := p.session.Destroy()
	p.session = nil
	return err
}
