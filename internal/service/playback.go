package service

import (
	"fmt"
	"log/slog"

	"github.com/mmcdole/vidpeek/internal/domain"
)

// launcher abstracts media player launching (consumer-defined interface)
type launcher interface {
	Launch(src, subtitleFile string) error
	Open(url string) error
}

// PlaybackService runs the user actions around a preview
type PlaybackService struct {
	launcher   launcher
	objects    objectStore
	base       domain.BaseURLProvider
	clipboard  domain.Clipboard
	notifier   domain.Notifier
	translator domain.Translator
	logger     *slog.Logger
}

// PlaybackDeps lists the collaborators of a PlaybackService
type PlaybackDeps struct {
	Launcher   launcher
	Objects    objectStore
	BaseURL    domain.BaseURLProvider
	Clipboard  domain.Clipboard
	Notifier   domain.Notifier
	Translator domain.Translator
	Logger     *slog.Logger
}

// NewPlaybackService creates a new playback service
func NewPlaybackService(deps PlaybackDeps) *PlaybackService {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &PlaybackService{
		launcher:   deps.Launcher,
		objects:    deps.Objects,
		base:       deps.BaseURL,
		clipboard:  deps.Clipboard,
		notifier:   deps.Notifier,
		translator: deps.Translator,
		logger:     logger,
	}
}

// SetNotifier swaps the notifier, used once the UI that shows toasts exists
func (s *PlaybackService) SetNotifier(n domain.Notifier) {
	s.notifier = n
}

// AbsoluteURL prefixes an origin-relative link with the current base URL
func (s *PlaybackService) AbsoluteURL(link string) string {
	if len(link) > 0 && link[0] == '/' {
		return s.base.Current() + link
	}
	return link
}

// Play launches src in an external player with the caption behind captionRef, if any.
// A caption that cannot be exported is dropped rather than blocking playback.
func (s *PlaybackService) Play(src, captionRef string) error {
	var subtitleFile string
	if captionRef != "" {
		path, err := s.objects.Export(captionRef, "")
		if err != nil {
			s.logger.Debug("dropping caption for playback", "ref", captionRef, "error", err)
		} else {
			subtitleFile = path
		}
	}

	src = s.AbsoluteURL(src)
	s.logger.Info("launching playback", "src", src, "subtitle", subtitleFile)

	if err := s.launcher.Launch(src, subtitleFile); err != nil {
		return fmt.Errorf("failed to launch player: %w", err)
	}
	return nil
}

// Download opens the media URL directly
func (s *PlaybackService) Download(mediaURL string) error {
	return s.launcher.Open(s.AbsoluteURL(mediaURL))
}

// CopyDirectLink copies the absolute media URL and confirms it
func (s *PlaybackService) CopyDirectLink(mediaURL string) error {
	return s.copy(s.AbsoluteURL(mediaURL), "Copied direct link to clipboard.")
}

// CopyLink copies an already-built link and confirms it
func (s *PlaybackService) CopyLink(link string) error {
	return s.copy(link, "Copied to clipboard.")
}

func (s *PlaybackService) copy(text, confirmKey string) error {
	if err := s.clipboard.WriteAll(text); err != nil {
		s.logger.Error("clipboard write failed", "error", err)
		return err
	}
	if s.notifier != nil {
		s.notifier.NotifySuccess(s.translator.T(confirmKey))
	}
	return nil
}

// T translates a UI string
func (s *PlaybackService) T(key string) string {
	return s.translator.T(key)
}

// BaseURL returns the origin links are built against
func (s *PlaybackService) BaseURL() string {
	return s.base.Current()
}
