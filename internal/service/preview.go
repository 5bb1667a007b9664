package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mmcdole/vidpeek/internal/domain"
	"github.com/mmcdole/vidpeek/internal/preview"
	"golang.org/x/sync/singleflight"
)

const subtitleMimeType = "text/vtt"

// objectStore materializes fetched bytes as local references (consumer-defined interface)
type objectStore interface {
	Create(data []byte, mimeType string) (string, error)
	Revoke(ref string) error
	Export(ref, dir string) (string, error)
}

// PreviewService resolves previews and runs their background loads
type PreviewService struct {
	tokens    domain.TokenProvider
	transport domain.MediaTransport
	decoders  domain.DecoderLoader
	objects   objectStore
	logger    *slog.Logger

	loads   singleflight.Group
	mu      sync.Mutex
	modules map[string]domain.DecoderModule
}

// NewPreviewService creates a new preview service
func NewPreviewService(
	tokens domain.TokenProvider,
	transport domain.MediaTransport,
	decoders domain.DecoderLoader,
	objects objectStore,
	logger *slog.Logger,
) *PreviewService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PreviewService{
		tokens:    tokens,
		transport: transport,
		decoders:  decoders,
		objects:   objects,
		logger:    logger,
		modules:   make(map[string]domain.DecoderModule),
	}
}

// Resolve derives links and strategy for file using the token stored for its route
func (s *PreviewService) Resolve(file domain.FileRef) (domain.ResolvedLinks, domain.PlaybackStrategy) {
	return preview.Resolve(file.Path, file.Name, s.Token(file.Path))
}

// Token returns the token stored for path, or "" if the route is public
func (s *PreviewService) Token(path string) string {
	token, _ := s.tokens.Token(path)
	return token
}

// LoadDecoder loads the decoder extension id. Concurrent loads of the same id
// share one attempt; a loaded module is reused, a failed one is not cached.
// The shared attempt is not tied to any caller: cancelling ctx only stops
// this caller from waiting for it.
func (s *PreviewService) LoadDecoder(ctx context.Context, id string) (domain.DecoderModule, error) {
	s.mu.Lock()
	if mod, ok := s.modules[id]; ok {
		s.mu.Unlock()
		return mod, nil
	}
	s.mu.Unlock()

	shared := context.WithoutCancel(ctx)
	ch := s.loads.DoChan(id, func() (interface{}, error) {
		mod, err := s.decoders.Load(shared, id)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.modules[id] = mod
		s.mu.Unlock()
		return mod, nil
	})

	select {
	case <-ctx.Done():
		s.logger.Debug("stopped waiting for decoder extension", "decoder", id, "error", ctx.Err())
		return nil, &domain.DecoderLoadError{DecoderID: id, Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			s.logger.Warn("decoder extension failed to load", "decoder", id, "error", res.Err)
			return nil, &domain.DecoderLoadError{DecoderID: id, Err: res.Err}
		}
		return res.Val.(domain.DecoderModule), nil
	}
}

// FetchSubtitle fetches the subtitle at url and returns a local reference to it
func (s *PreviewService) FetchSubtitle(ctx context.Context, url string) (string, error) {
	data, err := s.transport.FetchBinary(ctx, url)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrSubtitleUnavailable, err)
	}

	ref, err := s.objects.Create(data, subtitleMimeType)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrSubtitleUnavailable, err)
	}
	return ref, nil
}

// Release revokes a reference returned by FetchSubtitle
func (s *PreviewService) Release(ref string) {
	if ref == "" {
		return
	}
	if err := s.objects.Revoke(ref); err != nil {
		s.logger.Warn("failed to revoke object", "ref", ref, "error", err)
	}
}
