package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mmcdole/vidpeek/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type stubTokens map[string]string

func (s stubTokens) Token(path string) (string, bool) {
	tok, ok := s[path]
	return tok, ok
}

type stubTransport struct {
	data map[string][]byte
	err  error
}

func (s stubTransport) FetchBinary(_ context.Context, url string) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	if d, ok := s.data[url]; ok {
		return d, nil
	}
	return nil, errors.New("404")
}

type stubModule struct{ id string }

func (m stubModule) ID() string { return m.id }
func (m stubModule) CreateSession(domain.SessionConfig) (domain.DecoderSession, error) {
	return nil, errors.New("unused")
}

type countingLoader struct {
	calls    atomic.Int32
	release  chan struct{}
	err      error
	canceled atomic.Bool // ctx was done when the load finished
}

func (l *countingLoader) Load(ctx context.Context, id string) (domain.DecoderModule, error) {
	l.calls.Add(1)
	if l.release != nil {
		<-l.release
	}
	if ctx.Err() != nil {
		l.canceled.Store(true)
		return nil, ctx.Err()
	}
	if l.err != nil {
		return nil, l.err
	}
	return stubModule{id: id}, nil
}

type memObjects struct {
	mu      sync.Mutex
	next    int
	objects map[string][]byte
	err     error
}

func newMemObjects() *memObjects { return &memObjects{objects: make(map[string][]byte)} }

func (m *memObjects) Create(data []byte, _ string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	ref := "blob:test/" + string(rune('0'+m.next))
	m.objects[ref] = data
	return ref, nil
}

func (m *memObjects) Revoke(ref string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, ref)
	return nil
}

func (m *memObjects) Export(ref, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[ref]; !ok {
		return "", domain.ErrObjectNotFound
	}
	return "/tmp/" + ref[len("blob:test/"):] + ".vtt", nil
}

func TestPreviewService_ResolveUsesRouteToken(t *testing.T) {
	svc := NewPreviewService(stubTokens{"/movies/clip.mp4": "abc"}, stubTransport{}, &countingLoader{}, newMemObjects(), nil)

	links, strategy := svc.Resolve(domain.FileRef{Path: "/movies/clip.mp4", Name: "clip.mp4"})
	assert.Equal(t, "/api/raw/?path=/movies/clip.mp4&odpt=abc", links.MediaURL)
	assert.Equal(t, domain.StandardPlayback, strategy)

	links, strategy = svc.Resolve(domain.FileRef{Path: "/movies/clip.flv", Name: "clip.flv"})
	assert.Equal(t, "/api/raw/?path=/movies/clip.flv", links.MediaURL)
	assert.True(t, strategy.RequiresDecoder())
}

func TestPreviewService_LoadDecoderSharesInFlightLoad(t *testing.T) {
	defer goleak.VerifyNone(t)

	loader := &countingLoader{release: make(chan struct{})}
	svc := NewPreviewService(stubTokens{}, stubTransport{}, loader, newMemObjects(), nil)

	var wg sync.WaitGroup
	results := make([]domain.DecoderModule, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			mod, err := svc.LoadDecoder(context.Background(), domain.FlvDecoderID)
			assert.NoError(t, err)
			results[i] = mod
		}(i)
	}

	// Let every caller join the flight before it lands
	time.Sleep(50 * time.Millisecond)
	close(loader.release)
	wg.Wait()

	assert.EqualValues(t, 1, loader.calls.Load())
	for _, mod := range results {
		require.NotNil(t, mod)
		assert.Equal(t, domain.FlvDecoderID, mod.ID())
	}

	// Cached afterwards
	_, err := svc.LoadDecoder(context.Background(), domain.FlvDecoderID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, loader.calls.Load())
}

func TestPreviewService_AbandonedLoadDoesNotFailJoiners(t *testing.T) {
	defer goleak.VerifyNone(t)

	loader := &countingLoader{release: make(chan struct{})}
	svc := NewPreviewService(stubTokens{}, stubTransport{}, loader, newMemObjects(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := svc.LoadDecoder(ctx, domain.FlvDecoderID)
		first <- err
	}()

	// The first caller gives up while the load is still in flight
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-first:
		assert.ErrorIs(t, err, context.Canceled)
		assert.ErrorIs(t, err, domain.ErrDecoderLoad)
	case <-time.After(2 * time.Second):
		t.Fatal("cancelled caller kept waiting")
	}

	second := make(chan error, 1)
	var mod domain.DecoderModule
	go func() {
		var err error
		mod, err = svc.LoadDecoder(context.Background(), domain.FlvDecoderID)
		second <- err
	}()

	time.Sleep(50 * time.Millisecond)
	close(loader.release)

	require.NoError(t, <-second)
	require.NotNil(t, mod)
	assert.Equal(t, domain.FlvDecoderID, mod.ID())
	assert.EqualValues(t, 1, loader.calls.Load())
	assert.False(t, loader.canceled.Load(), "shared load must not see a caller's cancellation")
}

func TestPreviewService_LoadDecoderFailureIsNotCached(t *testing.T) {
	loader := &countingLoader{err: errors.New("network error")}
	svc := NewPreviewService(stubTokens{}, stubTransport{}, loader, newMemObjects(), nil)

	_, err := svc.LoadDecoder(context.Background(), domain.FlvDecoderID)
	require.Error(t, err)
	assert.Equal(t, "network error", err.Error())
	assert.ErrorIs(t, err, domain.ErrDecoderLoad)

	var loadErr *domain.DecoderLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, domain.FlvDecoderID, loadErr.DecoderID)

	loader.err = nil
	mod, err := svc.LoadDecoder(context.Background(), domain.FlvDecoderID)
	require.NoError(t, err)
	assert.Equal(t, domain.FlvDecoderID, mod.ID())
	assert.EqualValues(t, 2, loader.calls.Load())
}

func TestPreviewService_FetchSubtitle(t *testing.T) {
	objects := newMemObjects()
	transport := stubTransport{data: map[string][]byte{
		"/api/raw/?path=/movies/clip.vtt": []byte("WEBVTT\n"),
	}}
	svc := NewPreviewService(stubTokens{}, transport, &countingLoader{}, objects, nil)

	ref, err := svc.FetchSubtitle(context.Background(), "/api/raw/?path=/movies/clip.vtt")
	require.NoError(t, err)
	assert.Equal(t, []byte("WEBVTT\n"), objects.objects[ref])

	svc.Release(ref)
	assert.NotContains(t, objects.objects, ref)

	_, err = svc.FetchSubtitle(context.Background(), "/api/raw/?path=/movies/other.vtt")
	assert.ErrorIs(t, err, domain.ErrSubtitleUnavailable)

	objects.err = errors.New("disk full")
	_, err = svc.FetchSubtitle(context.Background(), "/api/raw/?path=/movies/clip.vtt")
	assert.ErrorIs(t, err, domain.ErrSubtitleUnavailable)
}
