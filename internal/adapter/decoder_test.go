package adapter

import (
	"context"
	"errors"
	"testing"

	"github.com/mmcdole/vidpeek/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeModule struct{ id string }

func (f fakeModule) ID() string { return f.id }
func (f fakeModule) CreateSession(domain.SessionConfig) (domain.DecoderSession, error) {
	return nil, errors.New("not implemented")
}

type element struct{ src string }

func (e *element) Source() string     { return e.src }
func (e *element) SetSource(s string) { e.src = s }

func TestDecoderRegistry_Load(t *testing.T) {
	r := NewDecoderRegistry(DecoderConfig{}, NullLogger())
	r.Register("fake", func(context.Context) (domain.DecoderModule, error) {
		return fakeModule{id: "fake"}, nil
	})

	mod, err := r.Load(context.Background(), "fake")
	require.NoError(t, err)
	assert.Equal(t, "fake", mod.ID())

	_, err = r.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrDecoderNotFound)
}

func TestDecoderRegistry_MissingBinary(t *testing.T) {
	r := NewDecoderRegistry(DecoderConfig{FFmpeg: "/nonexistent/ffmpeg-for-test"}, NullLogger())

	_, err := r.Load(context.Background(), domain.FlvDecoderID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestHasDemuxer(t *testing.T) {
	listing := `File formats:
 D. = Demuxing supported
 .E = Muxing supported
 --
 D  flv             FLV (Flash Video)
 D  live_flv        live RTMP FLV (Flash Video)
 D  mov,mp4,m4a,3gp,3g2,mj2 QuickTime / MOV
  E mpegts          MPEG-TS (MPEG-2 Transport Stream)
`
	assert.True(t, hasDemuxer(listing, "flv"))
	assert.True(t, hasDemuxer(listing, "mp4"))
	assert.False(t, hasDemuxer(listing, "mpegts"))
	assert.False(t, hasDemuxer(listing, "mkv"))
}

func TestFFmpegSession_AttachTakesOver(t *testing.T) {
	m := &ffmpegModule{id: domain.FlvDecoderID, binary: "ffmpeg", logger: NullLogger()}

	sess, err := m.CreateSession(domain.SessionConfig{Type: "flv", URL: "https://drive.example.com/api/raw/?path=/a.flv"})
	require.NoError(t, err)

	el := &element{src: "https://drive.example.com/api/raw/?path=/a.flv"}
	require.NoError(t, sess.AttachMediaElement(el))
	assert.Regexp(t, `^http://127\.0\.0\.1:\d+/stream\.ts$`, el.Source())

	require.NoError(t, sess.Destroy())
	require.NoError(t, sess.Destroy())
}

func TestFFmpegSession_LoadNeedsElement(t *testing.T) {
	m := &ffmpegModule{id: domain.FlvDecoderID, binary: "ffmpeg", logger: NullLogger()}
	sess, err := m.CreateSession(domain.SessionConfig{Type: "flv", URL: "http://x/a.flv"})
	require.NoError(t, err)

	assert.Error(t, sess.Load())

	_, err = m.CreateSession(domain.SessionConfig{Type: "flv"})
	assert.Error(t, err)
}
