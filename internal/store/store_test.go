package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mmcdole/vidpeek/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectStore_MemoryOnly(t *testing.T) {
	s, err := NewObjectStore("")
	require.NoError(t, err)
	defer s.Close()

	ref, err := s.Create([]byte("WEBVTT\n"), "text/vtt")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, RefPrefix))

	data, mimeType, err := s.Open(ref)
	require.NoError(t, err)
	assert.Equal(t, "WEBVTT\n", string(data))
	assert.Equal(t, "text/vtt", mimeType)

	require.NoError(t, s.Revoke(ref))
	_, _, err = s.Open(ref)
	assert.ErrorIs(t, err, domain.ErrObjectNotFound)
}

func TestObjectStore_RefsAreUnique(t *testing.T) {
	s, err := NewObjectStore("")
	require.NoError(t, err)
	defer s.Close()

	a, err := s.Create([]byte("a"), "text/vtt")
	require.NoError(t, err)
	b, err := s.Create([]byte("a"), "text/vtt")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestObjectStore_BoltBackedSurvivesCacheMiss(t *testing.T) {
	base := t.TempDir()
	s, err := NewObjectStore(base)
	require.NoError(t, err)

	ref, err := s.Create([]byte("WEBVTT\n\n00:00.000 --> 00:01.000\nhi\n"), "text/vtt")
	require.NoError(t, err)

	// Drop the hot copy so the read goes through BoltDB
	s.mu.Lock()
	delete(s.cache, ref)
	s.mu.Unlock()

	data, _, err := s.Open(ref)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hi")

	dir := s.dir
	require.NoError(t, s.Close())
	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err), "session dir should be removed on close")
}

func TestObjectStore_Export(t *testing.T) {
	s, err := NewObjectStore("")
	require.NoError(t, err)
	defer s.Close()

	ref, err := s.Create([]byte("WEBVTT\n"), "text/vtt")
	require.NoError(t, err)

	out := t.TempDir()
	path, err := s.Export(ref, out)
	require.NoError(t, err)
	assert.Equal(t, out, filepath.Dir(path))
	assert.Equal(t, ".vtt", filepath.Ext(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "WEBVTT\n", string(data))

	_, err = s.Export("blob:vidpeek/missing", out)
	assert.ErrorIs(t, err, domain.ErrObjectNotFound)
}

func TestObjectStore_RevokeUnknownIsNoop(t *testing.T) {
	s, err := NewObjectStore(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	assert.NoError(t, s.Revoke("blob:vidpeek/nope"))
}

func TestObjectStore_ExportedFilesRemovedOnClose(t *testing.T) {
	tests := []struct {
		name    string
		baseDir func(t *testing.T) string
	}{
		{"memory only", func(*testing.T) string { return "" }},
		{"bolt backed", func(t *testing.T) string { return t.TempDir() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewObjectStore(tt.baseDir(t))
			require.NoError(t, err)

			ref, err := s.Create([]byte("WEBVTT\n"), "text/vtt")
			require.NoError(t, err)

			first, err := s.Export(ref, "")
			require.NoError(t, err)
			second, err := s.Export(ref, "")
			require.NoError(t, err)
			assert.NotEqual(t, first, second)
			assert.Equal(t, filepath.Dir(first), filepath.Dir(second), "exports share the session dir")
			assert.NotEqual(t, os.TempDir(), filepath.Dir(first))

			require.NoError(t, s.Close())

			for _, path := range []string{first, second, filepath.Dir(first)} {
				_, err := os.Stat(path)
				assert.True(t, os.IsNotExist(err), "%s should be removed on close", path)
			}
		})
	}
}
