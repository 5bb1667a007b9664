package adapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mmcdole/vidpeek/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPTransport_FetchBinary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/raw/", r.URL.Path)
		switch r.URL.Query().Get("path") {
		case "/movies/clip.vtt":
			w.Header().Set("Content-Type", "text/vtt")
			w.Write([]byte("WEBVTT\n"))
		case "/private/clip.vtt":
			if r.URL.Query().Get("odpt") != "abc" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Write([]byte("WEBVTT\n"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	tr := NewHTTPTransport(srv.URL+"/", NullLogger())
	ctx := context.Background()

	data, err := tr.FetchBinary(ctx, "/api/raw/?path=/movies/clip.vtt")
	require.NoError(t, err)
	assert.Equal(t, "WEBVTT\n", string(data))

	_, err = tr.FetchBinary(ctx, "/api/raw/?path=/movies/missing.vtt")
	assert.ErrorContains(t, err, "unexpected status 404")

	_, err = tr.FetchBinary(ctx, "/api/raw/?path=/private/clip.vtt")
	assert.ErrorIs(t, err, domain.ErrAuthFailed)

	data, err = tr.FetchBinary(ctx, srv.URL+"/api/raw/?path=/private/clip.vtt&odpt=abc")
	require.NoError(t, err)
	assert.Equal(t, "WEBVTT\n", string(data))
}

func TestHTTPTransport_CanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("late"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHTTPTransport(srv.URL, nil).FetchBinary(ctx, "/api/raw/?path=/a.vtt")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHTTPTransport_ServerDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewHTTPTransport(url, NullLogger()).FetchBinary(context.Background(), "/api/raw/?path=/a.vtt")
	assert.ErrorIs(t, err, domain.ErrServerOffline)
}
