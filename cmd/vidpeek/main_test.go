package main

import (
	"bytes"
	"testing"

	"github.com/mmcdole/vidpeek/internal/adapter"
	"github.com/mmcdole/vidpeek/internal/domain"
	"github.com/mmcdole/vidpeek/internal/service"
	"github.com/mmcdole/vidpeek/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileRefs(t *testing.T) {
	got := fileRefs([]string{"/movies/a.mp4", "private/b.flv"})

	assert.Equal(t, []domain.FileRef{
		{Path: "/movies/a.mp4", Name: "a.mp4"},
		{Path: "/private/b.flv", Name: "b.flv"},
	}, got)
}

func TestPrintLinks(t *testing.T) {
	objects, err := store.NewObjectStore("")
	require.NoError(t, err)
	defer objects.Close()

	tokens := adapter.NewRouteTokens([]adapter.RouteConfig{{Path: "/private", Token: "abc"}})
	svc := service.NewPreviewService(tokens, nil, nil, objects, adapter.NullLogger())

	var buf bytes.Buffer
	printLinks(&buf, svc, "https://drive.example.com/", fileRefs([]string{"/private/b.flv"}))

	out := buf.String()
	assert.Contains(t, out, "strategy:  "+domain.ExtensionRequired(domain.FlvDecoderID).String())
	assert.Contains(t, out, "media:     https://drive.example.com/api/raw/?path=/private/b.flv&odpt=abc")
	assert.Contains(t, out, "thumbnail: https://drive.example.com/api/thumbnail/?path=/private/b.flv&size=large&odpt=abc")
	assert.Contains(t, out, "subtitle:  https://drive.example.com/api/raw/?path=/private/b.vtt&odpt=abc")
}
