package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/vidpeek/internal/domain"
	"github.com/mmcdole/vidpeek/internal/service"
)

// Command factories for async operations

// LoadDecoderCmd loads the decoder extension for a preview.
// There is no timeout: a hung load keeps the preview loading until it is superseded.
func LoadDecoderCmd(ctx context.Context, svc *service.PreviewService, gen int, decoderID string) tea.Cmd {
	return func() tea.Msg {
		mod, err := svc.LoadDecoder(ctx, decoderID)
		return DecoderLoadedMsg{Gen: gen, DecoderID: decoderID, Module: mod, Err: err}
	}
}

// FetchSubtitleCmd fetches and materializes the subtitle track for a preview
func FetchSubtitleCmd(ctx context.Context, svc *service.PreviewService, gen int, url string) tea.Cmd {
	return func() tea.Msg {
		ref, err := svc.FetchSubtitle(ctx, url)
		return SubtitleLoadedMsg{Gen: gen, URL: url, Ref: ref, Err: err}
	}
}

// PlayCmd starts the decoder session, if any, then launches the external player
func PlayCmd(svc *service.PlaybackService, session domain.DecoderSession, name, src, captionRef string) tea.Cmd {
	return func() tea.Msg {
		if session != nil {
			if err := session.Load(); err != nil {
				return ErrMsg{Err: err, Context: "starting decoder"}
			}
		}
		if err := svc.Play(src, captionRef); err != nil {
			return ErrMsg{Err: err, Context: "starting playback"}
		}
		return PlaybackStartedMsg{Name: name}
	}
}

// DownloadCmd opens the media URL with the system handler
func DownloadCmd(svc *service.PlaybackService, mediaURL string) tea.Cmd {
	return func() tea.Msg {
		if err := svc.Download(mediaURL); err != nil {
			return ErrMsg{Err: err, Context: "opening link"}
		}
		return nil
	}
}

// CopyDirectLinkCmd copies the absolute media URL; the confirmation arrives as a toast
func CopyDirectLinkCmd(svc *service.PlaybackService, mediaURL string) tea.Cmd {
	return func() tea.Msg {
		if err := svc.CopyDirectLink(mediaURL); err != nil {
			return ErrMsg{Err: err, Context: "copying link"}
		}
		return nil
	}
}

// CopyLinkCmd copies a link built by the link menu
func CopyLinkCmd(svc *service.PlaybackService, link string) tea.Cmd {
	return func() tea.Msg {
		if err := svc.CopyLink(link); err != nil {
			return ErrMsg{Err: err, Context: "copying link"}
		}
		return nil
	}
}

// ClearStatusCmd clears status message seq after a delay
func ClearStatusCmd(seq int, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return ClearStatusMsg{Seq: seq}
	})
}
