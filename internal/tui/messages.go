package tui

import (
	"github.com/mmcdole/vidpeek/internal/domain"
)

// Message types for the TUI

// ErrMsg represents a failed user action
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// DecoderLoadedMsg carries the outcome of a decoder load.
// Gen identifies the load; results from a superseded load are dropped.
type DecoderLoadedMsg struct {
	Gen       int
	DecoderID string
	Module    domain.DecoderModule
	Err       error
}

// SubtitleLoadedMsg carries the outcome of a subtitle fetch.
// Ref is a local object reference to the fetched bytes.
type SubtitleLoadedMsg struct {
	Gen int
	URL string
	Ref string
	Err error
}

// PlaybackStartedMsg signals that the external player was launched
type PlaybackStartedMsg struct {
	Name string
}

// ToastMsg is a success notification raised outside the update loop
type ToastMsg struct {
	Message string
}

// ClearStatusMsg clears the status bar message if it is still message Seq
type ClearStatusMsg struct {
	Seq int
}
