package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/vidpeek/internal/domain"
	"github.com/mmcdole/vidpeek/internal/tui/styles"
)

// Pane is what the preview area shows
type Pane int

const (
	PanePlayer Pane = iota
	PaneLoading
	PaneError
)

// PreviewPane maps a phase to the pane shown for it. An error always wins;
// the loading pane is only for decoder loads.
func PreviewPane(phase domain.PreviewPhase, requiresDecoder bool) Pane {
	switch {
	case phase.IsError():
		return PaneError
	case phase.IsLoading() && requiresDecoder:
		return PaneLoading
	default:
		return PanePlayer
	}
}

const minPaneWidth = 40

// View renders the preview
func (m PreviewModel) View() string {
	width := m.Width
	if width < minPaneWidth {
		width = minPaneWidth
	}
	inner := width - 6 // border + padding

	sections := []string{
		m.renderHeader(width),
		m.renderPane(inner),
		m.renderActions(),
		m.renderStatus(),
		m.Help.View(m.Keys),
	}
	view := lipgloss.JoinVertical(lipgloss.Left, sections...)

	if m.LinkMenu.IsVisible() && m.Height > 0 {
		return lipgloss.Place(width, m.Height, lipgloss.Center, lipgloss.Center, m.LinkMenu.View())
	}
	if m.LinkMenu.IsVisible() {
		return view + "\n" + m.LinkMenu.View()
	}
	return view
}

func (m PreviewModel) renderHeader(width int) string {
	title := styles.TitleStyle.Render(styles.Truncate(m.File.Name, width-12))
	if len(m.Files) > 1 {
		title += styles.DimStyle.Render(fmt.Sprintf("  %d/%d", m.Index+1, len(m.Files)))
	}
	return title + "\n" + styles.DimStyle.Render(styles.Truncate(m.File.Path, width))
}

func (m PreviewModel) renderPane(width int) string {
	switch PreviewPane(m.Phase, m.Strategy.RequiresDecoder()) {
	case PaneError:
		body := styles.ErrorStyle.Bold(true).Render("✗ "+m.PlaybackSvc.T("Error")) + "\n\n" +
			styles.ErrorStyle.Render(m.Phase.Message)
		return styles.ErrorPanelStyle.Width(width).Render(body)

	case PaneLoading:
		body := m.Spinner.View() + " " + m.PlaybackSvc.T("Loading FLV extension...")
		return styles.PreviewStyle.Width(width).Render(body)

	default:
		return styles.PreviewStyle.Width(width).Render(m.renderSurface(width))
	}
}

// renderSurface describes the player surface: what it plays, its poster,
// its caption track and whether a decoder feeds it
func (m PreviewModel) renderSurface(width int) string {
	if m.Surface == nil {
		return styles.DimStyle.Render("…")
	}
	s := m.Surface

	row := func(label, value string) string {
		return styles.SubtitleStyle.Render(fmt.Sprintf("%-9s", label)) +
			styles.Truncate(value, width-9)
	}

	caption := styles.DimStyle.Render("none")
	if s.CaptionSource() != "" {
		caption = styles.SuccessStyle.Render(s.Track.Label)
	}

	feed := "native"
	if s.NeedsFeed {
		feed = "decoder"
		if s.Session() == nil {
			feed = "decoder (unavailable, raw)"
		}
	}

	lines := []string{
		styles.AccentStyle.Render("▶ ") + styles.TitleStyle.Render(m.PlaybackSvc.T("Play")),
		"",
		row("source", s.Source()),
		row("poster", s.Poster),
		row("captions", caption),
		row("playback", feed),
	}
	return strings.Join(lines, "\n")
}

func (m PreviewModel) renderActions() string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		styles.BlueButton.Render("d "+m.PlaybackSvc.T("Download")),
		styles.PinkButton.Render("c "+m.PlaybackSvc.T("Copy direct link")),
		styles.TealButton.Render("e "+m.PlaybackSvc.T("Customise link")),
	)
}

func (m PreviewModel) renderStatus() string {
	if m.StatusMsg == "" {
		return " "
	}
	if m.StatusIsErr {
		return styles.ErrorStyle.Render(m.StatusMsg)
	}
	return styles.SuccessStyle.Render("✓ " + m.StatusMsg)
}
