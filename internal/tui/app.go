package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/vidpeek/internal/domain"
	"github.com/mmcdole/vidpeek/internal/preview"
	"github.com/mmcdole/vidpeek/internal/service"
	"github.com/mmcdole/vidpeek/internal/tui/components"
	"github.com/mmcdole/vidpeek/internal/tui/styles"
)

const (
	toastDuration = 3 * time.Second
	errorDuration = 5 * time.Second
)

// keyedOp tracks one async operation keyed by a dependency identity.
// Restarting it cancels the previous run and makes its result stale.
type keyedOp struct {
	gen    int
	cancel context.CancelFunc
}

// restart supersedes any in-flight run and returns the context and
// generation of the new one
func (o *keyedOp) restart() (context.Context, int) {
	o.stop()
	ctx, cancel := context.WithCancel(context.Background())
	o.cancel = cancel
	return ctx, o.gen
}

// stop cancels the in-flight run, if any, and invalidates its result
func (o *keyedOp) stop() {
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
	o.gen++
}

// settle accepts the result of run gen; false means the result is stale
func (o *keyedOp) settle(gen int) bool {
	if gen != o.gen || o.cancel == nil {
		return false
	}
	o.cancel()
	o.cancel = nil
	return true
}

// PreviewModel is the Bubble Tea model for a media preview. It owns the
// preview phase, the decoder handle and the caption attachment.
type PreviewModel struct {
	// Services
	PreviewSvc  *service.PreviewService
	PlaybackSvc *service.PlaybackService

	// Files the user can step through
	Files []domain.FileRef
	Index int

	// Current preview
	File     domain.FileRef
	Links    domain.ResolvedLinks
	Strategy domain.PlaybackStrategy
	Phase    domain.PreviewPhase
	Surface  *PlayerSurface

	decoder    domain.DecoderModule
	captionRef string
	mounted    bool
	decoderOp  *keyedOp
	subtitleOp *keyedOp
	initCmd    tea.Cmd

	// UI Components
	LinkMenu components.LinkMenu
	Spinner  spinner.Model
	Help     help.Model
	Keys     KeyMap

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg   string
	StatusIsErr bool
	statusSeq   int

	logger *slog.Logger
}

// NewPreviewModel creates a preview over files and mounts the first one.
// The loads it needs start when the program calls Init.
func NewPreviewModel(
	previewSvc *service.PreviewService,
	playbackSvc *service.PlaybackService,
	files []domain.FileRef,
	logger *slog.Logger,
) PreviewModel {
	if logger == nil {
		logger = slog.Default()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SpinnerStyle

	m := PreviewModel{
		PreviewSvc:  previewSvc,
		PlaybackSvc: playbackSvc,
		Files:       files,
		decoderOp:   &keyedOp{},
		subtitleOp:  &keyedOp{},
		LinkMenu:    components.NewLinkMenu(playbackSvc.T),
		Spinner:     sp,
		Help:        help.New(),
		Keys:        DefaultKeyMap(),
		logger:      logger,
	}
	if len(files) > 0 {
		m.initCmd = m.show(files[0])
	}
	return m
}

// Init starts the loads of the mounted file
func (m PreviewModel) Init() tea.Cmd {
	return m.initCmd
}

// show switches the preview to file. Each async operation re-runs only when
// its dependency key changed: the decoder load on strategy identity, the
// subtitle fetch on (mediaUrl, subtitleUrl, strategy).
func (m *PreviewModel) show(file domain.FileRef) tea.Cmd {
	links, strategy := m.PreviewSvc.Resolve(file)

	strategyChanged := !m.mounted || strategy != m.Strategy
	linksChanged := !m.mounted || links.MediaURL != m.Links.MediaURL || links.SubtitleURL != m.Links.SubtitleURL

	m.File = file
	m.Links = links
	m.Strategy = strategy
	m.mounted = true

	var cmds []tea.Cmd

	if strategyChanged {
		m.decoder = nil
		m.Phase = domain.InitialPhase(strategy)
		if strategy.RequiresDecoder() {
			cmds = append(cmds, m.loadDecoder(), m.Spinner.Tick)
		} else {
			m.decoderOp.stop()
		}
	}

	if strategyChanged || linksChanged {
		m.PreviewSvc.Release(m.captionRef)
		m.captionRef = ""
		ctx, gen := m.subtitleOp.restart()
		cmds = append(cmds, FetchSubtitleCmd(ctx, m.PreviewSvc, gen, links.SubtitleURL))
	}

	cmds = append(cmds, m.syncSurface())

	m.logger.Debug("showing preview",
		"path", file.Path,
		"strategy", strategy.String(),
		"phase", m.Phase.Kind.String())

	return tea.Batch(cmds...)
}

// loadDecoder enters the loading phase and starts a fresh decoder load
func (m *PreviewModel) loadDecoder() tea.Cmd {
	m.Phase = domain.LoadingPhase()
	ctx, gen := m.decoderOp.restart()
	return LoadDecoderCmd(ctx, m.PreviewSvc, gen, m.Strategy.DecoderID)
}

// syncSurface keeps the player surface in step with the phase and links.
// A surface exists only in the ready phase.
func (m *PreviewModel) syncSurface() tea.Cmd {
	if !m.Phase.IsReady() {
		m.teardownSurface()
		return nil
	}

	want := surfaceKey{
		MediaURL:    m.Links.MediaURL,
		SubtitleURL: m.Links.SubtitleURL,
		Strategy:    m.Strategy,
		WithDecoder: m.decoder != nil,
	}
	if m.Surface != nil && m.Surface.key == want {
		return nil
	}

	m.teardownSurface()
	surface := NewPlayerSurface(m.Links, m.Strategy, m.PlaybackSvc.T("Subtitle"))
	surface.SetCaptionSource(m.captionRef)

	var cmd tea.Cmd
	if m.Strategy.RequiresDecoder() && m.decoder != nil {
		cfg := domain.SessionConfig{
			Type: preview.ContainerType(m.File.Name),
			URL:  m.PlaybackSvc.AbsoluteURL(m.Links.MediaURL),
		}
		if err := surface.AttachDecoder(m.decoder, cfg); err != nil {
			m.logger.Error("decoder session failed", "path", m.File.Path, "error", err)
			cmd = m.setStatus(err.Error(), true)
		}
	}
	m.Surface = surface
	return cmd
}

func (m *PreviewModel) teardownSurface() {
	if m.Surface == nil {
		return
	}
	if err := m.Surface.Destroy(); err != nil {
		m.logger.Warn("failed to destroy decoder session", "error", err)
	}
	m.Surface = nil
}

// Close cancels in-flight loads and releases everything the preview owns
func (m *PreviewModel) Close() {
	m.decoderOp.stop()
	m.subtitleOp.stop()
	m.teardownSurface()
	m.PreviewSvc.Release(m.captionRef)
	m.captionRef = ""
}

// Update handles all messages
func (m PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case DecoderLoadedMsg:
		if !m.decoderOp.settle(msg.Gen) {
			m.logger.Debug("dropping stale decoder result", "decoder", msg.DecoderID, "gen", msg.Gen)
			return m, nil
		}
		if msg.Err != nil {
			m.Phase = domain.ErrorPhase(msg.Err.Error())
		} else {
			m.decoder = msg.Module
			m.Phase = domain.ReadyPhase()
		}
		m.Keys.Retry.SetEnabled(m.Phase.IsError())
		return m, m.syncSurface()

	case SubtitleLoadedMsg:
		if !m.subtitleOp.settle(msg.Gen) {
			// Late arrival for a file we no longer show
			m.PreviewSvc.Release(msg.Ref)
			return m, nil
		}
		if msg.Err != nil {
			m.logger.Debug("could not load subtitle", "url", msg.URL, "error", msg.Err)
			return m, nil
		}
		m.captionRef = msg.Ref
		if m.Surface != nil {
			m.Surface.SetCaptionSource(msg.Ref)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.Phase.IsLoading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case PlaybackStartedMsg:
		return m, m.setStatus("Launched: "+msg.Name, false)

	case ToastMsg:
		return m, m.setStatus(msg.Message, false)

	case ErrMsg:
		m.logger.Error("action failed", "context", msg.Context, "error", msg.Err)
		return m, m.setStatus(msg.Error(), true)

	case ClearStatusMsg:
		if msg.Seq == m.statusSeq {
			m.StatusMsg = ""
			m.StatusIsErr = false
		}
		return m, nil
	}

	if m.LinkMenu.IsVisible() {
		var cmd tea.Cmd
		m.LinkMenu, cmd, _ = m.LinkMenu.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleKeyMsg routes key presses to the link menu or the preview actions.
// No action changes the phase, except retry after a failed decoder load.
func (m PreviewModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.Close()
		return m, tea.Quit
	}

	if m.LinkMenu.IsVisible() {
		var cmd tea.Cmd
		var link string
		m.LinkMenu, cmd, link = m.LinkMenu.Update(msg)
		if link != "" {
			m.LinkMenu.Hide()
			return m, tea.Batch(cmd, CopyLinkCmd(m.PlaybackSvc, link))
		}
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.Keys.Quit):
		m.Close()
		return m, tea.Quit

	case key.Matches(msg, m.Keys.Help):
		m.Help.ShowAll = !m.Help.ShowAll
		return m, nil

	case key.Matches(msg, m.Keys.Next):
		return m, m.step(1)

	case key.Matches(msg, m.Keys.Prev):
		return m, m.step(-1)

	case key.Matches(msg, m.Keys.Play):
		if m.Surface == nil {
			return m, nil
		}
		return m, PlayCmd(m.PlaybackSvc, m.Surface.Session(), m.File.Name, m.Surface.Source(), m.Surface.CaptionSource())

	case key.Matches(msg, m.Keys.Download):
		return m, DownloadCmd(m.PlaybackSvc, m.Links.MediaURL)

	case key.Matches(msg, m.Keys.CopyLink):
		return m, CopyDirectLinkCmd(m.PlaybackSvc, m.Links.MediaURL)

	case key.Matches(msg, m.Keys.Customise):
		m.LinkMenu.Show(m.PlaybackSvc.BaseURL(), m.File.Path, m.File.Name, m.PreviewSvc.Token(m.File.Path))
		return m, nil

	case key.Matches(msg, m.Keys.Retry):
		if !m.Phase.IsError() || !m.Strategy.RequiresDecoder() {
			return m, nil
		}
		m.Keys.Retry.SetEnabled(false)
		return m, tea.Batch(m.loadDecoder(), m.Spinner.Tick)
	}

	return m, nil
}

// step moves to the file delta positions away, wrapping around
func (m *PreviewModel) step(delta int) tea.Cmd {
	if len(m.Files) < 2 {
		return nil
	}
	m.Index = (m.Index + delta + len(m.Files)) % len(m.Files)
	cmd := m.show(m.Files[m.Index])
	m.Keys.Retry.SetEnabled(m.Phase.IsError())
	return cmd
}

// setStatus shows a status line and schedules its removal
func (m *PreviewModel) setStatus(text string, isErr bool) tea.Cmd {
	m.statusSeq++
	m.StatusMsg = text
	m.StatusIsErr = isErr
	delay := toastDuration
	if isErr {
		delay = errorDuration
	}
	return ClearStatusCmd(m.statusSeq, delay)
}
