package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/vidpeek/internal/preview"
	"github.com/mmcdole/vidpeek/internal/tui/styles"
)

// Link kinds offered by the menu, in display order
const (
	LinkDefault = iota
	LinkEncoded
	LinkCustomised
	linkCount
)

// LinkMenu lets the user pick and customise a shareable link for a path.
// Typing edits the custom name; up/down pick a link; enter copies it.
type LinkMenu struct {
	visible  bool
	base     string
	path     string
	token    string
	selected int
	labels   [linkCount]string
	title    string
	hint     string
	input    textinput.Model
}

// NewLinkMenu creates a hidden link menu. t translates labels.
func NewLinkMenu(t func(string) string) LinkMenu {
	ti := textinput.New()
	ti.Placeholder = "file name"
	ti.CharLimit = 120
	ti.Width = 40
	ti.Prompt = "name: "
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return LinkMenu{
		input:  ti,
		title:  t("Customise link"),
		hint:   "enter " + t("Copy") + " · esc " + t("Close"),
		labels: [linkCount]string{t("Default"), t("URL encoded"), t("Customised")},
	}
}

// Show opens the menu for path, with the file name as the initial custom name
func (m *LinkMenu) Show(base, path, name, token string) {
	m.visible = true
	m.base = base
	m.path = path
	m.token = token
	m.selected = LinkCustomised
	m.input.SetValue(name)
	m.input.CursorEnd()
	m.input.Focus()
}

// Hide dismisses the menu
func (m *LinkMenu) Hide() {
	m.visible = false
	m.input.Blur()
}

// IsVisible returns whether the menu is shown
func (m LinkMenu) IsVisible() bool {
	return m.visible
}

// Links returns the share links for the current name
func (m LinkMenu) Links() preview.ShareLinks {
	return preview.BuildShareLinks(m.base, m.path, m.input.Value(), m.token)
}

// Selected returns the link currently picked
func (m LinkMenu) Selected() string {
	links := m.Links()
	switch m.selected {
	case LinkDefault:
		return links.Default
	case LinkEncoded:
		return links.Encoded
	default:
		return links.Customised
	}
}

// Update handles input events, returns (menu, cmd, link to copy or "")
func (m LinkMenu) Update(msg tea.Msg) (LinkMenu, tea.Cmd, string) {
	if !m.visible {
		return m, nil, ""
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			return m, nil, m.Selected()
		case "esc":
			m.Hide()
			return m, nil, ""
		case "up", "shift+tab":
			m.selected = (m.selected + linkCount - 1) % linkCount
			return m, nil, ""
		case "down", "tab":
			m.selected = (m.selected + 1) % linkCount
			return m, nil, ""
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd, ""
}

// View renders the link menu
func (m LinkMenu) View() string {
	if !m.visible {
		return ""
	}

	const modalWidth = 64

	rowStyle := lipgloss.NewStyle().Width(modalWidth).Background(styles.SlateDark)
	spacer := rowStyle.Render("")

	links := m.Links()
	values := [linkCount]string{links.Default, links.Encoded, links.Customised}

	rows := []string{
		styles.ModalTitleStyle.Width(modalWidth).Background(styles.SlateDark).Render(m.title),
		rowStyle.Render(m.input.View()),
		spacer,
	}
	for i, label := range m.labels {
		marker := "  "
		labelStyle := styles.SubtitleStyle
		if i == m.selected {
			marker = styles.AccentStyle.Render("▸ ")
			labelStyle = styles.AccentStyle.Bold(true)
		}
		rows = append(rows,
			rowStyle.Render(marker+labelStyle.Render(label)),
			rowStyle.Render("  "+styles.DimStyle.Render(styles.Truncate(values[i], modalWidth-2))),
		)
	}

	rows = append(rows, spacer, rowStyle.Render(styles.DimStyle.Render(m.hint)))

	return styles.ModalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
