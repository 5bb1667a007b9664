package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func identity(s string) string { return s }

func TestLinkMenu_CopySelected(t *testing.T) {
	m := NewLinkMenu(identity)
	assert.False(t, m.IsVisible())

	m.Show("https://drive.example.com", "/movies/clip.mp4", "clip.mp4", "abc")
	assert.True(t, m.IsVisible())

	m, _, link := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "https://drive.example.com/api/name/clip.mp4?path=/movies/clip.mp4&odpt=abc", link)

	m, _, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, _, link = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "https://drive.example.com/api/raw/?path=/movies/clip.mp4&odpt=abc", link)
}

func TestLinkMenu_EditName(t *testing.T) {
	m := NewLinkMenu(identity)
	m.Show("https://drive.example.com", "/movies/clip.mp4", "clip.mp4", "")

	m, _, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	assert.Equal(t, "https://drive.example.com/api/name/clip.mp4x?path=/movies/clip.mp4", m.Links().Customised)
}

func TestLinkMenu_EscHides(t *testing.T) {
	m := NewLinkMenu(identity)
	m.Show("https://h", "/a.mp4", "a.mp4", "")

	m, _, link := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.IsVisible())
	assert.Empty(t, link)
	assert.Empty(t, m.View())
}
