package tui

import tea "github.com/charmbracelet/bubbletea"

// ProgramNotifier adapts domain.Notifier to a running Bubble Tea program.
type ProgramNotifier struct {
	send func(tea.Msg)
}

// NewProgramNotifier creates a notifier that posts toasts through send,
// typically (*tea.Program).Send.
func NewProgramNotifier(send func(tea.Msg)) *ProgramNotifier {
	return &ProgramNotifier{send: send}
}

// NotifySuccess shows message as a success toast
func (n *ProgramNotifier) NotifySuccess(message string) {
	if n.send != nil {
		n.send(ToastMsg{Message: message})
	}
}
