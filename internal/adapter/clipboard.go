package adapter

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// SystemClipboard writes to the OS clipboard
type SystemClipboard struct{}

// WriteAll replaces the clipboard contents with text
func (SystemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard is not supported on this system")
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("failed to write clipboard: %w", err)
	}
	return nil
}
