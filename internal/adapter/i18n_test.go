package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatalog_T(t *testing.T) {
	tests := []struct {
		lang string
		key  string
		want string
	}{
		{"en", "Download", "Download"},
		{"de", "Download", "Herunterladen"},
		{"de-AT", "Copy direct link", "Direktlink kopieren"},
		{"zh-CN", "Customise link", "自定义链接"},
		{"fr", "Loading FLV extension...", "Loading FLV extension..."},
		{"", "Download", "Download"},
		{"de", "Not a known key", "Not a known key"},
	}

	for _, tt := range tests {
		t.Run(tt.lang+"/"+tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, NewCatalog(tt.lang).T(tt.key))
		})
	}
}
