package adapter

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// translations keyed by the English source string
var translations = map[language.Tag]map[string]string{
	language.German: {
		"Loading FLV extension...":         "FLV-Erweiterung wird geladen...",
		"Download":                         "Herunterladen",
		"Copy direct link":                 "Direktlink kopieren",
		"Customise link":                   "Link anpassen",
		"Copied direct link to clipboard.": "Direktlink in die Zwischenablage kopiert.",
		"Copied to clipboard.":             "In die Zwischenablage kopiert.",
		"Play":                             "Abspielen",
		"Retry":                            "Erneut versuchen",
		"Subtitle":                         "Untertitel",
		"Default":                          "Standard",
		"URL encoded":                      "URL-kodiert",
		"Customised":                       "Angepasst",
		"Customise link name":              "Linknamen anpassen",
		"Close":                            "Schließen",
		"Copy":                             "Kopieren",
		"Error":                            "Fehler",
	},
	language.SimplifiedChinese: {
		"Loading FLV extension...":         "正在加载 FLV 扩展...",
		"Download":                         "下载",
		"Copy direct link":                 "复制直链",
		"Customise link":                   "自定义链接",
		"Copied direct link to clipboard.": "已复制直链到剪贴板。",
		"Copied to clipboard.":             "已复制到剪贴板。",
		"Play":                             "播放",
		"Retry":                            "重试",
		"Subtitle":                         "字幕",
		"Default":                          "默认",
		"URL encoded":                      "URL 编码",
		"Customised":                       "自定义",
		"Customise link name":              "自定义链接名称",
		"Close":                            "关闭",
		"Copy":                             "复制",
		"Error":                            "错误",
	},
}

// Catalog translates UI strings for one language.
// Unknown keys and unsupported languages fall back to the English key.
type Catalog struct {
	printer *message.Printer
}

// NewCatalog builds a translator for the BCP 47 tag lang
func NewCatalog(lang string) *Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, strs := range translations {
		for key, msg := range strs {
			b.SetString(tag, key, msg)
		}
	}

	supported := append([]language.Tag{language.English}, b.Languages()...)
	_, idx, _ := language.NewMatcher(supported).Match(language.Make(lang))

	return &Catalog{
		printer: message.NewPrinter(supported[idx], message.Catalog(b)),
	}
}

// T returns the translation for key
func (c *Catalog) T(key string) string {
	return c.printer.Sprintf(key)
}
