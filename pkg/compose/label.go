package compose

import (
	"strings"

	"github.com/figquilt/figquilt/pkg/layout"
)

// IndexLabel converts a zero-based panel index to a spreadsheet-style
// label: A..Z, then AA, AB, and so on.
func IndexLabel(index int) string {
	if index < 0 {
		return ""
	}
	var chars []byte
	value := index
	for {
		chars = append(chars, byte('A'+value%26))
		value /= 26
		if value == 0 {
			break
		}
		value--
	}
	for i, j := 0, len(chars)-1; i < j; i, j = i+1, j-1 {
		chars[i], chars[j] = chars[j], chars[i]
	}
	return string(chars)
}

// labelStyle picks the effective style for a panel: its own override if
// present, the page default otherwise.
func labelStyle(page layout.Page, p layout.Panel) layout.LabelStyle {
	if p.LabelStyle != nil {
		return *p.LabelStyle
	}
	return page.Label
}

// labelText resolves the final label text for the panel at the given
// position in the resolved order. Empty means no label is drawn.
func labelText(page layout.Page, p layout.Panel, index int) string {
	style := labelStyle(page, p)
	if !style.Enabled {
		return ""
	}
	text := p.Label
	if text == "" && style.AutoSequence {
		text = IndexLabel(index)
	}
	if text == "" {
		return ""
	}
	if style.Uppercase {
		text = strings.ToUpper(text)
	}
	return text
}
