package compose

import (
	"encoding/json"

	"github.com/figquilt/figquilt/pkg/layout"
)

type jsonOutput struct {
	Page   jsonPage    `json:"page"`
	Panels []jsonPanel `json:"panels"`
}

type jsonPage struct {
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Margin     float64 `json:"margin"`
	DPI        int     `json:"dpi"`
	Background string  `json:"background,omitempty"`
}

type jsonPanel struct {
	ID     string  `json:"id"`
	Source string  `json:"source"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Fit    string  `json:"fit"`
	Align  string  `json:"align"`
	Label  string  `json:"label,omitempty"`
}

// RenderJSON exports the resolved geometry as a pretty-printed JSON
// document: page info plus one entry per panel, all in points, with the
// final label text already resolved. This is the interchange format for
// downstream tooling that wants the layout without any drawing.
func RenderJSON(page layout.Page, panels []layout.Panel) ([]byte, error) {
	out := jsonOutput{
		Page: jsonPage{
			Width:      page.Width,
			Height:     page.Height,
			Margin:     page.Margin,
			DPI:        page.DPI,
			Background: page.Background,
		},
		Panels: make([]jsonPanel, 0, len(panels)),
	}

	for i, p := range panels {
		out.Panels = append(out.Panels, jsonPanel{
			ID:     p.ID,
			Source: p.Source,
			X:      p.X,
			Y:      p.Y,
			Width:  p.Width,
			Height: p.Height,
			Fit:    string(p.Fit),
			Align:  string(p.Align),
			Label:  labelText(page, p, i),
		})
	}

	return json.MarshalIndent(out, "", "  ")
}
