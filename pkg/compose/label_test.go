package compose

import (
	"testing"

	"github.com/figquilt/figquilt/pkg/layout"
)

func TestIndexLabel(t *testing.T) {
	tests := []struct {
		index int
		want  string
	}{
		{0, "A"},
		{1, "B"},
		{25, "Z"},
		{26, "AA"},
		{27, "AB"},
		{51, "AZ"},
		{52, "BA"},
		{701, "ZZ"},
		{702, "AAA"},
		{-1, ""},
	}
	for _, tt := range tests {
		if got := IndexLabel(tt.index); got != tt.want {
			t.Errorf("IndexLabel(%d) = %q, want %q", tt.index, got, tt.want)
		}
	}
}

func TestLabelText(t *testing.T) {
	page := layout.Page{Label: layout.DefaultLabelStyle()}

	t.Run("auto sequence", func(t *testing.T) {
		if got := labelText(page, layout.Panel{}, 2); got != "C" {
			t.Errorf("got %q, want C", got)
		}
	})

	t.Run("explicit override", func(t *testing.T) {
		p := layout.Panel{Label: "inset"}
		if got := labelText(page, p, 0); got != "INSET" {
			t.Errorf("got %q, want INSET (uppercase default)", got)
		}
	})

	t.Run("uppercase disabled", func(t *testing.T) {
		style := layout.DefaultLabelStyle()
		style.Uppercase = false
		p := layout.Panel{Label: "inset", LabelStyle: &style}
		if got := labelText(page, p, 0); got != "inset" {
			t.Errorf("got %q, want inset", got)
		}
	})

	t.Run("labels disabled", func(t *testing.T) {
		style := layout.DefaultLabelStyle()
		style.Enabled = false
		p := layout.Panel{Label: "x", LabelStyle: &style}
		if got := labelText(page, p, 0); got != "" {
			t.Errorf("got %q, want empty", got)
		}
	})

	t.Run("no label without auto sequence", func(t *testing.T) {
		style := layout.DefaultLabelStyle()
		style.AutoSequence = false
		p := layout.Panel{LabelStyle: &style}
		if got := labelText(page, p, 0); got != "" {
			t.Errorf("got %q, want empty", got)
		}
	})
}
