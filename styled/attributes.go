package styled

import (
	"image/color"

	"github.com/ByLCY/inkline/theme"
)

// LineStyle 为下划线/删除线样式，零值表示未设置。
type LineStyle int

const (
	LineNone LineStyle = iota
	LineSingle
	LineThick
)

// Attributes 是一个 run 的属性集合。零值字段表示“未设置”，
// 叠加时只覆盖叠加方设置过的字段。
type Attributes struct {
	Font           *theme.Font
	Foreground     color.Color
	Background     color.Color
	Underline      LineStyle
	UnderlineColor color.Color
	Strikethrough  LineStyle
	Link           string

	// 以下字段只出现在公式占位符上。
	Attachment *Attachment
	DrawHook   DrawHook
	ContextID  string
	MathSource string
}

// Merge 返回以 a 为底、叠加 overlay 中已设置字段后的属性集合。
func (a Attributes) Merge(overlay Attributes) Attributes {
	if overlay.Font != nil {
		a.Font = overlay.Font
	}
	if overlay.Foreground != nil {
		a.Foreground = overlay.Foreground
	}
	if overlay.Background != nil {
		a.Background = overlay.Background
	}
	if overlay.Underline != LineNone {
		a.Underline = overlay.Underline
	}
	if overlay.UnderlineColor != nil {
		a.UnderlineColor = overlay.UnderlineColor
	}
	if overlay.Strikethrough != LineNone {
		a.Strikethrough = overlay.Strikethrough
	}
	if overlay.Link != "" {
		a.Link = overlay.Link
	}
	if overlay.Attachment != nil {
		a.Attachment = overlay.Attachment
	}
	if overlay.DrawHook != nil {
		a.DrawHook = overlay.DrawHook
	}
	if overlay.ContextID != "" {
		a.ContextID = overlay.ContextID
	}
	if overlay.MathSource != "" {
		a.MathSource = overlay.MathSource
	}
	return a
}

// IsPlaceholder reports whether the run stands in for an attachment.
func (a Attributes) IsPlaceholder() bool { return a.Attachment != nil }

// SameStyle 比较两组属性的可见样式。占位符永不相等，以免相邻公式被合并。
func (a Attributes) SameStyle(b Attributes) bool {
	if a.IsPlaceholder() || b.IsPlaceholder() || a.DrawHook != nil || b.DrawHook != nil {
		return false
	}
	return sameFont(a.Font, b.Font) &&
		sameColor(a.Foreground, b.Foreground) &&
		sameColor(a.Background, b.Background) &&
		a.Underline == b.Underline &&
		sameColor(a.UnderlineColor, b.UnderlineColor) &&
		a.Strikethrough == b.Strikethrough &&
		a.Link == b.Link &&
		a.ContextID == b.ContextID &&
		a.MathSource == b.MathSource
}

func sameFont(a, b *theme.Font) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func sameColor(a, b color.Color) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	r1, g1, b1, a1 := a.RGBA()
	r2, g2, b2, a2 := b.RGBA()
	return r1 == r2 && g1 == g2 && b1 == b2 && a1 == a2
}
