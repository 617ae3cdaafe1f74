package layout

import "github.com/ByLCY/inkline/styled"

// 该文件定义布局结果，供绘制、绘制回调与调试 JSON 共用。
// 所有坐标以毫米为单位，y 轴向上，原点为框架左下角。

// Frame 保存一次布局得到的全部行。
type Frame struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Lines  []*Line `json:"lines"`
}

// Line 是排版完成的一行。Origin 为基线左端点。
type Line struct {
	Origin  styled.Point `json:"origin"`
	Ascent  float64      `json:"ascent"`
	Descent float64      `json:"descent"`
	Leading float64      `json:"leading"`
	Width   float64      `json:"width"`
	Items   []*Run       `json:"runs"`
}

// Runs implements styled.Line.
func (l *Line) Runs() []styled.LineRun {
	out := make([]styled.LineRun, len(l.Items))
	for i, r := range l.Items {
		out[i] = r
	}
	return out
}

// TypographicBounds implements styled.Line.
func (l *Line) TypographicBounds() styled.RunMetrics {
	return styled.RunMetrics{Ascent: l.Ascent, Descent: l.Descent, Width: l.Width}
}

// Run 是行内共享同一属性的一段。X 相对行原点。
type Run struct {
	Text    string            `json:"text"`
	X       float64           `json:"x"`
	Ascent  float64           `json:"ascent"`
	Descent float64           `json:"descent"`
	Width   float64           `json:"width"`
	Attrs   styled.Attributes `json:"-"`
	Debug   *RunDebug         `json:"debug,omitempty"`
}

// Attributes implements styled.LineRun.
func (r *Run) Attributes() styled.Attributes { return r.Attrs }

// TypographicBounds implements styled.LineRun.
func (r *Run) TypographicBounds() styled.RunMetrics {
	return styled.RunMetrics{Ascent: r.Ascent, Descent: r.Descent, Width: r.Width}
}

// RunDebug 是调试 JSON 中的属性摘要。
type RunDebug struct {
	Font          string  `json:"font,omitempty"`
	FontSize      float64 `json:"fontSize,omitempty"`
	Foreground    string  `json:"foreground,omitempty"`
	Link          string  `json:"link,omitempty"`
	Underline     bool    `json:"underline,omitempty"`
	Strikethrough bool    `json:"strikethrough,omitempty"`
	Placeholder   bool    `json:"placeholder,omitempty"`
	ContextID     string  `json:"contextId,omitempty"`
	MathSource    string  `json:"mathSource,omitempty"`
}
