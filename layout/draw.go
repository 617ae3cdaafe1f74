package layout

import "github.com/ByLCY/inkline/styled"

// Draw 先绘制文本，再为每个带绘制回调的 run 调用一次回调。
func (f *Frame) Draw(p Painter, s styled.Surface) {
	f.DrawText(p)
	f.DrawAttachments(s)
}

// DrawText 绘制所有非占位 run。
func (f *Frame) DrawText(p Painter) {
	if p == nil {
		return
	}
	for _, line := range f.Lines {
		for _, run := range line.Items {
			if run.Attrs.IsPlaceholder() {
				continue
			}
			p.DrawRun(run, styled.Point{X: line.Origin.X + run.X, Y: line.Origin.Y})
		}
	}
}

// DrawAttachments 按行、按 run 顺序调用绘制回调，回调自行在行内定位。
func (f *Frame) DrawAttachments(s styled.Surface) {
	if s == nil {
		return
	}
	for _, line := range f.Lines {
		for _, run := range line.Items {
			if run.Attrs.DrawHook != nil {
				run.Attrs.DrawHook.DrawLine(s, line, line.Origin)
			}
		}
	}
}
