package render

import (
	"fmt"
	"image"

	"github.com/ByLCY/inkline/styled"
	"github.com/ByLCY/inkline/theme"
)

// mathDrawHook 在布局引擎绘制行时定位自己的占位 run 并绘制公式图片。
type mathDrawHook struct {
	ctx        *Context
	image      image.Image
	size       styled.Size
	id         string
	alignment  theme.VerticalAlignment
	attachment *styled.Attachment

	mask *image.Alpha
}

var _ styled.DrawHook = (*mathDrawHook)(nil)

// DrawLine implements styled.DrawHook.
func (h *mathDrawHook) DrawLine(s styled.Surface, line styled.Line, origin styled.Point) {
	defer h.ctx.enter()()

	target, offsetX, ok := h.locate(line)
	if !ok {
		// 行被重新排版后占位符可能已经不在这一行。
		return
	}
	rect, ok := h.placement(line.TypographicBounds(), target.TypographicBounds(), origin, offsetX)
	if !ok {
		return
	}
	h.draw(s, rect)
}

// locate 按 run 顺序累加宽度，直到找到带有本公式标识的 run。
func (h *mathDrawHook) locate(line styled.Line) (styled.LineRun, float64, bool) {
	var offsetX float64
	for _, run := range line.Runs() {
		attrs := run.Attributes()
		if attrs.ContextID == h.id && (attrs.Attachment == nil || attrs.Attachment == h.attachment) {
			return run, offsetX, true
		}
		offsetX += run.TypographicBounds().Width
	}
	return nil, 0, false
}

// placement 根据对齐方式计算绘制矩形（y 轴向上，Y 为底边）。
func (h *mathDrawHook) placement(lineBounds, runBounds styled.RunMetrics, origin styled.Point, offsetX float64) (styled.Rect, bool) {
	size := h.size
	drawY := origin.Y
	switch h.alignment {
	case theme.AlignCenter:
		drawY = origin.Y - runBounds.Descent
	default:
		// 只画在基线以上：超过行 ascent 时等比缩小。
		if size.Height > lineBounds.Ascent {
			size = styled.Size{
				Width:  size.Width * lineBounds.Ascent / size.Height,
				Height: lineBounds.Ascent,
			}
		}
	}
	if size.Width <= 0 || size.Height <= 0 {
		return styled.Rect{}, false
	}
	return styled.Rect{
		X:      origin.X + offsetX,
		Y:      drawY,
		Width:  size.Width,
		Height: size.Height,
	}, true
}

func (h *mathDrawHook) draw(s styled.Surface, rect styled.Rect) {
	tint, stencil := s.Tint()
	if !stencil {
		s.DrawImage(rect, h.image)
		return
	}
	if h.mask == nil {
		mask, ok := AlphaMask(h.image)
		if !ok {
			panic(fmt.Sprintf("render: math image %q cannot be used as a stencil mask", h.id))
		}
		h.mask = mask
	}
	s.FillMask(rect, h.mask, tint)
}
