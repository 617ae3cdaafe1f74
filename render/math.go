package render

import (
	"image"

	"github.com/ByLCY/inkline/inline"
	"github.com/ByLCY/inkline/styled"
	"github.com/ByLCY/inkline/theme"
)

// math 渲染公式节点。没有预处理条目或条目没有图片时降级为行内代码样式的文本，
// 这不是错误。
func (r *nodeRenderer) math(out *styled.Text, m inline.Math) {
	item, ok := r.content.Lookup(m.ReplacementID)
	text := m.Source
	if ok && item.Text != "" {
		text = item.Text
	}
	if !ok || item.Image == nil || item.Image.Pixels == nil {
		out.Append(text, r.codeAttrs())
		return
	}

	size := styled.Size{Width: item.Image.Width, Height: item.Image.Height}
	var attachment *styled.Attachment
	switch r.alignment {
	case theme.AlignCenter:
		ascent, descent := CenterMetrics(r.fonts.Body, size.Height)
		attachment = styled.NewFixedAttachment(text, ascent, descent)
	default:
		attachment = styled.NewAttachment(text)
	}
	attachment.Size = size

	hook := &mathDrawHook{
		ctx:        r.ctx,
		image:      item.Image.Pixels,
		size:       size,
		id:         m.ReplacementID,
		alignment:  r.alignment,
		attachment: attachment,
	}
	out.Append(styled.ReplacementText, styled.Attributes{
		Attachment: attachment,
		DrawHook:   hook,
		ContextID:  m.ReplacementID,
		MathSource: text,
	})
}

// CenterMetrics 计算居中对齐时附件的 ascent/descent：图片的中线与周围文字的
// 视觉中线（而非基线）对齐，ascent 限制在 [0, height]。
func CenterMetrics(body theme.Font, height float64) (ascent, descent float64) {
	textAscent := max(body.Ascender, 0)
	textDescent := max(-body.Descender, 0)
	textCenterOffset := (textAscent - textDescent) / 2

	ascent = min(max(height/2+textCenterOffset, 0), height)
	return ascent, height - ascent
}

// AlphaMask 取出 img 的透明度通道作为模板。nil、空图或完全不透明的图片
// 无法作为模板，返回 false。
func AlphaMask(img image.Image) (*image.Alpha, bool) {
	if img == nil {
		return nil, false
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, false
	}
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return nil, false
	}
	mask := image.NewAlpha(image.Rect(0, 0, b.Dx(), b.Dy()))
	opaque := true
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			_, _, _, a := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			v := uint8(a >> 8)
			mask.Pix[y*mask.Stride+x] = v
			if v != 0xff {
				opaque = false
			}
		}
	}
	if opaque {
		return nil, false
	}
	return mask, true
}
