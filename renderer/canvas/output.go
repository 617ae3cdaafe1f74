package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/png"
	"time"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/ByLCY/inkline/layout"
	"github.com/ByLCY/inkline/styled"
	"github.com/ByLCY/inkline/surface"
)

// Render renders the frame into a PDF byte slice.
func (r *Renderer) Render(frame *layout.Frame) ([]byte, error) {
	start := time.Now()
	c, ctx, err := r.newCanvas(frame)
	if err != nil {
		return nil, err
	}
	frame.DrawText(&painter{r: r, ctx: ctx, offset: r.origin()})
	frame.DrawAttachments(surface.NewCanvas(ctx, r.origin(), r.surface...))

	var buf bytes.Buffer
	writer := pdf.New(&buf, c.W, c.H, nil)
	if r.title != "" {
		writer.SetInfo(r.title, "", "", "", "inkline")
	}
	c.RenderTo(writer)
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	r.logger.Debug("PDF 渲染完成", "lines", len(frame.Lines), "bytes", buf.Len(), "elapsed", time.Since(start))
	return buf.Bytes(), nil
}

// RenderPNG 以 dpmm（每毫米像素数）栅格化：先由 canvas 绘制文本，再通过位图 surface 绘制公式。
func (r *Renderer) RenderPNG(frame *layout.Frame, dpmm float64) ([]byte, error) {
	if dpmm <= 0 {
		return nil, fmt.Errorf("无效的分辨率: %g", dpmm)
	}
	start := time.Now()
	c, ctx, err := r.newCanvas(frame)
	if err != nil {
		return nil, err
	}
	frame.DrawText(&painter{r: r, ctx: ctx, offset: r.origin()})

	img := rasterizer.Draw(c, canvas.DPMM(dpmm), canvas.DefaultColorSpace)
	frame.DrawAttachments(surface.NewRaster(img, dpmm, c.H, r.origin(), r.surface...))

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("写入 PNG 失败: %w", err)
	}
	r.logger.Debug("PNG 渲染完成", "lines", len(frame.Lines), "size", img.Bounds().Size(), "elapsed", time.Since(start))
	return buf.Bytes(), nil
}

// newCanvas 创建四周留白的画布，坐标系为 CartesianI（左下角为原点，y 轴向上）。
func (r *Renderer) newCanvas(frame *layout.Frame) (*canvas.Canvas, *canvas.Context, error) {
	if frame == nil {
		return nil, nil, fmt.Errorf("布局结果为空")
	}
	w := frame.Width + 2*r.padding
	h := frame.Height + 2*r.padding
	if w <= 0 || h <= 0 {
		return nil, nil, fmt.Errorf("画面尺寸无效: %gx%g", w, h)
	}
	c := canvas.New(w, h)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianI)
	if r.background != nil {
		ctx.SetFillColor(r.background)
		ctx.DrawPath(0, 0, canvas.Rectangle(w, h))
	}
	return c, ctx, nil
}

func (r *Renderer) origin() styled.Point { return styled.Point{X: r.padding, Y: r.padding} }
