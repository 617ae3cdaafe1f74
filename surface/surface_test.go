package surface

import (
	"image"
	"image/color"
	"testing"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/ByLCY/inkline/styled"
)

var (
	red  = color.RGBA{R: 0xff, A: 0xff}
	blue = color.RGBA{B: 0xff, A: 0xff}
)

// twoTone 返回上半红、下半蓝的图片，用来检查绘制方向。
func twoTone(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if y < h/2 {
				img.Set(x, y, red)
			} else {
				img.Set(x, y, blue)
			}
		}
	}
	return img
}

func sameRGB(c color.Color, want color.RGBA) bool {
	r, g, b, _ := c.RGBA()
	wr, wg, wb, _ := want.RGBA()
	near := func(a, b uint32) bool {
		d := int(a>>8) - int(b>>8)
		return d >= -8 && d <= 8
	}
	return near(r, wr) && near(g, wg) && near(b, wb)
}

func TestRasterFlipsToTopLeftOrigin(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 40, 40))
	s := NewRaster(dst, 2, 20, styled.Point{})
	// 行坐标中底边 y=3、高 5 的矩形，对应像素行 24..34。
	s.DrawImage(styled.Rect{X: 2, Y: 3, Width: 4, Height: 5}, twoTone(8, 10))
	if got := s.PixelRect(styled.Rect{X: 2, Y: 3, Width: 4, Height: 5}); got != image.Rect(4, 24, 12, 34) {
		t.Fatalf("unexpected pixel rect %v", got)
	}
	if !sameRGB(dst.At(8, 25), red) {
		t.Fatalf("top of the image should be red, got %v", dst.At(8, 25))
	}
	if !sameRGB(dst.At(8, 33), blue) {
		t.Fatalf("bottom of the image should be blue, got %v", dst.At(8, 33))
	}
	if _, _, _, a := dst.At(8, 10).RGBA(); a != 0 {
		t.Fatalf("pixels outside the rect must stay untouched")
	}
}

func TestRasterFillMask(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 10, 10))
	s := NewRaster(dst, 1, 10, styled.Point{X: 1, Y: 1}, WithTint(blue))
	mask := image.NewAlpha(image.Rect(0, 0, 2, 2))
	for i := range mask.Pix {
		mask.Pix[i] = 0xff
	}
	c, ok := s.Tint()
	if !ok || c != blue {
		t.Fatalf("tint should be configured")
	}
	s.FillMask(styled.Rect{X: 0, Y: 0, Width: 4, Height: 4}, mask, c)
	if !sameRGB(dst.At(3, 7), blue) {
		t.Fatalf("masked area should be filled, got %v", dst.At(3, 7))
	}
	if _, _, _, a := dst.At(0, 0).RGBA(); a != 0 {
		t.Fatalf("outside the rect must stay transparent")
	}
}

func TestTintFuncResolvedPerDraw(t *testing.T) {
	current := color.Color(nil)
	s := NewRaster(image.NewRGBA(image.Rect(0, 0, 1, 1)), 1, 1, styled.Point{}, WithTintFunc(func() color.Color { return current }))
	if _, ok := s.Tint(); ok {
		t.Fatalf("nil tint means direct drawing")
	}
	current = red
	if c, ok := s.Tint(); !ok || c != red {
		t.Fatalf("tint should follow the provider")
	}
}

func TestCanvasDrawsUpright(t *testing.T) {
	c := canvas.New(20, 20)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianI)
	s := NewCanvas(ctx, styled.Point{X: 2, Y: 2})
	s.DrawImage(styled.Rect{X: 4, Y: 4, Width: 8, Height: 8}, twoTone(8, 8))

	img := rasterizer.Draw(c, canvas.DPMM(1), canvas.DefaultColorSpace)
	// 画布中 y∈[6,14]，位图中对应行 6..14，上半应为红色。
	if !sameRGB(img.At(10, 8), red) {
		t.Fatalf("upper half should be red, got %v", img.At(10, 8))
	}
	if !sameRGB(img.At(10, 12), blue) {
		t.Fatalf("lower half should be blue, got %v", img.At(10, 12))
	}
}

func TestCanvasFillMaskUsesTint(t *testing.T) {
	c := canvas.New(10, 10)
	ctx := canvas.NewContext(c)
	s := NewCanvas(ctx, styled.Point{}, WithTint(red))
	mask := image.NewAlpha(image.Rect(0, 0, 4, 4))
	for i := range mask.Pix {
		mask.Pix[i] = 0xff
	}
	tint, ok := s.Tint()
	if !ok {
		t.Fatalf("tint should be configured")
	}
	s.FillMask(styled.Rect{X: 0, Y: 0, Width: 10, Height: 10}, mask, tint)
	img := rasterizer.Draw(c, canvas.DPMM(1), canvas.DefaultColorSpace)
	if !sameRGB(img.At(5, 5), red) {
		t.Fatalf("mask fill should paint the tint, got %v", img.At(5, 5))
	}
}

func TestTintMask(t *testing.T) {
	mask := image.NewAlpha(image.Rect(3, 3, 5, 5))
	mask.SetAlpha(3, 3, color.Alpha{A: 0xff})
	out := tintMask(mask, red)
	if out.Bounds() != image.Rect(0, 0, 2, 2) {
		t.Fatalf("unexpected bounds %v", out.Bounds())
	}
	if got := out.NRGBAAt(0, 0); got != (color.NRGBA{R: 0xff, A: 0xff}) {
		t.Fatalf("unexpected tinted pixel %v", got)
	}
	if got := out.NRGBAAt(1, 1); got.A != 0 {
		t.Fatalf("transparent mask pixel should stay transparent, got %v", got)
	}
}
