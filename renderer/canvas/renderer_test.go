package canvasrenderer

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/tdewolff/canvas"

	"github.com/ByLCY/inkline/inline"
	"github.com/ByLCY/inkline/layout"
	"github.com/ByLCY/inkline/render"
	"github.com/ByLCY/inkline/surface"
	"github.com/ByLCY/inkline/theme"
)

func quietRenderer(opts Options) *Renderer {
	opts.Logger = log.New(io.Discard)
	return NewRendererWithOptions(opts)
}

func TestMeasurerUsesFontMetrics(t *testing.T) {
	r := quietRenderer(Options{})
	font := &theme.Font{Name: "Body", Src: "embed:goregular", Size: 12}

	short := r.TextWidth("hello", font)
	long := r.TextWidth("hello world", font)
	if short <= 0 || long <= short {
		t.Fatalf("text width should grow with content: %g vs %g", short, long)
	}
	bigger := r.TextWidth("hello", &theme.Font{Name: "Body", Src: "embed:goregular", Size: 24})
	if bigger <= short*1.9 {
		t.Fatalf("text width should scale with size: %g vs %g", bigger, short)
	}
	asc, desc := r.FontMetrics(font)
	if asc <= 0 || desc <= 0 {
		t.Fatalf("ascent/descent should be positive: %g %g", asc, desc)
	}
	if asc > 12*layout.PtToMm*1.5 {
		t.Fatalf("ascent is not in millimetres: %g", asc)
	}
}

func TestUnknownFontFallsBack(t *testing.T) {
	r := quietRenderer(Options{})
	missing := &theme.Font{Name: "Missing", Src: "embed:Inter-Regular", Size: 12}
	regular := &theme.Font{Name: "Body", Src: "embed:goregular", Size: 12}
	if got, want := r.TextWidth("fallback", missing), r.TextWidth("fallback", regular); got != want {
		t.Fatalf("missing font should measure like the fallback font: %g vs %g", got, want)
	}
}

func TestResolveThemeFillsMetrics(t *testing.T) {
	r := quietRenderer(Options{})
	th := theme.Default()
	if err := r.ResolveTheme(th); err != nil {
		t.Fatalf("ResolveTheme: %v", err)
	}
	for _, f := range th.Fonts.All() {
		if f.Ascender <= 0 || f.Descender >= 0 {
			t.Fatalf("font %s metrics not resolved: %+v", f.Name, *f)
		}
	}
	if err := r.ResolveTheme(nil); err == nil {
		t.Fatalf("nil theme should fail")
	}
}

func TestParseFontStyle(t *testing.T) {
	cases := map[string]canvas.FontStyle{
		"":            canvas.FontRegular,
		"bold":        canvas.FontBold,
		"Bold Italic": canvas.FontBold | canvas.FontItalic,
		"semibold":    canvas.FontSemiBold,
		"oblique":     canvas.FontRegular | canvas.FontItalic,
	}
	for in, want := range cases {
		if got := parseFontStyle(in); got != want {
			t.Fatalf("%q parsed as %v, want %v", in, got, want)
		}
	}
}

// mathFixture 构建一行文本加一个公式，返回布局结果。
func mathFixture(t *testing.T, r *Renderer, img image.Image) *layout.Frame {
	t.Helper()
	th := theme.Default()
	if err := r.ResolveTheme(th); err != nil {
		t.Fatalf("ResolveTheme: %v", err)
	}
	nodes := []inline.Node{
		inline.Text{Value: "ab "},
		inline.Math{Source: "x^2", ReplacementID: "m1"},
	}
	content := inline.NewContent(map[string]inline.RenderedMath{
		"m1": {Text: "x^2", Image: inline.NewMathImage(img, 2)},
	})
	text := render.Render(render.NewContext(), nodes, th, content)
	frame, err := layout.Build(text, layout.Options{Width: 60, Font: &th.Fonts.Body, Measurer: r})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return frame
}

func solid(c color.NRGBA, transparentCorner bool) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	if transparentCorner {
		img.SetNRGBA(0, 0, color.NRGBA{})
	}
	return img
}

// mathPixel 返回公式占位中心、基线以上 1mm 处的像素。
func mathPixel(t *testing.T, frame *layout.Frame, out []byte, padding, dpmm float64) color.Color {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	line := frame.Lines[0]
	var run *layout.Run
	for _, item := range line.Items {
		if item.Attrs.IsPlaceholder() {
			run = item
		}
	}
	if run == nil {
		t.Fatalf("placeholder run missing")
	}
	height := frame.Height + 2*padding
	x := padding + line.Origin.X + run.X + run.Width/2
	y := padding + line.Origin.Y + 1
	return img.At(int(x*dpmm), int((height-y)*dpmm))
}

func TestRenderPNGDrawsMath(t *testing.T) {
	r := quietRenderer(Options{Padding: 2, Background: color.White})
	frame := mathFixture(t, r, solid(color.NRGBA{R: 0xff, A: 0xff}, false))
	out, err := r.RenderPNG(frame, 4)
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	got := mathPixel(t, frame, out, 2, 4)
	if rr, g, b, _ := got.RGBA(); rr>>8 < 0xf0 || g>>8 > 0x10 || b>>8 > 0x10 {
		t.Fatalf("expected red formula pixel, got %v", got)
	}
}

func TestRenderPNGStencilUsesTint(t *testing.T) {
	tint := color.NRGBA{B: 0xff, A: 0xff}
	r := quietRenderer(Options{Padding: 2, Background: color.White, Surface: []surface.Option{surface.WithTint(tint)}})
	frame := mathFixture(t, r, solid(color.NRGBA{R: 0xff, A: 0xff}, true))
	out, err := r.RenderPNG(frame, 4)
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	got := mathPixel(t, frame, out, 2, 4)
	if rr, g, b, _ := got.RGBA(); rr>>8 > 0x10 || g>>8 > 0x10 || b>>8 < 0xf0 {
		t.Fatalf("expected tinted formula pixel, got %v", got)
	}
}

func TestRenderPDF(t *testing.T) {
	r := quietRenderer(Options{Padding: 2, Title: "inline"})
	frame := mathFixture(t, r, solid(color.NRGBA{R: 0xff, A: 0xff}, false))
	out, err := r.Render(frame)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("output is not a PDF: %q", out[:min(len(out), 8)])
	}
	if _, err := r.Render(nil); err == nil {
		t.Fatalf("nil frame should fail")
	}
	if _, err := r.RenderPNG(frame, 0); err == nil {
		t.Fatalf("zero resolution should fail")
	}
}
