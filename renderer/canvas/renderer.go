package canvasrenderer

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tdewolff/canvas"

	"github.com/ByLCY/inkline/fonts"
	"github.com/ByLCY/inkline/layout"
	"github.com/ByLCY/inkline/renderer"
	"github.com/ByLCY/inkline/surface"
	"github.com/ByLCY/inkline/theme"
)

// Renderer measures and draws layout frames via github.com/tdewolff/canvas.
type Renderer struct {
	baseDir    string
	padding    float64
	background color.Color
	title      string
	surface    []surface.Option
	logger     *log.Logger

	fontBlobs map[string][]byte // by unique name

	fontMu         sync.Mutex
	fontFamilies   map[string]*fontFamilyEntry
	fallbackFamily *canvas.FontFamily
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Measurer   = (*Renderer)(nil)
)

type fontFamilyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

// Options configures the canvas renderer.
type Options struct {
	BaseDir string
	Fonts   map[string]Resource // built-in fonts accessible via built-in:<name>
	// Padding 为画面四周留白（mm）。
	Padding    float64
	Background color.Color
	Title      string
	// Surface 传给绘制公式所用的 surface，例如 surface.WithTint。
	Surface []surface.Option
	Logger  *log.Logger
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer creates a canvas-based renderer rooted at baseDir for resolving assets.
func NewRenderer(baseDir string) *Renderer { return NewRendererWithOptions(Options{BaseDir: baseDir}) }

// NewRendererWithOptions creates a renderer with injected resources and optional baseDir.
func NewRendererWithOptions(opts Options) *Renderer {
	r := &Renderer{
		baseDir:      opts.BaseDir,
		padding:      math.Max(opts.Padding, 0),
		background:   opts.Background,
		title:        opts.Title,
		surface:      opts.Surface,
		logger:       opts.Logger,
		fontBlobs:    map[string][]byte{},
		fontFamilies: map[string]*fontFamilyEntry{},
	}
	if r.logger == nil {
		r.logger = log.Default()
	}
	for name, res := range opts.Fonts {
		if name == "" {
			continue
		}
		if len(res.Bytes) > 0 {
			r.fontBlobs[name] = res.Bytes
			continue
		}
		if res.Path != "" {
			data, err := os.ReadFile(res.Path)
			if err != nil {
				// 使用时会回退到默认字体
				r.logger.Warn("读取字体失败", "name", name, "path", res.Path, "err", err)
				continue
			}
			r.fontBlobs[name] = data
		}
	}
	return r
}

// TextWidth implements layout.Measurer.
func (r *Renderer) TextWidth(s string, font *theme.Font) float64 {
	return r.face(font, color.Black).TextWidth(s)
}

// FontMetrics implements layout.Measurer. Descent 为正数。
func (r *Renderer) FontMetrics(font *theme.Font) (ascent, descent float64) {
	m := r.face(font, color.Black).Metrics()
	return m.Ascent, math.Abs(m.Descent)
}

// ResolveTheme 用实际字体度量回填主题中每个字体的 Ascender/Descender（mm，Descender 为负）。
func (r *Renderer) ResolveTheme(th *theme.Theme) error {
	if th == nil {
		return fmt.Errorf("主题为空")
	}
	for _, f := range th.Fonts.All() {
		face, err := r.fontFace(f, color.Black)
		if err != nil {
			return fmt.Errorf("解析字体 %s 失败: %w", f.Name, err)
		}
		m := face.Metrics()
		f.Ascender = m.Ascent
		f.Descender = -math.Abs(m.Descent)
	}
	return nil
}

// face 与 fontFace 相同，但在字体不可用时记录警告并使用内置字体。
func (r *Renderer) face(font *theme.Font, col color.Color) *canvas.FontFace {
	face, err := r.fontFace(font, col)
	if err == nil {
		return face
	}
	r.logger.Warn("字体不可用，使用内置字体", "font", fontName(font), "err", err)
	family, style, fbErr := r.fallback()
	if fbErr != nil {
		panic(fmt.Sprintf("canvasrenderer: 内置字体加载失败: %v", fbErr))
	}
	return family.Face(fontSize(font), col, style, canvas.FontNormal)
}

func (r *Renderer) fontFace(font *theme.Font, col color.Color) (*canvas.FontFace, error) {
	if font == nil {
		body := theme.DefaultFonts().Body
		font = &body
	}
	family, style, err := r.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	return family.Face(fontSize(font), col, style, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(font *theme.Font) (*canvas.FontFamily, canvas.FontStyle, error) {
	key := fontCacheKey(font)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if entry, ok := r.fontFamilies[key]; ok {
		return entry.family, entry.style, nil
	}

	style := parseFontStyle(font.Style)
	familyName := font.Name
	if familyName == "" {
		familyName = "Body"
	}
	family := canvas.NewFontFamily(familyName)

	if err := r.loadFontIntoFamily(family, font, style); err != nil {
		fallback, fbStyle, fbErr := r.fallbackLocked()
		if fbErr != nil {
			return nil, canvas.FontRegular, err
		}
		r.logger.Warn("字体加载失败，使用内置字体", "font", familyName, "src", font.Src, "err", err)
		r.fontFamilies[key] = &fontFamilyEntry{family: fallback, style: fbStyle}
		return fallback, fbStyle, nil
	}

	r.logger.Debug("加载字体", "font", familyName, "src", font.Src, "style", font.Style)
	entry := &fontFamilyEntry{family: family, style: style}
	r.fontFamilies[key] = entry
	return family, style, nil
}

func (r *Renderer) loadFontIntoFamily(family *canvas.FontFamily, font *theme.Font, style canvas.FontStyle) error {
	data, err := r.loadFontBytes(font)
	if err != nil {
		return err
	}
	return family.LoadFont(data, 0, style)
}

func (r *Renderer) loadFontBytes(font *theme.Font) ([]byte, error) {
	if font.Src == "" {
		return nil, fmt.Errorf("字体 %s 缺少 src", font.Name)
	}
	src := font.Src
	if strings.HasPrefix(src, "built-in:") || strings.HasPrefix(src, "builtin:") {
		name := strings.TrimPrefix(strings.TrimPrefix(src, "built-in:"), "builtin:")
		if blob, ok := r.fontBlobs[name]; ok {
			return blob, nil
		}
		return nil, fmt.Errorf("找不到内置字体资源 built-in:%s", name)
	}
	if strings.HasPrefix(src, "embed:") {
		return fonts.Load(src)
	}
	path := src
	if r.baseDir == "" && !filepath.IsAbs(path) {
		return nil, fmt.Errorf("未指定资源目录时不允许直接使用字体路径：%s（请改用 built-in: 或 embed:）", src)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.baseDir, path)
	}
	return os.ReadFile(path)
}

func (r *Renderer) fallback() (*canvas.FontFamily, canvas.FontStyle, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	return r.fallbackLocked()
}

func (r *Renderer) fallbackLocked() (*canvas.FontFamily, canvas.FontStyle, error) {
	if r.fallbackFamily != nil {
		return r.fallbackFamily, canvas.FontRegular, nil
	}
	data, err := fonts.Load(fonts.Fallback)
	if err != nil {
		return nil, canvas.FontRegular, err
	}
	family := canvas.NewFontFamily("inkline-fallback")
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, canvas.FontRegular, err
	}
	r.fallbackFamily = family
	return family, canvas.FontRegular, nil
}

func parseFontStyle(style string) canvas.FontStyle {
	if style == "" {
		return canvas.FontRegular
	}
	s := strings.ToLower(style)
	result := canvas.FontRegular
	switch {
	case strings.Contains(s, "black"):
		result = canvas.FontBlack
	case strings.Contains(s, "extrabold"):
		result = canvas.FontExtraBold
	case strings.Contains(s, "semibold"), strings.Contains(s, "demibold"):
		result = canvas.FontSemiBold
	case strings.Contains(s, "bold"):
		result = canvas.FontBold
	case strings.Contains(s, "medium"):
		result = canvas.FontMedium
	case strings.Contains(s, "light"):
		result = canvas.FontLight
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}

// fontCacheKey 不含字号：同一字体族可以生成任意字号的字面。
func fontCacheKey(font *theme.Font) string {
	return fmt.Sprintf("%s|%s|%s", font.Name, font.Src, font.Style)
}

func fontName(font *theme.Font) string {
	if font == nil {
		return ""
	}
	return font.Name
}

func fontSize(font *theme.Font) float64 {
	if font == nil || font.Size <= 0 {
		return theme.DefaultFonts().Body.Size
	}
	return font.Size
}

// toMm 将点(pt)转换为毫米(mm)。
func toMm(pt float64) float64 { return pt * layout.PtToMm }
