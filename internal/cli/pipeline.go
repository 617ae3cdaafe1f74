package cli

import (
	"context"
	"fmt"
	"image/color"
	"path/filepath"

	"github.com/ByLCY/inkline/binding"
	"github.com/ByLCY/inkline/dsl"
	"github.com/ByLCY/inkline/inline"
	"github.com/ByLCY/inkline/layout"
	"github.com/ByLCY/inkline/render"
	canvasrenderer "github.com/ByLCY/inkline/renderer/canvas"
	"github.com/ByLCY/inkline/styled"
	"github.com/ByLCY/inkline/surface"
	"github.com/ByLCY/inkline/theme"
)

// docOpts are the flags shared by commands that read an .inl document.
type docOpts struct {
	themePath  string  // TOML theme applied before the document's own overrides
	dataPath   string  // JSON data for ${path} interpolation
	width      float64 // frame width in mm, 0 disables wrapping
	lineHeight string  // "1.4x" or an absolute length
	align      string  // left, center or right
	padding    float64 // margin around the frame in mm
	stencil    bool    // draw math as a mask filled with the body colour
	debugPath  string  // layout debug JSON
}

// document is one compiled, styled and laid out .inl file.
type document struct {
	compiled *dsl.Compiled
	theme    *theme.Theme
	nodes    []inline.Node
	text     *styled.Text
	frame    *layout.Frame
	renderer *canvasrenderer.Renderer
}

// loadDocument runs parse → compile → bind → render → layout.
func loadDocument(ctx context.Context, path string, opts docOpts) (*document, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)
	dir := filepath.Dir(path)

	doc, err := dsl.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("解析文档失败: %w", err)
	}
	compiled, err := dsl.Compile(doc, dsl.DirLoader{Dir: dir})
	if err != nil {
		return nil, fmt.Errorf("编译文档失败: %w", err)
	}

	th := theme.Default()
	if opts.themePath != "" {
		if th, err = theme.LoadFile(opts.themePath); err != nil {
			return nil, err
		}
	}
	if err := compiled.ApplyTheme(th); err != nil {
		return nil, err
	}

	nodes := compiled.Nodes
	if opts.dataPath != "" {
		data, err := binding.Load(opts.dataPath)
		if err != nil {
			return nil, err
		}
		nodes = binding.Apply(nodes, data)
	}

	ropts := canvasrenderer.Options{
		BaseDir:    dir,
		Padding:    opts.padding,
		Background: color.White,
		Title:      compiled.Name,
		Logger:     logger,
	}
	if opts.stencil {
		body := th.Colors.Body
		ropts.Surface = append(ropts.Surface, surface.WithTint(body))
	}
	r := canvasrenderer.NewRendererWithOptions(ropts)
	if err := r.ResolveTheme(th); err != nil {
		return nil, err
	}

	text := render.Render(render.NewContext(), nodes, th, compiled.Content)
	logger.Debug("生成样式文本", "runs", len(text.Runs()), "length", text.Len(), "math", compiled.Content.Len())

	lineHeight, err := resolveLineHeight(opts.lineHeight, compiled)
	if err != nil {
		return nil, err
	}
	frame, err := layout.Build(text, layout.Options{
		Width:      opts.width,
		LineHeight: lineHeight,
		Align:      opts.align,
		Font:       &th.Fonts.Body,
		Measurer:   r,
		Debug:      layout.DebugOptions{Attributes: opts.debugPath != ""},
	})
	if err != nil {
		return nil, fmt.Errorf("布局计算失败: %w", err)
	}
	if opts.debugPath != "" {
		if err := layout.WriteDebugJSON(frame, opts.debugPath); err != nil {
			return nil, fmt.Errorf("输出调试 JSON 失败: %w", err)
		}
		logger.Debug("写入调试 JSON", "path", opts.debugPath)
	}
	prog.done(fmt.Sprintf("Laid out %d lines", len(frame.Lines)))

	return &document{
		compiled: compiled,
		theme:    th,
		nodes:    nodes,
		text:     text,
		frame:    frame,
		renderer: r,
	}, nil
}

// resolveLineHeight prefers the flag, then the document's theme section.
func resolveLineHeight(flag string, compiled *dsl.Compiled) (layout.LineHeightSpec, error) {
	if flag != "" {
		spec, err := layout.ParseLineHeight(flag)
		if err != nil {
			return layout.LineHeightSpec{}, fmt.Errorf("--line-height: %w", err)
		}
		return spec, nil
	}
	if spec, ok := compiled.LineHeight(); ok {
		return spec, nil
	}
	return layout.DefaultLineHeight, nil
}
