// Package renderer 定义把布局结果输出为文件的接口。
package renderer

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ByLCY/inkline/layout"
)

// ErrUnsupportedFormat 表示输出格式无法识别或渲染器不支持。
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Renderer 将布局结果输出为最终文件，例如 PDF。
type Renderer interface {
	Render(frame *layout.Frame) ([]byte, error)
}

// Rasterizer 由能输出位图的渲染器实现，dpmm 为每毫米像素数。
type Rasterizer interface {
	RenderPNG(frame *layout.Frame, dpmm float64) ([]byte, error)
}

// Format 是输出格式。
type Format string

const (
	FormatPDF Format = "pdf"
	FormatPNG Format = "png"
)

// FormatOf 根据文件扩展名判断输出格式。
func FormatOf(path string) (Format, error) {
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")); ext {
	case "pdf":
		return FormatPDF, nil
	case "png":
		return FormatPNG, nil
	default:
		return "", fmt.Errorf("%q: %w", ext, ErrUnsupportedFormat)
	}
}

// Output 以给定格式渲染 frame。
func Output(r Renderer, frame *layout.Frame, format Format, dpmm float64) ([]byte, error) {
	switch format {
	case FormatPDF:
		return r.Render(frame)
	case FormatPNG:
		raster, ok := r.(Rasterizer)
		if !ok {
			return nil, fmt.Errorf("渲染器不支持 png: %w", ErrUnsupportedFormat)
		}
		return raster.RenderPNG(frame, dpmm)
	default:
		return nil, fmt.Errorf("%q: %w", format, ErrUnsupportedFormat)
	}
}
