package layout

import (
	"github.com/ByLCY/inkline/styled"
	"github.com/ByLCY/inkline/theme"
)

// Options 配置一次布局。
type Options struct {
	// Width 为可用宽度（mm），不大于 0 时不自动折行。
	Width      float64
	LineHeight LineHeightSpec
	// Align 取 left/center/right。
	Align string
	// Font 为未设置字体的 run 使用的字体，默认使用主题正文字体。
	Font     *theme.Font
	Measurer Measurer
	Debug    DebugOptions
}

// DebugOptions 控制调试相关输出。
type DebugOptions struct {
	Attributes bool // 在调试 JSON 中输出 run 属性摘要
}

// Measurer 负责测量文本，通常由渲染后端实现。长度单位为 mm，descent 为正数。
type Measurer interface {
	TextWidth(s string, font *theme.Font) float64
	FontMetrics(font *theme.Font) (ascent, descent float64)
}

// Painter 绘制普通文本 run；origin 为 run 的基线起点。
type Painter interface {
	DrawRun(run *Run, origin styled.Point)
}
