package styled

import (
	"image"
	"image/color"
)

// Point 为 y 轴向上的坐标点。
type Point struct {
	X, Y float64
}

// Rect 的 (X, Y) 为左下角，y 轴向上。
type Rect struct {
	X, Y, Width, Height float64
}

// LineRun 是布局完成后行内的一个 run。
type LineRun interface {
	Attributes() Attributes
	TypographicBounds() RunMetrics
}

// Line 是布局完成的一行，run 按排版顺序给出。
type Line interface {
	Runs() []LineRun
	TypographicBounds() RunMetrics
}

// Surface 隔离平台相关的绘制细节：坐标系翻转以及直接绘制与蒙版填充的区别。
// 传入的矩形均使用行坐标（y 轴向上）。
type Surface interface {
	// DrawImage 把 img 正向绘制并铺满 r。
	DrawImage(r Rect, img image.Image)
	// FillMask 以 c 填充 r，透明度取自 mask。
	FillMask(r Rect, mask *image.Alpha, c color.Color)
	// Tint 返回蒙版填充时使用的前景色；ok 为 false 表示直接绘制像素。
	// 颜色在绘制时解析，以便跟随外观变化。
	Tint() (c color.Color, ok bool)
}

// DrawHook 在布局引擎绘制某一行时被调用，此时行的最终几何信息才可用。
type DrawHook interface {
	DrawLine(s Surface, line Line, origin Point)
}

// DrawHookFunc adapts a function to DrawHook.
type DrawHookFunc func(s Surface, line Line, origin Point)

func (f DrawHookFunc) DrawLine(s Surface, line Line, origin Point) { f(s, line, origin) }
