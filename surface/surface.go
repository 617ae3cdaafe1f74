// Package surface 提供 styled.Surface 的两种实现：基于 tdewolff/canvas 的矢量画布
// （y 轴向上）与基于 draw.Image 的位图（左上角为原点，需要翻转 y 轴）。
//
// 两者都可以通过 WithTint 切换为蒙版模式：不绘制图片本身的像素，而是用前景色
// 透过图片的透明度通道填充，使公式颜色跟随外观变化。
package surface

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
)

// Option 配置 surface。
type Option func(*options)

type options struct {
	tint func() color.Color
}

// WithTint 使用固定颜色进行蒙版填充。
func WithTint(c color.Color) Option {
	return func(o *options) { o.tint = func() color.Color { return c } }
}

// WithTintFunc 在每次绘制时调用 fn 解析填充颜色。fn 返回 nil 时直接绘制像素。
func WithTintFunc(fn func() color.Color) Option {
	return func(o *options) { o.tint = fn }
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) resolveTint() (color.Color, bool) {
	if o.tint == nil {
		return nil, false
	}
	c := o.tint()
	return c, c != nil
}

// tintMask 以 c 透过 mask 生成一张图片。
func tintMask(mask *image.Alpha, c color.Color) *image.NRGBA {
	b := mask.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.DrawMask(out, out.Bounds(), image.NewUniform(c), image.Point{}, mask, b.Min, xdraw.Src)
	return out
}
