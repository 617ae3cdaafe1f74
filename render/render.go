// Package render 把内联节点树转换为布局引擎消费的 styled.Text。
//
// 渲染是输入的纯函数：同样的节点、主题与预处理内容得到同样的 run 与属性，
// 每次调用都会新建公式附件，不做跨调用缓存。
package render

import (
	"github.com/ByLCY/inkline/inline"
	"github.com/ByLCY/inkline/styled"
	"github.com/ByLCY/inkline/theme"
)

// codeBackgroundAlpha 为行内代码背景的透明度，替换主题颜色原有的透明度。
const codeBackgroundAlpha = 0.05

// Render 依次渲染 nodes 并拼接结果。th 在调用期间只读。
func Render(ctx *Context, nodes []inline.Node, th *theme.Theme, content inline.Content) *styled.Text {
	defer ctx.enter()()
	if th == nil {
		th = theme.Default()
	}
	r := newNodeRenderer(ctx, th, content)
	out := &styled.Text{}
	for _, n := range nodes {
		r.render(out, n)
	}
	return out
}

type nodeRenderer struct {
	ctx       *Context
	fonts     theme.Fonts
	colors    theme.Colors
	alignment theme.VerticalAlignment
	content   inline.Content
}

func newNodeRenderer(ctx *Context, th *theme.Theme, content inline.Content) *nodeRenderer {
	// 复制字体与颜色，输出不受调用之后主题修改的影响。
	return &nodeRenderer{
		ctx:       ctx,
		fonts:     th.Fonts,
		colors:    th.Colors,
		alignment: th.InlineMathVerticalAlignment,
		content:   content,
	}
}

func (r *nodeRenderer) render(out *styled.Text, n inline.Node) {
	switch v := n.(type) {
	case inline.Text:
		out.Append(v.Value, r.bodyAttrs())
	case inline.SoftBreak:
		out.Append(" ", r.bodyAttrs())
	case inline.LineBreak:
		out.Append("\n", r.bodyAttrs())
	case inline.Code:
		out.Append(v.Value, r.codeAttrs())
	case inline.HTML:
		out.Append(v.Value, r.codeAttrs())
	case inline.Emphasis:
		r.overlay(out, v.Children, styled.Attributes{
			Underline:      styled.LineThick,
			UnderlineColor: r.colors.Emphasis,
		})
	case inline.Strong:
		r.overlay(out, v.Children, styled.Attributes{Font: &r.fonts.Bold})
	case inline.Strikethrough:
		r.overlay(out, v.Children, styled.Attributes{Strikethrough: styled.LineThick})
	case inline.Link:
		r.overlay(out, v.Children, styled.Attributes{
			Link:       v.Destination,
			Foreground: r.colors.Highlight,
		})
	case inline.Image:
		// 不在此处加载图片，只输出指向来源的链接文本。
		out.Append(v.Source, styled.Attributes{
			Link:       v.Source,
			Font:       &r.fonts.Body,
			Foreground: r.colors.Body,
		})
	case inline.Math:
		r.math(out, v)
	}
}

// overlay 渲染子节点后把属性叠加到子节点合并后的整个范围上。
func (r *nodeRenderer) overlay(out *styled.Text, children []inline.Node, attrs styled.Attributes) {
	start := out.Len()
	for _, child := range children {
		r.render(out, child)
	}
	out.AddAttributes(attrs, start, out.Len())
}

func (r *nodeRenderer) bodyAttrs() styled.Attributes {
	return styled.Attributes{Font: &r.fonts.Body, Foreground: r.colors.Body}
}

func (r *nodeRenderer) codeAttrs() styled.Attributes {
	return styled.Attributes{
		Font:       &r.fonts.CodeInline,
		Foreground: r.colors.Code,
		Background: r.colors.CodeBackground.WithAlpha(codeBackgroundAlpha),
	}
}
