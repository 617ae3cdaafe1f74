package styled

// Size 为宽高，单位与布局一致（mm）。
type Size struct {
	Width  float64
	Height float64
}

// RunMetrics 是布局引擎为一个 run 预留空间所需的度量。
type RunMetrics struct {
	Ascent  float64
	Descent float64
	Width   float64
}

// Height 返回 Ascent+Descent。
func (m RunMetrics) Height() float64 { return m.Ascent + m.Descent }

// RunDelegate 在布局时被惰性地查询度量。
type RunDelegate interface {
	RunMetrics() RunMetrics
}

// RunDelegateFunc adapts a function to RunDelegate.
type RunDelegateFunc func() RunMetrics

func (f RunDelegateFunc) RunMetrics() RunMetrics { return f() }

// Default ascent/descent split of an attachment's height.
const (
	DefaultAscentRatio  = 0.9
	DefaultDescentRatio = 0.1
)

// Attachment 是嵌入对象在文本中的占位，布局引擎只通过它了解尺寸与度量。
// 每次渲染新建，归引用它的 run 所有。
type Attachment struct {
	// Size 可在构造之后、布局之前设置。
	Size Size
	// Text 为附件的文本表示，供复制或无障碍使用。
	Text string

	metrics  func(*Attachment) RunMetrics
	delegate RunDelegate
}

// NewAttachment 创建使用默认度量的附件：ascent/descent 为高度的 90%/10%，
// 在布局引擎首次查询时依据当时的 Size 计算。
func NewAttachment(text string) *Attachment {
	return NewAttachmentFunc(text, defaultMetrics)
}

// NewFixedAttachment 创建 ascent/descent 固定的附件，宽度仍取自 Size。
func NewFixedAttachment(text string, ascent, descent float64) *Attachment {
	return NewAttachmentFunc(text, func(a *Attachment) RunMetrics {
		return RunMetrics{Ascent: ascent, Descent: descent, Width: a.Size.Width}
	})
}

// NewAttachmentFunc 使用调用方提供的度量回调。
func NewAttachmentFunc(text string, metrics func(*Attachment) RunMetrics) *Attachment {
	if metrics == nil {
		metrics = defaultMetrics
	}
	return &Attachment{Text: text, metrics: metrics}
}

// RunDelegate 返回附件的度量代理，首次调用时创建，之后始终返回同一个。
func (a *Attachment) RunDelegate() RunDelegate {
	if a.delegate == nil {
		a.delegate = &attachmentDelegate{attachment: a}
	}
	return a.delegate
}

type attachmentDelegate struct {
	attachment *Attachment
}

func (d *attachmentDelegate) RunMetrics() RunMetrics {
	return d.attachment.metrics(d.attachment)
}

func defaultMetrics(a *Attachment) RunMetrics {
	return RunMetrics{
		Ascent:  a.Size.Height * DefaultAscentRatio,
		Descent: a.Size.Height * DefaultDescentRatio,
		Width:   a.Size.Width,
	}
}
