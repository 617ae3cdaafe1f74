// Package styled 提供布局引擎消费的富文本：按顺序排列的 (文本, 属性) run，
// 以及公式占位符所需的附件、度量回调与绘制回调协议。
//
// 长度单位为 Unicode 码点。
package styled

import (
	"strings"
	"unicode/utf8"
)

// ReplacementText 是附件占位符在文本中的内容（U+FFFC），长度恰为 1。
const ReplacementText = "\uFFFC"

// Run 为共享同一属性集合的一段文本。
type Run struct {
	Text  string
	Attrs Attributes
}

// Len 返回 run 的码点数。
func (r Run) Len() int { return utf8.RuneCountInString(r.Text) }

// Text 是有序 run 列表。零值可直接使用。
type Text struct {
	runs   []Run
	length int
}

// New 创建一个只含一个 run 的 Text。
func New(s string, attrs Attributes) *Text {
	t := &Text{}
	t.Append(s, attrs)
	return t
}

// Len 返回总码点数。
func (t *Text) Len() int { return t.length }

// String 返回拼接后的纯文本。
func (t *Text) String() string {
	var b strings.Builder
	for _, r := range t.runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// Runs 返回 run 列表的副本。
func (t *Text) Runs() []Run {
	out := make([]Run, len(t.runs))
	copy(out, t.runs)
	return out
}

// Append 追加一段文本。样式与末尾 run 相同时合并。
func (t *Text) Append(s string, attrs Attributes) {
	if s == "" {
		return
	}
	t.length += utf8.RuneCountInString(s)
	if n := len(t.runs); n > 0 && t.runs[n-1].Attrs.SameStyle(attrs) {
		t.runs[n-1].Text += s
		return
	}
	t.runs = append(t.runs, Run{Text: s, Attrs: attrs})
}

// AppendText 追加另一个 Text 的全部 run。
func (t *Text) AppendText(other *Text) {
	if other == nil {
		return
	}
	for _, r := range other.runs {
		t.Append(r.Text, r.Attrs)
	}
}

// AddAttributes 把 overlay 叠加到 [start, end) 上。跨越边界的 run 会被拆分，
// overlay 未设置的属性保持不变。
func (t *Text) AddAttributes(overlay Attributes, start, end int) {
	start = max(start, 0)
	end = min(end, t.length)
	if start >= end {
		return
	}
	out := make([]Run, 0, len(t.runs)+2)
	pos := 0
	for _, r := range t.runs {
		n := r.Len()
		runStart, runEnd := pos, pos+n
		pos = runEnd
		if runEnd <= start || runStart >= end {
			out = appendRun(out, r)
			continue
		}
		lo := max(start, runStart) - runStart
		hi := min(end, runEnd) - runStart
		head, mid, tail := splitRunes(r.Text, lo, hi)
		out = appendRun(out, Run{Text: head, Attrs: r.Attrs})
		out = appendRun(out, Run{Text: mid, Attrs: r.Attrs.Merge(overlay)})
		out = appendRun(out, Run{Text: tail, Attrs: r.Attrs})
	}
	t.runs = out
}

// Slice 返回 [start, end) 范围内的副本。
func (t *Text) Slice(start, end int) *Text {
	start = max(start, 0)
	end = min(end, t.length)
	out := &Text{}
	pos := 0
	for _, r := range t.runs {
		n := r.Len()
		runStart, runEnd := pos, pos+n
		pos = runEnd
		if runEnd <= start || runStart >= end {
			continue
		}
		_, mid, _ := splitRunes(r.Text, max(start, runStart)-runStart, min(end, runEnd)-runStart)
		out.Append(mid, r.Attrs)
	}
	return out
}

// Clone 返回深度为一层的副本；附件与回调按引用共享。
func (t *Text) Clone() *Text {
	return &Text{runs: t.Runs(), length: t.length}
}

func appendRun(runs []Run, r Run) []Run {
	if r.Text == "" {
		return runs
	}
	if n := len(runs); n > 0 && runs[n-1].Attrs.SameStyle(r.Attrs) {
		runs[n-1].Text += r.Text
		return runs
	}
	return append(runs, r)
}

// splitRunes 以码点下标 lo、hi 把 s 切为三段。
func splitRunes(s string, lo, hi int) (string, string, string) {
	loByte, hiByte := len(s), len(s)
	i := 0
	for b := range s {
		if i == lo {
			loByte = b
		}
		if i == hi {
			hiByte = b
			break
		}
		i++
	}
	if lo > hi {
		loByte = hiByte
	}
	return s[:loByte], s[loByte:hiByte], s[hiByte:]
}
