package layout

import (
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/ByLCY/inkline/styled"
	"github.com/ByLCY/inkline/theme"
)

// stubMeasurer 是测试用的最小实现：每个码点宽 size/10 mm，ascent/descent 为 0.3/0.1 倍字号。
type stubMeasurer struct{}

func (stubMeasurer) TextWidth(s string, f *theme.Font) float64 {
	return float64(utf8.RuneCountInString(s)) * f.Size / 10
}

func (stubMeasurer) FontMetrics(f *theme.Font) (float64, float64) {
	return f.Size * 0.3, f.Size * 0.1
}

var testFont = &theme.Font{Name: "Body", Size: 10}

func testOptions(width float64) Options {
	return Options{
		Width:      width,
		LineHeight: LineHeightSpec{Kind: LineHeightAbsolute, Len: Length{Value: 5, Unit: UnitMM}},
		Font:       testFont,
		Measurer:   stubMeasurer{},
	}
}

func lineTexts(f *Frame) []string {
	var out []string
	for _, l := range f.Lines {
		var sb strings.Builder
		for _, r := range l.Items {
			sb.WriteString(r.Text)
		}
		out = append(out, sb.String())
	}
	return out
}

func mustBuild(t *testing.T, text *styled.Text, opts Options) *Frame {
	t.Helper()
	f, err := Build(text, opts)
	if err != nil {
		t.Fatalf("布局失败: %v", err)
	}
	return f
}

func assertLines(t *testing.T, f *Frame, want ...string) {
	t.Helper()
	got := lineTexts(f)
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("行内容不符: got=%q want=%q", got, want)
	}
}

func TestWrapAtWhitespace(t *testing.T) {
	f := mustBuild(t, styled.New("aaa bbb ccc", styled.Attributes{}), testOptions(7))
	assertLines(t, f, "aaa bbb", "ccc")
	if f.Lines[0].Width != 7 {
		t.Fatalf("首行宽度应为 7，实际 %g", f.Lines[0].Width)
	}
}

func TestWrappedLineDropsSurroundingSpaces(t *testing.T) {
	f := mustBuild(t, styled.New("aaa   bbb", styled.Attributes{}), testOptions(4))
	assertLines(t, f, "aaa", "bbb")
}

func TestLongWordSplitByWidth(t *testing.T) {
	f := mustBuild(t, styled.New("abcdefghij", styled.Attributes{}), testOptions(4))
	assertLines(t, f, "abcd", "efgh", "ij")
}

func TestExplicitNewlines(t *testing.T) {
	f := mustBuild(t, styled.New("a\n\nb", styled.Attributes{}), testOptions(0))
	assertLines(t, f, "a", "", "b")
	// 空行仍占用正文字体高度
	if f.Lines[1].Ascent != 3 || f.Lines[1].Descent != 1 {
		t.Fatalf("空行度量错误: %+v", f.Lines[1])
	}
}

func TestWordSpansRunsWithoutBreaking(t *testing.T) {
	bold := &theme.Font{Name: "Bold", Size: 10, Style: "bold"}
	text := styled.New("xx foo", styled.Attributes{})
	text.Append("bar", styled.Attributes{Font: bold})
	f := mustBuild(t, text, testOptions(7))
	assertLines(t, f, "xx", "foobar")
	if n := len(f.Lines[1].Items); n != 2 {
		t.Fatalf("第二行应有两个 run，实际 %d", n)
	}
	if f.Lines[1].Items[1].X != 3 {
		t.Fatalf("粗体 run 的 X 应为 3，实际 %g", f.Lines[1].Items[1].X)
	}
}

func TestOriginsAreBaselinesFromBottom(t *testing.T) {
	f := mustBuild(t, styled.New("a\nb", styled.Attributes{}), testOptions(0))
	// 每行 ascent 3 + descent 1 + leading 1
	if f.Height != 10 {
		t.Fatalf("总高度应为 10，实际 %g", f.Height)
	}
	if got := f.Lines[0].Origin.Y; got != 6.5 {
		t.Fatalf("首行基线应为 6.5，实际 %g", got)
	}
	if got := f.Lines[1].Origin.Y; got != 1.5 {
		t.Fatalf("第二行基线应为 1.5，实际 %g", got)
	}
	if f.Width != 1 {
		t.Fatalf("未限宽时框架宽度取最宽行，实际 %g", f.Width)
	}
}

func TestAlignCenter(t *testing.T) {
	opts := testOptions(10)
	opts.Align = "center"
	f := mustBuild(t, styled.New("abcd", styled.Attributes{}), opts)
	if got := f.Lines[0].Origin.X; got != 3 {
		t.Fatalf("居中偏移应为 3，实际 %g", got)
	}
}

func TestPlaceholderMetricsResolvedAtLayout(t *testing.T) {
	att := styled.NewAttachment("x")
	text := styled.New("ab ", styled.Attributes{})
	text.Append(styled.ReplacementText, styled.Attributes{Attachment: att})
	// 尺寸在构造之后、布局之前设置
	att.Size = styled.Size{Width: 2, Height: 10}
	f := mustBuild(t, text, testOptions(0))
	line := f.Lines[0]
	if len(line.Items) != 2 {
		t.Fatalf("应有两个 run，实际 %d", len(line.Items))
	}
	ph := line.Items[1]
	if ph.Width != 2 || math.Abs(ph.Ascent-9) > 1e-9 || math.Abs(ph.Descent-1) > 1e-9 {
		t.Fatalf("占位度量错误: %+v", ph)
	}
	if math.Abs(line.Ascent-9) > 1e-9 || line.Leading != 0 {
		t.Fatalf("行度量应由占位撑开: %+v", line)
	}
	if line.Width != 5 {
		t.Fatalf("行宽应为 5，实际 %g", line.Width)
	}
}

func TestPlaceholderIsNeverSplit(t *testing.T) {
	att := styled.NewFixedAttachment("x", 3, 1)
	att.Size = styled.Size{Width: 6, Height: 4}
	text := styled.New("ab", styled.Attributes{})
	text.Append(styled.ReplacementText, styled.Attributes{Attachment: att})
	text.Append("cd", styled.Attributes{})
	f := mustBuild(t, text, testOptions(5))
	assertLines(t, f, "ab", styled.ReplacementText, "cd")
	if f.Lines[1].Width != 6 {
		t.Fatalf("超宽占位应独占一行，宽度 6，实际 %g", f.Lines[1].Width)
	}
}

type recordingPainter struct {
	runs    []string
	origins []styled.Point
}

func (p *recordingPainter) DrawRun(run *Run, origin styled.Point) {
	p.runs = append(p.runs, run.Text)
	p.origins = append(p.origins, origin)
}

type nopSurface struct{}

func (nopSurface) DrawImage(styled.Rect, image.Image)              {}
func (nopSurface) FillMask(styled.Rect, *image.Alpha, color.Color) {}
func (nopSurface) Tint() (color.Color, bool)                       { return nil, false }

func TestDrawCallsHooksOncePerLine(t *testing.T) {
	var calls []styled.Point
	var seen []int
	hook := styled.DrawHookFunc(func(_ styled.Surface, line styled.Line, origin styled.Point) {
		calls = append(calls, origin)
		seen = append(seen, len(line.Runs()))
	})
	att := styled.NewAttachment("x")
	att.Size = styled.Size{Width: 1, Height: 4}
	text := styled.New("ab", styled.Attributes{})
	text.Append(styled.ReplacementText, styled.Attributes{Attachment: att, DrawHook: hook})
	text.Append("\ncd", styled.Attributes{})

	f := mustBuild(t, text, testOptions(0))
	p := &recordingPainter{}
	f.Draw(p, nopSurface{})

	if strings.Join(p.runs, "|") != "ab|cd" {
		t.Fatalf("文本绘制不应包含占位: %q", p.runs)
	}
	if len(calls) != 1 {
		t.Fatalf("回调应只调用一次，实际 %d", len(calls))
	}
	if calls[0] != f.Lines[0].Origin || seen[0] != 2 {
		t.Fatalf("回调参数错误: origin=%+v runs=%d", calls[0], seen[0])
	}
	if p.origins[1] != f.Lines[1].Origin {
		t.Fatalf("第二行 run 起点错误: %+v", p.origins[1])
	}

	calls = nil
	f.DrawAttachments(nil)
	if len(calls) != 0 {
		t.Fatalf("nil surface 不应触发回调")
	}
}

func TestBuildRequiresMeasurer(t *testing.T) {
	if _, err := Build(styled.New("a", styled.Attributes{}), Options{}); !errors.Is(err, ErrNoMeasurer) {
		t.Fatalf("期望 ErrNoMeasurer，实际 %v", err)
	}
}

func TestWriteDebugJSON(t *testing.T) {
	opts := testOptions(0)
	opts.Debug.Attributes = true
	text := styled.New("hi", styled.Attributes{Link: "https://example.com", Font: testFont})
	f := mustBuild(t, text, opts)

	path := filepath.Join(t.TempDir(), "layout.json")
	if err := WriteDebugJSON(f, path); err != nil {
		t.Fatalf("写调试 JSON 失败: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("读取失败: %v", err)
	}
	var decoded struct {
		Lines []struct {
			Runs []struct {
				Text  string `json:"text"`
				Debug struct {
					Font string `json:"font"`
					Link string `json:"link"`
				} `json:"debug"`
			} `json:"runs"`
		} `json:"lines"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("JSON 无效: %v", err)
	}
	run := decoded.Lines[0].Runs[0]
	if run.Text != "hi" || run.Debug.Font != "Body" || run.Debug.Link != "https://example.com" {
		t.Fatalf("调试信息不符: %+v", run)
	}
}
