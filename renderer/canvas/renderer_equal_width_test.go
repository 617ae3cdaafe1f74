package canvasrenderer

import (
	"testing"

	"github.com/ByLCY/inkline/layout"
	"github.com/ByLCY/inkline/styled"
	"github.com/ByLCY/inkline/theme"
)

// 当第一行宽度与容器宽度恰好相等且后面紧跟一个显式换行时，不应产生额外的空行。
func TestNoBlankLineWhenEqualWidthThenNewline(t *testing.T) {
	r := NewRenderer(".")
	font := &theme.Font{Name: "Body", Src: "embed:goregular", Size: 12}

	first := "SAMPLE-A"
	limit := r.TextWidth(first, font)
	if limit <= 0 {
		t.Fatalf("invalid measured width: %g", limit)
	}

	text := styled.New(first+"\n"+"SAMPLE-B", styled.Attributes{Font: font})
	frame, err := layout.Build(text, layout.Options{Width: limit, Font: font, Measurer: r})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if got := len(frame.Lines); got != 2 {
		t.Fatalf("expected 2 lines without blank, got %d", got)
	}
	if got := frame.Lines[0].Items[0].Text; got != first {
		t.Fatalf("first line mismatch: got=%q want=%q", got, first)
	}
	if got := frame.Lines[1].Items[0].Text; got != "SAMPLE-B" {
		t.Fatalf("second line mismatch: got=%q want=%q", got, "SAMPLE-B")
	}
}
