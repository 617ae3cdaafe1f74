package cli

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("test") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("test") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("test") }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Fatalf("logged = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Fatalf("expected default logger without attachment")
	}
	l := newLogger(&bytes.Buffer{}, log.InfoLevel)
	if loggerFromContext(withLogger(context.Background(), l)) != l {
		t.Fatalf("expected attached logger")
	}
}

// writeFixture 写入一个带公式图片的文档。
func writeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	img := image.NewNRGBA(image.Rect(0, 0, 40, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 40; x++ {
			img.SetNRGBA(x, y, color.NRGBA{A: uint8(x * 6)})
		}
	}
	f, err := os.Create(filepath.Join(dir, "eq.png"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	f.Close()

	src := `doc Fixture v1 {
  theme {
    math-align: center
  }
  content {
    math eq { text: "a+b"; image: "eq.png"; dpi: 254 }
  }
  inline {
    "Hello ${user.name}, "
    strong { "see" }
    " "
    math "a+b" eq
    " and "
    code "x := 1"
  }
}
`
	path := filepath.Join(dir, "doc.inl")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "data.json"), []byte(`{"user":{"name":"Ada"}}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRenderPNGAndPDF(t *testing.T) {
	input := writeFixture(t)
	dir := filepath.Dir(input)

	pngPath := filepath.Join(dir, "out", "doc.png")
	debugPath := filepath.Join(dir, "layout.json")
	if _, err := execute(t, "render", input, "--out", pngPath, "--stencil", "--debug", debugPath, "--dpmm", "4"); err != nil {
		t.Fatalf("render png: %v", err)
	}
	f, err := os.Open(pngPath)
	if err != nil {
		t.Fatalf("open png: %v", err)
	}
	defer f.Close()
	if _, err := png.Decode(f); err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if _, err := os.Stat(debugPath); err != nil {
		t.Fatalf("debug JSON missing: %v", err)
	}

	pdfPath := filepath.Join(dir, "doc.pdf")
	if _, err := execute(t, "render", input, "--out", pdfPath, "--width", "40"); err != nil {
		t.Fatalf("render pdf: %v", err)
	}
	data, err := os.ReadFile(pdfPath)
	if err != nil || !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("expected PDF output, err=%v", err)
	}

	if _, err := execute(t, "render", input, "--out", filepath.Join(dir, "doc.svg")); err == nil {
		t.Fatalf("unsupported extension should fail")
	}
}

func TestRunsCommand(t *testing.T) {
	input := writeFixture(t)
	out, err := execute(t, "runs", input, "--data", filepath.Join(filepath.Dir(input), "data.json"))
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	for _, want := range []string{"Hello Ada, ", "<math \"a+b\">", "id=eq", "x := 1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("runs output missing %q:\n%s", want, out)
		}
	}
}

func TestThemeCommand(t *testing.T) {
	out, err := execute(t, "theme", "--size", "15")
	if err != nil {
		t.Fatalf("theme: %v", err)
	}
	if !strings.Contains(out, "inline-math-vertical-alignment") || !strings.Contains(out, "size = 15") {
		t.Fatalf("unexpected theme output:\n%s", out)
	}
}
