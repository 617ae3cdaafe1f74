package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ByLCY/inkline/renderer"
)

type renderOpts struct {
	docOpts
	output string  // .pdf or .png
	dpmm   float64 // PNG pixels per millimetre
}

func newRenderCmd() *cobra.Command {
	opts := renderOpts{dpmm: defaultDPMM}

	cmd := &cobra.Command{
		Use:   "render [file.inl]",
		Short: "Typeset an inline document to PDF or PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.output == "" {
				opts.output = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".pdf"
			}
			return runRender(cmd, args[0], opts)
		},
	}
	bindDocFlags(cmd, &opts.docOpts)
	cmd.Flags().StringVarP(&opts.output, "out", "o", "", "output path (.pdf or .png)")
	cmd.Flags().Float64Var(&opts.dpmm, "dpmm", opts.dpmm, "PNG resolution in pixels per mm")
	return cmd
}

func runRender(cmd *cobra.Command, input string, opts renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	doc, err := loadDocument(ctx, input, opts.docOpts)
	if err != nil {
		return err
	}

	format, err := renderer.FormatOf(opts.output)
	if err != nil {
		return err
	}
	prog := newProgress(logger)
	data, err := renderer.Output(doc.renderer, doc.frame, format, opts.dpmm)
	if err != nil {
		return fmt.Errorf("渲染失败: %w", err)
	}

	if dir := filepath.Dir(opts.output); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("创建输出目录失败: %w", err)
		}
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return fmt.Errorf("写入输出文件失败: %w", err)
	}
	prog.done("Rendered " + opts.output)
	printSuccess("已生成 %s", opts.output)
	return nil
}
