package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ByLCY/inkline/styled"
	"github.com/ByLCY/inkline/theme"
)

func newRunsCmd() *cobra.Command {
	var opts docOpts

	cmd := &cobra.Command{
		Use:   "runs [file.inl]",
		Short: "Print the styled runs of an inline document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			printRuns(cmd.OutOrStdout(), doc.text)
			return nil
		},
	}
	bindDocFlags(cmd, &opts)
	return cmd
}

// printRuns writes one line per run: its range, its text and its attributes.
func printRuns(w io.Writer, text *styled.Text) {
	fmt.Fprintln(w, StyleTitle.Render(fmt.Sprintf("%d runs, length %d", len(text.Runs()), text.Len())))
	offset := 0
	for _, run := range text.Runs() {
		n := run.Len()
		span := StyleNumber.Render(fmt.Sprintf("[%d,%d)", offset, offset+n))
		body := StyleValue.Render(strconv.Quote(run.Text))
		if run.Attrs.IsPlaceholder() {
			body = StyleHighlight.Render("<math " + strconv.Quote(run.Attrs.MathSource) + ">")
		}
		fmt.Fprintf(w, "%s %s %s\n", span, body, StyleDim.Render(describeAttrs(run.Attrs)))
		offset += n
	}
}

func describeAttrs(a styled.Attributes) string {
	var parts []string
	if a.Font != nil {
		parts = append(parts, fmt.Sprintf("font=%s/%gpt", a.Font.Name, a.Font.Size))
	}
	if a.Foreground != nil {
		parts = append(parts, "fg="+theme.FromColor(a.Foreground).String())
	}
	if a.Background != nil {
		parts = append(parts, "bg="+theme.FromColor(a.Background).String())
	}
	if a.Underline != styled.LineNone {
		parts = append(parts, "underline")
	}
	if a.Strikethrough != styled.LineNone {
		parts = append(parts, "strike")
	}
	if a.Link != "" {
		parts = append(parts, "link="+StyleLink.Render(a.Link))
	}
	if a.Attachment != nil {
		parts = append(parts, fmt.Sprintf("size=%.2fx%.2fmm", a.Attachment.Size.Width, a.Attachment.Size.Height))
	}
	if a.ContextID != "" {
		parts = append(parts, "id="+a.ContextID)
	}
	return strings.Join(parts, " ")
}
