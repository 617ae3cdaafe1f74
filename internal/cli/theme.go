package cli

import (
	"github.com/spf13/cobra"

	"github.com/ByLCY/inkline/theme"
)

func newThemeCmd() *cobra.Command {
	var (
		path  string
		scale string
		size  float64
	)

	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Print a theme as TOML (the default theme unless --theme is given)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			th := theme.Default()
			if path != "" {
				var err error
				if th, err = theme.LoadFile(path); err != nil {
					return err
				}
				loggerFromContext(cmd.Context()).Debug("加载主题", "path", path)
			}
			if scale != "" {
				th.ScaleFont(theme.FontScale(scale))
			}
			if size > 0 {
				th.AlignTo(size)
			}
			return th.Encode(cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&path, "theme", "", "TOML theme file to normalise")
	cmd.Flags().StringVar(&scale, "scale", "", "font scale: tiny, small, middle, large or huge")
	cmd.Flags().Float64Var(&size, "size", 0, "align body fonts to this point size")
	return cmd
}
