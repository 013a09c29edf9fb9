package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// fontsCmd lists caption font families.
var fontsCmd = &cobra.Command{
	Use:   "fonts [FAMILY...]",
	Short: "List caption font families or show how names resolve",
	Long: `Without arguments, list every known font family and alias, including
fonts loaded with --font-dir. With arguments, print the family each name
resolves to; unknown names fall back to the default family.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := fontRegistry(GetConfig().Fonts.Dirs)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(args) == 0 {
			for _, name := range registry.Families() {
				_, _ = fmt.Fprintln(out, name)
			}
			return nil
		}

		for _, name := range args {
			_, resolved, err := registry.Lookup(name)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(out, "%s -> %s\n", name, resolved)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fontsCmd)
}
