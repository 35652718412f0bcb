package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func (a *app) presetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "Manage saved brew recipes",
	}
	cmd.AddCommand(a.presetsListCmd(), a.presetsImportCmd())
	return cmd
}

func (a *app) presetsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			presets, err := a.api.ListPresets(ctx)
			if err != nil {
				return err
			}
			return a.print(cmd, presets, func(w io.Writer) {
				fmt.Fprintln(w, "ID\tRECIPE\tGRINDER\tCLICKS\tDRIPPER\tTEMP\tWATER")
				for _, p := range presets {
					fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%g\t%g\n",
						p.ID, p.RecipeName, p.Grinder, p.Clicks, p.Dripper, p.Temp, p.PourSteps.TotalWater())
				}
			})
		},
	}
}

func (a *app) presetsImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Import presets from a YAML seed file",
		Long: `Import presets from a YAML seed file. Use - to read standard input.

Every preset in the file is validated before any is stored.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}

			ctx, cancel := a.context(cmd)
			defer cancel()

			presets, err := a.api.ImportPresetsYAML(ctx, r)
			if err != nil {
				return err
			}
			return a.print(cmd, presets, func(w io.Writer) {
				fmt.Fprintf(w, "Imported %d presets\n", len(presets))
				for _, p := range presets {
					fmt.Fprintf(w, "%s\t%s\n", p.ID, p.RecipeName)
				}
			})
		},
	}
}
