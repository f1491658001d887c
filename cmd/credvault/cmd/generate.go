package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loganmanery/credvault/pkg/generator"
)

func newGenerateCmd() *cobra.Command {
	opts := generator.DefaultOptions()
	var noSymbols bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print a random password without touching the vault",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if noSymbols {
				opts.Symbols = false
			}

			password, err := generator.Generate(opts)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), password)
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.Length, "length", "l", opts.Length, "password length")
	cmd.Flags().BoolVar(&noSymbols, "no-symbols", false, "letters and digits only")
	cmd.Flags().BoolVar(&opts.ExcludeSimilar, "exclude-similar", opts.ExcludeSimilar, "leave out look-alike characters (il1Lo0O)")
	return cmd
}
