package main

import (
	"github.com/spf13/cobra"
)

func newLatexCmd(a *app) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:     "latex EXPR",
		Short:   "Print a transform expression as a LaTeX equation",
		Example: `  transforms latex 'Rz(psi)*Ry(theta)*Rx(phi)' --name R`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.parser(nil).Parse(args[0])
			if err != nil {
				return err
			}
			_, err = t.PrintLaTeX(cmd.OutOrStdout(), name)
			return err
		},
	}
	cmd.Flags().StringVar(&name, "name", "T", "Left hand side of the equation")
	return cmd
}
