package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"latex-insight/internal/diacritic"
	"latex-insight/internal/types"
)

func newEscapeCmd(c *cli) *cobra.Command {
	var math bool
	cmd := &cobra.Command{
		Use:   "escape <char|\\command>",
		Short: "Print the LaTeX escape of a character, or the character of a command",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := args[0]
			out := cmd.OutOrStdout()

			if strings.HasPrefix(arg, `\`) {
				char, ok := diacritic.DisplayOf(arg, math)
				if !ok {
					return types.NewAppErrorWithDetails(types.ErrInvalidInput, "unknown command", arg, nil)
				}
				fmt.Fprintln(out, char)
				return nil
			}

			replacement, err := diacritic.EscapeReplacement(arg, math)
			switch {
			case errors.Is(err, diacritic.ErrASCII):
				fmt.Fprintln(out, arg)
				return nil
			case err != nil:
				fmt.Fprintf(cmd.ErrOrStderr(), "%s %q: %v\n", c.pal.warn.Sprint("no escape for"), arg, err)
				return errFindings
			}
			fmt.Fprintln(out, replacement)
			return nil
		},
	}
	cmd.Flags().BoolVar(&math, "math", false, "resolve in math mode")
	return cmd
}
