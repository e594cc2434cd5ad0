package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"latex-insight/internal/compiler"
	"latex-insight/internal/packages"
	"latex-insight/internal/types"
	"latex-insight/internal/unicodecheck"
)

type packageEntry struct {
	Name    string   `json:"name"`
	Options []string `json:"options,omitempty"`
}

type packagesResult struct {
	Path           string         `json:"path"`
	Packages       []packageEntry `json:"packages"`
	Compiler       compiler.Mode  `json:"compiler"`
	UnicodeEnabled bool           `json:"unicode_enabled"`
	NotInstalled   []string       `json:"not_installed,omitempty"`
}

func newPackagesCmd(c *cli) *cobra.Command {
	var (
		asJSON    bool
		installed string
	)
	cmd := &cobra.Command{
		Use:   "packages <file.tex>",
		Short: "List the packages a document includes",
		Long: `packages lists every package loaded with \usepackage or \RequirePackage.
With --installed, the output of "tlmgr list --only-installed" is used to
report the packages that are not installed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := c.compilerFlag(cmd)
			if err != nil {
				return err
			}
			_, doc, err := loadDocument(args[0])
			if err != nil {
				return err
			}
			inc := packages.Included(doc)

			res := packagesResult{
				Path:           args[0],
				Compiler:       mode,
				UnicodeEnabled: unicodecheck.UnicodeEnabled(inc, mode),
			}
			for _, p := range inc.All() {
				res.Packages = append(res.Packages, packageEntry{Name: p.Name, Options: p.Options})
			}
			if installed != "" {
				data, err := os.ReadFile(installed)
				if err != nil {
					return types.NewAppError(types.ErrFileNotFound, "failed to read installed package list", err)
				}
				res.NotInstalled = inc.Missing(packages.ParseTlmgrList(string(data)))
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, res)
			}
			for _, p := range res.Packages {
				if len(p.Options) > 0 {
					fmt.Fprintf(out, "%s %s\n", p.Name, c.pal.dim.Sprintf("[%s]", strings.Join(p.Options, ",")))
				} else {
					fmt.Fprintln(out, p.Name)
				}
			}
			state := c.pal.ok.Sprint("enabled")
			if !res.UnicodeEnabled {
				state = c.pal.warn.Sprint("disabled")
			}
			fmt.Fprintf(out, "unicode input with %s: %s\n", mode, state)
			for _, name := range res.NotInstalled {
				fmt.Fprintf(out, "%s %s\n", c.pal.err.Sprint("not installed:"), name)
			}
			if len(res.NotInstalled) > 0 {
				return errFindings
			}
			return nil
		},
	}
	cmd.Flags().String("compiler", "", "compiler to check against (pdflatex|xelatex|lualatex)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	cmd.Flags().StringVar(&installed, "installed", "", "file with tlmgr list --only-installed output")
	return cmd
}
