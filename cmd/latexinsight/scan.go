package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"latex-insight/internal/compiler"
	"latex-insight/internal/logger"
	"latex-insight/internal/unicodecheck"
)

type scanResult struct {
	Path           string                     `json:"path"`
	Compiler       compiler.Mode              `json:"compiler"`
	UnicodeEnabled bool                       `json:"unicode_enabled"`
	Occurrences    []unicodecheck.Occurrence `json:"occurrences"`
}

func newScanCmd(c *cli) *cobra.Command {
	var (
		asJSON bool
		all    bool
	)
	cmd := &cobra.Command{
		Use:   "scan <file.tex>...",
		Short: "Find non-ASCII characters the compiler cannot typeset",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := c.compilerFlag(cmd)
			if err != nil {
				return err
			}
			checker := unicodecheck.NewChecker(mode, c.cfg.MathContext())

			results := make([]scanResult, len(args))
			g, gctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(c.cfg.GetConcurrency())
			for i, path := range args {
				g.Go(func() error {
					if err := gctx.Err(); err != nil {
						return err
					}
					_, doc, err := loadDocument(path)
					if err != nil {
						return err
					}
					results[i] = scanResult{
						Path:           path,
						Compiler:       mode,
						UnicodeEnabled: checker.Enabled(doc),
						Occurrences:    checker.Scan(doc),
					}
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			illegal := 0
			for _, r := range results {
				illegal += len(unicodecheck.Illegal(r.Occurrences))
			}
			logger.Info("scan finished", logger.Int("files", len(args)), logger.Int("illegal", illegal))

			out := cmd.OutOrStdout()
			if asJSON {
				if err := writeJSON(out, results); err != nil {
					return err
				}
			} else {
				for _, r := range results {
					c.printScan(out, r, all)
				}
			}
			if illegal > 0 {
				return errFindings
			}
			return nil
		},
	}
	cmd.Flags().String("compiler", "", "compiler to check against (pdflatex|xelatex|lualatex)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	cmd.Flags().BoolVar(&all, "all", false, "also list legal characters")
	return cmd
}

func (c *cli) printScan(w io.Writer, r scanResult, all bool) {
	for _, o := range r.Occurrences {
		if o.IsLegal && !all {
			continue
		}
		where := "text"
		if o.InMathMode {
			where = "math"
		}
		if o.IsLegal {
			fmt.Fprintf(w, "%s:%s: %s %q (%s mode)\n", r.Path, o.Position, c.pal.ok.Sprint("legal"), o.Character, where)
			continue
		}
		fmt.Fprintf(w, "%s:%s: %s %q (%s mode, %s)\n", r.Path, o.Position, c.pal.err.Sprint("illegal"), o.Character, where, r.Compiler)
		for _, rem := range o.Remediations {
			fmt.Fprintf(w, "    %s\n", c.pal.dim.Sprint(describeRemediation(rem)))
		}
	}
}

func describeRemediation(r unicodecheck.Remediation) string {
	switch r.Kind {
	case unicodecheck.RemediationEscape:
		if !r.Available() {
			return fmt.Sprintf("%s: %v", r.Kind, r.Err)
		}
		return fmt.Sprintf("%s: %s", r.Kind, r.Replacement)
	case unicodecheck.RemediationInsertPackages:
		return fmt.Sprintf("%s: %v", r.Kind, r.Packages)
	case unicodecheck.RemediationChangeCompiler:
		return fmt.Sprintf("%s: %s", r.Kind, r.Compiler)
	}
	return r.Kind.String()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
