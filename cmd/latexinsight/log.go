package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"latex-insight/internal/compiler"
	"latex-insight/internal/logtab"
	"latex-insight/internal/types"
)

func newLogCmd(c *cli) *cobra.Command {
	var (
		asJSON bool
		width  int
	)
	cmd := &cobra.Command{
		Use:   "log <file.log|file.tex|->",
		Short: "Classify the errors and warnings of a compiler log",
		Long: `log reads a compiler log, or standard input for "-", and prints each
error and warning as soon as it is complete. A .tex path reads the .log
next to it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(compiler.LogPath(args[0], ""))
				if err != nil {
					return types.NewAppError(types.ErrFileNotFound, "failed to open log file", err)
				}
				defer f.Close()
				in = f
			}

			out := cmd.OutOrStdout()
			enc := json.NewEncoder(out)
			errorsSeen := 0
			var encErr error
			emit := func(d logtab.LogDiagnostic) {
				if d.Kind == logtab.KindError {
					errorsSeen++
				}
				if asJSON {
					if err := enc.Encode(d); err != nil && encErr == nil {
						encErr = err
					}
					return
				}
				c.printDiagnostic(out, d, width)
			}

			classifier := logtab.NewClassifier(c.cfg.LogOptions())
			if err := compiler.ReadLog(cmd.Context(), in, classifier, emit); err != nil {
				return err
			}
			if encErr != nil {
				return encErr
			}
			if errorsSeen > 0 {
				return errFindings
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print one JSON object per diagnostic")
	cmd.Flags().IntVar(&width, "width", 0, "wrap messages at this many columns (0 disables)")
	return cmd
}

func (c *cli) printDiagnostic(w io.Writer, d logtab.LogDiagnostic, width int) {
	kind := c.pal.warn.Sprint(d.Kind)
	if d.Kind == logtab.KindError {
		kind = c.pal.err.Sprint(d.Kind)
	}

	var where []string
	if d.File != "" {
		where = append(where, d.File)
	}
	if d.Line > 0 {
		where = append(where, fmt.Sprint(d.Line))
	}
	head := kind
	if len(where) > 0 {
		head = strings.Join(where, ":") + ": " + kind
	}
	if d.Package != "" {
		head += c.pal.dim.Sprintf(" [%s]", d.Package)
	}

	if width <= 0 {
		fmt.Fprintf(w, "%s: %s\n", head, d.Message)
		return
	}
	fmt.Fprintln(w, head+":")
	for _, line := range logtab.Reflow(d.Message, width) {
		fmt.Fprintf(w, "    %s\n", line)
	}
}
