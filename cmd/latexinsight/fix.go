package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"latex-insight/internal/editor"
	"latex-insight/internal/unicodecheck"
)

func newFixCmd(c *cli) *cobra.Command {
	var (
		insertPackages bool
		dryRun         bool
		backupDir      string
	)
	cmd := &cobra.Command{
		Use:   "fix <file.tex>",
		Short: "Escape illegal characters in place",
		Long: `fix rewrites every illegal character it can escape. With --packages,
text-mode characters are fixed by including inputenc and fontenc instead.
The original file is backed up first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := c.compilerFlag(cmd)
			if err != nil {
				return err
			}
			f, doc, err := loadDocument(args[0])
			if err != nil {
				return err
			}
			occs := unicodecheck.NewChecker(mode, c.cfg.MathContext()).Scan(doc)
			edits, unresolved := unicodecheck.FixAll(doc, occs, unicodecheck.FixOptions{InsertPackages: insertPackages})

			out := cmd.OutOrStdout()
			if dryRun {
				fixed, err := editor.Apply(f.Text, edits)
				if err != nil {
					return err
				}
				fmt.Fprint(out, fixed)
			} else {
				backup, err := editor.NewFileEditor(editor.NewBackupManager(backupDir)).ApplyToFile(f, edits)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s: %d edits applied\n", f.Path, len(edits))
				if backup != "" {
					fmt.Fprintf(out, "%s\n", c.pal.dim.Sprintf("backup: %s", backup))
				}
			}

			errOut := cmd.ErrOrStderr()
			for _, o := range unresolved {
				fmt.Fprintf(errOut, "%s:%s: %s %q has no escape\n", f.Path, o.Position, c.pal.warn.Sprint("unresolved"), o.Character)
			}
			if len(unresolved) > 0 {
				return errFindings
			}
			return nil
		},
	}
	cmd.Flags().String("compiler", "", "compiler to check against (pdflatex|xelatex|lualatex)")
	cmd.Flags().BoolVar(&insertPackages, "packages", false, "include inputenc/fontenc instead of escaping text")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the fixed source instead of writing it")
	cmd.Flags().StringVar(&backupDir, "backup-dir", "", "directory for backups (default: next to the file)")
	return cmd
}
