package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"latex-insight/internal/environment"
	"latex-insight/internal/references"
	"latex-insight/internal/source"
	"latex-insight/internal/syntax"
)

// unlabeled is a labeled-by-convention environment that has no label.
type unlabeled struct {
	Environment string         `json:"environment"`
	Position    source.LineCol `json:"position"`
	Prefix      string         `json:"suggested_prefix"`
}

type labelsResult struct {
	Path        string                  `json:"path"`
	Definitions []references.Definition `json:"definitions"`
	Unlabeled   []unlabeled             `json:"unlabeled,omitempty"`
}

func newLabelsCmd(c *cli) *cobra.Command {
	var (
		asJSON  bool
		missing bool
	)
	cmd := &cobra.Command{
		Use:   "labels <file.tex>...",
		Short: "List label and bibliography definitions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var results []labelsResult
			dupes := false
			for _, path := range args {
				f, doc, err := loadDocument(path)
				if err != nil {
					return err
				}
				r := c.resolver(doc)
				res := labelsResult{Path: path, Definitions: references.Collect(doc, r)}
				if missing {
					res.Unlabeled = findUnlabeled(f, doc, r)
				}
				if len(references.Duplicates(res.Definitions)) > 0 {
					dupes = true
				}
				results = append(results, res)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				if err := writeJSON(out, results); err != nil {
					return err
				}
			} else {
				for _, res := range results {
					c.printLabels(out, res)
				}
			}
			if dupes {
				return errFindings
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	cmd.Flags().BoolVar(&missing, "missing", false, "also list figures, tables, ... without a label")
	return cmd
}

func findUnlabeled(f *source.File, doc *syntax.Document, r *environment.Resolver) []unlabeled {
	var out []unlabeled
	for _, env := range syntax.FindAll(doc.Root, syntax.KindEnvironment) {
		name := r.Name(env)
		prefix, ok := r.ConventionalPrefix(name)
		if !ok {
			continue
		}
		if _, found := r.Label(env); !found {
			out = append(out, unlabeled{Environment: name, Position: f.Position(env.Span.Start), Prefix: prefix})
		}
	}
	return out
}

func (c *cli) printLabels(w io.Writer, res labelsResult) {
	dupes := references.Duplicates(res.Definitions)
	for _, d := range res.Definitions {
		line := fmt.Sprintf("%s:%s: %s %s", res.Path, d.Position, d.Kind, d.Key)
		if d.Environment != "" {
			line += c.pal.dim.Sprintf(" (%s in %s)", d.Command, d.Environment)
		}
		if _, ok := dupes[d.Key]; ok {
			line += " " + c.pal.warn.Sprint("duplicate")
		}
		fmt.Fprintln(w, line)
	}

	keys := make([]string, 0, len(dupes))
	for k := range dupes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "%s: %s %q defined %d times\n", res.Path, c.pal.err.Sprint("duplicate"), k, len(dupes[k]))
	}

	for _, u := range res.Unlabeled {
		fmt.Fprintf(w, "%s:%s: %s %s has no label (use %s:...)\n",
			res.Path, u.Position, c.pal.warn.Sprint("unlabeled"), u.Environment, u.Prefix)
	}
}
