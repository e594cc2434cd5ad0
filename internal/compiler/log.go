package compiler

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"latex-insight/internal/logger"
	"latex-insight/internal/logtab"
)

// maxLogLine bounds a single log line; TeX wraps at 79 columns but packages
// can dump much longer lines.
const maxLogLine = 1 << 20

// ReadLog feeds every line of r to c in order and passes each completed
// diagnostic to emit. At end of input the classifier is flushed. When ctx is
// cancelled delivery stops, the classifier is reset and ctx.Err() is
// returned.
func ReadLog(ctx context.Context, r io.Reader, c *logtab.Classifier, emit func(logtab.LogDiagnostic)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLogLine)

	lines := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			c.Reset()
			logger.Debug("log reading cancelled", logger.Int("lines", lines))
			return err
		}
		lines++
		for _, d := range c.Feed(scanner.Text()) {
			emit(d)
		}
	}
	if err := scanner.Err(); err != nil {
		c.Reset()
		return fmt.Errorf("failed to read compiler output: %w", err)
	}
	for _, d := range c.Flush() {
		emit(d)
	}
	logger.Debug("compiler output classified", logger.Int("lines", lines))
	return nil
}

// ClassifyLog reads r to the end and returns all diagnostics in order.
func ClassifyLog(ctx context.Context, r io.Reader, opts logtab.Options) ([]logtab.LogDiagnostic, error) {
	var out []logtab.LogDiagnostic
	err := ReadLog(ctx, r, logtab.NewClassifier(opts), func(d logtab.LogDiagnostic) {
		out = append(out, d)
	})
	return out, err
}

// LogPath returns the log file the compiler writes for texPath. With an
// empty outputDir the log sits next to the source. Paths that are not .tex
// files are returned unchanged.
func LogPath(texPath, outputDir string) string {
	if !strings.EqualFold(filepath.Ext(texPath), ".tex") {
		return texPath
	}
	base := strings.TrimSuffix(filepath.Base(texPath), filepath.Ext(texPath)) + ".log"
	if outputDir == "" {
		return filepath.Join(filepath.Dir(texPath), base)
	}
	return filepath.Join(outputDir, base)
}
