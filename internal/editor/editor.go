package editor

import (
	"fmt"
	"os"
	"sort"

	"latex-insight/internal/logger"
	"latex-insight/internal/source"
	"latex-insight/internal/types"
)

// Edit replaces the bytes [Start, End) of a text with Text. Start == End
// inserts.
type Edit struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// Apply returns text with all edits applied. Offsets refer to the original
// text. Edits must not overlap. An insertion goes before a replacement
// starting at the same offset; insertions at one offset keep their order.
func Apply(text string, edits []Edit) (string, error) {
	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})

	prevEnd := 0
	for i, e := range sorted {
		if e.Start < 0 || e.End < e.Start || e.End > len(text) {
			return "", types.NewAppErrorWithDetails(types.ErrEdit, "edit out of range",
				fmt.Sprintf("[%d,%d) in %d bytes", e.Start, e.End, len(text)), nil)
		}
		if i > 0 && e.Start < prevEnd {
			return "", types.NewAppErrorWithDetails(types.ErrEdit, "overlapping edits",
				fmt.Sprintf("[%d,%d) starts before %d", e.Start, e.End, prevEnd), nil)
		}
		prevEnd = e.End
	}

	out := make([]byte, 0, len(text))
	pos := 0
	for _, e := range sorted {
		out = append(out, text[pos:e.Start]...)
		out = append(out, e.Text...)
		pos = e.End
	}
	out = append(out, text[pos:]...)
	return string(out), nil
}

// FileEditor writes edits back to source files, keeping a backup.
type FileEditor struct {
	backupMgr *BackupManager
}

// NewFileEditor creates a FileEditor.
func NewFileEditor(backupMgr *BackupManager) *FileEditor {
	return &FileEditor{backupMgr: backupMgr}
}

// ApplyToFile applies edits to f's text and writes the result to f.Path in
// f's original encoding. It returns the backup path; on a failed write the
// original is restored from it. With no edits nothing is written.
func (e *FileEditor) ApplyToFile(f *source.File, edits []Edit) (string, error) {
	if len(edits) == 0 {
		return "", nil
	}
	logger.Debug("applying edits", logger.String("path", f.Path), logger.Int("edits", len(edits)))

	updated, err := Apply(f.Text, edits)
	if err != nil {
		return "", err
	}
	data, err := source.Encode(updated, f.Encoding)
	if err != nil {
		return "", err
	}

	backup, err := e.backupMgr.CreateBackup(f.Path)
	if err != nil {
		return "", types.NewAppError(types.ErrEdit, "failed to create backup", err)
	}

	info, err := os.Stat(f.Path)
	if err != nil {
		return backup, types.NewAppError(types.ErrEdit, "failed to stat file", err)
	}
	if err := os.WriteFile(f.Path, data, info.Mode()); err != nil {
		if rerr := e.backupMgr.Restore(backup, f.Path); rerr != nil {
			logger.Error("failed to restore after write error", rerr, logger.String("path", f.Path))
		}
		return backup, types.NewAppError(types.ErrEdit, "failed to write file", err)
	}

	logger.Info("edits applied", logger.String("path", f.Path), logger.Int("edits", len(edits)))
	return backup, nil
}
