package source

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"fortio.org/safecast"

	"latex-insight/internal/logger"
	"latex-insight/internal/syntax"
	"latex-insight/internal/types"
)

// LineCol is a human-readable position. Columns count characters, not bytes.
type LineCol struct {
	Line uint32 `json:"line"` // 1-based
	Col  uint32 `json:"col"`  // 1-based
}

func (lc LineCol) String() string { return fmt.Sprintf("%d:%d", lc.Line, lc.Col) }

// File is a decoded source file. Text is always UTF-8; Encoding records
// what the file on disk uses so edits can be written back the same way.
type File struct {
	Path     string
	Encoding Encoding
	Text     string
	Hash     [32]byte
	Lines    *LineIndex
}

// Load reads and decodes the file at path.
func Load(path string) (*File, error) {
	// #nosec G304 -- path is provided by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, types.NewAppError(types.ErrFileNotFound, "source file not found", err)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	enc := DetectEncoding(data)
	if enc == EncodingUnknown {
		return nil, types.NewAppErrorWithDetails(types.ErrEncoding, "cannot detect file encoding", path, nil)
	}
	text, err := Decode(data, enc)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded source file", logger.String("path", path), logger.String("encoding", string(enc)))
	return newFile(path, text, enc)
}

// FromString wraps in-memory UTF-8 text, e.g. stdin or test input.
func FromString(name, text string) (*File, error) {
	return newFile(name, text, EncodingUTF8)
}

func newFile(path, text string, enc Encoding) (*File, error) {
	idx, err := NewLineIndex(text)
	if err != nil {
		return nil, err
	}
	return &File{
		Path:     filepath.ToSlash(filepath.Clean(path)),
		Encoding: enc,
		Text:     text,
		Hash:     sha256.Sum256([]byte(text)),
		Lines:    idx,
	}, nil
}

// Document parses the file.
func (f *File) Document() *syntax.Document {
	doc := syntax.Parse(f.Text)
	doc.Path = f.Path
	return doc
}

// Position converts a byte offset into the text to a line/column.
func (f *File) Position(offset int) LineCol {
	return f.Lines.Position(offset)
}

// LineIndex records where each line of a text ends.
type LineIndex struct {
	text     string
	newlines []uint32
}

// NewLineIndex indexes text. Texts larger than 4 GiB are rejected.
func NewLineIndex(text string) (*LineIndex, error) {
	if _, err := safecast.Conv[uint32](len(text)); err != nil {
		return nil, types.NewAppError(types.ErrInvalidInput, "source too large", err)
	}
	idx := &LineIndex{text: text}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			idx.newlines = append(idx.newlines, uint32(i)) // #nosec G115 -- bounded by the check above
		}
	}
	return idx, nil
}

// Lines returns the number of lines.
func (idx *LineIndex) Lines() int {
	return len(idx.newlines) + 1
}

// Position converts a byte offset to a line/column. Offsets are clamped to
// the text.
func (idx *LineIndex) Position(offset int) LineCol {
	if offset < 0 {
		offset = 0
	}
	if offset > len(idx.text) {
		offset = len(idx.text)
	}
	off, _ := safecast.Conv[uint32](offset)

	// largest newline index below off
	lo, hi := 0, len(idx.newlines)-1
	for lo <= hi {
		mid := (lo + hi) >> 1
		if idx.newlines[mid] < off {
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	line := hi + 1 // 0-based
	var start uint32
	if hi >= 0 {
		start = idx.newlines[hi] + 1
	}
	col, _ := safecast.Conv[uint32](utf8.RuneCountInString(idx.text[start:off]))
	lineNo, _ := safecast.Conv[uint32](line + 1)
	return LineCol{Line: lineNo, Col: col + 1}
}

// Line returns the text of the 1-based line n without its terminator, or
// "" when n is out of range.
func (idx *LineIndex) Line(n int) string {
	if n < 1 || n > idx.Lines() {
		return ""
	}
	start := 0
	if n > 1 {
		start = int(idx.newlines[n-2]) + 1
	}
	end := len(idx.text)
	if n-1 < len(idx.newlines) {
		end = int(idx.newlines[n-1])
	}
	return strings.TrimSuffix(idx.text[start:end], "\r")
}

// Offset converts a 1-based line/column back to a byte offset. It returns
// false for positions outside the text.
func (idx *LineIndex) Offset(lc LineCol) (int, bool) {
	if lc.Line < 1 || int(lc.Line) > idx.Lines() || lc.Col < 1 {
		return 0, false
	}
	start := 0
	if lc.Line > 1 {
		start = int(idx.newlines[lc.Line-2]) + 1
	}
	col := uint32(1)
	for i := range idx.text[start:] {
		if col == lc.Col {
			return start + i, true
		}
		if idx.text[start+i] == '\n' {
			return 0, false
		}
		col++
	}
	if col == lc.Col {
		return len(idx.text), true
	}
	return 0, false
}
