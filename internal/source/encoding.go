// Package source loads LaTeX source files and maps byte offsets to
// line/column positions.
package source

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"

	"latex-insight/internal/logger"
	"latex-insight/internal/types"
)

// Encoding names a file encoding.
type Encoding string

const (
	EncodingUTF8    Encoding = "UTF-8"
	EncodingUTF8BOM Encoding = "UTF-8-BOM"
	EncodingGBK     Encoding = "GBK"
	EncodingUTF16LE Encoding = "UTF-16LE"
	EncodingUTF16BE Encoding = "UTF-16BE"
	EncodingUnknown Encoding = "UNKNOWN"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DetectEncoding detects the encoding of data from its BOM, falling back to
// UTF-8 validation and a GBK trial decode.
func DetectEncoding(data []byte) Encoding {
	switch {
	case bytes.HasPrefix(data, utf8BOM):
		return EncodingUTF8BOM
	case bytes.HasPrefix(data, []byte{0xFF, 0xFE}):
		return EncodingUTF16LE
	case bytes.HasPrefix(data, []byte{0xFE, 0xFF}):
		return EncodingUTF16BE
	case utf8.Valid(data):
		return EncodingUTF8
	case isValidGBK(data):
		return EncodingGBK
	}
	logger.Warn("unknown encoding detected", logger.Int("bytes", len(data)))
	return EncodingUnknown
}

// isValidGBK checks if data is valid GBK encoding
func isValidGBK(data []byte) bool {
	decoded, err := simplifiedchinese.GBK.NewDecoder().Bytes(data)
	if err != nil {
		return false
	}
	return utf8.Valid(decoded) && !bytes.ContainsRune(decoded, utf8.RuneError)
}

// Decode converts data in enc to a UTF-8 string without BOM.
func Decode(data []byte, enc Encoding) (string, error) {
	var (
		decoded []byte
		err     error
	)
	switch enc {
	case EncodingUTF8:
		decoded = data
	case EncodingUTF8BOM:
		decoded = bytes.TrimPrefix(data, utf8BOM)
	case EncodingGBK:
		decoded, err = simplifiedchinese.GBK.NewDecoder().Bytes(data)
	case EncodingUTF16LE:
		decoded, err = unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder().Bytes(data)
	case EncodingUTF16BE:
		decoded, err = unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder().Bytes(data)
	default:
		return "", types.NewAppErrorWithDetails(types.ErrEncoding, "unsupported encoding", string(enc), nil)
	}
	if err != nil {
		return "", types.NewAppError(types.ErrEncoding, fmt.Sprintf("failed to decode %s", enc), err)
	}
	return string(decoded), nil
}

// Encode converts UTF-8 text back to enc, restoring a BOM where enc has one.
func Encode(text string, enc Encoding) ([]byte, error) {
	var (
		encoded []byte
		err     error
	)
	switch enc {
	case EncodingUTF8:
		encoded = []byte(text)
	case EncodingUTF8BOM:
		encoded = append(append([]byte{}, utf8BOM...), text...)
	case EncodingGBK:
		encoded, err = simplifiedchinese.GBK.NewEncoder().Bytes([]byte(text))
	case EncodingUTF16LE:
		encoded, err = unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(text))
	case EncodingUTF16BE:
		encoded, err = unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(text))
	default:
		return nil, types.NewAppErrorWithDetails(types.ErrEncoding, "unsupported encoding", string(enc), nil)
	}
	if err != nil {
		return nil, types.NewAppError(types.ErrEncoding, fmt.Sprintf("failed to encode to %s", enc), err)
	}
	return encoded, nil
}

// ParseEncoding accepts the names returned by DetectEncoding, case-insensitively.
func ParseEncoding(name string) (Encoding, bool) {
	for _, e := range []Encoding{EncodingUTF8, EncodingUTF8BOM, EncodingGBK, EncodingUTF16LE, EncodingUTF16BE} {
		if strings.EqualFold(string(e), name) {
			return e, true
		}
	}
	return EncodingUnknown, false
}
