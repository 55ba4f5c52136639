package extractor

import (
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

var (
	utf8BOM    = []byte{0xEF, 0xBB, 0xBF}
	utf16LEBOM = []byte{0xFF, 0xFE}
	utf16BEBOM = []byte{0xFE, 0xFF}
)

// decodeText 按 BOM 识别 UTF-8 / UTF-16，没有 BOM 时按 UTF-8 处理，并去掉 BOM 本身。
// UTF-8 按原始字节校验，文本中本来就有的 U+FFFD 不影响判断
func decodeText(r io.Reader) (string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadableDocument, err)
	}

	if bytes.HasPrefix(raw, utf16LEBOM) || bytes.HasPrefix(raw, utf16BEBOM) {
		if len(raw)%2 != 0 {
			return "", fmt.Errorf("%w: UTF-16 文件不完整", ErrUnreadableDocument)
		}
		decoded, err := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder().Bytes(raw)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrUnreadableDocument, err)
		}
		return string(decoded), nil
	}

	raw = bytes.TrimPrefix(raw, utf8BOM)
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("%w: 文件编码无法识别", ErrUnreadableDocument)
	}

	return string(raw), nil
}
