package extractor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractPDFText 逐页提取 PDF 文本，页内按阅读顺序重建，页与页之间以换行连接
func ExtractPDFText(data []byte) (text string, err error) {
	// pdf 库在遇到损坏的内容流时会 panic，这里统一转换为错误
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: %v", ErrUnreadableDocument, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadableDocument, err)
	}

	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		content := page.Content()
		frags := make([]Fragment, 0, len(content.Text))
		for _, t := range content.Text {
			frags = append(frags, Fragment{
				X:        t.X,
				Y:        t.Y,
				W:        t.W,
				FontSize: t.FontSize,
				Text:     t.S,
			})
		}
		pages = append(pages, ReadingOrder(frags))
	}

	return strings.Join(pages, "\n"), nil
}
