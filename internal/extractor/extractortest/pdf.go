// Package extractortest 生成测试用的最小 PDF 文档
package extractortest

import (
	"bytes"
	"fmt"
	"strings"
)

// Line 是页面上用一个 Tj 输出的一行文本
type Line struct {
	X, Y float64
	Text string
}

// FontSize 是生成文档使用的字号
const FontSize = 12

// PDF 生成一个每页若干行文本的 PDF，字体为 Helvetica + WinAnsiEncoding。
// withWidths 为 false 时字体字典不带 /Widths，解析出的每个字形宽度为 0
func PDF(pages [][]Line, withWidths bool) []byte {
	var objects []string

	// 1: Catalog, 2: Pages, 3: Font，之后每页占两个对象：Page 和 Contents
	kids := make([]string, 0, len(pages))
	for i := range pages {
		kids = append(kids, fmt.Sprintf("%d 0 R", 4+2*i))
	}
	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)),
		font(withWidths),
	)

	for i, lines := range pages {
		var content strings.Builder
		for _, l := range lines {
			fmt.Fprintf(&content, "BT /F1 %d Tf %.2f %.2f Td (%s) Tj ET\n", FontSize, l.X, l.Y, escape(l.Text))
		}
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", content.Len(), content.String()),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, 0, len(objects))
	for i, obj := range objects {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	return buf.Bytes()
}

func font(withWidths bool) string {
	if !withWidths {
		return "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>"
	}

	widths := make([]string, 0, 95)
	for code := 32; code <= 126; code++ {
		w := 556
		switch {
		case code == ' ':
			w = 278
		case code >= 'A' && code <= 'Z':
			w = 667
		}
		widths = append(widths, fmt.Sprint(w))
	}
	return fmt.Sprintf("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding /FirstChar 32 /LastChar 126 /Widths [%s] >>",
		strings.Join(widths, " "))
}

func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}
