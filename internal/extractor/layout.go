package extractor

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"unicode/utf8"
)

// 纵坐标相差不超过该值的文本片段视为同一行
const lineTolerance = 5.0

// Fragment 是页面中带坐标的一段文本，Y 轴向上为正（PDF 坐标系）
type Fragment struct {
	X, Y     float64
	W        float64 // 宽度未知时为 0
	FontSize float64
	Text     string
}

// ReadingOrder 按照从上到下、从左到右的顺序重建页面文本，行与行之间用换行分隔
func ReadingOrder(frags []Fragment) string {
	if len(frags) == 0 {
		return ""
	}

	sorted := slices.Clone(frags)
	slices.SortStableFunc(sorted, func(a, b Fragment) int {
		if c := cmp.Compare(b.Y, a.Y); c != 0 {
			return c
		}
		return cmp.Compare(a.X, b.X)
	})

	var lines [][]Fragment
	lineY := math.Inf(1)
	for _, f := range sorted {
		if len(lines) == 0 || math.Abs(lineY-f.Y) > lineTolerance {
			lines = append(lines, []Fragment{f})
			lineY = f.Y
			continue
		}
		lines[len(lines)-1] = append(lines[len(lines)-1], f)
	}

	out := make([]string, 0, len(lines))
	for _, line := range lines {
		slices.SortStableFunc(line, func(a, b Fragment) int {
			return cmp.Compare(a.X, b.X)
		})
		if text := joinLine(line); text != "" {
			out = append(out, text)
		}
	}

	return strings.Join(out, "\n")
}

// joinLine 拼接同一行的片段：间距很小的片段（通常是逐字形输出）直接相连，否则插入空格
func joinLine(line []Fragment) string {
	var sb strings.Builder
	for i, f := range line {
		if i > 0 && needsSpace(line[i-1], f) {
			sb.WriteByte(' ')
		}
		sb.WriteString(f.Text)
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

// needsSpace 判断相邻两个片段之间是否隔着词间距。
// 字体没有 /Widths 时字宽为 0，此时按字号估算字形宽度；字号也未知时总是插入空格
func needsSpace(prev, next Fragment) bool {
	if prev.W > 0 {
		return next.X-(prev.X+prev.W) > spaceThreshold(prev)
	}
	if prev.FontSize <= 0 {
		return true
	}

	width := estimatedAdvance * prev.FontSize * float64(utf8.RuneCountInString(prev.Text))
	return next.X-(prev.X+width) > max(1.0, prev.FontSize*0.35)
}

// 字宽未知时每个字形按 0.5 倍字号估算
const estimatedAdvance = 0.5

func spaceThreshold(f Fragment) float64 {
	return max(1.0, f.FontSize*0.2)
}
