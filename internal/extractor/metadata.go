package extractor

import (
	"strings"
	"unicode"

	"github.com/sysu-ecnc-dev/timesheet-clash/backend/internal/domain"
)

// 标签按优先级排列，先找到的优先级高的标签生效
var (
	nameLabels     = []string{"NAME OF STUDENT", "STUDENT NAME", "NAME"}
	positionLabels = []string{"POSITION", "ROLE", "TITLE", "JOB"}

	// 其他字段的标签，取值遇到它们即截断
	otherFieldLabels = []string{
		"DATE", "ID", "STUDENT ID", "STUDENT NUMBER", "EMPLOYEE ID", "DEPARTMENT", "DEPT",
		"SUPERVISOR", "EMAIL", "PHONE", "PERIOD", "PAY PERIOD", "HOURS", "TOTAL HOURS",
		"SIGNATURE", "ARRIVAL", "DEPARTURE", "ARRIVAL TIME", "DEPARTURE TIME", "TIME IN", "TIME OUT",
	}
)

type scanToken struct {
	key        string // 大写并去掉首尾标点后的单词，换行记号为 "\n"
	start, end int
}

// scanner 对文本只做一次切分，之后每个字段独立执行“找标签、取值到停止标签为止”
type scanner struct {
	text   string
	tokens []scanToken
	stops  [][]string
	fields map[string]bool
}

func newScanner(text string) *scanner {
	s := &scanner{
		text:   text,
		fields: make(map[string]bool),
	}

	labels := make([]string, 0, len(nameLabels)+len(positionLabels)+len(otherFieldLabels))
	labels = append(labels, nameLabels...)
	labels = append(labels, positionLabels...)
	labels = append(labels, otherFieldLabels...)
	for _, l := range labels {
		s.stops = append(s.stops, strings.Fields(l))
		s.fields[l] = true
	}

	s.tokenize()
	return s
}

func (s *scanner) tokenize() {
	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		key := strings.ToUpper(strings.TrimFunc(s.text[start:end], isTrimmable))
		if key != "" {
			s.tokens = append(s.tokens, scanToken{key: key, start: start, end: end})
		}
		start = -1
	}

	for i, r := range s.text {
		switch {
		case r == '\n' || r == '\r':
			flush(i)
			s.tokens = append(s.tokens, scanToken{key: "\n", start: i, end: i + 1})
		case unicode.IsSpace(r) || r == ':':
			flush(i)
		default:
			if start < 0 {
				start = i
			}
		}
	}
	flush(len(s.text))
}

// matchAt 判断从第 i 个记号开始是否正好是 label 的各个单词
func (s *scanner) matchAt(i int, label []string) bool {
	if i+len(label) > len(s.tokens) {
		return false
	}
	for k, word := range label {
		if s.tokens[i+k].key != word {
			return false
		}
	}
	return true
}

func (s *scanner) isStop(i int) bool {
	if s.tokens[i].key == "\n" {
		return true
	}
	for _, stop := range s.stops {
		if s.matchAt(i, stop) {
			return true
		}
	}
	return false
}

// find 依次尝试每个标签，取第一个出现的标签之后、下一个停止标签或换行之前的文本
func (s *scanner) find(labels []string) (string, bool) {
	for _, label := range labels {
		words := strings.Fields(label)
		for i := range s.tokens {
			if !s.matchAt(i, words) {
				continue
			}

			valueStart := s.tokens[i+len(words)-1].end
			valueEnd := len(s.text)
			for j := i + len(words); j < len(s.tokens); j++ {
				if s.isStop(j) {
					valueEnd = s.tokens[j].start
					break
				}
			}

			value := strings.TrimFunc(s.text[valueStart:valueEnd], isTrimmable)
			value = strings.Join(strings.Fields(value), " ")
			if value == "" || s.fields[strings.ToUpper(value)] {
				return "", false
			}
			return value, true
		}
	}
	return "", false
}

func isTrimmable(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r)
}

// ExtractWorker 从文档文本中提取员工姓名与职位，提取失败时保留默认值
func ExtractWorker(text string) domain.WorkerMetadata {
	worker := domain.DefaultWorkerMetadata()
	s := newScanner(text)

	if name, ok := s.find(nameLabels); ok {
		worker.DisplayName = name
	}
	if position, ok := s.find(positionLabels); ok {
		worker.Position = position
	}

	return worker
}
