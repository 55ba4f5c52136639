// Package extractor 把上传的 CSV / PDF 考勤表转换为规范化的班次条目
package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sysu-ecnc-dev/timesheet-clash/backend/internal/domain"
)

type Kind string

const (
	KindCSV Kind = "csv"
	KindPDF Kind = "pdf"
)

var (
	ErrUnsupportedKind    = errors.New("不支持的文件类型，仅支持 CSV 和 PDF")
	ErrUnreadableDocument = errors.New("文件已损坏或无法读取")
)

// File 是一次上传中的单个文件
type File struct {
	Name string
	Kind Kind
	Data []byte
}

func KindFromFilename(name string) (Kind, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return KindCSV, nil
	case ".pdf":
		return KindPDF, nil
	default:
		return "", ErrUnsupportedKind
	}
}

// Extract 解析单个员工的考勤表。整个文件无法读取时返回错误且不返回任何条目
func Extract(kind Kind, data []byte) ([]domain.ShiftEntry, error) {
	switch kind {
	case KindCSV:
		return ParseTabular(bytes.NewReader(data))
	case KindPDF:
		text, err := ExtractPDFText(data)
		if err != nil {
			return nil, err
		}
		return ExtractEntries(text), nil
	default:
		return nil, ErrUnsupportedKind
	}
}

// ExtractDocument 解析批量模式中的单个文件，同时提取员工信息。
// CSV 没有自由文本，员工信息保持默认值
func ExtractDocument(f File) (*domain.BatchResult, error) {
	result := &domain.BatchResult{
		FileName: f.Name,
		Worker:   domain.DefaultWorkerMetadata(),
	}

	switch f.Kind {
	case KindCSV:
		entries, err := ParseTabular(bytes.NewReader(f.Data))
		if err != nil {
			return nil, err
		}
		result.Entries = entries
	case KindPDF:
		text, err := ExtractPDFText(f.Data)
		if err != nil {
			return nil, err
		}
		result.Worker = ExtractWorker(text)
		result.Entries = ExtractEntries(text)
	default:
		return nil, ErrUnsupportedKind
	}

	return result, nil
}

// ExtractBatch 依次解析每个文件，遇到第一个无法读取的文件即停止并返回错误
func ExtractBatch(files []File) ([]*domain.BatchResult, error) {
	results := make([]*domain.BatchResult, 0, len(files))
	for _, f := range files {
		res, err := ExtractDocument(f)
		if err != nil {
			return nil, fmt.Errorf("处理文件 %s 失败: %w", f.Name, err)
		}
		results = append(results, res)
	}
	return results, nil
}
