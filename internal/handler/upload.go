package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/sysu-ecnc-dev/timesheet-clash/backend/internal/extractor"
)

var errNoUpload = errors.New("请选择要上传的文件")

// readUploads 读取 multipart 表单中 field 字段的全部文件，返回的错误信息可以直接展示给用户
func (h *Handler) readUploads(w http.ResponseWriter, r *http.Request, field string, maxFiles int) ([]extractor.File, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.config.Upload.MaxSize)
	if err := r.ParseMultipartForm(h.config.Upload.MaxSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("上传的文件总大小不能超过 %d 字节", maxErr.Limit)
		}
		return nil, errors.New("无法解析上传的文件")
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	headers := r.MultipartForm.File[field]
	if len(headers) == 0 {
		return nil, errNoUpload
	}
	if len(headers) > maxFiles {
		return nil, fmt.Errorf("一次最多上传 %d 个文件", maxFiles)
	}

	files := make([]extractor.File, 0, len(headers))
	for _, fh := range headers {
		kind, err := extractor.KindFromFilename(fh.Filename)
		if err != nil {
			return nil, fmt.Errorf("文件 %s: %w", fh.Filename, err)
		}

		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("文件 %s: %w", fh.Filename, extractor.ErrUnreadableDocument)
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("文件 %s: %w", fh.Filename, extractor.ErrUnreadableDocument)
		}

		files = append(files, extractor.File{
			Name: fh.Filename,
			Kind: kind,
			Data: data,
		})
	}

	return files, nil
}
