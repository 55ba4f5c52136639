package handler

import (
	"errors"
	"net/http"

	"github.com/sysu-ecnc-dev/timesheet-clash/backend/internal/clash"
	"github.com/sysu-ecnc-dev/timesheet-clash/backend/internal/domain"
	"github.com/sysu-ecnc-dev/timesheet-clash/backend/internal/extractor"
)

// CompareBatch 交叉比较一批考勤表，每个文件视为一名员工，结果不会持久化
func (h *Handler) CompareBatch(w http.ResponseWriter, r *http.Request) {
	files, err := h.readUploads(w, r, "files", h.config.Upload.MaxFiles)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	results, err := extractor.ExtractBatch(files)
	if err != nil {
		switch {
		case errors.Is(err, extractor.ErrUnreadableDocument), errors.Is(err, extractor.ErrUnsupportedKind):
			h.errorResponse(w, r, err.Error())
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "批量比较完成", struct {
		Results []*domain.BatchResult `json:"results"`
		Clashes []domain.Clash        `json:"clashes"`
	}{
		Results: results,
		Clashes: clash.CompareBatch(results),
	})
}
