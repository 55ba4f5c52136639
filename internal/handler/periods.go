package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/sysu-ecnc-dev/timesheet-clash/backend/internal/domain"
	"github.com/sysu-ecnc-dev/timesheet-clash/backend/internal/period"
	"github.com/sysu-ecnc-dev/timesheet-clash/backend/internal/timeutil"
)

func (h *Handler) GetPeriods(w http.ResponseWriter, r *http.Request) {
	year := h.config.Period.StartYear
	count := h.config.Period.Count

	if v := r.URL.Query().Get("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			h.errorResponse(w, r, "年份无效")
			return
		}
		if err := h.validate.Var(n, "min=2000,max=2100"); err != nil {
			h.badRequest(w, r, err)
			return
		}
		year = n
	}
	if v := r.URL.Query().Get("count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			h.errorResponse(w, r, "数量无效")
			return
		}
		if err := h.validate.Var(n, "min=1,max=60"); err != nil {
			h.badRequest(w, r, err)
			return
		}
		count = n
	}

	h.successResponse(w, r, "获取工作周期成功", period.Generate(count, year))
}

// resolvePeriod 解析 ?period= 参数，未指定时取包含今天的周期，今天不在任何周期内时取第一个
func (h *Handler) resolvePeriod(r *http.Request) (domain.WorkingPeriod, error) {
	if id := r.URL.Query().Get("period"); id != "" {
		if p, ok := period.Find(h.periods, id); ok {
			return p, nil
		}
		if p, ok := period.ParseID(id); ok {
			return p, nil
		}
		return domain.WorkingPeriod{}, errors.New("工作周期不存在")
	}

	if p, ok := period.ForDate(h.periods, h.now().Format(timeutil.DateLayout)); ok {
		return p, nil
	}
	if len(h.periods) == 0 {
		return domain.WorkingPeriod{}, errors.New("没有可用的工作周期")
	}
	return h.periods[0], nil
}
