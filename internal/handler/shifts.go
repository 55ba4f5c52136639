package handler

import (
	"errors"
	"net/http"

	"github.com/sysu-ecnc-dev/timesheet-clash/backend/internal/clash"
	"github.com/sysu-ecnc-dev/timesheet-clash/backend/internal/domain"
	"github.com/sysu-ecnc-dev/timesheet-clash/backend/internal/extractor"
	"github.com/sysu-ecnc-dev/timesheet-clash/backend/internal/utils"
)

type entryRequest struct {
	Date          string `json:"date" validate:"required"`
	ArrivalTime   string `json:"arrivalTime" validate:"required"`
	DepartureTime string `json:"departureTime" validate:"required"`
	Description   string `json:"description" validate:"max=500"`
}

func (e entryRequest) entry() domain.ShiftEntry {
	return domain.ShiftEntry{
		Date:          e.Date,
		ArrivalTime:   e.ArrivalTime,
		DepartureTime: e.DepartureTime,
		Description:   e.Description,
	}
}

// checkedEntry 是带有实时冲突提示的待提交班次
type checkedEntry struct {
	domain.ShiftEntry
	Warnings []domain.Clash `json:"warnings"`
}

func candidateShift(owner *domain.User, teamID int64, entry domain.ShiftEntry) *domain.Shift {
	return &domain.Shift{
		OwnerID:          owner.ID,
		OwnerDisplayName: owner.FullName,
		TeamID:           teamID,
		Date:             entry.Date,
		ArrivalTime:      entry.ArrivalTime,
		DepartureTime:    entry.DepartureTime,
		HoursWorked:      entry.HoursWorked,
		Description:      entry.Description,
	}
}

// dateRange 返回条目中最早和最晚的日期，日期均为 YYYY-MM-DD，可以直接按字符串比较
func dateRange(entries []domain.ShiftEntry) (string, string, bool) {
	if len(entries) == 0 {
		return "", "", false
	}

	start, end := entries[0].Date, entries[0].Date
	for _, e := range entries[1:] {
		start = min(start, e.Date)
		end = max(end, e.Date)
	}
	return start, end, true
}

// checkEntries 把每个条目与团队中其他成员已提交的班次比较
func (h *Handler) checkEntries(me *domain.User, teamID int64, entries []domain.ShiftEntry) ([]checkedEntry, error) {
	checked := make([]checkedEntry, 0, len(entries))

	existing := make([]*domain.Shift, 0)
	if start, end, ok := dateRange(entries); ok {
		shifts, err := h.repository.ListShifts(teamID, start, end)
		if err != nil {
			return nil, err
		}
		existing = shifts
	}

	for _, entry := range entries {
		checked = append(checked, checkedEntry{
			ShiftEntry: entry,
			Warnings:   clash.CheckEntry(candidateShift(me, teamID, entry), existing),
		})
	}

	return checked, nil
}

func (h *Handler) GetShifts(w http.ResponseWriter, r *http.Request) {
	team := r.Context().Value(MyTeamCtx).(*domain.Team)

	p, err := h.resolvePeriod(r)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	shifts, err := h.repository.ListShifts(team.ID, p.StartDate, p.EndDate)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取班次成功", struct {
		Period domain.WorkingPeriod `json:"period"`
		Shifts []*domain.Shift      `json:"shifts"`
	}{
		Period: p,
		Shifts: shifts,
	})
}

func (h *Handler) CreateShifts(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	team := r.Context().Value(MyTeamCtx).(*domain.Team)

	var req struct {
		Entries []entryRequest `json:"entries" validate:"required,min=1,max=200,dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	raw := make([]domain.ShiftEntry, 0, len(req.Entries))
	for _, e := range req.Entries {
		raw = append(raw, e.entry())
	}

	entries, err := utils.NormalizeEntries(raw)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := utils.ValidateOwnEntries(entries); err != nil {
		h.badRequest(w, r, err)
		return
	}

	shifts := make([]*domain.Shift, 0, len(entries))
	for _, entry := range entries {
		shifts = append(shifts, candidateShift(myInfo, team.ID, entry))
	}

	if err := h.repository.CreateShifts(shifts); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.replaceSnapshot(team.ID, "shifts_created")

	h.successResponse(w, r, "提交班次成功", shifts)
}

func (h *Handler) ExtractShifts(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	team := r.Context().Value(MyTeamCtx).(*domain.Team)

	files, err := h.readUploads(w, r, "file", 1)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	file := files[0]

	entries, err := extractor.Extract(file.Kind, file.Data)
	if err != nil {
		switch {
		case errors.Is(err, extractor.ErrUnreadableDocument), errors.Is(err, extractor.ErrUnsupportedKind):
			h.errorResponse(w, r, err.Error())
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	checked, err := h.checkEntries(myInfo, team.ID, entries)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	msg := "解析文件成功"
	if len(entries) == 0 {
		msg = "文件中没有找到有效的班次"
	}

	h.successResponse(w, r, msg, struct {
		FileName string         `json:"fileName"`
		Entries  []checkedEntry `json:"entries"`
	}{
		FileName: file.Name,
		Entries:  checked,
	})
}

func (h *Handler) CheckShift(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	team := r.Context().Value(MyTeamCtx).(*domain.Team)

	var req entryRequest
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	entry, err := utils.NormalizeEntry(req.entry())
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	checked, err := h.checkEntries(myInfo, team.ID, []domain.ShiftEntry{entry})
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "检查完成", checked[0])
}

func (h *Handler) DeleteMyShifts(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	team := r.Context().Value(MyTeamCtx).(*domain.Team)

	deleted, err := h.repository.DeleteShifts(team.ID, myInfo.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if deleted > 0 {
		h.replaceSnapshot(team.ID, "shifts_deleted")
	}

	h.successResponse(w, r, "删除班次成功", struct {
		Deleted int64 `json:"deleted"`
	}{
		Deleted: deleted,
	})
}
