package handler

import (
	"net/http"

	"github.com/sysu-ecnc-dev/timesheet-clash/backend/internal/clash"
	"github.com/sysu-ecnc-dev/timesheet-clash/backend/internal/domain"
	"golang.org/x/sync/errgroup"
)

func (h *Handler) GetClashes(w http.ResponseWriter, r *http.Request) {
	team := r.Context().Value(MyTeamCtx).(*domain.Team)

	p, err := h.resolvePeriod(r)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	snap, err := h.loadSnapshot(r.Context(), team.ID, p)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	report := clash.Report(snap)

	msg := "比较完成"
	if !report.Ready {
		msg = "至少需要两名成员提交班次后才能比较"
	}
	h.successResponse(w, r, msg, report)
}

// NotifyClashes 给每个卷入冲突的成员发送一封冲突汇总邮件
func (h *Handler) NotifyClashes(w http.ResponseWriter, r *http.Request) {
	team := r.Context().Value(MyTeamCtx).(*domain.Team)

	p, err := h.resolvePeriod(r)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	var (
		snap    clash.Snapshot
		members []*domain.User
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		snap, err = h.loadSnapshot(ctx, team.ID, p)
		return err
	})
	g.Go(func() error {
		var err error
		members, err = h.repository.GetUsersByTeamID(team.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	report := clash.Report(snap)
	if !report.Ready {
		h.errorResponse(w, r, "至少需要两名成员提交班次后才能比较")
		return
	}

	owners := make(map[int64]int64, len(snap.Shifts)) // shiftID -> ownerID
	for _, s := range snap.Shifts {
		owners[s.ID] = s.OwnerID
	}

	messages := make(map[int64][]string)
	for _, c := range report.Clashes {
		subject := owners[c.SubjectEntryID]
		counterpart := owners[c.CounterpartEntryID]
		messages[subject] = append(messages[subject], c.Message)
		messages[counterpart] = append(messages[counterpart], c.Message)
	}

	notified := 0
	for _, member := range members {
		if len(messages[member.ID]) == 0 {
			continue
		}

		if err := h.publishMail(domain.MailMessage{
			Type: "clash_report",
			To:   member.Email,
			Data: domain.ClashReportMailData{
				FullName:    member.FullName,
				PeriodLabel: p.Label,
				Messages:    messages[member.ID],
			},
		}); err != nil {
			h.internalServerError(w, r, err)
			return
		}
		notified++
	}

	h.successResponse(w, r, "冲突通知已通过邮件发送", struct {
		Clashes  int `json:"clashes"`
		Notified int `json:"notified"`
	}{
		Clashes:  len(report.Clashes),
		Notified: notified,
	})
}
