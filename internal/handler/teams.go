package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/timesheet-clash/backend/internal/domain"
	"github.com/sysu-ecnc-dev/timesheet-clash/backend/internal/utils"
)

// 邀请码冲突时重新生成的次数上限
const inviteCodeAttempts = 3

func (h *Handler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var req struct {
		Name string `json:"name" validate:"required,max=64"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if myInfo.TeamID != nil {
		h.errorResponse(w, r, "您已经加入了一个团队")
		return
	}

	team := &domain.Team{
		Name:      strings.TrimSpace(req.Name),
		CreatedBy: myInfo.ID,
	}

	for attempt := 1; ; attempt++ {
		team.InviteCode = utils.GenerateInviteCode(h.config.Team.InviteCodeLength)

		err := h.repository.CreateTeam(team, myInfo)
		if err == nil {
			break
		}

		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "teams_invite_code_key" && attempt < inviteCodeAttempts:
			continue
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "创建团队失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "创建团队成功", team)
}

func (h *Handler) JoinTeam(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var req struct {
		InviteCode string `json:"inviteCode" validate:"required,alphanum"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if myInfo.TeamID != nil {
		h.errorResponse(w, r, "您已经加入了一个团队")
		return
	}

	team, err := h.repository.GetTeamByInviteCode(strings.ToUpper(req.InviteCode))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "邀请码无效")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	myInfo.TeamID = &team.ID
	myInfo.Role = domain.RoleMember
	if err := h.repository.UpdateUser(myInfo); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "加入团队失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// 已经加入成功，欢迎邮件投递失败只记录日志
	if err := h.publishMail(domain.MailMessage{
		Type: "welcome",
		To:   myInfo.Email,
		Data: domain.WelcomeMailData{
			FullName: myInfo.FullName,
			TeamName: team.Name,
		},
	}); err != nil {
		slog.Warn("投递欢迎邮件失败", "user", myInfo.ID, "team", team.ID, "error", err)
	}

	h.successResponse(w, r, "加入团队成功", team)
}

func (h *Handler) GetMyTeam(w http.ResponseWriter, r *http.Request) {
	team := r.Context().Value(MyTeamCtx).(*domain.Team)

	members, err := h.repository.GetUsersByTeamID(team.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	team.Members = members

	h.successResponse(w, r, "获取团队信息成功", team)
}
