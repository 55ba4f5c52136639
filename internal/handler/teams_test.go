package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysu-ecnc-dev/timesheet-clash/backend/internal/domain"
)

func TestCreateAndJoinTeam(t *testing.T) {
	env := newTestEnv(t)
	owner := env.addUser(t, "sarah", "Sarah Jenkins")
	member := env.addUser(t, "mike", "Mike Ross")

	_, res := env.doJSON(t, http.MethodPost, "/teams", map[string]string{"name": "Front desk"}, owner)
	require.True(t, res.Success, res.Message)
	team := decodeData[domain.Team](t, res)
	assert.Len(t, team.InviteCode, 8)

	stored, err := env.repo.GetUserByID(owner.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleManager, stored.Role)
	require.NotNil(t, stored.TeamID)
	assert.Equal(t, team.ID, *stored.TeamID)

	// 已经在团队中的人不能再创建团队
	_, res = env.doJSON(t, http.MethodPost, "/teams", map[string]string{"name": "Second"}, owner)
	assert.False(t, res.Success)

	_, res = env.doJSON(t, http.MethodPost, "/teams/join", map[string]string{"inviteCode": "NOPE1234"}, member)
	assert.False(t, res.Success)
	assert.Equal(t, "邀请码无效", res.Message)

	_, res = env.doJSON(t, http.MethodPost, "/teams/join", map[string]string{"inviteCode": team.InviteCode}, member)
	require.True(t, res.Success, res.Message)

	mails := env.mailer.sent()
	require.Len(t, mails, 1)
	assert.Equal(t, "welcome", mails[0].Type)
	assert.Equal(t, "mike@example.com", mails[0].To)

	_, res = env.doJSON(t, http.MethodGet, "/teams/mine", nil, member)
	require.True(t, res.Success, res.Message)
	mine := decodeData[domain.Team](t, res)
	require.Len(t, mine.Members, 2)
	assert.Equal(t, "Sarah Jenkins", mine.Members[0].FullName)
	assert.Equal(t, "Mike Ross", mine.Members[1].FullName)
}

func TestTeamRoutesRequireMembership(t *testing.T) {
	env := newTestEnv(t)
	loner := env.addUser(t, "loner", "Lonely")

	for _, path := range []string{"/teams/mine", "/shifts", "/clashes"} {
		_, res := env.doJSON(t, http.MethodGet, path, nil, loner)
		assert.False(t, res.Success, path)
		assert.Equal(t, "您尚未加入任何团队", res.Message, path)
	}
}

func TestGetPeriods(t *testing.T) {
	env := newTestEnv(t)

	_, res := env.doJSON(t, http.MethodGet, "/periods?year=2025&count=3", nil, nil)
	require.True(t, res.Success, res.Message)
	periods := decodeData[[]domain.WorkingPeriod](t, res)
	require.Len(t, periods, 3)
	assert.Equal(t, "2025-01-26", periods[0].StartDate)
	assert.Equal(t, "Jan 26 – Feb 26", periods[0].Label)
	assert.Equal(t, "2025-02-27", periods[1].StartDate)

	_, res = env.doJSON(t, http.MethodGet, "/periods", nil, nil)
	require.True(t, res.Success)
	assert.Len(t, decodeData[[]domain.WorkingPeriod](t, res), 12)

	_, res = env.doJSON(t, http.MethodGet, "/periods?count=0", nil, nil)
	assert.False(t, res.Success)

	_, res = env.doJSON(t, http.MethodGet, "/periods?year=abc", nil, nil)
	assert.False(t, res.Success)
	assert.Equal(t, "年份无效", res.Message)
}
