package mailer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysu-ecnc-dev/timesheet-clash/backend/internal/domain"
)

func encode(t *testing.T, msg domain.MailMessage) []byte {
	t.Helper()

	body, err := json.Marshal(msg)
	require.NoError(t, err)
	return body
}

func TestRenderClashReport(t *testing.T) {
	m, err := Decode(encode(t, domain.MailMessage{
		Type: "clash_report",
		To:   "mike@example.com",
		Data: domain.ClashReportMailData{
			FullName:    "Mike <Ross>",
			PeriodLabel: "Jan 26 – Feb 26",
			Messages:    []string{"On Feb 1, 2024: Sarah (9:00 AM - 5:00 PM) overlaps with Mike (4:00 PM - 6:00 PM)"},
		},
	}))
	require.NoError(t, err)
	assert.Equal(t, "mike@example.com", m.To)

	subject, body, err := Render(m)
	require.NoError(t, err)
	assert.Equal(t, "考勤冲突检查 - 班次冲突提醒", subject)
	assert.Contains(t, body, "Mike &lt;Ross&gt;")
	assert.Contains(t, body, "Jan 26 – Feb 26")
	assert.Contains(t, body, "<li>On Feb 1, 2024: Sarah")
}

func TestRenderResetPassword(t *testing.T) {
	m, err := Decode(encode(t, domain.MailMessage{
		Type: "reset_password",
		To:   "sarah@example.com",
		Data: domain.ResetPasswordMailData{FullName: "Sarah", OTP: "123456", Expiration: 15},
	}))
	require.NoError(t, err)

	_, body, err := Render(m)
	require.NoError(t, err)
	assert.Contains(t, body, "123456")
	assert.Contains(t, body, "15 分钟")
}

func TestRenderWelcome(t *testing.T) {
	m, err := Decode(encode(t, domain.MailMessage{
		Type: "welcome",
		To:   "sarah@example.com",
		Data: domain.WelcomeMailData{FullName: "Sarah", TeamName: "前台"},
	}))
	require.NoError(t, err)

	_, body, err := Render(m)
	require.NoError(t, err)
	assert.Contains(t, body, "前台")
}

func TestRenderErrors(t *testing.T) {
	_, err := Decode([]byte(`{"type":"welcome"}`))
	assert.Error(t, err)

	_, err = Decode([]byte(`not json`))
	assert.Error(t, err)

	_, _, err = Render(&Message{Type: "create_user", To: "a@b.c", Data: json.RawMessage(`{}`)})
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, _, err = Render(&Message{Type: "welcome", To: "a@b.c", Data: json.RawMessage(`[1,2]`)})
	assert.Error(t, err)
}
