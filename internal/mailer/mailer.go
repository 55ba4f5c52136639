// Package mailer 把消息队列中的邮件任务渲染为邮件主题和 HTML 正文
package mailer

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"

	"github.com/sysu-ecnc-dev/timesheet-clash/backend/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

var ErrUnsupportedType = errors.New("不支持的邮件类型")

// Message 与 domain.MailMessage 对应，Data 保留原始 JSON，按类型再解码
type Message struct {
	Type string          `json:"type"`
	To   string          `json:"to"`
	Data json.RawMessage `json:"data"`
}

func Decode(body []byte) (*Message, error) {
	m := &Message{}
	if err := json.Unmarshal(body, m); err != nil {
		return nil, err
	}
	if m.To == "" {
		return nil, errors.New("邮件缺少收件人")
	}
	return m, nil
}

type kind struct {
	subject  string
	template string
	data     func() any
}

var kinds = map[string]kind{
	"reset_password": {
		subject:  "考勤冲突检查 - 重置密码",
		template: "reset_password.html",
		data:     func() any { return &domain.ResetPasswordMailData{} },
	},
	"welcome": {
		subject:  "考勤冲突检查 - 欢迎加入团队",
		template: "welcome.html",
		data:     func() any { return &domain.WelcomeMailData{} },
	},
	"clash_report": {
		subject:  "考勤冲突检查 - 班次冲突提醒",
		template: "clash_report.html",
		data:     func() any { return &domain.ClashReportMailData{} },
	},
}

// Render 返回邮件主题和 HTML 正文
func Render(m *Message) (string, string, error) {
	k, ok := kinds[m.Type]
	if !ok {
		return "", "", fmt.Errorf("%w: %s", ErrUnsupportedType, m.Type)
	}

	data := k.data()
	if err := json.Unmarshal(m.Data, data); err != nil {
		return "", "", fmt.Errorf("邮件数据格式错误: %w", err)
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, k.template, data); err != nil {
		return "", "", err
	}

	return k.subject, buf.String(), nil
}
