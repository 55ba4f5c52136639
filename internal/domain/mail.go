package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type WelcomeMailData struct {
	FullName string `json:"fullName"`
	TeamName string `json:"teamName"`
}

type ResetPasswordMailData struct {
	FullName   string `json:"fullName"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}

type ClashReportMailData struct {
	FullName    string   `json:"fullName"`
	PeriodLabel string   `json:"periodLabel"`
	Messages    []string `json:"messages"`
}
