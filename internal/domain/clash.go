package domain

type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

type ClashParty struct {
	Name        string `json:"name"`
	Time        string `json:"time"`
	Description string `json:"description"`
}

type ClashDetails struct {
	Subject     ClashParty `json:"subject"`
	Counterpart ClashParty `json:"counterpart"`
	Date        string     `json:"date"`
}

// Clash 不会被持久化，每次都根据当前的班次快照重新计算
type Clash struct {
	ID                     string        `json:"id"`
	SubjectEntryID         int64         `json:"subjectEntryID"`
	CounterpartEntryID     int64         `json:"counterpartEntryID"`
	CounterpartDisplayName string        `json:"counterpartDisplayName"`
	CounterpartTimeRange   string        `json:"counterpartTimeRange"`
	Message                string        `json:"message"`
	Severity               Severity      `json:"severity"`
	Details                *ClashDetails `json:"details,omitempty"`
}

type Submitter struct {
	UserID     int64  `json:"userID"`
	FullName   string `json:"fullName"`
	ShiftCount int    `json:"shiftCount"`
}

type ComparisonReport struct {
	Period     WorkingPeriod `json:"period"`
	Version    int64         `json:"version"` // 生成报告时所用快照的版本号
	Submitters []Submitter   `json:"submitters"`
	Ready      bool          `json:"ready"` // 至少有两名成员提交后才进行比较
	Clashes    []Clash       `json:"clashes"`
}
