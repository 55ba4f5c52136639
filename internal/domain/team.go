package domain

import "time"

type Team struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	InviteCode string    `json:"inviteCode"`
	CreatedBy  int64     `json:"createdBy"`
	CreatedAt  time.Time `json:"createdAt"`
	Members    []*User   `json:"members,omitempty"`
}

// SnapshotEvent 表示某个团队的班次快照已被替换，订阅者需要重新拉取
type SnapshotEvent struct {
	TeamID  int64  `json:"teamID"`
	Version int64  `json:"version"`
	Reason  string `json:"reason"`
}
