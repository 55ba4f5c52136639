package domain

import (
	"time"
)

type Role string

const (
	RoleMember  Role = "member"
	RoleManager Role = "manager"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	TeamID       *int64    `json:"teamID"` // 为空表示尚未加入团队
	CreatedAt    time.Time `json:"createdAt"`
	Version      int32     `json:"-"`
}
