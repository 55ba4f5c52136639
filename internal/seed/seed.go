// Package seed 向数据库写入演示数据，或者从 CSV 批量导入历史考勤
package seed

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/sysu-ecnc-dev/timesheet-clash/backend/internal/domain"
	"github.com/sysu-ecnc-dev/timesheet-clash/backend/internal/extractor"
	"github.com/sysu-ecnc-dev/timesheet-clash/backend/internal/utils"
)

type Store interface {
	GetUserByUsername(username string) (*domain.User, error)
	CreateUser(user *domain.User) error
	UpdateUser(user *domain.User) error
	CreateTeam(team *domain.Team, creator *domain.User) error
	CreateShifts(shifts []*domain.Shift) error
}

type DemoOptions struct {
	TeamName         string
	Members          int
	ShiftsPerMember  int
	Password         string
	EmailDomain      string
	InviteCodeLength int
}

// SeedDemoTeam 创建一个演示团队：第一个随机用户为管理者，其余为成员，每人在周期内随机提交若干班次
func SeedDemoTeam(s Store, opts DemoOptions, p domain.WorkingPeriod) (*domain.Team, error) {
	if opts.Members <= 0 {
		return nil, errors.New("成员数量必须大于 0")
	}

	members := make([]*domain.User, 0, opts.Members)
	for attempts := 0; len(members) < opts.Members; attempts++ {
		if attempts >= opts.Members*3 {
			return nil, fmt.Errorf("只成功插入了 %d 个随机用户", len(members))
		}

		user, err := utils.GenerateRandomUser(opts.Password, opts.EmailDomain)
		if err != nil {
			return nil, err
		}
		if err := s.CreateUser(user); err != nil {
			// 随机用户名可能重复，换一个再试
			slog.Warn("插入随机用户失败", "username", user.Username, "error", err)
			continue
		}
		members = append(members, user)
	}

	team := &domain.Team{
		Name:       opts.TeamName,
		InviteCode: utils.GenerateInviteCode(opts.InviteCodeLength),
		CreatedBy:  members[0].ID,
	}
	if err := s.CreateTeam(team, members[0]); err != nil {
		return nil, fmt.Errorf("创建团队失败: %w", err)
	}

	for _, member := range members[1:] {
		member.TeamID = &team.ID
		if err := s.UpdateUser(member); err != nil {
			return nil, fmt.Errorf("把 %s 加入团队失败: %w", member.Username, err)
		}
	}

	for _, member := range members {
		shifts := utils.GenerateRandomShifts(p, member, team.ID, opts.ShiftsPerMember)
		if err := s.CreateShifts(shifts); err != nil {
			return nil, fmt.Errorf("插入 %s 的班次失败: %w", member.Username, err)
		}
	}

	return team, nil
}

var (
	usernameAliases = []string{"NETID", "USERNAME", "用户名"}
	fullNameAliases = []string{"NAME", "FULL NAME", "姓名"}
	emailAliases    = []string{"EMAIL", "邮箱"}
	noteAliases     = []string{"DESCRIPTION", "NOTE", "备注"}

	dateAliases      = append([]string{"日期"}, extractor.DateAliases...)
	arrivalAliases   = append([]string{"到达时间"}, extractor.ArrivalAliases...)
	departureAliases = append([]string{"离开时间"}, extractor.DepartureAliases...)
)

// ImportTimesheets 从 CSV 导入一个团队的历史考勤。
// 每行是一个班次，用户不存在时会以 passwordHash 创建并加入团队，无法规范化的行会被跳过
func ImportTimesheets(s Store, teamID int64, r io.Reader, passwordHash string) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("读取表头失败: %w", err)
	}

	users := make(map[string]*domain.User)
	order := make([]string, 0)
	shifts := make(map[string][]*domain.Shift)

	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("读取第 %d 行失败: %w", line, err)
		}
		rec := extractor.Record{Header: header, Values: row}

		username, ok := extractor.ResolveColumn(usernameAliases, rec)
		if !ok {
			slog.Warn("缺少用户名，跳过", "line", line)
			continue
		}

		user, exists := users[username]
		if !exists {
			user, err = ensureMember(s, teamID, username, rec, passwordHash)
			if err != nil {
				return 0, fmt.Errorf("第 %d 行: %w", line, err)
			}
			users[username] = user
			order = append(order, username)
		}

		raw := domain.ShiftEntry{}
		raw.Date, _ = extractor.ResolveColumn(dateAliases, rec)
		raw.ArrivalTime, _ = extractor.ResolveColumn(arrivalAliases, rec)
		raw.DepartureTime, _ = extractor.ResolveColumn(departureAliases, rec)
		raw.Description, _ = extractor.ResolveColumn(noteAliases, rec)

		entry, err := utils.NormalizeEntry(raw)
		if err != nil {
			slog.Warn("班次格式错误，跳过", "line", line, "error", err)
			continue
		}

		shifts[username] = append(shifts[username], &domain.Shift{
			OwnerID:          user.ID,
			OwnerDisplayName: user.FullName,
			TeamID:           teamID,
			Date:             entry.Date,
			ArrivalTime:      entry.ArrivalTime,
			DepartureTime:    entry.DepartureTime,
			HoursWorked:      entry.HoursWorked,
			Description:      entry.Description,
		})
	}

	imported := 0
	for _, username := range order {
		if len(shifts[username]) == 0 {
			continue
		}
		if err := s.CreateShifts(shifts[username]); err != nil {
			return imported, fmt.Errorf("插入 %s 的班次失败: %w", username, err)
		}
		imported += len(shifts[username])
	}

	return imported, nil
}

func ensureMember(s Store, teamID int64, username string, rec extractor.Record, passwordHash string) (*domain.User, error) {
	user, err := s.GetUserByUsername(username)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}

		// 用户不存在，新建并直接加入团队
		fullName, ok := extractor.ResolveColumn(fullNameAliases, rec)
		if !ok {
			fullName = username
		}
		email, ok := extractor.ResolveColumn(emailAliases, rec)
		if !ok {
			return nil, fmt.Errorf("新用户 %s 缺少邮箱", username)
		}

		user = &domain.User{
			Username:     username,
			PasswordHash: passwordHash,
			FullName:     fullName,
			Email:        email,
			Role:         domain.RoleMember,
			TeamID:       &teamID,
		}
		if err := s.CreateUser(user); err != nil {
			return nil, err
		}
		return user, nil
	}

	switch {
	case user.TeamID == nil:
		user.TeamID = &teamID
		if err := s.UpdateUser(user); err != nil {
			return nil, err
		}
	case *user.TeamID != teamID:
		return nil, fmt.Errorf("用户 %s 已属于其他团队", username)
	}

	return user, nil
}
