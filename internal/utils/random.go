package utils

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/mozillazg/go-pinyin"
	"github.com/sysu-ecnc-dev/timesheet-clash/backend/internal/domain"
	"github.com/sysu-ecnc-dev/timesheet-clash/backend/internal/timeutil"
	"golang.org/x/crypto/bcrypt"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "霞", "飞", "玲", "超",
	"华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌", "庆",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var digits = "0123456789"

func GenerateUsernameFromChineseName(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	username := ""

	for _, py := range pinyinArray {
		length := rand.Intn(len(py)) + 1
		username += py[:length]
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

func GenerateRandomUser(password string, emailDomainName string) (*domain.User, error) {
	fullName := GenerateRandomChineseName()
	username := GenerateUsernameFromChineseName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		Email:        username + "@" + emailDomainName,
		Role:         domain.RoleMember,
	}

	return user, nil
}

func GenerateRandomOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

// 邀请码中去掉了容易混淆的字符（0/O、1/I/L）
var inviteCodeLetters = []rune("ABCDEFGHJKMNPQRSTUVWXYZ23456789")

func GenerateInviteCode(length int) string {
	code := make([]rune, length)
	for i := range code {
		code[i] = inviteCodeLetters[rand.Intn(len(inviteCodeLetters))]
	}
	return string(code)
}

// GenerateRandomShifts 在给定周期内为某个成员随机生成 n 个班次
//
// 同一成员的班次不会落在同一天，但不同成员之间可能冲突，便于演示冲突检测
func GenerateRandomShifts(p domain.WorkingPeriod, owner *domain.User, teamID int64, n int) []*domain.Shift {
	start, err := time.Parse(timeutil.DateLayout, p.StartDate)
	if err != nil {
		return nil
	}
	end, err := time.Parse(timeutil.DateLayout, p.EndDate)
	if err != nil {
		return nil
	}

	days := int(end.Sub(start).Hours()/24) + 1
	if n > days {
		n = days
	}

	shifts := make([]*domain.Shift, 0, n)
	for _, offset := range rand.Perm(days)[:n] {
		arrival := fmt.Sprintf("%02d:%02d", 7+rand.Intn(8), 15*rand.Intn(4))
		departure := fmt.Sprintf("%02d:%02d", 12+rand.Intn(8), 15*rand.Intn(4))

		shifts = append(shifts, &domain.Shift{
			OwnerID:          owner.ID,
			OwnerDisplayName: owner.FullName,
			TeamID:           teamID,
			Date:             start.AddDate(0, 0, offset).Format(timeutil.DateLayout),
			ArrivalTime:      arrival,
			DepartureTime:    departure,
			HoursWorked:      timeutil.Duration(arrival, departure),
		})
	}

	return shifts
}
