package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/timesheet-clash/backend/internal/config"
	"github.com/sysu-ecnc-dev/timesheet-clash/backend/internal/domain"
	"github.com/sysu-ecnc-dev/timesheet-clash/backend/internal/period"
	"github.com/sysu-ecnc-dev/timesheet-clash/backend/internal/repository"
	"github.com/sysu-ecnc-dev/timesheet-clash/backend/internal/seed"
	"github.com/sysu-ecnc-dev/timesheet-clash/backend/internal/utils"
	"golang.org/x/crypto/bcrypt"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var periodID string
	var teamID int64
	var file string

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机用户, 2: 创建演示团队并插入随机班次, 3: 从 CSV 导入考勤)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.StringVar(&periodID, "period", "", "随机班次所在的工作周期 ID，默认为第一个周期")
	flag.Int64Var(&teamID, "team-id", 0, "导入考勤的目标团队 ID")
	flag.StringVar(&file, "file", "", "要导入的 CSV 文件路径")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的用户数量")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				user, err := utils.GenerateRandomUser(cfg.Seed.User.Password, cfg.Email.UserDomain)
				if err != nil {
					slog.Error("无法生成随机用户", slog.String("error", err.Error()))
					continue
				}

				if err := repo.CreateUser(user); err != nil {
					slog.Error("无法插入用户", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入用户成功", slog.Int("count", n-cnt))
		}
	case 2:
		p, ok := pickPeriod(cfg, periodID)
		if !ok {
			slog.Error("指定的工作周期不存在", slog.String("period", periodID))
			return
		}

		team, err := seed.SeedDemoTeam(repo, seed.DemoOptions{
			TeamName:         cfg.Seed.TeamName,
			Members:          cfg.Seed.User.Count,
			ShiftsPerMember:  cfg.Seed.ShiftsPerUser,
			Password:         cfg.Seed.User.Password,
			EmailDomain:      cfg.Email.UserDomain,
			InviteCodeLength: cfg.Team.InviteCodeLength,
		}, p)
		if err != nil {
			slog.Error("无法创建演示团队", slog.String("error", err.Error()))
			return
		}

		slog.Info("创建演示团队成功",
			slog.Int64("team_id", team.ID),
			slog.String("invite_code", team.InviteCode),
			slog.String("period", p.ID),
		)
	case 3:
		if teamID <= 0 || file == "" {
			slog.Error("请指定合法的团队 ID 和 CSV 文件")
			return
		}

		f, err := os.Open(file)
		if err != nil {
			slog.Error("无法打开 CSV 文件", slog.String("error", err.Error()))
			return
		}
		defer f.Close()

		passwordHash, err := bcrypt.GenerateFromPassword([]byte(cfg.Seed.User.Password), bcrypt.DefaultCost)
		if err != nil {
			slog.Error("无法生成密码哈希", slog.String("error", err.Error()))
			return
		}

		cnt, err := seed.ImportTimesheets(repo, teamID, f, string(passwordHash))
		if err != nil {
			slog.Error("导入考勤失败", slog.Int("imported", cnt), slog.String("error", err.Error()))
			return
		}

		slog.Info("导入考勤成功", slog.Int("count", cnt))
	default:
		slog.Error("指定的操作非法")
	}
}

func pickPeriod(cfg *config.Config, id string) (domain.WorkingPeriod, bool) {
	periods := period.Generate(cfg.Period.Count, cfg.Period.StartYear)
	if id == "" {
		if len(periods) == 0 {
			return domain.WorkingPeriod{}, false
		}
		return periods[0], true
	}
	if p, ok := period.Find(periods, id); ok {
		return p, true
	}
	return period.ParseID(id)
}
