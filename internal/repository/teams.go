package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/timesheet-clash/backend/internal/domain"
)

// CreateTeam 创建团队并把创建者设为该团队的管理者，两步在同一事务中完成
func (r *Repository) CreateTeam(team *domain.Team, creator *domain.User) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO teams (name, invite_code, created_by)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	if err := tx.QueryRowContext(ctx, query, team.Name, team.InviteCode, team.CreatedBy).Scan(&team.ID, &team.CreatedAt); err != nil {
		return err
	}

	query = `
		UPDATE users
		SET team_id = $1, role = $2, version = version + 1
		WHERE id = $3 AND version = $4
		RETURNING version
	`
	if err := tx.QueryRowContext(ctx, query, team.ID, domain.RoleManager, creator.ID, creator.Version).Scan(&creator.Version); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	creator.TeamID = &team.ID
	creator.Role = domain.RoleManager
	return nil
}

func (r *Repository) GetTeamByID(id int64) (*domain.Team, error) {
	query := `
		SELECT name, invite_code, created_by, created_at
		FROM teams WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	team := &domain.Team{
		ID: id,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(&team.Name, &team.InviteCode, &team.CreatedBy, &team.CreatedAt); err != nil {
		return nil, err
	}

	return team, nil
}

func (r *Repository) GetTeamByInviteCode(code string) (*domain.Team, error) {
	query := `
		SELECT id, name, created_by, created_at
		FROM teams WHERE invite_code = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	team := &domain.Team{
		InviteCode: code,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, code).Scan(&team.ID, &team.Name, &team.CreatedBy, &team.CreatedAt); err != nil {
		return nil, err
	}

	return team, nil
}
