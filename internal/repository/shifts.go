package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/timesheet-clash/backend/internal/domain"
)

// ListShifts 返回团队在 [start, end] 日期区间内的全部班次，按录入顺序排列
func (r *Repository) ListShifts(teamID int64, start, end string) ([]*domain.Shift, error) {
	query := `
		SELECT
			s.id,
			s.owner_id,
			u.full_name,
			s.date,
			s.arrival_time,
			s.departure_time,
			s.hours_worked,
			s.description,
			s.created_at
		FROM shifts s
		JOIN users u ON u.id = s.owner_id
		WHERE s.team_id = $1 AND s.date BETWEEN $2 AND $3
		ORDER BY s.id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, teamID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shifts := make([]*domain.Shift, 0)
	for rows.Next() {
		shift := &domain.Shift{
			TeamID: teamID,
		}

		dst := []any{
			&shift.ID,
			&shift.OwnerID,
			&shift.OwnerDisplayName,
			&shift.Date,
			&shift.ArrivalTime,
			&shift.DepartureTime,
			&shift.HoursWorked,
			&shift.Description,
			&shift.CreatedAt,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return shifts, nil
}

// CreateShifts 在同一事务中写入一批班次，任一失败则全部回滚
func (r *Repository) CreateShifts(shifts []*domain.Shift) error {
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
		INSERT INTO shifts (owner_id, team_id, date, arrival_time, departure_time, hours_worked, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	for _, shift := range shifts {
		params := []any{shift.OwnerID, shift.TeamID, shift.Date, shift.ArrivalTime, shift.DepartureTime, shift.HoursWorked, shift.Description}
		if err := tx.QueryRowContext(ctx, query, params...).Scan(&shift.ID, &shift.CreatedAt); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

// DeleteShifts 删除某个成员在团队中的全部班次，返回删除的条数
func (r *Repository) DeleteShifts(teamID, ownerID int64) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		DELETE FROM shifts WHERE team_id = $1 AND owner_id = $2
	`

	result, err := r.dbpool.ExecContext(ctx, query, teamID, ownerID)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
