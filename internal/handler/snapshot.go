package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/timesheet-clash/backend/internal/clash"
	"github.com/sysu-ecnc-dev/timesheet-clash/backend/internal/domain"
	"golang.org/x/sync/errgroup"
)

func snapshotVersionKey(teamID int64) string {
	return fmt.Sprintf("team_%d_snapshot_version", teamID)
}

// snapshotVersion 返回团队当前的快照版本，从未写入过时为 0
func (h *Handler) snapshotVersion(ctx context.Context, teamID int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(h.config.Redis.OperationExpiration)*time.Second)
	defer cancel()

	version, err := h.redisClient.Get(ctx, snapshotVersionKey(teamID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return version, err
}

// replaceSnapshot 在团队班次发生变化后递增版本号并通知所有订阅者。
// 班次已经写入数据库，这里的失败只记录日志
func (h *Handler) replaceSnapshot(teamID int64, reason string) int64 {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationExpiration)*time.Second)
	defer cancel()

	version, err := h.redisClient.Incr(ctx, snapshotVersionKey(teamID)).Result()
	if err != nil {
		slog.Error("递增快照版本失败", "team", teamID, "error", err)
	}

	delivered := h.broker.Publish(domain.SnapshotEvent{
		TeamID:  teamID,
		Version: version,
		Reason:  reason,
	})
	slog.Debug("已发布快照事件", "team", teamID, "version", version, "reason", reason, "delivered", delivered)

	return version
}

// loadSnapshot 并发读取周期内的班次和快照版本
func (h *Handler) loadSnapshot(ctx context.Context, teamID int64, p domain.WorkingPeriod) (clash.Snapshot, error) {
	snap := clash.Snapshot{
		TeamID: teamID,
		Period: p,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		shifts, err := h.repository.ListShifts(teamID, p.StartDate, p.EndDate)
		if err != nil {
			return err
		}
		snap.Shifts = shifts
		return nil
	})

	g.Go(func() error {
		version, err := h.snapshotVersion(ctx, teamID)
		if err != nil {
			return err
		}
		snap.Version = version
		return nil
	})

	if err := g.Wait(); err != nil {
		return clash.Snapshot{}, err
	}

	return snap, nil
}
