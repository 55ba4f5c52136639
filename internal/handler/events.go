package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sysu-ecnc-dev/timesheet-clash/backend/internal/domain"
)

func writeEvent(w http.ResponseWriter, evt domain.SnapshotEvent) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", data)
	return err
}

// StreamEvents 以 server-sent events 推送团队快照的变化，客户端收到后重新拉取比较结果
func (h *Handler) StreamEvents(w http.ResponseWriter, r *http.Request) {
	team := r.Context().Value(MyTeamCtx).(*domain.Team)

	rc := http.NewResponseController(w)
	// 事件流是长连接，不受服务器写超时的限制
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		slog.Debug("无法取消写超时", "error", err)
	}

	events, unsubscribe := h.broker.Subscribe(team.ID)
	defer unsubscribe()

	version, err := h.snapshotVersion(r.Context(), team.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	// 先推送当前版本，客户端据此判断本地数据是否过期
	if err := writeEvent(w, domain.SnapshotEvent{TeamID: team.ID, Version: version, Reason: "connected"}); err != nil {
		return
	}
	if err := rc.Flush(); err != nil {
		slog.Error("事件流不支持 flush", "error", err)
		return
	}

	heartbeat := time.NewTicker(time.Duration(h.config.Events.Heartbeat) * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case evt, ok := <-events:
			if !ok {
				return
			}
			if err := writeEvent(w, evt); err != nil {
				return
			}
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}
