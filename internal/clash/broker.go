package clash

import (
	"sync"

	"github.com/sysu-ecnc-dev/timesheet-clash/backend/internal/domain"
)

// Broker 把“快照已替换”事件按团队分发给订阅者。
// 订阅者收到事件后自行重新拉取快照并计算报告
type Broker struct {
	mu     sync.Mutex
	buffer int
	subs   map[int64]map[chan domain.SnapshotEvent]struct{}
}

func NewBroker(buffer int) *Broker {
	return &Broker{
		buffer: max(buffer, 1),
		subs:   make(map[int64]map[chan domain.SnapshotEvent]struct{}),
	}
}

// Subscribe 返回事件通道以及取消订阅的函数，取消后通道会被关闭
func (b *Broker) Subscribe(teamID int64) (<-chan domain.SnapshotEvent, func()) {
	ch := make(chan domain.SnapshotEvent, b.buffer)

	b.mu.Lock()
	if _, exists := b.subs[teamID]; !exists {
		b.subs[teamID] = make(map[chan domain.SnapshotEvent]struct{})
	}
	b.subs[teamID][ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()

			delete(b.subs[teamID], ch)
			if len(b.subs[teamID]) == 0 {
				delete(b.subs, teamID)
			}
			close(ch)
		})
	}
}

// Publish 不会阻塞：缓冲区已满的订阅者会丢失这次事件，但下一次事件依然会通知它重新拉取
func (b *Broker) Publish(evt domain.SnapshotEvent) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	delivered := 0
	for ch := range b.subs[evt.TeamID] {
		select {
		case ch <- evt:
			delivered++
		default:
		}
	}
	return delivered
}

func (b *Broker) Subscribers(teamID int64) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[teamID])
}
