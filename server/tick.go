package server

import (
	"context"
	"time"
)

const (
	// TicksPerSecond 世界推进频率（30 TPS）
	TicksPerSecond = 30
)

var tickInterval = time.Second / TicksPerSecond

// StartTicker 启动房间的 Tick 循环（单线程推进世界）
func (r *Room) StartTicker(ctx context.Context) {
	if r.tickerStarted {
		return
	}
	r.tickerStarted = true
	go r.Run(ctx)
}

// Run 按固定频率推进世界，直到 ctx 取消
// delta 取自墙钟，不做漂移补偿
func (r *Room) Run(ctx context.Context) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	r.lastTick = r.now()
	for {
		select {
		case <-ctx.Done():
			r.shutdown()
			return
		case <-ticker.C:
			r.runTick(r.now())
		}
	}
}

func (r *Room) runTick(now time.Time) {
	delta := float64(now.Sub(r.lastTick)) / float64(time.Millisecond)
	r.lastTick = now
	r.Step(delta)
}

// shutdown 拒绝后续加入/离开请求，关闭所有连接（含尚未处理的加入请求）
func (r *Room) shutdown() {
	close(r.done)
	r.stopMu.Lock()
	r.stopped = true
	r.stopMu.Unlock()
drain:
	for {
		select {
		case ev := <-r.events:
			if ev.kind == evJoin {
				ev.conn.Close()
			}
		default:
			break drain
		}
	}
	for id, c := range r.clients {
		c.Close()
		delete(r.clients, id)
	}
	r.log.Infow("room stopped", "tick", r.TickSeq())
}
