package server

import (
	"sync/atomic"
)

// RoomMetrics 记录房间运行期的关键指标（用于监控与调试）
type RoomMetrics struct {
	TickCount         int64 // 统计的 Tick 次数
	TotalTickNs       int64 // Tick 累计耗时（纳秒）
	Joins             int64
	Leaves            int64
	InputsAccepted    int64 // 被接受的输入数
	AttacksAccepted   int64 // 成功生成弹体的攻击数
	Malformed         int64 // 无法解析或字段缺失的消息
	InvalidAbility    int64 // 未知技能
	UnknownCaster     int64 // 与断线竞争、找不到玩家的消息
	ChanFullDiscarded int64 // 因单连接攻击队列满被丢弃
	HandlerPanics     int64
	Hits              int64
	FramesDropped     int64 // 客户端发送队列满被丢弃的帧

	Players     int64 // 当前玩家数
	Projectiles int64 // 当前弹体数
}

func (m *RoomMetrics) IncJoins()             { atomic.AddInt64(&m.Joins, 1) }
func (m *RoomMetrics) IncLeaves()            { atomic.AddInt64(&m.Leaves, 1) }
func (m *RoomMetrics) IncAccepted()          { atomic.AddInt64(&m.InputsAccepted, 1) }
func (m *RoomMetrics) IncAttacks()           { atomic.AddInt64(&m.AttacksAccepted, 1) }
func (m *RoomMetrics) IncMalformed()         { atomic.AddInt64(&m.Malformed, 1) }
func (m *RoomMetrics) IncInvalidAbility()    { atomic.AddInt64(&m.InvalidAbility, 1) }
func (m *RoomMetrics) IncUnknownCaster()     { atomic.AddInt64(&m.UnknownCaster, 1) }
func (m *RoomMetrics) IncChanFullDiscarded() { atomic.AddInt64(&m.ChanFullDiscarded, 1) }
func (m *RoomMetrics) IncHandlerPanics()     { atomic.AddInt64(&m.HandlerPanics, 1) }
func (m *RoomMetrics) IncFramesDropped()     { atomic.AddInt64(&m.FramesDropped, 1) }
func (m *RoomMetrics) AddHits(n int)         { atomic.AddInt64(&m.Hits, int64(n)) }
func (m *RoomMetrics) AddTick(ns int64) {
	atomic.AddInt64(&m.TickCount, 1)
	atomic.AddInt64(&m.TotalTickNs, ns)
}

func (m *RoomMetrics) SetGauges(players, projectiles int) {
	atomic.StoreInt64(&m.Players, int64(players))
	atomic.StoreInt64(&m.Projectiles, int64(projectiles))
}

// Snapshot 返回只读副本，便于 HTTP 输出
func (m *RoomMetrics) Snapshot() map[string]any {
	tick := atomic.LoadInt64(&m.TickCount)
	total := atomic.LoadInt64(&m.TotalTickNs)
	var avgMs float64
	if tick > 0 {
		avgMs = float64(total) / float64(tick) / 1e6
	}
	return map[string]any{
		"tick_count":          tick,
		"joins":               atomic.LoadInt64(&m.Joins),
		"leaves":              atomic.LoadInt64(&m.Leaves),
		"inputs_accepted":     atomic.LoadInt64(&m.InputsAccepted),
		"attacks_accepted":    atomic.LoadInt64(&m.AttacksAccepted),
		"malformed":           atomic.LoadInt64(&m.Malformed),
		"invalid_ability":     atomic.LoadInt64(&m.InvalidAbility),
		"unknown_caster":      atomic.LoadInt64(&m.UnknownCaster),
		"chan_full_discarded": atomic.LoadInt64(&m.ChanFullDiscarded),
		"handler_panics":      atomic.LoadInt64(&m.HandlerPanics),
		"hits":                atomic.LoadInt64(&m.Hits),
		"frames_dropped":      atomic.LoadInt64(&m.FramesDropped),
		"players":             atomic.LoadInt64(&m.Players),
		"projectiles":         atomic.LoadInt64(&m.Projectiles),
		"avg_tick_ms":         avgMs,
	}
}
