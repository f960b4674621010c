package server

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sasha-s/go-deadlock"
	"go.uber.org/zap"

	"snowarena/game"
)

type eventKind int

const (
	evJoin eventKind = iota
	evLeave
)

// roomEvent 连接生命周期事件，统一在 Tick 线程中按到达顺序处理
// 输入与攻击不走该队列，而是暂存在各自连接上（见 ClientConn.QueueInput）
type roomEvent struct {
	kind     eventKind
	playerID string
	conn     *ClientConn
}

// Room 房间世界：权威状态维护在内存，单线程 Tick 推进
type Room struct {
	ID string

	world   *game.World
	events  chan roomEvent
	clients map[string]*ClientConn // 仅 Tick 线程访问
	metrics *RoomMetrics
	log     *zap.SugaredLogger

	// 管理接口可热更新的参数，每个 Tick 开始时拷贝进世界
	cfgMu    deadlock.RWMutex
	tunables game.Config

	// 房间停止后加入/离开请求不再阻塞
	stopMu  deadlock.RWMutex
	stopped bool
	done    chan struct{}

	tickSeq  atomic.Uint64
	lastTick time.Time
	now      func() time.Time

	tickerStarted bool
}

// NewRoom 创建房间，初始化数据结构
func NewRoom(id string, tm *game.TileMap, reg *game.Registry, cfg game.Config) *Room {
	return &Room{
		ID:       id,
		world:    game.NewWorld(tm, reg, cfg),
		events:   make(chan roomEvent, 1024), // 足够缓冲，避免网络读阻塞影响 Tick
		clients:  make(map[string]*ClientConn),
		metrics:  &RoomMetrics{},
		log:      Log.With("room", id),
		tunables: cfg,
		done:     make(chan struct{}),
		now:      time.Now,
	}
}

func (r *Room) Metrics() *RoomMetrics { return r.metrics }

// TickSeq 已完成的 Tick 数，可跨协程读取
func (r *Room) TickSeq() uint64 { return r.tickSeq.Load() }

// Tunables 当前可调参数
func (r *Room) Tunables() game.Config {
	r.cfgMu.RLock()
	defer r.cfgMu.RUnlock()
	return r.tunables
}

// UpdateTunables 修改可调参数，下一个 Tick 生效
func (r *Room) UpdateTunables(fn func(*game.Config)) game.Config {
	r.cfgMu.Lock()
	defer r.cfgMu.Unlock()
	fn(&r.tunables)
	return r.tunables
}

// RequestJoin 请求加入；房间运行期间阻塞写入，保证加入一定生效
// 房间已停止时关闭连接并返回 false
func (r *Room) RequestJoin(c *ClientConn) bool {
	if !r.enqueue(roomEvent{kind: evJoin, playerID: c.ID, conn: c}) {
		c.Close()
		return false
	}
	return true
}

// RequestLeave 请求在 Tick 线程中移除玩家，避免并发改动房间状态
func (r *Room) RequestLeave(id string) {
	r.enqueue(roomEvent{kind: evLeave, playerID: id})
}

func (r *Room) enqueue(ev roomEvent) bool {
	r.stopMu.RLock()
	defer r.stopMu.RUnlock()
	if r.stopped {
		return false
	}
	select {
	case r.events <- ev:
		return true
	case <-r.done:
		return false
	}
}

// OnInput 入站输入（不立即生效），暂存在连接上等下一次 Tick 处理
func (r *Room) OnInput(c *ClientConn, u game.InputUpdate) {
	c.QueueInput(u)
	r.metrics.IncAccepted()
}

// OnAttack 入站攻击请求，技能已在连接侧校验；超出单连接上限时丢弃
func (r *Room) OnAttack(c *ClientConn, angle float64, ability string) {
	if !c.QueueAttack(angle, ability) {
		r.metrics.IncChanFullDiscarded()
	}
}

// ProcessEvents 先处理加入/离开，再按加入顺序应用各连接暂存的输入与攻击
func (r *Room) ProcessEvents() {
	for {
		select {
		case ev := <-r.events:
			r.handle(ev)
		default:
			r.applyPending()
			return
		}
	}
}

func (r *Room) applyPending() {
	for _, p := range r.world.Players() {
		if c, ok := r.clients[p.ID]; ok {
			r.applyConn(c)
		}
	}
}

// applyConn 单个连接出错或 panic 只影响该连接，不影响世界推进
func (r *Room) applyConn(c *ClientConn) {
	defer func() {
		if rec := recover(); rec != nil {
			r.metrics.IncHandlerPanics()
			r.log.Errorw("input handler panic", "player", c.ID, "panic", fmt.Sprint(rec))
		}
	}()
	u, hasInput, attacks := c.takePending()
	if hasInput {
		if err := r.world.SetInput(c.ID, u); err != nil {
			r.countError(err)
		}
	}
	for _, a := range attacks {
		if _, err := r.world.Attack(c.ID, a.angle, a.ability); err != nil {
			r.countError(err)
			r.log.Debugw("attack rejected", "player", c.ID, "err", err)
			continue
		}
		r.metrics.IncAttacks()
	}
}

// handle 单个事件出错或 panic 只影响该连接，不影响世界推进
func (r *Room) handle(ev roomEvent) {
	defer func() {
		if rec := recover(); rec != nil {
			r.metrics.IncHandlerPanics()
			r.log.Errorw("event handler panic", "player", ev.playerID, "panic", fmt.Sprint(rec))
		}
	}()

	switch ev.kind {
	case evJoin:
		if _, err := r.world.Join(ev.playerID); err != nil {
			r.log.Warnw("join rejected", "player", ev.playerID, "err", err)
			ev.conn.Close()
			return
		}
		r.clients[ev.playerID] = ev.conn
		r.metrics.IncJoins()
	case evLeave:
		if c, ok := r.clients[ev.playerID]; ok {
			c.Close()
			delete(r.clients, ev.playerID)
		}
		if r.world.Leave(ev.playerID) {
			r.metrics.IncLeaves()
			r.log.Infow("user disconnected", "player", ev.playerID)
		}
	}
}

func (r *Room) countError(err error) {
	switch {
	case errors.Is(err, game.ErrUnknownCaster):
		r.metrics.IncUnknownCaster()
	case errors.Is(err, game.ErrInvalidAbility):
		r.metrics.IncInvalidAbility()
	case errors.Is(err, game.ErrMalformedInput):
		r.metrics.IncMalformed()
	}
}

// Step 执行一个完整 Tick：处理事件 → 推进世界 → 广播结果
func (r *Room) Step(deltaMs float64) game.StepResult {
	start := time.Now()
	r.world.SetConfig(r.Tunables())
	r.ProcessEvents()
	res := r.world.Step(deltaMs)
	for _, h := range res.Hits {
		r.log.Debugw("hit", "target", h.TargetID, "owner", h.OwnerID, "ability", h.AbilityID)
	}
	r.metrics.AddHits(len(res.Hits))
	r.Broadcast(r.world.Snapshot(), res.Hits)
	r.metrics.SetGauges(len(r.world.Players()), len(r.world.Projectiles()))
	r.tickSeq.Store(res.Tick)
	r.metrics.AddTick(time.Since(start).Nanoseconds())
	return res
}
