package game

import (
	"fmt"
	"math"
)

// DefaultSpeed 每 Tick 移动像素
const DefaultSpeed = 5

// Config 可在运行期调整的世界参数
type Config struct {
	Speed      float64
	EdgesBlock bool // 地图边缘是否视为阻挡
}

func DefaultConfig() Config {
	return Config{Speed: DefaultSpeed}
}

// World 唯一的权威世界状态：玩家、输入快照、弹体
// 非并发安全，由单一执行线程（房间 Tick 协程）独占读写
type World struct {
	tm       *TileMap
	registry *Registry
	cfg      Config

	players map[string]*Player
	order   []*Player // 加入顺序，即命中判定顺序
	inputs  map[string]InputState

	projectiles *ProjectileManager
	tick        uint64
}

func NewWorld(tm *TileMap, reg *Registry, cfg Config) *World {
	return &World{
		tm:          tm,
		registry:    reg,
		cfg:         cfg,
		players:     make(map[string]*Player),
		inputs:      make(map[string]InputState),
		projectiles: NewProjectileManager(reg),
	}
}

func (w *World) Map() *TileMap       { return w.tm }
func (w *World) Registry() *Registry { return w.registry }
func (w *World) Config() Config      { return w.cfg }
func (w *World) SetConfig(c Config)  { w.cfg = c }
func (w *World) Tick() uint64        { return w.tick }

// Join 在出生点创建玩家，输入全部置 false
func (w *World) Join(id string) (*Player, error) {
	if _, ok := w.players[id]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicatePlayer, id)
	}
	p := newPlayer(id)
	w.players[id] = p
	w.order = append(w.order, p)
	w.inputs[id] = InputState{}
	return p, nil
}

// Leave 移除玩家及其输入；其发射的弹体继续飞行直到过期
func (w *World) Leave(id string) bool {
	if _, ok := w.players[id]; !ok {
		return false
	}
	delete(w.players, id)
	delete(w.inputs, id)
	for i, p := range w.order {
		if p.ID == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	return true
}

// Player 按 id 查找玩家
func (w *World) Player(id string) (*Player, bool) {
	p, ok := w.players[id]
	return p, ok
}

// Players 按加入顺序返回玩家
func (w *World) Players() []*Player { return w.order }

func (w *World) Projectiles() []*Projectile { return w.projectiles.Live() }

// Input 当前输入快照
func (w *World) Input(id string) (InputState, bool) {
	in, ok := w.inputs[id]
	return in, ok
}

// SetInput 覆盖玩家输入（后写者胜），缺失字段保持原值
func (w *World) SetInput(id string, u InputUpdate) error {
	cur, ok := w.inputs[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCaster, id)
	}
	w.inputs[id] = u.Apply(cur)
	return nil
}

// Attack 校验施法者与技能后生成弹体
func (w *World) Attack(id string, angle float64, abilityID string) (*Projectile, error) {
	caster, ok := w.players[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCaster, id)
	}
	if math.IsNaN(angle) || math.IsInf(angle, 0) {
		return nil, fmt.Errorf("%w: angle %v", ErrMalformedInput, angle)
	}
	if _, err := w.registry.Lookup(abilityID); err != nil {
		return nil, err
	}
	return w.projectiles.Spawn(caster, angle, abilityID)
}

// StepResult 单个 Tick 的产出
type StepResult struct {
	Tick uint64
	Hits []Hit
}

// Step 推进一个 Tick：先按输入移动全部玩家，再以同一 delta 推进弹体
func (w *World) Step(deltaMs float64) StepResult {
	w.tick++
	for _, p := range w.order {
		if p.Frozen() {
			p.FrozenMs = math.Max(p.FrozenMs-deltaMs, 0)
			continue
		}
		w.move(p, w.inputs[p.ID])
	}
	hits := w.projectiles.Advance(deltaMs, w.order)
	return StepResult{Tick: w.tick, Hits: hits}
}

// move 先纵向后横向；每个轴独立试探，碰撞则该轴整体回退，不做滑动
func (w *World) move(p *Player, in InputState) {
	if dy := in.Vertical(); dy != 0 {
		prev := p.Y
		p.Y += float64(dy) * w.cfg.Speed
		if w.tm.Collides(p.Box(), w.cfg.EdgesBlock) {
			p.Y = prev
		}
	}
	if dx := in.Horizontal(); dx != 0 {
		prev := p.X
		p.X += float64(dx) * w.cfg.Speed
		if w.tm.Collides(p.Box(), w.cfg.EdgesBlock) {
			p.X = prev
		}
	}
}
