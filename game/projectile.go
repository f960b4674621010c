package game

import (
	"fmt"
	"math"
)

// HitRadius 命中半径：弹体与玩家中心距离不超过该值即命中
const HitRadius = PlayerSize / 2

// Projectile 飞行中的雪球
type Projectile struct {
	ID         uint64
	X, Y       float64
	Angle      float64 // 弧度
	Speed      float64
	TimeLeftMs float64
	OwnerID    string
	AbilityID  string
	Color      string

	expired bool
}

// Hit 一次命中记录，供上层记录日志与广播
type Hit struct {
	ProjectileID uint64
	AbilityID    string
	Kind         AbilityKind
	OwnerID      string
	TargetID     string
	Announce     bool // 需要向所有客户端广播的命中
}

func (h Hit) String() string {
	return fmt.Sprintf("%s hit by %s snowball!", h.TargetID, h.AbilityID)
}

// ProjectileManager 持有所有存活弹体，每 Tick 推进、判定、清理
type ProjectileManager struct {
	registry    *Registry
	projectiles []*Projectile
	nextID      uint64
}

func NewProjectileManager(reg *Registry) *ProjectileManager {
	return &ProjectileManager{registry: reg}
}

// Spawn 在施法者当前位置生成弹体；技能 id 须已在边界处校验
func (m *ProjectileManager) Spawn(owner *Player, angle float64, abilityID string) (*Projectile, error) {
	def, err := m.registry.Lookup(abilityID)
	if err != nil {
		return nil, err
	}
	m.nextID++
	p := &Projectile{
		ID:         m.nextID,
		X:          owner.X,
		Y:          owner.Y,
		Angle:      angle,
		Speed:      def.Speed,
		TimeLeftMs: def.LifetimeMs,
		OwnerID:    owner.ID,
		AbilityID:  def.ID,
		Color:      def.Color,
	}
	m.projectiles = append(m.projectiles, p)
	return p, nil
}

// Advance 推进一个 Tick：移动、扣减寿命、命中判定，最后清理过期弹体
// 命中判定按玩家加入顺序遍历（不按距离排序），每个弹体最多命中一次
func (m *ProjectileManager) Advance(deltaMs float64, players []*Player) []Hit {
	var hits []Hit
	for _, p := range m.projectiles {
		if p.expired {
			continue
		}
		p.X += math.Cos(p.Angle) * p.Speed
		p.Y += math.Sin(p.Angle) * p.Speed
		p.TimeLeftMs -= deltaMs

		for _, pl := range players {
			if pl.ID == p.OwnerID {
				continue
			}
			cx, cy := pl.Center()
			if math.Hypot(cx-p.X, cy-p.Y) > HitRadius {
				continue
			}
			if h, ok := m.applyEffect(p, pl); ok {
				hits = append(hits, h)
			}
			p.expired = true
			break
		}
	}
	m.prune()
	return hits
}

// applyEffect 技能效果的唯一分派点
func (m *ProjectileManager) applyEffect(p *Projectile, target *Player) (Hit, bool) {
	def, err := m.registry.Lookup(p.AbilityID)
	if err != nil {
		return Hit{}, false
	}
	h := Hit{ProjectileID: p.ID, AbilityID: def.ID, Kind: def.Kind, OwnerID: p.OwnerID, TargetID: target.ID}
	switch def.Kind {
	case KindDefault:
		target.Damage(def.Damage)
	case KindExplosive:
		target.Damage(def.Damage)
		h.Announce = true
	case KindFreeze:
		target.FrozenMs = math.Max(target.FrozenMs, def.DurationMs)
	}
	return h, true
}

func (m *ProjectileManager) prune() {
	live := m.projectiles[:0]
	for _, p := range m.projectiles {
		if !p.expired && p.TimeLeftMs > 0 {
			live = append(live, p)
		}
	}
	for i := len(live); i < len(m.projectiles); i++ {
		m.projectiles[i] = nil
	}
	m.projectiles = live
}

// Live 存活弹体（只读视图，调用方不得修改）
func (m *ProjectileManager) Live() []*Projectile { return m.projectiles }

func (m *ProjectileManager) Len() int { return len(m.projectiles) }
