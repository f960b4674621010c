package game

import "fmt"

// AbilityKind 技能效果种类，命中时由 ProjectileManager 统一分派
type AbilityKind int

const (
	KindDefault AbilityKind = iota
	KindExplosive
	KindFreeze
)

func (k AbilityKind) String() string {
	switch k {
	case KindDefault:
		return "default"
	case KindExplosive:
		return "explosive"
	case KindFreeze:
		return "freeze"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// AbilityDefinition 技能参数，启动时定义，运行期只读
type AbilityDefinition struct {
	ID         string
	Kind       AbilityKind
	Speed      float64 // 每 Tick 飞行像素
	LifetimeMs float64
	Range      float64 // 爆炸半径（像素），随 welcome 下发供客户端绘制
	DurationMs float64 // 冰冻持续时间
	Damage     int
	Color      string // 客户端渲染颜色
}

const (
	AbilityDefault   = "default"
	AbilityExplosive = "explosive"
	AbilityFreeze    = "freeze"
)

// Registry 技能表
type Registry struct {
	defs  map[string]AbilityDefinition
	order []string
}

// NewRegistry 构造技能表，拒绝空 id 与重复 id
func NewRegistry(defs ...AbilityDefinition) (*Registry, error) {
	r := &Registry{defs: make(map[string]AbilityDefinition, len(defs))}
	for _, d := range defs {
		if d.ID == "" {
			return nil, fmt.Errorf("ability with empty id")
		}
		if _, dup := r.defs[d.ID]; dup {
			return nil, fmt.Errorf("duplicate ability %q", d.ID)
		}
		r.defs[d.ID] = d
		r.order = append(r.order, d.ID)
	}
	return r, nil
}

// DefaultRegistry 内置的三种雪球
func DefaultRegistry() *Registry {
	r, err := NewRegistry(
		AbilityDefinition{ID: AbilityDefault, Kind: KindDefault, Speed: 11, LifetimeMs: 1000, Damage: 10, Color: "#333333"},
		AbilityDefinition{ID: AbilityExplosive, Kind: KindExplosive, Speed: 16, LifetimeMs: 800, Range: 100, Color: "#000000"},
		AbilityDefinition{ID: AbilityFreeze, Kind: KindFreeze, Speed: 5, LifetimeMs: 2000, DurationMs: 3000, Color: "#FFFFFF"},
	)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup 按 id 查找技能，未知 id 返回 ErrInvalidAbility
func (r *Registry) Lookup(id string) (AbilityDefinition, error) {
	d, ok := r.defs[id]
	if !ok {
		return AbilityDefinition{}, fmt.Errorf("%w: %q", ErrInvalidAbility, id)
	}
	return d, nil
}

// Definitions 按注册顺序返回全部技能定义
func (r *Registry) Definitions() []AbilityDefinition {
	out := make([]AbilityDefinition, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.defs[id])
	}
	return out
}

// IDs 按注册顺序返回全部技能 id
func (r *Registry) IDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
