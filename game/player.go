package game

const (
	PlayerSize       = 32
	DefaultMaxHealth = 100
	SpawnX           = 800
	SpawnY           = 800
)

// Player 服务端权威的玩家状态
type Player struct {
	ID        string
	X         float64 // 包围盒左上角
	Y         float64
	Health    int
	MaxHealth int
	FrozenMs  float64 // 剩余冰冻时间，>0 时忽略移动输入
}

func newPlayer(id string) *Player {
	return &Player{ID: id, X: SpawnX, Y: SpawnY, Health: DefaultMaxHealth, MaxHealth: DefaultMaxHealth}
}

// Box 玩家包围盒
func (p *Player) Box() Rect {
	return Rect{X: p.X, Y: p.Y, W: PlayerSize, H: PlayerSize}
}

// Center 玩家中心点，命中判定以此为圆心
func (p *Player) Center() (float64, float64) {
	return p.X + PlayerSize/2, p.Y + PlayerSize/2
}

// Damage 扣血并裁剪到 [0, MaxHealth]；负数即治疗
func (p *Player) Damage(n int) {
	p.Health -= n
	if p.Health < 0 {
		p.Health = 0
	}
	if p.Health > p.MaxHealth {
		p.Health = p.MaxHealth
	}
}

func (p *Player) Frozen() bool { return p.FrozenMs > 0 }
