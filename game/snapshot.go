package game

// PlayerState 广播给客户端的玩家状态
type PlayerState struct {
	ID        string  `json:"id" msgpack:"id"`
	X         float64 `json:"x" msgpack:"x"`
	Y         float64 `json:"y" msgpack:"y"`
	Health    int     `json:"health" msgpack:"health"`
	MaxHealth int     `json:"maxHealth" msgpack:"maxHealth"`
	Frozen    bool    `json:"frozen,omitempty" msgpack:"frozen,omitempty"`
}

// ProjectileState 广播给客户端的弹体状态
type ProjectileState struct {
	ID       uint64  `json:"id" msgpack:"id"`
	X        float64 `json:"x" msgpack:"x"`
	Y        float64 `json:"y" msgpack:"y"`
	Angle    float64 `json:"angle" msgpack:"angle"`
	Speed    float64 `json:"speed" msgpack:"speed"`
	TimeLeft float64 `json:"timeLeft" msgpack:"timeLeft"`
	PlayerID string  `json:"playerId" msgpack:"playerId"`
	Ability  string  `json:"ability" msgpack:"ability"`
	Color    string  `json:"fillStyle" msgpack:"fillStyle"`
}

// Snapshot 全量世界快照，不做增量与裁剪
type Snapshot struct {
	Tick        uint64            `json:"tick" msgpack:"tick"`
	Players     []PlayerState     `json:"players" msgpack:"players"`
	Projectiles []ProjectileState `json:"attacks" msgpack:"attacks"`
}

// MapSnapshot 新连接时下发的地图
type MapSnapshot struct {
	Ground [][]int `json:"ground" msgpack:"ground"`
	Decal  [][]int `json:"decal" msgpack:"decal"`
}

func (w *World) Snapshot() Snapshot {
	s := Snapshot{
		Tick:        w.tick,
		Players:     make([]PlayerState, 0, len(w.order)),
		Projectiles: make([]ProjectileState, 0, w.projectiles.Len()),
	}
	for _, p := range w.order {
		s.Players = append(s.Players, PlayerState{
			ID: p.ID, X: p.X, Y: p.Y, Health: p.Health, MaxHealth: p.MaxHealth, Frozen: p.Frozen(),
		})
	}
	for _, pr := range w.projectiles.Live() {
		s.Projectiles = append(s.Projectiles, ProjectileState{
			ID: pr.ID, X: pr.X, Y: pr.Y, Angle: pr.Angle, Speed: pr.Speed, TimeLeft: pr.TimeLeftMs,
			PlayerID: pr.OwnerID, Ability: pr.AbilityID, Color: pr.Color,
		})
	}
	return s
}

func (m *TileMap) Snapshot() MapSnapshot {
	return MapSnapshot{Ground: m.Ground, Decal: m.Decal}
}
