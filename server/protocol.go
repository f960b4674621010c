package server

import "snowarena/game"

// Client -> Server 消息类型
const (
	MsgInputs   = "inputs"
	MsgAttack   = "attack"
	MsgSnowball = "snowball" // 旧客户端：仅带角度，技能固定为 default
)

// Server -> Client 消息类型
const (
	MsgMap     = "map"
	MsgWelcome = "welcome"
	MsgState   = "state"
	MsgDebug   = "debug"
)

// Envelope 出站消息统一外壳
type Envelope struct {
	T string `json:"t" msgpack:"t"`
	D any    `json:"d,omitempty" msgpack:"d,omitempty"`
}

// InEnvelope 入站消息外壳；D 汇总了所有入站消息可能出现的字段
// 示例：{"t":"inputs","d":{"up":true,"down":false,"left":false,"right":false}}
//
//	{"t":"attack","d":{"angle":1.57,"ability":"freeze"}}
type InEnvelope struct {
	T string    `json:"t" msgpack:"t"`
	D InPayload `json:"d" msgpack:"d"`
}

type InPayload struct {
	Up      *bool    `json:"up,omitempty" msgpack:"up,omitempty"`
	Down    *bool    `json:"down,omitempty" msgpack:"down,omitempty"`
	Left    *bool    `json:"left,omitempty" msgpack:"left,omitempty"`
	Right   *bool    `json:"right,omitempty" msgpack:"right,omitempty"`
	Angle   *float64 `json:"angle,omitempty" msgpack:"angle,omitempty"`
	Ability string   `json:"ability,omitempty" msgpack:"ability,omitempty"`
}

func (p InPayload) InputUpdate() game.InputUpdate {
	return game.InputUpdate{Up: p.Up, Down: p.Down, Left: p.Left, Right: p.Right}
}

type WelcomeMsg struct {
	ID        string        `json:"id" msgpack:"id"`
	TickRate  int           `json:"tickRate" msgpack:"tickRate"`
	Abilities []AbilityInfo `json:"abilities" msgpack:"abilities"`
}

// AbilityInfo 技能参数，客户端据此绘制弹体颜色与爆炸范围
type AbilityInfo struct {
	ID         string  `json:"id" msgpack:"id"`
	Kind       string  `json:"kind" msgpack:"kind"`
	Speed      float64 `json:"speed" msgpack:"speed"`
	LifetimeMs float64 `json:"lifetime" msgpack:"lifetime"`
	Range      float64 `json:"range,omitempty" msgpack:"range,omitempty"`
	DurationMs float64 `json:"duration,omitempty" msgpack:"duration,omitempty"`
	Damage     int     `json:"damage,omitempty" msgpack:"damage,omitempty"`
	Color      string  `json:"fillStyle" msgpack:"fillStyle"`
}

func abilityInfos(reg *game.Registry) []AbilityInfo {
	defs := reg.Definitions()
	out := make([]AbilityInfo, 0, len(defs))
	for _, d := range defs {
		out = append(out, AbilityInfo{
			ID: d.ID, Kind: d.Kind.String(), Speed: d.Speed, LifetimeMs: d.LifetimeMs,
			Range: d.Range, DurationMs: d.DurationMs, Damage: d.Damage, Color: d.Color,
		})
	}
	return out
}

type DebugMsg struct {
	Msg string `json:"msg" msgpack:"msg"`
}
