package game

// InputState 玩家当前按键意图；每条输入消息整体覆盖，没有序列号
type InputState struct {
	Up    bool `json:"up" msgpack:"up"`
	Down  bool `json:"down" msgpack:"down"`
	Left  bool `json:"left" msgpack:"left"`
	Right bool `json:"right" msgpack:"right"`
}

// InputUpdate 入站输入消息，缺失字段为 nil，表示该字段保持不变
type InputUpdate struct {
	Up    *bool `json:"up,omitempty" msgpack:"up,omitempty"`
	Down  *bool `json:"down,omitempty" msgpack:"down,omitempty"`
	Left  *bool `json:"left,omitempty" msgpack:"left,omitempty"`
	Right *bool `json:"right,omitempty" msgpack:"right,omitempty"`
}

// Complete 四个字段是否齐全
func (u InputUpdate) Complete() bool {
	return u.Up != nil && u.Down != nil && u.Left != nil && u.Right != nil
}

// Apply 用更新覆盖当前状态；缺失字段视为该字段无操作
func (u InputUpdate) Apply(cur InputState) InputState {
	if u.Up != nil {
		cur.Up = *u.Up
	}
	if u.Down != nil {
		cur.Down = *u.Down
	}
	if u.Left != nil {
		cur.Left = *u.Left
	}
	if u.Right != nil {
		cur.Right = *u.Right
	}
	return cur
}

// Vertical 纵向方向：-1 上，1 下，0 不动；同时按下时上优先
func (in InputState) Vertical() int {
	switch {
	case in.Up:
		return -1
	case in.Down:
		return 1
	}
	return 0
}

// Horizontal 横向方向：1 右，-1 左，0 不动；同时按下时右优先
func (in InputState) Horizontal() int {
	switch {
	case in.Right:
		return 1
	case in.Left:
		return -1
	}
	return 0
}

// Merge 合并两条尚未生效的更新：next 中出现的字段覆盖 u，缺失字段沿用 u
func (u InputUpdate) Merge(next InputUpdate) InputUpdate {
	if next.Up != nil {
		u.Up = next.Up
	}
	if next.Down != nil {
		u.Down = next.Down
	}
	if next.Left != nil {
		u.Left = next.Left
	}
	if next.Right != nil {
		u.Right = next.Right
	}
	return u
}
