package game

import "math"

// Rect 轴对齐包围盒（左上角 + 宽高）
type Rect struct {
	X, Y, W, H float64
}

// Intersects 严格 AABB 相交，边缘相切不算碰撞
func (a Rect) Intersects(b Rect) bool {
	return a.X < b.X+b.W &&
		a.X+a.W > b.X &&
		a.Y < b.Y+b.H &&
		a.Y+a.H > b.Y
}

func tileRect(row, col int) Rect {
	return Rect{X: float64(col * TileSize), Y: float64(row * TileSize), W: TileSize, H: TileSize}
}

// Collides 判断包围盒是否与贴花层任意阻挡格相交
// edgesBlock 为 true 时，超出地图范围同样视为碰撞
func (m *TileMap) Collides(box Rect, edgesBlock bool) bool {
	if edgesBlock && (box.X < 0 || box.Y < 0 ||
		box.X+box.W > m.PixelWidth() || box.Y+box.H > m.PixelHeight()) {
		return true
	}
	// 只扫描包围盒覆盖到的格子，结果与全图扫描一致
	c0 := max(int(math.Floor(box.X/TileSize)), 0)
	c1 := min(int(math.Ceil((box.X+box.W)/TileSize))-1, m.cols-1)
	r0 := max(int(math.Floor(box.Y/TileSize)), 0)
	r1 := min(int(math.Ceil((box.Y+box.H)/TileSize))-1, m.rows-1)
	for r := r0; r <= r1; r++ {
		for c := c0; c <= c1; c++ {
			if m.IsBlocking(r, c) && box.Intersects(tileRect(r, c)) {
				return true
			}
		}
	}
	return false
}
