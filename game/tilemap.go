package game

import (
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/multierr"
)

// TileSize 每个格子的像素边长
const TileSize = 32

// TileMap 静态地图：地面层仅用于显示，贴花层同时作为碰撞层
// 加载后不可变，可在多个房间/协程间共享读取
type TileMap struct {
	Ground [][]int `json:"ground" msgpack:"ground"`
	Decal  [][]int `json:"decal" msgpack:"decal"`

	rows int
	cols int
}

// NewTileMap 校验两层网格并构造地图（一次性校验，Tick 中不再做越界恢复）
func NewTileMap(ground, decal [][]int) (*TileMap, error) {
	var err error
	err = multierr.Append(err, validateLayer("ground", ground))
	err = multierr.Append(err, validateLayer("decal", decal))
	if err == nil && (len(ground) != len(decal) || len(ground[0]) != len(decal[0])) {
		err = fmt.Errorf("layer shape mismatch: ground %dx%d, decal %dx%d",
			len(ground), len(ground[0]), len(decal), len(decal[0]))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMap, err)
	}
	return &TileMap{Ground: ground, Decal: decal, rows: len(decal), cols: len(decal[0])}, nil
}

func validateLayer(name string, layer [][]int) error {
	if len(layer) == 0 || len(layer[0]) == 0 {
		return fmt.Errorf("%s layer is empty", name)
	}
	var err error
	width := len(layer[0])
	for r, row := range layer {
		if len(row) != width {
			err = multierr.Append(err, fmt.Errorf("%s row %d has %d cells, want %d", name, r, len(row), width))
			continue
		}
		for c, id := range row {
			if id < 0 {
				err = multierr.Append(err, fmt.Errorf("%s cell (%d,%d) has negative tile id %d", name, r, c, id))
			}
		}
	}
	return err
}

// LoadTileMap 从 JSON 文件读取地图：{"ground": [[...]], "decal": [[...]]}
func LoadTileMap(path string) (*TileMap, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read map %s: %w", path, err)
	}
	var doc struct {
		Ground [][]int `json:"ground"`
		Decal  [][]int `json:"decal"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrInvalidMap, path, err)
	}
	return NewTileMap(doc.Ground, doc.Decal)
}

// DefaultTileMap 生成 cols x rows 的默认地图：草地铺满，四周一圈墙
func DefaultTileMap(cols, rows int) *TileMap {
	ground := make([][]int, rows)
	decal := make([][]int, rows)
	for r := 0; r < rows; r++ {
		ground[r] = make([]int, cols)
		decal[r] = make([]int, cols)
		for c := 0; c < cols; c++ {
			ground[r][c] = 1
			if r == 0 || c == 0 || r == rows-1 || c == cols-1 {
				decal[r][c] = 2
			}
		}
	}
	return &TileMap{Ground: ground, Decal: decal, rows: rows, cols: cols}
}

func (m *TileMap) Rows() int { return m.rows }
func (m *TileMap) Cols() int { return m.cols }

// PixelWidth / PixelHeight 地图像素尺寸
func (m *TileMap) PixelWidth() float64  { return float64(m.cols * TileSize) }
func (m *TileMap) PixelHeight() float64 { return float64(m.rows * TileSize) }

// TileAt 返回贴花层 (row, col) 的 tile id，越界返回 false
func (m *TileMap) TileAt(row, col int) (int, bool) {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		return 0, false
	}
	return m.Decal[row][col], true
}

// IsBlocking 贴花层存在 tile（id 非 0）即为阻挡
func (m *TileMap) IsBlocking(row, col int) bool {
	id, ok := m.TileAt(row, col)
	return ok && id != 0
}
