package game

import "testing"

func TestRectIntersects(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 32, H: 32}
	if !a.Intersects(Rect{X: 31, Y: 31, W: 32, H: 32}) {
		t.Error("overlapping rects should intersect")
	}
	if a.Intersects(Rect{X: 32, Y: 0, W: 32, H: 32}) {
		t.Error("touching edges should not intersect")
	}
	if a.Intersects(Rect{X: 100, Y: 100, W: 1, H: 1}) {
		t.Error("far rects should not intersect")
	}
}

func blockedCenterMap(t *testing.T) *TileMap {
	t.Helper()
	tm, err := NewTileMap(
		[][]int{{1, 1, 1}, {1, 1, 1}, {1, 1, 1}},
		[][]int{{0, 0, 0}, {0, 5, 0}, {0, 0, 0}},
	)
	if err != nil {
		t.Fatal(err)
	}
	return tm
}

func TestMapCollides(t *testing.T) {
	tm := blockedCenterMap(t)
	if tm.Collides(Rect{X: 0, Y: 32, W: 32, H: 32}, false) {
		t.Error("box on free tile should not collide")
	}
	if !tm.Collides(Rect{X: 1, Y: 32, W: 32, H: 32}, false) {
		t.Error("box overlapping blocked tile by 1px should collide")
	}
	if tm.Collides(Rect{X: -10, Y: 0, W: 32, H: 32}, false) {
		t.Error("edges are open by default")
	}
	if !tm.Collides(Rect{X: -10, Y: 0, W: 32, H: 32}, true) {
		t.Error("edges should block when enabled")
	}
	if !tm.Collides(Rect{X: 70, Y: 0, W: 32, H: 32}, true) {
		t.Error("leaving right edge should block when enabled")
	}
}
