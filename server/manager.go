package server

import (
	"context"

	"github.com/sasha-s/go-deadlock"

	"snowarena/game"
)

// DefaultRoom 未指定房间时使用
const DefaultRoom = "room-1"

// RoomManager 管理多个房间的生命周期；所有房间共享同一张只读地图与技能表
type RoomManager struct {
	ctx      context.Context
	tm       *game.TileMap
	registry *game.Registry
	cfg      game.Config

	mu    deadlock.RWMutex
	rooms map[string]*Room
}

func NewRoomManager(ctx context.Context, tm *game.TileMap, reg *game.Registry, cfg game.Config) *RoomManager {
	return &RoomManager{
		ctx:      ctx,
		tm:       tm,
		registry: reg,
		cfg:      cfg,
		rooms:    make(map[string]*Room),
	}
}

// GetOrCreateRoom 获取或创建房间，并确保开始 Tick
func (m *RoomManager) GetOrCreateRoom(id string) *Room {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[id]
	if !ok {
		r = NewRoom(id, m.tm, m.registry, m.cfg)
		m.rooms[id] = r
		r.StartTicker(m.ctx)
		Log.Infow("room created", "room", id)
	}
	return r
}

// Room 查找已存在的房间
func (m *RoomManager) Room(id string) (*Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[id]
	return r, ok
}
